package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-feedbackform/pkg/server"
	"github.com/goliatone/go-feedbackform/pkg/session"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the feedback form over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.sessionOptions(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			srv, err := server.New(
				server.WithLogger(a.logger),
				server.WithControllerFactory(func() *session.Controller {
					return session.New(opts...)
				}),
				server.WithSessionTTL(a.cfg.Server.SessionTTL),
				server.WithRefreshSeconds(a.cfg.Server.RefreshSeconds),
				server.WithCookieName(a.cfg.Server.CookieName),
			)
			if err != nil {
				return err
			}

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			return srv.Run(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to server.addr)")
	return cmd
}
