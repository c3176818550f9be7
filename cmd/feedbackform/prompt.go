package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-feedbackform/pkg/renderers/tui"
	"github.com/goliatone/go-feedbackform/pkg/session"
)

func newPromptCmd(a *app) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill in the feedback form interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.sessionOptions(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			ctrl := session.New(opts...)
			defer ctrl.Close()

			runnerOpts := []tui.Option{tui.WithLogger(a.logger)}
			if once {
				runnerOpts = append(runnerOpts, tui.WithSingleSubmission())
			}
			runner, err := tui.New(ctrl, runnerOpts...)
			if err != nil {
				return err
			}

			err = runner.Run(cmd.Context())
			if errors.Is(err, tui.ErrAborted) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "exit after the first accepted submission")
	return cmd
}
