package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-feedbackform/internal/config"
	"github.com/goliatone/go-feedbackform/internal/logging"
	"github.com/goliatone/go-feedbackform/pkg/session"
	"github.com/goliatone/go-feedbackform/pkg/sink"
)

// app carries state shared by every subcommand once the root pre-run has
// resolved configuration and logging.
type app struct {
	configPath string
	logLevel   string

	cfg     config.Config
	logger  *zap.Logger
	cleanup func() error
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:               "feedbackform",
		Short:             "Collect training feedback from the terminal or the browser",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(newPromptCmd(a), newServeCmd(a), newSchemaCmd(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.WithFile(a.configPath))
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, cleanup, err := logging.New(cfg.Log, logging.WithOutput(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.cleanup = cleanup
	logger.Debug("configuration loaded",
		zap.String("output", cfg.Output),
		zap.Duration("submit_delay", cfg.SubmitDelay),
	)
	return nil
}

func (a *app) teardown() error {
	if a.cleanup == nil {
		return nil
	}
	err := a.cleanup()
	a.cleanup = nil
	return err
}

// sessionOptions translates configuration into controller options. The log
// sink always runs; a writer sink is added when an output format is set.
func (a *app) sessionOptions(out io.Writer) ([]session.Option, error) {
	submissions, err := buildSink(a.cfg, a.logger, out)
	if err != nil {
		return nil, err
	}
	return []session.Option{
		session.WithLogger(a.logger),
		session.WithSubmitDelay(a.cfg.SubmitDelay),
		session.WithSink(submissions),
	}, nil
}

func buildSink(cfg config.Config, logger *zap.Logger, out io.Writer) (sink.Sink, error) {
	logSink := sink.NewLogSink(logger)
	if cfg.Output == config.OutputLog {
		return logSink, nil
	}

	format, err := sink.ParseOutputFormat(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("feedbackform: %w", err)
	}
	writerOpts := []sink.WriterOption{sink.WithFormat(format)}
	if cfg.Sanitize {
		writerOpts = append(writerOpts, sink.WithStrictSanitizer())
	}
	return sink.Multi(logSink, sink.NewWriterSink(out, writerOpts...)), nil
}
