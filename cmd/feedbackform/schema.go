package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-feedbackform/pkg/model"
	"github.com/goliatone/go-feedbackform/pkg/openapi"
)

func newSchemaCmd(_ *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the OpenAPI description of the submit endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc := openapi.Document(openapi.Options{Title: model.FeedbackForm().Title})
			if err := openapi.Validate(cmd.Context(), doc); err != nil {
				return err
			}

			var (
				out []byte
				err error
			)
			switch format {
			case "json":
				out, err = openapi.MarshalJSON(doc)
				out = append(out, '\n')
			case "yaml":
				out, err = openapi.MarshalYAML(doc)
			default:
				return fmt.Errorf("feedbackform: unknown schema format %q", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	return cmd
}
