package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-metaform/pkg/importer"
	"github.com/goliatone/go-metaform/pkg/metaform"
)

type importOptions struct {
	operation    string
	output       string
	sectionTitle string
	submitTitle  string
	noSubmit     bool
	validate     bool
}

func newImportCommand(a *app) *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   "import <openapi-file>",
		Short: "Create a Metaform from an OpenAPI operation request body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			importOpts := []importer.Option{}
			if opts.noSubmit {
				importOpts = append(importOpts, importer.WithoutSubmit())
			}
			if opts.submitTitle != "" {
				importOpts = append(importOpts, importer.WithSubmitTitle(opts.submitTitle))
			}
			if opts.sectionTitle != "" {
				importOpts = append(importOpts, importer.WithSectionTitle(opts.sectionTitle))
			}
			if opts.validate {
				importOpts = append(importOpts, importer.WithValidation())
			}

			doc, err := importer.FromOpenAPI(cmd.Context(), raw, opts.operation, importOpts...)
			if err != nil {
				return err
			}
			data, err := metaform.EncodeIndent(doc)
			if err != nil {
				return err
			}
			if opts.output == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(opts.output, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			a.logger.Info("metaform written", zap.String("path", opts.output), zap.Int("fields", metaform.FieldCount(doc)))
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.operation, "operation", "", "operation ID to import")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.sectionTitle, "section-title", "", "title of the root section")
	cmd.Flags().StringVar(&opts.submitTitle, "submit-title", "", "title of the submit field")
	cmd.Flags().BoolVar(&opts.noSubmit, "no-submit", false, "omit the trailing submit field")
	cmd.Flags().BoolVar(&opts.validate, "validate", false, "validate the OpenAPI document before importing")
	_ = cmd.MarkFlagRequired("operation")
	return cmd
}
