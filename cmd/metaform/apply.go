package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-metaform/pkg/editor"
	"github.com/goliatone/go-metaform/pkg/gesture"
	"github.com/goliatone/go-metaform/pkg/metaform"
)

type applyOptions struct {
	events []string
	strict bool
}

func newApplyCommand(a *app) *cobra.Command {
	var opts applyOptions
	cmd := &cobra.Command{
		Use:   "apply <file|url>",
		Short: "Apply drop events to a Metaform and print the result",
		Long: `Replay one or more drop events against a Metaform document and print
the resulting document as JSON.

Examples:
  metaform apply form.json --event '{"draggableId":"section-1","sourceId":"sections","destinationId":"sections","destinationIndex":0}'
  metaform apply form.json --event '{"draggableId":"add-field-email","sourceId":"add-field","destinationId":"0","destinationIndex":0}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.runApply(cmd.Context(), cmd.OutOrStdout(), doc, opts)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.events, "event", "e", nil, "drop event as JSON (repeatable)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when a drop is ignored")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

func (a *app) runApply(_ context.Context, out io.Writer, doc metaform.Document, opts applyOptions) error {
	session := editor.New(editor.WithLogger(a.logger))
	session.Load(doc)

	for i, raw := range opts.events {
		var ev gesture.DropEvent
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		g, err := session.Drop(ev)
		if err != nil {
			if opts.strict {
				return fmt.Errorf("event %d (%s): %w", i, g.Kind(), err)
			}
			a.logger.Warn("drop ignored", zap.Int("event", i), zap.String("gesture", fmt.Sprint(g)), zap.Error(err))
			continue
		}
		a.logger.Debug("drop applied", zap.Int("event", i), zap.String("gesture", fmt.Sprint(g)))
	}

	pending, _ := session.Pending()
	data, err := metaform.EncodeIndent(pending)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
