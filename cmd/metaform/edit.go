package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-metaform/internal/loader"
	"github.com/goliatone/go-metaform/pkg/drafts"
	"github.com/goliatone/go-metaform/pkg/editor"
	"github.com/goliatone/go-metaform/pkg/metaform"
	"github.com/goliatone/go-metaform/pkg/tui"
)

type editOptions struct {
	output string
	draft  bool
}

func newEditCommand(a *app) *cobra.Command {
	var opts editOptions
	cmd := &cobra.Command{
		Use:   "edit <file|url>",
		Short: "Edit a Metaform interactively",
		Long: `Open a Metaform document in the interactive editor.

Saving writes the document back to the input file, to --output, or to the
draft store when --draft is set. With --draft an existing draft for the
document id is opened instead of the source.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEdit(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write saves to this file instead of the source")
	cmd.Flags().BoolVar(&opts.draft, "draft", false, "load from and save to the draft store")
	return cmd
}

func (a *app) runEdit(ctx context.Context, raw string, opts editOptions) error {
	doc, src, err := a.load(ctx, raw)
	if err != nil {
		return err
	}

	var saver editor.Saver
	switch {
	case opts.draft:
		if doc.ID == "" {
			return fmt.Errorf("--draft needs a document id; %s has none", src.Location())
		}
		store, err := drafts.Open(ctx, a.cfg.Database, drafts.WithLogger(a.logger))
		if err != nil {
			return err
		}
		defer store.Close()

		draft, err := store.Get(ctx, doc.ID)
		switch {
		case err == nil:
			a.logger.Info("resuming draft", zap.String("metaform", doc.ID), zap.Time("updated", draft.UpdatedAt))
			doc = draft.Document
		case !errors.Is(err, drafts.ErrNotFound):
			return err
		}
		saver = drafts.Saver(store, doc.ID)
	case opts.output != "":
		saver = fileSaver(opts.output)
	case src.Kind() == metaform.SourceKindFile:
		saver = fileSaver(src.Location())
	default:
		a.logger.Warn("saving disabled for remote source; pass --output or --draft", zap.String("source", src.Location()))
	}

	sessionOpts := []editor.Option{editor.WithLogger(a.logger)}
	if a.cfg.Sanitize {
		sessionOpts = append(sessionOpts, editor.WithSanitizer())
	}
	session := editor.New(sessionOpts...)
	session.Load(doc)

	ed, err := tui.New(
		tui.WithPalette(a.cfg.PaletteTypes()),
		tui.WithSaver(saver),
		tui.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	if err := ed.Run(ctx, session); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			return nil
		}
		return err
	}
	return nil
}

func (a *app) load(ctx context.Context, raw string) (metaform.Document, metaform.Source, error) {
	src, err := parseSource(raw)
	if err != nil {
		return metaform.Document{}, nil, err
	}
	l := loader.New(
		loader.WithHTTPFallback(a.cfg.FetchTimeout),
		loader.WithSanitize(a.cfg.Sanitize),
		loader.WithLogger(a.logger),
	)
	doc, err := l.Load(ctx, src)
	if err != nil {
		return metaform.Document{}, nil, err
	}
	return doc, src, nil
}

func fileSaver(path string) editor.Saver {
	return editor.SaverFunc(func(_ context.Context, doc metaform.Document) error {
		data, err := metaform.EncodeIndent(doc)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	})
}
