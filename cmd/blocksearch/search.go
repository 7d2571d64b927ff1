package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blockvault/blocksearch/internal/index"
	"github.com/blockvault/blocksearch/internal/library"
)

func searchCmd() *cobra.Command {
	var (
		caseSensitive bool
		wholeWord     bool
		limit         int
		workers       int
	)

	cmd := &cobra.Command{
		Use:   "search DIR TERM...",
		Short: "Load a directory of documents and search their blocks",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			term := strings.Join(args[1:], " ")
			return runSearch(dir, term, caseSensitive, wholeWord, limit, workers)
		},
	}

	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match case exactly")
	cmd.Flags().BoolVar(&wholeWord, "whole-word", false, "match whole words only")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum results to print")
	cmd.Flags().IntVar(&workers, "workers", 4, "parallel extraction workers")
	return cmd
}

func runSearch(dir, term string, caseSensitive, wholeWord bool, limit, workers int) error {
	// Quiet logger: warnings about skipped files still matter on the CLI.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	lib := library.New(log)
	n, err := lib.LoadDir(context.Background(), dir, workers)
	if err != nil {
		return err
	}

	results, err := lib.Search(index.Query{
		Term:          term,
		CaseSensitive: caseSensitive,
		WholeWord:     wholeWord,
	})
	if err != nil {
		return err
	}

	docNames := make(map[string]string)
	for _, doc := range lib.List() {
		docNames[doc.ID] = doc.Name
	}

	title := color.New(color.FgGreen, color.Bold)
	meta := color.New(color.FgCyan)
	faint := color.New(color.Faint)

	total := len(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	for i, res := range results {
		title.Printf("%d. %s", i+1, res.Block.Title)
		meta.Printf("  [%s #%d, score %d]\n", docNames[res.Block.DocumentID], res.Block.Position, res.Score)
		if line := firstBodyMatch(res); line != "" {
			faint.Printf("   %s\n", line)
		}
	}

	fmt.Printf("\n%d matching blocks across %d documents (showing %d)\n", total, n, len(results))
	return nil
}

// firstBodyMatch returns the first body line a span points at, so each
// result prints one line of matching context.
func firstBodyMatch(res index.Result) string {
	for _, s := range res.Spans {
		if s.Field == "body" && s.Line < len(res.Block.Body) {
			return strings.TrimSpace(res.Block.Body[s.Line])
		}
	}
	if len(res.Block.Body) > 0 {
		return strings.TrimSpace(res.Block.Body[0])
	}
	return ""
}
