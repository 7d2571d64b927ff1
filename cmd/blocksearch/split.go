package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blockvault/blocksearch/internal/block"
	"github.com/blockvault/blocksearch/internal/extract"
	"github.com/blockvault/blocksearch/internal/split"
)

func splitCmd() *cobra.Command {
	var (
		outDir  string
		zipPath string
	)

	cmd := &cobra.Command{
		Use:   "split FILE",
		Short: "Split a document into one JSON file per block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(args[0], outDir, zipPath)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: <file>_blocks)")
	cmd.Flags().StringVar(&zipPath, "zip", "", "write a zip archive instead of a directory")
	return cmd
}

func runSplit(path, outDir, zipPath string) error {
	ex, err := extract.ForFile(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	blocks, err := ex.Extract(f, filepath.Base(path))
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		return fmt.Errorf("%s: no blocks found", path)
	}

	doc := &block.Document{
		Name:   extract.Stem(path),
		Path:   path,
		Format: strings.ToLower(filepath.Ext(path)),
		Blocks: blocks,
	}

	if zipPath != "" {
		zf, err := os.Create(zipPath)
		if err != nil {
			return err
		}
		defer zf.Close()
		if err := split.WriteZip(doc, zf); err != nil {
			return err
		}
		fmt.Printf("wrote %d blocks to %s\n", len(blocks), zipPath)
		return nil
	}

	if outDir == "" {
		outDir = strings.TrimSuffix(path, filepath.Ext(path)) + "_blocks"
	}
	names, err := split.WriteBlocks(doc, outDir)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d blocks to %s\n", len(names), outDir)
	return nil
}
