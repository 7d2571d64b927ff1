// Command blocksearch indexes debate evidence documents into titled
// blocks and searches them, either as a one-shot CLI or as an HTTP
// service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "blocksearch",
		Short:         "Search debate evidence documents by block",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(splitCmd())
	return root
}
