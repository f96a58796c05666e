package main

import (
	"fmt"
	"os"

	"github.com/oginisearch/ogini-go/cmd/ogini/commands"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "ogini",
		Short: "OginiSearch driver command line",
	}

	root.AddCommand(
		commands.NewVersionCommand(),
		commands.NewHealthCommand(),
		commands.NewSearchCommand(),
		commands.NewAnalyzeCommand(),
		commands.NewIndexCommand(),
		commands.NewImportCommand(),
		commands.NewCacheCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
