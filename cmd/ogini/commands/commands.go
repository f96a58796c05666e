package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oginisearch/ogini-go/config"
	"github.com/oginisearch/ogini-go/engine"
	"github.com/oginisearch/ogini-go/version"

	"github.com/spf13/cobra"
)

// loadEngine loads configuration and wires an engine for a command run
func loadEngine(ctx context.Context, configFile string) (*engine.Engine, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}
	e, err := engine.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %v", err)
	}
	return e, nil
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			version.Print()
		},
	}
}

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check upstream and connection pool health",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context(), configFile)
			if err != nil {
				return err
			}
			defer e.Close()

			status, report, err := e.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health check failed: %v", err)
			}
			fmt.Printf("upstream: %s\n", status.Status)
			for id, h := range report {
				if h.Healthy {
					fmt.Printf("connection %d: healthy (status %d)\n", id, h.StatusCode)
				} else {
					fmt.Printf("connection %d: unhealthy: %s\n", id, h.Error)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "config file path")
	return cmd
}

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	var configFile string
	var size int

	cmd := &cobra.Command{
		Use:   "search <index> <query>",
		Short: "Run a search query against an index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context(), configFile)
			if err != nil {
				return err
			}
			defer e.Close()

			body := map[string]any{"query": args[1]}
			if size > 0 {
				body["size"] = size
			}
			res, err := e.Search(cmd.Context(), args[0], body)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "config file path")
	cmd.Flags().IntVar(&size, "size", 10, "number of hits to return")
	return cmd
}

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "analyze <query>",
		Short: "Analyze query complexity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context(), configFile)
			if err != nil {
				return err
			}
			defer e.Close()

			analysis := e.Analyze(map[string]any{"query": args[0]})
			out, err := json.MarshalIndent(analysis, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "config file path")
	return cmd
}

// NewIndexCommand creates the index management command
func NewIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index management commands",
	}

	cmd.AddCommand(
		newIndexCreateCommand(),
		newIndexDeleteCommand(),
	)

	return cmd
}

func newIndexCreateCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context(), configFile)
			if err != nil {
				return err
			}
			defer e.Close()

			info, err := e.Client().CreateIndex(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			fmt.Printf("index %s created (status %s)\n", info.Name, info.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "config file path")
	return cmd
}

func newIndexDeleteCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context(), configFile)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.Client().DeleteIndex(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("index %s deleted\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "config file path")
	return cmd
}

// NewCacheCommand creates the cache management command
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Cache management commands",
	}

	var configFile string
	flush := &cobra.Command{
		Use:   "flush",
		Short: "Flush the query cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context(), configFile)
			if err != nil {
				return err
			}
			defer e.Close()

			e.FlushCache(cmd.Context())
			fmt.Println("cache flushed")
			return nil
		},
	}
	flush.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "config file path")

	cmd.AddCommand(flush)
	return cmd
}
