package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/oginisearch/ogini-go/batch"
	"github.com/oginisearch/ogini-go/client"

	"github.com/spf13/cobra"
)

// NewImportCommand creates the import command: bulk-indexes newline
// delimited JSON documents from a file
func NewImportCommand() *cobra.Command {
	var configFile string
	var idField string

	cmd := &cobra.Command{
		Use:   "import <index> <file>",
		Short: "Bulk import NDJSON documents into an index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context(), configFile)
			if err != nil {
				return err
			}
			defer e.Close()

			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open import file: %v", err)
			}
			defer f.Close()

			var records []any
			scanner := bufio.NewScanner(f)
			scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
			for scanner.Scan() {
				line := scanner.Bytes()
				if len(line) == 0 {
					continue
				}
				var record map[string]any
				if err := json.Unmarshal(line, &record); err != nil {
					return fmt.Errorf("invalid JSON line: %v", err)
				}
				records = append(records, record)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read import file: %v", err)
			}

			mapFn := func(record any) (client.Document, error) {
				fields, ok := record.(map[string]any)
				if !ok {
					return client.Document{}, fmt.Errorf("record is not an object")
				}
				id, _ := fields[idField].(string)
				if id == "" {
					return client.Document{}, fmt.Errorf("record has no %q field", idField)
				}
				return client.Document{ID: id, Fields: fields}, nil
			}

			res := e.IndexRecords(cmd.Context(), args[0], records, batch.Mapper(mapFn))
			fmt.Printf("processed %d/%d documents (%.2f%% success) in %s\n",
				res.Processed, res.Total, res.SuccessRate, res.Duration)
			for _, entry := range res.Errors {
				fmt.Printf("error (batch %d, document %s): %s\n", entry.Batch, entry.DocumentID, entry.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "config file path")
	cmd.Flags().StringVar(&idField, "id-field", "id", "document field holding the ID")
	return cmd
}
