package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// NewFindCommand creates the find command
func NewFindCommand() *cobra.Command {
	var (
		selector string
		fields   []string
		limit    int64
	)

	cmd := &cobra.Command{
		Use:   "find DATABASE",
		Short: "Query documents with a Mango selector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if selector == "" {
				return ErrSelectorRequired
			}

			var parsed map[string]any
			if err := json.Unmarshal([]byte(selector), &parsed); err != nil {
				return fmt.Errorf("parsing selector: %w", err)
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			opts := &couchdb.FindOptions{}
			if len(fields) > 0 {
				opts.Fields = fields
			}
			if limit > 0 {
				opts.Limit = &limit
			}

			result, err := client.Queries().Find(context.Background(), args[0], parsed, opts)
			if err != nil {
				return fmt.Errorf("failed to query: %w", err)
			}

			return renderStructured(result.Docs)
		},
	}

	cmd.Flags().StringVar(&selector, "selector", "", "Mango selector as JSON")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "fields to include in the result")
	cmd.Flags().Int64Var(&limit, "limit", 0, "maximum number of results")

	return cmd
}
