package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// NewDocumentsCommand creates the docs command group
func NewDocumentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "docs",
		Aliases: []string{"documents"},
		Short:   "Manage documents",
		Long:    "Get, put, and delete documents",
	}

	cmd.AddCommand(newDocumentsGetCommand())
	cmd.AddCommand(newDocumentsPutCommand())
	cmd.AddCommand(newDocumentsDeleteCommand())

	return cmd
}

func newDocumentsGetCommand() *cobra.Command {
	var rev string

	cmd := &cobra.Command{
		Use:   "get DATABASE DOC_ID",
		Short: "Get a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			var opts *couchdb.DocumentGetOptions
			if rev != "" {
				opts = &couchdb.DocumentGetOptions{Rev: &rev}
			}

			doc, err := client.Documents().Get(context.Background(), args[0], args[1], opts)
			if err != nil {
				return fmt.Errorf("failed to get document: %w", err)
			}

			return renderStructured(doc)
		},
	}

	cmd.Flags().StringVar(&rev, "rev", "", "fetch a specific revision")

	return cmd
}

func newDocumentsPutCommand() *cobra.Command {
	var (
		data string
		file string
		rev  string
	)

	cmd := &cobra.Command{
		Use:   "put DATABASE DOC_ID",
		Short: "Create or update a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := []byte(data)
			if file != "" {
				contents, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("reading document file: %w", err)
				}
				raw = contents
			}

			if len(raw) == 0 {
				return ErrDocumentBodyRequired
			}

			var doc map[string]any
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("parsing document body: %w", err)
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			var opts *couchdb.DocumentPutOptions
			if rev != "" {
				opts = &couchdb.DocumentPutOptions{Rev: &rev}
			}

			result, err := client.Documents().Put(context.Background(), args[0], args[1], doc, opts)
			if err != nil {
				return fmt.Errorf("failed to put document: %w", err)
			}

			fmt.Printf("Wrote %s revision %s\n", result.ID, result.Rev)

			return nil
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "document body as inline JSON")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the document body from a file")
	cmd.Flags().StringVar(&rev, "rev", "", "revision being updated")

	return cmd
}

func newDocumentsDeleteCommand() *cobra.Command {
	var rev string

	cmd := &cobra.Command{
		Use:   "delete DATABASE DOC_ID",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			docs := client.Documents()

			if rev == "" {
				// Resolve the current revision so a bare delete works
				current, err := docs.Head(context.Background(), args[0], args[1])
				if err != nil {
					return fmt.Errorf("failed to resolve revision: %w", err)
				}
				rev = current
			}

			result, err := docs.Delete(context.Background(), args[0], args[1], &couchdb.DocumentDeleteOptions{Rev: &rev})
			if err != nil {
				return fmt.Errorf("failed to delete document: %w", err)
			}

			fmt.Printf("Deleted %s revision %s\n", result.ID, result.Rev)

			return nil
		},
	}

	cmd.Flags().StringVar(&rev, "rev", "", "revision to delete (defaults to the current one)")

	return cmd
}
