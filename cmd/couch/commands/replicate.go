package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// NewReplicateCommand creates the replicate command
func NewReplicateCommand() *cobra.Command {
	var (
		source       string
		target       string
		continuous   bool
		createTarget bool
	)

	cmd := &cobra.Command{
		Use:   "replicate",
		Short: "Replicate between databases",
		Long:  "Trigger a replication between a source and a target database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == "" || target == "" {
				return ErrSourceTargetRequired
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			request := &couchdb.ReplicationRequest{
				Source: source,
				Target: target,
			}
			if continuous {
				request.Continuous = &continuous
			}
			if createTarget {
				request.CreateTarget = &createTarget
			}

			result, err := client.Replication().Replicate(context.Background(), request)
			if err != nil {
				return fmt.Errorf("failed to replicate: %w", err)
			}

			if result.OK {
				fmt.Println("Replication accepted")
			}

			return renderStructured(result)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "source database name or URL")
	cmd.Flags().StringVar(&target, "target", "", "target database name or URL")
	cmd.Flags().BoolVar(&continuous, "continuous", false, "run the replication continuously")
	cmd.Flags().BoolVar(&createTarget, "create-target", false, "create the target database if missing")

	return cmd
}
