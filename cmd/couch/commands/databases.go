package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// NewDatabasesCommand creates the dbs command group
func NewDatabasesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dbs",
		Aliases: []string{"databases"},
		Short:   "Manage databases",
		Long:    "List, inspect, create, and delete databases",
	}

	cmd.AddCommand(newDatabasesListCommand())
	cmd.AddCommand(newDatabasesInfoCommand())
	cmd.AddCommand(newDatabasesCreateCommand())
	cmd.AddCommand(newDatabasesDeleteCommand())

	return cmd
}

func newDatabasesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List databases",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			dbs, err := client.Server().GetAllDbs(context.Background(), nil)
			if err != nil {
				return fmt.Errorf("failed to list databases: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON, OutputFormatYAML:
				return renderStructured(dbs)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Database")
				for _, db := range dbs {
					_ = table.Append(db)
				}
				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}

func newDatabasesInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info DATABASE",
		Short: "Display database information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			info, err := client.Databases().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get database: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON, OutputFormatYAML:
				return renderStructured(info)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Name", info.DBName)
				_ = table.Append("Documents", strconv.FormatInt(info.DocCount, 10))
				_ = table.Append("Deleted", strconv.FormatInt(info.DocDelCount, 10))
				_ = table.Append("Partitioned", strconv.FormatBool(info.Props.Partitioned))
				_ = table.Append("Compacting", strconv.FormatBool(info.CompactRunning))
				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}

func newDatabasesCreateCommand() *cobra.Command {
	var partitioned bool

	cmd := &cobra.Command{
		Use:   "create DATABASE",
		Short: "Create a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			var opts *couchdb.DatabaseCreateOptions
			if partitioned {
				opts = &couchdb.DatabaseCreateOptions{Partitioned: &partitioned}
			}

			if _, err := client.Databases().Create(context.Background(), args[0], opts); err != nil {
				return fmt.Errorf("failed to create database: %w", err)
			}

			fmt.Printf("Created database %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVar(&partitioned, "partitioned", false, "create a partitioned database")

	return cmd
}

func newDatabasesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DATABASE",
		Short: "Delete a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			if _, err := client.Databases().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete database: %w", err)
			}

			fmt.Printf("Deleted database %s\n", args[0])

			return nil
		},
	}
}
