package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewInfoCommand creates the info command
func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display server information",
		Long:  "Display version and feature information about the targeted server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			info, err := client.Server().GetInfo(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get server info: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON, OutputFormatYAML:
				return renderStructured(info)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Welcome", info.CouchDB)
				_ = table.Append("Version", info.Version)
				_ = table.Append("Vendor", info.Vendor.Name)
				_ = table.Append("Features", strings.Join(info.Features, ", "))
				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}
