// Package commands implements the couch CLI subcommands.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/docstore-io/couch-client/pkg/couchclient"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// Output formats.
const (
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"
)

// Common static errors used throughout the commands package.
var (
	ErrServerRequired       = errors.New("server URL is required (use --server or run 'couch login')")
	ErrDatabaseNameRequired = errors.New("database name is required")
	ErrDocumentIDRequired   = errors.New("document ID is required")
	ErrDocumentBodyRequired = errors.New("document body is required (use --data or --file)")
	ErrSelectorRequired     = errors.New("selector is required")
	ErrSourceTargetRequired = errors.New("source and target are required")
)

// createClient builds a client from the effective CLI configuration.
func createClient() (couchdb.Client, error) {
	server := viper.GetString("server")
	if server == "" {
		return nil, ErrServerRequired
	}

	config := &couchdb.Config{
		URL:           server,
		Username:      viper.GetString("username"),
		Password:      viper.GetString("password"),
		AuthType:      couchdb.AuthType(viper.GetString("auth-type")),
		SkipTLSVerify: viper.GetBool("skip-ssl-validation"),
	}

	client, err := couchclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return client, nil
}

// renderJSON writes v to stdout as indented JSON.
func renderJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}

	return nil
}

// renderYAML writes v to stdout as YAML.
func renderYAML(v any) error {
	encoder := yaml.NewEncoder(os.Stdout)

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}

	return encoder.Close()
}

// renderStructured writes v in the selected non-table output format.
func renderStructured(v any) error {
	if viper.GetString("output") == OutputFormatYAML {
		return renderYAML(v)
	}

	return renderJSON(v)
}
