package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/docstore-io/couch-client/pkg/couchclient"
	"github.com/docstore-io/couch-client/pkg/couchdb"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		server   string
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to a CouchDB server",
		Long:  "Authenticate against a CouchDB server and store the session settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if server == "" {
				server = viper.GetString("server")
			}

			if server == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Server URL: ")
				server, _ = reader.ReadString('\n')
				server = strings.TrimSpace(server)
			}

			if server == "" {
				return ErrServerRequired
			}

			if username == "" {
				username = viper.GetString("username")
			}

			if username == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Username: ")
				username, _ = reader.ReadString('\n')
				username = strings.TrimSpace(username)
			}

			if password == "" {
				fmt.Print("Password: ")
				bytePassword, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = string(bytePassword)
				fmt.Println()
			}

			client, err := couchclient.New(&couchdb.Config{
				URL:           server,
				Username:      username,
				Password:      password,
				AuthType:      couchdb.AuthTypeCookie,
				SkipTLSVerify: viper.GetBool("skip-ssl-validation"),
			})
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			// Verify the credentials against the server before persisting
			session, err := client.Server().GetSession(context.Background())
			if err != nil {
				return fmt.Errorf("failed to authenticate: %w", err)
			}

			if err := persistLogin(server, username, password); err != nil {
				return err
			}

			fmt.Printf("Logged in to %s as %s\n", server, session.UserCtx.Name)

			return nil
		},
	}

	cmd.Flags().StringVarP(&server, "server", "s", "", "server URL")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted if omitted)")

	return cmd
}

// persistLogin stores the working connection settings in the config file.
func persistLogin(server, username, password string) error {
	viper.Set("server", server)
	viper.Set("username", username)
	viper.Set("password", password)

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}

		cfgFile = filepath.Join(home, ".couch", "config.yml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
