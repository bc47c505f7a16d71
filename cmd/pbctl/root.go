package main

import (
	"os"

	"github.com/spf13/cobra"

	pbimages "github.com/Elementlead/PbimageS"
)

var rootCmd = &cobra.Command{
	Use:   "pbctl",
	Short: "Command line client for the PbimageS image sharing API",
	Long: `pbctl manages a PbimageS account and its image gallery from the terminal.

The session token is persisted under ~/.pbimages/token, so login survives
across invocations until the token expires or you log out.

Examples:
  pbctl register --username alice --email alice@example.com
  pbctl login --username alice
  pbctl upload cat.png --caption "my cat" --private
  pbctl list --private
  pbctl delete 01ARZ3NDEKTSV4RRFFQ69G5FAV
  pbctl logout`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("server", pbimages.DefaultBaseURL, "PbimageS API base URL (or PBIMAGES_SERVER)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(deleteCmd)
}

// newClient builds a client with the persistent token store and restores any
// saved session.
func newClient(cmd *cobra.Command) (*pbimages.Client, error) {
	server, _ := cmd.Flags().GetString("server")
	if env := os.Getenv("PBIMAGES_SERVER"); env != "" && !cmd.Flags().Changed("server") {
		server = env
	}

	tokenPath, err := pbimages.DefaultTokenPath()
	if err != nil {
		return nil, err
	}

	client := pbimages.NewClient(
		pbimages.WithBaseURL(server),
		pbimages.WithTokenStore(pbimages.NewFileTokenStore(tokenPath)),
	)
	client.Session.Initialize()
	return client, nil
}
