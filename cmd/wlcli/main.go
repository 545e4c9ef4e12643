package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/go-watchlist/watchlist/cmd/watchlist/config"
	"github.com/go-watchlist/watchlist/internal/version"
	"github.com/go-watchlist/watchlist/storage"
)

// opener opens the storage a command works on
type opener func() (*storage.Storage, error)

func newRootCmd(open opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wlcli",
		Short:         "wlcli can help you manage your watchlist",
		Long:          "wlcli can help you manage your watchlist",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		newInitDBCmd(open),
		newForgeCmd(open),
		newAdminCmd(open),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version.VERSION)
			},
		},
	)
	return rootCmd
}

func main() {
	var configFile string
	open := func() (*storage.Storage, error) {
		if err := config.LoadFile(configFile); err != nil {
			return nil, err
		}
		return config.LoadStorage(config.Get())
	}
	rootCmd := newRootCmd(open)
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "the config file to use")
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
