package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "antenna",
		Short:         "Headless Xtream Codes client with a persisted catalog cache",
		Long:          "antenna browses an IPTV provider's live, VOD and series catalogs,\ncaching them locally so repeated lookups stay off the network.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		loginCmd(),
		logoutCmd(),
		categoriesCmd(),
		moviesCmd(),
		seriesCmd(),
		liveCmd(),
		searchCmd(),
		urlCmd(),
		cacheCmd(),
		favoritesCmd(),
		historyCmd(),
		pinCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("antenna %s\n", Version)
		},
	}
}
