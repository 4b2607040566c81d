package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pgray/antenna/internal/config"
	"github.com/pgray/antenna/internal/log"
)

func loginCmd() *cobra.Command {
	var portalURL, username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Configure the provider portal and authenticate",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			reader := bufio.NewReader(os.Stdin)

			if portalURL == "" {
				portalURL = cfg.Provider.URL
			}
			if portalURL == "" {
				fmt.Print("Portal URL (e.g., http://portal.example.com:8080): ")
				input, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				portalURL = strings.TrimSpace(input)
			}

			if username == "" {
				username = cfg.Provider.Username
			}
			if username == "" {
				fmt.Print("Username: ")
				input, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				username = strings.TrimSpace(input)
			}

			fmt.Print("Password: ")
			passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			cfg.Provider.URL = strings.TrimRight(portalURL, "/")
			cfg.Provider.Username = username
			cfg.Provider.Password = string(passBytes)

			logger, err := log.SetupLogger(&cfg.Logging)
			if err != nil {
				logger = log.NullLogger()
			}
			slog.SetDefault(logger)

			a, err := wireApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			acct, err := a.session.Login(cmd.Context())
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if err := config.SaveConfig(cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Printf("Logged in as %s (%s)\n", acct.Username, acct.Status)
			if !acct.ExpiresAt.IsZero() {
				fmt.Printf("Subscription expires %s\n", acct.ExpiresAt.Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&portalURL, "url", "", "Portal base URL")
	cmd.Flags().StringVar(&username, "username", "", "Subscription username")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and wipe session-scoped data",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			a.session.Logout()

			if err := config.ClearProviderConfig(); err != nil {
				return fmt.Errorf("failed to clear provider config: %w", err)
			}

			fmt.Println("Logged out")
			return nil
		},
	}
}
