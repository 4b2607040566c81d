package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pgray/antenna/internal/service"
)

func favoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage pinned catalog items",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			favs := a.users.Favorites(a.userID())
			printHeader("Favorites", len(favs))
			for _, f := range favs {
				printRow(strconv.Itoa(f.ID), f.Name, f.Kind)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add (live|movie|series) <id> <name>",
		Short: "Pin a catalog item",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid item ID %q", args[1])
			}
			name := strings.Join(args[2:], " ")

			return a.users.AddFavorite(a.userID(), kind, id, name)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm (live|movie|series) <id>",
		Short: "Unpin a catalog item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid item ID %q", args[1])
			}

			return a.users.RemoveFavorite(a.userID(), kind, id)
		},
	})

	return cmd
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show watch history",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			entries := a.users.History(a.userID())
			printHeader("History", len(entries))
			for _, e := range entries {
				when := time.Unix(e.UpdatedAt, 0).Format("2006-01-02 15:04")
				printRow(strconv.Itoa(e.ID), e.Name, fmt.Sprintf("%s, %s", e.Kind, when))
			}
			return nil
		},
	}
}

func pinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Manage the parental-control PIN",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Set the parental-control PIN",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Print("New PIN: ")
			pin, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("failed to read PIN: %w", err)
			}

			if err := a.users.SetPIN(a.userID(), string(pin)); err != nil {
				return err
			}
			fmt.Println("PIN set")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Check a PIN against the stored one",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Print("PIN: ")
			pin, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("failed to read PIN: %w", err)
			}

			if !a.users.VerifyPIN(a.userID(), string(pin)) {
				return fmt.Errorf("wrong PIN")
			}
			fmt.Println("OK")
			return nil
		},
	})

	return cmd
}

func parseKind(s string) (string, error) {
	switch s {
	case service.KindLive, service.KindMovie, service.KindSeries:
		return s, nil
	default:
		return "", fmt.Errorf("unknown kind %q (want live, movie or series)", s)
	}
}
