package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "categories (vod|series|live)",
		Short:     "List catalog categories",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"vod", "series", "live"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.ensureSession(ctx); err != nil {
				return err
			}

			switch args[0] {
			case "vod":
				list, err := a.catalog.VodCategories(ctx)
				if err != nil {
					return err
				}
				printHeader("VOD categories", len(list))
				for _, c := range list {
					printRow(c.ID, c.Name, "")
				}
			case "series":
				list, err := a.catalog.SeriesCategories(ctx)
				if err != nil {
					return err
				}
				printHeader("Series categories", len(list))
				for _, c := range list {
					printRow(c.ID, c.Name, "")
				}
			case "live":
				// Live categories pass straight through; only VOD and series
				// catalogs are cached.
				list, err := a.client.LiveCategories(ctx)
				if err != nil {
					return err
				}
				printHeader("Live categories", len(list))
				for _, c := range list {
					printRow(c.ID, c.Name, "")
				}
			}
			return nil
		},
	}
}

func moviesCmd() *cobra.Command {
	var categoryID string

	cmd := &cobra.Command{
		Use:   "movies",
		Short: "List VOD entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.ensureSession(ctx); err != nil {
				return err
			}

			movies, err := a.catalog.VodStreams(ctx, categoryID)
			if err != nil {
				return err
			}

			printHeader("Movies", len(movies))
			for _, m := range movies {
				extra := ""
				if m.Rating > 0 {
					extra = fmt.Sprintf("%.1f", m.Rating)
				}
				printRow(strconv.Itoa(m.ID), m.Name, extra)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "Narrow to one category ID")
	return cmd
}

func seriesCmd() *cobra.Command {
	var categoryID string
	var showID int

	cmd := &cobra.Command{
		Use:   "series",
		Short: "List series, or show one series with --id",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.ensureSession(ctx); err != nil {
				return err
			}

			if showID > 0 {
				info, err := a.client.SeriesInfo(ctx, showID)
				if err != nil {
					return err
				}
				printHeader(info.Series.Name, len(info.Episodes))
				for season, eps := range info.Episodes {
					fmt.Println(dimStyle.Render(fmt.Sprintf("Season %d", season)))
					for _, ep := range eps {
						printRow(strconv.Itoa(ep.ID), ep.EpisodeCode()+" "+ep.Title, "")
					}
				}
				return nil
			}

			list, err := a.catalog.Series(ctx, categoryID)
			if err != nil {
				return err
			}

			printHeader("Series", len(list))
			for _, sr := range list {
				printRow(strconv.Itoa(sr.ID), sr.Name, sr.Genre)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "Narrow to one category ID")
	cmd.Flags().IntVar(&showID, "id", 0, "Show seasons and episodes for one series")
	return cmd
}

func liveCmd() *cobra.Command {
	var categoryID string

	cmd := &cobra.Command{
		Use:   "live",
		Short: "List live channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.ensureSession(ctx); err != nil {
				return err
			}

			channels, err := a.client.LiveStreams(ctx, categoryID)
			if err != nil {
				return err
			}

			printHeader("Live channels", len(channels))
			for _, ch := range channels {
				printRow(strconv.Itoa(ch.ID), ch.Name, ch.EPGChannelID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "Narrow to one category ID")
	return cmd
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search the VOD and series catalogs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.ensureSession(ctx); err != nil {
				return err
			}

			query := ""
			for i, arg := range args {
				if i > 0 {
					query += " "
				}
				query += arg
			}

			results, err := a.catalog.Search(ctx, query)
			if err != nil {
				return err
			}

			printHeader("Results", len(results))
			for _, r := range results {
				printRow(strconv.Itoa(r.ID), r.Name, r.Kind)
			}
			return nil
		},
	}
}

func urlCmd() *cobra.Command {
	var ext string

	cmd := &cobra.Command{
		Use:       "url (live|movie|episode) <id>",
		Short:     "Print the playback URL for a stream",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"live", "movie", "episode"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid stream ID %q", args[1])
			}

			switch args[0] {
			case "live":
				fmt.Println(a.client.LiveStreamURL(id))
			case "movie":
				fmt.Println(a.client.MovieStreamURL(id, ext))
			case "episode":
				fmt.Println(a.client.EpisodeStreamURL(id, ext))
			default:
				return fmt.Errorf("unknown stream kind %q", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ext, "ext", "", "Container extension (default mp4)")
	return cmd
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local catalog cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the catalog cache and rewarm it",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}

			a.catalog.ClearCache(cmd.Context())
			fmt.Println("Cache cleared")
			return nil
		},
	})

	return cmd
}
