// Package main provides the tubedata CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/tubedata/internal/youtube"
	"github.com/gauthierbraillon/tubedata/pkg/auth"
)

var version = "0.1.0"

func main() {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	if dir := os.Getenv("TUBEDATA_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tubedata")
}

// newLogger builds the CLI logger. Debug tracing is off unless requested.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// newAPIClient builds the API client from the environment: a saved OAuth
// token when one exists, otherwise the TUBEDATA_API_KEY.
func newAPIClient(verbose bool) (*youtube.Client, error) {
	opts := []youtube.ClientOption{
		youtube.WithLogger(newLogger(verbose)),
	}
	if url := os.Getenv("TUBEDATA_API_URL"); url != "" {
		opts = append(opts, youtube.WithBaseURL(url))
	}

	storage := auth.NewStorage(getConfigDir())
	token, err := storage.Load(auth.DomainYouTube)
	switch {
	case err == nil:
		config := auth.Config(
			os.Getenv("TUBEDATA_CLIENT_ID"),
			os.Getenv("TUBEDATA_CLIENT_SECRET"),
			"",
		)
		opts = append(opts, youtube.WithTokenSource(config.TokenSource(context.Background(), token)))
	case errors.Is(err, auth.ErrTokenNotFound):
		key := os.Getenv("TUBEDATA_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("no credentials: set TUBEDATA_API_KEY or save an OAuth token")
		}
		opts = append(opts, youtube.WithAPIKey(key))
	default:
		return nil, err
	}

	return youtube.NewClient(opts...), nil
}

// newRootCmd creates the root command for the tubedata CLI.
func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "tubedata",
		Short:   "Query the YouTube Data API",
		Long:    "Tubedata fetches videos, searches, and comment threads from the YouTube Data API.",
		Version: version,
	}

	rootCmd.SetVersionTemplate("tubedata version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newVideoCmd(&verbose))
	rootCmd.AddCommand(newSearchCmd(&verbose))
	rootCmd.AddCommand(newRelatedCmd(&verbose))
	rootCmd.AddCommand(newPopularCmd(&verbose))
	rootCmd.AddCommand(newCommentsCmd(&verbose))
	rootCmd.AddCommand(newExtractIDCmd())

	return rootCmd
}

// newVideoCmd creates the video subcommand.
func newVideoCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "video <id>",
		Short: "Fetch a single video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(*verbose)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			v, err := client.FetchVideo(ctx, args[0])
			if err != nil {
				if youtube.IsNotFound(err) {
					return fmt.Errorf("no video with ID %q", args[0])
				}
				return err
			}

			printVideo(cmd, v)
			return nil
		},
	}
}

// newSearchCmd creates the search subcommand.
func newSearchCmd(verbose *bool) *cobra.Command {
	var limit int
	var order string
	var safeSearch string
	var region string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search for videos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(*verbose)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			opts := []youtube.QueryOption{youtube.WithMaxResults(limit)}
			if order != "" {
				opts = append(opts, youtube.WithOrder(order))
			}
			if safeSearch != "" {
				opts = append(opts, youtube.WithSafeSearch(safeSearch))
			}
			if region != "" {
				opts = append(opts, youtube.WithRegion(region))
			}

			feed, err := client.QueryVideos(ctx, args[0], opts...)
			if err != nil {
				return err
			}

			printVideoFeed(cmd, feed)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of results")
	cmd.Flags().StringVarP(&order, "order", "o", "", "Result order (date, rating, relevance, viewCount)")
	cmd.Flags().StringVar(&safeSearch, "safe-search", "", "Restricted-content filtering (none, moderate, strict)")
	cmd.Flags().StringVarP(&region, "region", "r", "", "Restrict results to a country code")

	return cmd
}

// newRelatedCmd creates the related subcommand.
func newRelatedCmd(verbose *bool) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "related <video-id>",
		Short: "List videos related to a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(*verbose)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			feed, err := client.QueryRelatedVideos(ctx, youtube.NewVideo(args[0]),
				youtube.WithMaxResults(limit))
			if err != nil {
				return err
			}

			printVideoFeed(cmd, feed)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of results")

	return cmd
}

// newPopularCmd creates the popular subcommand.
func newPopularCmd(verbose *bool) *cobra.Command {
	var limit int
	var region string

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List the most popular videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(*verbose)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			opts := []youtube.QueryOption{youtube.WithMaxResults(limit)}
			if region != "" {
				opts = append(opts, youtube.WithRegion(region))
			}

			feed, err := client.QueryMostPopular(ctx, opts...)
			if err != nil {
				return err
			}

			printVideoFeed(cmd, feed)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of results")
	cmd.Flags().StringVarP(&region, "region", "r", "", "Restrict results to a country code")

	return cmd
}

// newCommentsCmd creates the comments subcommand.
func newCommentsCmd(verbose *bool) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "comments <video-id>",
		Short: "List the comments on a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(*verbose)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			feed, err := client.QueryComments(ctx, youtube.NewVideo(args[0]),
				youtube.WithMaxResults(limit))
			if err != nil {
				return err
			}

			for _, c := range feed.Comments() {
				author := "(unknown)"
				if a := c.Author(); a != nil {
					author = a.Name()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s):\n  %s\n",
					author, c.Published().Format("2006-01-02"), c.Content())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of results")

	return cmd
}

// newExtractIDCmd creates the extract-id subcommand.
func newExtractIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract-id <player-uri>",
		Short: "Extract the video ID from a player URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := youtube.ExtractVideoID(args[0])
			if id == "" {
				return fmt.Errorf("no video ID in %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func printVideo(cmd *cobra.Command, v *youtube.Video) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", v.Title())
	fmt.Fprintf(out, "  ID:        %s\n", v.ID())
	fmt.Fprintf(out, "  Channel:   %s\n", v.ChannelID())
	fmt.Fprintf(out, "  Published: %s\n", v.Published().Format("2006-01-02"))
	fmt.Fprintf(out, "  Duration:  %s\n", formatDuration(v.Duration()))
	fmt.Fprintf(out, "  Views:     %d\n", v.ViewCount())
	if r := v.Rating(); r.Count > 0 {
		fmt.Fprintf(out, "  Rating:    %.0f%% of %d\n", r.Average*100, r.Count)
	}
	if v.IsPrivate() {
		fmt.Fprintf(out, "  Private:   yes\n")
	}
	if state := v.State(); state.Name() != "" {
		fmt.Fprintf(out, "  State:     %s", state.Name())
		if state.ReasonCode() != "" {
			fmt.Fprintf(out, " (%s)", state.ReasonCode())
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "  Watch:     %s\n", v.PlayerURI())
}

func printVideoFeed(cmd *cobra.Command, feed *youtube.VideoFeed) {
	for _, v := range feed.Videos() {
		fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", v.ID(), v.Title())
	}
	if token := feed.NextPageToken(); token != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "(next page: %s)\n", token)
	}
}

func formatDuration(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	if d >= time.Hour {
		return fmt.Sprintf("%d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
	}
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
