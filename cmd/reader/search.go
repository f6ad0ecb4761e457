package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-news-reader/internal/reader"
)

var searchFlags struct {
	language string
	sortBy   string
	from     string
	to       string
	page     int
	pageSize int
}

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search the full article archive",
	Example: `  reader search monsoon forecast
  reader search --language en --sort popularity "union budget"
  reader search --from 2025-01-01 --to 2025-01-31 elections`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseDate(searchFlags.from)
		if err != nil {
			return fmt.Errorf("parse --from: %w", err)
		}
		to, err := parseDate(searchFlags.to)
		if err != nil {
			return fmt.Errorf("parse --to: %w", err)
		}

		api, err := app.apiClient()
		if err != nil {
			return err
		}
		svc := app.service(api, nil)

		articles, total, err := svc.Search(cmd.Context(), reader.SearchFilter{
			Query:    strings.Join(args, " "),
			Language: searchFlags.language,
			SortBy:   searchFlags.sortBy,
			From:     from,
			To:       to,
			Page:     searchFlags.page,
			PageSize: searchFlags.pageSize,
		})
		if err != nil {
			return err
		}

		printArticles(cmd.OutOrStdout(), articles, total)
		return nil
	},
}

// parseDate accepts a plain date or a full RFC3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func init() {
	f := searchCmd.Flags()
	f.StringVarP(&searchFlags.language, "language", "l", "", "two-letter language code")
	f.StringVar(&searchFlags.sortBy, "sort", "", "sort order (relevancy, popularity, publishedAt)")
	f.StringVar(&searchFlags.from, "from", "", "oldest article date (2006-01-02 or RFC3339)")
	f.StringVar(&searchFlags.to, "to", "", "newest article date (2006-01-02 or RFC3339)")
	f.IntVar(&searchFlags.page, "page", 0, "result page")
	f.IntVar(&searchFlags.pageSize, "page-size", 0, "results per page (default from config)")

	rootCmd.AddCommand(searchCmd)
}
