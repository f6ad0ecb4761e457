package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
	"github.com/samvad-hq/samvad-news-reader/internal/reader"
)

var headlinesFlags struct {
	category string
	country  string
	query    string
	page     int
	pageSize int
}

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Show current top headlines",
	Example: `  reader headlines
  reader headlines --category business
  reader headlines --country us --query election`,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := app.apiClient()
		if err != nil {
			return err
		}
		svc := app.service(api, nil)

		articles, total, err := svc.Headlines(cmd.Context(), reader.HeadlinesFilter{
			Country:  headlinesFlags.country,
			Category: headlinesFlags.category,
			Query:    headlinesFlags.query,
			Page:     headlinesFlags.page,
			PageSize: headlinesFlags.pageSize,
		})
		if err != nil {
			return err
		}

		printArticles(cmd.OutOrStdout(), articles, total)
		return nil
	},
}

func init() {
	f := headlinesCmd.Flags()
	f.StringVarP(&headlinesFlags.category, "category", "c", "",
		fmt.Sprintf("filter by category (%s)", strings.Join(domain.Categories(), ", ")))
	f.StringVar(&headlinesFlags.country, "country", "", "two-letter country code (default from config)")
	f.StringVarP(&headlinesFlags.query, "query", "q", "", "keywords to filter headlines")
	f.IntVar(&headlinesFlags.page, "page", 0, "result page")
	f.IntVar(&headlinesFlags.pageSize, "page-size", 0, "results per page (default from config)")

	rootCmd.AddCommand(headlinesCmd)
}
