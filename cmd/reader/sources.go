package main

import (
	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-news-reader/internal/reader"
)

var sourcesFlags struct {
	category string
	language string
	country  string
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List available news outlets",
	Example: `  reader sources
  reader sources --category technology --language en`,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := app.apiClient()
		if err != nil {
			return err
		}
		svc := app.service(api, nil)

		sources, err := svc.Sources(cmd.Context(), reader.SourcesFilter{
			Category: sourcesFlags.category,
			Language: sourcesFlags.language,
			Country:  sourcesFlags.country,
		})
		if err != nil {
			return err
		}

		printSources(cmd.OutOrStdout(), sources)
		return nil
	},
}

func init() {
	f := sourcesCmd.Flags()
	f.StringVarP(&sourcesFlags.category, "category", "c", "", "filter by category")
	f.StringVarP(&sourcesFlags.language, "language", "l", "", "two-letter language code")
	f.StringVar(&sourcesFlags.country, "country", "", "two-letter country code")

	rootCmd.AddCommand(sourcesCmd)
}
