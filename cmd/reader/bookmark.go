package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark",
	Short: "Manage saved articles",
}

var bookmarkAddCmd = &cobra.Command{
	Use:     "add <url>",
	Short:   "Save an article for offline reading",
	Example: `  reader bookmark add https://www.thehindu.com/news/some-story`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := app.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		svc := app.service(nil, store)

		bm, err := svc.Bookmark(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		title := bm.Article.Title
		if title == "" {
			title = bm.Article.URL
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %q (%s)\n", title, shortID(bm.Article.ID))
		return nil
	},
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved articles, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := app.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		svc := app.service(nil, store)

		all, err := svc.Bookmarks()
		if err != nil {
			return err
		}

		printBookmarks(cmd.OutOrStdout(), all)
		return nil
	},
}

var bookmarkRemoveCmd = &cobra.Command{
	Use:     "remove <id-or-url>",
	Short:   "Delete a saved article",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := app.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		svc := app.service(nil, store)

		if err := svc.RemoveBookmark(args[0]); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Removed.")
		return nil
	},
}

var bookmarkExportFlags struct {
	format string
	out    string
}

var bookmarkExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved articles as YAML or JSON",
	Example: `  reader bookmark export
  reader bookmark export --format json --out bookmarks.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := app.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		svc := app.service(nil, store)

		var w io.Writer = cmd.OutOrStdout()
		if bookmarkExportFlags.out != "" {
			file, err := os.Create(bookmarkExportFlags.out)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer file.Close()
			w = file
		}

		n, err := svc.ExportBookmarks(w, bookmarkExportFlags.format)
		if err != nil {
			return err
		}

		if bookmarkExportFlags.out != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bookmark(s) to %s\n", n, bookmarkExportFlags.out)
		}
		return nil
	},
}

func init() {
	f := bookmarkExportCmd.Flags()
	f.StringVar(&bookmarkExportFlags.format, "format", "yaml", "export format (yaml or json)")
	f.StringVarP(&bookmarkExportFlags.out, "out", "o", "", "write to file instead of stdout")

	bookmarkCmd.AddCommand(bookmarkAddCmd, bookmarkListCmd, bookmarkRemoveCmd, bookmarkExportCmd)
	rootCmd.AddCommand(bookmarkCmd)
}
