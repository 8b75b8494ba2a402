package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hannes/kanoon/src/backend/catalog"
	"github.com/hannes/kanoon/src/backend/chat"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "classify <text>",
		Short:   "Print the intent the assistant assigns to a message",
		Example: `  kanoon classify "Please draft a legal notice for unpaid rent"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			intent := chat.Classify(strings.Join(args, " "))
			_, err := fmt.Fprintln(cmd.OutOrStdout(), intent)
			return err
		},
	}
}

func newLawsCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "laws",
		Short: "List the Indian acts in the law catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog.Load()
			if err != nil {
				return err
			}

			laws := cat.Laws(search)
			if len(laws) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "No laws match %q\n", search)
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Title", "Description"})
			t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, WidthMax: 60}})
			for _, law := range laws {
				t.AppendRow(table.Row{law.ID, law.Title, law.Description})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by title or description")
	return cmd
}

func newLawyersCmd() *cobra.Command {
	var f catalog.LawyerFilter

	cmd := &cobra.Command{
		Use:   "lawyers",
		Short: "Search the lawyer directory",
		Example: `  kanoon lawyers --specialty family
  kanoon lawyers --keyword divorce --sort experience`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog.Load()
			if err != nil {
				return err
			}

			lawyers := cat.Lawyers(f)
			if len(lawyers) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No lawyers match these filters")
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Name", "Specialty", "Experience", "Location"})
			for _, l := range lawyers {
				t.AppendRow(table.Row{l.ID, l.Name, l.SpecialtyDisplay, l.Experience, l.Location})
			}
			t.AppendFooter(table.Row{"", "", "", "Total", len(lawyers)})
			t.Render()
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.Specialty, "specialty", catalog.FilterAll, "practice area: corporate, criminal, family or civil")
	flags.StringVar(&f.Experience, "experience", catalog.FilterAll, "experience level: junior, mid or senior")
	flags.StringVar(&f.Keyword, "keyword", "", "rank by keyword relevance")
	flags.StringVar(&f.Sort, "sort", catalog.SortRelevance, "relevance, experience or name")
	return cmd
}
