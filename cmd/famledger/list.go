package main

import (
	"fmt"

	"github.com/famledger-dev/famledger/internal/query"
	"github.com/famledger-dev/famledger/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var (
		filters     = make(map[string]*string)
		sortField   string
		descending  bool
		pageNum     int
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse the transaction ledger",
		Long: `Fetch the filtered, sorted transaction collection and show one page of it.
With --interactive, open a live table with paging and sorting keys instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sync, _, err := newSynchronizer()
			if err != nil {
				return err
			}

			values := make(map[string]string, len(filters))
			for key, v := range filters {
				values[key] = *v
			}
			if err := stageFilters(sync, values); err != nil {
				return err
			}

			if sortField != "" {
				direction := query.Asc
				if descending {
					direction = query.Desc
				}
				sync.SetSort(sortField, direction)
			}

			if interactive {
				_, err := tea.NewProgram(tui.Root(tui.NewBrowser(sync)), tea.WithAltScreen()).Run()
				return err
			}

			if err := sync.ApplyFilters(ctx); err != nil {
				return err
			}

			view := sync.GoToPage(pageNum)
			if pageNum > view.Pages {
				fmt.Printf("page %d is out of range (%d pages)\n", pageNum, view.Pages)
			}
			printTransactionPage(view)
			return nil
		},
	}

	for _, f := range []struct {
		flag  string
		key   string
		usage string
	}{
		{"from", query.KeyDateFrom, "only transactions on or after this date (YYYY-MM-DD)"},
		{"to", query.KeyDateTo, "only transactions on or before this date (YYYY-MM-DD)"},
		{"type", query.KeyType, "transaction type (Income, Expense, Investment, Savings)"},
		{"category", query.KeyCategory, "category label"},
		{"person", query.KeyPerson, "household member"},
		{"description", query.KeyDescription, "description contains"},
		{"min", query.KeyAmountMin, "inclusive lower amount bound"},
		{"max", query.KeyAmountMax, "inclusive upper amount bound"},
	} {
		v := ""
		filters[f.key] = &v
		cmd.Flags().StringVar(filters[f.key], f.flag, "", f.usage)
	}

	cmd.Flags().StringVar(&sortField, "sort", "", "sort field (date, amount, type, category, person, description)")
	cmd.Flags().BoolVar(&descending, "desc", false, "sort descending")
	cmd.Flags().IntVar(&pageNum, "page", 1, "page to show")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "open the interactive table")

	return cmd
}
