package main

import (
	"fmt"

	"github.com/famledger-dev/famledger/internal/cli"
	"github.com/famledger-dev/famledger/internal/model"
	"github.com/spf13/cobra"
)

// optionsCmd lists the filter option sets: the server's reference lists
// merged with the labels actually present in the ledger, so options cover
// free-text values the reference data has never seen.
func optionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the available category and person filter options",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sync, client, err := newSynchronizer()
			if err != nil {
				return err
			}
			if err := sync.Load(ctx); err != nil {
				return err
			}

			categories, err := client.ListCategories(ctx)
			if err != nil {
				return err
			}
			persons, err := client.ListPersons(ctx)
			if err != nil {
				return err
			}

			categoryNames := make([]string, 0, len(categories))
			for _, c := range categories {
				categoryNames = append(categoryNames, c.Name)
			}
			personNames := make([]string, 0, len(persons))
			for _, p := range persons {
				personNames = append(personNames, p.Name)
			}

			var seenCategories, seenPersons []string
			view := sync.Page()
			for current := 1; current <= view.Pages; current++ {
				for _, t := range sync.GoToPage(current).Items {
					seenCategories = append(seenCategories, t.Category)
					seenPersons = append(seenPersons, t.Person)
				}
			}

			fmt.Println(cli.FormatTitle("Categories"))
			for _, name := range model.MergeDistinctLabels(categoryNames, seenCategories) {
				fmt.Println("  " + name)
			}

			fmt.Println(cli.FormatTitle("Persons"))
			for _, name := range model.MergeDistinctLabels(personNames, seenPersons) {
				fmt.Println("  " + name)
			}

			return nil
		},
	}
}
