package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/famledger-dev/famledger/internal/api"
	"github.com/famledger-dev/famledger/internal/config"
	"github.com/famledger-dev/famledger/internal/list"
	"github.com/famledger-dev/famledger/internal/model"
	"github.com/famledger-dev/famledger/internal/page"
	"github.com/famledger-dev/famledger/internal/query"
)

func newClient() (*api.Client, *config.Config, error) {
	cfg, err := config.FromViper()
	if err != nil {
		return nil, nil, err
	}
	return api.New(cfg.BaseURL, cfg.Token), cfg, nil
}

func newSynchronizer() (*list.Synchronizer, *api.Client, error) {
	client, cfg, err := newClient()
	if err != nil {
		return nil, nil, err
	}
	return list.New(client, cfg.PageSize), client, nil
}

// stageFilters stages the non-empty flag values on the synchronizer.
func stageFilters(s *list.Synchronizer, values map[string]string) error {
	for _, key := range []string{
		query.KeyDateFrom, query.KeyDateTo, query.KeyType, query.KeyCategory,
		query.KeyPerson, query.KeyDescription, query.KeyAmountMin, query.KeyAmountMax,
	} {
		if v := values[key]; v != "" {
			if err := s.SetFilter(key, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// printTransactionPage renders one page of the ledger as a plain table.
func printTransactionPage(view page.Page[model.Transaction]) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintln(w, "ID\tDate\tType\tPerson\tCategory\tDescription\tAmount")
	for _, t := range view.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date, t.Type, t.Person, t.Category, t.Description, t.Amount.StringFixed(2))
	}
	fmt.Fprintf(w, "\npage %d/%d\ttotal %d\n", view.Page, view.Pages, view.Total)
}
