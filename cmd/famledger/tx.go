package main

import (
	"fmt"
	"strconv"

	"github.com/famledger-dev/famledger/internal/cli"
	"github.com/famledger-dev/famledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// txFlags collects the transaction field flags shared by add and update.
type txFlags struct {
	date        string
	txType      string
	person      string
	category    string
	description string
	amount      string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.txType, "type", "", "transaction type (Income, Expense, Investment, Savings)")
	cmd.Flags().StringVar(&f.person, "person", "", "household member")
	cmd.Flags().StringVar(&f.category, "category", "", "category label")
	cmd.Flags().StringVar(&f.description, "description", "", "free-text description")
	cmd.Flags().StringVar(&f.amount, "amount", "", "signed decimal amount")
}

// build parses the flag values into a transaction. Field validation proper
// happens in model.Transaction.Validate before the request goes out.
func (f *txFlags) build() (model.Transaction, error) {
	var t model.Transaction

	date, err := model.ParseDate(f.date)
	if err != nil {
		return t, err
	}
	txType, err := model.ParseTransactionType(f.txType)
	if err != nil {
		return t, err
	}
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return t, fmt.Errorf("invalid amount %q", f.amount)
	}

	t.Date = date
	t.Type = txType
	t.Person = f.person
	t.Category = f.category
	t.Description = f.description
	t.Amount = amount
	return t, nil
}

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Add, update or delete a single transaction",
	}

	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txUpdateCmd())
	cmd.AddCommand(txDeleteCmd())

	return cmd
}

func txAddCmd() *cobra.Command {
	var flags txFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			t, err := flags.build()
			if err != nil {
				return err
			}

			sync, _, err := newSynchronizer()
			if err != nil {
				return err
			}
			if err := sync.Create(ctx, t); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("transaction recorded"))
			printTransactionPage(sync.Page())
			return nil
		},
	}

	flags.register(cmd)
	for _, name := range []string{"date", "type", "person", "description", "amount"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func txUpdateCmd() *cobra.Command {
	var flags txFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a stored transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := flags.build()
			if err != nil {
				return err
			}

			sync, _, err := newSynchronizer()
			if err != nil {
				return err
			}
			if err := sync.Update(ctx, id, t); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("transaction %d updated", id)))
			return nil
		},
	}

	flags.register(cmd)
	for _, name := range []string{"date", "type", "person", "description", "amount"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func txDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			sync, _, err := newSynchronizer()
			if err != nil {
				return err
			}
			if err := sync.Delete(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("transaction %d deleted", id)))
			return nil
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid transaction id %q", arg)
	}
	return id, nil
}
