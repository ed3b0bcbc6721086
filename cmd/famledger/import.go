package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/famledger-dev/famledger/internal/cli"
	"github.com/famledger-dev/famledger/internal/importer"
	"github.com/famledger-dev/famledger/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	var (
		yes         bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Bulk-import transactions from a CSV file",
		Long: `Send a CSV file to the server for validation, review and correct the
parsed rows, then commit them to the ledger. File-level validation errors
block the import; row-level issues are shown but editable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			contents, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			sync, client, err := newSynchronizer()
			if err != nil {
				return err
			}

			session := importer.NewSession(client)
			session.SelectFile(filepath.Base(args[0]), contents)

			if err := session.Preview(ctx); err != nil {
				return err
			}

			if session.Blocked() {
				fmt.Println(cli.FormatError("the file failed validation:"))
				for _, e := range session.FileErrors() {
					fmt.Println("  " + e)
				}
				return fmt.Errorf("select a corrected file and retry")
			}

			if len(session.Drafts()) == 0 {
				fmt.Println(cli.FormatWarning("the file contains no rows"))
				return nil
			}

			if interactive {
				_, err := tea.NewProgram(tui.Root(tui.NewImport(session, sync))).Run()
				return err
			}

			printDrafts(session)

			if !yes {
				if err := reviewLoop(ctx, session); err != nil {
					return err
				}
				if session.State() == importer.StateIdle {
					// Review was aborted.
					return nil
				}
			}

			if err := session.Commit(ctx); err != nil {
				for _, e := range session.CommitErrors() {
					fmt.Println("  " + e)
				}
				return err
			}

			fmt.Println(cli.FormatSuccess(session.Message()))

			// Refresh the replica so a follow-up list shows the new rows.
			if err := sync.Load(ctx); err != nil {
				return err
			}
			fmt.Printf("ledger now holds %d transactions\n", sync.Page().Total)
			session.Reset()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "commit without the review prompt")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "review in the interactive dialog")

	return cmd
}

// reviewLoop lets the user correct draft rows before commit. Rows are
// addressed by their 1-based position in the printed table.
func reviewLoop(ctx context.Context, session *importer.Session) error {
	reader := cli.NewReader(os.Stdin)

	for {
		fmt.Print("import> edit <row> <field> <value> | remove <row> | show | commit | abort: ")
		line, err := reader.ReadLine(ctx)
		if err != nil {
			return err
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		switch words[0] {
		case "commit":
			return nil

		case "abort":
			session.Reset()
			fmt.Println(cli.FormatWarning("import aborted"))
			return nil

		case "show":
			printDrafts(session)

		case "edit":
			if len(words) < 4 {
				fmt.Println(cli.FormatError(
					"usage: edit <row> <field> <value>  (fields: " +
						strings.Join(importer.EditableFields(), ", ") + ")"))
				continue
			}
			tempID, err := draftAt(session, words[1])
			if err != nil {
				fmt.Println(cli.FormatError(err.Error()))
				continue
			}
			patch, err := importer.ParseFieldPatch(words[2], strings.Join(words[3:], " "))
			if err != nil {
				fmt.Println(cli.FormatError(err.Error()))
				continue
			}
			if err := session.Edit(tempID, patch); err != nil {
				fmt.Println(cli.FormatError(err.Error()))
				continue
			}
			printDrafts(session)

		case "remove":
			if len(words) != 2 {
				fmt.Println(cli.FormatError("usage: remove <row>"))
				continue
			}
			tempID, err := draftAt(session, words[1])
			if err != nil {
				fmt.Println(cli.FormatError(err.Error()))
				continue
			}
			if err := session.Remove(tempID); err != nil {
				fmt.Println(cli.FormatError(err.Error()))
				continue
			}
			printDrafts(session)

		default:
			fmt.Println(cli.FormatError("unknown command: " + words[0]))
		}
	}
}

// draftAt resolves a 1-based row number to its temp id.
func draftAt(session *importer.Session, arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "", fmt.Errorf("row must be a number, got %q", arg)
	}
	drafts := session.Drafts()
	if n < 1 || n > len(drafts) {
		return "", fmt.Errorf("row %d is out of range (1-%d)", n, len(drafts))
	}
	return drafts[n-1].TempID, nil
}

func printDrafts(session *importer.Session) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintln(w, "Row\tDate\tType\tPerson\tCategory\tDescription\tAmount\tIssues")
	for i, d := range session.Drafts() {
		issues := ""
		if d.Flagged() {
			issues = strings.Join(d.Issues, "; ")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, d.Date, d.Type, d.Person, d.Category, d.Description, d.Amount.StringFixed(2), issues)
	}
}
