package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitfair/internal/calculator"
	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/models"
	"github.com/mmynk/splitfair/internal/service"
)

type splitFlags struct {
	amount   int64
	strategy string
	with     []string
	skip     []string
}

func (f *splitFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.amount, "amount", 0, "total in minor units, e.g. 150000")
	cmd.Flags().StringVar(&f.strategy, "strategy", "equal", "split strategy (equal, exact, percentage, shares)")
	cmd.Flags().StringArrayVar(&f.with, "with", nil, "participant as id or id=value (repeatable)")
	cmd.Flags().StringArrayVar(&f.skip, "skip", nil, "member listed but left out of the split (repeatable)")
	requireFlag(cmd, "amount", "with")
}

func (f *splitFlags) parse() (models.SplitStrategy, []calculator.Participant, error) {
	strategy := models.SplitStrategy(strings.ToUpper(f.strategy))
	if !strategy.Valid() {
		return "", nil, errs.Validation("strategy", "unknown strategy %q", f.strategy)
	}
	participants, err := parseParticipants(f.with, f.skip)
	if err != nil {
		return "", nil, errs.Validation("with", "%v", err)
	}
	return strategy, participants, nil
}

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record and preview shared expenses",
	}

	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(previewExpenseCmd())

	return cmd
}

func addExpenseCmd() *cobra.Command {
	var (
		split       splitFlags
		groupID     string
		payerID     string
		description string
		billID      string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense and the debts it creates",
		Example: `  splitfair expense add --group G --payer an --amount 300000 --desc "Dinner" --with an --with binh --with chi
  splitfair expense add --group G --payer an --amount 100000 --strategy percentage --with an=60 --with binh=40`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			strategy, participants, err := split.parse()
			if err != nil {
				return err
			}

			return runWithApp(func(a *app) error {
				res, err := a.ledger.CreateExpense(cmd.Context(), service.CreateExpenseRequest{
					GroupID:      groupID,
					PayerID:      payerID,
					Amount:       split.amount,
					Description:  description,
					BillID:       billID,
					Strategy:     strategy,
					Participants: participants,
				})
				if err != nil {
					return err
				}

				fmt.Println(successStyle.Render("✓ Recorded"), res.Expense.Description, formatAmount(res.Expense.Amount), mutedStyle.Render(res.Expense.ID))
				for _, d := range res.Debts {
					fmt.Printf("  %s owes %s %s\n", d.From, d.To, formatAmount(d.Amount))
				}
				return nil
			})
		},
	}

	split.register(cmd)
	cmd.Flags().StringVar(&groupID, "group", "", "group id")
	cmd.Flags().StringVar(&payerID, "payer", "", "member who paid")
	cmd.Flags().StringVar(&description, "desc", "", "description")
	cmd.Flags().StringVar(&billID, "bill", "", "optional external bill reference")
	requireFlag(cmd, "group", "payer")
	return cmd
}

func previewExpenseCmd() *cobra.Command {
	var split splitFlags

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show how an amount would be split without recording it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			strategy, participants, err := split.parse()
			if err != nil {
				return err
			}

			return runWithApp(func(a *app) error {
				res, err := a.ledger.PreviewSplit(split.amount, participants, strategy)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("Member"), headerStyle.Render("Share"))
				for _, s := range res.Shares {
					amount := formatAmount(s.Amount)
					if !s.Checked {
						amount = mutedStyle.Render("(skipped)")
					}
					fmt.Fprintf(w, "%s\t%s\n", s.MemberID, amount)
				}
				w.Flush()

				status := successStyle.Render("reconciled")
				if !res.Exact() {
					status = owingStyle.Render(fmt.Sprintf("off by %s", formatAmount(res.Diff)))
				}
				fmt.Printf("Total %s, shares %s: %s\n", formatAmount(res.Total), formatAmount(res.Sum), status)
				return nil
			})
		},
	}

	split.register(cmd)
	return cmd
}
