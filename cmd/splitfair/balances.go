package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func balancesCmd() *cobra.Command {
	var me string

	cmd := &cobra.Command{
		Use:   "balances <group-id>",
		Short: "Show net balances, or one member's debts by counterpart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(func(a *app) error {
				if me != "" {
					return printMyBalance(cmd, a, args[0], me)
				}

				balances, err := a.ledger.Balances(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				defer w.Flush()
				fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("Member"), headerStyle.Render("Balance"))
				for _, b := range balances {
					fmt.Fprintf(w, "%s\t%s\n", b.MemberID, formatSigned(b.Amount))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&me, "me", "", "show the breakdown for this member")
	return cmd
}

func printMyBalance(cmd *cobra.Command, a *app, groupID, me string) error {
	total, err := a.ledger.MyBalance(cmd.Context(), groupID, me)
	if err != nil {
		return err
	}
	summaries, err := a.ledger.DebtsByCounterpart(cmd.Context(), groupID, me)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(me), formatSigned(total))
	if len(summaries) == 0 {
		fmt.Println(mutedStyle.Render("All settled up."))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.CounterpartID, formatSigned(s.Net), mutedStyle.Render(fmt.Sprintf("%d debts", s.DebtCount)))
		for _, l := range s.Labels {
			label := l.Label
			if label == "" {
				label = "(untitled)"
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\n", label, formatSigned(l.Amount), mutedStyle.Render(fmt.Sprintf("x%d", l.Count)))
		}
	}
	return nil
}

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <group-id>",
		Short: "Suggest the fewest transfers that settle the group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(func(a *app) error {
				plan, err := a.ledger.Suggestions(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(plan) == 0 {
					fmt.Println(mutedStyle.Render("Nothing to settle."))
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				defer w.Flush()
				fmt.Fprintf(w, "%s\t%s\t%s\n", headerStyle.Render("From"), headerStyle.Render("To"), headerStyle.Render("Amount"))
				for _, s := range plan {
					fmt.Fprintf(w, "%s\t%s\t%s\n", s.From, s.To, formatAmount(s.Amount))
				}
				return nil
			})
		},
	}
}
