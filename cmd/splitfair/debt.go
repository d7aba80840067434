package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitfair/internal/models"
	"github.com/mmynk/splitfair/internal/service"
)

func debtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debt",
		Short: "List debts and move them through payment and settlement",
	}

	cmd.AddCommand(listDebtsCmd())
	cmd.AddCommand(requestPaymentCmd())
	cmd.AddCommand(creditorCmd("confirm", "Confirm a requested payment (creditor only)", (*service.LedgerService).ConfirmPayment))
	cmd.AddCommand(creditorCmd("reject", "Reject a requested payment (creditor only)", (*service.LedgerService).RejectPayment))
	cmd.AddCommand(settleCmd())
	cmd.AddCommand(settlePairCmd())
	cmd.AddCommand(recordPaymentCmd())
	cmd.AddCommand(optimizeCmd())
	cmd.AddCommand(remindCmd())

	return cmd
}

func listDebtsCmd() *cobra.Command {
	var filter service.DebtFilter

	cmd := &cobra.Command{
		Use:   "list <group-id>",
		Short: "List a group's debts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(func(a *app) error {
				debts, err := a.ledger.ListDebts(cmd.Context(), args[0], filter)
				if err != nil {
					return err
				}
				printDebts(debts)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&filter.ActiveOnly, "active", false, "only unsettled and pending debts")
	cmd.Flags().StringVar(&filter.MemberID, "member", "", "only debts involving this member")
	return cmd
}

func printDebts(debts []models.Debt) {
	if len(debts) == 0 {
		fmt.Println(mutedStyle.Render("No debts."))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("ID"),
		headerStyle.Render("From"),
		headerStyle.Render("To"),
		headerStyle.Render("Amount"),
		headerStyle.Render("Status"),
		headerStyle.Render("Updated"))
	for _, d := range debts {
		status := string(d.Status)
		if !d.Status.Active() {
			status = mutedStyle.Render(status)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.From, d.To, formatAmount(d.Amount), status, humanize.Time(time.Unix(d.UpdatedAt, 0)))
	}
}

func requestPaymentCmd() *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "request <debt-id>",
		Short: "Tell the creditor you paid (debtor only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(func(a *app) error {
				inst, err := a.ledger.RequestPayment(cmd.Context(), args[0], actor)
				if err != nil {
					return err
				}

				fmt.Println(successStyle.Render("✓ Payment requested"), "awaiting confirmation")
				fmt.Printf("  Amount:  %s\n", formatAmount(inst.Amount))
				fmt.Printf("  Content: %s\n", inst.Content)
				if !inst.HasBank() {
					fmt.Println(mutedStyle.Render("  The creditor has no bank account on file."))
					return nil
				}
				fmt.Printf("  Bank:    %s %s (%s)\n", inst.BankCode, inst.AccountNo, inst.AccountName)
				fmt.Printf("  QR:      %s\n", inst.QRURL)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&actor, "as", "", "acting member id")
	requireFlag(cmd, "as")
	return cmd
}

type creditorFunc func(s *service.LedgerService, ctx context.Context, debtID, actorID string) (*models.Debt, error)

func creditorCmd(use, short string, action creditorFunc) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   use + " <debt-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(func(a *app) error {
				debt, err := action(a.ledger, cmd.Context(), args[0], actor)
				if err != nil {
					return err
				}
				fmt.Println(successStyle.Render("✓ Debt is now"), debt.Status)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&actor, "as", "", "acting member id")
	requireFlag(cmd, "as")
	return cmd
}

func settleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settle <debt-id>...",
		Short: "Mark debts settled without the request and confirm steps",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(func(a *app) error {
				debts, err := a.ledger.SettleBatch(cmd.Context(), args)
				if err != nil {
					return err
				}
				printDebts(debts)
				return nil
			})
		},
	}
}

func settlePairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settle-pair <group-id> <from> <to>",
		Short: "Settle every active debt one member owes another",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(func(a *app) error {
				debts, err := a.ledger.SettlePair(cmd.Context(), args[0], args[1], args[2])
				if err != nil {
					return err
				}
				printDebts(debts)
				return nil
			})
		},
	}
}

func recordPaymentCmd() *cobra.Command {
	var req service.RecordPaymentRequest

	cmd := &cobra.Command{
		Use:   "record-payment <group-id> <from> <to>",
		Short: "Record money handed over outside existing debts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.GroupID, req.From, req.To = args[0], args[1], args[2]
			return runWithApp(func(a *app) error {
				res, err := a.ledger.RecordPayment(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Println(successStyle.Render("✓ Recorded"), res.Expense.Description, formatAmount(res.Expense.Amount))
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&req.Amount, "amount", 0, "amount in minor units")
	cmd.Flags().StringVar(&req.Description, "desc", "", "description")
	requireFlag(cmd, "amount")
	return cmd
}

func optimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize <group-id> <member-a> <member-b>",
		Short: "Collapse debts running both ways between two members into one",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(func(a *app) error {
				res, err := a.ledger.OptimizeCrossedDebt(cmd.Context(), args[0], args[1], args[2])
				if err != nil {
					return err
				}
				fmt.Println(successStyle.Render("✓ Settled"), len(res.Settled), "debts")
				for _, d := range res.Debts {
					fmt.Printf("  %s now owes %s %s\n", d.From, d.To, formatAmount(d.Amount))
				}
				return nil
			})
		},
	}
}

func remindCmd() *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "remind <debt-id>",
		Short: "Remind the debtor of an active debt (creditor only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(func(a *app) error {
				if err := a.ledger.RemindDebt(cmd.Context(), args[0], actor); err != nil {
					return err
				}
				fmt.Println(successStyle.Render("✓ Reminder sent"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&actor, "as", "", "acting member id")
	requireFlag(cmd, "as")
	return cmd
}
