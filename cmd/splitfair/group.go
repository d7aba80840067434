package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitfair/internal/models"
)

func groupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups and members",
	}

	cmd.AddCommand(createGroupCmd())
	cmd.AddCommand(listGroupsCmd())
	cmd.AddCommand(showGroupCmd())
	cmd.AddCommand(addMemberCmd())
	cmd.AddCommand(removeMemberCmd())
	cmd.AddCommand(bankCmd())

	return cmd
}

// parseMember reads "id" or "id:Display Name".
func parseMember(s string) models.Member {
	id, name, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		name = id
	}
	return models.Member{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)}
}

func createGroupCmd() *cobra.Command {
	var members []string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group",
		Example: `  splitfair group create "Da Lat trip" --member an:An --member binh --member chi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(func(a *app) error {
				list := make([]models.Member, 0, len(members))
				for _, m := range members {
					list = append(list, parseMember(m))
				}

				group, err := a.groups.CreateGroup(cmd.Context(), args[0], list)
				if err != nil {
					return err
				}
				fmt.Println(successStyle.Render("✓ Created group"), group.Name, mutedStyle.Render(group.ID))
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&members, "member", nil, "member as id or id:name (repeatable)")
	return cmd
}

func listGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all groups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(func(a *app) error {
				groups, err := a.groups.ListGroups(cmd.Context())
				if err != nil {
					return err
				}
				if len(groups) == 0 {
					fmt.Println(mutedStyle.Render("No groups yet. Use 'splitfair group create' to add one."))
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				defer w.Flush()
				fmt.Fprintf(w, "%s\t%s\t%s\n", headerStyle.Render("ID"), headerStyle.Render("Name"), headerStyle.Render("Created"))
				for _, g := range groups {
					fmt.Fprintf(w, "%s\t%s\t%s\n", g.ID, g.Name, humanize.Time(time.Unix(g.CreatedAt, 0)))
				}
				return nil
			})
		},
	}
}

func showGroupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <group-id>",
		Short: "Show a group's members and bank details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(func(a *app) error {
				group, err := a.groups.GetGroup(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				fmt.Println(headerStyle.Render(group.Name), mutedStyle.Render(group.ID))
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				defer w.Flush()
				fmt.Fprintf(w, "%s\t%s\t%s\n", headerStyle.Render("Member"), headerStyle.Render("Name"), headerStyle.Render("Bank"))
				for _, m := range group.Members {
					bank := mutedStyle.Render("(none)")
					if m.Bank.Complete() {
						bank = fmt.Sprintf("%s %s (%s)", m.Bank.BankCode, m.Bank.AccountNo, m.Bank.AccountName)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.Name, bank)
				}
				return nil
			})
		},
	}
}

func addMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-member <group-id> <member>",
		Short: "Add a member (id or id:name) to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(func(a *app) error {
				member, err := a.groups.AddMember(cmd.Context(), args[0], parseMember(args[1]))
				if err != nil {
					return err
				}
				fmt.Println(successStyle.Render("✓ Added"), member.ID)
				return nil
			})
		},
	}
}

func removeMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-member <group-id> <member-id>",
		Short: "Remove a member whose balance is zero",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(func(a *app) error {
				if err := a.groups.RemoveMember(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Println(successStyle.Render("✓ Removed"), args[1])
				return nil
			})
		},
	}
}

func bankCmd() *cobra.Command {
	var account models.BankAccount

	cmd := &cobra.Command{
		Use:     "bank <member-id>",
		Short:   "Set where a member receives payments",
		Example: `  splitfair group bank binh --code VCB --account 0011001234567 --holder "NGUYEN VAN BINH"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(func(a *app) error {
				if err := a.groups.SetBankAccount(cmd.Context(), args[0], account); err != nil {
					return err
				}
				fmt.Println(successStyle.Render("✓ Bank account saved for"), args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&account.BankCode, "code", "", "bank code, e.g. VCB")
	cmd.Flags().StringVar(&account.AccountNo, "account", "", "account number")
	cmd.Flags().StringVar(&account.AccountName, "holder", "", "account holder name")
	requireFlag(cmd, "code", "account", "holder")
	return cmd
}
