// Command admin provides operator utilities for PromptVault accounts.
package main

import (
	"fmt"
	"io"
	"os"

	"promptvault/internal/config"
	"promptvault/internal/database"
	"promptvault/internal/repository"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// openDB connects with the schema applied so the commands also work on a
// fresh database.
func openDB() (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return database.Connect(cfg)
}

func main() {
	if err := newRootCmd(openDB, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(open func() (*gorm.DB, error), out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "admin",
		Short: "Manage PromptVault administrators",
		Long: `Admin commands change account roles directly in the database.

Examples:
  admin promote alice     # Grant admin to alice
  admin demote alice      # Revoke admin from alice
  admin list-admins       # List every admin`,
		SilenceUsage: true,
	}
	root.SetOut(out)

	repo := func() (repository.UserRepository, error) {
		db, err := open()
		if err != nil {
			return nil, err
		}
		return repository.NewUserRepository(db), nil
	}

	root.AddCommand(
		setAdminCmd("promote", "Grant admin to a user", true, repo),
		setAdminCmd("demote", "Revoke admin from a user", false, repo),
		&cobra.Command{
			Use:   "list-admins",
			Short: "List all admins",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				users, err := repo()
				if err != nil {
					return err
				}
				admins, err := users.ListAdmins(cmd.Context())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(admins) == 0 {
					fmt.Fprintln(w, "No admins found")
					return nil
				}
				for _, a := range admins {
					fmt.Fprintf(w, "%s\t%s\t%s\n", a.ID, a.Username, a.DisplayName)
				}
				return nil
			},
		},
	)
	return root
}

func setAdminCmd(use, short string, isAdmin bool, repo func() (repository.UserRepository, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := repo()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user, err := users.GetByUsername(ctx, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if user.IsAdmin == isAdmin {
				fmt.Fprintf(w, "%s is already %s\n", user.Username, roleName(isAdmin))
				return nil
			}
			if err := users.SetAdmin(ctx, user.ID, isAdmin); err != nil {
				return err
			}
			fmt.Fprintf(w, "%s is now %s\n", user.Username, roleName(isAdmin))
			return nil
		},
	}
}

func roleName(isAdmin bool) string {
	if isAdmin {
		return "an admin"
	}
	return "a regular user"
}
