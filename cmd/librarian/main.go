package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/database"
	"github.com/locallibrary/catalog/pkg/migrations"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/users"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"golang.org/x/term"
)

func main() {
	log := logger.New()

	var db *bun.DB

	root := &cobra.Command{
		Use:           "librarian",
		Short:         "Manage Librarian accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			db, err = database.New(cfg)
			if err != nil {
				return err
			}
			_, err = migrations.BringUpToDate(cmd.Context(), db)
			return err
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if db == nil {
				return nil
			}
			return errors.WithStack(db.Close())
		},
	}

	var passwordStdin bool
	create := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a new Librarian account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readNewPassword(passwordStdin)
			if err != nil {
				return err
			}
			user, err := users.NewService(db).Create(cmd.Context(), users.CreateUserOptions{
				Username:  args[0],
				Password:  password,
				Librarian: true,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created Librarian %q (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	create.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin instead of prompting")

	grant := &cobra.Command{
		Use:   "grant <username>",
		Short: "Add an existing user to the Librarian role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := users.NewService(db).GrantLibrarian(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%q is now a Librarian. Tokens issued earlier keep their old claim.\n", user.Username)
			return nil
		},
	}

	revoke := &cobra.Command{
		Use:   "revoke <username>",
		Short: "Remove a user from the Librarian role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := users.NewService(db).RevokeLibrarian(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%q is no longer a Librarian.\n", user.Username)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts and their roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, err := users.NewService(db).List(cmd.Context(), users.ListUsersOptions{})
			if err != nil {
				return err
			}
			for _, u := range all {
				fmt.Printf("%5d  %-30s %s\n", u.ID, u.Username, roleLabel(u))
			}
			return nil
		},
	}

	root.AddCommand(create, grant, revoke, list)

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Err(err).Fatal("librarian command error")
	}
}

func roleLabel(u *models.User) string {
	if u.IsLibrarian() {
		return models.RoleLibrarian
	}
	return "-"
}

// readNewPassword prompts twice without echo, or reads one line from stdin
// when it is not a terminal or fromStdin is set.
func readNewPassword(fromStdin bool) (string, error) {
	fd := int(os.Stdin.Fd())
	if fromStdin || !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", errors.Wrap(err, "failed to read password")
		}
		password := strings.TrimRight(line, "\r\n")
		if password == "" {
			return "", errors.New("password cannot be empty")
		}
		return password, nil
	}

	fmt.Print("Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}
	fmt.Print("Password (again): ")
	second, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	if len(first) == 0 {
		return "", errors.New("password cannot be empty")
	}
	return string(first), nil
}
