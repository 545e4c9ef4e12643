package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/go-watchlist/watchlist/storage/model"
)

const (
	forgeOwnerName = "Athrun"
	adminName      = "Admin"
)

var forgeMovies = []model.Movie{
	{Title: "The Shawshank Redemption", Year: "1994"},
	{Title: "The Godfather", Year: "1972"},
	{Title: "The Dark Knight", Year: "2008"},
	{Title: "Schindler's List", Year: "1993"},
	{Title: "Pulp Fiction", Year: "1994"},
	{Title: "The Lord of the Rings: The Return of the King", Year: "2003"},
	{Title: "The Good, the Bad and the Ugly", Year: "1966"},
	{Title: "Fight Club", Year: "1999"},
	{Title: "Forrest Gump", Year: "1994"},
	{Title: "Inception", Year: "2010"},
}

func newInitDBCmd(open opener) *cobra.Command {
	var drop bool
	cmd := &cobra.Command{
		Use:   "initdb",
		Short: "Create the database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()
			if err = store.InitSchema(drop); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Initialized database.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "Create after drop.")
	return cmd
}

func newForgeCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "forge",
		Short: "Fill the database with sample movies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()
			if _, err = store.UsersStorage().EnsureOwner(forgeOwnerName); err != nil {
				return err
			}
			movies := store.MoviesStorage()
			for _, m := range forgeMovies {
				if _, err = movies.Create(m.Title, m.Year); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Mission Accomplished")
			return nil
		},
	}
}

func newAdminCmd(open opener) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Create the login user or replace its credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if username == "" {
				if username, err = prompt(cmd, in, "Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptPassword(cmd, in); err != nil {
					return err
				}
			}
			if username == "" || password == "" {
				return errors.New("username and password must not be empty")
			}

			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()
			users := store.UsersStorage()
			user, err := users.First()
			var notFound model.NotFoundError
			switch {
			case errors.As(err, &notFound):
				fmt.Fprintln(cmd.OutOrStdout(), "Creating user...")
				_, err = users.Create(username, password, adminName)
			case err != nil:
				return err
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "Updating user...")
				_, err = users.SetCredentials(user.ID, username, password)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Done.")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "The username used to login.")
	cmd.Flags().StringVar(&password, "password", "", "The password used to login.")
	return cmd
}

func prompt(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	cmd.Print(label)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.WithStack(err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptPassword asks for the password twice. Input is hidden if stdin is
// a terminal.
func promptPassword(cmd *cobra.Command, in *bufio.Reader) (string, error) {
	read := func(label string) (string, error) {
		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			cmd.Print(label)
			b, err := term.ReadPassword(int(f.Fd()))
			cmd.Println()
			return string(b), errors.WithStack(err)
		}
		return prompt(cmd, in, label)
	}
	password, err := read("Password: ")
	if err != nil {
		return "", err
	}
	confirm, err := read("Repeat for confirmation: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("the two entered values do not match")
	}
	return password, nil
}
