package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/edugen/internal/account"
	"github.com/ziadkadry99/edugen/internal/workspace"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the signed-in user",
	Long: `Sign up, sign in and out. The signed-in user is remembered between
runs; their generated lessons are saved to their history.`,
}

var userSignupCmd = &cobra.Command{
	Use:   "signup <name> <email>",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccounts(func(accounts *account.Store) error {
			user, err := accounts.Signup(args[0], args[1])
			switch {
			case errors.Is(err, account.ErrDuplicateEmail):
				return fmt.Errorf("an account for %s already exists; use `edugen user login`", args[1])
			case errors.Is(err, account.ErrInvalidInput):
				return fmt.Errorf("a name and a valid e-mail address are required")
			case errors.Is(err, account.ErrStorageExhausted):
				return fmt.Errorf("account storage is full")
			case err != nil:
				return err
			}
			fmt.Printf("Welcome, %s! You are signed in as %s.\n", user.Name, user.Email)
			printOnboarding(user)
			return nil
		})
	},
}

var userLoginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in with an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccounts(func(accounts *account.Store) error {
			user, found, err := accounts.Login(args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no account for %s; use `edugen user signup`", args[0])
			}
			fmt.Printf("Signed in as %s (%s).\n", user.Name, user.Email)
			printOnboarding(user)
			return nil
		})
	},
}

var userLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccounts(func(accounts *account.Store) error {
			if err := accounts.Logout(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		})
	},
}

var userWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccounts(func(accounts *account.Store) error {
			user, ok, err := accounts.Current()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Not signed in.")
				return nil
			}
			fmt.Printf("%s <%s>\n", user.Name, user.Email)
			return nil
		})
	},
}

var userOnboardedCmd = &cobra.Command{
	Use:   "onboarded",
	Short: "Mark the introduction as seen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccounts(func(accounts *account.Store) error {
			user, ok, err := accounts.Current()
			if err != nil {
				return err
			}
			if !ok {
				return workspace.ErrSignedOut
			}
			return accounts.MarkOnboardingSeen(user.ID)
		})
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userSignupCmd)
	userCmd.AddCommand(userLoginCmd)
	userCmd.AddCommand(userLogoutCmd)
	userCmd.AddCommand(userWhoamiCmd)
	userCmd.AddCommand(userOnboardedCmd)
}

// withAccounts opens only the stores; no provider key is needed.
func withAccounts(fn func(*account.Store) error) error {
	rt, err := openStorage()
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt.Accounts())
}

func printOnboarding(u account.User) {
	if !u.IsFirstLogin {
		return
	}
	fmt.Println()
	fmt.Println("Getting started:")
	fmt.Println("  1. edugen generate \"Photosynthesis\" --lang en    build a lesson")
	fmt.Println("  2. edugen server                                 open it in the dashboard")
	fmt.Println("  3. edugen history list                           find it again later")
	fmt.Println()
	fmt.Println("Run `edugen user onboarded` to hide this.")
}
