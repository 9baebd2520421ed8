package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google",
	Long: `Sign in to Atlas with your Google account.

A browser window opens for the Google consent screen; the resulting identity
is exchanged for an Atlas session. If the Atlas backend is unreachable during
the exchange, the sign-in is kept in a degraded state and the exchange is
retried on the next login.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	session, err := authService.SignIn(context.Background())
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	if session.Authenticated() {
		cmd.Printf("Signed in as %s\n", session.User.Email)
		if session.User.Admin {
			cmd.Println("You have administrator privileges.")
		}
		return nil
	}

	// Degraded: Google sign-in succeeded, backend exchange did not.
	cmd.Printf("Signed in with Google as %s, but the Atlas backend is unavailable:\n", session.Email)
	cmd.Printf("  %s\n", session.Reason)
	cmd.Println("Run 'atlas login' again once the backend is reachable.")
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	if err := authService.SignOut(); err != nil {
		return fmt.Errorf("sign-out failed: %w", err)
	}
	cmd.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	session, err := authService.Current()
	if err != nil {
		return fmt.Errorf("not signed in - run 'atlas login': %w", err)
	}

	if session.Authenticated() {
		cmd.Printf("Signed in as %s\n", session.User.Email)
		if session.User.Name != "" {
			cmd.Printf("  Name:  %s\n", session.User.Name)
		}
		cmd.Printf("  Admin: %t\n", session.User.Admin)
		return nil
	}

	cmd.Printf("Signed in with Google as %s (no Atlas session)\n", session.Email)
	if session.Reason != "" {
		cmd.Printf("  Reason: %s\n", session.Reason)
	}
	return nil
}
