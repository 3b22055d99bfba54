package cli

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/example/sentinel/internal/config"
	"github.com/example/sentinel/internal/core/access"
	"github.com/example/sentinel/internal/wire"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in and save a session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			raw, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(raw)
		}

		res, err := wire.UserService().Login(context.Background(), username, password)
		if err != nil {
			return err
		}

		dir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		cfg := &config.Config{
			Token:    res.Token,
			UserID:   res.User.ID,
			Username: res.User.Username,
		}
		if err := config.SaveConfig(dir, cfg); err != nil {
			return err
		}

		fmt.Printf("✓ Logged in as %s (%s)\n", res.User.Username, access.RoleLabels[res.User.Role])
		fmt.Printf("  Session expires: %s\n", res.ExpiresAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the saved session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		if err := config.SaveConfig(dir, &config.Config{}); err != nil {
			return err
		}
		fmt.Println("✓ Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user and role",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		dir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		cfg, err := config.LoadConfig(dir)
		if err != nil {
			return err
		}
		if cfg.Token == "" {
			fmt.Println("Not logged in.")
			return nil
		}

		user, err := wire.UserService().Verify(ctx, cfg.Token)
		if err != nil {
			fmt.Println("Session invalid or expired.")
			return nil
		}

		fmt.Printf("%s (%s)\n", user.Username, access.RoleLabels[user.Role])
		fmt.Println("Permissions:")
		for _, p := range access.PermissionsFor(user.Role) {
			fmt.Printf("  - %s\n", p)
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")
}

// LoginCmd returns the login command
func LoginCmd() *cobra.Command {
	return loginCmd
}

// LogoutCmd returns the logout command
func LogoutCmd() *cobra.Command {
	return logoutCmd
}

// WhoamiCmd returns the whoami command
func WhoamiCmd() *cobra.Command {
	return whoamiCmd
}
