package cli

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/example/sentinel/internal/core/access"
	"github.com/example/sentinel/internal/ports/primary"
	"github.com/example/sentinel/internal/wire"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users and roles",
}

// promptPassword reads a password without echo, prompting on stderr.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

var userCreateCmd = &cobra.Command{
	Use:   "create [username]",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermUsersCreate); err != nil {
			return err
		}

		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			var err error
			password, err = promptPassword("Password: ")
			if err != nil {
				return err
			}
		}
		displayName, _ := cmd.Flags().GetString("name")
		role, _ := cmd.Flags().GetString("role")

		user, err := wire.UserService().Create(ctx, primary.CreateUserRequest{
			Username:    args[0],
			Password:    password,
			DisplayName: displayName,
			Role:        access.Role(role),
			Active:      true,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Created user %s (%s)\n", user.Username, access.RoleLabels[user.Role])
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermUsersRead); err != nil {
			return err
		}

		users, err := wire.UserService().List(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Found %d user(s):\n\n", len(users))
		for _, u := range users {
			state := color.New(color.FgGreen).Sprint("active")
			if !u.Active {
				state = color.New(color.FgRed).Sprint("inactive")
			}
			last := "never"
			if !u.LastLogin.IsZero() {
				last = u.LastLogin.Local().Format("2006-01-02 15:04")
			}
			fmt.Printf("%s  %-16s %-12s %s  last login %s\n", u.ID, u.Username, access.RoleLabels[u.Role], state, last)
		}
		return nil
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a user's name, role, or active flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermUsersUpdate); err != nil {
			return err
		}

		current, err := wire.UserService().Get(ctx, args[0])
		if err != nil {
			return err
		}

		req := primary.UpdateUserRequest{
			ID:          current.ID,
			DisplayName: current.DisplayName,
			Role:        current.Role,
			Active:      current.Active,
		}
		if cmd.Flags().Changed("name") {
			req.DisplayName, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("role") {
			role, _ := cmd.Flags().GetString("role")
			req.Role = access.Role(role)
		}
		if cmd.Flags().Changed("active") {
			req.Active, _ = cmd.Flags().GetBool("active")
		}
		if cmd.Flags().Changed("password") {
			req.Password, _ = cmd.Flags().GetString("password")
		}

		if err := wire.UserService().Update(ctx, req); err != nil {
			return err
		}
		fmt.Printf("✓ Updated user %s\n", current.Username)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermUsersDelete); err != nil {
			return err
		}
		if err := wire.UserService().Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted user %s\n", args[0])
		return nil
	},
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your own password",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		actor, err := resolveActor(ctx)
		if err != nil {
			return err
		}

		current, err := promptPassword("Current password: ")
		if err != nil {
			return err
		}
		next, err := promptPassword("New password: ")
		if err != nil {
			return err
		}

		if err := wire.UserService().ChangePassword(ctx, actor.ID, current, next); err != nil {
			return err
		}
		fmt.Println("✓ Password changed")
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")
	userCreateCmd.Flags().StringP("name", "n", "", "Display name")
	userCreateCmd.Flags().StringP("role", "r", string(access.RoleOperator), "Role (SUPER_ADMIN, ADMIN, SUPERVISOR, OPERATOR, VIEWER)")

	userUpdateCmd.Flags().StringP("name", "n", "", "Display name")
	userUpdateCmd.Flags().StringP("role", "r", "", "Role")
	userUpdateCmd.Flags().Bool("active", true, "Whether the user may log in")
	userUpdateCmd.Flags().StringP("password", "p", "", "New password")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userDeleteCmd)
	userCmd.AddCommand(userPasswdCmd)
}

// UserCmd returns the user command
func UserCmd() *cobra.Command {
	return userCmd
}
