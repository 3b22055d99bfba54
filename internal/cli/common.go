// Package cli contains the cobra commands for the sentinel CLI.
package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/example/sentinel/internal/config"
	"github.com/example/sentinel/internal/core/access"
	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/ports/primary"
	"github.com/example/sentinel/internal/wire"
)

// resolveActor resolves the logged-in user from the saved session token.
func resolveActor(ctx context.Context) (*primary.User, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("not logged in\nHint: run 'sentinel login <username>' first")
	}

	user, err := wire.UserService().Verify(ctx, cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("session invalid or expired\nHint: run 'sentinel login <username>' again")
	}
	return user, nil
}

// requireActor resolves the logged-in user and checks the permission
// before any command runs.
func requireActor(ctx context.Context, perm access.Permission) (*primary.User, error) {
	user, err := resolveActor(ctx)
	if err != nil {
		return nil, err
	}
	if !access.HasPermission(user.Role, perm) {
		return nil, fmt.Errorf("role %s does not grant %s", access.RoleLabels[user.Role], perm)
	}
	return user, nil
}

// getStatusIcon returns a colored marker for an action status.
func getStatusIcon(status action.Status) string {
	switch status {
	case action.StatusNew:
		return color.New(color.FgCyan).Sprint("○")
	case action.StatusPlanned:
		return color.New(color.FgBlue).Sprint("◐")
	case action.StatusInProgress:
		return color.New(color.FgYellow).Sprint("◑")
	case action.StatusPendingVerification:
		return color.New(color.FgMagenta).Sprint("◕")
	case action.StatusCompleted:
		return color.New(color.FgGreen).Sprint("●")
	case action.StatusCancelled:
		return color.New(color.FgRed).Sprint("✗")
	default:
		return "?"
	}
}

// complianceColor picks the tier color for a compliance percentage.
func complianceColor(percent float64) *color.Color {
	switch {
	case percent < 70:
		return color.New(color.FgRed)
	case percent < 90:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

// bar renders a simple fixed-width progress bar for percentages.
func bar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	out := ""
	for i := 0; i < width; i++ {
		if i < filled {
			out += "█"
		} else {
			out += "░"
		}
	}
	return out
}
