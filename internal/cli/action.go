package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/sentinel/internal/core/access"
	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/ports/primary"
	"github.com/example/sentinel/internal/wire"
)

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Manage corrective actions",
	Long:  "List, create, and advance corrective actions through their lifecycle.",
}

var actionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List corrective actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermActionsManage); err != nil {
			return err
		}

		filters := primary.ActionFilters{}
		filters.Status, _ = cmd.Flags().GetString("status")
		filters.Responsible, _ = cmd.Flags().GetString("responsible")
		filters.Priority, _ = cmd.Flags().GetString("priority")
		filters.EvaluationID, _ = cmd.Flags().GetString("evaluation")

		actions, err := wire.ActionService().List(ctx, filters)
		if err != nil {
			return err
		}
		if len(actions) == 0 {
			fmt.Println("No corrective actions found.")
			return nil
		}

		fmt.Printf("Found %d action(s):\n\n", len(actions))
		for _, a := range actions {
			printActionLine(a)
		}
		return nil
	},
}

var actionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a corrective action outside an evaluation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		actor, err := requireActor(ctx, access.PermActionsManage)
		if err != nil {
			return err
		}

		req := primary.CreateActionRequest{Actor: actor.Username}
		req.QuestionText, _ = cmd.Flags().GetString("title")
		req.Description, _ = cmd.Flags().GetString("description")
		req.Responsible, _ = cmd.Flags().GetString("responsible")
		req.DueDate, _ = cmd.Flags().GetString("due")
		priority, _ := cmd.Flags().GetString("priority")
		req.Priority = action.Priority(priority)
		req.Tags, _ = cmd.Flags().GetStringSlice("tag")

		created, err := wire.ActionService().Create(ctx, req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Created action %s\n", created.ID)
		return nil
	},
}

var actionShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one corrective action",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermActionsManage); err != nil {
			return err
		}

		a, err := wire.ActionService().Get(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", getStatusIcon(a.Status), a.ID)
		fmt.Printf("  Status:      %s%s\n", action.StatusLabels[a.Status], overdueSuffix(a))
		fmt.Printf("  Priority:    %s\n", a.Priority)
		fmt.Printf("  Description: %s\n", a.Description)
		fmt.Printf("  Responsible: %s\n", a.Responsible)
		if a.DueDate != "" {
			fmt.Printf("  Due:         %s\n", a.DueDate)
		}
		if a.QuestionText != "" {
			fmt.Printf("  Question:    %s\n", a.QuestionText)
		}
		if a.EvaluationID != "" {
			fmt.Printf("  Evaluation:  %s (%s question %d)\n", a.EvaluationID, a.SectionID, a.QuestionIndex)
		}
		if a.RootCause != nil {
			fmt.Println("  Root cause:")
			fmt.Printf("    1. %s\n", a.RootCause.Why1)
			fmt.Printf("    2. %s\n", a.RootCause.Why2)
			fmt.Printf("    3. %s\n", a.RootCause.Why3)
		}
		if len(a.Tags) > 0 {
			fmt.Printf("  Tags:        %s\n", strings.Join(a.Tags, ", "))
		}
		if len(a.EvidenceIDs) > 0 {
			fmt.Printf("  Evidence:    %s\n", strings.Join(a.EvidenceIDs, ", "))
		}
		fmt.Printf("  Created:     %s\n", a.CreatedAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

var actionUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Edit an action's description, responsible, due date, priority, or tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermActionsManage); err != nil {
			return err
		}

		current, err := wire.ActionService().Get(ctx, args[0])
		if err != nil {
			return err
		}

		req := primary.UpdateActionRequest{
			ID:          current.ID,
			Description: current.Description,
			Responsible: current.Responsible,
			DueDate:     current.DueDate,
			Priority:    current.Priority,
			Tags:        current.Tags,
		}
		if cmd.Flags().Changed("description") {
			req.Description, _ = cmd.Flags().GetString("description")
		}
		if cmd.Flags().Changed("responsible") {
			req.Responsible, _ = cmd.Flags().GetString("responsible")
		}
		if cmd.Flags().Changed("due") {
			req.DueDate, _ = cmd.Flags().GetString("due")
		}
		if cmd.Flags().Changed("priority") {
			priority, _ := cmd.Flags().GetString("priority")
			req.Priority = action.Priority(priority)
		}
		if cmd.Flags().Changed("tag") {
			req.Tags, _ = cmd.Flags().GetStringSlice("tag")
		}

		if err := wire.ActionService().Update(ctx, req); err != nil {
			return err
		}
		fmt.Printf("✓ Updated action %s\n", args[0])
		return nil
	},
}

var actionStatusCmd = &cobra.Command{
	Use:   "status [id] [new-status]",
	Short: "Move an action to a new status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		actor, err := requireActor(ctx, access.PermActionsManage)
		if err != nil {
			return err
		}
		comment, _ := cmd.Flags().GetString("comment")

		newStatus := action.Status(args[1])
		if err := wire.ActionService().ChangeStatus(ctx, args[0], newStatus, actor.Username, comment); err != nil {
			return err
		}
		fmt.Printf("✓ Action %s is now %s\n", args[0], action.StatusLabels[newStatus])
		return nil
	},
}

var actionNextCmd = &cobra.Command{
	Use:   "next [id]",
	Short: "Show the permitted next statuses for an action",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermActionsManage); err != nil {
			return err
		}

		next, err := wire.ActionService().ValidNextStatuses(ctx, args[0])
		if err != nil {
			return err
		}
		if len(next) == 0 {
			fmt.Println("No transitions available.")
			return nil
		}
		fmt.Println("Permitted transitions:")
		for _, s := range next {
			fmt.Printf("  %s %s\n", getStatusIcon(s), s)
		}
		return nil
	},
}

var actionHistoryCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show an action's audit trail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermActionsManage); err != nil {
			return err
		}

		entries, err := wire.ActionService().History(ctx, args[0])
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s  %s %-20s  %s", e.Timestamp.Local().Format("2006-01-02 15:04"), getStatusIcon(e.Status), e.Status, e.ChangedBy)
			if e.Comment != "" {
				fmt.Printf("  %q", e.Comment)
			}
			fmt.Println()
		}
		return nil
	},
}

var actionEvidenceCmd = &cobra.Command{
	Use:   "evidence [id]",
	Short: "List an action's evidence files",
	Long:  "Lists the evidence attached to an action; --fetch writes one attachment to disk.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermActionsManage); err != nil {
			return err
		}

		fetch, _ := cmd.Flags().GetString("fetch")
		if fetch != "" {
			out, _ := cmd.Flags().GetString("out")
			file, data, err := wire.ActionService().EvidenceData(ctx, fetch)
			if err != nil {
				return err
			}
			if out == "" {
				out = file.FileName
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			fmt.Printf("✓ Wrote %s (%d bytes) to %s\n", file.FileName, len(data), out)
			return nil
		}

		files, err := wire.ActionService().Evidence(ctx, args[0])
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("No evidence attached.")
			return nil
		}
		for _, f := range files {
			fmt.Printf("%s  %s (%s, %d bytes)\n", f.ID, f.FileName, f.FileType, f.Size)
		}
		return nil
	},
}

var actionDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an action and its history and evidence",
	Long:  "Deletes the action, its full audit trail, and its evidence files. This cannot be undone.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermActionsDelete); err != nil {
			return err
		}
		if err := wire.ActionService().Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted action %s\n", args[0])
		return nil
	},
}

var actionExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export actions as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermActionsManage); err != nil {
			return err
		}

		actions, err := wire.ActionService().List(ctx, primary.ActionFilters{})
		if err != nil {
			return err
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		defer f.Close()

		w := csv.NewWriter(f)
		header := []string{"id", "status", "priority", "description", "responsible", "due_date", "overdue", "evaluation_id", "tags", "created_at"}
		if err := w.Write(header); err != nil {
			return err
		}
		for _, a := range actions {
			row := []string{
				a.ID, string(a.Status), string(a.Priority),
				a.Description, a.Responsible, a.DueDate,
				fmt.Sprintf("%t", a.Overdue), a.EvaluationID,
				strings.Join(a.Tags, ";"),
				a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		fmt.Printf("✓ Exported %d action(s) to %s\n", len(actions), args[0])
		return nil
	},
}

// printActionLine renders one action as a list row.
func printActionLine(a *primary.Action) {
	due := ""
	if a.DueDate != "" {
		due = "  due " + a.DueDate
	}
	fmt.Printf("%s %s  [%s]%s  %s (%s)%s\n",
		getStatusIcon(a.Status), a.ID, a.Priority, due, a.Description, a.Responsible, overdueSuffix(a))
}

// overdueSuffix returns the red OVERDUE marker when the action has
// lapsed its due date.
func overdueSuffix(a *primary.Action) string {
	if !a.Overdue {
		return ""
	}
	return "  " + color.New(color.FgRed, color.Bold).Sprint("OVERDUE")
}

func init() {
	actionListCmd.Flags().StringP("status", "s", "", "Filter by status")
	actionListCmd.Flags().StringP("responsible", "r", "", "Filter by responsible")
	actionListCmd.Flags().StringP("priority", "p", "", "Filter by priority")
	actionListCmd.Flags().StringP("evaluation", "e", "", "Filter by evaluation id")

	actionCreateCmd.Flags().StringP("title", "t", "", "Short title")
	actionCreateCmd.Flags().StringP("description", "d", "", "What has to be done")
	actionCreateCmd.Flags().StringP("responsible", "r", "", "Who has to do it")
	actionCreateCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	actionCreateCmd.Flags().StringP("priority", "p", "medium", "Priority (low, medium, high)")
	actionCreateCmd.Flags().StringSlice("tag", nil, "Tags (repeatable)")

	actionUpdateCmd.Flags().StringP("description", "d", "", "What has to be done")
	actionUpdateCmd.Flags().StringP("responsible", "r", "", "Who has to do it")
	actionUpdateCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	actionUpdateCmd.Flags().StringP("priority", "p", "", "Priority (low, medium, high)")
	actionUpdateCmd.Flags().StringSlice("tag", nil, "Tags (repeatable)")

	actionStatusCmd.Flags().StringP("comment", "c", "", "Comment for the audit trail")

	actionEvidenceCmd.Flags().String("fetch", "", "Attachment id to write to disk")
	actionEvidenceCmd.Flags().StringP("out", "o", "", "Output path (defaults to the stored file name)")

	actionCmd.AddCommand(actionListCmd)
	actionCmd.AddCommand(actionCreateCmd)
	actionCmd.AddCommand(actionShowCmd)
	actionCmd.AddCommand(actionUpdateCmd)
	actionCmd.AddCommand(actionStatusCmd)
	actionCmd.AddCommand(actionNextCmd)
	actionCmd.AddCommand(actionHistoryCmd)
	actionCmd.AddCommand(actionEvidenceCmd)
	actionCmd.AddCommand(actionDeleteCmd)
	actionCmd.AddCommand(actionExportCmd)
}

// ActionCmd returns the action command
func ActionCmd() *cobra.Command {
	return actionCmd
}
