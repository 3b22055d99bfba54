package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/sentinel/internal/core/access"
	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/core/checklist"
	"github.com/example/sentinel/internal/core/evaluation"
	"github.com/example/sentinel/internal/wire"
)

var evaluationCmd = &cobra.Command{
	Use:     "evaluation",
	Aliases: []string{"eval"},
	Short:   "Run and review checklist evaluations",
	Long:    "Start a checklist walkthrough, record answers and corrective action drafts, and finalize it into the history.",
}

var evalStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new evaluation session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermEvaluationsCreate); err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		session, err := wire.EvaluationService().Start(ctx, force)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Started evaluation %s\n", session.ID)
		fmt.Println("  Answer questions with 'sentinel evaluation answer <section> <n> <yes|no>'")
		return nil
	},
}

var evalStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the progress of the active session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermEvaluationsCreate); err != nil {
			return err
		}

		session, err := wire.EvaluationService().Active(ctx)
		if err != nil {
			return err
		}
		if session == nil {
			fmt.Println("No evaluation in progress.")
			return nil
		}

		sections, err := wire.ChecklistService().Get(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Evaluation %s (started %s)\n\n", session.ID, session.CreatedAt.Local().Format("2006-01-02 15:04"))
		for _, section := range sections {
			answered := 0
			for qi := range section.Questions {
				if session.AnswerAt(section.ID, qi) != evaluation.AnswerNone {
					answered++
				}
			}
			fmt.Printf("  %s %s: %d/%d answered\n", section.Icon, section.Title, answered, len(section.Questions))
			for qi, q := range section.Questions {
				marker := " "
				switch session.AnswerAt(section.ID, qi) {
				case evaluation.AnswerYes:
					marker = "✓"
				case evaluation.AnswerNo:
					marker = "✗"
				}
				key := evaluation.QuestionKey(section.ID, qi)
				suffix := ""
				if _, ok := session.Drafts[key]; ok {
					suffix = " [action drafted]"
				}
				if n := len(session.Evidence[key]); n > 0 {
					suffix += fmt.Sprintf(" [%d attachment(s)]", n)
				}
				fmt.Printf("    %s %d. %s%s\n", marker, qi, q, suffix)
			}
		}
		return nil
	},
}

var evalAnswerCmd = &cobra.Command{
	Use:   "answer [section] [question] [yes|no]",
	Short: "Record an answer for one question",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermEvaluationsCreate); err != nil {
			return err
		}
		qi, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("question must be a number, got %q", args[1])
		}
		var value evaluation.Answer
		switch strings.ToLower(args[2]) {
		case "yes", "y":
			value = evaluation.AnswerYes
		case "no", "n":
			value = evaluation.AnswerNo
		default:
			return fmt.Errorf("answer must be yes or no, got %q", args[2])
		}

		if err := wire.EvaluationService().RecordAnswer(ctx, args[0], qi, value); err != nil {
			return err
		}
		fmt.Printf("✓ Recorded %s for %s question %d\n", value, args[0], qi)
		if value == evaluation.AnswerNo {
			fmt.Println("  Hint: draft a corrective action with 'sentinel evaluation action'")
		}
		return nil
	},
}

var evalRootCauseCmd = &cobra.Command{
	Use:   "rootcause [section] [question]",
	Short: "Record a Three-Whys root cause for a No answer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermEvaluationsCreate); err != nil {
			return err
		}
		qi, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("question must be a number, got %q", args[1])
		}
		why1, _ := cmd.Flags().GetString("why1")
		why2, _ := cmd.Flags().GetString("why2")
		why3, _ := cmd.Flags().GetString("why3")

		rc := evaluation.RootCause{Why1: why1, Why2: why2, Why3: why3}
		if err := wire.EvaluationService().RecordRootCause(ctx, args[0], qi, rc); err != nil {
			return err
		}
		fmt.Printf("✓ Recorded root cause for %s question %d\n", args[0], qi)
		return nil
	},
}

var evalActionCmd = &cobra.Command{
	Use:   "action [section] [question]",
	Short: "Draft a corrective action for a question",
	Long:  "Marks the question No, records the root cause, and drafts a corrective action that is created when the evaluation is finalized.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermEvaluationsCreate); err != nil {
			return err
		}
		qi, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("question must be a number, got %q", args[1])
		}
		description, _ := cmd.Flags().GetString("description")
		responsible, _ := cmd.Flags().GetString("responsible")
		due, _ := cmd.Flags().GetString("due")
		priority, _ := cmd.Flags().GetString("priority")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		why1, _ := cmd.Flags().GetString("why1")
		why2, _ := cmd.Flags().GetString("why2")
		why3, _ := cmd.Flags().GetString("why3")

		draft := evaluation.ActionDraft{
			SectionID:     args[0],
			QuestionIndex: qi,
			RootCause:     evaluation.RootCause{Why1: why1, Why2: why2, Why3: why3},
			Description:   description,
			Responsible:   responsible,
			DueDate:       due,
			Priority:      action.Priority(priority),
			Tags:          tags,
		}
		if err := wire.EvaluationService().RecordDraftAction(ctx, draft); err != nil {
			return err
		}
		fmt.Printf("✓ Drafted corrective action for %s question %d\n", args[0], qi)
		return nil
	},
}

var evalRemoveActionCmd = &cobra.Command{
	Use:   "remove-action [section] [question]",
	Short: "Remove a drafted action and its root cause",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermEvaluationsCreate); err != nil {
			return err
		}
		qi, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("question must be a number, got %q", args[1])
		}
		if err := wire.EvaluationService().RemoveDraftAction(ctx, args[0], qi); err != nil {
			return err
		}
		fmt.Printf("✓ Removed drafted action for %s question %d\n", args[0], qi)
		return nil
	},
}

var evalAttachCmd = &cobra.Command{
	Use:   "attach [section] [question] [file]",
	Short: "Attach an evidence file to a question",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermEvaluationsCreate); err != nil {
			return err
		}
		qi, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("question must be a number, got %q", args[1])
		}
		data, err := os.ReadFile(args[2])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		name := filepath.Base(args[2])
		fileType := mime.TypeByExtension(filepath.Ext(name))

		ref, err := wire.EvaluationService().AddEvidence(ctx, args[0], qi, name, fileType, data)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Attached %s as %s\n", name, ref.ID)
		return nil
	},
}

var evalDetachCmd = &cobra.Command{
	Use:   "detach [section] [question] [attachment-id]",
	Short: "Remove an evidence file from a question",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermEvaluationsCreate); err != nil {
			return err
		}
		qi, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("question must be a number, got %q", args[1])
		}
		if err := wire.EvaluationService().RemoveEvidence(ctx, args[0], qi, args[2]); err != nil {
			return err
		}
		fmt.Printf("✓ Detached %s\n", args[2])
		return nil
	},
}

var evalFinishCmd = &cobra.Command{
	Use:   "finish",
	Short: "Finalize the active session into the history",
	Long:  "Scores every fully answered section, persists the evaluation with its drafted corrective actions, and clears the session. Partially answered sections are discarded.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		actor, err := requireActor(ctx, access.PermEvaluationsCreate)
		if err != nil {
			return err
		}

		completed, err := wire.EvaluationService().Finish(ctx, actor.Username)
		if err != nil {
			return err
		}

		c := complianceColor(completed.Compliance)
		fmt.Printf("✓ Finalized evaluation %s\n", completed.ID)
		fmt.Printf("  Compliance: %s\n", c.Sprintf("%.1f%%", completed.Compliance))
		fmt.Printf("  Sections scored: %d\n", len(completed.Scores))
		return nil
	},
}

var evalCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Discard the active session without saving",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermEvaluationsCreate); err != nil {
			return err
		}
		if err := wire.EvaluationService().Cancel(ctx); err != nil {
			return err
		}
		fmt.Println("✓ Discarded the active evaluation")
		return nil
	},
}

var evalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List completed evaluations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermEvaluationsRead); err != nil {
			return err
		}

		evals, err := wire.EvaluationService().List(ctx)
		if err != nil {
			return err
		}
		if len(evals) == 0 {
			fmt.Println("No evaluations yet.")
			return nil
		}

		fmt.Printf("Found %d evaluation(s):\n\n", len(evals))
		for _, ev := range evals {
			c := complianceColor(ev.Compliance)
			fmt.Printf("%s  %s  %s\n", ev.ID, ev.CreatedAt.Local().Format("2006-01-02 15:04"), c.Sprintf("%.1f%%", ev.Compliance))
		}
		return nil
	},
}

var evalShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one completed evaluation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermEvaluationsRead); err != nil {
			return err
		}

		ev, err := wire.EvaluationService().Get(ctx, args[0])
		if err != nil {
			return err
		}
		sections, err := wire.ChecklistService().Get(ctx)
		if err != nil {
			return err
		}

		c := complianceColor(ev.Compliance)
		fmt.Printf("Evaluation %s (%s)\n", ev.ID, ev.CreatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Printf("Compliance: %s\n\n", c.Sprintf("%.1f%%", ev.Compliance))
		for _, section := range sections {
			score, ok := ev.Scores[section.ID]
			if !ok {
				continue
			}
			percent := float64(score.Score) / float64(score.Total) * 100
			fmt.Printf("  %s: %d/%d\n", section.Title, score.Score, score.Total)
			if feedback := section.FeedbackFor(checklist.TierFor(percent)); feedback != "" {
				fmt.Printf("    %s\n", feedback)
			}
		}
		return nil
	},
}

var evalDeleteCmd = &cobra.Command{
	Use:   "delete [id]...",
	Short: "Delete evaluations and everything linked to them",
	Long:  "Deletes the evaluations, their corrective actions, action history, and evidence files. This cannot be undone.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermEvaluationsDelete); err != nil {
			return err
		}
		if err := wire.EvaluationService().Delete(ctx, args); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted %d evaluation(s)\n", len(args))
		return nil
	},
}

func init() {
	evalStartCmd.Flags().BoolP("force", "f", false, "Discard any evaluation already in progress")

	evalRootCauseCmd.Flags().String("why1", "", "First why")
	evalRootCauseCmd.Flags().String("why2", "", "Second why")
	evalRootCauseCmd.Flags().String("why3", "", "Third why (the root cause)")

	evalActionCmd.Flags().StringP("description", "d", "", "What has to be done")
	evalActionCmd.Flags().StringP("responsible", "r", "", "Who has to do it")
	evalActionCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	evalActionCmd.Flags().StringP("priority", "p", "medium", "Priority (low, medium, high)")
	evalActionCmd.Flags().StringSlice("tag", nil, "Tags (repeatable)")
	evalActionCmd.Flags().String("why1", "", "First why")
	evalActionCmd.Flags().String("why2", "", "Second why")
	evalActionCmd.Flags().String("why3", "", "Third why (the root cause)")

	evaluationCmd.AddCommand(evalStartCmd)
	evaluationCmd.AddCommand(evalStatusCmd)
	evaluationCmd.AddCommand(evalAnswerCmd)
	evaluationCmd.AddCommand(evalRootCauseCmd)
	evaluationCmd.AddCommand(evalActionCmd)
	evaluationCmd.AddCommand(evalRemoveActionCmd)
	evaluationCmd.AddCommand(evalAttachCmd)
	evaluationCmd.AddCommand(evalDetachCmd)
	evaluationCmd.AddCommand(evalFinishCmd)
	evaluationCmd.AddCommand(evalCancelCmd)
	evaluationCmd.AddCommand(evalListCmd)
	evaluationCmd.AddCommand(evalShowCmd)
	evaluationCmd.AddCommand(evalDeleteCmd)
}

// EvaluationCmd returns the evaluation command
func EvaluationCmd() *cobra.Command {
	return evaluationCmd
}
