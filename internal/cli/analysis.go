package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/sentinel/internal/core/access"
	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/wire"
)

var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Derived metrics over the evaluation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermAnalysisRead); err != nil {
			return err
		}

		overview, err := wire.MetricsService().Overview(ctx)
		if err != nil {
			return err
		}
		if overview.EvaluationCount == 0 {
			fmt.Println("No evaluations yet. Finish one with 'sentinel evaluation finish'.")
			return nil
		}

		fmt.Printf("Evaluations: %d\n\n", overview.EvaluationCount)

		if len(overview.LatestSections) > 0 {
			fmt.Println("Latest evaluation by section:")
			for _, sc := range overview.LatestSections {
				c := complianceColor(float64(sc.Percent))
				fmt.Printf("  %-28s %s %s\n", sc.Title, bar(float64(sc.Percent), 20), c.Sprintf("%3d%%", sc.Percent))
			}
			fmt.Println()
		}

		if len(overview.Trend) > 0 {
			fmt.Println("Compliance trend:")
			for _, p := range overview.Trend {
				c := complianceColor(p.Compliance)
				fmt.Printf("  %s  %s %s\n", p.CreatedAt.Local().Format("2006-01-02"), bar(p.Compliance, 20), c.Sprintf("%5.1f%%", p.Compliance))
			}
			fmt.Println()
		}

		if len(overview.TopFailures) > 0 {
			fmt.Println("Most frequent failures:")
			for _, f := range overview.TopFailures {
				fmt.Printf("  %2dx  %s (%s question %d)\n", f.Count, f.QuestionText, f.SectionID, f.QuestionIndex)
			}
			fmt.Println()
		}

		if len(overview.Distribution) > 0 {
			fmt.Println("Actions by status:")
			for _, sc := range overview.Distribution {
				fmt.Printf("  %s %-20s %d\n", getStatusIcon(sc.Status), action.StatusLabels[sc.Status], sc.Count)
			}
			fmt.Println()
		}

		if len(overview.Effectiveness) > 0 {
			fmt.Println("Effectiveness by responsible:")
			for _, r := range overview.Effectiveness {
				c := complianceColor(float64(r.Percent))
				fmt.Printf("  %-20s %d/%d completed %s\n", r.Name, r.Completed, r.Total, c.Sprintf("(%d%%)", r.Percent))
			}
		}
		return nil
	},
}

// AnalysisCmd returns the analysis command
func AnalysisCmd() *cobra.Command {
	return analysisCmd
}
