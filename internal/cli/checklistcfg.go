package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/sentinel/internal/core/access"
	"github.com/example/sentinel/internal/core/checklist"
	"github.com/example/sentinel/internal/wire"
)

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Inspect and edit the checklist definition",
	Long:  "Shows, exports, imports, and resets the checklist definition used by new evaluation sessions. Changing it never affects a session already in progress.",
}

var checklistShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current checklist definition",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermConfigRead); err != nil {
			return err
		}

		sections, err := wire.ChecklistService().Get(ctx)
		if err != nil {
			return err
		}

		for _, section := range sections {
			fmt.Printf("%s %s (%s)\n", section.Icon, section.Title, section.ID)
			for qi, q := range section.Questions {
				fmt.Printf("  %d. %s\n", qi, q)
			}
			fmt.Println()
		}
		return nil
	},
}

var checklistExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the checklist definition as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermConfigRead); err != nil {
			return err
		}

		sections, err := wire.ChecklistService().Get(ctx)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(sections)
		if err != nil {
			return fmt.Errorf("failed to encode checklist: %w", err)
		}
		if err := os.WriteFile(args[0], data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		fmt.Printf("✓ Exported %d section(s) to %s\n", len(sections), args[0])
		return nil
	},
}

var checklistImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the checklist definition from a YAML file",
	Long:  "Validates and stores the definition. It takes effect for sessions started afterwards.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermConfigUpdate); err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		var sections []checklist.Section
		if err := yaml.Unmarshal(data, &sections); err != nil {
			return fmt.Errorf("failed to parse checklist: %w", err)
		}

		if err := wire.ChecklistService().Update(ctx, sections); err != nil {
			return err
		}
		fmt.Printf("✓ Imported %d section(s)\n", len(sections))
		return nil
	},
}

var checklistResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the built-in checklist definition",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if _, err := requireActor(ctx, access.PermConfigAdvanced); err != nil {
			return err
		}
		if err := wire.ChecklistService().Reset(ctx); err != nil {
			return err
		}
		fmt.Println("✓ Restored the built-in checklist")
		return nil
	},
}

func init() {
	checklistCmd.AddCommand(checklistShowCmd)
	checklistCmd.AddCommand(checklistExportCmd)
	checklistCmd.AddCommand(checklistImportCmd)
	checklistCmd.AddCommand(checklistResetCmd)
}

// ChecklistCmd returns the checklist command
func ChecklistCmd() *cobra.Command {
	return checklistCmd
}
