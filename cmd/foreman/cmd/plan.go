package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/foreman/internal/plan"
)

var (
	planOutput   string
	planTemplate string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Validate and export project plans",
}

var planValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a plan file without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		records, err := plan.Load(args[0])
		if err != nil {
			return err
		}
		graph, err := plan.Ingest(records)
		if err != nil {
			return err
		}
		fmt.Printf("Plan is valid: %d tasks\n", graph.Len())
		if unknown := plan.UnknownPhases(records); len(unknown) > 0 {
			fmt.Printf("Unrecognized phases (these run after all known phases): %s\n",
				strings.Join(unknown, ", "))
		}
		return nil
	},
}

var planExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a built-in template as a plan file",
	Long: `Export a built-in template as an editable JSON plan file.

The exported plan can be adjusted and fed back with 'foreman run --plan'.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if planTemplate == "" {
			return errors.New("--template is required")
		}
		records, err := plan.Template(planTemplate, runParams())
		if err != nil {
			return err
		}
		data, err := plan.Save(planTemplate, records)
		if err != nil {
			return err
		}
		if planOutput == "" || planOutput == "-" {
			fmt.Print(string(data))
			return nil
		}
		if err := renameio.WriteFile(planOutput, data, 0o644); err != nil {
			return fmt.Errorf("writing plan: %w", err)
		}
		fmt.Printf("Wrote %d tasks to %s\n", len(records), planOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planValidateCmd)
	planCmd.AddCommand(planExportCmd)

	planExportCmd.Flags().StringVarP(&planTemplate, "template", "t", "",
		"template to export (see 'foreman templates')")
	planExportCmd.Flags().StringVarP(&planOutput, "output", "o", "-",
		"output file, or - for stdout")
	planExportCmd.Flags().IntVar(&runWidth, "width", 10, "structure width in feet")
	planExportCmd.Flags().IntVar(&runLength, "length", 12, "structure length in feet")
	planExportCmd.Flags().IntVar(&runHeight, "height", 8, "structure height in feet")
	planExportCmd.Flags().BoolVar(&runElectrical, "electrical", false,
		"include electrical work in parameterized templates")
	planExportCmd.Flags().BoolVar(&runNoFoundation, "no-foundation", false,
		"skip the concrete foundation in parameterized templates")
}
