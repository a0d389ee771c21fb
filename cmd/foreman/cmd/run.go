package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/foreman/internal/core"
	"github.com/hugo-lorenzo-mato/foreman/internal/plan"
)

var (
	runTemplate string
	runPlanFile string
	runDescribe bool

	runWidth        int
	runLength       int
	runHeight       int
	runElectrical   bool
	runNoFoundation bool
)

var (
	statusGood = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	statusWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusBad  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

var runCmd = &cobra.Command{
	Use:   "run [description]",
	Short: "Run a construction project to completion",
	Long: `Run a project from a template, a plan file, or a generated plan.

Exactly one plan source is used, chosen in this order: --plan, --template,
or --describe with a free-form description. The --describe mode requires
planner.enabled in the configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProject,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runTemplate, "template", "t", "",
		"built-in project template (see 'foreman templates')")
	runCmd.Flags().StringVarP(&runPlanFile, "plan", "p", "",
		"plan file (.json, .yaml)")
	runCmd.Flags().BoolVar(&runDescribe, "describe", false,
		"generate the plan from the description using the configured planner")

	runCmd.Flags().IntVar(&runWidth, "width", 10, "structure width in feet")
	runCmd.Flags().IntVar(&runLength, "length", 12, "structure length in feet")
	runCmd.Flags().IntVar(&runHeight, "height", 8, "structure height in feet")
	runCmd.Flags().BoolVar(&runElectrical, "electrical", false,
		"include electrical work in parameterized templates")
	runCmd.Flags().BoolVar(&runNoFoundation, "no-foundation", false,
		"skip the concrete foundation in parameterized templates")
}

func runParams() plan.Params {
	return plan.Params{
		Width:         runWidth,
		Length:        runLength,
		Height:        runHeight,
		HasElectrical: runElectrical,
		HasFoundation: !runNoFoundation,
	}
}

func runProject(cmd *cobra.Command, args []string) error {
	description := "construction project"
	if len(args) == 1 {
		description = args[0]
	}

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()
	ctx := cmd.Context()

	switch {
	case runPlanFile != "":
		records, err := plan.Load(runPlanFile)
		if err != nil {
			return err
		}
		if description == "construction project" {
			description = fmt.Sprintf("plan from %s", runPlanFile)
		}
		err = a.engine.Start(ctx, description, records)
		if err != nil {
			return err
		}
	case runTemplate != "":
		records, err := plan.Template(runTemplate, runParams())
		if err != nil {
			return err
		}
		if description == "construction project" {
			description = strings.ReplaceAll(runTemplate, "_", " ")
		}
		err = a.engine.Start(ctx, description, records)
		if err != nil {
			return err
		}
	case runDescribe:
		if len(args) == 0 {
			return errors.New("--describe requires a project description argument")
		}
		if err := a.engine.StartDynamic(ctx, description, runParams()); err != nil {
			return err
		}
	default:
		return errors.New("one of --plan, --template, or --describe is required")
	}

	report, err := a.engine.RunToCompletion(ctx)
	if report != nil {
		printMarkdown(report.RenderMarkdown())
		fmt.Println(statusLine(report.Status))
	}
	return err
}

func statusLine(status core.ProjectStatus) string {
	label := fmt.Sprintf("Project %s", status)
	switch status {
	case core.ProjectStatusCompleted:
		return statusGood.Render(label)
	case core.ProjectStatusPartial:
		return statusWarn.Render(label)
	default:
		return statusBad.Render(label)
	}
}
