package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/foreman/internal/plan"
)

var templateNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List built-in project templates",
	RunE: func(_ *cobra.Command, _ []string) error {
		for _, name := range plan.TemplateNames() {
			records, err := plan.Template(name, plan.DefaultParams())
			if err != nil {
				return err
			}
			fmt.Printf("%s  (%d tasks)\n", templateNameStyle.Render(name), len(records))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
