package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/foreman/internal/config"
)

var initPath string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default configuration file",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := config.WriteDefault(initPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", initPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initPath, "path", ".foreman.yaml", "where to write the config file")
}
