package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ozstats/labourpipe/app"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the raw sample tables",
	Long: "generate writes a deterministic raw wage price index table and a labour\n" +
		"force table for the target quarter, seeded so repeat runs are identical.",
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer closeService(svc)

	if err := svc.Generate(); err != nil {
		return err
	}
	cmd.Printf("wrote %s\n", cfg.Generator.WageOutput)
	cmd.Printf("wrote %s\n", cfg.Generator.LabourOutput)
	return nil
}
