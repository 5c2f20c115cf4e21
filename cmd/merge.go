package cmd

import "github.com/spf13/cobra"

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge the labour force and wage tables",
	Long: "merge joins the labour force table with the cleaned wage table. When the\n" +
		"cleaned artifact is missing, the raw wage source is cleaned in memory first.",
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	rep, err := svc.RunMerge(ctx)
	if err != nil {
		return err
	}
	printRun(cmd, rep)
	return nil
}
