package cmd

import "github.com/spf13/cobra"

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the raw wage price index table",
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	rep, err := svc.RunClean(ctx)
	if err != nil {
		return err
	}
	printRun(cmd, rep)
	return nil
}
