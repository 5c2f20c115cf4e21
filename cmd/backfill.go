package cmd

import "github.com/spf13/cobra"

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Expand the merged table into quarterly history",
	Long: "backfill reads the single-quarter merged table and synthesises the\n" +
		"preceding quarters for every region, keeping the source quarter verbatim.",
	RunE: runBackfill,
}

func init() {
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	res, err := svc.Backfill()
	if err != nil {
		return err
	}
	cmd.Printf("backfilled %d records across %d quarters (%s..%s)\n",
		res.Records, len(res.Quarters), res.Quarters[0], res.Source)
	cmd.Printf("wrote %s\n", res.MergedOutput)
	cmd.Printf("wrote %s\n", res.WageOutput)
	return nil
}
