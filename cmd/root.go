package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ozstats/labourpipe/app"
	"github.com/ozstats/labourpipe/config"
	"github.com/ozstats/labourpipe/core/report"
	"github.com/ozstats/labourpipe/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "labourpipe",
	Short: "Australian labour market data pipeline",
	Long: "labourpipe cleans the raw wage price index extract, merges it with the\n" +
		"labour force table and writes the merged analysis artifacts consumed by\n" +
		"the dashboard charts.",
	RunE: runPipeline,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configured file, or the built-in defaults when no
// file is given.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newService() (*app.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}

func closeService(svc *app.Service) {
	if err := svc.Close(); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printRun(cmd *cobra.Command, rep *report.RunReport) {
	cmd.Printf("run %s for %s: %s\n", rep.RunID, rep.Quarter, rep.Status)
	for _, a := range rep.Artifacts {
		cmd.Printf("  %s: %s (%d records)\n", a.Kind, a.Path, a.Records)
	}
	if len(rep.Warnings) > 0 {
		cmd.Printf("  %d warnings, see the run report\n", len(rep.Warnings))
	}
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	rep, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	printRun(cmd, rep)
	return nil
}
