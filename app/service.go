// Package app wires configuration, pipeline components, artifact sinks and
// run observability into executable runs.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ozstats/labourpipe/config"
	coreartifact "github.com/ozstats/labourpipe/core/artifact"
	"github.com/ozstats/labourpipe/core/cleaner"
	"github.com/ozstats/labourpipe/core/events"
	"github.com/ozstats/labourpipe/core/merger"
	coremetrics "github.com/ozstats/labourpipe/core/metrics"
	"github.com/ozstats/labourpipe/core/monitoring"
	"github.com/ozstats/labourpipe/core/pipeline"
	"github.com/ozstats/labourpipe/core/report"
	"github.com/ozstats/labourpipe/core/stats"
	"github.com/ozstats/labourpipe/generator"
	"github.com/ozstats/labourpipe/infra/logger"
	inframon "github.com/ozstats/labourpipe/infra/monitoring"
	"github.com/ozstats/labourpipe/internal/eventbus"
	"github.com/ozstats/labourpipe/jobs/backfill"
	"github.com/ozstats/labourpipe/pkg/export"
	"github.com/ozstats/labourpipe/pkg/tabular"

	_ "github.com/ozstats/labourpipe/app/plugins"
)

// Service executes pipeline runs against one loaded configuration. It is not
// safe for concurrent runs.
type Service struct {
	cfg      *config.Config
	log      logger.Logger
	sink     coreartifact.Sink
	recorder coremetrics.Recorder

	bus *eventbus.Bus[events.Event]
}

// New builds a Service. Artifact sinks and metric recorders are constructed
// from the factory registries named in cfg; a configured Sentry DSN installs
// the process-wide failure monitor.
func New(cfg *config.Config) (*Service, error) {
	sink, err := coreartifact.NewSink(cfg.Artifacts.Sinks)
	if err != nil {
		return nil, fmt.Errorf("artifact sinks: %w", err)
	}
	recorder, err := coremetrics.NewRecorder(cfg.Metrics.Recorders)
	if err != nil {
		return nil, fmt.Errorf("metric recorders: %w", err)
	}
	if cfg.Sentry.DSN != "" {
		mon, err := inframon.NewSentryMonitor(cfg.Sentry)
		if err != nil {
			return nil, fmt.Errorf("sentry monitor: %w", err)
		}
		monitoring.Init(mon)
	}
	return &Service{
		cfg:      cfg,
		log:      logger.New("pipeline"),
		sink:     sink,
		recorder: recorder,
	}, nil
}

// Close releases the artifact sinks and flushes buffered monitor events.
func (s *Service) Close() error {
	monitoring.Flush(2 * time.Second)
	return s.sink.Close()
}

// Run executes the full pipeline: clean the wage source, merge it with the
// labour table in memory, persist and verify the artifacts, then write the
// run report and emit metrics.
func (s *Service) Run(ctx context.Context) (*report.RunReport, error) {
	return s.run(ctx, func(rep *report.RunReport) error {
		cres, err := s.clean(rep)
		if err != nil {
			return err
		}
		return s.merge(rep, merger.Records(cres.Records), "memory")
	})
}

// RunClean executes the cleaning half of the pipeline on its own.
func (s *Service) RunClean(ctx context.Context) (*report.RunReport, error) {
	return s.run(ctx, func(rep *report.RunReport) error {
		_, err := s.clean(rep)
		return err
	})
}

// RunMerge executes the merge on its own, preferring the cleaned wage
// artifact and falling back to cleaning the raw source in memory when the
// artifact is absent.
func (s *Service) RunMerge(ctx context.Context) (*report.RunReport, error) {
	return s.run(ctx, func(rep *report.RunReport) error {
		wage, origin, err := s.wageSource(rep)
		if err != nil {
			return err
		}
		return s.merge(rep, wage, origin)
	})
}

// Generate writes the synthetic source extracts.
func (s *Service) Generate() error {
	return generator.New(s.cfg.Generator).Run()
}

// Backfill expands the merged artifact into a synthetic multi-quarter
// history. An empty configured source means the merger output.
func (s *Service) Backfill() (*backfill.Result, error) {
	cfg := s.cfg.Backfill
	if cfg.Source == "" {
		cfg.Source = s.cfg.Artifacts.Resolve(s.cfg.Merger.Output)
	} else {
		cfg.Source = s.cfg.Artifacts.Resolve(cfg.Source)
	}
	cfg.MergedOutput = s.cfg.Artifacts.Resolve(cfg.MergedOutput)
	cfg.WageOutput = s.cfg.Artifacts.Resolve(cfg.WageOutput)
	return backfill.New(cfg, logger.New("backfill")).Run()
}

// run frames one pipeline run: a fresh report and event bus, the body, then
// the report file and the metrics emission. The report is returned even when
// the body fails so callers can surface what happened.
func (s *Service) run(ctx context.Context, body func(*report.RunReport) error) (*report.RunReport, error) {
	rep := report.New(s.cfg.Cleaner.Target())
	s.bus = eventbus.New[events.Event](64)
	done := s.collect(ctx)

	err := body(rep)
	rep.Finish(err)
	s.bus.Close()
	<-done

	reportPath := s.cfg.Artifacts.Resolve(s.cfg.Artifacts.Report)
	if werr := rep.Write(reportPath); werr != nil {
		s.log.Errorf("writing run report: %v", werr)
	}
	if merr := s.recorder.RecordRun(observation(rep)); merr != nil {
		s.log.Errorf("recording run metrics: %v", merr)
	}
	if err != nil {
		monitoring.CaptureException(err, map[string]string{
			"run_id":  rep.RunID,
			"quarter": rep.Quarter.String(),
		})
		s.log.Errorf("run %s failed: %v", rep.RunID, err)
		return rep, err
	}
	s.log.Infof("run %s finished in %dms, report at %s", rep.RunID, rep.DurationMS, reportPath)
	return rep, nil
}

// clean runs the wage cleaner, verifies its artifact and folds the outcome
// into the report.
func (s *Service) clean(rep *report.RunReport) (*cleaner.Result, error) {
	cl := cleaner.New(s.cfg.Cleaner, logger.New("cleaner"), s.notify(rep, "cleaner"))
	out := s.cfg.Artifacts.Resolve(s.cfg.Cleaner.Output)
	res, err := cl.Run(out)
	if err != nil {
		return nil, fmt.Errorf("cleaning wage table: %w", err)
	}
	rep.AddWarnings(res.Warnings...)
	s.publishWarnings(rep.RunID, "cleaner", res.Warnings)
	rep.AddTable("wage", res.RowsRead, res.RowsUsed)
	rep.SetWageSummary(stats.ForWage(res.Records))

	art, err := report.VerifyCSV("wage_csv", out, len(res.Records), len(export.WageHeader))
	if err != nil {
		return nil, err
	}
	rep.AddArtifact(art)
	s.bus.Publish(events.ArtifactEvent{RunID: rep.RunID, Kind: art.Kind, Path: art.Path, Records: art.Records})
	return res, nil
}

// merge runs the dataset merger against the given wage source, verifies the
// artifact, fans the merged table out to the configured sinks and folds the
// outcome into the report.
func (s *Service) merge(rep *report.RunReport, wage merger.WageSource, origin string) error {
	mg := merger.New(s.cfg.Merger, logger.New("merger"), s.notify(rep, "merger"))
	out := s.cfg.Artifacts.Resolve(s.cfg.Merger.Output)
	res, err := mg.Run(wage, out)
	if err != nil {
		return fmt.Errorf("merging datasets: %w", err)
	}
	rep.AddWarnings(res.Warnings...)
	s.publishWarnings(rep.RunID, "merger", res.Warnings)
	rep.AddTable("labour", res.LabourRows, res.LabourRegions)
	rep.AddTable("cleaned_wage", res.WageRows, res.WageRegions)
	rep.SetMergedSummary(stats.ForMerged(res.Records))
	s.log.Debugf("merged with wage records from %s", origin)

	art, err := report.VerifyCSV("merged_csv", out, len(res.Records), len(export.MergedHeader))
	if err != nil {
		return err
	}
	rep.AddArtifact(art)
	s.bus.Publish(events.ArtifactEvent{RunID: rep.RunID, Kind: art.Kind, Path: art.Path, Records: art.Records})

	if err := s.sink.WriteMerged(res.Records); err != nil {
		return fmt.Errorf("artifact sinks: %w", err)
	}
	return nil
}

// wageSource picks the merge input: the cleaned artifact when it exists,
// otherwise the raw wage source cleaned in memory. merger.wage_source
// overrides where the cleaned artifact is looked for.
func (s *Service) wageSource(rep *report.RunReport) (merger.WageSource, string, error) {
	path := s.cfg.Merger.WageSource
	if path == "" {
		path = s.cfg.Cleaner.Output
	}
	cleaned := s.cfg.Artifacts.Resolve(path)
	if _, err := os.Stat(cleaned); err == nil {
		return merger.CleanedFile(cleaned), cleaned, nil
	}
	s.log.Warnf("cleaned wage table %s missing, cleaning raw source %s in memory",
		cleaned, s.cfg.Cleaner.Source)

	table, warns, err := tabular.ReadFile(s.cfg.Cleaner.Source)
	if err != nil {
		return nil, "", fmt.Errorf("loading wage source: %w", err)
	}
	res, err := cleaner.New(s.cfg.Cleaner, logger.New("cleaner"), nil).CleanTable(table)
	if err != nil {
		return nil, "", fmt.Errorf("cleaning wage source in memory: %w", err)
	}
	warns = append(warns, res.Warnings...)
	rep.AddWarnings(warns...)
	s.publishWarnings(rep.RunID, "cleaner", warns)
	rep.AddTable("wage", res.RowsRead, res.RowsUsed)
	rep.SetWageSummary(stats.ForWage(res.Records))
	return merger.Records(res.Records), s.cfg.Cleaner.Source, nil
}

// notify adapts a component's stage transitions: folded into the report
// synchronously, mirrored on the bus for subscribers.
func (s *Service) notify(rep *report.RunReport, component string) func(pipeline.Transition) {
	return func(tr pipeline.Transition) {
		rep.ObserveTransition(component, tr)
		s.bus.Publish(events.StageEvent{
			RunID:     rep.RunID,
			Component: component,
			From:      tr.From,
			To:        tr.To,
			At:        tr.At,
		})
	}
}

func (s *Service) publishWarnings(runID, component string, warns []pipeline.Warning) {
	for _, w := range warns {
		s.bus.Publish(events.WarningEvent{RunID: runID, Component: component, Warning: w})
	}
}

// collect drains the run's event bus on its own goroutine, driving progress
// logging until the bus closes. The returned channel closes once the
// subscriber has drained, so run can finish the report after all events.
func (s *Service) collect(ctx context.Context) <-chan struct{} {
	sub := s.bus.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer monitoring.Recover()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.StageEvent:
					s.log.Debugf("%s: %s -> %s", e.Component, e.From, e.To)
				case events.WarningEvent:
					s.log.Warnf("%s: %s", e.Component, e.Warning.Detail)
				case events.ArtifactEvent:
					s.log.Infof("artifact %s: %s (%d records)", e.Kind, e.Path, e.Records)
				}
			}
		}
	}()
	return done
}

// observation converts the finished report into the metrics payload.
func observation(rep *report.RunReport) coremetrics.RunObservation {
	obs := coremetrics.RunObservation{
		RunID:         rep.RunID,
		Quarter:       rep.Quarter,
		Succeeded:     rep.Status == report.StatusSucceeded,
		Finished:      rep.Finished,
		Duration:      time.Duration(rep.DurationMS) * time.Millisecond,
		WarningCounts: rep.WarningCounts,
	}
	for _, st := range rep.Stages {
		obs.Stages = append(obs.Stages, coremetrics.StageDuration{
			Component: st.Component,
			Stage:     st.Stage,
			Duration:  time.Duration(st.DurationMS) * time.Millisecond,
		})
	}
	for _, tb := range rep.Tables {
		obs.Tables = append(obs.Tables, coremetrics.TableRows{
			Table: tb.Table,
			Read:  tb.RowsRead,
			Used:  tb.RowsUsed,
		})
	}
	if rep.Merged != nil {
		obs.Regions = rep.Merged.Regions
	}
	return obs
}
