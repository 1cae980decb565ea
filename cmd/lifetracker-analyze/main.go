// Command lifetracker-analyze fits the life-event rhythm and influence model
// against a CSV export of timestamped events, and writes the result as JSON,
// CSV artifacts, and a text summary.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/rhaversen/lifetracker-analysis/internal/config"
	"github.com/rhaversen/lifetracker-analysis/internal/obslog"
	"github.com/rhaversen/lifetracker-analysis/internal/pipeline"
	"github.com/rhaversen/lifetracker-analysis/internal/report"
)

func main() {
	flags := pflag.NewFlagSet("lifetracker-analyze", pflag.ExitOnError)
	inputPath := flags.StringP("input", "i", "", "path to a CSV file of events (type_name,time_ms)")
	configPath := flags.StringP("config", "c", "", "path to an optional YAML config file")
	outDir := flags.StringP("out", "o", ".", "directory to write result.json and CSV artifacts into")
	flags.Int("num_bases", 0, "override numBases, 1-9 (when not given, the config/default value is kept)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: lifetracker-analyze -i events.csv [-c config.yaml] [-o outdir]")
		os.Exit(2)
	}

	opts, err := config.Load(*configPath, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading config:", err)
		os.Exit(1)
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		os.Exit(1)
	}
	obslog.Init(opts.LogLevel)

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	events, err := loadEventsCSV(*inputPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load events")
	}
	log.WithField("num_events", len(events)).Info("loaded events")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("interrupt received, canceling run")
		cancel()
	}()

	pipelineOpts := pipeline.Options{
		NumBases:     opts.NumBases,
		MaxIter:      opts.MaxIter,
		LearningRate: opts.LearningRate,
		Lambda1:      opts.Lambda1,
		Lambda2:      opts.Lambda2,
		MinStrength:  opts.MinStrength,
		MaxInsights:  opts.MaxInsights,
	}

	result, err := pipeline.Run(ctx, events, pipelineOpts, func(p pipeline.Progress) {
		log.WithFields(logrus.Fields{
			"run_id":  p.RunID,
			"stage":   p.Stage,
			"percent": p.Percent,
		}).Info(p.Detail)
	})
	if err != nil {
		if ctx.Err() != nil {
			log.Info("run canceled")
			return
		}
		log.WithError(err).Fatal("analysis failed")
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.WithError(err).Fatal("failed to create output directory")
	}

	resultPath := *outDir + "/result.json"
	if err := writeResultJSON(resultPath, result); err != nil {
		log.WithError(err).Fatal("failed to write result.json")
	}
	if err := report.WriteAll(*outDir, result); err != nil {
		log.WithError(err).Fatal("failed to write CSV artifacts")
	}

	report.PrintSummary(os.Stdout, result)
}

func writeResultJSON(path string, result *pipeline.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
