// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-report/internal/cluster"
	"github.com/pdiddy/research-report/internal/fetch"
	"github.com/pdiddy/research-report/internal/llm"
	"github.com/pdiddy/research-report/internal/logging"
	"github.com/pdiddy/research-report/internal/metrics"
	"github.com/pdiddy/research-report/internal/pipeline"
	"github.com/pdiddy/research-report/internal/report"
	"github.com/pdiddy/research-report/internal/search"
	"github.com/pdiddy/research-report/internal/secrets"
	"github.com/pdiddy/research-report/internal/summarize"
	"github.com/pdiddy/research-report/pkg/types"
)

const metricsPushTimeout = 10 * time.Second

func runResearch(cmd *cobra.Command, args []string) error {
	topic, count, err := parseArgs(args)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	log, closer, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()
	runID := uuid.NewString()
	log = log.With().Str("run_id", runID).Logger()

	if err := resolveCredentials(&cfg); err != nil {
		return err
	}

	p, rec, err := buildPipeline(cfg, log)
	if err != nil {
		return err
	}

	log.Info().Str("topic", topic).Int("count", count).
		Str("llm", string(cfg.LLM.Provider)).Str("model", cfg.LLM.Model).Msg("run started")
	outcome, runErr := p.Run(cmd.Context(), topic, count)
	if runErr != nil {
		log.Error().Err(runErr).Msg("run failed")
	} else if !outcome.Empty {
		log.Info().Str("markdown", cfg.Report.MarkdownPath).Str("pdf", cfg.Report.PDFPath).Msg("run completed")
	}

	pushMetrics(cfg.Metrics, rec, runID, log)
	return runErr
}

// resolveCredentials is the one-time credential setup. It may prompt on
// the terminal for the model API key.
func resolveCredentials(cfg *types.Config) error {
	resolver, err := secrets.NewResolver(secrets.DefaultDir)
	if err != nil {
		return err
	}
	key, err := resolver.ResolveLLM(cfg.LLM)
	if err != nil {
		return err
	}
	cfg.LLM.APIKey = key

	if cfg.Search.Provider == types.SearchBrave {
		key, err := resolver.ResolveBrave(cfg.Search.BraveAPIKey)
		if err != nil {
			return err
		}
		cfg.Search.BraveAPIKey = key
	}
	return nil
}

func buildPipeline(cfg types.Config, log zerolog.Logger) (*pipeline.Pipeline, *metrics.Recorder, error) {
	provider, err := search.New(cfg.Search)
	if err != nil {
		return nil, nil, err
	}
	model, err := llm.New(cfg.LLM)
	if err != nil {
		return nil, nil, err
	}
	conv, err := report.NewConverter(cfg.Report)
	if err != nil {
		return nil, nil, err
	}

	rec := metrics.New()
	return &pipeline.Pipeline{
		Search:     provider,
		Fetcher:    fetch.NewHTTP(cfg.Fetch),
		Summarizer: summarize.New(model),
		Clusterer:  cluster.New(model),
		Writer:     report.NewWriter(cfg.Report, conv, os.Stdout),
		ResultPath: cfg.Report.ResultPath,
		Log:        log,
		Metrics:    rec,
		Out:        os.Stdout,
	}, rec, nil
}

// pushMetrics sends run metrics when a Pushgateway is configured. A push
// failure is logged and does not change the run's exit status.
func pushMetrics(cfg types.MetricsConfig, rec *metrics.Recorder, runID string, log zerolog.Logger) {
	if cfg.PushgatewayURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), metricsPushTimeout)
	defer cancel()
	if err := rec.Push(ctx, cfg.PushgatewayURL, cfg.Job, runID); err != nil {
		log.Warn().Err(err).Msg("metrics push failed")
		return
	}
	log.Debug().Str("url", cfg.PushgatewayURL).Msg("metrics pushed")
}
