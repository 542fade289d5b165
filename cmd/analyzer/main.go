// Command analyzer runs one market analysis pass: fetch raw listings,
// normalize, aggregate per-model metrics, filter attractive leads, and
// persist the results. It is designed to run from cron once a day.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/RichGutz/Scraper.Neoauto/internal/aggregator"
	"github.com/RichGutz/Scraper.Neoauto/internal/classifier"
	"github.com/RichGutz/Scraper.Neoauto/internal/cleaner"
	"github.com/RichGutz/Scraper.Neoauto/internal/config"
	"github.com/RichGutz/Scraper.Neoauto/internal/database"
	"github.com/RichGutz/Scraper.Neoauto/internal/leads"
	"github.com/RichGutz/Scraper.Neoauto/internal/logger"
	"github.com/RichGutz/Scraper.Neoauto/internal/processor"
	"github.com/RichGutz/Scraper.Neoauto/internal/rules"
	"github.com/RichGutz/Scraper.Neoauto/internal/telemetry"
)

const runTimeout = 15 * time.Minute

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	window := flag.Duration("window", 0, "lead recency window override, e.g. 48h for the weekly run")
	flag.Parse()

	if err := run(*configPath, *window); err != nil {
		fmt.Fprintf(os.Stderr, "analyzer: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, windowOverride time.Duration) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = config.Default()
	}
	if windowOverride > 0 {
		cfg.Analysis.LeadWindow = windowOverride
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	db, err := database.NewPostgresConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn("Error closing database connection", logger.Error(closeErr))
		}
	}()

	table, err := loadRuleTable(ctx, cfg, db, log)
	if err != nil {
		return err
	}

	tel := telemetry.NewProvider()
	modelClassifier := classifier.New(table, log)
	batch := processor.NewBatchClassifier(modelClassifier, cfg.Service.Concurrency, tel, log)
	pipeline := processor.NewPipeline(
		cleaner.New(log),
		batch,
		aggregator.New(log),
		leads.NewFilter(leads.Options{
			MinYear:           cfg.Analysis.LeadMinYear,
			IncludeMultiOwner: cfg.Analysis.IncludeMultiOwner,
		}, log),
		tel,
		log,
	)

	since := time.Now().UTC().AddDate(0, 0, -cfg.Analysis.HistoryDays)
	listingsRepo := database.NewListingsRepository(db, cfg.Database.PageSize, log)
	raw, err := listingsRepo.FetchSince(ctx, since)
	if err != nil {
		return fmt.Errorf("fetch raw listings: %w", err)
	}
	log.Info("Fetched raw listings",
		logger.Int("count", len(raw)),
		logger.Time("since", since),
	)

	result, err := pipeline.Run(ctx, raw, processor.Options{
		LeadWindow: cfg.Analysis.LeadWindow,
	})
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	metricsRepo := database.NewMetricsRepository(db)
	if err := metricsRepo.ReplaceAll(ctx, result.Metrics, result.RanAt); err != nil {
		return fmt.Errorf("persist market metrics: %w", err)
	}

	leadsRepo := database.NewLeadsRepository(db)
	if err := leadsRepo.InsertRun(ctx, result.RanAt, result.Leads); err != nil {
		return fmt.Errorf("persist leads: %w", err)
	}

	log.Info("Analysis run persisted",
		logger.Int("metrics", len(result.Metrics)),
		logger.Int("leads", len(result.Leads)),
		logger.Time("ran_at", result.RanAt),
	)
	return nil
}

// loadRuleTable loads normalization rules from the configured source. A
// missing CSV degrades to an empty table so a run still produces fallback
// model bases instead of failing outright.
func loadRuleTable(ctx context.Context, cfg *config.Config, db *sqlx.DB, log logger.Logger) (*rules.Table, error) {
	var table *rules.Table

	switch cfg.Rules.Source {
	case "db":
		rows, err := database.NewRulesRepository(db).ListEnabled(ctx)
		if err != nil {
			return nil, fmt.Errorf("load rules from database: %w", err)
		}
		table = rules.New(rows)
	default:
		var err error
		table, err = rules.LoadCSVFile(cfg.Rules.Path, rules.DefaultColumnMap())
		if err != nil {
			log.Warn("Rule file unavailable, continuing with empty table",
				logger.String("path", cfg.Rules.Path),
				logger.Error(err),
			)
		}
	}

	if table.Empty() {
		log.Warn("No normalization rules loaded, all models will use fallback naming")
	} else {
		log.Info("Rule table loaded",
			logger.Int("rules", table.Len()),
			logger.Int("skipped", table.Skipped()),
		)
	}
	return table, nil
}
