// Command httpd serves the analyzer API: classification of make/model pairs,
// the latest market metrics, attractive leads, and rule management.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RichGutz/Scraper.Neoauto/internal/api"
	"github.com/RichGutz/Scraper.Neoauto/internal/classifier"
	"github.com/RichGutz/Scraper.Neoauto/internal/config"
	"github.com/RichGutz/Scraper.Neoauto/internal/database"
	"github.com/RichGutz/Scraper.Neoauto/internal/logger"
	"github.com/RichGutz/Scraper.Neoauto/internal/rules"
	"github.com/RichGutz/Scraper.Neoauto/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "httpd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
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

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting analyzer HTTP server",
		logger.String("service", cfg.Service.Name),
		logger.Int("port", cfg.Service.Port),
	)

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

	ctx := context.Background()

	var table *rules.Table
	var ruleStore api.RuleStore
	if cfg.Rules.Source == "db" {
		repo := database.NewRulesRepository(db)
		rows, loadErr := repo.ListEnabled(ctx)
		if loadErr != nil {
			return fmt.Errorf("load rules from database: %w", loadErr)
		}
		table = rules.New(rows)
		ruleStore = repo
	} else {
		table, err = rules.LoadCSVFile(cfg.Rules.Path, rules.DefaultColumnMap())
		if err != nil {
			log.Warn("Rule file unavailable, continuing with empty table",
				logger.String("path", cfg.Rules.Path),
				logger.Error(err),
			)
		}
	}
	log.Info("Rule table loaded", logger.Int("rules", table.Len()))

	tel := telemetry.NewProvider()
	handler := api.NewHandler(
		classifier.New(table, log),
		table,
		database.NewMetricsRepository(db),
		database.NewLeadsRepository(db),
		ruleStore,
		log,
	)

	server := api.NewServer(handler, api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Logging.Development,
	}, tel, log)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		log.Info("Shutdown signal received", logger.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Info("Server stopped gracefully")
	}
	return nil
}
