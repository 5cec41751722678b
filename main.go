package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"marketfeed/internal/api"
	"marketfeed/internal/config"
	"marketfeed/internal/coordinator"
	"marketfeed/internal/fetcher"
	"marketfeed/internal/googlefinance"
	"marketfeed/internal/portfolio"
	"marketfeed/internal/ratelimit"
	"marketfeed/internal/revalidate"
	"marketfeed/internal/snapshot"
	"marketfeed/internal/yahoo"
)

func main() {
	configPath := pflag.String("config", "", "path to a config file (default: ./config.yaml or $HOME/.marketfeed/config.yaml)")
	once := pflag.Bool("once", false, "refresh every holding once, print the results and exit")
	importXLSX := pflag.String("import-xlsx", "", "convert a portfolio workbook to the JSON seed and exit")
	sheet := pflag.String("sheet", "", "workbook sheet to import (default: first sheet)")
	out := pflag.String("out", "", "output path for --import-xlsx (default: the configured portfolio file)")
	pflag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *importXLSX != "" {
		dest := *out
		if dest == "" {
			dest = cfg.PortfolioFile
		}
		if err := importWorkbook(*importXLSX, *sheet, dest); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		return
	}

	// Create context with cancellation for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := portfolio.NewFileSource(cfg.PortfolioFile)
	orch := newOrchestrator(cfg)
	refresh := coordinator.New(orch, cfg.RefreshConcurrency)

	if *once {
		if err := runOnce(ctx, cfg, source, refresh); err != nil {
			log.Fatalf("Refresh failed: %v", err)
		}
		return
	}

	handler := api.NewHandler(source, orch, refresh, cfg.RefreshTimeout)
	srv := api.NewServer(cfg.ListenAddr, handler)

	go func() {
		slog.Info("HTTP server listening", "addr", cfg.ListenAddr, "portfolio", cfg.PortfolioFile)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
}

// newOrchestrator wires both providers with their own revalidation window
// and a shared rate limiter.
func newOrchestrator(cfg *config.Config) *snapshot.Orchestrator {
	limiter := ratelimit.New(map[ratelimit.API]float64{
		ratelimit.APIYahoo:  cfg.QuoteRateLimit,
		ratelimit.APIGoogle: cfg.FundamentalsRateLimit,
	})

	quotes := yahoo.NewQuoteFetcher(cfg.QuoteBaseURL, fetcher.ClientOptions{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
		Transport: revalidate.New(nil, cfg.QuoteRevalidate),
	}, limiter)

	fundamentals := googlefinance.NewFundamentalsFetcher(cfg.FundamentalsBaseURL, fetcher.ClientOptions{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
		Transport: revalidate.New(nil, cfg.FundamentalsRevalidate),
	}, limiter)

	return snapshot.NewOrchestrator(quotes, fundamentals)
}

func runOnce(ctx context.Context, cfg *config.Config, source portfolio.Source, refresh *coordinator.Coordinator) error {
	p, err := source.Portfolio(ctx)
	if err != nil {
		return err
	}

	// Add timeout to prevent hanging indefinitely
	fetchCtx, cancel := context.WithTimeout(ctx, cfg.RefreshTimeout)
	defer cancel()

	fmt.Println("Fetching market data for the portfolio...")
	fmt.Println("================================================")
	results, err := refresh.Run(fetchCtx, p.Holdings)
	if err != nil {
		return err
	}
	coordinator.Print(os.Stdout, results)
	fmt.Println("================================================")
	return nil
}

func importWorkbook(path, sheet, dest string) error {
	p, err := portfolio.ImportWorkbook(path, sheet)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding portfolio: %w", err)
	}
	if err := os.WriteFile(dest, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	fmt.Printf("Exported %d holdings to %s\n", len(p.Holdings), dest)
	return nil
}
