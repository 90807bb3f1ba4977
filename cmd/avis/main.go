// Command avis scrapes customer reviews for a business from the map
// application's reviews tab.
//
// Usage:
//
//	avis -business "Chez Louis"                    # scrape once, export files
//	avis -business "Chez Louis" -translate         # with translation
//	avis -serve :8086                              # HTTP API
//	avis -mcp                                      # MCP server on stdio
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/avis/dbopen"
	"github.com/hazyhaar/avis/export"
	"github.com/hazyhaar/avis/scrape"
	"github.com/hazyhaar/avis/store"
	"github.com/hazyhaar/avis/textproc"
	"github.com/hazyhaar/avis/translate"
)

func main() {
	business := flag.String("business", "", "business name to scrape reviews for")
	maxReviews := flag.Int("max-reviews", 0, "cap on extracted reviews (default from config)")
	doTranslate := flag.Bool("translate", false, "translate reviews to the target language")
	translator := flag.String("translator", "google", "translation backend: google, openai")
	targetLang := flag.String("target-lang", "", "translation target language (default en)")
	headless := flag.Bool("headless", true, "run Chrome headless")
	outputDir := flag.String("output-dir", ".", "directory for exported files")
	formats := flag.String("formats", "csv,json,summary", "comma-separated export formats: csv, json, summary, markdown")
	configPath := flag.String("config", "", "path to avis.yaml config file")
	dbPath := flag.String("db", "avis.db", "SQLite database path")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	serveAddr := flag.String("serve", "", "run the HTTP API on this address instead of scraping once")
	mcpMode := flag.Bool("mcp", false, "run as an MCP server on stdio")
	authHash := flag.String("auth-hash", "", "bcrypt hash enabling Basic Auth on the HTTP API (user 'avis'); overrides auth_hash from config")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("avis: config", "error", err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg, *maxReviews, *doTranslate, *translator, *targetLang, *headless)

	if err := run(ctx, logger, cfg, runOptions{
		business:  *business,
		outputDir: *outputDir,
		formats:   *formats,
		dbPath:    *dbPath,
		serveAddr: *serveAddr,
		mcpMode:   *mcpMode,
		authHash:  *authHash,
	}); err != nil {
		logger.Error("avis: fatal", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	business  string
	outputDir string
	formats   string
	dbPath    string
	serveAddr string
	mcpMode   bool
	authHash  string
}

func loadConfig(path string) (*scrape.Config, error) {
	if path == "" {
		return scrape.DefaultConfig(), nil
	}
	return scrape.LoadConfigFile(path)
}

func applyFlagOverrides(cfg *scrape.Config, maxReviews int, doTranslate bool, translator, targetLang string, headless bool) {
	if maxReviews > 0 {
		cfg.MaxReviews = maxReviews
	}
	if doTranslate {
		cfg.Translate.Backend = translator
	}
	if targetLang != "" {
		cfg.Translate.TargetLang = targetLang
	}
	if !headless {
		cfg.Browser.Stealth = "headful"
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *scrape.Config, opts runOptions) error {
	db, err := dbopen.Open(opts.dbPath, dbopen.WithMkdirAll())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	st := store.New(db)
	if err := st.Init(); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	exp, err := export.New(opts.outputDir, logger)
	if err != nil {
		return err
	}

	proc, err := buildProcessor(cfg, logger)
	if err != nil {
		return err
	}

	app := &app{
		cfg:    cfg,
		store:  st,
		exp:    exp,
		proc:   proc,
		logger: logger,
	}

	switch {
	case opts.mcpMode:
		return app.runMCP(ctx)
	case opts.serveAddr != "":
		hash := opts.authHash
		if hash == "" {
			hash = cfg.AuthHash
		}
		return app.serve(ctx, opts.serveAddr, hash)
	case opts.business != "":
		return app.scrapeOnce(ctx, opts.business, opts.formats)
	default:
		fmt.Fprintln(os.Stderr, "usage: avis -business <name> | -serve <addr> | -mcp")
		os.Exit(1)
		return nil
	}
}

// buildProcessor wires the translation backend behind a cache and a
// circuit breaker; failures degrade to the cleaned original text.
func buildProcessor(cfg *scrape.Config, logger *slog.Logger) (*textproc.Processor, error) {
	var tr translate.Translator
	switch cfg.Translate.Backend {
	case "", "off":
		tr = nil
	case "google":
		tr = translate.NewGoogle(translate.GoogleConfig{TargetLang: cfg.Translate.TargetLang})
	case "openai":
		key := cfg.Translate.APIKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		oa, err := translate.NewOpenAI(translate.OpenAIConfig{
			APIKey:     key,
			Model:      cfg.Translate.Model,
			TargetLang: cfg.Translate.TargetLang,
		})
		if err != nil {
			return nil, err
		}
		tr = oa
	default:
		return nil, fmt.Errorf("unknown translation backend %q", cfg.Translate.Backend)
	}

	if tr != nil {
		tr = translate.WithCache(translate.WithBreaker(tr, translate.BreakerConfig{}))
	}
	return textproc.NewProcessor(tr, logger), nil
}

// app holds the wired services shared by the CLI, HTTP, and MCP surfaces.
type app struct {
	cfg    *scrape.Config
	store  *store.Store
	exp    *export.Exporter
	proc   *textproc.Processor
	logger *slog.Logger
}

// scrapeOnce runs the pipeline for one business, persists the result, and
// exports the requested formats.
func (a *app) scrapeOnce(ctx context.Context, business, formats string) error {
	result, runID, err := a.scrapeAndSave(ctx, business)
	if result == nil {
		return err
	}
	if err != nil {
		// A failed stage can still leave partial reviews worth exporting.
		a.logger.Error("avis: scrape failed", "error", err, "partial_reviews", len(result.Reviews))
	}
	if runID != "" {
		a.logger.Info("avis: run saved", "run_id", runID)
	}

	for _, name := range strings.Split(formats, ",") {
		f, perr := export.ParseFormat(name)
		if perr != nil {
			return perr
		}
		if _, ferr := a.exp.File(f, result); ferr != nil {
			return ferr
		}
	}

	export.WriteSummary(os.Stdout, result)
	return err
}

// scrapeAndSave runs the pipeline and persists whatever came back. The
// scrape error is returned alongside the result so callers can expose
// partial data.
func (a *app) scrapeAndSave(ctx context.Context, business string) (*scrape.Result, string, error) {
	s := scrape.New(a.cfg, a.proc, a.logger)
	if err := s.Start(ctx); err != nil {
		return nil, "", err
	}
	defer s.Stop()

	result, runErr := s.Run(ctx, business)
	if result == nil {
		return nil, "", runErr
	}

	runID, saveErr := a.store.SaveResult(ctx, result)
	if saveErr != nil {
		a.logger.Error("avis: persist run", "error", saveErr)
	}
	return result, runID, runErr
}
