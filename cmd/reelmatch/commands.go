package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hyperjump/reelmatch/internal/cli"
	"github.com/hyperjump/reelmatch/internal/config"
	"github.com/hyperjump/reelmatch/internal/corpus"
	"github.com/hyperjump/reelmatch/internal/metadata"
	"github.com/hyperjump/reelmatch/internal/models"
	"github.com/hyperjump/reelmatch/internal/recommend"
	"github.com/hyperjump/reelmatch/internal/server"
	"github.com/hyperjump/reelmatch/internal/storage"
	"github.com/hyperjump/reelmatch/internal/watcher"
	"github.com/hyperjump/reelmatch/pkg/utils"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// errNotFound is returned by suggestion lookups whose query matched nothing.
type errNotFound struct {
	query string
	hints []string
}

func (e *errNotFound) Error() string {
	return fmt.Sprintf("no movie or person named %q", e.query)
}

func mustConfigAndLogger(path string, debugFlag bool) (*config.Config, string, *zap.Logger) {
	cfg, resolved, err := loadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || debugFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return cfg, resolved, logger
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, logger := mustConfigAndLogger(*configPath, *debug)
	defer logger.Sync()
	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", cfg.Debug || *debug),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := initializeComponents(ctx, cfg, logger, false)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if cfg.Watch.Enabled && cfg.Corpus.Path != "" {
		reloader := watcher.NewReloader(components.Recommender, components.Index, nil, components.Build, logger)
		w := watcher.NewWatcher(cfg.Corpus.Path, reloader.OnChange(ctx),
			watcher.WithDebounce(cfg.Watch.Debounce),
			watcher.WithLogger(logger))
		if err := w.Start(ctx); err != nil {
			logger.Fatal("Failed to start corpus watcher", zap.Error(err))
		}
		defer w.Stop()
		logger.Info("watching corpus for changes", zap.String("path", w.Path()))
	}

	srv := server.NewServer(components.Recommender, components.Index, components.Provider, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

func printSuggestUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: reelmatch suggest [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is a movie title or a cast/crew member; all remaining arguments are joined by spaces.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  reelmatch suggest The Dark Knight
  reelmatch suggest --mode soup "The Matrix"
  reelmatch suggest Tom Hanks --output compact
`)
}

func runSuggest() {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = compute locally from the configured corpus)")
	modeFlag := fs.String("mode", "", "similarity mode: overview or soup (default from config)")
	enrich := fs.Bool("enrich", false, "attach details from the metadata provider")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	fs.Usage = func() { printSuggestUsage(fs) }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	query := buildQuery(fs.Args())
	if query == "" {
		printSuggestUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	req := models.SuggestRequest{Query: query, Mode: *modeFlag, Enrich: *enrich}

	var res *models.SuggestionResult
	if *serverURL != "" {
		res, err = suggestViaHTTP(*serverURL, &req)
	} else {
		res, err = suggestDirect(*configPath, &req)
	}
	var nf *errNotFound
	if errors.As(err, &nf) {
		cli.WriteNotFound(os.Stderr, nf.query, nf.hints)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Suggest failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSuggestions(os.Stdout, res, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func suggestDirect(configPath string, req *models.SuggestRequest) (*models.SuggestionResult, error) {
	cfg, _, logger := mustConfigAndLogger(configPath, false)
	defer logger.Sync()

	ctx := context.Background()
	components, err := initializeComponents(ctx, cfg, logger, true)
	if err != nil {
		return nil, err
	}
	defer components.Close()

	rec := components.Recommender
	mode, err := models.ParseMode(req.Mode, rec.DefaultMode())
	if err != nil {
		return nil, err
	}
	res, err := rec.Suggest(ctx, req.Query, mode)
	var nf *recommend.NotFoundError
	if errors.As(err, &nf) {
		return nil, &errNotFound{query: nf.Query, hints: nf.Suggestions}
	}
	if err != nil {
		return nil, err
	}
	if req.Enrich {
		metadata.NewEnricher(components.Provider, cfg.Metadata.PlaceholderImage, logger).Enrich(ctx, res)
	}
	return res, nil
}

// apiError is the error body returned by the HTTP API.
type apiError struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func suggestViaHTTP(serverURL string, req *models.SuggestRequest) (*models.SuggestionResult, error) {
	q := url.Values{}
	q.Set("query", req.Query)
	if req.Mode != "" {
		q.Set("mode", req.Mode)
	}
	if req.Enrich {
		q.Set("enrich", "true")
	}
	resp, err := httpClient.Get(serverURL + "/api/v1/suggestions?" + q.Encode())
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if resp.StatusCode == http.StatusNotFound && json.Unmarshal(b, &apiErr) == nil {
			return nil, &errNotFound{query: req.Query, hints: apiErr.Suggestions}
		}
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var res models.SuggestionResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &res, nil
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: reelmatch import [flags] <file.csv|file.tsv|file.xlsx|file.json>")
		os.Exit(1)
	}
	cfg, _, logger := mustConfigAndLogger(*configPath, false)
	defer logger.Sync()

	inserted, updated, err := importFile(context.Background(), cfg, fs.Arg(0), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %s: %d new, %d updated\n", fs.Arg(0), inserted, updated)
}

func importFile(ctx context.Context, cfg *config.Config, path string, logger *zap.Logger) (inserted, updated int, err error) {
	movies, err := corpus.NewLoader(corpus.WithLogger(logger)).Load(path)
	if err != nil {
		return 0, 0, err
	}
	if len(movies) == 0 {
		return 0, 0, corpus.ErrEmptyCorpus
	}
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return 0, 0, err
	}
	defer store.Close()
	return store.UpsertMovies(ctx, movies)
}

func runBuild() {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, logger := mustConfigAndLogger(*configPath, false)
	defer logger.Sync()

	start := time.Now()
	components, err := initializeComponents(context.Background(), cfg, logger, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	st := components.Recommender.Stats()
	fmt.Printf("Built snapshot %s for %d entries in %s\n", st.BuildID, st.Entries, time.Since(start).Round(time.Millisecond))
	for _, mode := range models.Modes {
		m := st.Matrices[mode]
		source := "computed"
		if m.FromCache {
			source = "cached"
		}
		fmt.Printf("  %-8s %dx%d (%s)\n", mode, m.Size, m.Size, source)
	}
	fmt.Printf("Matrices written to %s\n", cfg.Storage.MatrixCachePath)
}

// statusResponse is the shape of GET /api/v1/status.
type statusResponse struct {
	Snapshot        recommend.Stats        `json:"snapshot"`
	TitleIndexDocs  uint64                 `json:"title_index_docs,omitempty"`
	MetadataCircuit string                 `json:"metadata_circuit,omitempty"`
	DiskUsageBytes  *int64                 `json:"disk_usage_bytes,omitempty"`
	Config          map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = direct mode)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var (
		status *statusResponse
		err    error
	)
	if *serverURL != "" {
		status, err = statusViaHTTP(*serverURL)
	} else {
		status, err = statusDirect(*configPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		if err := cli.WriteJSON(os.Stdout, status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		writeStatusText(os.Stdout, status)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusDirect(configPath string) (*statusResponse, error) {
	cfg, _, logger := mustConfigAndLogger(configPath, false)
	defer logger.Sync()
	components, err := initializeComponents(context.Background(), cfg, logger, true)
	if err != nil {
		return nil, err
	}
	defer components.Close()

	status := &statusResponse{Snapshot: components.Recommender.Stats()}
	if n, err := components.Index.DocCount(); err == nil {
		status.TitleIndexDocs = n
	}
	if diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.BleveIndexPath, cfg.Storage.MatrixCachePath); err == nil {
		status.DiskUsageBytes = &diskBytes
	}
	status.Config = map[string]interface{}{
		"corpus_path":       cfg.Corpus.Path,
		"database_path":     cfg.Storage.DatabasePath,
		"matrix_cache_path": cfg.Storage.MatrixCachePath,
	}
	return status, nil
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := httpClient.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func writeStatusText(w io.Writer, s *statusResponse) {
	st := s.Snapshot
	fmt.Fprintf(w, "entries:            %d   # movies in the active corpus\n", st.Entries)
	fmt.Fprintf(w, "people:             %d   # distinct cast and crew names\n", st.People)
	fmt.Fprintf(w, "build_id:           %s\n", st.BuildID)
	if !st.BuiltAt.IsZero() {
		fmt.Fprintf(w, "built_at:           %s\n", st.BuiltAt.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "top_n:              %d\n", st.TopN)
	fmt.Fprintf(w, "default_mode:       %s\n", st.DefaultMode)
	for _, mode := range models.Modes {
		if m, ok := st.Matrices[mode]; ok {
			fmt.Fprintf(w, "matrix_%-12s %d entries, %d bytes, vocabulary %d, cached %t\n",
				mode.String()+":", m.Size, m.Bytes, m.Vocabulary, m.FromCache)
		}
	}
	if s.TitleIndexDocs > 0 {
		fmt.Fprintf(w, "title_index_docs:   %d\n", s.TitleIndexDocs)
	}
	if s.MetadataCircuit != "" {
		fmt.Fprintf(w, "metadata_circuit:   %s\n", s.MetadataCircuit)
	}
	if s.DiskUsageBytes != nil {
		fmt.Fprintf(w, "disk_usage_bytes:   %d   # database + indices + matrices on disk\n", *s.DiskUsageBytes)
	}
}
