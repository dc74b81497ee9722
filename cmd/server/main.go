package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chart-builder/backend/internal/api"
	"github.com/chart-builder/backend/internal/config"
	"github.com/chart-builder/backend/internal/export"
	"github.com/chart-builder/backend/internal/history"
	"github.com/chart-builder/backend/internal/session"
	"github.com/chart-builder/backend/internal/storage"
	"github.com/chart-builder/backend/internal/trend"
	"github.com/chart-builder/backend/internal/web"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	// Load XML configuration
	configPath := filepath.Join(exeDir, "ChartBuilder.config.xml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Ensure all data directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	embeddedMode := web.HasEmbeddedFiles()

	// Initialize storage
	fileStore, err := storage.NewLocalStore(cfg.Storage.UploadsDirectory)
	if err != nil {
		fmt.Printf("Failed to initialize storage: %v\n", err)
		os.Exit(1)
	}

	// Initialize session manager
	sessionMgr := session.NewManager(session.Defaults{
		ServerVersion:   cfg.Defaults.ServerVersion,
		ServerPath:      cfg.Defaults.ServerPath,
		TrendPathAnalog: cfg.Defaults.TrendPathAnalog,
		TrendPathBinary: cfg.Defaults.TrendPathBinary,
		IsModbus:        cfg.Defaults.IsModbus,
	}, cfg.Processing.MaxSessions)

	// Start background session cleanup
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Processing.CleanupIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			sessionMgr.CleanupOldSessions(time.Duration(cfg.Processing.SessionTimeoutMinutes) * time.Minute)
		}
	}()

	// Chart template
	renderer := export.NewRenderer()
	if cfg.Storage.TemplateFile != "" {
		renderer, err = export.NewRendererFromFile(cfg.Storage.TemplateFile)
		if err != nil {
			fmt.Printf("Failed to load chart template: %v\n", err)
			os.Exit(1)
		}
	}
	writer := export.NewWriter(cfg.Storage.OutputDirectory, renderer)

	deps := api.Dependencies{
		Store:    fileStore,
		Sessions: sessionMgr,
		Writer:   writer,
		Version:  Version,
	}

	// Style presets are optional
	if cfg.Storage.PresetsFile != "" {
		presets, err := trend.ParseStylePresets(cfg.Storage.PresetsFile)
		if err != nil {
			fmt.Printf("Warning: failed to load style presets: %v\n", err)
		} else {
			deps.Presets = presets
			fmt.Printf("Style presets loaded: %d rules\n", len(presets.Rules))
		}
	}

	// Export history
	if cfg.Advanced.EnableHistory {
		store, err := history.Open(cfg.Storage.HistoryDatabase)
		if err != nil {
			fmt.Printf("Warning: export history disabled: %v\n", err)
		} else {
			defer store.Close()
			deps.History = store
		}
	}

	h := api.NewHandler(deps)

	e := echo.New()
	e.HideBanner = true
	api.SetupMiddleware(e)

	// Configure middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			return c.Request().URL.Path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:         1024 * 4,
		DisablePrintStack: false,
		LogLevel:          0,
	}))

	// Compression middleware
	if cfg.Processing.EnableCompression {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: cfg.Processing.CompressionLevel,
			Skipper: func(c echo.Context) bool {
				return strings.HasSuffix(c.Request().URL.Path, "/msgpack")
			},
		}))
	}

	// Body limit middleware
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// CORS configuration
	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, h)

	// Register embedded frontend if available
	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			fmt.Printf("Warning: failed to register static routes: %v\n", err)
		} else {
			fmt.Println("Serving embedded frontend from binary")
		}
	}

	// Configure server with settings from XML config
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	historyState := "disabled"
	if deps.History != nil {
		historyState = cfg.Storage.HistoryDatabase
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Trend Chart Builder Server                      ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Output:    %-46s║\n", cfg.Storage.OutputDirectory)
	fmt.Printf("║  History:   %-46s║\n", historyState)
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	if embeddedMode {
		fmt.Printf("Open http://localhost:%d in your browser\n\n", cfg.Server.Port)
	}

	e.Logger.Fatal(e.StartServer(s))
}
