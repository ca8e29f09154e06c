// Command server runs the How Much Ah HTTP API: receipt parsing,
// session editing and settlement.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/howmuchah/howmuchah/internal/auth"
	"github.com/howmuchah/howmuchah/internal/config"
	"github.com/howmuchah/howmuchah/internal/middleware"
	"github.com/howmuchah/howmuchah/internal/ocr"
	"github.com/howmuchah/howmuchah/internal/parser"
	"github.com/howmuchah/howmuchah/internal/service"
	"github.com/howmuchah/howmuchah/internal/storage/sqlite"
	"github.com/howmuchah/howmuchah/pkg/logging"
)

const tokenDuration = 24 * time.Hour

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, tokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	var ocrClient *ocr.Client
	if cfg.OCRAPIKey != "" {
		ocrClient = ocr.NewClient(cfg.OCRAPIKey)
		slog.Info("OCR client configured")
	} else {
		slog.Warn("No OCR API key, image parsing disabled")
	}

	handler := service.New(store, authenticator, jwtManager, ocrClient,
		parser.Strategy(cfg.ParseStrategy), cfg.StaticDir, slog.Default())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	loggedHandler := middleware.Logging(corsMiddleware(mux))

	// h2c serves HTTP/2 without TLS for clients behind a terminating proxy.
	h2cHandler := h2c.NewHandler(loggedHandler, &http2.Server{})

	slog.Info("Server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
