// Command server runs the swing coaching service: a WebSocket endpoint for
// the external pose-estimation source, HTTP session control and status, and
// Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"swing-coach-lab/internal/api"
	"swing-coach-lab/internal/coach"
	"swing-coach-lab/internal/config"
	"swing-coach-lab/internal/detector"
	"swing-coach-lab/internal/ingestion"
	"swing-coach-lab/internal/session"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("load config")
	}

	logger := newLogger(cfg.LogLevel)

	det := detector.New(detectorConfig(cfg.Detector))
	controller := session.NewController(sessionConfig(cfg.Session), det, provider(cfg.Coach), logger)
	wsHandler := ingestion.NewWSHandler(ingestion.DefaultWSHandlerConfig(), controller, logger)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewRouter(controller, wsHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	controller.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

// newLogger builds the root zerolog logger with console output.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().Logger()
}

// detectorConfig maps the file/env tunables onto the detector config,
// converting the rotation threshold from degrees to radians.
func detectorConfig(dc config.DetectorConfig) detector.Config {
	c := detector.DefaultConfig()
	c.VisibilityMin = dc.VisibilityMin
	c.WindowHorizonMs = dc.WindowHorizonMs
	c.MinWindowFrames = dc.MinWindowFrames
	c.MinPeakSpeed = dc.MinPeakSpeed
	c.RiseTimeMinMs = dc.RiseTimeMinMs
	c.RiseTimeMaxMs = dc.RiseTimeMaxMs
	c.MinRotationRad = dc.MinRotationDeg * math.Pi / 180
	c.CooldownMs = dc.CooldownMs
	return c
}

func sessionConfig(sc config.SessionConfig) session.Config {
	c := session.DefaultConfig()
	c.FeedbackLockoutMs = sc.FeedbackLockoutMs
	c.CommentaryTimeout = sc.CommentaryTimeout
	return c
}

// provider selects the commentary backend: the OpenAI-compatible client when
// a key is configured, the static template provider otherwise.
func provider(cc config.CoachConfig) coach.TextProvider {
	if cc.OpenAIKey != "" {
		return coach.NewOpenAIProvider(cc.OpenAIKey)
	}
	return coach.NewStaticProvider()
}
