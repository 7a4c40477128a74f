// Command replay runs a recorded pose-frame log through the full detection
// pipeline and prints per-swing results. Used for trigger calibration and
// regression checks against captured rallies.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"swing-coach-lab/internal/coach"
	"swing-coach-lab/internal/detector"
	"swing-coach-lab/internal/ingestion"
	"swing-coach-lab/internal/replay"
	"swing-coach-lab/internal/session"
)

func main() {
	frameLog := flag.String("frames", "", "Path to JSONL pose-frame log (required)")
	realtime := flag.Bool("realtime", false, "Replay with recorded inter-frame timing")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	if *frameLog == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -frames <rally.jsonl> [-realtime] [-v]")
		os.Exit(2)
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	det := detector.New(detector.DefaultConfig())
	controller := session.NewController(session.DefaultConfig(), det, coach.NewStaticProvider(), logger)
	source := replay.NewFileSource(*frameLog, *realtime)
	runner := ingestion.NewRunner(source, controller, logger)

	result, err := runner.Run(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("replay failed")
	}

	fmt.Printf("Frames: %d  Swings: %d\n", result.FramesSubmitted, len(result.Swings))
	for _, swing := range result.Swings {
		fmt.Printf("  #%d %s  score=%d  category=%s  turn=%.0f  speed=%.0f  dist=%.0fcm  rhythm=%.0f\n",
			swing.SwingNumber,
			swing.SwingID,
			swing.Feedback.Score,
			swing.Feedback.Category,
			swing.Metrics.MaxShoulderTurn,
			swing.Metrics.PeakArmSpeed,
			swing.Metrics.Contact.DistanceFromCore,
			swing.Metrics.SwingRhythm,
		)
	}
}
