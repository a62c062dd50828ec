package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"

	speechlab "github.com/clinspeech/speechlab"
)

func main() {
	// ── Graceful shutdown via signal ──────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Progress channel ──────────────────────────────────────────────────
	progressCh := make(chan speechlab.ProgressUpdate, 32)
	go func() {
		for upd := range progressCh {
			fmt.Printf("[%s] stage=%-10s %.0f%%  %s\n",
				shortID(upd.JobID), upd.Stage, upd.Percent, upd.Message)
		}
	}()

	// ── Create analyzer ───────────────────────────────────────────────────
	analyzer, err := speechlab.New(speechlab.Config{
		Workers:    4,
		ProgressCh: progressCh,
	})
	if err != nil {
		log.Fatalf("failed to create analyzer: %v", err)
	}
	defer func() {
		close(progressCh)
		analyzer.Close()
	}()

	// ── Example 1: In-memory signal ───────────────────────────────────────
	fmt.Println("\n── Example 1: Synthetic Signal ──")
	signalExample(ctx, analyzer)

	// ── Example 2: Single file ────────────────────────────────────────────
	fmt.Println("\n── Example 2: Single File Analysis ──")
	fileExample(ctx, analyzer)

	// ── Example 3: Directory batch ────────────────────────────────────────
	fmt.Println("\n── Example 3: Directory Analysis ──")
	directoryExample(ctx, analyzer)
}

// signalExample builds one second of voice with a pause in the middle and
// analyzes it directly, no file involved.
func signalExample(ctx context.Context, a *speechlab.Analyzer) {
	const sr = 16000
	samples := make([]float64, 2*sr)
	for i := range samples {
		t := float64(i) / sr
		if t < 0.8 || t > 1.2 { // voiced outside the central pause
			samples[i] = 0.5 * math.Sin(2*math.Pi*180*t)
		}
	}

	result, err := a.AnalyzeSignal(ctx, &speechlab.AudioSignal{Samples: samples, SampleRate: sr})
	if err != nil {
		fmt.Printf("analysis failed: %v\n", err)
		return
	}

	fmt.Printf("Segments: %d\n", len(result.Segments))
	for _, seg := range result.Segments {
		fmt.Printf("  %.2fs–%.2fs  %s\n", seg.Start, seg.End, seg.Type)
	}
	if result.Metrics.F0Mean.Defined {
		fmt.Printf("F0 mean: %.1f Hz\n", result.Metrics.F0Mean.Value)
	}
	fmt.Printf("Pause rate: %.3f\n", result.Metrics.PauseRate)
}

func fileExample(ctx context.Context, a *speechlab.Analyzer) {
	inputPath := os.Getenv("SPEECHLAB_INPUT")
	if inputPath == "" {
		inputPath = "/tmp/sample.wav"
	}

	result, err := a.AnalyzeFile(ctx, inputPath,
		speechlab.WithMinPauseDuration(0.2),
		speechlab.WithPitchRange(75, 400),
	)
	if err != nil {
		fmt.Printf("analysis failed: %v\n", err)
		return
	}

	fmt.Printf("Done! took=%s source=%s\n", result.Elapsed, result.Source)
	fmt.Printf("Total: %.1fs  speech: %.1fs  pauses: %d (%d breath)\n",
		result.Metrics.TotalDuration,
		result.Metrics.SpeechDuration,
		len(result.Segments),
		result.Metrics.BreathCount,
	)
}

func directoryExample(ctx context.Context, a *speechlab.Analyzer) {
	root := os.Getenv("SPEECHLAB_DIR")
	if root == "" {
		root = "/tmp/recordings"
	}

	results, err := a.AnalyzeDirectory(ctx, root)
	if err != nil {
		fmt.Printf("some files failed: %v\n", err)
	}

	for _, r := range results {
		fmt.Printf("[%s] pause_rate=%.3f pathological=%.2fs breaths=%d\n",
			r.Source, r.Metrics.PauseRate, r.Metrics.PathologicalLength, r.Metrics.BreathCount)
	}
	fmt.Printf("Directory complete: %d analyzed\n", len(results))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
