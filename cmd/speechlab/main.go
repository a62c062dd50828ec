package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"gopkg.in/yaml.v3"

	speechlab "github.com/clinspeech/speechlab"
	"github.com/clinspeech/speechlab/domain/model"
	"github.com/clinspeech/speechlab/domain/ports"
	"github.com/clinspeech/speechlab/pkg/logger"
)

// fileConfig mirrors AnalysisOptions for YAML configuration files. Zero
// values mean "keep the default".
type fileConfig struct {
	TargetSampleRate       int     `yaml:"target_sample_rate"`
	EnvelopeCutoffHz       float64 `yaml:"envelope_cutoff_hz"`
	EnvelopeFilterOrder    int     `yaml:"envelope_filter_order"`
	SilenceThresholdFactor float64 `yaml:"silence_threshold_factor"`
	MinPauseDuration       float64 `yaml:"min_pause_duration"`
	ZCRThreshold           float64 `yaml:"zcr_threshold"`
	BreathEnergyRatio      float64 `yaml:"breath_energy_ratio"`
	PitchFloorHz           float64 `yaml:"pitch_floor_hz"`
	PitchCeilingHz         float64 `yaml:"pitch_ceiling_hz"`
	VoicingThreshold       float64 `yaml:"voicing_threshold"`
	FrameLength            int     `yaml:"frame_length"`
	HopLength              int     `yaml:"hop_length"`
	Workers                int     `yaml:"workers"`
}

func main() {
	var (
		inputPath  = flag.String("input", "", "single WAV file to analyze")
		dirPath    = flag.String("dir", "", "directory of WAV files to analyze")
		configPath = flag.String("config", "", "optional YAML config file")
		csvPath    = flag.String("csv", "", "write batch metrics to this CSV file")
		workers    = flag.Int("workers", 0, "parallel workers for batch analysis")
		dev        = flag.Bool("dev", false, "verbose development logging")
	)
	flag.Parse()

	if *inputPath == "" && *dirPath == "" {
		fmt.Fprintln(os.Stderr, "usage: speechlab -input file.wav | -dir recordings/ [-config cfg.yaml] [-csv out.csv]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log, err := logger.New(*dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	opts, err := loadOptions(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *workers > 0 {
		opts = append(opts, speechlab.WithWorkers(*workers))
	}

	analyzer, err := speechlab.New(speechlab.Config{
		Logger:  log,
		Workers: *workers,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create analyzer: %v\n", err)
		os.Exit(1)
	}
	defer analyzer.Close()

	switch {
	case *inputPath != "":
		err = analyzeSingle(ctx, analyzer, *inputPath, opts)
	default:
		err = analyzeDirectory(ctx, analyzer, *dirPath, *csvPath, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}
}

// loadOptions converts a YAML config file into functional options. Only
// fields present in the file override the defaults.
func loadOptions(path string) ([]ports.Option, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	var opts []ports.Option
	if cfg.TargetSampleRate > 0 {
		opts = append(opts, speechlab.WithTargetSampleRate(cfg.TargetSampleRate))
	}
	if cfg.EnvelopeCutoffHz > 0 {
		opts = append(opts, speechlab.WithEnvelopeCutoff(cfg.EnvelopeCutoffHz))
	}
	if cfg.EnvelopeFilterOrder > 0 {
		opts = append(opts, speechlab.WithEnvelopeFilterOrder(cfg.EnvelopeFilterOrder))
	}
	if cfg.SilenceThresholdFactor > 0 {
		opts = append(opts, speechlab.WithSilenceThresholdFactor(cfg.SilenceThresholdFactor))
	}
	if cfg.MinPauseDuration > 0 {
		opts = append(opts, speechlab.WithMinPauseDuration(cfg.MinPauseDuration))
	}
	if cfg.ZCRThreshold > 0 {
		opts = append(opts, speechlab.WithZCRThreshold(cfg.ZCRThreshold))
	}
	if cfg.BreathEnergyRatio > 0 {
		opts = append(opts, speechlab.WithBreathEnergyRatio(cfg.BreathEnergyRatio))
	}
	if cfg.PitchFloorHz > 0 && cfg.PitchCeilingHz > 0 {
		opts = append(opts, speechlab.WithPitchRange(cfg.PitchFloorHz, cfg.PitchCeilingHz))
	}
	if cfg.VoicingThreshold > 0 {
		opts = append(opts, speechlab.WithVoicingThreshold(cfg.VoicingThreshold))
	}
	if cfg.FrameLength > 0 {
		opts = append(opts, speechlab.WithFrameLength(cfg.FrameLength))
	}
	if cfg.HopLength > 0 {
		opts = append(opts, speechlab.WithHopLength(cfg.HopLength))
	}
	if cfg.Workers > 0 {
		opts = append(opts, speechlab.WithWorkers(cfg.Workers))
	}
	return opts, nil
}

func analyzeSingle(ctx context.Context, a *speechlab.Analyzer, path string, opts []ports.Option) error {
	result, err := a.AnalyzeFile(ctx, path, opts...)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func analyzeDirectory(ctx context.Context, a *speechlab.Analyzer, root, csvPath string, opts []ports.Option) error {
	results, err := a.AnalyzeDirectory(ctx, root, opts...)
	if err != nil && len(results) == 0 {
		return err
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "some files failed: %v\n", err)
	}

	for _, r := range results {
		fmt.Printf("%s: %d segments, %.1fs total, pause rate %.3f\n",
			r.Source, len(r.Segments), r.Metrics.TotalDuration, r.Metrics.PauseRate)
	}

	if csvPath != "" {
		if err := writeCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		fmt.Printf("wrote %d rows to %s\n", len(results), csvPath)
	}
	return nil
}

var csvHeader = []string{
	"file", "total_duration", "speech_duration", "net_speech_duration", "pause_duration",
	"speaking_rate", "articulation_rate", "pause_rate", "pathological_rate", "pathological_length",
	"breath_count", "breath_frequency",
	"f0_mean", "f0_std", "f0_min", "f0_max", "f0_range", "f0_cv", "voiced_ratio",
	"jitter_local", "jitter_rap", "jitter_ppq5",
	"shimmer_local", "shimmer_db", "shimmer_apq5",
	"intensity_mean", "intensity_std", "intensity_min", "intensity_max", "intensity_range",
}

func writeCSV(path string, results []*model.AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		m := r.Metrics
		row := []string{
			r.Source,
			num(m.TotalDuration), num(m.SpeechDuration), num(m.NetSpeechDuration), num(m.PauseDuration),
			num(m.SpeakingRate), num(m.ArticulationRate), num(m.PauseRate), num(m.PathologicalRate), num(m.PathologicalLength),
			strconv.Itoa(m.BreathCount), num(m.BreathFrequency),
			stat(m.F0Mean), stat(m.F0Std), stat(m.F0Min), stat(m.F0Max), stat(m.F0Range), stat(m.F0CV), num(m.VoicedRatio),
			stat(m.JitterLocal), stat(m.JitterRAP), stat(m.JitterPPQ5),
			stat(m.ShimmerLocal), stat(m.ShimmerDB), stat(m.ShimmerAPQ5),
			stat(m.IntensityMean), stat(m.IntensityStd), stat(m.IntensityMin), stat(m.IntensityMax), stat(m.IntensityRange),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// stat renders an undefined statistic as an empty cell, never as NaN.
func stat(s model.Stat) string {
	if !s.Defined {
		return ""
	}
	return num(s.Value)
}
