package mocks

import (
	"context"
	"math"

	"github.com/clinspeech/speechlab/domain/model"
)

// MockSignalDecoder is a test double for ports.SignalDecoder
type MockSignalDecoder struct {
	DecodeFunc   func(ctx context.Context, path string, targetSampleRate int) (*model.AudioSignal, error)
	DecodedPaths []string
}

func (m *MockSignalDecoder) Decode(ctx context.Context, path string, targetSampleRate int) (*model.AudioSignal, error) {
	m.DecodedPaths = append(m.DecodedPaths, path)
	if m.DecodeFunc != nil {
		return m.DecodeFunc(ctx, path, targetSampleRate)
	}
	return defaultSignal(targetSampleRate), nil
}

// defaultSignal is one second of a 200 Hz tone, enough for every pipeline
// stage to produce defined output.
func defaultSignal(sampleRate int) *model.AudioSignal {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	samples := make([]float64, sampleRate)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*200*float64(i)/float64(sampleRate))
	}
	return &model.AudioSignal{Samples: samples, SampleRate: sampleRate}
}

// MockStorageProvider is a test double for ports.StorageProvider
type MockStorageProvider struct {
	ExistsFunc         func(ctx context.Context, path string) (bool, error)
	SizeFunc           func(ctx context.Context, path string) (int64, error)
	FindAudioFilesFunc func(ctx context.Context, root string) ([]string, error)
}

func (m *MockStorageProvider) Exists(ctx context.Context, path string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, path)
	}
	return true, nil
}

func (m *MockStorageProvider) Size(ctx context.Context, path string) (int64, error) {
	if m.SizeFunc != nil {
		return m.SizeFunc(ctx, path)
	}
	return 1024, nil
}

func (m *MockStorageProvider) FindAudioFiles(ctx context.Context, root string) ([]string, error) {
	if m.FindAudioFilesFunc != nil {
		return m.FindAudioFilesFunc(ctx, root)
	}
	return []string{"/tmp/mock_a.wav", "/tmp/mock_b.wav"}, nil
}
