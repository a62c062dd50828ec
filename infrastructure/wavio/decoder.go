package wavio

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"

	"github.com/clinspeech/speechlab/domain/model"
	pkgerrors "github.com/clinspeech/speechlab/pkg/errors"
)

// Decoder implements ports.SignalDecoder for RIFF/WAV files. PCM data is
// normalized to [-1, 1], multi-channel audio is downmixed by averaging, and
// the result is linearly resampled to the requested rate.
type Decoder struct{}

// NewDecoder creates a WAV decoder
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode reads the file at path into a mono signal at targetSampleRate.
func (d *Decoder) Decode(ctx context.Context, path string, targetSampleRate int) (*model.AudioSignal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".wav" && ext != ".wave" {
		return nil, pkgerrors.NewUnsupportedFormatError(path, strings.TrimPrefix(ext, "."), "only WAV input is supported")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.NewDecodeError(path, "failed to open audio file", err)
	}
	defer f.Close()

	return d.DecodeReader(ctx, f, path, targetSampleRate)
}

// DecodeReader decodes WAV data from an already-open stream. The source
// label only annotates errors.
func (d *Decoder) DecodeReader(ctx context.Context, r io.ReadSeeker, source string, targetSampleRate int) (*model.AudioSignal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, pkgerrors.NewUnsupportedFormatError(source, "wav", "not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, pkgerrors.NewDecodeError(source, "failed to read PCM data", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, pkgerrors.NewInsufficientDataError("audio file contains no samples")
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}
	srcRate := buf.Format.SampleRate
	if srcRate <= 0 {
		return nil, pkgerrors.NewDecodeError(source, "invalid sample rate in WAV header", nil)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	mono := downmix(buf.Data, channels, scale)
	if targetSampleRate > 0 && targetSampleRate != srcRate {
		mono = resample(mono, srcRate, targetSampleRate)
		srcRate = targetSampleRate
	}

	return &model.AudioSignal{Samples: mono, SampleRate: srcRate}, nil
}

// downmix averages interleaved channels into one normalized track.
func downmix(data []int, channels int, scale float64) []float64 {
	frames := len(data) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(data[i*channels+c])
		}
		out[i] = sum / (float64(channels) * scale)
	}
	return out
}

// resample performs linear interpolation between source samples. Adequate
// here: the analysis bands sit far below the Nyquist limit of any sane
// recording rate.
func resample(x []float64, srcRate, dstRate int) []float64 {
	if len(x) == 0 || srcRate == dstRate {
		return x
	}
	ratio := float64(srcRate) / float64(dstRate)
	outLen := int(float64(len(x)) / ratio)
	if outLen < 1 {
		outLen = 1
	}

	out := make([]float64, outLen)
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= len(x)-1 {
			out[i] = x[len(x)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = x[j]*(1-frac) + x[j+1]*frac
	}
	return out
}
