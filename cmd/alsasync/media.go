package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"github.com/gen2brain/alsasync"
)

// probeMedia reads the header of a WAV or MP3 file and returns the port configuration that
// plays it without conversion. Both streams are left disabled.
func probeMedia(path string) (alsasync.PortConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return alsasync.PortConfig{}, err
	}
	defer f.Close()

	var format *audio.Format
	var bitDepth int

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		decoder := wav.NewDecoder(f)
		if !decoder.IsValidFile() {
			return alsasync.PortConfig{}, errors.New("invalid WAV file")
		}

		// Format 3 is IEEE float.
		if decoder.WavAudioFormat == 3 {
			return alsasync.PortConfig{}, fmt.Errorf("%w: floating point WAV samples", alsasync.ErrUnsupportedFormat)
		}

		format = decoder.Format()
		bitDepth = int(decoder.BitDepth)
	case ".mp3":
		decoder, err := mp3.NewDecoder(f)
		if err != nil {
			return alsasync.PortConfig{}, fmt.Errorf("invalid MP3 file: %w", err)
		}

		// go-mp3 always decodes to 16-bit stereo.
		format = &audio.Format{NumChannels: 2, SampleRate: decoder.SampleRate()}
		bitDepth = 16
	default:
		return alsasync.PortConfig{}, fmt.Errorf("unknown media type %q", ext)
	}

	return alsasync.PortConfigFromAudioFormat(format, bitDepth)
}
