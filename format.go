package alsasync

import (
	"fmt"

	"github.com/go-audio/audio"
)

// InvalidNativeFormat marks a FormatTable entry the native driver cannot represent.
const InvalidNativeFormat = -1

// FormatTable translates logical formats to native driver format codes. It is indexed by Format.
type FormatTable []int32

// Lookup returns the native code of f. Formats past the end of the table and entries marked
// InvalidNativeFormat fail with ErrUnsupportedFormat.
func (t FormatTable) Lookup(f Format) (int32, error) {
	if int(f) >= len(t) {
		return 0, fmt.Errorf("%w: the format %s is out of the translation table", ErrUnsupportedFormat, f)
	}

	native := t[f]
	if native < 0 {
		return 0, fmt.Errorf("%w: the format %s has no native translation", ErrUnsupportedFormat, f)
	}

	return native, nil
}

// Supported lists the formats with a valid translation.
func (t FormatTable) Supported() []Format {
	var out []Format
	for i, native := range t {
		if native >= 0 {
			out = append(out, Format(i))
		}
	}

	return out
}

// PortConfigFromAudioFormat derives a port configuration from an audio stream description.
// Both streams are left disabled.
func PortConfigFromAudioFormat(f *audio.Format, bitDepth int) (PortConfig, error) {
	if f == nil {
		return PortConfig{}, fmt.Errorf("%w: nil audio format", ErrUnsupportedFormat)
	}

	var format Format
	switch bitDepth {
	case 8:
		format = FormatS8
	case 16:
		format = FormatS16LE
	case 24:
		format = FormatS24LE
	case 32:
		format = FormatS32LE
	default:
		return PortConfig{}, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bitDepth)
	}

	if f.NumChannels < 1 || f.NumChannels > 0xff {
		return PortConfig{}, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, f.NumChannels)
	}

	if f.SampleRate < 1 || f.SampleRate > 0xffff {
		return PortConfig{}, fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, f.SampleRate)
	}

	return PortConfig{
		Format:   format,
		Channels: uint8(f.NumChannels),
		Rate:     uint16(f.SampleRate),
	}, nil
}
