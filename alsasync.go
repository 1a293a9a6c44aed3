// Package alsasync keeps a host configuration store in step with ALSA hardware.
//
// A host binds fixed-size byte slices (blackboards) to mixer controls and PCM ports and calls
// Push to send blackboard contents down to the hardware and Pull to publish hardware state back
// up. Hardware access goes through a Backend, so the same objects run over the pure Go kernel
// driver in backend/tinyalsa or over libasound in backend/libasound.
package alsasync

import (
	"fmt"
)

// Direction identifies one of the two data paths of a PCM device.
type Direction int

const (
	Playback Direction = iota
	Capture
)

// String returns "Playback" or "Capture".
func (d Direction) String() string {
	switch d {
	case Playback:
		return "Playback"
	case Capture:
		return "Capture"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Directions lists both directions in the order streams are opened.
var Directions = [...]Direction{Playback, Capture}

// Format is the logical sample format carried in a port configuration.
type Format uint8

const (
	FormatS8 Format = iota
	FormatU8
	FormatS16LE
	FormatS16BE
	FormatU16LE
	FormatU16BE
	FormatS24LE
	FormatS24BE
	FormatU24LE
	FormatU24BE
	FormatS32LE
)

var formatNames = [...]string{
	FormatS8:    "S8",
	FormatU8:    "U8",
	FormatS16LE: "S16_LE",
	FormatS16BE: "S16_BE",
	FormatU16LE: "U16_LE",
	FormatU16BE: "U16_BE",
	FormatS24LE: "S24_LE",
	FormatS24BE: "S24_BE",
	FormatU24LE: "U24_LE",
	FormatU24BE: "U24_BE",
	FormatS32LE: "S32_LE",
}

// String returns the ALSA name of the format, e.g. "S16_LE".
func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}

	return fmt.Sprintf("Format(%d)", uint8(f))
}

// ParseFormat returns the format with the given ALSA name.
func ParseFormat(name string) (Format, error) {
	for i, n := range formatNames {
		if n == name {
			return Format(i), nil
		}
	}

	return 0, fmt.Errorf("%w: unknown format %q", ErrUnsupportedFormat, name)
}

// PortConfigSize is the size of a port configuration blackboard.
const PortConfigSize = 6

// PortConfig describes the streams of one PCM device.
//
// Enabled is indexed by Direction. The blackboard layout is
// [playback, capture, format, channels, rate low byte, rate high byte].
type PortConfig struct {
	Enabled  [2]bool
	Format   Format
	Channels uint8
	Rate     uint16
}

// String returns a compact human-readable representation of the PortConfig.
func (c PortConfig) String() string {
	return fmt.Sprintf("playback=%t capture=%t format=%s channels=%d rate=%d",
		c.Enabled[Playback], c.Enabled[Capture], c.Format, c.Channels, c.Rate)
}

// deviceDiffers reports whether o needs the device to be reconfigured.
// Enabled flags do not take part in the comparison.
func (c PortConfig) deviceDiffers(o PortConfig) bool {
	return c.Format != o.Format || c.Channels != o.Channels || c.Rate != o.Rate
}

// MarshalBinary encodes the configuration in its blackboard layout.
func (c PortConfig) MarshalBinary() ([]byte, error) {
	b := make([]byte, PortConfigSize)
	c.put(b)

	return b, nil
}

// UnmarshalBinary decodes a blackboard. Any non-zero enable byte means enabled.
func (c *PortConfig) UnmarshalBinary(b []byte) error {
	if len(b) != PortConfigSize {
		return fmt.Errorf("%w: port configuration is %d bytes, got %d", ErrSizeMismatch, PortConfigSize, len(b))
	}

	c.Enabled[Playback] = b[0] != 0
	c.Enabled[Capture] = b[1] != 0
	c.Format = Format(b[2])
	c.Channels = b[3]
	c.Rate = uint16(DecodeInt(b[4:6], false))

	return nil
}

func (c PortConfig) put(b []byte) {
	b[0] = boolByte(c.Enabled[Playback])
	b[1] = boolByte(c.Enabled[Capture])
	b[2] = byte(c.Format)
	b[3] = c.Channels
	EncodeInt(b[4:6], int64(c.Rate))
}

func boolByte(v bool) byte {
	if v {
		return 1
	}

	return 0
}
