// Package tinyalsa is an alsasync backend that drives the kernel interface directly through
// the snd package, without libasound.
package tinyalsa

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/alsasync"
	"github.com/gen2brain/alsasync/snd"
)

const (
	// PeriodTime is the duration of one period of a stream ring buffer.
	PeriodTime = 10 * time.Millisecond
	// PeriodCount is the number of periods in a stream ring buffer.
	PeriodCount = 2
)

// Formats translates logical formats to kernel format codes. Only little-endian signed 16, 24
// and 32-bit samples are accepted.
var Formats = alsasync.FormatTable{
	alsasync.FormatS8:    alsasync.InvalidNativeFormat,
	alsasync.FormatU8:    alsasync.InvalidNativeFormat,
	alsasync.FormatS16LE: int32(snd.SNDRV_PCM_FORMAT_S16_LE),
	alsasync.FormatS16BE: alsasync.InvalidNativeFormat,
	alsasync.FormatU16LE: alsasync.InvalidNativeFormat,
	alsasync.FormatU16BE: alsasync.InvalidNativeFormat,
	alsasync.FormatS24LE: int32(snd.SNDRV_PCM_FORMAT_S24_LE),
	alsasync.FormatS24BE: alsasync.InvalidNativeFormat,
	alsasync.FormatU24LE: alsasync.InvalidNativeFormat,
	alsasync.FormatU24BE: alsasync.InvalidNativeFormat,
	alsasync.FormatS32LE: int32(snd.SNDRV_PCM_FORMAT_S32_LE),
}

type stream interface {
	Prepare() error
	Drop() error
	Close() error
}

type mixer interface {
	lookup(ref alsasync.ControlRef) (alsasync.MixerControl, error)
	Close() error
}

// Backend implements alsasync.Backend over /dev/snd.
//
// Mixer handles are opened on first use and shared by every control of the same card until
// Close. Control accesses are serialized.
type Backend struct {
	log *slog.Logger

	mu     sync.Mutex
	mixers map[uint]mixer

	openMixer func(card uint) (mixer, error)
	openPCM   func(card, device uint, flags snd.PcmFlag, config *snd.Config) (stream, error)
}

// New returns a backend. A nil logger discards output.
func New(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Backend{
		log:       logger.With("backend", "tinyalsa"),
		mixers:    make(map[uint]mixer),
		openMixer: openCardMixer,
		openPCM:   openPCM,
	}
}

// Name returns "tinyalsa".
func (b *Backend) Name() string {
	return "tinyalsa"
}

// DefaultPortConfig returns S16_LE, 2 channels at 48000 Hz with both streams disabled.
func (b *Backend) DefaultPortConfig() alsasync.PortConfig {
	return alsasync.PortConfig{Format: alsasync.FormatS16LE, Channels: 2, Rate: 48000}
}

// Port returns the stream driver of a PCM device. No device is opened until a stream is.
func (b *Backend) Port(card, device uint) (alsasync.PortDriver, error) {
	return &port{backend: b, card: card, device: device}, nil
}

// AccessControl looks up a control in the cached mixer of card and passes it to fn.
func (b *Backend) AccessControl(card uint, ref alsasync.ControlRef, fn func(alsasync.MixerControl) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, err := b.mixer(card)
	if err != nil {
		return err
	}

	ctl, err := m.lookup(ref)
	if err != nil {
		return fmt.Errorf("%w: %w", alsasync.ErrNotFound, err)
	}

	return fn(ctl)
}

// Close closes every cached mixer.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for card, m := range b.mixers {
		if err := m.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close mixer of card %d: %w", card, err))
		}
		delete(b.mixers, card)
	}

	return errors.Join(errs...)
}

func (b *Backend) mixer(card uint) (mixer, error) {
	if m, ok := b.mixers[card]; ok {
		return m, nil
	}

	m, err := b.openMixer(card)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", alsasync.ErrNotFound, err)
		}

		return nil, err
	}

	b.log.Debug("mixer opened", "card", card)
	b.mixers[card] = m

	return m, nil
}

// PeriodSize returns the number of frames in one period at rate.
func PeriodSize(rate uint32) uint32 {
	return rate * uint32(PeriodTime/time.Millisecond) / 1000
}

type port struct {
	backend *Backend
	card    uint
	device  uint
	streams [2]stream
}

// OpenStream opens and prepares one direction of the device.
func (p *port) OpenStream(dir alsasync.Direction, cfg alsasync.PortConfig) error {
	native, err := Formats.Lookup(cfg.Format)
	if err != nil {
		return err
	}

	config := &snd.Config{
		Channels:    uint32(cfg.Channels),
		Rate:        uint32(cfg.Rate),
		PeriodSize:  PeriodSize(uint32(cfg.Rate)),
		PeriodCount: PeriodCount,
		Format:      snd.PcmFormat(native),
	}

	s, err := p.backend.openPCM(p.card, p.device, pcmFlags(dir), config)
	if err != nil {
		return err
	}

	if err := s.Prepare(); err != nil {
		_ = s.Close()

		return err
	}

	p.streams[dir] = s
	p.backend.log.Debug("pcm opened", "card", p.card, "device", p.device, "direction", dir.String(),
		"format", cfg.Format.String(), "channels", cfg.Channels, "rate", cfg.Rate, "period", config.PeriodSize)

	return nil
}

// CloseStream stops one direction of the device, discarding pending frames, and closes it.
// The handle is released whatever Drop or Close return.
func (p *port) CloseStream(dir alsasync.Direction) error {
	s := p.streams[dir]
	p.streams[dir] = nil

	if s == nil {
		return nil
	}

	dropErr := s.Drop()
	if dropErr != nil {
		p.backend.log.Warn("pcm drop failed", "card", p.card, "device", p.device, "direction", dir.String(), "error", dropErr)
	}

	return errors.Join(dropErr, s.Close())
}

func pcmFlags(dir alsasync.Direction) snd.PcmFlag {
	if dir == alsasync.Capture {
		return snd.PCM_IN
	}

	return snd.PCM_OUT
}

func openPCM(card, device uint, flags snd.PcmFlag, config *snd.Config) (stream, error) {
	pcm, err := snd.PcmOpen(card, device, flags, config)
	if err != nil {
		return nil, err
	}

	return pcm, nil
}
