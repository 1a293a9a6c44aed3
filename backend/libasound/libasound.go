// Package libasound is an alsasync backend over the ALSA user space library.
//
// The library is only linked when building with cgo and the libasound tag:
//
//	go build -tags libasound
//
// Without it, New returns alsasync.ErrBackendUnavailable.
package libasound

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/gen2brain/alsasync"
	"golang.org/x/sys/unix"
)

// Latency is the overall latency requested for every stream.
const Latency = 500 * time.Millisecond

// Formats translates logical formats to libasound format codes, which share their numbering.
var Formats = alsasync.FormatTable{
	alsasync.FormatS8:    0,
	alsasync.FormatU8:    1,
	alsasync.FormatS16LE: 2,
	alsasync.FormatS16BE: 3,
	alsasync.FormatU16LE: 4,
	alsasync.FormatU16BE: 5,
	alsasync.FormatS24LE: 6,
	alsasync.FormatS24BE: 7,
	alsasync.FormatU24LE: 8,
	alsasync.FormatU24BE: 9,
	alsasync.FormatS32LE: 10,
}

// PcmName returns the hardware device name of a PCM device, e.g. "hw:1,0".
func PcmName(card, device uint) string {
	return fmt.Sprintf("hw:%d,%d", card, device)
}

// CtlName returns the hardware control name of a card, e.g. "hw:1".
func CtlName(card uint) string {
	return fmt.Sprintf("hw:%d", card)
}

type pcmHandle interface {
	Close() error
}

type driver interface {
	openPCM(name string, dir alsasync.Direction, format int32, channels, rate uint32) (pcmHandle, error)
	accessControl(name string, ref alsasync.ControlRef, fn func(alsasync.MixerControl) error) error
}

// Backend implements alsasync.Backend over libasound. The control device is opened for the
// duration of each access.
type Backend struct {
	log *slog.Logger
	drv driver
}

// New returns a backend. A nil logger discards output.
func New(logger *slog.Logger) (*Backend, error) {
	drv, err := newDriver()
	if err != nil {
		return nil, err
	}

	return newBackend(drv, logger), nil
}

func newBackend(drv driver, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Backend{log: logger.With("backend", "libasound"), drv: drv}
}

// Name returns "libasound".
func (b *Backend) Name() string {
	return "libasound"
}

// DefaultPortConfig returns S16_LE, 2 channels at 48000 Hz with both streams disabled.
func (b *Backend) DefaultPortConfig() alsasync.PortConfig {
	return alsasync.PortConfig{Format: alsasync.FormatS16LE, Channels: 2, Rate: 48000}
}

// Port returns the stream driver of a PCM device.
func (b *Backend) Port(card, device uint) (alsasync.PortDriver, error) {
	return &port{backend: b, name: PcmName(card, device)}, nil
}

// AccessControl opens the control device of card, looks up ref and passes it to fn.
func (b *Backend) AccessControl(card uint, ref alsasync.ControlRef, fn func(alsasync.MixerControl) error) error {
	err := b.drv.accessControl(CtlName(card), ref, fn)
	if err != nil && errors.Is(err, fs.ErrNotExist) && !errors.Is(err, alsasync.ErrNotFound) {
		return fmt.Errorf("%w: %w", alsasync.ErrNotFound, err)
	}

	return err
}

// Close is a no-op, no handle outlives a call.
func (b *Backend) Close() error {
	return nil
}

type port struct {
	backend *Backend
	name    string
	streams [2]pcmHandle
}

func (p *port) OpenStream(dir alsasync.Direction, cfg alsasync.PortConfig) error {
	native, err := Formats.Lookup(cfg.Format)
	if err != nil {
		return err
	}

	h, err := p.backend.drv.openPCM(p.name, dir, native, uint32(cfg.Channels), uint32(cfg.Rate))
	if err != nil {
		return err
	}

	p.streams[dir] = h
	p.backend.log.Debug("pcm opened", "device", p.name, "direction", dir.String(), "config", cfg.String())

	return nil
}

func (p *port) CloseStream(dir alsasync.Direction) error {
	h := p.streams[dir]
	p.streams[dir] = nil

	if h == nil {
		return nil
	}

	return h.Close()
}

// alsaError is a negative libasound return code.
type alsaError struct {
	op   string
	code int
	msg  string
}

func newAlsaError(op string, code int, msg string) error {
	return &alsaError{op: op, code: code, msg: msg}
}

func (e *alsaError) Error() string {
	return e.op + ": " + e.msg
}

// Unwrap exposes the code as an errno, so errors.Is(err, fs.ErrNotExist) works on -ENOENT.
func (e *alsaError) Unwrap() error {
	return unix.Errno(-e.code)
}

func elemType(t int) alsasync.ElemType {
	if t < int(alsasync.ElemNone) || t > int(alsasync.ElemInteger64) {
		return alsasync.ElemNone
	}

	return alsasync.ElemType(t)
}
