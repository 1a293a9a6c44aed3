package alsasync_test

import (
	"errors"
	"fmt"

	"github.com/gen2brain/alsasync"
)

var errBusy = errors.New("device or resource busy")

// fakeControl is an in-memory mixer control that counts hardware calls.
type fakeControl struct {
	name    string
	typ     alsasync.ElemType
	values  []int64
	bytes   []byte
	tlv     bool
	tlvData []byte
	readErr error
	calls   int
}

func (c *fakeControl) Name() string            { return c.name }
func (c *fakeControl) Type() alsasync.ElemType { return c.typ }
func (c *fakeControl) TLVAccessible() bool     { return c.tlv }
func (c *fakeControl) NumValues() uint32 {
	if c.typ == alsasync.ElemBytes {
		return uint32(len(c.bytes))
	}

	return uint32(len(c.values))
}

func (c *fakeControl) Value(index uint32) (int64, error) {
	c.calls++
	if c.readErr != nil {
		return 0, c.readErr
	}

	if c.typ == alsasync.ElemBytes {
		return int64(c.bytes[index]), nil
	}

	return c.values[index], nil
}

func (c *fakeControl) SetValue(index uint32, value int64) error {
	c.calls++
	c.values[index] = value

	return nil
}

func (c *fakeControl) Array(dst []byte) error {
	c.calls++
	copy(dst, c.bytes)

	return nil
}

func (c *fakeControl) SetArray(src []byte) error {
	c.calls++
	copy(c.bytes, src)

	return nil
}

func (c *fakeControl) TLV(dst []byte) error {
	c.calls++
	copy(dst, c.tlvData)

	return nil
}

func (c *fakeControl) SetTLV(src []byte) error {
	c.calls++
	c.tlvData = append([]byte(nil), src...)

	return nil
}

type streamCall struct {
	Op     string
	Dir    alsasync.Direction
	Config alsasync.PortConfig
}

// fakeBackend records stream transitions and serves controls by name or id.
type fakeBackend struct {
	controls map[string]*fakeControl
	byID     map[uint32]*fakeControl
	calls    []streamCall
	openErr  map[alsasync.Direction]error
	closeErr error
	closed   bool
	defaults alsasync.PortConfig
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		controls: make(map[string]*fakeControl),
		byID:     make(map[uint32]*fakeControl),
		openErr:  make(map[alsasync.Direction]error),
		defaults: alsasync.PortConfig{Format: alsasync.FormatS16LE, Channels: 2, Rate: 48000},
	}
}

func (b *fakeBackend) add(id uint32, c *fakeControl) *fakeControl {
	b.controls[c.name] = c
	b.byID[id] = c

	return c
}

func (b *fakeBackend) Name() string                           { return "fake" }
func (b *fakeBackend) DefaultPortConfig() alsasync.PortConfig { return b.defaults }

func (b *fakeBackend) Port(card, device uint) (alsasync.PortDriver, error) {
	return &fakePort{backend: b}, nil
}

func (b *fakeBackend) AccessControl(card uint, ref alsasync.ControlRef, fn func(alsasync.MixerControl) error) error {
	var c *fakeControl
	if ref.ByID {
		c = b.byID[ref.ID]
	} else {
		c = b.controls[ref.Name]
	}

	if c == nil {
		return fmt.Errorf("%w: control %s", alsasync.ErrNotFound, ref)
	}

	return fn(c)
}

func (b *fakeBackend) Close() error {
	b.closed = true

	return nil
}

func (b *fakeBackend) count(op string, dir alsasync.Direction) int {
	n := 0
	for _, c := range b.calls {
		if c.Op == op && c.Dir == dir {
			n++
		}
	}

	return n
}

type fakePort struct {
	backend *fakeBackend
}

func (p *fakePort) OpenStream(dir alsasync.Direction, cfg alsasync.PortConfig) error {
	p.backend.calls = append(p.backend.calls, streamCall{Op: "open", Dir: dir, Config: cfg})

	return p.backend.openErr[dir]
}

func (p *fakePort) CloseStream(dir alsasync.Direction) error {
	p.backend.calls = append(p.backend.calls, streamCall{Op: "close", Dir: dir})

	return p.backend.closeErr
}
