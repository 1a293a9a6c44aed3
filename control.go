package alsasync

import (
	"errors"
	"fmt"
	"log/slog"
)

// ControlConfig binds a control object to a hardware control.
type ControlConfig struct {
	Card    uint
	Control ControlRef
	Node    *Node
	// Debug logs every value moved between the blackboard and the hardware.
	Debug  bool
	Logger *slog.Logger
}

// Control synchronizes a blackboard with a mixer control, element by element or as one block.
type Control struct {
	backend    Backend
	card       uint
	ref        ControlRef
	node       *Node
	blackboard []byte
	width      uint32
	block      bool
	debug      bool
	log        *slog.Logger

	// toNative reads one blackboard element for writing to hardware.
	toNative func(elem []byte) int64
	// fromNative stores one hardware value into a blackboard element.
	fromNative func(elem []byte, v int64)
}

func newControl(b Backend, cfg ControlConfig, blackboard []byte, width uint32) (*Control, error) {
	if b == nil {
		return nil, errors.New("backend is nil")
	}

	if cfg.Node == nil {
		return nil, fmt.Errorf("%w: no configuration node", ErrUnsupportedType)
	}

	if footprint := cfg.Node.Footprint(); uint32(len(blackboard)) != footprint {
		return nil, fmt.Errorf("%w: blackboard of %s is %d bytes, node footprint is %d",
			ErrSizeMismatch, cfg.Node.Path, len(blackboard), footprint)
	}

	return &Control{
		backend:    b,
		card:       cfg.Card,
		ref:        cfg.Control,
		node:       cfg.Node,
		blackboard: blackboard,
		width:      width,
		debug:      cfg.Debug,
		log:        orDiscard(cfg.Logger),
	}, nil
}

// NewValueControl binds a parameter, bit parameter block or parameter block node to a control
// whose elements are moved one by one. Each element occupies the node's scalar width on the
// blackboard and is sign-extended according to Node.Signed.
func NewValueControl(b Backend, cfg ControlConfig, blackboard []byte) (*Control, error) {
	width := cfg.Node.ScalarWidth()
	if width == 0 || width > 8 {
		return nil, fmt.Errorf("%w: %s node %s with scalar width %d", ErrUnsupportedType, kindOf(cfg.Node), pathOf(cfg.Node), width)
	}

	c, err := newControl(b, cfg, blackboard, width)
	if err != nil {
		return nil, err
	}

	signed := cfg.Node.Signed
	c.toNative = func(elem []byte) int64 { return DecodeInt(elem, signed) }
	c.fromNative = func(elem []byte, v int64) { EncodeInt(elem, v) }

	return c, nil
}

// NewByteControl binds a node to a byte-typed control moved as a single block. The TLV
// payload is used when the control provides one.
func NewByteControl(b Backend, cfg ControlConfig, blackboard []byte) (*Control, error) {
	if cfg.Node.Footprint() == 0 {
		return nil, fmt.Errorf("%w: empty node %s", ErrUnsupportedType, pathOf(cfg.Node))
	}

	c, err := newControl(b, cfg, blackboard, 1)
	if err != nil {
		return nil, err
	}

	c.block = true

	return c, nil
}

// Pull reads the hardware control into the blackboard.
// The blackboard is only updated once every element has been read.
func (c *Control) Pull() error {
	return c.access(true)
}

// Push writes the blackboard to the hardware control.
func (c *Control) Push() error {
	return c.access(false)
}

func (c *Control) access(receive bool) error {
	if c.debug {
		c.log.Info(verb(receive)+" alsa element instance", "path", c.node.Path, "control", c.ref.String())
	}

	err := c.backend.AccessControl(c.card, c.ref, func(ctl MixerControl) error {
		count := ctl.NumValues()
		if uint64(count)*uint64(c.width) != uint64(len(c.blackboard)) {
			return fmt.Errorf("%w: control element count (%d) and configurable scalar element count (%d) mismatch",
				ErrSizeMismatch, count, uint32(len(c.blackboard))/c.width)
		}

		if !ctl.Type().Synchronizable() || (c.block && ctl.Type() != ElemBytes) {
			return fmt.Errorf("%w: control %s has element type %s", ErrUnsupportedType, ctl.Name(), ctl.Type())
		}

		switch {
		case c.block && receive:
			return c.readBlock(ctl)
		case c.block:
			return c.writeBlock(ctl)
		case receive:
			return c.readValues(ctl, count)
		default:
			return c.writeValues(ctl, count)
		}
	})
	if err != nil {
		return fmt.Errorf("control %s on card %d: %w", c.ref, c.card, classify(err))
	}

	return nil
}

func (c *Control) readValues(ctl MixerControl, count uint32) error {
	scratch := make([]byte, len(c.blackboard))

	for i := uint32(0); i < count; i++ {
		v, err := ctl.Value(i)
		if err != nil {
			return fmt.Errorf("failed to read value in mixer control %s: %w", ctl.Name(), classify(err))
		}

		if c.debug {
			c.log.Info("reading alsa element", "control", ctl.Name(), "index", i, "value", v)
		}

		c.fromNative(scratch[i*c.width:(i+1)*c.width], v)
	}

	copy(c.blackboard, scratch)

	return nil
}

func (c *Control) writeValues(ctl MixerControl, count uint32) error {
	for i := uint32(0); i < count; i++ {
		v := c.toNative(c.blackboard[i*c.width : (i+1)*c.width])

		if c.debug {
			c.log.Info("writing alsa element", "control", ctl.Name(), "index", i, "value", v)
		}

		if err := ctl.SetValue(i, v); err != nil {
			return fmt.Errorf("failed to write value in mixer control %s: %w", ctl.Name(), classify(err))
		}
	}

	return nil
}

func (c *Control) readBlock(ctl MixerControl) error {
	buf := make([]byte, len(c.blackboard))

	var err error
	if ctl.TLVAccessible() {
		err = ctl.TLV(buf)
	} else {
		err = ctl.Array(buf)
	}
	if err != nil {
		return fmt.Errorf("failed to read value in mixer control %s: %w", ctl.Name(), classify(err))
	}

	if c.debug {
		c.logBlock(true, ctl.Name(), buf)
	}

	copy(c.blackboard, buf)

	return nil
}

func (c *Control) writeBlock(ctl MixerControl) error {
	if c.debug {
		c.logBlock(false, ctl.Name(), c.blackboard)
	}

	var err error
	if ctl.TLVAccessible() {
		err = ctl.SetTLV(c.blackboard)
	} else {
		err = ctl.SetArray(c.blackboard)
	}
	if err != nil {
		return fmt.Errorf("failed to write value in mixer control %s: %w", ctl.Name(), classify(err))
	}

	return nil
}

func (c *Control) logBlock(receive bool, name string, b []byte) {
	c.log.Info(verb(receive)+" alsa element", "control", name)
	for _, line := range hexLines(b) {
		c.log.Info(line)
	}
	c.log.Info(fmt.Sprintf("[%d bytes]", len(b)))
}

func verb(receive bool) string {
	if receive {
		return "reading"
	}

	return "writing"
}

func kindOf(n *Node) string {
	if n == nil {
		return "nil"
	}

	return n.Kind.String()
}

func pathOf(n *Node) string {
	if n == nil {
		return "<nil>"
	}

	return n.Path
}
