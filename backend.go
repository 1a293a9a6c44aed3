package alsasync

import (
	"fmt"
	"strconv"
)

// ElemType is the native value type of a control element.
type ElemType int

const (
	ElemNone ElemType = iota
	ElemBoolean
	ElemInteger
	ElemEnumerated
	ElemBytes
	ElemIEC958
	ElemInteger64
)

// String returns the short type name used by amixer-like tools.
func (t ElemType) String() string {
	switch t {
	case ElemBoolean:
		return "BOOL"
	case ElemInteger:
		return "INT"
	case ElemEnumerated:
		return "ENUM"
	case ElemBytes:
		return "BYTE"
	case ElemIEC958:
		return "IEC958"
	case ElemInteger64:
		return "INT64"
	default:
		return "NONE"
	}
}

// Synchronizable reports whether element values of this type can be moved to and from a blackboard.
func (t ElemType) Synchronizable() bool {
	switch t {
	case ElemBoolean, ElemInteger, ElemInteger64, ElemEnumerated, ElemBytes:
		return true
	default:
		return false
	}
}

// ControlRef locates a control on a card, either by numeric id or by name and index.
type ControlRef struct {
	ID    uint32
	ByID  bool
	Name  string
	Index uint // ALSA element index, telling apart controls sharing Name
}

// ParseControlRef makes a reference from a mapping value. Values starting with a digit are
// numeric ids, anything else is a control name.
func ParseControlRef(value string, index uint) (ControlRef, error) {
	if value == "" {
		return ControlRef{}, fmt.Errorf("%w: empty control name", ErrNotFound)
	}

	if value[0] >= '0' && value[0] <= '9' {
		id, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return ControlRef{}, fmt.Errorf("%w: invalid control id %q", ErrNotFound, value)
		}

		return ControlRef{ID: uint32(id), ByID: true}, nil
	}

	return ControlRef{Name: value, Index: index}, nil
}

// String returns the id or the name of the control, followed by its index when non-zero.
func (r ControlRef) String() string {
	if r.ByID {
		return strconv.FormatUint(uint64(r.ID), 10)
	}

	if r.Index > 0 {
		return fmt.Sprintf("%s,%d", r.Name, r.Index)
	}

	return r.Name
}

// MixerControl is a located control element, valid for the duration of an AccessControl callback.
type MixerControl interface {
	Name() string
	Type() ElemType
	NumValues() uint32
	// TLVAccessible reports whether the control carries a TLV payload.
	TLVAccessible() bool

	Value(index uint32) (int64, error)
	SetValue(index uint32, value int64) error

	// Array and SetArray move raw element storage in one transfer.
	Array(dst []byte) error
	SetArray(src []byte) error

	TLV(dst []byte) error
	SetTLV(src []byte) error
}

// PortDriver opens and closes the streams of one PCM device.
//
// The port manager only calls OpenStream on a closed direction and CloseStream on an open one.
type PortDriver interface {
	OpenStream(dir Direction, cfg PortConfig) error
	CloseStream(dir Direction) error
}

// Backend gives access to a native ALSA driver.
type Backend interface {
	// Name identifies the backend in logs and errors.
	Name() string
	// DefaultPortConfig is the configuration ports start with.
	DefaultPortConfig() PortConfig
	// Port returns the stream driver for a PCM device.
	Port(card, device uint) (PortDriver, error)
	// AccessControl locates a control and passes it to fn. Lookup failures match ErrNotFound.
	AccessControl(card uint, ref ControlRef, fn func(MixerControl) error) error
	// Close releases shared resources such as cached mixer handles.
	Close() error
}
