package alsasync

import "fmt"

// VolumeSize is the size of a packed volume: one mute byte followed by a 32-bit level.
//
// Narrower volume nodes keep the mute byte and truncate the level to its low bytes. The level
// is always little-endian, so a truncated level keeps its least significant bytes whatever the
// host byte order.
const VolumeSize = 5

// Volume is the blackboard view of a mutable volume element.
type Volume struct {
	Muted bool
	Level int32
}

// EncodeVolume packs v into b. len(b) must be between 2 and VolumeSize.
func EncodeVolume(b []byte, v Volume) {
	b[0] = boolByte(v.Muted)
	EncodeInt(b[1:], int64(v.Level))
}

// DecodeVolume unpacks b. The level is returned as stored, without sign extension.
func DecodeVolume(b []byte) Volume {
	return Volume{
		Muted: b[0] != 0,
		Level: int32(DecodeInt(b[1:], false)),
	}
}

// NewVolumeControl binds a two-child parameter block {mute, level} to an integer control.
//
// Push writes 0 for muted elements and the level otherwise, sign-extended as the level child
// declares. Pull stores the hardware level with the mute flag cleared, so a muted volume that
// was pushed reads back as level 0.
func NewVolumeControl(b Backend, cfg ControlConfig, blackboard []byte) (*Control, error) {
	node := cfg.Node
	if node == nil || node.Kind != NodeParameterBlock || len(node.Children) != 2 {
		return nil, fmt.Errorf("%w: volume node %s must be a parameter block of {mute, level}", ErrUnsupportedType, pathOf(node))
	}

	width := node.ScalarWidth()
	if width <= 1 || width > VolumeSize {
		return nil, fmt.Errorf("%w: volume node %s has scalar width %d", ErrUnsupportedType, node.Path, width)
	}

	c, err := newControl(b, cfg, blackboard, width)
	if err != nil {
		return nil, err
	}

	level := node.Children[1]
	levelWidth := int(min(level.Size, width-1))

	c.toNative = func(elem []byte) int64 {
		v := DecodeVolume(elem)
		if v.Muted {
			return 0
		}

		return PlainInteger(int64(v.Level), levelWidth, level.Signed)
	}
	c.fromNative = func(elem []byte, v int64) {
		EncodeVolume(elem, Volume{Level: int32(v)})
	}

	return c, nil
}
