package alsasync_test

import (
	"testing"

	"github.com/gen2brain/alsasync"
	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortConfigBinary(t *testing.T) {
	cfg := alsasync.PortConfig{Enabled: [2]bool{false, true}, Format: alsasync.FormatS32LE, Channels: 8, Rate: 44100}

	b, err := cfg.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 10, 8, 0x44, 0xac}, b)

	var got alsasync.PortConfig
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, cfg, got)

	// Any non-zero byte enables a stream.
	require.NoError(t, got.UnmarshalBinary([]byte{7, 0, 2, 2, 0x80, 0xbb}))
	assert.True(t, got.Enabled[alsasync.Playback])

	assert.ErrorIs(t, got.UnmarshalBinary([]byte{1, 2, 3}), alsasync.ErrSizeMismatch)
}

func TestFormatNames(t *testing.T) {
	assert.Equal(t, "S16_LE", alsasync.FormatS16LE.String())
	assert.Equal(t, "S32_LE", alsasync.FormatS32LE.String())
	assert.Equal(t, "Format(42)", alsasync.Format(42).String())

	f, err := alsasync.ParseFormat("S24_LE")
	require.NoError(t, err)
	assert.Equal(t, alsasync.FormatS24LE, f)

	_, err = alsasync.ParseFormat("FLOAT_LE")
	assert.ErrorIs(t, err, alsasync.ErrUnsupportedFormat)
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "Playback", alsasync.Playback.String())
	assert.Equal(t, "Capture", alsasync.Capture.String())
}

func TestFormatTable(t *testing.T) {
	table := alsasync.FormatTable{alsasync.InvalidNativeFormat, alsasync.InvalidNativeFormat, 2}

	native, err := table.Lookup(alsasync.FormatS16LE)
	require.NoError(t, err)
	assert.Equal(t, int32(2), native)

	_, err = table.Lookup(alsasync.FormatS8)
	assert.ErrorIs(t, err, alsasync.ErrUnsupportedFormat)

	_, err = table.Lookup(alsasync.FormatS32LE)
	assert.ErrorIs(t, err, alsasync.ErrUnsupportedFormat)

	assert.Equal(t, []alsasync.Format{alsasync.FormatS16LE}, table.Supported())
}

func TestPortConfigFromAudioFormat(t *testing.T) {
	cfg, err := alsasync.PortConfigFromAudioFormat(&audio.Format{NumChannels: 2, SampleRate: 44100}, 24)
	require.NoError(t, err)
	assert.Equal(t, alsasync.PortConfig{Format: alsasync.FormatS24LE, Channels: 2, Rate: 44100}, cfg)

	_, err = alsasync.PortConfigFromAudioFormat(&audio.Format{NumChannels: 2, SampleRate: 44100}, 12)
	assert.ErrorIs(t, err, alsasync.ErrUnsupportedFormat)

	_, err = alsasync.PortConfigFromAudioFormat(&audio.Format{NumChannels: 2, SampleRate: 96000}, 16)
	assert.ErrorIs(t, err, alsasync.ErrUnsupportedFormat)

	_, err = alsasync.PortConfigFromAudioFormat(nil, 16)
	assert.ErrorIs(t, err, alsasync.ErrUnsupportedFormat)
}

func TestNodeFootprint(t *testing.T) {
	vol := volumeNode(4, 2)
	assert.Equal(t, uint32(10), vol.Footprint())
	assert.Equal(t, uint32(5), vol.ScalarWidth())

	p := paramNode(2, 0, true)
	assert.Equal(t, uint32(2), p.Footprint())
	assert.Equal(t, uint32(2), p.ScalarWidth())

	bits := &alsasync.Node{Kind: alsasync.NodeBitParameterBlock, Size: 4}
	assert.Equal(t, uint32(4), bits.ScalarWidth())

	comp := &alsasync.Node{Kind: alsasync.NodeComponent, Children: []*alsasync.Node{p, vol}}
	assert.Equal(t, uint32(12), comp.Footprint())
	assert.Zero(t, comp.ScalarWidth())

	k, err := alsasync.ParseNodeKind("bit-parameter-block")
	require.NoError(t, err)
	assert.Equal(t, alsasync.NodeBitParameterBlock, k)

	_, err = alsasync.ParseNodeKind("matrix")
	assert.ErrorIs(t, err, alsasync.ErrUnsupportedType)
}

func TestControlRef(t *testing.T) {
	ref, err := alsasync.ParseControlRef("12", 3)
	require.NoError(t, err)
	assert.Equal(t, alsasync.ControlRef{ID: 12, ByID: true}, ref)
	assert.Equal(t, "12", ref.String())

	ref, err = alsasync.ParseControlRef("PCM Playback Volume", 1)
	require.NoError(t, err)
	assert.Equal(t, "PCM Playback Volume,1", ref.String())

	_, err = alsasync.ParseControlRef("3D Control", 0)
	assert.ErrorIs(t, err, alsasync.ErrNotFound)

	_, err = alsasync.ParseControlRef("", 0)
	assert.ErrorIs(t, err, alsasync.ErrNotFound)
}

func TestMappingControlName(t *testing.T) {
	m := alsasync.Mapping{Control: "%1 %2 Volume", Amends: []string{"Headset", "Playback"}}
	assert.Equal(t, "Headset Playback Volume", m.ControlName())

	m = alsasync.Mapping{Control: "%1 Volume %3"}
	assert.Equal(t, "%1 Volume %3", m.ControlName())

	m = alsasync.Mapping{Control: "%1", Amends: []string{"42"}, Index: 2}
	ref, err := m.ControlRef()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), ref.ID)
	assert.True(t, ref.ByID)
}
