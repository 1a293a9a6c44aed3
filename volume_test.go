package alsasync_test

import (
	"testing"

	"github.com/gen2brain/alsasync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func volumeNode(levelSize uint32, elements uint32) *alsasync.Node {
	return &alsasync.Node{
		Path:        "/volume",
		Kind:        alsasync.NodeParameterBlock,
		ArrayLength: elements,
		Children: []*alsasync.Node{
			{Path: "/volume/mute", Kind: alsasync.NodeParameter, Size: 1},
			{Path: "/volume/level", Kind: alsasync.NodeParameter, Size: levelSize, Signed: true},
		},
	}
}

func newVolume(t *testing.T, levelSize, elements uint32) (*alsasync.Control, *fakeControl, []byte) {
	t.Helper()

	b := newFakeBackend()
	ctl := b.add(1, &fakeControl{name: "Master Playback Volume", typ: alsasync.ElemInteger, values: make([]int64, max(elements, 1))})

	node := volumeNode(levelSize, elements)
	bb := make([]byte, node.Footprint())

	c, err := alsasync.NewVolumeControl(b, alsasync.ControlConfig{Control: alsasync.ControlRef{Name: ctl.name}, Node: node}, bb)
	require.NoError(t, err)

	return c, ctl, bb
}

func TestVolumeCodec(t *testing.T) {
	b := make([]byte, alsasync.VolumeSize)
	alsasync.EncodeVolume(b, alsasync.Volume{Muted: true, Level: -3})
	assert.Equal(t, []byte{1, 0xfd, 0xff, 0xff, 0xff}, b)
	assert.Equal(t, alsasync.Volume{Muted: true, Level: -3}, alsasync.DecodeVolume(b))

	// A narrow volume keeps the low bytes of the level.
	b = make([]byte, 3)
	alsasync.EncodeVolume(b, alsasync.Volume{Level: 0x12345})
	assert.Equal(t, []byte{0, 0x45, 0x23}, b)
	assert.Equal(t, alsasync.Volume{Level: 0x2345}, alsasync.DecodeVolume(b))
}

func TestVolumeMuting(t *testing.T) {
	for _, level := range []int32{0, 1, -1, 100, -32768, 2147483647} {
		c, ctl, bb := newVolume(t, 4, 2)

		// Muted elements reach the hardware as zero and read back as zero.
		alsasync.EncodeVolume(bb[0:5], alsasync.Volume{Muted: true, Level: level})
		alsasync.EncodeVolume(bb[5:10], alsasync.Volume{Muted: false, Level: level})
		require.NoError(t, c.Push())
		assert.Equal(t, []int64{0, int64(level)}, ctl.values)

		require.NoError(t, c.Pull())
		assert.Equal(t, alsasync.Volume{Level: 0}, alsasync.DecodeVolume(bb[0:5]))
		assert.Equal(t, alsasync.Volume{Level: level}, alsasync.DecodeVolume(bb[5:10]))
	}
}

func TestVolumePullClearsMute(t *testing.T) {
	c, ctl, bb := newVolume(t, 4, 0)
	ctl.values[0] = 42

	alsasync.EncodeVolume(bb, alsasync.Volume{Muted: true, Level: 7})
	require.NoError(t, c.Pull())
	assert.Equal(t, alsasync.Volume{Level: 42}, alsasync.DecodeVolume(bb))
}

func TestVolumeNarrowLevelSignExtends(t *testing.T) {
	c, ctl, bb := newVolume(t, 2, 0)
	require.Len(t, bb, 3)

	alsasync.EncodeVolume(bb, alsasync.Volume{Level: -5})
	require.NoError(t, c.Push())
	assert.Equal(t, []int64{-5}, ctl.values)

	require.NoError(t, c.Pull())
	assert.Equal(t, []byte{0, 0xfb, 0xff}, bb)
}

func TestVolumeUnsupportedShapes(t *testing.T) {
	b := newFakeBackend()

	muteOnly := &alsasync.Node{Kind: alsasync.NodeParameterBlock, Children: []*alsasync.Node{
		{Kind: alsasync.NodeParameter, Size: 1},
		{Kind: alsasync.NodeParameter, Size: 0},
	}}
	tooWide := volumeNode(8, 0)
	threeChildren := volumeNode(4, 0)
	threeChildren.Children = append(threeChildren.Children, &alsasync.Node{Kind: alsasync.NodeParameter, Size: 1})

	tests := []struct {
		name string
		node *alsasync.Node
	}{
		{"Parameter", paramNode(4, 0, true)},
		{"MuteOnly", muteOnly},
		{"TooWide", tooWide},
		{"ThreeChildren", threeChildren},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := alsasync.NewVolumeControl(b, alsasync.ControlConfig{Node: tt.node}, make([]byte, tt.node.Footprint()))
			assert.ErrorIs(t, err, alsasync.ErrUnsupportedType)
		})
	}
}
