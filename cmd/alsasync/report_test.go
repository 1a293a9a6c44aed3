package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gen2brain/alsasync"
	"github.com/gen2brain/alsasync/config"
)

func volumeNode() *alsasync.Node {
	return &alsasync.Node{
		Path:        "/master",
		Kind:        alsasync.NodeParameterBlock,
		ArrayLength: 2,
		Children: []*alsasync.Node{
			{Path: "/master/mute", Kind: alsasync.NodeParameter, Size: 1},
			{Path: "/master/level", Kind: alsasync.NodeParameter, Size: 4, Signed: true},
		},
	}
}

func TestNewEntryPort(t *testing.T) {
	cfg := alsasync.PortConfig{Format: alsasync.FormatS16LE, Channels: 2, Rate: 48000}
	cfg.Enabled[alsasync.Playback] = true
	raw, err := cfg.MarshalBinary()
	require.NoError(t, err)

	e := newEntry(config.Binding{Name: "loopback", Kind: alsasync.ObjectPort, Blackboard: raw})
	require.NotNil(t, e.Port)
	assert.Equal(t, "port", e.Kind)
	assert.True(t, e.Port.Playback)
	assert.False(t, e.Port.Capture)
	assert.Equal(t, uint8(2), e.Port.Channels)
	assert.Equal(t, uint16(48000), e.Port.Rate)
	assert.Equal(t, cfg.Format.String(), e.Port.Format)
	assert.Len(t, e.Value, alsasync.PortConfigSize)
}

func TestNewEntryVolume(t *testing.T) {
	bb := make([]byte, 2*alsasync.VolumeSize)
	alsasync.EncodeVolume(bb[:alsasync.VolumeSize], alsasync.Volume{Muted: true, Level: 3})
	alsasync.EncodeVolume(bb[alsasync.VolumeSize:], alsasync.Volume{Level: 100})

	e := newEntry(config.Binding{Name: "master", Kind: alsasync.ObjectVolume, Node: volumeNode(), Blackboard: bb})
	assert.Nil(t, e.Port)
	assert.Equal(t, []volumeReport{{Muted: true, Level: 3}, {Level: 100}}, e.Volumes)
}

func TestNewEntryControl(t *testing.T) {
	e := newEntry(config.Binding{Name: "gain", Kind: alsasync.ObjectControl, Blackboard: []byte{1, 0xff}})
	assert.Equal(t, []int{1, 255}, e.Value)
	assert.Nil(t, e.Port)
	assert.Empty(t, e.Volumes)
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	err := writeReport(&buf, []config.Binding{
		{Name: "gain", Kind: alsasync.ObjectControl, Blackboard: []byte{7}},
	})
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "gain", got[0]["name"])
	assert.Equal(t, "control", got[0]["kind"])
	assert.Equal(t, []any{7}, got[0]["value"])
	assert.Contains(t, buf.String(), "value: [7]")
}
