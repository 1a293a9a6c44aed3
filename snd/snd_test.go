package snd_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/gen2brain/alsasync/snd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findCard searches /proc/asound/cards for the passed device name and returns its card number. Returns -1 if not found.
func findCard(name string) int {
	content, err := os.ReadFile("/proc/asound/cards")
	if err != nil {
		return -1
	}

	for _, line := range strings.Split(string(content), "\n") {
		if strings.Contains(line, name) {
			var card int
			// The format is " 0 [Loopback       ]: Loopback - Loopback"
			if _, err := fmt.Sscanf(line, " %d", &card); err == nil {
				return card
			}
		}
	}

	return -1
}

func requireCard(t *testing.T, name, module string) uint {
	t.Helper()

	card := findCard(name)
	if card == -1 {
		t.Skipf("ALSA %s device not found, run: sudo modprobe %s", name, module)
	}

	return uint(card)
}

func TestMixerOpenInvalidCard(t *testing.T) {
	_, err := snd.MixerOpen(999)
	assert.Error(t, err)
}

func TestPcmOpenInvalidCard(t *testing.T) {
	_, err := snd.PcmOpen(999, 0, snd.PCM_OUT, &snd.Config{Channels: 2, Rate: 48000, PeriodSize: 480, PeriodCount: 2, Format: snd.SNDRV_PCM_FORMAT_S16_LE})
	assert.Error(t, err)
}

func TestPcmPath(t *testing.T) {
	assert.Equal(t, "/dev/snd/pcmC1D2p", snd.PcmPath(1, 2, snd.PCM_OUT))
	assert.Equal(t, "/dev/snd/pcmC1D2c", snd.PcmPath(1, 2, snd.PCM_IN))
}

func TestPcmFormatToBits(t *testing.T) {
	assert.Equal(t, uint32(8), snd.PcmFormatToBits(snd.SNDRV_PCM_FORMAT_S8))
	assert.Equal(t, uint32(16), snd.PcmFormatToBits(snd.SNDRV_PCM_FORMAT_S16_LE))
	assert.Equal(t, uint32(32), snd.PcmFormatToBits(snd.SNDRV_PCM_FORMAT_S24_LE))
	assert.Equal(t, uint32(32), snd.PcmFormatToBits(snd.SNDRV_PCM_FORMAT_S32_LE))
	assert.Zero(t, snd.PcmFormatToBits(snd.SNDRV_PCM_FORMAT_INVALID))
}

func TestMixerCtlTypeString(t *testing.T) {
	assert.Equal(t, "BOOL", snd.SNDRV_CTL_ELEM_TYPE_BOOLEAN.String())
	assert.Equal(t, "INT64", snd.SNDRV_CTL_ELEM_TYPE_INTEGER64.String())
	assert.Equal(t, "UNKNOWN", snd.MixerCtlType(42).String())
}

func TestMixerHardware(t *testing.T) {
	card := requireCard(t, "Dummy", "snd-dummy")

	m, err := snd.MixerOpen(card)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, card, m.Card())
	assert.NotEmpty(t, m.Name())
	require.Greater(t, m.NumCtls(), 0)

	t.Run("Lookup", func(t *testing.T) {
		first := m.Ctls[0]

		byID, err := m.Ctl(first.ID())
		require.NoError(t, err)
		assert.Same(t, first, byID)

		byName, err := m.CtlByName(first.Name())
		require.NoError(t, err)
		assert.Equal(t, first.Name(), byName.Name())

		_, err = m.CtlByName("No Such Control")
		assert.Error(t, err)

		_, err = m.CtlByNameAndIndex(first.Name(), 1000)
		assert.Error(t, err)

		_, err = m.Ctl(0xffffff)
		assert.Error(t, err)
	})

	t.Run("IntegerRoundTrip", func(t *testing.T) {
		ctl, err := m.CtlByName("Master Volume")
		if err != nil {
			t.Skip("dummy card has no Master Volume control")
		}
		require.Equal(t, snd.SNDRV_CTL_ELEM_TYPE_INTEGER, ctl.Type())

		orig, err := ctl.Value(0)
		require.NoError(t, err)
		defer func() { _ = ctl.SetValue(0, orig) }()

		require.NoError(t, ctl.SetValue(0, 42))
		v, err := ctl.Value(0)
		require.NoError(t, err)
		assert.Equal(t, int64(42), v)

		_, err = ctl.Value(ctl.NumValues())
		assert.Error(t, err)
	})

	t.Run("BooleanRoundTrip", func(t *testing.T) {
		ctl, err := m.CtlByName("Master Capture Switch")
		if err != nil {
			t.Skip("dummy card has no Master Capture Switch control")
		}
		require.Equal(t, snd.SNDRV_CTL_ELEM_TYPE_BOOLEAN, ctl.Type())

		orig, err := ctl.Value(0)
		require.NoError(t, err)
		defer func() { _ = ctl.SetValue(0, orig) }()

		require.NoError(t, ctl.SetValue(0, 1-orig))
		v, err := ctl.Value(0)
		require.NoError(t, err)
		assert.Equal(t, 1-orig, v)
	})
}

func TestPcmHardware(t *testing.T) {
	card := requireCard(t, "Loopback", "snd-aloop")

	cfg := &snd.Config{
		Channels:    2,
		Rate:        48000,
		PeriodSize:  480,
		PeriodCount: 2,
		Format:      snd.SNDRV_PCM_FORMAT_S16_LE,
	}

	pcm, err := snd.PcmOpen(card, 0, snd.PCM_OUT, cfg)
	require.NoError(t, err)
	require.True(t, pcm.IsReady())

	got := pcm.Config()
	assert.Equal(t, uint32(2), got.Channels)
	assert.Equal(t, uint32(48000), got.Rate)
	assert.NotZero(t, pcm.BufferSize())

	require.NoError(t, pcm.Prepare())
	require.NoError(t, pcm.Close())
	assert.False(t, pcm.IsReady())

	// Closing twice is harmless.
	assert.NoError(t, pcm.Close())
}
