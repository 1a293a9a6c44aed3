package alsasync_test

import (
	"errors"
	"testing"

	"github.com/gen2brain/alsasync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*alsasync.PortConfigManager, *fakeBackend) {
	t.Helper()

	b := newFakeBackend()
	p, err := alsasync.NewPortConfigManager(b, 0, 0, nil)
	require.NoError(t, err)

	return p, b
}

func TestPortConfigDefaults(t *testing.T) {
	p, b := newManager(t)

	cfg := p.Config()
	assert.Equal(t, [2]bool{false, false}, cfg.Enabled)
	assert.Equal(t, alsasync.FormatS16LE, cfg.Format)
	assert.Equal(t, uint8(2), cfg.Channels)
	assert.Equal(t, uint16(48000), cfg.Rate)
	assert.Empty(t, b.calls)
}

func TestPortConfigScenario(t *testing.T) {
	p, b := newManager(t)

	// Enable playback only, device fields unchanged.
	err := p.Apply(alsasync.PortConfig{Enabled: [2]bool{true, false}, Format: alsasync.FormatS16LE, Channels: 2, Rate: 48000})
	require.NoError(t, err)
	require.Len(t, b.calls, 1)
	assert.Equal(t, "open", b.calls[0].Op)
	assert.Equal(t, alsasync.Playback, b.calls[0].Dir)
	assert.Zero(t, b.count("open", alsasync.Capture))
	assert.Zero(t, b.count("close", alsasync.Capture))
	assert.Equal(t, [2]bool{true, false}, p.Config().Enabled)

	// Change the device and enable both, with capture failing to open.
	b.calls = nil
	b.openErr[alsasync.Capture] = errBusy

	req := alsasync.PortConfig{Enabled: [2]bool{true, true}, Format: alsasync.FormatS24LE, Channels: 1, Rate: 16000}
	err = p.Apply(req)
	require.Error(t, err)

	var serr *alsasync.StreamError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, alsasync.Capture, serr.Direction)
	assert.Equal(t, "open", serr.Op)
	assert.ErrorIs(t, err, errBusy)
	assert.ErrorIs(t, err, alsasync.ErrDriver)
	assert.Equal(t, "Capture open error: device or resource busy", err.Error())

	require.Len(t, b.calls, 3)
	assert.Equal(t, "close", b.calls[0].Op)
	assert.Equal(t, alsasync.Playback, b.calls[0].Dir)
	assert.Equal(t, "open", b.calls[1].Op)
	assert.Equal(t, alsasync.Playback, b.calls[1].Dir)
	assert.Equal(t, "open", b.calls[2].Op)
	assert.Equal(t, alsasync.Capture, b.calls[2].Dir)

	// Streams are reopened with the new device fields.
	assert.Equal(t, alsasync.FormatS24LE, b.calls[1].Config.Format)
	assert.Equal(t, uint8(1), b.calls[1].Config.Channels)
	assert.Equal(t, uint16(16000), b.calls[1].Config.Rate)

	cfg := p.Config()
	assert.Equal(t, [2]bool{true, false}, cfg.Enabled)
	assert.Equal(t, alsasync.FormatS24LE, cfg.Format)
	assert.Equal(t, uint8(1), cfg.Channels)
	assert.Equal(t, uint16(16000), cfg.Rate)

	// Reissuing the same request retries only the failed direction.
	b.calls = nil
	delete(b.openErr, alsasync.Capture)

	require.NoError(t, p.Apply(req))
	require.Len(t, b.calls, 1)
	assert.Equal(t, "open", b.calls[0].Op)
	assert.Equal(t, alsasync.Capture, b.calls[0].Dir)
	assert.Equal(t, [2]bool{true, true}, p.Config().Enabled)
}

func TestPortConfigIdempotent(t *testing.T) {
	p, b := newManager(t)
	base := p.Config()

	// Disabling closed streams performs no backend call.
	require.NoError(t, p.Apply(base))
	assert.Empty(t, b.calls)

	open := base
	open.Enabled = [2]bool{true, true}
	require.NoError(t, p.Apply(open))
	require.Len(t, b.calls, 2)

	// Enabling open streams performs no backend call either.
	b.calls = nil
	require.NoError(t, p.Apply(open))
	assert.Empty(t, b.calls)
	assert.Equal(t, open, p.Config())
}

func TestPortConfigToggleWithoutDeviceChange(t *testing.T) {
	p, b := newManager(t)

	both := p.Config()
	both.Enabled = [2]bool{true, true}
	require.NoError(t, p.Apply(both))

	b.calls = nil
	captureOnly := both
	captureOnly.Enabled = [2]bool{false, true}
	require.NoError(t, p.Apply(captureOnly))

	// Capture stays untouched while playback is closed.
	assert.Equal(t, []streamCall{{Op: "close", Dir: alsasync.Playback}}, b.calls)
	assert.Equal(t, captureOnly, p.Config())
}

func TestPortConfigReconciliation(t *testing.T) {
	formats := []alsasync.Format{alsasync.FormatS16LE, alsasync.FormatS32LE}
	rates := []uint16{48000, 44100}
	channels := []uint8{2, 6}
	enables := [][2]bool{{false, false}, {true, false}, {false, true}, {true, true}}

	var configs []alsasync.PortConfig
	for _, f := range formats {
		for _, r := range rates {
			for _, c := range channels {
				for _, e := range enables {
					configs = append(configs, alsasync.PortConfig{Enabled: e, Format: f, Channels: c, Rate: r})
				}
			}
		}
	}

	for _, current := range configs {
		for _, req := range configs {
			p, b := newManager(t)
			require.NoError(t, p.Apply(current))
			b.calls = nil

			require.NoError(t, p.Apply(req))
			assert.Equal(t, req, p.Config(), "from %s to %s", current, req)

			deviceChanged := current.Format != req.Format || current.Channels != req.Channels || current.Rate != req.Rate
			if !deviceChanged {
				continue
			}

			// Every close precedes every open.
			lastClose, firstOpen := -1, len(b.calls)
			for i, c := range b.calls {
				if c.Op == "close" {
					lastClose = i
				} else if i < firstOpen {
					firstOpen = i
				}
			}
			assert.Less(t, lastClose, firstOpen, "from %s to %s", current, req)

			for _, dir := range alsasync.Directions {
				assert.Equal(t, boolInt(current.Enabled[dir]), b.count("close", dir))
				assert.Equal(t, boolInt(req.Enabled[dir]), b.count("open", dir))
			}
		}
	}
}

func TestPortConfigFailFast(t *testing.T) {
	p, b := newManager(t)
	b.openErr[alsasync.Playback] = errBusy

	req := p.Config()
	req.Enabled = [2]bool{true, true}

	err := p.Apply(req)
	require.Error(t, err)
	assert.Equal(t, 1, b.count("open", alsasync.Playback))
	assert.Zero(t, b.count("open", alsasync.Capture))
	assert.Equal(t, [2]bool{false, false}, p.Config().Enabled)
}

func TestPortConfigUnsupportedFormatKeepsKind(t *testing.T) {
	p, b := newManager(t)
	b.openErr[alsasync.Playback] = alsasync.ErrUnsupportedFormat

	req := p.Config()
	req.Enabled[alsasync.Playback] = true

	err := p.Apply(req)
	assert.ErrorIs(t, err, alsasync.ErrUnsupportedFormat)
	assert.NotErrorIs(t, err, alsasync.ErrDriver)
}

func TestPortConfigCloseErrorClearsFlag(t *testing.T) {
	p, b := newManager(t)

	req := p.Config()
	req.Enabled = [2]bool{true, true}
	require.NoError(t, p.Apply(req))

	b.closeErr = errors.New("io error")
	req.Enabled = [2]bool{false, false}
	require.NoError(t, p.Apply(req))
	assert.Equal(t, [2]bool{false, false}, p.Config().Enabled)
}

func TestPortConfigClose(t *testing.T) {
	p, b := newManager(t)

	req := p.Config()
	req.Enabled = [2]bool{true, false}
	require.NoError(t, p.Apply(req))

	b.calls = nil
	require.NoError(t, p.Close())
	assert.Equal(t, []streamCall{{Op: "close", Dir: alsasync.Playback}}, b.calls)
	assert.Equal(t, [2]bool{false, false}, p.Config().Enabled)

	// A second close has nothing left to do.
	b.calls = nil
	require.NoError(t, p.Close())
	assert.Empty(t, b.calls)
}

func TestPortConfigBlackboard(t *testing.T) {
	p, b := newManager(t)

	_, err := p.Bind(make([]byte, 4))
	assert.ErrorIs(t, err, alsasync.ErrSizeMismatch)

	bb := make([]byte, alsasync.PortConfigSize)
	s, err := p.Bind(bb)
	require.NoError(t, err)

	require.NoError(t, s.Pull())
	assert.Equal(t, []byte{0, 0, byte(alsasync.FormatS16LE), 2, 0x80, 0xbb}, bb)
	assert.Empty(t, b.calls)

	copy(bb, []byte{1, 0, byte(alsasync.FormatS16LE), 2, 0x44, 0xac})
	require.NoError(t, s.Push())
	assert.Equal(t, uint16(44100), p.Config().Rate)
	assert.Equal(t, [2]bool{true, false}, p.Config().Enabled)
	assert.Equal(t, 1, b.count("open", alsasync.Playback))
}

func boolInt(v bool) int {
	if v {
		return 1
	}

	return 0
}
