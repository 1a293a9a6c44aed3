package alsasync

import (
	"errors"
	"fmt"
	"log/slog"
)

// PortConfigManager owns the stream state of one PCM device.
//
// Its configuration is the single source of truth for which streams are open: an enabled flag
// is set only after the driver opened the stream and cleared as soon as it is closed. Calls on
// one manager must be serialized by the caller.
type PortConfigManager struct {
	driver PortDriver
	card   uint
	device uint
	config PortConfig
	log    *slog.Logger
}

// NewPortConfigManager returns a manager for a PCM device starting from the backend's default
// configuration, with both streams closed.
func NewPortConfigManager(b Backend, card, device uint, logger *slog.Logger) (*PortConfigManager, error) {
	if b == nil {
		return nil, errors.New("backend is nil")
	}

	driver, err := b.Port(card, device)
	if err != nil {
		return nil, fmt.Errorf("port %d,%d: %w", card, device, classify(err))
	}

	config := b.DefaultPortConfig()
	config.Enabled = [2]bool{}

	return &PortConfigManager{
		driver: driver,
		card:   card,
		device: device,
		config: config,
		log:    orDiscard(logger).With("card", card, "device", device),
	}, nil
}

// Config returns the current configuration. It performs no hardware access.
func (p *PortConfigManager) Config() PortConfig {
	return p.config
}

// Apply reconciles the device with req.
//
// When the format, channel count or rate change, both streams are closed and the new device
// fields are committed before anything is reopened. Otherwise only the streams req disables are
// closed. Streams req enables are then opened in playback, capture order and the first failure
// is returned as a *StreamError. Committed device fields are not rolled back on failure, so a
// caller retries by applying the same configuration again.
func (p *PortConfigManager) Apply(req PortConfig) error {
	if p.config.deviceDiffers(req) {
		p.log.Debug("device update", "from", p.config.String(), "to", req.String())

		p.closeStream(Playback)
		p.closeStream(Capture)

		p.config.Format = req.Format
		p.config.Channels = req.Channels
		p.config.Rate = req.Rate
	} else {
		for _, dir := range Directions {
			if !req.Enabled[dir] {
				p.closeStream(dir)
			}
		}
	}

	for _, dir := range Directions {
		if !req.Enabled[dir] {
			continue
		}

		if err := p.openStream(dir); err != nil {
			return err
		}
	}

	return nil
}

// Close force-closes both streams.
func (p *PortConfigManager) Close() error {
	return errors.Join(p.closeStream(Playback), p.closeStream(Capture))
}

// Bind returns a Syncer moving the configuration through a PortConfigSize byte blackboard.
func (p *PortConfigManager) Bind(blackboard []byte) (Syncer, error) {
	if len(blackboard) != PortConfigSize {
		return nil, fmt.Errorf("%w: port blackboard is %d bytes, want %d", ErrSizeMismatch, len(blackboard), PortConfigSize)
	}

	return &portSyncer{manager: p, blackboard: blackboard}, nil
}

func (p *PortConfigManager) openStream(dir Direction) error {
	if p.config.Enabled[dir] {
		return nil
	}

	if err := p.driver.OpenStream(dir, p.config); err != nil {
		return &StreamError{Direction: dir, Op: "open", Err: classify(err)}
	}

	p.config.Enabled[dir] = true
	p.log.Debug("stream opened", "direction", dir.String(), "config", p.config.String())

	return nil
}

// closeStream closes an open stream. The flag is cleared even when the driver reports an
// error, as the handle is released either way.
func (p *PortConfigManager) closeStream(dir Direction) error {
	if !p.config.Enabled[dir] {
		return nil
	}

	err := p.driver.CloseStream(dir)
	p.config.Enabled[dir] = false

	if err != nil {
		p.log.Warn("stream close failed", "direction", dir.String(), "error", err)

		return &StreamError{Direction: dir, Op: "close", Err: classify(err)}
	}

	p.log.Debug("stream closed", "direction", dir.String())

	return nil
}

type portSyncer struct {
	manager    *PortConfigManager
	blackboard []byte
}

// Pull publishes the current configuration.
func (s *portSyncer) Pull() error {
	s.manager.config.put(s.blackboard)

	return nil
}

// Push applies the configuration held by the blackboard.
func (s *portSyncer) Push() error {
	var req PortConfig
	if err := req.UnmarshalBinary(s.blackboard); err != nil {
		return err
	}

	return s.manager.Apply(req)
}
