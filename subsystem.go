package alsasync

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gen2brain/alsasync/snd"
)

// Syncer moves a blackboard to and from the hardware.
type Syncer interface {
	// Pull publishes hardware state into the blackboard.
	Pull() error
	// Push sends the blackboard to the hardware.
	Push() error
}

// ObjectKind selects what a Subsystem binds a node to.
type ObjectKind string

const (
	ObjectControl     ObjectKind = "control"
	ObjectByteControl ObjectKind = "bytes"
	ObjectVolume      ObjectKind = "volume"
	ObjectPort        ObjectKind = "port"
)

// Subsystem creates synchronization objects over one backend and tears them down together.
type Subsystem struct {
	backend Backend
	log     *slog.Logger
	ports   []*PortConfigManager

	// ResolveCard turns a mapping card id into a card number. It defaults to snd.CardIndex.
	ResolveCard func(id string) (uint, error)
}

// NewSubsystem returns a subsystem over b. A nil logger discards output.
func NewSubsystem(b Backend, logger *slog.Logger) *Subsystem {
	return &Subsystem{
		backend:     b,
		log:         orDiscard(logger),
		ResolveCard: snd.CardIndex,
	}
}

// Backend returns the backend objects are created over.
func (s *Subsystem) Backend() Backend {
	return s.backend
}

// NewObject binds node and its blackboard to the hardware designated by m.
func (s *Subsystem) NewObject(kind ObjectKind, m Mapping, node *Node, blackboard []byte) (Syncer, error) {
	card, err := s.ResolveCard(m.Card)
	if err != nil {
		if errors.Is(err, snd.ErrCardNotFound) {
			return nil, fmt.Errorf("%w: card %q: %w", ErrNotFound, m.Card, err)
		}

		return nil, fmt.Errorf("card %q: %w", m.Card, classify(err))
	}

	if kind == ObjectPort {
		return s.newPort(card, m, blackboard)
	}

	ref, err := m.ControlRef()
	if err != nil {
		return nil, err
	}

	cfg := ControlConfig{
		Card:    card,
		Control: ref,
		Node:    node,
		Debug:   m.Debug,
		Logger:  s.log.With("card", card),
	}

	switch kind {
	case ObjectControl:
		return NewValueControl(s.backend, cfg, blackboard)
	case ObjectByteControl:
		return NewByteControl(s.backend, cfg, blackboard)
	case ObjectVolume:
		return NewVolumeControl(s.backend, cfg, blackboard)
	default:
		return nil, fmt.Errorf("%w: unknown object kind %q", ErrUnsupportedType, kind)
	}
}

func (s *Subsystem) newPort(card uint, m Mapping, blackboard []byte) (Syncer, error) {
	manager, err := NewPortConfigManager(s.backend, card, m.Device, s.log)
	if err != nil {
		return nil, err
	}

	syncer, err := manager.Bind(blackboard)
	if err != nil {
		return nil, err
	}

	s.ports = append(s.ports, manager)

	return syncer, nil
}

// Close force-closes the streams of every port, then closes the backend.
func (s *Subsystem) Close() error {
	var errs []error
	for _, p := range s.ports {
		errs = append(errs, p.Close())
	}
	s.ports = nil

	errs = append(errs, s.backend.Close())

	return errors.Join(errs...)
}
