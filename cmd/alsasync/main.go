package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gen2brain/alsasync"
	"github.com/gen2brain/alsasync/backend/libasound"
	"github.com/gen2brain/alsasync/backend/tinyalsa"
	"github.com/gen2brain/alsasync/config"
	"github.com/gen2brain/alsasync/snd"
)

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	v, fs := newSettings()
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()

		return errUsage
	}

	command, rest := fs.Arg(0), fs.Args()[1:]

	switch command {
	case "cards":
		return listCards(out)
	case "controls":
		if len(rest) != 1 {
			fs.Usage()

			return errUsage
		}

		return listControls(out, rest[0])
	case "pull", "push", "port":
	default:
		fs.Usage()

		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	s, err := openSession(v)
	if err != nil {
		return err
	}
	defer s.Close()

	switch command {
	case "pull":
		return s.pull(out, rest)
	case "push":
		return s.push(out, rest)
	default:
		if len(rest) != 1 || v.GetString("media") == "" {
			fs.Usage()

			return errUsage
		}

		return s.port(out, rest[0], v.GetString("media"))
	}
}

func listCards(out io.Writer) error {
	cards, err := snd.EnumerateCards()
	if err != nil {
		return err
	}

	for _, card := range cards {
		fmt.Fprint(out, card.String())
	}

	return nil
}

func listControls(out io.Writer, id string) error {
	card, err := snd.CardIndex(id)
	if err != nil {
		return err
	}

	mixer, err := snd.MixerOpen(card)
	if err != nil {
		return err
	}
	defer mixer.Close()

	fmt.Fprintf(out, "Mixer card '%s' has %d controls.\n", mixer.Name(), mixer.NumCtls())
	for _, ctl := range mixer.Ctls {
		fmt.Fprintf(out, "%d: %s,%d (%s, %d values)\n", ctl.ID(), ctl.Name(), ctl.Index(), ctl.Type(), ctl.NumValues())
	}

	return nil
}

// session is a loaded document bound to a backend.
type session struct {
	log       *slog.Logger
	logFile   *os.File
	subsystem *alsasync.Subsystem
	bindings  []config.Binding
}

func openSession(v *viper.Viper) (*session, error) {
	doc, err := config.Load(v.GetString("config"))
	if err != nil {
		return nil, err
	}
	applyDocument(v, doc)

	logger, logFile, err := configureLogger(v.GetString("log-level"), v.GetString("log-format"), v.GetString("log-file"))
	if err != nil {
		return nil, err
	}

	backend, err := newBackend(v.GetString("backend"), logger)
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}

		return nil, err
	}

	s := &session{log: logger, logFile: logFile, subsystem: alsasync.NewSubsystem(backend, logger)}

	s.bindings, err = doc.Build(s.subsystem)
	if err != nil {
		_ = s.Close()

		return nil, err
	}

	logger.Debug("document loaded", "config", v.GetString("config"), "backend", backend.Name(), "objects", len(s.bindings))

	return s, nil
}

func newBackend(name string, logger *slog.Logger) (alsasync.Backend, error) {
	switch name {
	case config.BackendTinyALSA:
		return tinyalsa.New(logger), nil
	case config.BackendLibASound:
		return libasound.New(logger)
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

func (s *session) Close() error {
	err := s.subsystem.Close()
	if err != nil {
		s.log.Warn("subsystem close failed", "error", err)
	}

	if s.logFile != nil {
		_ = s.logFile.Close()
	}

	return err
}

// selected returns the named bindings, or all of them when no name is given.
func (s *session) selected(names []string) ([]config.Binding, error) {
	if len(names) == 0 {
		return s.bindings, nil
	}

	out := make([]config.Binding, 0, len(names))
	for _, name := range names {
		b, ok := config.Find(s.bindings, name)
		if !ok {
			return nil, fmt.Errorf("%w: object %q", alsasync.ErrNotFound, name)
		}
		out = append(out, b)
	}

	return out, nil
}

func (s *session) pull(out io.Writer, names []string) error {
	bindings, err := s.selected(names)
	if err != nil {
		return err
	}

	for _, b := range bindings {
		if err := b.Syncer.Pull(); err != nil {
			return fmt.Errorf("pull %s: %w", b.Name, err)
		}
	}

	return writeReport(out, bindings)
}

func (s *session) push(out io.Writer, names []string) error {
	bindings, err := s.selected(names)
	if err != nil {
		return err
	}

	for _, b := range bindings {
		if err := b.Syncer.Push(); err != nil {
			return fmt.Errorf("push %s: %w", b.Name, err)
		}
		fmt.Fprintf(out, "Pushed %s.\n", b.Name)
	}

	return nil
}

func (s *session) port(out io.Writer, name, media string) error {
	bindings, err := s.selected([]string{name})
	if err != nil {
		return err
	}

	b := bindings[0]
	if b.Kind != alsasync.ObjectPort {
		return fmt.Errorf("%w: object %s is a %s, not a port", alsasync.ErrUnsupportedType, b.Name, b.Kind)
	}

	cfg, err := probeMedia(media)
	if err != nil {
		return err
	}
	cfg.Enabled[alsasync.Playback] = true

	s.log.Info("applying port configuration", "object", b.Name, "media", media, "config", cfg.String())

	raw, _ := cfg.MarshalBinary()
	copy(b.Blackboard, raw)

	if err := b.Syncer.Push(); err != nil {
		return fmt.Errorf("push %s: %w", b.Name, err)
	}

	if err := b.Syncer.Pull(); err != nil {
		return fmt.Errorf("pull %s: %w", b.Name, err)
	}

	return writeReport(out, bindings)
}
