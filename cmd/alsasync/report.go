package main

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gen2brain/alsasync"
	"github.com/gen2brain/alsasync/config"
)

type portReport struct {
	Playback bool   `yaml:"playback"`
	Capture  bool   `yaml:"capture"`
	Format   string `yaml:"format"`
	Channels uint8  `yaml:"channels"`
	Rate     uint16 `yaml:"rate"`
}

type volumeReport struct {
	Muted bool  `yaml:"muted"`
	Level int32 `yaml:"level"`
}

type entry struct {
	Name    string         `yaml:"name"`
	Kind    string         `yaml:"kind"`
	Value   []int          `yaml:"value,flow"`
	Port    *portReport    `yaml:"port,omitempty"`
	Volumes []volumeReport `yaml:"volumes,omitempty"`
}

func newEntry(b config.Binding) entry {
	e := entry{Name: b.Name, Kind: string(b.Kind), Value: make([]int, len(b.Blackboard))}
	for i, v := range b.Blackboard {
		e.Value[i] = int(v)
	}

	switch b.Kind {
	case alsasync.ObjectPort:
		var cfg alsasync.PortConfig
		if cfg.UnmarshalBinary(b.Blackboard) == nil {
			e.Port = &portReport{
				Playback: cfg.Enabled[alsasync.Playback],
				Capture:  cfg.Enabled[alsasync.Capture],
				Format:   cfg.Format.String(),
				Channels: cfg.Channels,
				Rate:     cfg.Rate,
			}
		}
	case alsasync.ObjectVolume:
		width := int(b.Node.ScalarWidth())
		if width < 2 {
			break
		}

		for i := 0; i+width <= len(b.Blackboard); i += width {
			v := alsasync.DecodeVolume(b.Blackboard[i : i+width])
			e.Volumes = append(e.Volumes, volumeReport{Muted: v.Muted, Level: v.Level})
		}
	}

	return e
}

// writeReport prints the bindings as a YAML list.
func writeReport(w io.Writer, bindings []config.Binding) error {
	entries := make([]entry, 0, len(bindings))
	for _, b := range bindings {
		entries = append(entries, newEntry(b))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(entries); err != nil {
		return err
	}

	return enc.Close()
}
