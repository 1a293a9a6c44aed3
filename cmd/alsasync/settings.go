package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gen2brain/alsasync/config"
)

// newSettings returns the command-line flags bound to a viper instance. Flags win over
// ALSASYNC_* environment variables, which win over the configuration document, which wins
// over the defaults set here.
func newSettings() (*viper.Viper, *pflag.FlagSet) {
	v := viper.New()
	v.SetDefault("config", "alsasync.yaml")
	v.SetDefault("backend", config.BackendTinyALSA)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "text")
	v.SetDefault("log-file", "")
	v.SetDefault("media", "")

	v.SetEnvPrefix("ALSASYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := pflag.NewFlagSet("alsasync", pflag.ContinueOnError)
	fs.StringP("config", "c", "alsasync.yaml", "The object document to load")
	fs.String("backend", config.BackendTinyALSA, "The ALSA backend (tinyalsa or libasound)")
	fs.String("log-level", "info", "The log level (none, error, warn, info, debug)")
	fs.String("log-format", "text", "The log format (text or json)")
	fs.String("log-file", "", "Write logs to this file instead of stderr")
	fs.String("media", "", "A WAV or MP3 file to derive a port configuration from")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [args...]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "\nCommands:")
		fmt.Fprintln(os.Stderr, "  cards                 List sound cards and their PCM devices")
		fmt.Fprintln(os.Stderr, "  controls <card>       List the mixer controls of a card")
		fmt.Fprintln(os.Stderr, "  pull [object...]      Read objects from the hardware and print them")
		fmt.Fprintln(os.Stderr, "  push [object...]      Write the document values of objects to the hardware")
		fmt.Fprintln(os.Stderr, "  port --media <file> <object>")
		fmt.Fprintln(os.Stderr, "                        Open a port for playback of a media file format")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		fs.PrintDefaults()
	}

	// Binding only fails for a nil flag set.
	_ = v.BindPFlags(fs)

	return v, fs
}

// applyDocument makes the document settings the defaults, below flags and environment.
func applyDocument(v *viper.Viper, doc *config.Document) {
	v.SetDefault("backend", doc.Backend)
	v.SetDefault("log-level", doc.Logging.Level)
	v.SetDefault("log-format", doc.Logging.Format)
}
