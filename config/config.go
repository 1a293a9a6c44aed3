// Package config loads the YAML document describing the objects a host binds to ALSA.
//
// A document names the backend, the logging settings and a list of objects. Each object
// carries its mapping (card, device, control), the shape of its configuration node and an
// optional initial blackboard value:
//
//	backend: tinyalsa
//	logging:
//	  level: info
//	  format: text
//	objects:
//	  - name: master
//	    kind: volume
//	    card: Dummy
//	    control: Master Volume
//	    node:
//	      kind: parameter-block
//	      array_length: 2
//	      children:
//	        - {name: mute, kind: parameter, size: 1}
//	        - {name: level, kind: parameter, size: 4, signed: true}
//	  - name: loopback
//	    kind: port
//	    card: Loopback
//	    device: 0
//	    value: [1, 0, 2, 2, 0x80, 0xbb]
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/gen2brain/alsasync"
	"gopkg.in/yaml.v3"
)

const (
	BackendTinyALSA  = "tinyalsa"
	BackendLibASound = "libasound"
)

// Document is the root of a configuration file.
type Document struct {
	// Backend selects the driver: tinyalsa or libasound.
	// Default: tinyalsa
	Backend string        `yaml:"backend"`
	Logging LoggingConfig `yaml:"logging"`
	Objects []Object      `yaml:"objects"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: none, debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`

	// Format is the log output format: text or json.
	// Default: text
	Format string `yaml:"format"`
}

// Object binds one configuration node to the hardware.
type Object struct {
	// Name identifies the object and roots the paths of its nodes.
	Name string `yaml:"name"`

	// Kind is one of control, bytes, volume or port.
	Kind string `yaml:"kind"`

	Card    string   `yaml:"card"`
	Device  uint     `yaml:"device"`
	Control string   `yaml:"control"`
	Index   uint     `yaml:"index"`
	Debug   bool     `yaml:"debug"`
	Amends  []string `yaml:"amends"`

	// Node is the shape of the blackboard. Ports have a fixed layout and take no node.
	Node *NodeConfig `yaml:"node"`

	// Value is the initial blackboard content. It is zero-filled when empty, except for ports,
	// which start from the backend's default configuration with both streams disabled.
	Value []int `yaml:"value"`
}

// NodeConfig describes a configuration node.
type NodeConfig struct {
	Name        string        `yaml:"name"`
	Kind        string        `yaml:"kind"`
	Size        uint32        `yaml:"size"`
	ArrayLength uint32        `yaml:"array_length"`
	Signed      bool          `yaml:"signed"`
	Children    []*NodeConfig `yaml:"children"`
}

// Binding is an object created from a document, along with the blackboard it synchronizes.
type Binding struct {
	Name       string
	Kind       alsasync.ObjectKind
	Node       *alsasync.Node // Nil for ports
	Syncer     alsasync.Syncer
	Blackboard []byte
}

var objectKinds = []alsasync.ObjectKind{
	alsasync.ObjectControl,
	alsasync.ObjectByteControl,
	alsasync.ObjectVolume,
	alsasync.ObjectPort,
}

// Load reads, parses and validates a document.
//
// Environment variables override file values: ALSASYNC_BACKEND, ALSASYNC_LOG_LEVEL and
// ALSASYNC_LOG_FORMAT.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(doc)

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return doc, nil
}

// Parse decodes a document over the defaults. It does not validate it.
func Parse(data []byte) (*Document, error) {
	doc := defaultDocument()

	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return doc, nil
}

func defaultDocument() *Document {
	return &Document{
		Backend: BackendTinyALSA,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func applyEnvOverrides(doc *Document) {
	if v := os.Getenv("ALSASYNC_BACKEND"); v != "" {
		doc.Backend = v
	}
	if v := os.Getenv("ALSASYNC_LOG_LEVEL"); v != "" {
		doc.Logging.Level = v
	}
	if v := os.Getenv("ALSASYNC_LOG_FORMAT"); v != "" {
		doc.Logging.Format = v
	}
}

// Validate checks the document for errors.
func (d *Document) Validate() error {
	var errs []string

	if d.Backend != BackendTinyALSA && d.Backend != BackendLibASound {
		errs = append(errs, fmt.Sprintf("backend %q must be %s or %s", d.Backend, BackendTinyALSA, BackendLibASound))
	}

	errs = append(errs, d.validateLogging()...)
	errs = append(errs, d.validateObjects()...)

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

func (d *Document) validateLogging() []string {
	var errs []string
	if !slices.Contains([]string{"none", "debug", "info", "warn", "error"}, d.Logging.Level) {
		errs = append(errs, fmt.Sprintf("logging.level %q is invalid", d.Logging.Level))
	}
	if d.Logging.Format != "text" && d.Logging.Format != "json" {
		errs = append(errs, fmt.Sprintf("logging.format %q must be text or json", d.Logging.Format))
	}
	return errs
}

func (d *Document) validateObjects() []string {
	var errs []string
	names := make(map[string]bool)

	for i, o := range d.Objects {
		if o.Name == "" {
			errs = append(errs, fmt.Sprintf("objects[%d].name is required", i))
			continue
		}
		if names[o.Name] {
			errs = append(errs, fmt.Sprintf("objects[%d].name %q is duplicate", i, o.Name))
		}
		names[o.Name] = true

		if o.Card == "" {
			errs = append(errs, fmt.Sprintf("objects[%d].card is required", i))
		}
		if len(o.Amends) > alsasync.MaxAmends {
			errs = append(errs, fmt.Sprintf("objects[%d].amends has %d values, at most %d are allowed", i, len(o.Amends), alsasync.MaxAmends))
		}
		for j, v := range o.Value {
			if v < 0 || v > 0xff {
				errs = append(errs, fmt.Sprintf("objects[%d].value[%d] %d is not a byte", i, j, v))
			}
		}

		kind := alsasync.ObjectKind(o.Kind)
		if !slices.Contains(objectKinds, kind) {
			errs = append(errs, fmt.Sprintf("objects[%d].kind %q is invalid", i, o.Kind))
			continue
		}

		if kind == alsasync.ObjectPort {
			if len(o.Value) != 0 && len(o.Value) != alsasync.PortConfigSize {
				errs = append(errs, fmt.Sprintf("objects[%d].value must be %d bytes", i, alsasync.PortConfigSize))
			}
			continue
		}

		if o.Control == "" {
			errs = append(errs, fmt.Sprintf("objects[%d].control is required", i))
		}

		node, err := o.Node.build("/" + o.Name)
		if err != nil {
			errs = append(errs, fmt.Sprintf("objects[%d].node: %v", i, err))
			continue
		}
		if len(o.Value) != 0 && uint32(len(o.Value)) != node.Footprint() {
			errs = append(errs, fmt.Sprintf("objects[%d].value is %d bytes, node footprint is %d", i, len(o.Value), node.Footprint()))
		}
	}

	return errs
}

// Mapping returns the hardware coordinates of the object.
func (o *Object) Mapping() alsasync.Mapping {
	return alsasync.Mapping{
		Card:    o.Card,
		Device:  o.Device,
		Control: o.Control,
		Index:   o.Index,
		Debug:   o.Debug,
		Amends:  o.Amends,
	}
}

func (n *NodeConfig) build(path string) (*alsasync.Node, error) {
	if n == nil {
		return nil, errors.New("node is required")
	}

	kind, err := alsasync.ParseNodeKind(n.Kind)
	if err != nil {
		return nil, err
	}

	node := &alsasync.Node{
		Path:        path,
		Kind:        kind,
		Size:        n.Size,
		ArrayLength: n.ArrayLength,
		Signed:      n.Signed,
	}

	for i, c := range n.Children {
		name := c.Name
		if name == "" {
			name = fmt.Sprint(i)
		}

		child, err := c.build(path + "/" + name)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}

	return node, nil
}

// Build creates every object of the document over s. The first failure is returned along
// with the bindings created so far.
func (d *Document) Build(s *alsasync.Subsystem) ([]Binding, error) {
	bindings := make([]Binding, 0, len(d.Objects))

	for _, o := range d.Objects {
		b, err := o.bind(s)
		if err != nil {
			return bindings, fmt.Errorf("object %s: %w", o.Name, err)
		}
		bindings = append(bindings, b)
	}

	return bindings, nil
}

func (o *Object) bind(s *alsasync.Subsystem) (Binding, error) {
	kind := alsasync.ObjectKind(o.Kind)

	var node *alsasync.Node
	size := uint32(alsasync.PortConfigSize)

	if kind != alsasync.ObjectPort {
		var err error
		if node, err = o.Node.build("/" + o.Name); err != nil {
			return Binding{}, fmt.Errorf("%w: %w", alsasync.ErrUnsupportedType, err)
		}
		size = node.Footprint()
	}

	blackboard := make([]byte, size)
	if kind == alsasync.ObjectPort && len(o.Value) == 0 {
		// Ports without a value start from the backend default with both streams off, so a
		// push keeps the device as it is.
		def := s.Backend().DefaultPortConfig()
		def.Enabled = [2]bool{}
		raw, _ := def.MarshalBinary()
		copy(blackboard, raw)
	}
	for i, v := range o.Value {
		if i < len(blackboard) {
			blackboard[i] = byte(v)
		}
	}

	syncer, err := s.NewObject(kind, o.Mapping(), node, blackboard)
	if err != nil {
		return Binding{}, err
	}

	return Binding{Name: o.Name, Kind: kind, Node: node, Syncer: syncer, Blackboard: blackboard}, nil
}

// Find returns the binding with the given name.
func Find(bindings []Binding, name string) (Binding, bool) {
	for _, b := range bindings {
		if b.Name == name {
			return b, true
		}
	}

	return Binding{}, false
}
