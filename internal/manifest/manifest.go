// Package manifest reads the TOML job description used by cmd/glpipe.
//
// A manifest names the stage files of one program, the vertex data fed to
// its attributes, the uniform values, the captured varyings and the draw
// parameters:
//
//	primitive = "triangle-list"
//	count = 3
//	varyings = ["result"]
//
//	[[stage]]
//	path = "pass.vert"
//
//	[[attribute]]
//	name = "position"
//	read = "float32"
//	data = [0.0, 0.0, 1.0, 0.0, 0.0, 1.0]
//
//	[[uniform]]
//	name = "scale"
//	type = "float"
//	values = [2.0]
//
// Unknown keys are rejected.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gogpu/gputypes"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/glpipe/device"
)

// Errors returned by Validate.
var (
	ErrNoStages        = errors.New("manifest: no stages")
	ErrUnknownValue    = errors.New("manifest: unknown value")
	ErrMissingName     = errors.New("manifest: missing name")
	ErrMissingKind     = errors.New("manifest: WGSL stage needs an explicit kind")
	ErrInvalidCount    = errors.New("manifest: invalid count")
	ErrDuplicateName   = errors.New("manifest: duplicate name")
	ErrAttributeLength = errors.New("manifest: attribute data shorter than count")
)

// Manifest is one capture job.
type Manifest struct {
	// Primitive is the draw primitive, "triangle-list" if empty.
	Primitive string `toml:"primitive"`
	// Count is the number of vertices drawn.
	Count      int         `toml:"count"`
	Interleave bool        `toml:"interleave"`
	Varyings   []string    `toml:"varyings"`
	Stages     []Stage     `toml:"stage"`
	Attributes []Attribute `toml:"attribute"`
	Uniforms   []Uniform   `toml:"uniform"`

	// dir resolves relative stage paths.
	dir string
}

// Stage is one shader source file.
type Stage struct {
	Path string `toml:"path"`
	// Kind overrides suffix detection: "vertex", "geometry" or "fragment".
	Kind string `toml:"kind"`
	// Entry is the WGSL entry point. A non-empty Entry loads the file as WGSL.
	Entry string `toml:"entry"`
}

// Attribute feeds one vertex input from inline data.
type Attribute struct {
	Name      string    `toml:"name"`
	Read      string    `toml:"read"`
	Normalize bool      `toml:"normalize"`
	Data      []float64 `toml:"data"`
}

// Uniform sets one uniform value.
type Uniform struct {
	Name      string    `toml:"name"`
	Type      string    `toml:"type"`
	Values    []float64 `toml:"values"`
	Transpose bool      `toml:"transpose"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// Decode reads and validates a manifest from r. Relative stage paths are
// resolved against the working directory.
func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("manifest: %s", strict.String())
		}
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// StagePath returns the path of s, resolved against the manifest directory.
func (m *Manifest) StagePath(s Stage) string {
	if filepath.IsAbs(s.Path) || m.dir == "" {
		return s.Path
	}
	return filepath.Join(m.dir, s.Path)
}

// Validate checks the manifest for values the CLI cannot run.
func (m *Manifest) Validate() error {
	var errs []error
	if len(m.Stages) == 0 {
		errs = append(errs, ErrNoStages)
	}
	if m.Count <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidCount, m.Count))
	}
	if _, err := m.Topology(); err != nil {
		errs = append(errs, err)
	}
	for i, s := range m.Stages {
		if s.Path == "" {
			errs = append(errs, fmt.Errorf("stage %d: path: %w", i, ErrMissingName))
		}
		kind, err := s.StageKind()
		if err != nil {
			errs = append(errs, fmt.Errorf("stage %s: %w", s.Path, err))
		} else if s.Entry != "" && kind == device.StageNone {
			errs = append(errs, fmt.Errorf("stage %s: %w", s.Path, ErrMissingKind))
		}
	}
	names := make(map[string]bool)
	for _, a := range m.Attributes {
		if err := checkName("attribute", a.Name, names); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := parseReadMode(a.Read); err != nil {
			errs = append(errs, fmt.Errorf("attribute %s: %w", a.Name, err))
		}
		if len(a.Data) < m.Count {
			errs = append(errs, fmt.Errorf("attribute %s: %w", a.Name, ErrAttributeLength))
		}
	}
	clear(names)
	for _, u := range m.Uniforms {
		if err := checkName("uniform", u.Name, names); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, ok := uniformTypes[u.Type]; !ok {
			errs = append(errs, fmt.Errorf("uniform %s: %w: type %q", u.Name, ErrUnknownValue, u.Type))
		}
	}
	clear(names)
	for _, v := range m.Varyings {
		if err := checkName("varying", v, names); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func checkName(what, name string, seen map[string]bool) error {
	if name == "" {
		return fmt.Errorf("%s: %w", what, ErrMissingName)
	}
	if seen[name] {
		return fmt.Errorf("%s %s: %w", what, name, ErrDuplicateName)
	}
	seen[name] = true
	return nil
}

var primitives = map[string]gputypes.PrimitiveTopology{
	"point-list":     gputypes.PrimitiveTopologyPointList,
	"line-list":      gputypes.PrimitiveTopologyLineList,
	"line-strip":     gputypes.PrimitiveTopologyLineStrip,
	"triangle-list":  gputypes.PrimitiveTopologyTriangleList,
	"triangle-strip": gputypes.PrimitiveTopologyTriangleStrip,
}

// Topology returns the draw primitive.
func (m *Manifest) Topology() (gputypes.PrimitiveTopology, error) {
	if m.Primitive == "" {
		return gputypes.PrimitiveTopologyTriangleList, nil
	}
	p, ok := primitives[m.Primitive]
	if !ok {
		return 0, fmt.Errorf("%w: primitive %q", ErrUnknownValue, m.Primitive)
	}
	return p, nil
}

// StageKind returns the explicit stage kind, or StageNone for suffix
// detection.
func (s Stage) StageKind() (device.StageKind, error) {
	switch s.Kind {
	case "":
		return device.StageNone, nil
	case "vertex":
		return device.StageVertex, nil
	case "geometry":
		return device.StageGeometry, nil
	case "fragment":
		return device.StageFragment, nil
	default:
		return device.StageNone, fmt.Errorf("%w: kind %q", ErrUnknownValue, s.Kind)
	}
}
