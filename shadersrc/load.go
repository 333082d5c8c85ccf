package shadersrc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/gogpu/glpipe/device"
)

// ErrUnrecognizedStage is returned when a file suffix names no stage.
var ErrUnrecognizedStage = errors.New("shadersrc: unrecognized stage suffix")

// Source is a loaded stage source.
type Source struct {
	Text string
	Kind device.StageKind
	Path string
}

// DetectStage returns the stage kind named by the suffix of path:
// .vert, .geom and .frag. Anything else is StageUnrecognized.
func DetectStage(path string) device.StageKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vert":
		return device.StageVertex
	case ".geom":
		return device.StageGeometry
	case ".frag":
		return device.StageFragment
	default:
		return device.StageUnrecognized
	}
}

// Decode converts raw file contents to a UTF-8 string. A UTF-8 or
// UTF-16 byte order mark selects the encoding; without one the data is
// taken as UTF-8.
func Decode(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("shadersrc: decode: %w", err)
	}
	return string(out), nil
}

// LoadFile reads path and translates its literals. If kind is StageNone
// the kind is detected from the suffix; detection failure returns the
// decoded source together with ErrUnrecognizedStage.
func LoadFile(path string, kind device.StageKind) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("shadersrc: %w", err)
	}
	text, err := Decode(data)
	if err != nil {
		return Source{}, err
	}
	text, err = TranslateLiterals(text)
	if err != nil {
		return Source{}, fmt.Errorf("shadersrc: %s: %w", path, err)
	}
	src := Source{Text: text, Kind: kind, Path: path}
	if kind == device.StageNone {
		src.Kind = DetectStage(path)
		if src.Kind == device.StageUnrecognized {
			return src, fmt.Errorf("%w: %s", ErrUnrecognizedStage, path)
		}
	}
	return src, nil
}
