package shadersrc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SwDoubleSwitch enables SwDouble literal translation when present in a
// source.
const SwDoubleSwitch = "//#SwDouble"

const swDoubleOpen = `SwDouble("`

// ErrUnterminatedLiteral is returned for a SwDouble literal with no
// closing quote and parenthesis.
var ErrUnterminatedLiteral = errors.New("shadersrc: unterminated SwDouble literal")

// TranslateLiterals rewrites SwDouble("x") literals into
// SwDouble(uvec2(lo, hi)), where lo and hi are the low and high 32 bits
// of the IEEE 754 double x. Sources without the SwDouble switch comment
// are returned unchanged. The switch comment itself is removed.
func TranslateLiterals(src string) (string, error) {
	pos := strings.Index(src, SwDoubleSwitch)
	if pos < 0 {
		return src, nil
	}
	src = src[:pos] + src[pos+len(SwDoubleSwitch):]

	var b strings.Builder
	b.Grow(len(src))
	rest := src
	for {
		i := strings.Index(rest, swDoubleOpen)
		if i < 0 {
			b.WriteString(rest)
			break
		}
		start := i + len(swDoubleOpen)
		end := strings.Index(rest[start:], `")`)
		if end < 0 {
			return "", fmt.Errorf("%w at offset %d", ErrUnterminatedLiteral, len(src)-len(rest)+i)
		}
		lit := rest[start : start+end]
		v, err := strconv.ParseFloat(strings.TrimSpace(lit), 64)
		if err != nil {
			return "", fmt.Errorf("shadersrc: SwDouble literal %q: %w", lit, err)
		}
		bits := math.Float64bits(v)
		b.WriteString(rest[:i])
		fmt.Fprintf(&b, "SwDouble(uvec2(%d,%d))", uint32(bits), uint32(bits>>32))
		rest = rest[start+end+2:]
	}
	return b.String(), nil
}
