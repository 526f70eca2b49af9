package classify

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pivolan/spotviz/domain/models"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ParseColor converts a "#rrggbb" token into a drawing color.
func ParseColor(tok models.ColorToken) (drawing.Color, error) {
	s := string(tok)
	if !hexColorRe.MatchString(s) {
		return drawing.Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#")), nil
}

// Token formats a drawing color back to "#rrggbb".
func Token(c drawing.Color) models.ColorToken {
	return models.ColorToken(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// Interpolate mixes two tokens channel by channel at fraction t.
// t outside [0, 1] is clamped so channels stay in range.
func Interpolate(start, end models.ColorToken, t float64) models.ColorToken {
	a, err := ParseColor(start)
	if err != nil {
		return start
	}
	b, err := ParseColor(end)
	if err != nil {
		return start
	}
	if math.IsNaN(t) || t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + t*(float64(y)-float64(x))))
	}
	return Token(drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255})
}

// TextColor picks black or white text for a background by relative luminance.
func TextColor(bg models.ColorToken) models.ColorToken {
	c, err := ParseColor(bg)
	if err != nil {
		return "#000000"
	}
	lum := (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
	if lum > 0.65 {
		return "#000000"
	}
	return "#ffffff"
}
