// Package classify maps numeric aggregates to display colors.
//
// Three modes share one capability: Binary (presence), Graduated (fixed
// breakpoint table) and Continuous (two-stop linear gradient over a domain).
// None of them rescale to the data: the tables are configuration.
package classify

import (
	"errors"
	"fmt"

	"github.com/pivolan/spotviz/domain/models"
)

type Mode string

const (
	ModeBinary     Mode = "binary"
	ModeGraduated  Mode = "graduated"
	ModeContinuous Mode = "continuous"
)

var (
	ErrUnknownMode    = errors.New("unknown classification mode")
	ErrNoBreakpoints  = errors.New("graduated mode needs at least one breakpoint")
	ErrUnsortedBounds = errors.New("breakpoint bounds must be strictly ascending")
	ErrBadColor       = errors.New("color token is not a #rrggbb hex string")
	ErrInvertedDomain = errors.New("domain min is greater than domain max")
)

// Classifier turns a value into a color token.
type Classifier interface {
	Classify(value float64) models.ColorToken
}

// Breakpoint is one graduated tier: values <= Bound get Token.
type Breakpoint struct {
	Bound float64           `toml:"bound" json:"bound"`
	Token models.ColorToken `toml:"token" json:"token"`
}

// Config is the tagged configuration for any of the three modes.
// Only the fields of the selected Mode are read.
type Config struct {
	Mode Mode `toml:"mode" json:"mode"`

	Present models.ColorToken `toml:"present" json:"present,omitempty"`
	Absent  models.ColorToken `toml:"absent" json:"absent,omitempty"`

	Breakpoints []Breakpoint      `toml:"breakpoints" json:"breakpoints,omitempty"`
	Max         models.ColorToken `toml:"max" json:"max,omitempty"`

	Start     models.ColorToken `toml:"start" json:"start,omitempty"`
	End       models.ColorToken `toml:"end" json:"end,omitempty"`
	DomainMin float64           `toml:"domain_min" json:"domain_min,omitempty"`
	DomainMax float64           `toml:"domain_max" json:"domain_max,omitempty"`
}

// Build validates the configuration and returns the matching classifier.
func (c Config) Build() (Classifier, error) {
	switch c.Mode {
	case ModeBinary:
		return NewBinary(c.Present, c.Absent)
	case ModeGraduated:
		return NewGraduated(c.Breakpoints, c.Max)
	case ModeContinuous:
		return NewContinuous(c.Start, c.End, c.DomainMin, c.DomainMax)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, c.Mode)
}

// Classify builds the classifier described by cfg and applies it to value.
func Classify(value float64, cfg Config) (models.ColorToken, error) {
	c, err := cfg.Build()
	if err != nil {
		return "", err
	}
	return c.Classify(value), nil
}

// Binary colors anything above zero as present.
type Binary struct {
	Present models.ColorToken
	Absent  models.ColorToken
}

func NewBinary(present, absent models.ColorToken) (*Binary, error) {
	for _, tok := range []models.ColorToken{present, absent} {
		if _, err := ParseColor(tok); err != nil {
			return nil, err
		}
	}
	return &Binary{Present: present, Absent: absent}, nil
}

func (b *Binary) Classify(value float64) models.ColorToken {
	if value > 0 {
		return b.Present
	}
	return b.Absent
}

// Graduated walks ascending breakpoints; the first bound >= value wins.
type Graduated struct {
	Breakpoints []Breakpoint
	Max         models.ColorToken
}

func NewGraduated(breakpoints []Breakpoint, max models.ColorToken) (*Graduated, error) {
	if len(breakpoints) == 0 {
		return nil, ErrNoBreakpoints
	}
	for i, bp := range breakpoints {
		if _, err := ParseColor(bp.Token); err != nil {
			return nil, err
		}
		if i > 0 && bp.Bound <= breakpoints[i-1].Bound {
			return nil, fmt.Errorf("%w: %v after %v", ErrUnsortedBounds, bp.Bound, breakpoints[i-1].Bound)
		}
	}
	if _, err := ParseColor(max); err != nil {
		return nil, err
	}
	bps := make([]Breakpoint, len(breakpoints))
	copy(bps, breakpoints)
	return &Graduated{Breakpoints: bps, Max: max}, nil
}

func (g *Graduated) Classify(value float64) models.ColorToken {
	return g.Levels()[g.Level(value)]
}

// Level is the index of the tier value falls in; len(Breakpoints) means Max.
func (g *Graduated) Level(value float64) int {
	for i, bp := range g.Breakpoints {
		if bp.Bound >= value {
			return i
		}
	}
	return len(g.Breakpoints)
}

// Levels lists every token from lightest to darkest, Max last.
func (g *Graduated) Levels() []models.ColorToken {
	out := make([]models.ColorToken, 0, len(g.Breakpoints)+1)
	for _, bp := range g.Breakpoints {
		out = append(out, bp.Token)
	}
	return append(out, g.Max)
}

// Continuous interpolates between Start and End over [DomainMin, DomainMax].
type Continuous struct {
	Start     models.ColorToken
	End       models.ColorToken
	DomainMin float64
	DomainMax float64
}

func NewContinuous(start, end models.ColorToken, domainMin, domainMax float64) (*Continuous, error) {
	for _, tok := range []models.ColorToken{start, end} {
		if _, err := ParseColor(tok); err != nil {
			return nil, err
		}
	}
	if domainMin > domainMax {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrInvertedDomain, domainMin, domainMax)
	}
	return &Continuous{Start: start, End: end, DomainMin: domainMin, DomainMax: domainMax}, nil
}

// Fraction is the position of value along the domain. A degenerate domain
// (min == max) always yields 0. The result is not clamped.
func (c *Continuous) Fraction(value float64) float64 {
	span := c.DomainMax - c.DomainMin
	if span == 0 {
		return 0
	}
	return (value - c.DomainMin) / span
}

func (c *Continuous) Classify(value float64) models.ColorToken {
	if c.DomainMax == c.DomainMin {
		return c.Start
	}
	return Interpolate(c.Start, c.End, c.Fraction(value))
}

// Levels lists the distinct tokens a classifier can produce, lightest first.
// Continuous classifiers report their two stops.
func Levels(c Classifier) []models.ColorToken {
	switch t := c.(type) {
	case *Binary:
		return []models.ColorToken{t.Absent, t.Present}
	case *Graduated:
		return t.Levels()
	case *Continuous:
		return []models.ColorToken{t.Start, t.End}
	}
	return nil
}
