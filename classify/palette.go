package classify

import (
	"sync"

	"github.com/pivolan/spotviz/domain/models"
)

// Entry binds a category name to a color.
type Entry struct {
	Name  string
	Color models.ColorToken
}

// Palette is a categorical color map with a fallback for unknown names.
type Palette struct {
	order    []string
	colors   map[string]models.ColorToken
	fallback models.ColorToken
}

func NewPalette(fallback models.ColorToken, entries ...Entry) *Palette {
	p := &Palette{colors: make(map[string]models.ColorToken, len(entries)), fallback: fallback}
	for _, e := range entries {
		if _, dup := p.colors[e.Name]; !dup {
			p.order = append(p.order, e.Name)
		}
		p.colors[e.Name] = e.Color
	}
	return p
}

func (p *Palette) Color(name string) models.ColorToken {
	if c, ok := p.colors[name]; ok {
		return c
	}
	return p.fallback
}

// Names returns the categories in declaration order.
func (p *Palette) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Ordinal hands out scheme colors to names in first-seen order, cycling when
// the scheme runs out. Safe for concurrent use.
type Ordinal struct {
	mu       sync.Mutex
	scheme   []models.ColorToken
	assigned map[string]models.ColorToken
}

func NewOrdinal(scheme []models.ColorToken, domain ...string) *Ordinal {
	o := &Ordinal{scheme: scheme, assigned: make(map[string]models.ColorToken)}
	for _, name := range domain {
		o.Color(name)
	}
	return o
}

func (o *Ordinal) Color(name string) models.ColorToken {
	o.mu.Lock()
	defer o.mu.Unlock()
	if c, ok := o.assigned[name]; ok {
		return c
	}
	if len(o.scheme) == 0 {
		return FallbackColor
	}
	c := o.scheme[len(o.assigned)%len(o.scheme)]
	o.assigned[name] = c
	return c
}
