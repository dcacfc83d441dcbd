package output

import (
	"github.com/fatih/color"
)

// palette holds the three roles diff output colorizes: hunk headers,
// deleted text, and added text.
type palette struct {
	headerC *color.Color
	delC    *color.Color
	addC    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		headerC: color.New(color.FgCyan),
		delC:    color.New(color.FgRed),
		addC:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.headerC, p.delC, p.addC} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) header(s string) string { return p.headerC.Sprint(s) }
func (p palette) del(s string) string    { return p.delC.Sprint(s) }
func (p palette) add(s string) string    { return p.addC.Sprint(s) }
