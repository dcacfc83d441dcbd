package config

import (
	"fmt"

	"github.com/sdejongh/diffnorris/pkg/regexplist"
)

// ConflictError reports two options that request incompatible values
// for the same setting.
type ConflictError struct {
	// Option is the option name for the diagnostic, e.g. "--width"
	Option string
	// Value is the rejected value, formatted for display
	Value string
}

func (e *ConflictError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("conflicting %s options", e.Option)
	}
	return fmt.Sprintf("conflicting %s option value '%s'", e.Option, e.Value)
}

// Builder assembles a Config under a single-assignment discipline: the
// first request for a value wins, a repeated identical request is a
// no-op, and a different value for an already-set field is a
// ConflictError. Finalize derives the secondary values and returns the
// immutable Config.
type Builder struct {
	cfg Config

	styleSet   bool
	widthSet   bool
	tabSizeSet bool
	labelCount int

	startingFileSet bool
	ifdefNameSet    bool

	// context is what -C/-U requested; outputContext is the legacy
	// bare-digit count; explicitContext marks a context given with an
	// explicit number.
	context         int
	outputContext   int
	explicitContext bool

	// ShowCFunction records -p so the default style can become context.
	ShowCFunction bool
}

// NewBuilder creates a Builder with everything unset
func NewBuilder() *Builder {
	b := &Builder{
		outputContext: -1,
	}
	b.cfg.ColorMode = ColorNever
	b.cfg.FunctionRegexps = regexplist.New()
	b.cfg.IgnoreRegexps = regexplist.New()
	return b
}

// SetStyle sets the output style, diagnosing conflicts. Setting the
// same style twice is allowed.
func (b *Builder) SetStyle(s Style) error {
	if b.styleSet && b.cfg.Style != s {
		return &ConflictError{Option: "output style"}
	}
	b.cfg.Style = s
	b.styleSet = true
	return nil
}

// SetWidth sets the output width (-W), diagnosing conflicts
func (b *Builder) SetWidth(n int) error {
	if b.widthSet && b.cfg.Width != n {
		return &ConflictError{Option: "width", Value: fmt.Sprint(n)}
	}
	b.cfg.Width = n
	b.widthSet = true
	return nil
}

// SetTabSize sets the tab stop interval, diagnosing conflicts
func (b *Builder) SetTabSize(n int) error {
	if b.tabSizeSet && b.cfg.TabSize != n {
		return &ConflictError{Option: "tabsize", Value: fmt.Sprint(n)}
	}
	b.cfg.TabSize = n
	b.tabSizeSet = true
	return nil
}

// AddLabel fills the next of the two label slots, left to right
func (b *Builder) AddLabel(label string) error {
	if b.labelCount >= len(b.cfg.Labels) {
		return fmt.Errorf("too many file label options")
	}
	b.cfg.Labels[b.labelCount] = label
	b.labelCount++
	return nil
}

// SetStartingFile sets -S, diagnosing conflicts
func (b *Builder) SetStartingFile(name string) error {
	if b.startingFileSet && b.cfg.StartingFile != name {
		return &ConflictError{Option: "-S", Value: name}
	}
	b.cfg.StartingFile = name
	b.startingFileSet = true
	return nil
}

// SetIfdefName sets the -D guard symbol and the ifdef style
func (b *Builder) SetIfdefName(name string) error {
	if err := b.SetStyle(StyleIfdef); err != nil {
		return err
	}
	if b.ifdefNameSet && b.cfg.IfdefName != name {
		return &ConflictError{Option: "-D", Value: name}
	}
	b.cfg.IfdefName = name
	b.ifdefNameSet = true
	return nil
}

// RequestContext raises the context line count. Explicit requests (an
// option with a number attached) take precedence during finalization
// over the legacy bare-digit count.
func (b *Builder) RequestContext(n int, explicit bool) {
	if b.context < n {
		b.context = n
	}
	if explicit {
		b.explicitContext = true
	}
}

// SetOutputContext records the legacy bare-digit context count
func (b *Builder) SetOutputContext(n int) {
	b.outputContext = n
}

// RequestWhitespace raises the whitespace-ignore mode. A weaker mode
// never downgrades a stronger one; the -E/-Z refinements only apply
// below IgnoreSpaceChange, matching the option semantics.
func (b *Builder) RequestWhitespace(w Whitespace) {
	switch w {
	case IgnoreAllSpace:
		b.cfg.IgnoreWhitespace = IgnoreAllSpace
	case IgnoreSpaceChange:
		if b.cfg.IgnoreWhitespace < IgnoreSpaceChange {
			b.cfg.IgnoreWhitespace = IgnoreSpaceChange
		}
	default:
		if b.cfg.IgnoreWhitespace < IgnoreSpaceChange {
			b.cfg.IgnoreWhitespace |= w
		}
	}
}

// SetColorMode selects when output is colorized
func (b *Builder) SetColorMode(m ColorMode) error {
	switch m {
	case ColorNever, ColorAlways, ColorAuto:
		b.cfg.ColorMode = m
		return nil
	default:
		return fmt.Errorf("invalid color '%s'", m)
	}
}

// Mutable access for the plain boolean and list policies; these have
// no conflict semantics because repeating them is harmless.

// Set applies fn to the partially built config
func (b *Builder) Set(fn func(*Config)) {
	fn(&b.cfg)
}

// StyleIsSet reports whether an output style was chosen
func (b *Builder) StyleIsSet() bool { return b.styleSet }

// DefaultTabSize supplies a tab size only if none was set
func (b *Builder) DefaultTabSize(n int) {
	if !b.tabSizeSet && n > 0 {
		b.cfg.TabSize = n
		b.tabSizeSet = true
	}
}

// DefaultWidth supplies a width only if none was set
func (b *Builder) DefaultWidth(n int) {
	if !b.widthSet && n > 0 {
		b.cfg.Width = n
		b.widthSet = true
	}
}

// DefaultStyle supplies a style only if none was set
func (b *Builder) DefaultStyle(s Style) {
	if !b.styleSet && s != StyleUnspecified {
		b.cfg.Style = s
		b.styleSet = true
	}
}

// Finalize reconciles the accumulated requests and derives the
// secondary values. The returned Config must not be modified.
func (b *Builder) Finalize() (*Config, error) {
	cfg := b.cfg

	if cfg.Style == StyleUnspecified {
		if b.ShowCFunction {
			cfg.Style = StyleContext
			if b.outputContext < 0 {
				b.context = 3
			}
		} else {
			cfg.Style = StyleNormal
		}
	}

	// Reconcile -C/-U context with the legacy bare-digit count: the
	// digits win unless the context was given explicitly and is larger.
	cfg.Context = b.context
	if b.outputContext >= 0 &&
		(cfg.Style == StyleContext || cfg.Style == StyleUnified) &&
		(cfg.Context < b.outputContext ||
			(b.outputContext < cfg.Context && !b.explicitContext)) {
		cfg.Context = b.outputContext
	}

	if cfg.TabSize == 0 {
		cfg.TabSize = 8
	}
	if cfg.Width == 0 {
		cfg.Width = 130
	}

	// Maximize the half-line width and then the gutter, keeping two half
	// lines plus a gutter within the line and, when tabs are not
	// expanded, keeping a half line plus the gutter on a tab stop so
	// tabs in the right column line up.
	{
		t := cfg.TabSize
		if cfg.ExpandTabs {
			t = 1
		}
		w := cfg.Width
		tPlusG := t + GutterWidthMinimum
		unalignedOff := w/2 + tPlusG/2 + (w & tPlusG & 1)
		off := unalignedOff - unalignedOff%t
		if off <= GutterWidthMinimum || w <= off {
			cfg.SdiffHalfWidth = 0
		} else {
			cfg.SdiffHalfWidth = min(off-GutterWidthMinimum, w-off)
		}
		if cfg.SdiffHalfWidth != 0 {
			cfg.SdiffColumn2Offset = off
		} else {
			cfg.SdiffColumn2Offset = w
		}
	}

	if cfg.HorizonLines < cfg.Context {
		cfg.HorizonLines = cfg.Context
	}

	if err := cfg.FunctionRegexps.Finalize(); err != nil {
		return nil, err
	}
	if err := cfg.IgnoreRegexps.Finalize(); err != nil {
		return nil, err
	}

	// Identical inputs produce no output for every style except
	// side-by-side, where common lines are shown unless suppressed. The
	// -D form always emits the unchanged group, so it never qualifies.
	if cfg.Style == StyleIfdef {
		cfg.NoDiffMeansNoOutput = false
	} else {
		cfg.NoDiffMeansNoOutput = cfg.Style != StyleSideBySide || cfg.SuppressCommonLines
	}

	// Brief mode may trust sizes alone only when nothing rewrites the
	// content before comparison.
	cfg.FilesCanBeTreatedAsBinary = cfg.Brief &&
		!(cfg.IgnoreBlankLines || cfg.IgnoreCase || cfg.StripTrailingCR ||
			cfg.IgnoreRegexps.HasPatterns() || cfg.IgnoreWhitespace != IgnoreNoWhitespace)

	return &cfg, nil
}
