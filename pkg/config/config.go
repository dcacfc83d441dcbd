// Package config holds the comparison policy for one run: output style,
// ignore policies, recursion and placeholder flags, and the values
// derived from them. A Config is produced once by a Builder before any
// comparison starts and is read-only afterwards.
package config

import (
	"github.com/sdejongh/diffnorris/pkg/regexplist"
)

// Style selects the output format
type Style int

const (
	// StyleUnspecified means no style option was given yet
	StyleUnspecified Style = iota
	// StyleNormal is the default "<" / ">" format
	StyleNormal
	// StyleContext is the copied-context format (-c)
	StyleContext
	// StyleUnified is the unified format (-u)
	StyleUnified
	// StyleEd is an ed script (-e)
	StyleEd
	// StyleForwardEd is like ed but in forward order (-f)
	StyleForwardEd
	// StyleRCS is the RCS format (-n)
	StyleRCS
	// StyleSideBySide is the two-column format (-y)
	StyleSideBySide
	// StyleIfdef is merged output with preprocessor guards (-D)
	StyleIfdef
)

// String returns the name used in diagnostics
func (s Style) String() string {
	switch s {
	case StyleNormal:
		return "normal"
	case StyleContext:
		return "context"
	case StyleUnified:
		return "unified"
	case StyleEd:
		return "ed"
	case StyleForwardEd:
		return "forward-ed"
	case StyleRCS:
		return "rcs"
	case StyleSideBySide:
		return "side-by-side"
	case StyleIfdef:
		return "ifdef"
	default:
		return "unspecified"
	}
}

// Whitespace describes how much white space to ignore when comparing
// lines. The values are ordered: a weaker request never downgrades a
// stronger one already in effect.
type Whitespace int

const (
	// IgnoreNoWhitespace compares white space exactly
	IgnoreNoWhitespace Whitespace = 0
	// IgnoreTrailingSpace ignores white space at line end (-Z)
	IgnoreTrailingSpace Whitespace = 1
	// IgnoreTabExpansion ignores changes due to tab expansion (-E)
	IgnoreTabExpansion Whitespace = 2
	// IgnoreSpaceChange ignores changes in the amount of white space (-b)
	IgnoreSpaceChange Whitespace = 4
	// IgnoreAllSpace ignores all white space (-w)
	IgnoreAllSpace Whitespace = 8
)

// ColorMode selects when to colorize output
type ColorMode string

const (
	// ColorNever disables color
	ColorNever ColorMode = "never"
	// ColorAlways forces color
	ColorAlways ColorMode = "always"
	// ColorAuto enables color when stdout is a terminal
	ColorAuto ColorMode = "auto"
)

// GutterWidthMinimum is the smallest gap between the two columns of
// side-by-side output.
const GutterWidthMinimum = 3

// Config is the finalized comparison policy. It is immutable once
// Builder.Finalize has returned it.
type Config struct {
	Style   Style
	Context int

	Width   int
	TabSize int
	// SdiffHalfWidth and SdiffColumn2Offset are derived from Width and
	// TabSize for side-by-side output.
	SdiffHalfWidth     int
	SdiffColumn2Offset int

	ExpandTabs bool
	InitialTab bool

	// Labels replace the file names in headings; slot 0 then slot 1.
	// An empty string means "use the real name".
	Labels [2]string

	Brief           bool
	ReportIdentical bool
	Recursive       bool

	// NewFile treats absent files as empty (-N);
	// UnidirectionalNewFile does so for the first file only (-P).
	NewFile               bool
	UnidirectionalNewFile bool

	NoDereference bool
	Text          bool

	IgnoreCase       bool
	IgnoreBlankLines bool
	StripTrailingCR  bool
	IgnoreWhitespace Whitespace

	IgnoreFileNameCase bool
	Exclude            []string
	StartingFile       string

	Minimal         bool
	SpeedLargeFiles bool
	HorizonLines    int

	LeftColumn          bool
	SuppressCommonLines bool
	SuppressBlankEmpty  bool

	IfdefName string

	ColorMode ColorMode
	// UseColor is ColorMode resolved against the terminal.
	UseColor bool

	// FunctionRegexps selects the "show the enclosing function" context
	// lines; IgnoreRegexps suppresses hunks whose changed lines all match.
	FunctionRegexps *regexplist.List
	IgnoreRegexps   *regexplist.List

	// NoDiffMeansNoOutput is true when identical inputs produce no
	// output at all, which permits the same-file short circuit.
	NoDiffMeansNoOutput bool

	// FilesCanBeTreatedAsBinary is true when a size mismatch alone may
	// classify two regular files as different, without reading either.
	FilesCanBeTreatedAsBinary bool
}

// LabelOrName returns the label for side f if one was given, otherwise
// the supplied file name.
func (c *Config) LabelOrName(f int, name string) string {
	if c.Labels[f] != "" {
		return c.Labels[f]
	}
	return name
}
