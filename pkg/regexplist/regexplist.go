// Package regexplist builds a single compiled regular expression that
// matches whenever any of the registered patterns matches. Patterns are
// validated as they arrive, but the combined expression is compiled only
// once, when registration is complete, so adding N patterns stays linear
// instead of quadratic.
package regexplist

import (
	"fmt"
	"regexp"
)

// PatternError reports a pattern that failed to compile
type PatternError struct {
	// Pattern is the offending pattern as the user supplied it
	Pattern string
	// Err is the regexp engine's diagnostic
	Err error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// List accumulates patterns and represents their disjunction
type List struct {
	// joined holds the patterns separated by '|'
	joined []byte
	// multiple is true once a second pattern has been added
	multiple bool
	// re is the compiled form; until Finalize it only covers the most
	// recently added pattern
	re *regexp.Regexp
}

// New creates an empty pattern list
func New() *List {
	return &List{}
}

// Add validates pattern and appends it to the disjunction.
// An invalid pattern is reported immediately as a PatternError so the
// diagnostic points at the pattern the user actually typed.
func (l *List) Add(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return &PatternError{Pattern: pattern, Err: err}
	}

	l.multiple = len(l.joined) > 0
	if l.multiple {
		l.joined = append(l.joined, '|')
	}
	l.joined = append(l.joined, pattern...)
	l.re = re

	return nil
}

// Finalize compiles the accumulated disjunction. With a single pattern
// the compilation done by Add is reused as-is; with none this is a
// no-op. Call it once, after all patterns have been added.
func (l *List) Finalize() error {
	if !l.multiple {
		return nil
	}
	re, err := regexp.Compile(string(l.joined))
	if err != nil {
		return &PatternError{Pattern: string(l.joined), Err: err}
	}
	l.re = re
	return nil
}

// HasPatterns reports whether at least one pattern was added
func (l *List) HasPatterns() bool {
	return l.re != nil
}

// Match reports whether line matches any registered pattern.
// An empty list matches nothing.
func (l *List) Match(line []byte) bool {
	if l.re == nil {
		return false
	}
	return l.re.Match(line)
}
