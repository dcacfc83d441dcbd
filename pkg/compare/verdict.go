package compare

// Verdict is the outcome of comparing one pair of entities
type Verdict int

const (
	// Success means the pair is identical (or there was nothing to compare)
	Success Verdict = iota
	// Different means the pair differs
	Different
	// Trouble means an operational error prevented a comparison
	Trouble
)

// Worse returns the more severe of the two verdicts; Trouble dominates
// Different dominates Success.
func (v Verdict) Worse(o Verdict) Verdict {
	if o > v {
		return o
	}
	return v
}

// ExitCode maps the verdict to the process exit classification:
// 0 identical, 1 different, 2 trouble.
func (v Verdict) ExitCode() int {
	return int(v)
}

// String returns the verdict name for logs
func (v Verdict) String() string {
	switch v {
	case Success:
		return "identical"
	case Different:
		return "different"
	default:
		return "trouble"
	}
}
