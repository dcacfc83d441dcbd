package diffcore

import "github.com/sdejongh/diffnorris/pkg/output"

// shortestEdit computes a minimal edit script between two sequences of
// equivalence-class identifiers and returns it as hunks with half-open
// line ranges. The search is the classic greedy shortest-path over
// edit-graph diagonals, keeping the frontier of each round so the path
// can be walked back afterwards.
func shortestEdit(a, b []int) []output.Hunk {
	// The common prefix and suffix never change; shrink the problem
	// before the quadratic-in-distance search.
	pre := 0
	for pre < len(a) && pre < len(b) && a[pre] == b[pre] {
		pre++
	}
	a, b = a[pre:], b[pre:]
	suf := 0
	for suf < len(a) && suf < len(b) && a[len(a)-1-suf] == b[len(b)-1-suf] {
		suf++
	}
	a, b = a[:len(a)-suf], b[:len(b)-suf]

	changed0, changed1 := changedLines(a, b)

	var hunks []output.Hunk
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		if i < len(a) && j < len(b) && !changed0[i] && !changed1[j] {
			i++
			j++
			continue
		}
		h := output.Hunk{Start0: i, Start1: j}
		for i < len(a) && changed0[i] {
			i++
		}
		for j < len(b) && changed1[j] {
			j++
		}
		h.End0, h.End1 = i, j
		h.Start0 += pre
		h.End0 += pre
		h.Start1 += pre
		h.End1 += pre
		hunks = append(hunks, h)
	}
	return hunks
}

// frontier holds the furthest-reaching x for every diagonal reachable
// after one round of the search.
type frontier struct {
	d    int
	vals []int
}

func (f frontier) get(k int) int { return f.vals[k+f.d] }

// changedLines marks which positions of a and b take part in the
// minimal edit script.
func changedLines(a, b []int) (changed0, changed1 []bool) {
	n, m := len(a), len(b)
	changed0 = make([]bool, n)
	changed1 = make([]bool, m)
	if n == 0 || m == 0 {
		for i := range changed0 {
			changed0[i] = true
		}
		for j := range changed1 {
			changed1[j] = true
		}
		return changed0, changed1
	}

	max := n + m
	v := make([]int, 2*max+1)
	var trace []frontier
	depth := -1

search:
	for d := 0; d <= max; d++ {
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[k-1+max] < v[k+1+max]) {
				x = v[k+1+max]
			} else {
				x = v[k-1+max] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[k+max] = x
			if x >= n && y >= m {
				depth = d
				break search
			}
		}
		f := frontier{d: d, vals: make([]int, 2*d+1)}
		for k := -d; k <= d; k++ {
			f.vals[k+d] = v[k+max]
		}
		trace = append(trace, f)
	}

	x, y := n, m
	for d := depth; d > 0; d-- {
		prev := trace[d-1]
		k := x - y
		var prevK int
		if k == -d || (k != d && prev.get(k-1) < prev.get(k+1)) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := prev.get(prevK)
		prevY := prevX - prevK
		for x > prevX && y > prevY {
			x--
			y--
		}
		if prevK == k+1 {
			changed1[prevY] = true
		} else {
			changed0[prevX] = true
		}
		x, y = prevX, prevY
	}
	return changed0, changed1
}
