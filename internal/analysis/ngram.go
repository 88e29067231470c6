package analysis

import (
	"slices"
	"sort"
	"strings"

	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
)

// NGram is a primitive sequence seen in several programs.
type NGram struct {
	N        int     `json:"n"`
	Sequence string  `json:"sequence"` // e.g. "F1R1S3"
	Tokens   []uint8 `json:"-"`
	Count    int     `json:"count"`
}

// NGramReport holds the most frequent n-grams keyed by n.
type NGramReport struct {
	TopNGrams map[int][]NGram `json:"top_ngrams"`
}

// RollingHash is a Rabin-Karp hash over a fixed window of tokens.
type RollingHash struct {
	base   uint64
	hash   uint64
	pow    uint64 // base^(n-1), for removal
	window []uint8
	n      int
}

// NewRollingHash creates a rolling hash for window size n.
func NewRollingHash(n int) *RollingHash {
	rh := &RollingHash{
		base:   31,
		n:      n,
		window: make([]uint8, 0, n),
	}
	rh.pow = 1
	for i := 0; i < n-1; i++ {
		rh.pow *= rh.base
	}
	return rh
}

// Roll adds a token, dropping the oldest one once the window is full.
func (rh *RollingHash) Roll(token uint8) {
	if len(rh.window) < rh.n {
		rh.window = append(rh.window, token)
		rh.hash = rh.hash*rh.base + uint64(token)
		return
	}
	old := rh.window[0]
	rh.hash = (rh.hash-uint64(old)*rh.pow)*rh.base + uint64(token)
	copy(rh.window, rh.window[1:])
	rh.window[rh.n-1] = token
}

// Hash returns the current hash value.
func (rh *RollingHash) Hash() uint64 { return rh.hash }

// Window returns a copy of the current window.
func (rh *RollingHash) Window() []uint8 { return slices.Clone(rh.window) }

// Ready reports whether the window is full.
func (rh *RollingHash) Ready() bool { return len(rh.window) == rh.n }

type ngramEntry struct {
	tokens []uint8
	count  int
}

// ngramCounter counts n-grams of one length across programs. Colliding
// hashes with different windows are chained.
type ngramCounter struct {
	n      int
	counts map[uint64][]*ngramEntry
}

func newNGramCounter(n int) *ngramCounter {
	return &ngramCounter{n: n, counts: make(map[uint64][]*ngramEntry)}
}

func (c *ngramCounter) add(prog robot.Program) {
	rh := NewRollingHash(c.n)
	for _, t := range tokens(prog) {
		rh.Roll(t)
		if !rh.Ready() {
			continue
		}
		h := rh.Hash()
		found := false
		for _, e := range c.counts[h] {
			if slices.Equal(e.tokens, rh.window) {
				e.count++
				found = true
				break
			}
		}
		if !found {
			c.counts[h] = append(c.counts[h], &ngramEntry{tokens: rh.Window(), count: 1})
		}
	}
}

// top returns up to k n-grams seen at least twice, most frequent first.
func (c *ngramCounter) top(k int) []NGram {
	var entries []*ngramEntry
	for _, chain := range c.counts {
		for _, e := range chain {
			if e.count >= 2 {
				entries = append(entries, e)
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return slices.Compare(entries[i].tokens, entries[j].tokens) < 0
	})
	if len(entries) > k {
		entries = entries[:k]
	}

	out := make([]NGram, len(entries))
	for i, e := range entries {
		out[i] = NGram{N: c.n, Sequence: sequence(e.tokens), Tokens: e.tokens, Count: e.count}
	}
	return out
}

func sequence(toks []uint8) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(PrimitiveFromToken(t).String())
	}
	return b.String()
}

// MineNGrams finds the top-K most frequent n-grams for each n in
// [minN, maxN] across all programs.
func MineNGrams(programs []robot.Program, minN, maxN, topK int) *NGramReport {
	report := &NGramReport{TopNGrams: make(map[int][]NGram)}
	for n := minN; n <= maxN; n++ {
		c := newNGramCounter(n)
		for _, p := range programs {
			c.add(p)
		}
		if top := c.top(topK); len(top) > 0 {
			report.TopNGrams[n] = top
		}
	}
	return report
}
