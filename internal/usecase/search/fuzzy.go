package search

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/search/result"
)

// Fuzzy matching defaults.
const (
	// DefaultThreshold tolerates one edit per ~3 query characters.
	DefaultThreshold = 0.34
	// DefaultMinFuzzyLength is the shortest query matched approximately.
	// Shorter queries require literal containment.
	DefaultMinFuzzyLength = 2
)

// Field weights. Tags are matched as a set: the best tag counts.
const (
	weightName    = 0.4
	weightCreator = 0.2
	weightTag     = 0.4
	weightMax     = 0.4
)

// Matcher scores free text against an asset's searchable fields.
// Scores are in [0,1], lower is better, 0 is exact.
type Matcher struct {
	threshold float64
	minFuzzy  int
}

// NewMatcher validates parameters and creates a Matcher.
// Zero values select the defaults.
func NewMatcher(threshold float64, minFuzzyLength int) (*Matcher, error) {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if threshold < 0 || threshold >= 1 {
		return nil, fmt.Errorf("fuzzy threshold must be in (0,1), got %v", threshold)
	}
	if minFuzzyLength <= 0 {
		minFuzzyLength = DefaultMinFuzzyLength
	}
	return &Matcher{threshold: threshold, minFuzzy: minFuzzyLength}, nil
}

// Threshold returns the maximum normalized distance accepted per field.
func (m *Matcher) Threshold() float64 { return m.threshold }

// Match scores q against a. ok is false when no field is within the threshold.
// An empty query matches everything with the neutral score.
func (m *Matcher) Match(a asset.Asset, q string) (score float64, ok bool) {
	pattern := []rune(strings.ToLower(strings.TrimSpace(q)))
	if len(pattern) == 0 {
		return result.NeutralScore, true
	}

	best := 1.0
	consider := func(text string, weight float64) {
		s, hit := m.fieldScore(pattern, text)
		if !hit {
			return
		}
		combined := 1 - (weight/weightMax)*(1-s)
		if combined < best || !ok {
			best = combined
		}
		ok = true
	}

	consider(a.DisplayName(), weightName)
	consider(a.CreatorName(), weightCreator)
	for _, tag := range a.Tags() {
		consider(tag, weightTag)
	}

	if !ok {
		return 0, false
	}
	return clamp01(best), true
}

// fieldScore returns the normalized substring distance of pattern within text.
func (m *Matcher) fieldScore(pattern []rune, text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	lower := strings.ToLower(text)
	if len(pattern) < m.minFuzzy {
		if strings.Contains(lower, string(pattern)) {
			return 0, true
		}
		return 0, false
	}

	d := substringDistance(pattern, []rune(lower))
	s := float64(d) / float64(len(pattern))
	if s > m.threshold {
		return 0, false
	}
	return s, true
}

// substringDistance is the smallest optimal-string-alignment distance between
// pattern and any substring of text. Where the match starts is irrelevant.
func substringDistance(pattern, text []rune) int {
	m, n := len(pattern), len(text)
	if n == 0 {
		return m
	}

	// rows i-2, i-1, i of the DP matrix; row 0 is all zeros (free start).
	prev2 := make([]int, n+1)
	prev := make([]int, n+1)
	cur := make([]int, n+1)

	for i := 1; i <= m; i++ {
		cur[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && pattern[i-1] == text[j-2] && pattern[i-2] == text[j-1] {
				cur[j] = min(cur[j], prev2[j-2]+1)
			}
		}
		prev2, prev, cur = prev, cur, prev2
	}

	best := prev[0]
	for j := 1; j <= n; j++ {
		best = min(best, prev[j])
	}
	return best
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
