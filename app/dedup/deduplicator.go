package dedup

import (
	"github.com/lysyi3m/rss-scribe/app/nlp"
)

const DefaultThreshold = 0.7

type CandidateItem struct {
	Title    string `json:"title"`
	SourceID string `json:"source_id"`
}

// Deduplicator drops titles whose token-set Jaccard similarity to an earlier
// kept title exceeds Threshold. Comparison is quadratic in the batch size,
// so callers keep batches small.
type Deduplicator struct {
	Threshold float64
	Segmenter nlp.Segmenter
}

func NewDeduplicator(threshold float64, seg nlp.Segmenter) *Deduplicator {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Deduplicator{Threshold: threshold, Segmenter: seg}
}

func (d *Deduplicator) Run(items []CandidateItem) []CandidateItem {
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}

	kept := d.Indices(titles)
	result := make([]CandidateItem, 0, len(kept))
	for _, i := range kept {
		result = append(result, items[i])
	}
	return result
}

// Indices returns the positions of the titles that survive deduplication,
// in ascending order.
func (d *Deduplicator) Indices(titles []string) []int {
	return d.indicesAgainst(titles, nil)
}

// IndicesAgainst works like Indices but treats existing as already kept,
// so a title close to any of them is dropped as well.
func (d *Deduplicator) IndicesAgainst(titles, existing []string) []int {
	seg := d.segmenter()
	seeded := make([]nlp.TokenSet, 0, len(existing))
	for _, title := range existing {
		seeded = append(seeded, nlp.NewTokenSet(seg, title))
	}
	return d.indicesAgainst(titles, seeded)
}

func (d *Deduplicator) indicesAgainst(titles []string, kept []nlp.TokenSet) []int {
	seg := d.segmenter()
	indices := make([]int, 0, len(titles))

	for i, title := range titles {
		tokens := nlp.NewTokenSet(seg, title)
		if d.isDuplicate(tokens, kept) {
			continue
		}
		kept = append(kept, tokens)
		indices = append(indices, i)
	}
	return indices
}

func (d *Deduplicator) isDuplicate(tokens nlp.TokenSet, kept []nlp.TokenSet) bool {
	for _, other := range kept {
		if nlp.Jaccard(tokens, other) > d.threshold() {
			return true
		}
	}
	return false
}

func (d *Deduplicator) threshold() float64 {
	if d.Threshold <= 0 || d.Threshold > 1 {
		return DefaultThreshold
	}
	return d.Threshold
}

func (d *Deduplicator) segmenter() nlp.Segmenter {
	if d.Segmenter == nil {
		return nlp.FallbackSegmenter{}
	}
	return d.Segmenter
}
