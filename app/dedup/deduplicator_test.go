package dedup

import (
	"reflect"
	"strings"
	"testing"

	"github.com/lysyi3m/rss-scribe/app/nlp"
)

// dictSegmenter returns canned tokens per title and whitespace-splits the rest.
type dictSegmenter map[string][]string

func (d dictSegmenter) Cut(text string) []string {
	if tokens, ok := d[text]; ok {
		return tokens
	}
	return strings.Fields(text)
}

func titlesOf(items []CandidateItem) []string {
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	return titles
}

func TestDeduplicatorEmptyInput(t *testing.T) {
	d := NewDeduplicator(DefaultThreshold, nlp.FallbackSegmenter{})

	result := d.Run(nil)
	if result == nil || len(result) != 0 {
		t.Errorf("Expected empty non-nil result, got %v", result)
	}
}

func TestDeduplicatorDropsIdenticalTitle(t *testing.T) {
	d := NewDeduplicator(0.99, nlp.FallbackSegmenter{})

	items := []CandidateItem{
		{Title: "Central bank raises rates", SourceID: "a"},
		{Title: "Central bank raises rates", SourceID: "b"},
	}

	result := d.Run(items)
	if len(result) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(result))
	}
	if result[0].SourceID != "a" {
		t.Errorf("Expected first occurrence to be kept, got source %s", result[0].SourceID)
	}
}

func TestDeduplicatorHighOverlapDropped(t *testing.T) {
	seg := dictSegmenter{
		"央行宣布下调存款准备金率":   {"央行", "宣布", "下调", "存款", "准备金率"},
		"央行今日宣布下调存款准备金率": {"央行", "今日", "宣布", "下调", "存款", "准备金率"},
		"新能源汽车销量创新高":     {"新能源", "汽车", "销量", "创", "新高"},
	}
	d := NewDeduplicator(0.7, seg)

	// 5 shared of 6 distinct tokens: 0.833 > 0.7.
	items := []CandidateItem{
		{Title: "央行宣布下调存款准备金率", SourceID: "1"},
		{Title: "央行今日宣布下调存款准备金率", SourceID: "2"},
		{Title: "新能源汽车销量创新高", SourceID: "3"},
	}

	result := d.Run(items)
	expected := []string{"央行宣布下调存款准备金率", "新能源汽车销量创新高"}
	if !reflect.DeepEqual(titlesOf(result), expected) {
		t.Errorf("Expected %q, got %q", expected, titlesOf(result))
	}
}

func TestDeduplicatorRephrasedHeadlinesKept(t *testing.T) {
	items := []CandidateItem{
		{Title: "人工智能技术取得重大突破", SourceID: "1"},
		{Title: "人工智能技术获得突破性进展", SourceID: "2"},
	}
	expected := []string{"人工智能技术取得重大突破", "人工智能技术获得突破性进展"}

	t.Run("rune segmenter", func(t *testing.T) {
		// 9 shared of 16 distinct runes: 0.5625.
		d := NewDeduplicator(0.7, nlp.FallbackSegmenter{})
		if result := d.Run(items); !reflect.DeepEqual(titlesOf(result), expected) {
			t.Errorf("Expected %q, got %q", expected, titlesOf(result))
		}
	})

	t.Run("gse segmenter", func(t *testing.T) {
		seg, err := nlp.NewGseSegmenter("")
		if err != nil {
			t.Fatalf("Failed to load segmenter: %v", err)
		}

		a := nlp.NewTokenSet(seg, items[0].Title)
		b := nlp.NewTokenSet(seg, items[1].Title)
		if similarity := nlp.Jaccard(a, b); similarity > 0.7 {
			t.Errorf("Expected similarity at most 0.7, got %v", similarity)
		}

		d := NewDeduplicator(0.7, seg)
		if result := d.Run(items); !reflect.DeepEqual(titlesOf(result), expected) {
			t.Errorf("Expected %q, got %q", expected, titlesOf(result))
		}
	})
}

func TestDeduplicatorUnrelatedTitlesKept(t *testing.T) {
	d := NewDeduplicator(0.7, nlp.FallbackSegmenter{})

	items := []CandidateItem{
		{Title: "新能源汽车销量创新高"},
		{Title: "人工智能技术取得重大突破"},
	}

	if result := d.Run(items); len(result) != 2 {
		t.Errorf("Expected both titles kept, got %q", titlesOf(result))
	}
}

func TestDeduplicatorThresholdIsStrict(t *testing.T) {
	seg := dictSegmenter{}
	// {a b c} vs {a b d}: 2/4 = 0.5
	titles := []string{"a b c", "a b d"}

	if kept := NewDeduplicator(0.5, seg).Indices(titles); len(kept) != 2 {
		t.Errorf("Expected similarity equal to threshold to be kept, got %v", kept)
	}
	if kept := NewDeduplicator(0.49, seg).Indices(titles); !reflect.DeepEqual(kept, []int{0}) {
		t.Errorf("Expected second title dropped below threshold, got %v", kept)
	}
}

func TestDeduplicatorEmptyTokenTitlesNeverDuplicates(t *testing.T) {
	d := NewDeduplicator(0.1, nlp.FallbackSegmenter{})

	titles := []string{"!!!", "???", "..."}
	if kept := d.Indices(titles); len(kept) != 3 {
		t.Errorf("Expected punctuation-only titles to be kept, got %v", kept)
	}
}

func TestDeduplicatorNilSegmenterFallsBack(t *testing.T) {
	d := &Deduplicator{Threshold: 0.7}

	items := []CandidateItem{{Title: "同一个标题"}, {Title: "同一个标题"}, {Title: "Other news"}}
	if result := d.Run(items); len(result) != 2 {
		t.Errorf("Expected 2 items with fallback segmenter, got %q", titlesOf(result))
	}
}

func TestDeduplicatorInvalidThresholdUsesDefault(t *testing.T) {
	d := NewDeduplicator(0, nil)
	if d.Threshold != DefaultThreshold {
		t.Errorf("Expected threshold %v, got %v", DefaultThreshold, d.Threshold)
	}
}

func TestDeduplicatorIndicesAgainstExisting(t *testing.T) {
	d := NewDeduplicator(0.7, dictSegmenter{})

	existing := []string{"markets rally on jobs report"}
	titles := []string{"markets rally on jobs report", "storm hits coast"}

	kept := d.IndicesAgainst(titles, existing)
	if !reflect.DeepEqual(kept, []int{1}) {
		t.Errorf("Expected only index 1 kept, got %v", kept)
	}
}

func TestDeduplicatorProperties(t *testing.T) {
	seg := dictSegmenter{}
	items := []CandidateItem{
		{Title: "a b c d"},
		{Title: "a b c e"},
		{Title: "x y z"},
		{Title: "a b c d"},
		{Title: "x y z w"},
		{Title: "p q"},
		{Title: "p q r"},
		{Title: "m"},
	}

	for _, threshold := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		d := NewDeduplicator(threshold, seg)
		result := d.Run(items)

		// Subsequence preserving order.
		j := 0
		for _, item := range items {
			if j < len(result) && item == result[j] {
				j++
			}
		}
		if j != len(result) {
			t.Errorf("τ=%v: result is not an ordered subsequence: %q", threshold, titlesOf(result))
		}

		// No surviving pair above the threshold.
		for a := 0; a < len(result); a++ {
			for b := a + 1; b < len(result); b++ {
				sim := nlp.Jaccard(nlp.NewTokenSet(seg, result[a].Title), nlp.NewTokenSet(seg, result[b].Title))
				if sim > threshold {
					t.Errorf("τ=%v: kept %q and %q with similarity %v", threshold, result[a].Title, result[b].Title, sim)
				}
			}
		}

		// Idempotence.
		again := d.Run(result)
		if !reflect.DeepEqual(again, result) {
			t.Errorf("τ=%v: expected idempotent result, got %q then %q", threshold, titlesOf(result), titlesOf(again))
		}
	}
}

func TestDeduplicatorWithGseSegmenter(t *testing.T) {
	seg, err := nlp.NewGseSegmenter("")
	if err != nil {
		t.Fatalf("Failed to load segmenter: %v", err)
	}
	d := NewDeduplicator(DefaultThreshold, seg)

	items := []CandidateItem{
		{Title: "人工智能技术取得重大突破"},
		{Title: "新能源汽车销量创新高"},
		{Title: "人工智能技术取得重大突破"},
	}

	expected := []string{"人工智能技术取得重大突破", "新能源汽车销量创新高"}
	if result := d.Run(items); !reflect.DeepEqual(titlesOf(result), expected) {
		t.Errorf("Expected %q, got %q", expected, titlesOf(result))
	}
}
