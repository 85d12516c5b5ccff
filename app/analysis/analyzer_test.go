package analysis

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/rss-scribe/app/nlp"
)

type mockTagger struct {
	tokens []nlp.TaggedToken
}

func (m *mockTagger) Tag(text string) []nlp.TaggedToken {
	return m.tokens
}

type fieldsSegmenter struct{}

func (fieldsSegmenter) Cut(text string) []string {
	return strings.Fields(text)
}

func newTestAnalyzer(t *testing.T, seg nlp.Segmenter, tagger nlp.Tagger) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(nlp.DefaultVocabulary(), seg, tagger)
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}
	return a
}

func TestKeyPoints(t *testing.T) {
	a := newTestAnalyzer(t, nil, nil)

	text := "公司宣布新战略。天气晴朗。营收增长15%！今年3月完成交付？没有数字的句子。" +
		"第六句发布了新品。第七句启动了项目。"

	points := a.KeyPoints(text)
	expected := []string{"公司宣布新战略", "营收增长15%", "今年3月完成交付", "第六句发布了新品", "第七句启动了项目"}

	if !reflect.DeepEqual(points, expected) {
		t.Errorf("Expected %q, got %q", expected, points)
	}
}

func TestKeyPointsCapAndNearRepeats(t *testing.T) {
	a := newTestAnalyzer(t, nil, nil)

	text := strings.Repeat("公司宣布营收增长了百分之二十的消息。", 3) + "政府发布2025年计划。"

	points := a.KeyPoints(text)
	expected := []string{"公司宣布营收增长了百分之二十的消息", "政府发布2025年计划"}
	if !reflect.DeepEqual(points, expected) {
		t.Errorf("Expected %q, got %q", expected, points)
	}

	many := "苹果宣布新手机。央行宣布降息。教育部发布新规。球队完成签约。" +
		"工厂启动生产线。股价连续下降。出口大幅增长。人口达到14亿。"
	if got := a.KeyPoints(many); len(got) != maxKeyPoints {
		t.Errorf("Expected %d key points, got %d", maxKeyPoints, len(got))
	}
}

func TestEntities(t *testing.T) {
	tagger := &mockTagger{tokens: []nlp.TaggedToken{
		{Text: "张三", Pos: "nr"},
		{Text: "北京", Pos: "ns"},
		{Text: "访问", Pos: "v"},
		{Text: "京", Pos: "ns"},
		{Text: "北京", Pos: "ns"},
		{Text: "清华大学", Pos: "nt"},
	}}
	a := newTestAnalyzer(t, nil, tagger)

	entities := a.Entities("张三访问北京")
	expected := []string{"张三", "北京", "清华大学"}
	if !reflect.DeepEqual(entities, expected) {
		t.Errorf("Expected %q, got %q", expected, entities)
	}
}

func TestEntitiesWithoutTagger(t *testing.T) {
	a := newTestAnalyzer(t, nil, nil)

	if entities := a.Entities("张三访问北京"); len(entities) != 0 {
		t.Errorf("Expected no entities without tagger, got %q", entities)
	}
}

func TestSentiment(t *testing.T) {
	tests := []struct {
		name     string
		seg      nlp.Segmenter
		text     string
		expected Sentiment
	}{
		{"positive tokens", fieldsSegmenter{}, "销量 增长 带来 突破", SentimentPositive},
		{"negative tokens", fieldsSegmenter{}, "市场 风险 与 担忧", SentimentNegative},
		{"balanced", fieldsSegmenter{}, "增长 下降", SentimentNeutral},
		{"no segmenter substring count", nil, "业绩增长，成功突破", SentimentPositive},
		{"empty", nil, "", SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer(t, tt.seg, nil)
			if got := a.Sentiment(tt.text); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestCategory(t *testing.T) {
	a := newTestAnalyzer(t, nil, nil)

	tests := []struct {
		title    string
		expected string
	}{
		{"股市今日大涨", "经济"},
		{"人工智能芯片新品发布", "科技"},
		{"科技创新推动经济增长", "经济"},
		{"外交部举行会议", "政治"},
		{"世界杯比赛结果", "体育"},
		{"今日天气", "综合"},
	}

	for _, tt := range tests {
		if got := a.Category(tt.title); got != tt.expected {
			t.Errorf("Category(%q): expected %s, got %s", tt.title, tt.expected, got)
		}
	}
}

func TestUrgency(t *testing.T) {
	a := newTestAnalyzer(t, nil, nil)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	tests := []struct {
		name        string
		title       string
		publishedAt time.Time
		expected    Urgency
	}{
		{"urgent keyword", "突发：地震", now.Add(-48 * time.Hour), UrgencyHigh},
		{"recent", "普通新闻", now.Add(-30 * time.Minute), UrgencyMedium},
		{"old", "普通新闻", now.Add(-2 * time.Hour), UrgencyLow},
		{"unknown time", "普通新闻", time.Time{}, UrgencyLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Urgency(tt.title, tt.publishedAt); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestAnalyzeFallsBackToSummary(t *testing.T) {
	a := newTestAnalyzer(t, nil, nil)

	result := a.Analyze(NewsInput{
		Title:   "央行宣布降息",
		Summary: "央行宣布降息0.25%。市场反应积极。",
	})

	if len(result.KeyPoints) != 1 || result.KeyPoints[0] != "央行宣布降息0.25%" {
		t.Errorf("Expected key point from summary, got %q", result.KeyPoints)
	}
	if result.Category != "综合" {
		t.Errorf("Expected category 综合, got %s", result.Category)
	}
	if result.Entities == nil {
		t.Error("Expected non-nil entities slice")
	}
}

func TestNewAnalyzerRejectsBadPattern(t *testing.T) {
	vocab := nlp.DefaultVocabulary()
	vocab.KeyPointPatterns = []string{"(("}

	if _, err := NewAnalyzer(vocab, nil, nil); err == nil {
		t.Error("Expected error for invalid key point pattern")
	}
}

func TestTrendingTopics(t *testing.T) {
	a := newTestAnalyzer(t, fieldsSegmenter{}, nil)

	items := []NewsInput{
		{Title: "AI 芯片 发布", Summary: "芯片 市场"},
		{Title: "芯片 出口", Summary: "AI 监管 !!"},
		{Title: "市场 a", Summary: "出口"},
	}

	topics := a.TrendingTopics(items, 3)
	expected := []Topic{
		{Word: "芯片", Count: 3},
		{Word: "AI", Count: 2},
		{Word: "市场", Count: 2},
	}
	if !reflect.DeepEqual(topics, expected) {
		t.Errorf("Expected %+v, got %+v", expected, topics)
	}
}

func TestTrendingTopicsEmpty(t *testing.T) {
	a := newTestAnalyzer(t, nil, nil)

	if topics := a.TrendingTopics(nil, 10); len(topics) != 0 {
		t.Errorf("Expected no topics, got %+v", topics)
	}
}
