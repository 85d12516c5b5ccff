package nlp

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the word and pattern tables used by the heuristic
// analyzers. Every table can be overridden from YAML.
type Vocabulary struct {
	QualityKeywords  []string   `yaml:"quality_keywords"`
	Connectors       []string   `yaml:"connectors"`
	CitationPatterns []string   `yaml:"citation_patterns"`
	NumberPattern    string     `yaml:"number_pattern"`
	PositiveWords    []string   `yaml:"positive_words"`
	NegativeWords    []string   `yaml:"negative_words"`
	Categories       []Category `yaml:"categories"`
	DefaultCategory  string     `yaml:"default_category"`
	UrgentKeywords   []string   `yaml:"urgent_keywords"`
	KeyPointPatterns []string   `yaml:"key_point_patterns"`
}

type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		QualityKeywords: []string{
			"分析", "研究", "数据", "专家", "观点", "影响", "发展", "趋势",
			"政策", "市场", "技术", "创新", "改革", "合作", "建设",
		},
		Connectors: []string{"因此", "然而", "此外", "同时", "另外", "总之", "综上"},
		CitationPatterns: []string{
			`据[^。！？\n]*?(报道|消息|了解|介绍)`,
		},
		NumberPattern: `\d+(?:\.\d+)?[%万亿千百十]?`,
		PositiveWords: []string{"好", "优秀", "成功", "增长", "提升", "改善", "突破", "创新"},
		NegativeWords: []string{"坏", "失败", "下降", "问题", "危机", "困难", "风险", "担忧"},
		Categories: []Category{
			{Name: "经济", Keywords: []string{"经济", "金融", "股市", "投资", "GDP", "通胀", "贸易"}},
			{Name: "科技", Keywords: []string{"科技", "人工智能", "互联网", "5G", "芯片", "创新"}},
			{Name: "政治", Keywords: []string{"政府", "政策", "法律", "外交", "会议", "领导"}},
			{Name: "社会", Keywords: []string{"社会", "民生", "教育", "医疗", "环境", "文化"}},
			{Name: "体育", Keywords: []string{"体育", "奥运", "世界杯", "比赛", "运动员"}},
			{Name: "娱乐", Keywords: []string{"娱乐", "明星", "电影", "音乐", "综艺"}},
		},
		DefaultCategory: "综合",
		UrgentKeywords:  []string{"突发", "紧急", "重大", "严重", "危机", "事故"},
		KeyPointPatterns: []string{
			`\d+%`, `\d+万`, `\d+亿`, `\d+年`, `\d+月`,
			`宣布`, `发布`, `启动`, `完成`, `增长`, `下降`,
		},
	}
}

// LoadVocabulary reads a YAML file and overlays its non-empty tables on the
// defaults. An empty path returns the defaults unchanged.
func LoadVocabulary(path string) (Vocabulary, error) {
	vocab := DefaultVocabulary()
	if path == "" {
		return vocab, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return vocab, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var override Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return vocab, fmt.Errorf("failed to parse vocabulary YAML: %w", err)
	}

	vocab.merge(override)
	return vocab, nil
}

func (v *Vocabulary) merge(o Vocabulary) {
	mergeList(&v.QualityKeywords, o.QualityKeywords)
	mergeList(&v.Connectors, o.Connectors)
	mergeList(&v.CitationPatterns, o.CitationPatterns)
	mergeList(&v.PositiveWords, o.PositiveWords)
	mergeList(&v.NegativeWords, o.NegativeWords)
	mergeList(&v.UrgentKeywords, o.UrgentKeywords)
	mergeList(&v.KeyPointPatterns, o.KeyPointPatterns)

	if o.NumberPattern != "" {
		v.NumberPattern = o.NumberPattern
	}
	if o.DefaultCategory != "" {
		v.DefaultCategory = o.DefaultCategory
	}
	if len(o.Categories) > 0 {
		v.Categories = o.Categories
	}
}

func mergeList(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = src
	}
}
