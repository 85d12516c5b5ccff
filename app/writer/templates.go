package writer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/rss-scribe/app/analysis"
)

const DefaultArticleType = "breaking_news"

type Section struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

// Template describes one article type: how its title is built and which
// sections its body has.
type Template struct {
	Name          string    `yaml:"name"`
	TitleFormat   string    `yaml:"title_format"`
	Sections      []Section `yaml:"sections"`
	StyleKeywords []string  `yaml:"style_keywords"`
	MinLength     int       `yaml:"min_length"`
	MaxLength     int       `yaml:"max_length"`
}

type Templates map[string]Template

func DefaultTemplates() Templates {
	return Templates{
		"breaking_news": {
			Name:        "突发新闻",
			TitleFormat: "【独家】{topic}：{key_point}",
			Sections: []Section{
				{"导语", 0.15}, {"事件详情", 0.25}, {"背景分析", 0.20},
				{"影响评估", 0.20}, {"专家观点", 0.15}, {"结语", 0.05},
			},
			StyleKeywords: []string{"突发", "最新", "紧急", "重要", "关注"},
			MinLength:     600,
			MaxLength:     1200,
		},
		"analysis": {
			Name:        "深度分析",
			TitleFormat: "深度解析：{topic}背后的{angle}",
			Sections: []Section{
				{"引言", 0.10}, {"现状分析", 0.25}, {"原因探讨", 0.25},
				{"趋势预测", 0.20}, {"建议对策", 0.15}, {"总结", 0.05},
			},
			StyleKeywords: []string{"分析", "深度", "探讨", "研究", "洞察"},
			MinLength:     800,
			MaxLength:     2000,
		},
		"feature": {
			Name:        "特稿报道",
			TitleFormat: "{topic}全景：{subtitle}",
			Sections: []Section{
				{"开篇", 0.12}, {"核心内容", 0.30}, {"多角度分析", 0.25},
				{"案例展示", 0.18}, {"未来展望", 0.10}, {"结尾", 0.05},
			},
			StyleKeywords: []string{"全景", "深入", "全面", "详细", "专题"},
			MinLength:     1000,
			MaxLength:     2500,
		},
		"commentary": {
			Name:        "时事评论",
			TitleFormat: "【评论】{topic}：{viewpoint}",
			Sections: []Section{
				{"观点提出", 0.15}, {"论据支撑", 0.35}, {"反驳质疑", 0.20},
				{"深层思考", 0.20}, {"结论", 0.10},
			},
			StyleKeywords: []string{"评论", "观点", "认为", "应该", "建议"},
			MinLength:     700,
			MaxLength:     1500,
		},
		"interview": {
			Name:        "专访报道",
			TitleFormat: "专访{person}：{topic}",
			Sections: []Section{
				{"人物介绍", 0.15}, {"核心观点", 0.30}, {"深度对话", 0.35},
				{"行业影响", 0.15}, {"总结", 0.05},
			},
			StyleKeywords: []string{"专访", "对话", "表示", "认为", "指出"},
			MinLength:     800,
			MaxLength:     1800,
		},
	}
}

// LoadTemplates overlays article types from a YAML file on the defaults.
// An empty path returns the defaults.
func LoadTemplates(path string) (Templates, error) {
	templates := DefaultTemplates()
	if path == "" {
		return templates, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}

	var override Templates
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse templates YAML: %w", err)
	}

	for name, tpl := range override {
		if tpl.TitleFormat == "" || len(tpl.Sections) == 0 {
			return nil, fmt.Errorf("template %s needs a title format and at least one section", name)
		}
		templates[name] = tpl
	}
	return templates, nil
}

// Resolve returns the template for articleType, falling back to
// breaking_news for unknown types.
func (t Templates) Resolve(articleType string) (string, Template) {
	if tpl, ok := t[articleType]; ok {
		return articleType, tpl
	}
	return DefaultArticleType, t[DefaultArticleType]
}

func (t Templates) Types() []string {
	types := make([]string, 0, len(t))
	for name := range t {
		types = append(types, name)
	}
	return types
}

func (tpl Template) SectionNames() []string {
	names := make([]string, 0, len(tpl.Sections))
	for _, s := range tpl.Sections {
		names = append(names, s.Name)
	}
	return names
}

// Title fills the title format from the analysis.
func (tpl Template) Title(a analysis.Analysis) string {
	topic := "重要事件"
	if len(a.Entities) > 0 {
		topic = a.Entities[0]
	}
	keyPoint := "最新进展"
	if len(a.KeyPoints) > 0 {
		keyPoint = a.KeyPoints[0]
	}

	title := strings.NewReplacer(
		"{topic}", topic,
		"{key_point}", keyPoint,
		"{angle}", "深层原因",
		"{subtitle}", "全面解读",
		"{viewpoint}", "值得关注",
		"{person}", "专家",
	).Replace(tpl.TitleFormat)

	if strings.Contains(title, "{") {
		return fmt.Sprintf("%s：%s", tpl.Name, topic)
	}
	return title
}

// Body renders every section as "## name" followed by its canned text.
func (tpl Template) Body(news NewsData, a analysis.Analysis) string {
	parts := make([]string, 0, len(tpl.Sections))
	for _, section := range tpl.Sections {
		parts = append(parts, fmt.Sprintf("## %s\n\n%s\n", section.Name, sectionText(section.Name, news, a)))
	}
	return strings.Join(parts, "\n")
}

var sentimentLabels = map[analysis.Sentiment]string{
	analysis.SentimentPositive: "积极",
	analysis.SentimentNegative: "消极",
	analysis.SentimentNeutral:  "中性",
}

func sectionText(section string, news NewsData, a analysis.Analysis) string {
	firstEntity := func(fallback string) string {
		if len(a.Entities) > 0 {
			return a.Entities[0]
		}
		return fallback
	}
	category := a.Category
	if category == "" {
		category = "综合"
	}

	switch section {
	case "导语":
		return fmt.Sprintf("据%s报道，%s。这一事件引发了广泛关注，本文将对此进行深入分析。", news.Source, news.Title)
	case "引言":
		return fmt.Sprintf("近日，%s的消息引起了社会各界的高度关注。为了深入了解这一事件的来龙去脉及其深层影响，我们进行了全面的分析和调研。", news.Title)
	case "开篇":
		return fmt.Sprintf("%s，这一消息如石投湖面，激起层层涟漪。让我们从多个维度来全面解读这一重要事件。", news.Title)
	case "观点提出":
		return fmt.Sprintf("针对%s这一事件，我们认为需要从以下几个方面来理解和分析。", news.Title)
	case "人物介绍":
		return fmt.Sprintf("%s是该领域的权威专家，在相关研究方面有着丰富的经验和深刻的见解。", firstEntity("专家"))
	case "事件详情", "核心内容":
		return eventDetails(news, a)
	case "核心观点":
		return "核心观点主要包括以下几个方面：\n" + numbered(a.KeyPoints, 3)
	case "背景分析":
		return fmt.Sprintf("要理解这一%s事件的深层含义，需要从多个角度进行分析。相关专家指出，这一现象的出现并非偶然，而是多种因素共同作用的结果。", category)
	case "影响评估":
		label, ok := sentimentLabels[a.Sentiment]
		if !ok {
			label = "复杂"
		}
		return fmt.Sprintf("这一事件的影响是%s的。从短期来看，它将对相关行业和市场产生直接影响；从长期来看，可能会推动相关政策和制度的调整。", label)
	case "专家观点":
		return fmt.Sprintf("%s专家认为，这一事件反映了当前发展中的重要趋势。专业人士建议，应当密切关注后续发展，并做好相应的准备和应对措施。", firstEntity("相关领域"))
	case "行业影响":
		return fmt.Sprintf("对于%s而言，这一事件将产生深远的影响，推动行业的发展和变革。", category)
	case "现状分析":
		return "从当前情况来看，这一事件呈现出复杂的特征，需要我们从多个维度进行深入分析。"
	case "原因探讨":
		return "造成这一现象的原因是多方面的，既有历史因素，也有现实条件的影响。"
	case "趋势预测":
		return "基于当前的发展态势，我们可以预测未来可能出现的几种趋势和变化。"
	case "建议对策":
		return "针对当前情况，专家建议采取以下措施来应对挑战和把握机遇。"
	case "论据支撑":
		return "从现有的数据和事实来看，这一观点得到了充分的支撑和验证。"
	case "多角度分析":
		return "从政治、经济、社会、技术等多个角度来看，这一事件都具有重要的意义和影响。"
	case "反驳质疑":
		return "虽然存在一些不同的声音和质疑，但通过深入分析，我们可以看到这些观点的合理性和局限性。"
	case "深度对话":
		return "在深入的对话中，专家分享了更多的见解和观点，为我们提供了宝贵的思考角度。"
	case "案例展示":
		return "通过具体的案例分析，我们可以更好地理解这一事件的实际影响和意义。"
	case "深层思考":
		return "深层次的思考告诉我们，这一事件背后反映的是更为复杂和深刻的社会现象。"
	case "未来展望":
		return "展望未来，我们有理由相信这一事件将为相关领域的发展带来新的机遇和挑战。"
	case "结语", "结论":
		return "综合以上分析，我们可以看出这一事件的重要意义。未来发展值得持续关注，相关各方应当积极应对，化挑战为机遇。"
	case "总结":
		return "总的来说，这一事件具有重要的现实意义和深远的历史影响，值得我们持续关注和深入研究。"
	case "结尾":
		return "让我们继续关注这一事件的后续发展，期待更多积极的变化和进步。"
	default:
		return "这一部分的内容需要进一步分析和补充。"
	}
}

func eventDetails(news NewsData, a analysis.Analysis) string {
	return truncateRunes(news.Body(), 300) + "\n\n从目前掌握的信息来看，此事件具有以下特点：\n" + numbered(a.KeyPoints, 3)
}

func numbered(items []string, limit int) string {
	var b strings.Builder
	for i, item := range items {
		if i == limit {
			break
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
