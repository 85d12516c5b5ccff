package writer

import (
	"fmt"
	"strings"

	"github.com/lysyi3m/rss-scribe/app/analysis"
)

const (
	titleMaxTokens     = 100
	promptContentRunes = 1000
)

func titlePrompt(news NewsData, a analysis.Analysis, articleType string) string {
	return fmt.Sprintf(`基于以下新闻信息，生成一个吸引人的%s类型文章标题：

原标题：%s
关键点：%s
类别：%s
情感：%s

要求：
1. 标题要有新闻价值和吸引力
2. 体现独家或首发特色
3. 长度控制在15-25字
4. 避免夸大或误导
5. 使用中文

请只返回标题，不要其他内容。`,
		articleType, news.Title, strings.Join(firstN(a.KeyPoints, 3), ", "), a.Category, a.Sentiment)
}

func contentPrompt(news NewsData, a analysis.Analysis, articleType, style string, tpl Template) string {
	return fmt.Sprintf(`基于以下新闻信息，撰写一篇%s风格的%s类型文章：

原新闻：
标题：%s
内容：%s
来源：%s

分析结果：
关键点：%s
实体：%s
类别：%s

文章结构：%s

要求：
1. 文章长度%d-%d字
2. 语言流畅，逻辑清晰
3. 体现独家分析和深度思考
4. 避免抄袭原文，要有原创观点
5. 包含数据支撑和专业分析
6. 结构完整，每个部分都要充实，每个部分使用"## 标题"作为小标题

请按照指定结构撰写完整文章。`,
		style, articleType, news.Title, truncateRunes(news.Body(), promptContentRunes), news.Source,
		strings.Join(a.KeyPoints, ", "), strings.Join(a.Entities, ", "), a.Category,
		strings.Join(tpl.SectionNames(), " -> "), tpl.MinLength, tpl.MaxLength)
}

func improvementPrompt(content string, suggestions []string) string {
	lines := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		lines = append(lines, "- "+s)
	}

	return fmt.Sprintf(`请根据以下建议改进文章内容：

原文内容：
%s...

改进建议：
%s

要求：
1. 保持原文的核心信息和观点
2. 根据建议进行针对性改进
3. 确保文章结构清晰、逻辑连贯
4. 使用中文撰写

请返回改进后的完整文章内容。`, truncateRunes(content, promptContentRunes), strings.Join(lines, "\n"))
}

// cleanTitle keeps the first non-empty line of a model reply without
// heading marks or wrapping quotes.
func cleanTitle(reply string) string {
	for _, line := range strings.Split(reply, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "#\"'“”《》 ")
		if line != "" {
			return line
		}
	}
	return ""
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
