package quality

import (
	"fmt"
	"math"

	"github.com/lysyi3m/rss-scribe/app/nlp"
)

const (
	MetricLength         = "length"
	MetricStructure      = "structure"
	MetricReadability    = "readability"
	MetricContentQuality = "content_quality"
	MetricOriginality    = "originality"
)

// Metrics lists metric names in declaration order. Suggestions follow it.
var Metrics = []string{
	MetricLength,
	MetricStructure,
	MetricReadability,
	MetricContentQuality,
	MetricOriginality,
}

type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
)

var gradeBands = []struct {
	min   float64
	grade Grade
}{
	{0.9, GradeAPlus},
	{0.8, GradeA},
	{0.7, GradeBPlus},
	{0.6, GradeB},
	{0.5, GradeCPlus},
	{0.4, GradeC},
}

func GradeFor(total float64) Grade {
	for _, band := range gradeBands {
		if total >= band.min {
			return band.grade
		}
	}
	return GradeD
}

type Result struct {
	TotalScore  float64            `json:"total_score"`
	Scores      map[string]float64 `json:"scores"`
	Grade       Grade              `json:"grade"`
	Suggestions []string           `json:"suggestions"`
}

// Source is the material a text was derived from, used for originality.
type Source struct {
	Content string
	Summary string
}

type Weights struct {
	Length         float64 `yaml:"length"`
	Structure      float64 `yaml:"structure"`
	Readability    float64 `yaml:"readability"`
	ContentQuality float64 `yaml:"content_quality"`
	Originality    float64 `yaml:"originality"`
}

func DefaultWeights() Weights {
	return Weights{
		Length:         0.2,
		Structure:      0.25,
		Readability:    0.2,
		ContentQuality: 0.25,
		Originality:    0.1,
	}
}

func (w Weights) Of(metric string) float64 {
	switch metric {
	case MetricLength:
		return w.Length
	case MetricStructure:
		return w.Structure
	case MetricReadability:
		return w.Readability
	case MetricContentQuality:
		return w.ContentQuality
	case MetricOriginality:
		return w.Originality
	}
	return 0
}

func (w Weights) Sum() float64 {
	sum := 0.0
	for _, m := range Metrics {
		sum += w.Of(m)
	}
	return sum
}

func (w Weights) Validate() error {
	for _, m := range Metrics {
		if w.Of(m) < 0 {
			return fmt.Errorf("weight for %s must not be negative", m)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

type Config struct {
	Weights     Weights
	LengthMin   int
	LengthMax   int
	Vocabulary  nlp.Vocabulary
	Suggestions map[string]string
}

func DefaultSuggestions() map[string]string {
	return map[string]string{
		MetricLength:         "建议增加文章长度，提供更多详细信息和分析",
		MetricStructure:      "建议改进文章结构，添加小标题和段落分隔",
		MetricReadability:    "建议优化句子和段落长度，提高可读性",
		MetricContentQuality: "建议添加更多数据、专家观点和事实支撑",
		MetricOriginality:    "建议增加原创观点和独特分析角度",
	}
}

func DefaultConfig() Config {
	return Config{
		Weights:     DefaultWeights(),
		LengthMin:   500,
		LengthMax:   3000,
		Vocabulary:  nlp.DefaultVocabulary(),
		Suggestions: DefaultSuggestions(),
	}
}
