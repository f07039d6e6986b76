// Package formatters renders analysis results and insight reports as
// json, text or markdown.
package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"fitcheck/internal/errors"
	"fitcheck/internal/insights"
	"fitcheck/internal/score"
	"fitcheck/internal/types"
)

// Formatter renders one data type in one output format.
type Formatter interface {
	Format(data any) (string, error)
}

// Registry maps format × data type to a formatter. Unknown data types
// fall back to the "any" JSON formatter.
type Registry struct {
	formatters map[string]map[string]Formatter
}

// NewRegistry creates a registry with the standard formatters installed.
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[string]map[string]Formatter)}

	r.Register("json", "any", &JSONFormatter{})
	r.Register("text", "analysis", &AnalysisTextFormatter{})
	r.Register("markdown", "analysis", &AnalysisMarkdownFormatter{})
	r.Register("text", "report", &ReportTextFormatter{})
	r.Register("markdown", "report", &ReportMarkdownFormatter{})

	return r
}

// Register installs a formatter for a format and data type.
func (r *Registry) Register(format, dataType string, f Formatter) {
	if r.formatters[format] == nil {
		r.formatters[format] = make(map[string]Formatter)
	}
	r.formatters[format][dataType] = f
}

// Format renders data in the requested format.
func (r *Registry) Format(format string, data any) (string, error) {
	dataType := getDataType(data)

	if byType, ok := r.formatters[format]; ok {
		if f, ok := byType[dataType]; ok {
			return f.Format(data)
		}
		if f, ok := byType["any"]; ok {
			return f.Format(data)
		}
	}

	// json handles everything
	if format == "json" {
		return (&JSONFormatter{}).Format(data)
	}

	return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("no formatter for format %q and type %q", format, dataType), nil)
}

func getDataType(data any) string {
	switch data.(type) {
	case *types.AnalysisResult, types.AnalysisResult:
		return "analysis"
	case *insights.Report, insights.Report:
		return "report"
	default:
		return "any"
	}
}

// SupportedFormats lists the accepted --format values.
var SupportedFormats = []string{"json", "text", "markdown"}

// ValidateOutputFormat checks a --format value.
func ValidateOutputFormat(format string) error {
	for _, f := range SupportedFormats {
		if format == f {
			return nil
		}
	}
	return errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("unsupported output format: %s (supported: %s)", format, strings.Join(SupportedFormats, ", ")), nil)
}

// GlobalRegistry is the default registry used by the CLI and server.
var GlobalRegistry = NewRegistry()

// JSONFormatter renders any value as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(data any) (string, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", errors.NewInternalError(errors.ErrCodeInvalidFormat, "failed to marshal JSON", err)
	}
	return string(out), nil
}

func asAnalysis(data any) (*types.AnalysisResult, error) {
	switch v := data.(type) {
	case *types.AnalysisResult:
		return v, nil
	case types.AnalysisResult:
		return &v, nil
	default:
		return nil, errors.NewInternalError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("expected analysis result, got %T", data), nil)
	}
}

func asReport(data any) (*insights.Report, error) {
	switch v := data.(type) {
	case *insights.Report:
		return v, nil
	case insights.Report:
		return &v, nil
	default:
		return nil, errors.NewInternalError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("expected insight report, got %T", data), nil)
	}
}

// AnalysisTextFormatter renders an analysis result for terminals.
type AnalysisTextFormatter struct{}

func (f *AnalysisTextFormatter) Format(data any) (string, error) {
	result, err := asAnalysis(data)
	if err != nil {
		return "", err
	}

	interp := score.Interpret(result.OverallScore)

	var b strings.Builder
	fmt.Fprintf(&b, "Compatibility Analysis (%s)\n", result.ID)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 40))
	fmt.Fprintf(&b, "Overall Score: %d/100 (%s)\n", result.OverallScore, interp.Level)
	fmt.Fprintf(&b, "%s\n\n", interp.Message)

	b.WriteString("Category Scores:\n")
	fmt.Fprintf(&b, "  Skills:     %3d\n", result.CategoryScores.Skills)
	fmt.Fprintf(&b, "  Experience: %3d\n", result.CategoryScores.Experience)
	fmt.Fprintf(&b, "  Keywords:   %3d\n", result.CategoryScores.Keywords)
	fmt.Fprintf(&b, "  Semantic:   %3d\n", result.CategoryScores.Semantic)
	fmt.Fprintf(&b, "  ATS:        %3d\n\n", result.CategoryScores.ATS)

	if len(result.Strengths) > 0 {
		b.WriteString("Strengths:\n")
		for _, s := range result.Strengths {
			fmt.Fprintf(&b, "  + %s\n", s)
		}
		b.WriteString("\n")
	}
	if len(result.Weaknesses) > 0 {
		b.WriteString("Weaknesses:\n")
		for _, w := range result.Weaknesses {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
		b.WriteString("\n")
	}

	if len(result.SkillsAnalysis.Missing) > 0 {
		fmt.Fprintf(&b, "Missing Skills: %s\n", strings.Join(result.SkillsAnalysis.Missing, ", "))
	}
	if len(result.MissingKeywords) > 0 {
		fmt.Fprintf(&b, "Missing Keywords: %s\n", strings.Join(result.MissingKeywords, ", "))
	}
	if result.Augmentation.Similarity.Used && result.Augmentation.Similarity.Score != nil {
		fmt.Fprintf(&b, "Semantic Similarity: %d/100\n", *result.Augmentation.Similarity.Score)
	} else if result.Augmentation.Similarity.DegradedReason != "" {
		fmt.Fprintf(&b, "Semantic Similarity: unavailable (%s)\n", result.Augmentation.Similarity.DegradedReason)
	}
	b.WriteString("\n")

	if len(result.Recommendations) > 0 {
		b.WriteString("Recommendations:\n")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", strings.ToUpper(rec.Priority), rec.Title, rec.Description)
		}
	}

	return b.String(), nil
}

// AnalysisMarkdownFormatter renders an analysis result as markdown.
type AnalysisMarkdownFormatter struct{}

func (f *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, err := asAnalysis(data)
	if err != nil {
		return "", err
	}

	interp := score.Interpret(result.OverallScore)

	var b strings.Builder
	b.WriteString("# Compatibility Analysis\n\n")
	fmt.Fprintf(&b, "**Overall Score:** %d/100 (%s)\n\n", result.OverallScore, interp.Level)
	fmt.Fprintf(&b, "> %s\n\n", interp.Message)

	b.WriteString("## Category Scores\n\n")
	b.WriteString("| Category | Score |\n|---|---|\n")
	fmt.Fprintf(&b, "| Skills | %d |\n", result.CategoryScores.Skills)
	fmt.Fprintf(&b, "| Experience | %d |\n", result.CategoryScores.Experience)
	fmt.Fprintf(&b, "| Keywords | %d |\n", result.CategoryScores.Keywords)
	fmt.Fprintf(&b, "| Semantic | %d |\n", result.CategoryScores.Semantic)
	fmt.Fprintf(&b, "| ATS | %d |\n\n", result.CategoryScores.ATS)

	if len(result.Strengths) > 0 {
		b.WriteString("## Strengths\n\n")
		for _, s := range result.Strengths {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}
	if len(result.Weaknesses) > 0 {
		b.WriteString("## Weaknesses\n\n")
		for _, w := range result.Weaknesses {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(&b, "- **%s** (%s, %s): %s\n", rec.Title, rec.Category, rec.Priority, rec.Description)
		}
		b.WriteString("\n")
	}

	if len(result.ATSCompatibility.Recommendations) > 0 {
		b.WriteString("## ATS Findings\n\n")
		for _, rec := range result.ATSCompatibility.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}

	return b.String(), nil
}

// ReportTextFormatter renders an insight report for terminals.
type ReportTextFormatter struct{}

func (f *ReportTextFormatter) Format(data any) (string, error) {
	report, err := asReport(data)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Application Readiness: %s\n", report.Readiness.Status)
	fmt.Fprintf(&b, "%s\n\n", report.Readiness.Message)

	fmt.Fprintf(&b, "Competitive Position: %s (%s)\n", report.CompetitivePosition.Tier, report.CompetitivePosition.Percentile)
	fmt.Fprintf(&b, "%s\n\n", report.CompetitivePosition.Message)

	b.WriteString("Match Strength:\n")
	for _, area := range report.MatchStrength {
		fmt.Fprintf(&b, "  %-18s %3d  %s\n", area.Area, area.Score, area.Strength)
	}
	b.WriteString("\n")

	if len(report.PriorityActions) > 0 {
		b.WriteString("Priority Actions:\n")
		for i, action := range report.PriorityActions {
			fmt.Fprintf(&b, "  %d. [%s] %s (+%d)\n", i+1, action.Priority, action.Action, action.EstimatedImprovement)
			fmt.Fprintf(&b, "     %s\n", action.Reason)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Improvement Potential: %d -> %d\n", report.ImprovementPotential.CurrentScore, report.ImprovementPotential.PotentialScore)
	for _, item := range report.ImprovementPotential.Breakdown {
		fmt.Fprintf(&b, "  %s: +%d\n", item.Area, item.Gain)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Resume Health: %d (grade %s)\n", report.ResumeHealth.Score, report.ResumeHealth.Grade)
	fmt.Fprintf(&b, "Keyword Coverage: %d%% (%s)\n", report.KeywordDensity.MatchRate, report.KeywordDensity.Rating)
	fmt.Fprintf(&b, "Assessment Confidence: %d (%s) - %s\n", report.Confidence.Score, report.Confidence.Level, report.Confidence.Message)

	return b.String(), nil
}

// ReportMarkdownFormatter renders an insight report as markdown.
type ReportMarkdownFormatter struct{}

func (f *ReportMarkdownFormatter) Format(data any) (string, error) {
	report, err := asReport(data)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("# Insight Report\n\n")
	fmt.Fprintf(&b, "**Readiness:** %s\n\n> %s\n\n", report.Readiness.Status, report.Readiness.Message)
	fmt.Fprintf(&b, "**Competitive Position:** %s (%s)\n\n", report.CompetitivePosition.Tier, report.CompetitivePosition.Percentile)

	b.WriteString("## Match Strength\n\n| Area | Score | Strength |\n|---|---|---|\n")
	for _, area := range report.MatchStrength {
		fmt.Fprintf(&b, "| %s | %d | %s |\n", area.Area, area.Score, area.Strength)
	}
	b.WriteString("\n")

	if len(report.PriorityActions) > 0 {
		b.WriteString("## Priority Actions\n\n")
		for i, action := range report.PriorityActions {
			fmt.Fprintf(&b, "%d. **%s** (+%d, %s) - %s\n", i+1, action.Action, action.EstimatedImprovement, action.Priority, action.Reason)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Improvement Potential\n\nCurrent %d, reachable %d.\n\n",
		report.ImprovementPotential.CurrentScore, report.ImprovementPotential.PotentialScore)
	for _, item := range report.ImprovementPotential.Breakdown {
		fmt.Fprintf(&b, "- %s: +%d\n", item.Area, item.Gain)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "**Resume Health:** %d (grade %s)  \n", report.ResumeHealth.Score, report.ResumeHealth.Grade)
	fmt.Fprintf(&b, "**Keyword Coverage:** %d%% (%s)  \n", report.KeywordDensity.MatchRate, report.KeywordDensity.Rating)
	fmt.Fprintf(&b, "**Confidence:** %d (%s)\n", report.Confidence.Score, report.Confidence.Level)

	return b.String(), nil
}
