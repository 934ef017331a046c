package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumerefiner/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ScoreReport", &ScoreTextFormatter{})
	registry.RegisterFormatter("markdown", "ScoreReport", &ScoreMarkdownFormatter{})
	registry.RegisterFormatter("text", "GapReport", &GapTextFormatter{})
	registry.RegisterFormatter("markdown", "GapReport", &GapMarkdownFormatter{})
	registry.RegisterFormatter("text", "ExtractOutput", &ExtractTextFormatter{})
	registry.RegisterFormatter("markdown", "ExtractOutput", &ExtractMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ScoreReport:
		return "ScoreReport"
	case types.GapReport:
		return "GapReport"
	case types.ExtractOutput:
		return "ExtractOutput"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func writeCategorySkills(output *strings.Builder, categories []types.CategorySkills) {
	for _, cat := range categories {
		output.WriteString(fmt.Sprintf("  %s: %s\n", cat.Category, strings.Join(cat.Skills, ", ")))
	}
}

func writeGaps(output *strings.Builder, gaps []types.CategoryGap) {
	for _, gap := range gaps {
		output.WriteString(fmt.Sprintf("  %s:\n", gap.Category))
		for _, missing := range gap.Missing {
			output.WriteString(fmt.Sprintf("    - %s (%s)\n", missing.Skill, missing.Criticality))
		}
	}
}

// ScoreTextFormatter handles text formatting for score reports
type ScoreTextFormatter struct{}

func (stf *ScoreTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreReport)
	if !ok {
		return "", fmt.Errorf("expected ScoreReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ANALYSIS RESULT ===\n\n")
	output.WriteString(fmt.Sprintf("ATS Score:   %.1f/100\n", result.ATSScore))
	output.WriteString(fmt.Sprintf("Match Score: %.1f/100\n", result.MatchScore))
	if result.Compatibility != nil {
		output.WriteString(fmt.Sprintf("Predicted Compatibility: %.0f%%\n", *result.Compatibility*100))
	}
	output.WriteString(fmt.Sprintf("Method: %s\n", result.AnalysisMethod))
	if result.DegradedPrediction {
		output.WriteString("Note: external predictor unavailable, scores are rule-based\n")
	}
	output.WriteString("\n")

	if len(result.ResumeSkills) > 0 {
		output.WriteString("=== RESUME SKILLS ===\n")
		writeCategorySkills(&output, result.ResumeSkills)
		output.WriteString("\n")
	}

	if len(result.JobSkills) > 0 {
		output.WriteString("=== JOB SKILLS ===\n")
		writeCategorySkills(&output, result.JobSkills)
		output.WriteString("\n")
	}

	if len(result.MissingSkills) > 0 {
		output.WriteString("=== MISSING SKILLS ===\n")
		writeGaps(&output, result.MissingSkills)
		output.WriteString("\n")
	}

	rec := result.Recommendations
	if len(rec.Strengths) > 0 {
		output.WriteString("Strengths:\n")
		for _, s := range rec.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", s))
		}
		output.WriteString("\n")
	}
	if len(rec.Weaknesses) > 0 {
		output.WriteString("Weaknesses:\n")
		for _, w := range rec.Weaknesses {
			output.WriteString(fmt.Sprintf("- %s\n", w))
		}
		output.WriteString("\n")
	}
	if len(rec.ActionItems) > 0 {
		output.WriteString("Action Items:\n")
		for i, item := range rec.ActionItems {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, item))
		}
	}

	return output.String(), nil
}

func (stf *ScoreTextFormatter) SupportedType() string {
	return "ScoreReport"
}

// ScoreMarkdownFormatter handles markdown formatting for score reports
type ScoreMarkdownFormatter struct{}

func (smf *ScoreMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreReport)
	if !ok {
		return "", fmt.Errorf("expected ScoreReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Analysis Result\n\n")
	output.WriteString(fmt.Sprintf("**ATS Score:** %.1f/100\n\n", result.ATSScore))
	output.WriteString(fmt.Sprintf("**Match Score:** %.1f/100\n\n", result.MatchScore))
	if result.Compatibility != nil {
		output.WriteString(fmt.Sprintf("**Predicted Compatibility:** %.0f%%\n\n", *result.Compatibility*100))
	}
	output.WriteString(fmt.Sprintf("**Method:** %s\n\n", result.AnalysisMethod))
	if result.DegradedPrediction {
		output.WriteString("> External predictor unavailable, scores are rule-based.\n\n")
	}

	if len(result.ResumeSkills) > 0 {
		output.WriteString("## Resume Skills\n\n")
		for _, cat := range result.ResumeSkills {
			output.WriteString(fmt.Sprintf("- **%s:** %s\n", cat.Category, strings.Join(cat.Skills, ", ")))
		}
		output.WriteString("\n")
	}

	if len(result.JobSkills) > 0 {
		output.WriteString("## Job Skills\n\n")
		for _, cat := range result.JobSkills {
			output.WriteString(fmt.Sprintf("- **%s:** %s\n", cat.Category, strings.Join(cat.Skills, ", ")))
		}
		output.WriteString("\n")
	}

	if len(result.MissingSkills) > 0 {
		output.WriteString("## Missing Skills\n\n")
		for _, gap := range result.MissingSkills {
			output.WriteString(fmt.Sprintf("### %s\n\n", gap.Category))
			for _, missing := range gap.Missing {
				output.WriteString(fmt.Sprintf("- %s (*%s*)\n", missing.Skill, missing.Criticality))
			}
			output.WriteString("\n")
		}
	}

	rec := result.Recommendations
	if len(rec.Strengths) > 0 {
		output.WriteString("## Strengths\n\n")
		for _, s := range rec.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", s))
		}
		output.WriteString("\n")
	}
	if len(rec.Weaknesses) > 0 {
		output.WriteString("## Weaknesses\n\n")
		for _, w := range rec.Weaknesses {
			output.WriteString(fmt.Sprintf("- %s\n", w))
		}
		output.WriteString("\n")
	}
	if len(rec.ActionItems) > 0 {
		output.WriteString("## Action Items\n\n")
		for i, item := range rec.ActionItems {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, item))
		}
	}

	return output.String(), nil
}

func (smf *ScoreMarkdownFormatter) SupportedType() string {
	return "ScoreReport"
}

// GapTextFormatter handles text formatting for gap reports
type GapTextFormatter struct{}

func (gtf *GapTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.GapReport)
	if !ok {
		return "", fmt.Errorf("expected GapReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SKILL GAP ===\n\n")

	if len(result.MatchedSkills) > 0 {
		output.WriteString("Matched Skills:\n")
		writeCategorySkills(&output, result.MatchedSkills)
		output.WriteString("\n")
	}

	if len(result.MissingSkills) > 0 {
		output.WriteString("Missing Skills:\n")
		writeGaps(&output, result.MissingSkills)
		output.WriteString("\n")
	} else {
		output.WriteString("No missing skills found.\n\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("Suggestions:\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
	}

	return output.String(), nil
}

func (gtf *GapTextFormatter) SupportedType() string {
	return "GapReport"
}

// GapMarkdownFormatter handles markdown formatting for gap reports
type GapMarkdownFormatter struct{}

func (gmf *GapMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.GapReport)
	if !ok {
		return "", fmt.Errorf("expected GapReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Skill Gap\n\n")

	if len(result.MatchedSkills) > 0 {
		output.WriteString("## Matched Skills\n\n")
		for _, cat := range result.MatchedSkills {
			output.WriteString(fmt.Sprintf("- **%s:** %s\n", cat.Category, strings.Join(cat.Skills, ", ")))
		}
		output.WriteString("\n")
	}

	if len(result.MissingSkills) > 0 {
		output.WriteString("## Missing Skills\n\n")
		for _, gap := range result.MissingSkills {
			output.WriteString(fmt.Sprintf("### %s\n\n", gap.Category))
			for _, missing := range gap.Missing {
				output.WriteString(fmt.Sprintf("- %s (*%s*)\n", missing.Skill, missing.Criticality))
			}
			output.WriteString("\n")
		}
	} else {
		output.WriteString("## No Missing Skills\n\nThe resume covers every skill the job description asks for.\n\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
	}

	return output.String(), nil
}

func (gmf *GapMarkdownFormatter) SupportedType() string {
	return "GapReport"
}

// ExtractTextFormatter handles text formatting for extraction results
type ExtractTextFormatter struct{}

func (etf *ExtractTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ExtractOutput)
	if !ok {
		return "", fmt.Errorf("expected ExtractOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== EXTRACTED SKILLS ===\n\n")
	if result.TotalSkills == 0 {
		output.WriteString("No known skills found.\n")
		return output.String(), nil
	}

	writeCategorySkills(&output, result.Skills)
	output.WriteString(fmt.Sprintf("\nTotal: %d skills\n", result.TotalSkills))

	return output.String(), nil
}

func (etf *ExtractTextFormatter) SupportedType() string {
	return "ExtractOutput"
}

// ExtractMarkdownFormatter handles markdown formatting for extraction results
type ExtractMarkdownFormatter struct{}

func (emf *ExtractMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ExtractOutput)
	if !ok {
		return "", fmt.Errorf("expected ExtractOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Extracted Skills\n\n")
	if result.TotalSkills == 0 {
		output.WriteString("No known skills found.\n")
		return output.String(), nil
	}

	for _, cat := range result.Skills {
		output.WriteString(fmt.Sprintf("- **%s:** %s\n", cat.Category, strings.Join(cat.Skills, ", ")))
	}
	output.WriteString(fmt.Sprintf("\n**Total:** %d skills\n", result.TotalSkills))

	return output.String(), nil
}

func (emf *ExtractMarkdownFormatter) SupportedType() string {
	return "ExtractOutput"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
