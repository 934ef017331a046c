package types

import "time"

// Criticality classifies how important a missing skill is for a job.
type Criticality string

const (
	// CriticalityCritical marks skills that rank among the job description's
	// most frequent extracted terms.
	CriticalityCritical Criticality = "critical"
	// CriticalityRecommended marks all other missing skills.
	CriticalityRecommended Criticality = "recommended"
)

// AnalyzeInput represents the input for a full resume analysis
type AnalyzeInput struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

// ExtractInput represents the input for standalone skill extraction
type ExtractInput struct {
	Text string `json:"text"`
}

// SimilarityVector holds the independent similarity signals computed for a
// (resume, job) pair. All float fields are clamped to [0,1].
type SimilarityVector struct {
	Jaccard     float64 `json:"jaccard"`
	TextCosine  float64 `json:"textCosine"`
	SkillCosine float64 `json:"skillCosine"`
	CountRatio  float64 `json:"countRatio"`
	CountDiff   int     `json:"countDiff"`
}

// StructuralSignals are the pre-computed [0,1] ATS inputs: section
// completeness, keyword density, formatting quality, contextual relevance.
type StructuralSignals struct {
	Section float64 `json:"section"`
	Keyword float64 `json:"keyword"`
	Format  float64 `json:"format"`
	Context float64 `json:"context"`
}

// CategorySkills lists the canonical skills found for one taxonomy category
type CategorySkills struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// MissingSkill is a job-required skill absent from the resume
type MissingSkill struct {
	Skill       string      `json:"skill"`
	Criticality Criticality `json:"criticality"`
}

// CategoryGap groups missing skills under their taxonomy category.
// Ordering is deterministic: critical before recommended, each alphabetical.
type CategoryGap struct {
	Category string         `json:"category"`
	Missing  []MissingSkill `json:"missing"`
}

// Recommendations holds tiered improvement guidance derived from the scores
// and the skill gap
type Recommendations struct {
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	ActionItems []string `json:"actionItems"`
}

// ScoreReport is the final analysis result returned to callers. It is a flat
// value object with no internal references; the caller owns its lifetime.
type ScoreReport struct {
	ATSScore   float64            `json:"atsScore"`
	MatchScore float64            `json:"matchScore"`
	Breakdown  map[string]float64 `json:"breakdown"`

	Similarity SimilarityVector  `json:"similarity"`
	Structural StructuralSignals `json:"structural"`

	ResumeSkills  []CategorySkills `json:"resumeSkills"`
	JobSkills     []CategorySkills `json:"jobSkills"`
	MissingSkills []CategoryGap    `json:"missingSkills"`

	Recommendations Recommendations `json:"recommendations"`

	// Compatibility is the optional external predictor's probability,
	// present only when a predictor is configured and succeeded.
	Compatibility *float64 `json:"compatibility,omitempty"`

	// DegradedPrediction is set when the configured predictor failed and the
	// match score fell back to the rule-based formula alone.
	DegradedPrediction bool `json:"degradedPrediction"`

	// DegradedInput is set when structural signals were missing or NaN and
	// were replaced with zero before weighting.
	DegradedInput bool `json:"degradedInput"`

	AnalysisMethod string    `json:"analysisMethod"`
	AnalyzedAt     time.Time `json:"analyzedAt"`
}

// GapReport is the standalone output of the gaps command
type GapReport struct {
	MatchedSkills []CategorySkills `json:"matchedSkills"`
	MissingSkills []CategoryGap    `json:"missingSkills"`
	Suggestions   []string         `json:"suggestions"`
}

// ExtractOutput is the standalone output of the extract command
type ExtractOutput struct {
	Skills      []CategorySkills `json:"skills"`
	TotalSkills int              `json:"totalSkills"`
}
