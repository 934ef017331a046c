package engine

import (
	"context"
	"time"

	"resumerefiner/internal/config"
	"resumerefiner/internal/errors"
	"resumerefiner/internal/predictor"
	"resumerefiner/internal/taxonomy"
	"resumerefiner/internal/types"
)

// Engine is the scoring pipeline facade: normalize, extract, compare,
// aggregate, diff. It is stateless across calls and safe for concurrent use;
// all configuration is validated before construction.
//
// Analysis itself never fails. Empty documents produce zeroed scores and a
// failing predictor degrades to rule-based scoring, so callers always get a
// complete report.
type Engine struct {
	tax        *taxonomy.Taxonomy
	normalizer *Normalizer
	extractor  *Extractor
	comparer   *Comparer
	aggregator *Aggregator
	gaps       *GapAnalyzer
	pred       predictor.Predictor
	logger     *errors.Logger
}

// New creates an engine from validated configuration. pred may be nil for
// rule-based scoring only.
func New(cfg config.EngineConfig, tax *taxonomy.Taxonomy, pred predictor.Predictor, logger *errors.Logger) *Engine {
	return &Engine{
		tax:        tax,
		normalizer: NewNormalizer(cfg.ExtraStopwords),
		extractor:  NewExtractor(tax),
		comparer:   NewComparer(tax),
		aggregator: NewAggregator(cfg.MatchWeights, cfg.ATSWeights, logger),
		gaps:       NewGapAnalyzer(tax, cfg.CriticalTopN),
		pred:       pred,
		logger:     logger,
	}
}

// Analyze runs the full pipeline, deriving structural signals from the
// resume text itself.
func (e *Engine) Analyze(ctx context.Context, resumeText, jobText string) types.ScoreReport {
	resumeTokens := e.normalizer.Tokens(resumeText)
	jobTokens := e.normalizer.Tokens(jobText)
	jobSkills, jobCounts := e.extractor.ExtractCounts(jobTokens)

	signals := ComputeStructuralSignals(resumeText, resumeTokens, jobCounts)
	return e.analyze(ctx, resumeText, jobText, resumeTokens, jobTokens, jobSkills, jobCounts, signals)
}

// AnalyzeWithSignals runs the pipeline with caller-supplied structural
// signals, for callers that compute their own ATS inputs upstream.
func (e *Engine) AnalyzeWithSignals(ctx context.Context, resumeText, jobText string, signals types.StructuralSignals) types.ScoreReport {
	resumeTokens := e.normalizer.Tokens(resumeText)
	jobTokens := e.normalizer.Tokens(jobText)
	jobSkills, jobCounts := e.extractor.ExtractCounts(jobTokens)
	return e.analyze(ctx, resumeText, jobText, resumeTokens, jobTokens, jobSkills, jobCounts, signals)
}

// analyze is the single scoring pass behind both entry points; each
// document is tokenized and extracted exactly once per request.
func (e *Engine) analyze(ctx context.Context, resumeText, jobText string, resumeTokens, jobTokens []string, jobSkills SkillSet, jobCounts map[string]int, signals types.StructuralSignals) types.ScoreReport {
	resumeSkills := e.extractor.Extract(resumeTokens)

	sim := e.comparer.Compare(resumeSkills, jobSkills,
		e.normalizer.FilteredTokens(resumeText), e.normalizer.FilteredTokens(jobText))

	ats, match, breakdown, degradedInput := e.aggregator.Aggregate(sim, signals)

	gaps := e.gaps.Gaps(resumeSkills, jobSkills, jobCounts, len(jobTokens))
	matched := e.gaps.Matched(resumeSkills, jobSkills).ByCategory(e.tax)

	report := types.ScoreReport{
		ATSScore:        ats,
		MatchScore:      match,
		Breakdown:       breakdown,
		Similarity:      sim,
		Structural:      signals,
		ResumeSkills:    resumeSkills.ByCategory(e.tax),
		JobSkills:       jobSkills.ByCategory(e.tax),
		MissingSkills:   gaps,
		Recommendations: buildRecommendations(ats, matched, gaps),
		DegradedInput:   degradedInput,
		AnalysisMethod:  "rule_based",
		AnalyzedAt:      time.Now().UTC(),
	}

	e.predict(ctx, sim, signals, resumeSkills.Total(), jobSkills.Total(), &report)

	return report
}

// predict consults the optional external predictor. A predictor failure
// marks the report degraded and leaves the rule-based scores untouched.
func (e *Engine) predict(ctx context.Context, sim types.SimilarityVector, signals types.StructuralSignals, resumeCount, jobCount int, report *types.ScoreReport) {
	if e.pred == nil {
		return
	}

	features := predictor.Features{
		Jaccard:          sim.Jaccard,
		TextCosine:       sim.TextCosine,
		SkillCosine:      sim.SkillCosine,
		CountRatio:       sim.CountRatio,
		CountDiff:        sim.CountDiff,
		Section:          signals.Section,
		Keyword:          signals.Keyword,
		Format:           signals.Format,
		Context:          signals.Context,
		ResumeSkillCount: resumeCount,
		JobSkillCount:    jobCount,
	}

	compatibility, err := e.pred.Predict(ctx, features)
	if err != nil {
		e.logger.LogError(err, "Predictor failed, falling back to rule-based scoring",
			"provider", e.pred.Name())
		report.DegradedPrediction = true
		return
	}

	compatibility = clamp01(compatibility)
	report.Compatibility = &compatibility
	report.AnalysisMethod = "hybrid"
}

// ExtractSkills runs extraction alone on a single document
func (e *Engine) ExtractSkills(text string) types.ExtractOutput {
	skills := e.extractor.Extract(e.normalizer.Tokens(text))
	return types.ExtractOutput{
		Skills:      skills.ByCategory(e.tax),
		TotalSkills: skills.Total(),
	}
}

// SkillGap diffs the two documents' skills without full scoring
func (e *Engine) SkillGap(resumeText, jobText string) types.GapReport {
	resumeTokens := e.normalizer.Tokens(resumeText)
	jobTokens := e.normalizer.Tokens(jobText)

	resumeSkills := e.extractor.Extract(resumeTokens)
	jobSkills, jobCounts := e.extractor.ExtractCounts(jobTokens)

	gaps := e.gaps.Gaps(resumeSkills, jobSkills, jobCounts, len(jobTokens))
	matched := e.gaps.Matched(resumeSkills, jobSkills).ByCategory(e.tax)

	return types.GapReport{
		MatchedSkills: matched,
		MissingSkills: gaps,
		Suggestions:   skillSuggestions(gaps, 5),
	}
}

// PredictorStats exposes the predictor's runtime statistics for the stats
// endpoint
func (e *Engine) PredictorStats() map[string]any {
	return predictor.StatsFor(e.pred)
}

// PredictorName reports the active predictor provider, or empty when the
// engine is rule-based only
func (e *Engine) PredictorName() string {
	if e.pred == nil {
		return ""
	}
	return e.pred.Name()
}

// Close releases the predictor's resources
func (e *Engine) Close() error {
	if e.pred == nil {
		return nil
	}
	return e.pred.Close()
}
