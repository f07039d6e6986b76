// Package engine orchestrates the analysis pipeline: validation, the
// synchronous heuristic stages, the concurrent augmentation stage, and
// result assembly.
package engine

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"fitcheck/internal/ai"
	"fitcheck/internal/ats"
	"fitcheck/internal/config"
	"fitcheck/internal/errors"
	"fitcheck/internal/insights"
	"fitcheck/internal/keywords"
	"fitcheck/internal/score"
	"fitcheck/internal/skills"
	"fitcheck/internal/textproc"
	"fitcheck/internal/types"
)

const (
	maxMissingKeywords = 10
	maxMissingSkills   = 10
)

// Engine runs analyses. It is safe for concurrent use.
type Engine struct {
	cfg       *config.Config
	augmenter *ai.Augmenter
	checker   *ats.Checker
	logger    *errors.Logger
	tracer    trace.Tracer
}

// New creates an engine. The augmenter may be disabled; analysis then
// runs on heuristics alone.
func New(cfg *config.Config, augmenter *ai.Augmenter, logger *errors.Logger) *Engine {
	if augmenter == nil {
		augmenter = ai.NewAugmenter(nil, nil, logger)
	}
	return &Engine{
		cfg:       cfg,
		augmenter: augmenter,
		checker:   ats.NewChecker(),
		logger:    logger,
		tracer:    otel.Tracer("fitcheck.engine"),
	}
}

// Analyze scores one resume against one job description. It returns a
// complete result or a validation error; augmentation failures degrade
// individual signals instead of failing the analysis.
func (e *Engine) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.AnalysisResult, error) {
	ctx, span := e.tracer.Start(ctx, "engine.analyze")
	defer span.End()

	if strings.TrimSpace(req.ResumeText) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeEmptyDocument, "resume text is empty", nil).
			WithContext("field", "resumeText")
	}
	if strings.TrimSpace(req.JobDescriptionText) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeEmptyDocument, "job description text is empty", nil).
			WithContext("field", "jobDescriptionText")
	}

	h := e.runHeuristics(ctx, req)
	aug := e.runAugmentation(ctx, req, h)

	return e.assemble(req, h, aug), nil
}

// heuristics carries the outputs of the synchronous stages.
type heuristics struct {
	jobKeywords     []string
	matchedKeywords []string
	missingKeywords []string

	jobSkills     []string
	matchedSkills []string
	missingSkills []string
	skillPct      float64

	ats   types.ATSCompatibility
	years *int
}

func (e *Engine) runHeuristics(ctx context.Context, req types.AnalysisRequest) heuristics {
	_, span := e.tracer.Start(ctx, "engine.heuristics")
	defer span.End()

	var h heuristics

	h.jobKeywords = keywords.Extract(req.JobDescriptionText, e.cfg.Engine.MaxKeywords)
	h.matchedKeywords, h.missingKeywords = keywords.Match(req.ResumeText, h.jobKeywords)

	resumeSkills := skills.Extract(req.ResumeText)
	h.jobSkills = skills.Extract(req.JobDescriptionText)
	h.matchedSkills, h.missingSkills, h.skillPct = skills.Match(resumeSkills, h.jobSkills)

	h.ats = e.checker.Check(req.ResumeText, req.FileName)
	h.years = textproc.ExtractYearsOfExperience(req.ResumeText)

	span.SetAttributes(
		attribute.Int("keywords.total", len(h.jobKeywords)),
		attribute.Int("skills.required", len(h.jobSkills)),
		attribute.Int("ats.score", h.ats.Score),
	)
	return h
}

// augmentation carries the outputs of the concurrent semantic stage.
type augmentation struct {
	similarity   types.SimilaritySignal
	skillMatches []types.SkillMatch
	skillSource  string
	categorized  *types.CategorizedKeywords
	coverage     []types.RequirementCoverage
}

// runAugmentation fans the four sub-capabilities out under the
// wall-clock budget. Every capability degrades instead of erroring, so
// the group never fails.
func (e *Engine) runAugmentation(ctx context.Context, req types.AnalysisRequest, h heuristics) augmentation {
	ctx, span := e.tracer.Start(ctx, "engine.augmentation")
	defer span.End()

	budgetCtx, cancel := context.WithTimeout(ctx, e.cfg.Engine.AugmentationBudget)
	defer cancel()

	var aug augmentation
	g, gctx := errgroup.WithContext(budgetCtx)

	g.Go(func() error {
		aug.similarity = e.augmenter.Similarity(gctx, req.ResumeText, req.JobDescriptionText)
		return nil
	})
	g.Go(func() error {
		aug.skillMatches, aug.skillSource = e.augmenter.SkillConfidences(gctx, req.ResumeText, h.matchedSkills, h.missingSkills)
		return nil
	})
	g.Go(func() error {
		aug.categorized = e.augmenter.CategorizeKeywords(gctx, req.JobDescriptionText, req.ResumeText, h.matchedKeywords, h.missingKeywords)
		return nil
	})
	g.Go(func() error {
		aug.coverage = e.augmenter.CoverRequirements(gctx, req.ResumeText, req.JobDescriptionText)
		return nil
	})

	g.Wait()

	span.SetAttributes(
		attribute.Bool("similarity.used", aug.similarity.Used),
		attribute.Int("coverage.items", len(aug.coverage)),
	)
	return aug
}

func (e *Engine) assemble(req types.AnalysisRequest, h heuristics, aug augmentation) *types.AnalysisResult {
	var similarity *int
	if aug.similarity.Used {
		similarity = aug.similarity.Score
	}

	cs := types.CategoryScores{
		Skills:     score.Skills(len(h.matchedSkills), len(h.jobSkills)),
		Experience: score.Experience(h.years, req.Seniority),
		Keywords:   score.Keywords(len(h.matchedKeywords), len(h.jobKeywords)),
		Semantic:   score.Semantic(similarity),
		ATS:        h.ats.Score,
	}

	strengths, weaknesses := insights.StrengthsAndWeaknesses(cs)
	recommendations := insights.Recommendations(cs, h.missingSkills, h.missingKeywords, h.ats.Recommendations, h.years != nil)

	missingKeywords := capList(h.missingKeywords, maxMissingKeywords)
	missingSkills := capList(h.missingSkills, maxMissingSkills)

	return &types.AnalysisResult{
		ID:              newID(),
		OverallScore:    score.Overall(cs),
		CategoryScores:  cs,
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		MatchedKeywords: h.matchedKeywords,
		MissingKeywords: missingKeywords,
		Recommendations: recommendations,
		SkillsAnalysis: types.SkillsAnalysis{
			Matched:         aug.skillMatches,
			Missing:         missingSkills,
			MatchPercentage: h.skillPct,
		},
		ATSCompatibility: h.ats,
		Augmentation: types.Augmentation{
			Similarity:          aug.similarity,
			SkillSource:         aug.skillSource,
			CategorizedKeywords: aug.categorized,
			RequirementCoverage: aug.coverage,
		},
		CreatedAt: time.Now().UTC(),
	}
}

func capList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

// newID generates a random 128-bit hex identifier.
func newID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "00000000000000000000000000000000"
	}
	return hex.EncodeToString(buf[:])
}
