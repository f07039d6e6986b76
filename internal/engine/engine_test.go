package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"fitcheck/internal/ai"
	"fitcheck/internal/config"
	"fitcheck/internal/errors"
	"fitcheck/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		Engine: config.EngineConfig{
			AugmentationBudget: 5 * time.Second,
			MaxKeywords:        30,
			MaxRequirements:    8,
		},
	}
}

func testLogger() *errors.Logger {
	return errors.NewLogger(slog.LevelError)
}

func heuristicEngine() *Engine {
	return New(testConfig(), nil, testLogger())
}

func sampleResume() string {
	return `Jane Doe
jane@example.com
(555) 123-4567

Summary
Backend engineer with 6 years of experience building services in Go and Python.

Experience
Designed PostgreSQL-backed APIs, containerized with Docker, deployed on Kubernetes.

Education
BSc Computer Science

Skills
Go, Python, PostgreSQL, Docker, Kubernetes, Communication`
}

func sampleJob() string {
	return `Senior Backend Engineer

We need a senior engineer for our platform team.

Requirements:
- 5+ years of experience with Go in production environments
- Strong knowledge of PostgreSQL and schema design
- Experience with Kubernetes and container orchestration
- Familiar with GraphQL API design and federation`
}

func TestAnalyzeValidation(t *testing.T) {
	e := heuristicEngine()

	tests := []struct {
		name   string
		resume string
		job    string
	}{
		{"empty resume", "", sampleJob()},
		{"whitespace resume", "   \n\t", sampleJob()},
		{"empty job", sampleResume(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Analyze(context.Background(), types.AnalysisRequest{
				ResumeText:         tt.resume,
				JobDescriptionText: tt.job,
			})
			if err == nil {
				t.Fatal("expected validation error")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("error type = %T, want *errors.AppError", err)
			}
			if appErr.Type != errors.ErrorTypeValidation || appErr.Code != errors.ErrCodeEmptyDocument {
				t.Errorf("unexpected error classification: %+v", appErr)
			}
		})
	}
}

func TestAnalyzeHeuristicOnly(t *testing.T) {
	e := heuristicEngine()

	result, err := e.Analyze(context.Background(), types.AnalysisRequest{
		ResumeText:         sampleResume(),
		JobDescriptionText: sampleJob(),
		Seniority:          "senior",
		FileName:           "resume.pdf",
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.ID == "" || len(result.ID) != 32 {
		t.Errorf("unexpected ID: %q", result.ID)
	}
	if result.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	for name, s := range map[string]int{
		"overall":    result.OverallScore,
		"skills":     result.CategoryScores.Skills,
		"experience": result.CategoryScores.Experience,
		"keywords":   result.CategoryScores.Keywords,
		"semantic":   result.CategoryScores.Semantic,
		"ats":        result.CategoryScores.ATS,
	} {
		if s < 0 || s > 100 {
			t.Errorf("%s score out of range: %d", name, s)
		}
	}

	// 6 years vs senior (8 needed) lands in the 0.75 band
	if result.CategoryScores.Experience != 85 {
		t.Errorf("experience = %d, want 85", result.CategoryScores.Experience)
	}

	// degraded semantic signal is neutral
	if result.Augmentation.Similarity.Used {
		t.Error("similarity should be degraded without a provider")
	}
	if result.Augmentation.Similarity.DegradedReason == "" {
		t.Error("degraded reason should be set")
	}
	if result.CategoryScores.Semantic != 50 {
		t.Errorf("semantic = %d, want neutral 50", result.CategoryScores.Semantic)
	}

	// GraphQL is required but absent
	foundMissing := false
	for _, s := range result.SkillsAnalysis.Missing {
		if s == "GraphQL" {
			foundMissing = true
		}
	}
	if !foundMissing {
		t.Errorf("missing skills = %v, want GraphQL listed", result.SkillsAnalysis.Missing)
	}

	if result.Augmentation.SkillSource != types.SkillSourceHeuristic {
		t.Errorf("skill source = %q, want heuristic", result.Augmentation.SkillSource)
	}
	for _, m := range result.SkillsAnalysis.Matched {
		if !m.Present || m.Confidence != 0.9 {
			t.Errorf("heuristic skill match should default to present/0.9: %+v", m)
		}
	}

	if len(result.Recommendations) == 0 || len(result.Recommendations) > 8 {
		t.Errorf("recommendations count = %d", len(result.Recommendations))
	}
	if len(result.MissingKeywords) > 10 {
		t.Errorf("missing keywords not capped: %d", len(result.MissingKeywords))
	}
}

// Analyzing the same input twice must produce identical scores; only ID
// and timestamp may differ.
func TestAnalyzeDeterministic(t *testing.T) {
	e := heuristicEngine()
	req := types.AnalysisRequest{
		ResumeText:         sampleResume(),
		JobDescriptionText: sampleJob(),
		Seniority:          "senior",
		FileName:           "resume.pdf",
	}

	first, err := e.Analyze(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Analyze(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if first.ID == second.ID {
		t.Error("IDs should differ between runs")
	}
	if first.OverallScore != second.OverallScore {
		t.Errorf("overall differs: %d vs %d", first.OverallScore, second.OverallScore)
	}
	if first.CategoryScores != second.CategoryScores {
		t.Errorf("category scores differ: %+v vs %+v", first.CategoryScores, second.CategoryScores)
	}
	if fmt.Sprint(first.MissingKeywords) != fmt.Sprint(second.MissingKeywords) {
		t.Error("missing keywords differ between runs")
	}
}

func TestAnalyzeEmptyGapScores(t *testing.T) {
	e := heuristicEngine()

	// Job description with no vocabulary skills and no extractable keywords.
	result, err := e.Analyze(context.Background(), types.AnalysisRequest{
		ResumeText:         sampleResume(),
		JobDescriptionText: "be at it! on; to 12 34 . ..",
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.CategoryScores.Skills != 100 {
		t.Errorf("skills = %d, want 100 when nothing is required", result.CategoryScores.Skills)
	}
	if result.CategoryScores.Keywords != 100 {
		t.Errorf("keywords = %d, want 100 when nothing is extractable", result.CategoryScores.Keywords)
	}
	// the analysis-level match percentage keeps its zero default
	if result.SkillsAnalysis.MatchPercentage != 0 {
		t.Errorf("matchPercentage = %v, want 0", result.SkillsAnalysis.MatchPercentage)
	}
}

// scriptedProvider drives the augmentation path end to end.
type scriptedProvider struct {
	embedErr error
}

func (p *scriptedProvider) Embed(_ context.Context, text string) ([]float64, error) {
	if p.embedErr != nil {
		return nil, p.embedErr
	}
	if strings.Contains(text, "Jane") {
		return []float64{1, 1, 0}, nil
	}
	return []float64{1, 0, 0}, nil
}

func (p *scriptedProvider) Classify(_ context.Context, text string, labels []string) ([]ai.LabelScore, error) {
	out := make([]ai.LabelScore, len(labels))
	for i, label := range labels {
		out[i] = ai.LabelScore{Label: label, Score: 0.8}
	}
	return out, nil
}

func (p *scriptedProvider) GetModelInfo(context.Context) (*ai.ModelInfo, error) {
	return &ai.ModelInfo{Name: "scripted", Available: true}, nil
}

func (p *scriptedProvider) Close() error { return nil }

func TestAnalyzeWithAugmentation(t *testing.T) {
	augmenter := ai.NewAugmenter(&scriptedProvider{}, nil, testLogger())
	e := New(testConfig(), augmenter, testLogger())

	result, err := e.Analyze(context.Background(), types.AnalysisRequest{
		ResumeText:         sampleResume(),
		JobDescriptionText: sampleJob(),
		Seniority:          "senior",
		FileName:           "resume.pdf",
	})
	if err != nil {
		t.Fatal(err)
	}

	if !result.Augmentation.Similarity.Used || result.Augmentation.Similarity.Score == nil {
		t.Fatalf("similarity = %+v, want used", result.Augmentation.Similarity)
	}
	// cosine of (1,1,0) and (1,0,0) is ~0.707
	if got := *result.Augmentation.Similarity.Score; got != 71 {
		t.Errorf("similarity score = %d, want 71", got)
	}
	if result.CategoryScores.Semantic != 57 {
		t.Errorf("semantic = %d, want round(0.8*71)", result.CategoryScores.Semantic)
	}
	if result.Augmentation.SkillSource != types.SkillSourceExternal {
		t.Errorf("skill source = %q, want external", result.Augmentation.SkillSource)
	}
	if len(result.Augmentation.RequirementCoverage) == 0 {
		t.Error("expected requirement coverage items")
	}
	if result.Augmentation.CategorizedKeywords == nil {
		t.Error("expected categorized keywords")
	}
}

// slowProvider never answers; it waits for the caller's context.
type slowProvider struct{}

func (p *slowProvider) Embed(ctx context.Context, _ string) ([]float64, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (p *slowProvider) Classify(ctx context.Context, _ string, _ []string) ([]ai.LabelScore, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (p *slowProvider) GetModelInfo(context.Context) (*ai.ModelInfo, error) {
	return &ai.ModelInfo{Name: "slow", Available: true}, nil
}

func (p *slowProvider) Close() error { return nil }

func TestAnalyzeBudgetExpiryDegrades(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.AugmentationBudget = 100 * time.Millisecond
	augmenter := ai.NewAugmenter(&slowProvider{}, nil, testLogger())
	e := New(cfg, augmenter, testLogger())

	start := time.Now()
	result, err := e.Analyze(context.Background(), types.AnalysisRequest{
		ResumeText:         sampleResume(),
		JobDescriptionText: sampleJob(),
		Seniority:          "senior",
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("budget expiry must not fail the analysis: %v", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("analysis took %v, expected a prompt return after the budget", elapsed)
	}

	if result.Augmentation.Similarity.Used {
		t.Error("similarity should be degraded")
	}
	if result.Augmentation.Similarity.DegradedReason == "" {
		t.Error("degraded reason should be set")
	}
	if result.CategoryScores.Semantic != 50 {
		t.Errorf("semantic = %d, want fallback 50", result.CategoryScores.Semantic)
	}
	if result.Augmentation.SkillSource != types.SkillSourceHeuristic {
		t.Errorf("skill source = %q, want heuristic", result.Augmentation.SkillSource)
	}

	// the keyword fallback keeps the extractor's split in the contextual bucket
	ck := result.Augmentation.CategorizedKeywords
	if ck == nil {
		t.Fatal("categorized keywords fallback missing")
	}
	if len(ck.Technical.Matched)+len(ck.Technical.Missing) != 0 {
		t.Errorf("technical bucket should be empty on fallback: %+v", ck.Technical)
	}
	if len(ck.Contextual.Matched) == 0 {
		t.Error("contextual bucket should carry the extractor's matches")
	}

	if len(result.Augmentation.RequirementCoverage) == 0 {
		t.Fatal("expected requirement coverage items")
	}
	for _, rc := range result.Augmentation.RequirementCoverage {
		if rc.Coverage != types.CoverageNone || rc.Confidence != 0 {
			t.Errorf("expired item should default to not covered: %+v", rc)
		}
	}
}

func TestAnalyzeDegradesNotFails(t *testing.T) {
	augmenter := ai.NewAugmenter(&scriptedProvider{embedErr: fmt.Errorf("provider down")}, nil, testLogger())
	e := New(testConfig(), augmenter, testLogger())

	result, err := e.Analyze(context.Background(), types.AnalysisRequest{
		ResumeText:         sampleResume(),
		JobDescriptionText: sampleJob(),
	})
	if err != nil {
		t.Fatalf("augmentation failure must not fail the analysis: %v", err)
	}
	if result.Augmentation.Similarity.Used {
		t.Error("similarity should be degraded")
	}
	if result.CategoryScores.Semantic != 50 {
		t.Errorf("semantic = %d, want fallback 50", result.CategoryScores.Semantic)
	}
}
