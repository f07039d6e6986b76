package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"fitcheck/internal/insights"
	"fitcheck/internal/types"
)

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer().Start(r.Context(), "server.analyze")
	defer span.End()

	var req AnalyzeRequest
	if !s.parseJSONRequest(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.ResumeText) == "" || strings.TrimSpace(req.JobDescription) == "" {
		s.writeErrorResponse(w, http.StatusBadRequest, "resumeText and jobDescription are required", "EMPTY_DOCUMENT")
		return
	}

	start := time.Now()
	result, err := s.engine.Analyze(ctx, types.AnalysisRequest{
		ResumeText:         req.ResumeText,
		JobDescriptionText: req.JobDescription,
		Seniority:          req.Seniority,
		FileName:           req.FileName,
	})
	if err != nil {
		s.logger.LogError(err, "analysis failed")
		s.writeErrorResponse(w, statusForError(err), err.Error(), errorCodeOf(err))
		return
	}

	duration := time.Since(start)
	s.om.RecordAnalysis(ctx, duration, result.OverallScore, result.Augmentation.Similarity.Used)
	s.recordAugmentationOutcomes(ctx, result)
	span.SetAttributes(
		attribute.Int("analysis.overall_score", result.OverallScore),
		attribute.Bool("analysis.similarity_used", result.Augmentation.Similarity.Used),
	)

	s.logger.Info("analysis completed",
		"id", result.ID,
		"overall_score", result.OverallScore,
		"duration_ms", duration.Milliseconds(),
	)

	resp := AnalyzeResponse{Result: result}
	if req.IncludeReport {
		report := insights.Build(*result)
		resp.Report = &report
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) recordAugmentationOutcomes(ctx context.Context, result *types.AnalysisResult) {
	s.om.RecordAugmentation(ctx, "similarity", !result.Augmentation.Similarity.Used)
	s.om.RecordAugmentation(ctx, "skill_confidence", result.Augmentation.SkillSource != types.SkillSourceExternal)
	s.om.RecordAugmentation(ctx, "requirement_coverage", len(result.Augmentation.RequirementCoverage) == 0)
}
