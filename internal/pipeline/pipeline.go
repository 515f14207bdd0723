package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/halbzeit-ai/review-platform/internal/analysis"
	"github.com/halbzeit-ai/review-platform/internal/logging"
	"github.com/halbzeit-ai/review-platform/internal/models"
	"github.com/halbzeit-ai/review-platform/internal/ollama"
	"github.com/halbzeit-ai/review-platform/internal/progress"
	"github.com/halbzeit-ai/review-platform/internal/render"
	"github.com/halbzeit-ai/review-platform/internal/services"
)

// Generator is the single model-runtime call the pipeline depends on.
type Generator interface {
	Generate(ctx context.Context, req ollama.GenerateRequest, onChunk func(string)) (string, error)
}

// Pipeline runs one deck analysis job to completion through the five ordered
// stages. Processing is strictly sequential: the model runtime and the GPU
// behind it are exclusive resources, so no two inference calls are ever in
// flight at once.
type Pipeline struct {
	registry   *models.Registry
	generator  Generator
	rasterizer render.Rasterizer
	reporter   *progress.Reporter
	stagingDir string
	logger     *slog.Logger
}

// resolvedModels captures the model identifiers actually used for a job.
type resolvedModels struct {
	vision  string
	report  string
	scoring string
	science string
}

// New constructs a pipeline.
func New(registry *models.Registry, generator Generator, rasterizer render.Rasterizer, reporter *progress.Reporter, stagingDir string, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		registry:   registry,
		generator:  generator,
		rasterizer: rasterizer,
		reporter:   reporter,
		stagingDir: stagingDir,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run analyzes one deck. It returns the populated result on success, or an
// error when a stage-fatal failure aborted the job. The caller converts the
// error into a failed status; the job is terminal either way.
func (p *Pipeline) Run(ctx context.Context, job analysis.Job) (*analysis.Result, error) {
	start := time.Now()
	logger := p.logger.With(logging.String(logging.FieldJobID, job.ID))

	p.reporter.Begin(job.ID)

	active := resolvedModels{
		vision:  p.registry.Resolve(ctx, models.CapabilityVision),
		report:  p.registry.Resolve(ctx, models.CapabilityReport),
		scoring: p.registry.Resolve(ctx, models.CapabilityScoring),
		science: p.registry.Resolve(ctx, models.CapabilityScience),
	}
	logger.Info("analysis started",
		logging.String(logging.FieldEventType, "analysis_start"),
		logging.String("deck_file", job.FilePath),
		logging.String("vision_model", active.vision),
		logging.String("report_model", active.report),
	)

	renderDir := filepath.Join(p.stagingDir, job.ID)
	defer func() {
		if err := os.RemoveAll(renderDir); err != nil {
			logger.Warn("failed to clean render directory", logging.Error(err))
		}
	}()

	pages, err := p.runVisualAnalysis(ctx, logger, job, active.vision, renderDir)
	if err != nil {
		p.failJob(logger, err)
		return nil, err
	}

	blob := joinDescriptions(pages)

	offering, err := p.runOfferingSynthesis(ctx, logger, active.report, blob)
	if err != nil {
		p.failJob(logger, err)
		return nil, err
	}

	chapters := p.runChapterAnalysis(ctx, logger, active.report, blob)
	scores := p.runScoring(ctx, logger, active.scoring, blob)
	hypotheses := p.runHypotheses(ctx, logger, active.science, blob)

	result := &analysis.Result{
		CompanyOffering:      offering,
		ReportChapters:       chapters,
		ReportScores:         scores,
		ScientificHypotheses: hypotheses,
		VisualAnalysis:       pages,
		ProcessingMetadata: analysis.ProcessingMetadata{
			VisionModel:        active.vision,
			ReportModel:        active.report,
			ScoreModel:         active.scoring,
			ScienceModel:       active.science,
			TotalPagesAnalyzed: len(pages),
			ProcessingTime:     time.Since(start).Seconds(),
		},
	}

	p.reporter.Update(analysis.StageCompleted, 100, "Analysis completed")
	logger.Info("analysis completed",
		logging.String(logging.FieldEventType, "analysis_complete"),
		logging.Int("pages", len(pages)),
		logging.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (p *Pipeline) failJob(logger *slog.Logger, err error) {
	p.reporter.Update(analysis.StageFailed, 0, fmt.Sprintf("Analysis failed: %v", err))
	logger.Error("analysis failed",
		logging.String(logging.FieldEventType, "analysis_failed"),
		logging.Error(err),
	)
}

// stagePercent converts a completed-stage index into an overall percentage.
// Each of the five stages contributes an equal share.
func stagePercent(stageIndex int) float64 {
	return float64(stageIndex) / float64(len(analysis.PipelineStages())) * 100
}

// generate runs one model call, folding the streamed chunks into a string
// and classifying timeouts for the error taxonomy.
func (p *Pipeline) generate(ctx context.Context, stage analysis.Stage, model, prompt string, images [][]byte) (string, error) {
	text, err := p.generator.Generate(ctx, ollama.GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Images: images,
	}, nil)
	if err != nil {
		if ctx.Err() != nil {
			return "", services.Wrap(services.ErrTimeout, string(stage), "generate", "model call timed out", err)
		}
		return "", err
	}
	return text, nil
}
