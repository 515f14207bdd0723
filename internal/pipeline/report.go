package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/halbzeit-ai/review-platform/internal/analysis"
	"github.com/halbzeit-ai/review-platform/internal/logging"
	"github.com/halbzeit-ai/review-platform/internal/services"
)

// runOfferingSynthesis is stage 2: one call over the joined descriptions
// producing a single sentence describing the product or service. The
// sentence anchors the rest of the report, so a failure here is job-fatal.
func (p *Pipeline) runOfferingSynthesis(ctx context.Context, logger *slog.Logger, model, blob string) (string, error) {
	p.reporter.Update(analysis.StageOffering, stagePercent(1), "Synthesizing company offering")

	offering, err := p.generate(ctx, analysis.StageOffering, model, fmt.Sprintf(offeringPrompt, blob), nil)
	if err != nil {
		return "", services.Wrap(services.ErrStageFatal, string(analysis.StageOffering), "synthesize", "", err)
	}

	logger.Debug("company offering synthesized", logging.String(logging.FieldModel, model))
	return strings.TrimSpace(offering), nil
}

// runChapterAnalysis is stage 3: one call per fixed topic. Topics are
// isolated from each other: a failed topic gets an error-string narrative
// and the remaining topics still run.
func (p *Pipeline) runChapterAnalysis(ctx context.Context, logger *slog.Logger, model, blob string) map[string]string {
	p.reporter.Update(analysis.StageChapters, stagePercent(2), "Analyzing report chapters")

	chapters := make(map[string]string, len(analysis.Topics()))
	eachTopicIsolated(analysis.Topics(), func(topic string) error {
		narrative, err := p.generate(ctx, analysis.StageChapters, model, chapterPrompt(topic, blob), nil)
		if err != nil {
			return err
		}
		chapters[topic] = strings.TrimSpace(narrative)
		return nil
	}, func(topic string, err error) {
		chapters[topic] = fmt.Sprintf("Analysis unavailable for %s: %v", topic, err)
		logger.Warn("chapter analysis failed for topic",
			logging.String(logging.FieldTopic, topic),
			logging.String(logging.FieldModel, model),
			logging.Error(err),
		)
	})
	return chapters
}

// runHypotheses is stage 5: a single science-model call over the joined
// descriptions. Best-effort: a failure stores an error string instead of
// aborting the job.
func (p *Pipeline) runHypotheses(ctx context.Context, logger *slog.Logger, model, blob string) string {
	p.reporter.Update(analysis.StageHypotheses, stagePercent(4), "Extracting scientific hypotheses")

	hypotheses, err := p.generate(ctx, analysis.StageHypotheses, model, fmt.Sprintf(hypothesesPrompt, blob), nil)
	if err != nil {
		logger.Warn("hypotheses extraction failed",
			logging.String(logging.FieldModel, model),
			logging.Error(err),
		)
		return fmt.Sprintf("Hypothesis extraction unavailable: %v", err)
	}
	return strings.TrimSpace(hypotheses)
}
