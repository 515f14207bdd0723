package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/halbzeit-ai/review-platform/internal/analysis"
	"github.com/halbzeit-ai/review-platform/internal/logging"
)

// runScoring is stage 4: one scoring-model call per topic, parsed into an
// integer in [0, 7]. A parse failure or model failure never aborts the job;
// the topic defaults to 0 with a logged warning.
func (p *Pipeline) runScoring(ctx context.Context, logger *slog.Logger, model, blob string) map[string]int {
	p.reporter.Update(analysis.StageScoring, stagePercent(3), "Scoring report topics")

	scores := make(map[string]int, len(analysis.Topics()))
	eachTopicIsolated(analysis.Topics(), func(topic string) error {
		response, err := p.generate(ctx, analysis.StageScoring, model, scorePrompt(topic, blob), nil)
		if err != nil {
			return err
		}

		score, err := parseScore(response)
		if err != nil {
			logger.Warn("score response not parseable, defaulting to 0",
				logging.String(logging.FieldTopic, topic),
				logging.String(logging.FieldModel, model),
				logging.String("response", truncate(response, 80)),
				logging.Error(err),
			)
			scores[topic] = analysis.MinScore
			return nil
		}
		scores[topic] = analysis.ClampScore(score)
		return nil
	}, func(topic string, err error) {
		scores[topic] = analysis.MinScore
		logger.Warn("scoring call failed for topic, defaulting to 0",
			logging.String(logging.FieldTopic, topic),
			logging.String(logging.FieldModel, model),
			logging.Error(err),
		)
	})
	return scores
}

// parseScore reads the first whitespace-delimited token of a model response
// as an integer.
func parseScore(response string) (int, error) {
	fields := strings.Fields(response)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty score response")
	}
	score, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("score token %q is not an integer", fields[0])
	}
	return score, nil
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
