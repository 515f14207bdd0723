package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/halbzeit-ai/review-platform/internal/analysis"
	"github.com/halbzeit-ai/review-platform/internal/logging"
	"github.com/halbzeit-ai/review-platform/internal/render"
	"github.com/halbzeit-ai/review-platform/internal/services"
)

// runVisualAnalysis is stage 1: every page is rendered and described by the
// vision model. The stage is all-or-nothing: a failure on any page aborts
// the job so downstream stages never summarize an incomplete deck.
func (p *Pipeline) runVisualAnalysis(ctx context.Context, logger *slog.Logger, job analysis.Job, model, renderDir string) ([]analysis.VisualPageAnalysis, error) {
	p.reporter.Update(analysis.StageVisualAnalysis, 0, "Rendering pages")

	pages, err := p.rasterizer.RenderPages(ctx, job.FilePath, renderDir)
	if err != nil {
		return nil, services.Wrap(services.ErrStageFatal, string(analysis.StageVisualAnalysis), "render", "", err)
	}

	total := len(pages)
	results := make([]analysis.VisualPageAnalysis, 0, total)
	err = eachPageStrict(pages, func(page render.Page) error {
		image, err := os.ReadFile(page.Path)
		if err != nil {
			return fmt.Errorf("read page %d image: %w", page.Number, err)
		}

		description, err := p.generate(ctx, analysis.StageVisualAnalysis, model, visualPrompt, [][]byte{image})
		if err != nil {
			return fmt.Errorf("describe page %d: %w", page.Number, err)
		}

		results = append(results, analysis.VisualPageAnalysis{
			Page:        page.Number,
			Description: strings.TrimSpace(description),
		})

		p.reporter.Update(
			analysis.StageVisualAnalysis,
			float64(page.Number)/float64(total)*stagePercent(1),
			fmt.Sprintf("Described page %d of %d", page.Number, total),
		)
		logger.Debug("page described",
			logging.Int(logging.FieldPage, page.Number),
			logging.String(logging.FieldModel, model),
		)
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrStageFatal, string(analysis.StageVisualAnalysis), "describe", "", err)
	}

	return results, nil
}

// joinDescriptions concatenates the page descriptions in page order into the
// single text blob the report stages prompt over.
func joinDescriptions(pages []analysis.VisualPageAnalysis) string {
	var sb strings.Builder
	for i, page := range pages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Page %d: %s", page.Page, page.Description)
	}
	return sb.String()
}
