package pipeline

import (
	"github.com/halbzeit-ai/review-platform/internal/render"
)

// The two iteration disciplines of the pipeline are deliberately separate
// helpers: visual analysis aborts the enclosing stage on the first page
// error, while the chapter and scoring loops isolate failures per topic.

// eachPageStrict runs fn for every page in order and stops at the first
// error, which the caller treats as job-fatal.
func eachPageStrict(pages []render.Page, fn func(render.Page) error) error {
	for _, page := range pages {
		if err := fn(page); err != nil {
			return err
		}
	}
	return nil
}

// eachTopicIsolated runs fn for every topic in order. A failing topic is
// reported through onErr and the iteration continues with the next topic.
func eachTopicIsolated(topics []string, fn func(string) error, onErr func(topic string, err error)) {
	for _, topic := range topics {
		if err := fn(topic); err != nil {
			onErr(topic, err)
		}
	}
}
