// Package pipeline runs the five-stage deck analysis: per-page visual
// descriptions, company offering synthesis, chapter narratives, topic
// scores, and scientific hypothesis extraction.
package pipeline
