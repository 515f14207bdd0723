// Package ollama is the client for the local model runtime that owns the
// GPU: streamed generation with optional page images, plus the model
// lifecycle operations (list, pull, delete).
package ollama
