// Package analysis defines the deck analysis domain model: pipeline stages,
// the fixed report topics, and the aggregate result types exchanged with the
// control process.
package analysis
