// Package services holds the shared error taxonomy used by the analysis
// pipeline and the command worker to classify failures.
package services
