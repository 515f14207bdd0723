package analysis

import (
	"strings"
	"time"
)

// Stage identifies one step of the deck analysis pipeline.
type Stage string

const (
	StageReceived       Stage = "received"
	StageVisualAnalysis Stage = "visual_analysis"
	StageOffering       Stage = "company_offering"
	StageChapters       Stage = "chapter_analysis"
	StageScoring        Stage = "scoring"
	StageHypotheses     Stage = "scientific_hypotheses"
	StageCompleted      Stage = "completed"
	StageFailed         Stage = "failed"
)

// pipelineStages lists the five processing stages in execution order.
var pipelineStages = []Stage{
	StageVisualAnalysis,
	StageOffering,
	StageChapters,
	StageScoring,
	StageHypotheses,
}

// PipelineStages returns the ordered processing stages.
func PipelineStages() []Stage {
	cp := make([]Stage, len(pipelineStages))
	copy(cp, pipelineStages)
	return cp
}

// StageIndex returns the 0-based position of a processing stage, or -1 for
// the non-processing states.
func StageIndex(stage Stage) int {
	for i, s := range pipelineStages {
		if s == stage {
			return i
		}
	}
	return -1
}

// Label returns a human-readable stage name for progress display.
func (s Stage) Label() string {
	switch s {
	case StageReceived:
		return "Received"
	case StageVisualAnalysis:
		return "Visual analysis"
	case StageOffering:
		return "Company offering"
	case StageChapters:
		return "Chapter analysis"
	case StageScoring:
		return "Scoring"
	case StageHypotheses:
		return "Scientific hypotheses"
	case StageCompleted:
		return "Completed"
	case StageFailed:
		return "Failed"
	default:
		return string(s)
	}
}

// IsTerminal reports whether the stage is a terminal state.
func (s Stage) IsTerminal() bool {
	return s == StageCompleted || s == StageFailed
}

// topics is the fixed set of report subjects every deck is analyzed against.
var topics = []string{
	"problem",
	"solution",
	"product-market-fit",
	"monetisation",
	"financials",
	"use-of-funds",
	"organisation",
}

// Topics returns the fixed topic set in report order.
func Topics() []string {
	cp := make([]string, len(topics))
	copy(cp, topics)
	return cp
}

// IsTopic reports whether name is one of the fixed topics.
func IsTopic(name string) bool {
	name = strings.TrimSpace(strings.ToLower(name))
	for _, t := range topics {
		if t == name {
			return true
		}
	}
	return false
}

const (
	// MinScore and MaxScore bound every per-topic score.
	MinScore = 0
	MaxScore = 7
)

// ClampScore forces a score into the [MinScore, MaxScore] range.
func ClampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// VisualPageAnalysis is the visual model's description of one rendered page.
type VisualPageAnalysis struct {
	Page        int    `json:"page_number"`
	Description string `json:"description"`
}

// ProcessingMetadata records which models ran and how long the job took.
type ProcessingMetadata struct {
	VisionModel        string  `json:"vision_model"`
	ReportModel        string  `json:"report_model"`
	ScoreModel         string  `json:"score_model"`
	ScienceModel       string  `json:"science_model"`
	TotalPagesAnalyzed int     `json:"total_pages_analyzed"`
	ProcessingTime     float64 `json:"processing_time"`
}

// Result is the aggregate output of a completed deck analysis.
type Result struct {
	CompanyOffering      string               `json:"company_offering"`
	ReportChapters       map[string]string    `json:"report_chapters"`
	ReportScores         map[string]int       `json:"report_scores"`
	ScientificHypotheses string               `json:"scientific_hypotheses"`
	VisualAnalysis       []VisualPageAnalysis `json:"visual_analysis_results"`
	ProcessingMetadata   ProcessingMetadata   `json:"processing_metadata"`
}

// Job identifies one deck analysis request accepted by the worker.
type Job struct {
	ID        string
	FilePath  string
	CreatedAt time.Time
}
