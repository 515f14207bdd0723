package progress

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/halbzeit-ai/review-platform/internal/analysis"
	"github.com/halbzeit-ai/review-platform/internal/fileutil"
	"github.com/halbzeit-ai/review-platform/internal/logging"
)

// Snapshot is the lightweight progress view a polling frontend reads
// independently of the command status files.
type Snapshot struct {
	JobID      string  `json:"job_id"`
	Stage      string  `json:"stage"`
	Percentage float64 `json:"percentage"`
	Message    string  `json:"message"`
}

// Reporter publishes per-job progress snapshots into the progress directory.
// Percentage is monotonically non-decreasing within one job; it resets only
// when Begin starts a new job. Write failures are logged and swallowed:
// progress is a side-channel and must never fail the pipeline.
type Reporter struct {
	dir    string
	logger *slog.Logger

	mu      sync.Mutex
	current Snapshot
}

// NewReporter constructs a reporter writing into dir.
func NewReporter(dir string, logger *slog.Logger) *Reporter {
	return &Reporter{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "progress"),
	}
}

// Begin resets progress for a new job and publishes the initial snapshot.
func (r *Reporter) Begin(jobID string) {
	r.mu.Lock()
	r.current = Snapshot{
		JobID:      jobID,
		Stage:      string(analysis.StageReceived),
		Percentage: 0,
		Message:    analysis.StageReceived.Label(),
	}
	snapshot := r.current
	r.mu.Unlock()
	r.publish(snapshot)
}

// Update publishes a new snapshot for the current job. A percentage lower
// than the last published value is clamped up to keep reads monotonic.
func (r *Reporter) Update(stage analysis.Stage, percentage float64, message string) {
	r.mu.Lock()
	if r.current.JobID == "" {
		r.mu.Unlock()
		return
	}
	if percentage < r.current.Percentage {
		percentage = r.current.Percentage
	}
	if percentage > 100 {
		percentage = 100
	}
	r.current.Stage = string(stage)
	r.current.Percentage = percentage
	r.current.Message = message
	snapshot := r.current
	r.mu.Unlock()
	r.publish(snapshot)
}

func (r *Reporter) publish(snapshot Snapshot) {
	if r.dir == "" {
		return
	}
	path := filepath.Join(r.dir, snapshot.JobID+".json")
	if err := fileutil.WriteJSONAtomic(path, snapshot); err != nil {
		r.logger.Warn("failed to publish progress snapshot",
			logging.String(logging.FieldJobID, snapshot.JobID),
			logging.Error(err),
		)
	}
}

// Read loads the snapshot for jobID from dir. The file may legitimately not
// exist yet (job not started) or anymore (cleaned up); callers distinguish
// that through os.IsNotExist on the returned error.
func Read(dir, jobID string) (Snapshot, error) {
	var snapshot Snapshot
	err := fileutil.ReadJSON(filepath.Join(dir, jobID+".json"), &snapshot)
	return snapshot, err
}
