package pathfinder

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/transitsim/pathfinder/internal/logging"
)

// tracer writes a human-readable search trace for one query. It is advisory
// only: creation failures are logged and the search proceeds untraced, and
// a nil tracer is safe to call.
type tracer struct {
	f *os.File
}

func newTracer(outputDir string, workerID int, spec PathSpecification, logger *slog.Logger) *tracer {
	if !spec.Trace || outputDir == "" {
		return nil
	}
	name := fmt.Sprintf("trace_worker%02d_pax%d_path%d.log", workerID, spec.TravelerID, spec.PathID)
	f, err := os.Create(filepath.Join(outputDir, name))
	if err != nil {
		logging.LogError(logger, "could not create trace file", err,
			slog.String("file", name))
		return nil
	}
	return &tracer{f: f}
}

func (t *tracer) logf(format string, args ...any) {
	if t == nil {
		return
	}
	fmt.Fprintf(t.f, format+"\n", args...)
}

func (t *tracer) close(logger *slog.Logger) {
	if t == nil {
		return
	}
	logging.SafeCloseWithLogging(t.f, logger, "trace file")
}
