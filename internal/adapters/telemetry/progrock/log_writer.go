package progrock

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vito/progrock"
	"go.trai.ch/basesweep/internal/core/ports"
)

var _ progrock.Writer = (*LogWriter)(nil)

// LogWriter is a progrock.Writer that renders vertex output and completion
// as debug log lines.
type LogWriter struct {
	logger ports.Logger

	mu    sync.Mutex
	names map[string]string
	done  map[string]struct{}
}

// NewLogWriter creates a LogWriter reporting to logger.
func NewLogWriter(logger ports.Logger) *LogWriter {
	return &LogWriter{
		logger: logger,
		names:  make(map[string]string),
		done:   make(map[string]struct{}),
	}
}

// WriteStatus implements progrock.Writer.
func (w *LogWriter) WriteStatus(update *progrock.StatusUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, v := range update.GetVertexes() {
		w.names[v.GetId()] = v.GetName()
	}

	for _, l := range update.GetLogs() {
		name := w.names[l.GetVertex()]
		for _, line := range strings.Split(strings.TrimRight(string(l.GetData()), "\n"), "\n") {
			if line != "" {
				w.logger.Debug(name + ": " + line)
			}
		}
	}

	for _, v := range update.GetVertexes() {
		if v.GetCompleted() == nil {
			continue
		}
		if _, ok := w.done[v.GetId()]; ok {
			continue
		}
		w.done[v.GetId()] = struct{}{}

		elapsed := v.GetCompleted().AsTime().Sub(v.GetStarted().AsTime()).Round(time.Millisecond)
		if v.Error != nil {
			w.logger.Debug(fmt.Sprintf("%s: failed after %s: %s", v.GetName(), elapsed, v.GetError()))
			continue
		}
		w.logger.Debug(fmt.Sprintf("%s: done in %s", v.GetName(), elapsed))
	}
	return nil
}

// Close implements progrock.Writer.
func (w *LogWriter) Close() error {
	return nil
}
