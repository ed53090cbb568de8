package orchestrator

import "github.com/paddockml/racesim/internal/domain"

// HistoryLimit bounds the orchestrator's retained run history (spec §4.8.6).
const HistoryLimit = 10

// history is a bounded ring buffer of completed/cancelled/failed runs,
// oldest evicted first. The current run is always the latest appended.
type history struct {
	runs []domain.SimulationRun
}

func (h *history) append(run domain.SimulationRun) {
	h.runs = append(h.runs, run)
	if len(h.runs) > HistoryLimit {
		h.runs = h.runs[len(h.runs)-HistoryLimit:]
	}
}

// snapshot returns a copy of the history, most recent last.
func (h *history) snapshot() []domain.SimulationRun {
	out := make([]domain.SimulationRun, len(h.runs))
	copy(out, h.runs)
	return out
}
