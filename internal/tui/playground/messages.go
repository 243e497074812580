package playground

import (
	"github.com/msto63/kthxbye/internal/engine"
)

// runFinishedMsg is sent when a run started with ctrl+r completes
type runFinishedMsg struct {
	report *engine.Report
	err    error
}
