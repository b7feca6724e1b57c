package progress

import (
	"fmt"
	"io"
	"sync"

	"querybench/internal/aggregate"
)

// Console renders progress as single-line updates followed by one terminal
// line per unit.
type Console struct {
	mu     sync.Mutex
	writer io.Writer
	units  int
	done   int
}

// NewConsole creates a console reporter writing to w for a run of the given
// unit count.
func NewConsole(w io.Writer, units int) *Console {
	if w == nil {
		w = io.Discard
	}
	return &Console{writer: w, units: units}
}

func (c *Console) UnitEvent(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Status {
	case StatusRunning:
		fmt.Fprintf(c.writer, "\r[%d/%d] %s  %3.0f%%", c.done+1, c.units, ev.UnitID, ev.Percent)
	case StatusCompleted:
		c.done++
		fmt.Fprintf(c.writer, "\r[%d/%d] %s  done\n", c.done, c.units, ev.UnitID)
	case StatusFailed:
		c.done++
		fmt.Fprintf(c.writer, "\r[%d/%d] %s  FAILED: %s\n", c.done, c.units, ev.UnitID, ev.Err)
	}
}

func (c *Console) RunComplete(summary aggregate.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.writer,
		"\nUnits: %d | Wins A: %d | Wins B: %d | Ties: %d | Success: %.1f%%\n",
		summary.UnitsCompleted, summary.WinsA, summary.WinsB, summary.Ties, summary.SuccessRate)
}
