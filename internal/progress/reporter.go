package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/wheat/techdigest/internal/queue"
	"github.com/wheat/techdigest/internal/worker"
)

// Reporter samples a column's counters on a fixed interval and redraws the
// bar on one terminal line until the queue goes idle. It only observes; it
// never blocks or delays the workers.
type Reporter struct {
	queue    *queue.Queue
	counters *worker.Counters
	interval time.Duration
	width    int
	label    string
	out      io.Writer
}

// NewReporter constructs a Reporter writing to out.
func NewReporter(
	q *queue.Queue,
	counters *worker.Counters,
	interval time.Duration,
	width int,
	label string,
	out io.Writer,
) *Reporter {
	if width <= 0 {
		width = DefaultWidth
	}
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Reporter{
		queue:    q,
		counters: counters,
		interval: interval,
		width:    width,
		label:    label,
		out:      out,
	}
}

// Run samples until the queue is idle, then renders one final bar forcing
// completed = total.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for !r.queue.Idle() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		completed, total := r.counters.Snapshot()
		r.draw(completed, total)
	}

	total := r.counters.Total()
	r.draw(total, total)
	fmt.Fprintln(r.out)
}

func (r *Reporter) draw(completed, total int64) {
	title := fmt.Sprintf("%s, total: %d, completed: %d", r.label, total, completed)
	fmt.Fprint(r.out, "\r"+Render(int(completed), int(total), r.width, title))
}
