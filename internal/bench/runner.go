// Package bench provides the micro-benchmark runner used to time toggle
// workloads.
//
// A Runner calls a unit of work a fixed number of times on the calling
// goroutine and reports the average wall-clock cost of one call in
// microseconds. Results are meant for comparing workloads against each other
// on the same machine, not as absolute timings.
//
// The runner never catches failures. An error returned by the unit of work is
// handed back to the caller as-is and the remaining iterations are skipped;
// a panic unwinds through Run untouched.
package bench

import (
	"fmt"
	"time"

	"github.com/conneroisu/togglebench/internal/errors"
)

// DefaultCount is the number of iterations used when Runner.Count is zero.
const DefaultCount = 1_000_000

// Func is a unit of work. Any arguments it needs must be bound by the caller.
type Func func() error

// Do adapts a closure that cannot fail into a Func.
func Do(fn func()) Func {
	return func() error {
		fn()
		return nil
	}
}

// Result is the outcome of timing one unit of work.
type Result struct {
	Name          string        `json:"name" yaml:"name"`
	Iterations    int           `json:"iterations" yaml:"iterations"`
	Total         time.Duration `json:"total_ns" yaml:"total_ns"`
	AverageMicros float64       `json:"average_us" yaml:"average_us"`
}

// String renders the console line for the result.
func (r Result) String() string {
	return fmt.Sprintf("Average run for '%s': %.3f microseconds", r.Name, r.AverageMicros)
}

// Runner times units of work.
type Runner struct {
	// Count is the number of iterations per run. Zero selects DefaultCount.
	Count int

	now func() time.Time
}

// NewRunner creates a runner performing count iterations per run.
func NewRunner(count int) *Runner {
	return &Runner{Count: count}
}

func (r *Runner) iterations() (int, error) {
	switch {
	case r.Count == 0:
		return DefaultCount, nil
	case r.Count < 0:
		return 0, errors.ErrInvalidCount(r.Count)
	default:
		return r.Count, nil
	}
}

func (r *Runner) clock() func() time.Time {
	if r.now != nil {
		return r.now
	}
	return time.Now
}

// Run calls fn Count times in sequence and returns the average cost of one
// call. State mutated by fn carries over from one call to the next.
//
// If fn returns an error, Run stops immediately and returns that same error
// with a zero Result.
func (r *Runner) Run(name string, fn Func) (Result, error) {
	count, err := r.iterations()
	if err != nil {
		return Result{}, err
	}

	now := r.clock()
	start := now()
	for i := 0; i < count; i++ {
		if err := fn(); err != nil {
			return Result{}, err
		}
	}
	total := now().Sub(start)

	return newResult(name, count, total), nil
}

// RunIsolated is like Run but calls setup before every iteration to obtain a
// fresh unit of work. Only the unit of work is timed, so each call observes
// the state setup produced rather than what earlier calls left behind.
//
// Timing each call separately adds clock overhead to every sample; compare
// isolated results with other isolated results only.
func (r *Runner) RunIsolated(name string, setup func() Func) (Result, error) {
	count, err := r.iterations()
	if err != nil {
		return Result{}, err
	}

	now := r.clock()
	var total time.Duration
	for i := 0; i < count; i++ {
		fn := setup()
		start := now()
		err := fn()
		total += now().Sub(start)
		if err != nil {
			return Result{}, err
		}
	}

	return newResult(name, count, total), nil
}

// Run times fn with a default runner performing count iterations.
func Run(name string, fn Func, count int) (Result, error) {
	return NewRunner(count).Run(name, fn)
}

// Microseconds converts a total elapsed time across count calls into the
// average per-call cost in microseconds.
func Microseconds(total time.Duration, count int) float64 {
	if count <= 0 {
		return 0
	}
	avg := total.Seconds() / float64(count) * 1_000_000
	if avg < 0 {
		return 0
	}
	return avg
}

func newResult(name string, count int, total time.Duration) Result {
	return Result{
		Name:          name,
		Iterations:    count,
		Total:         total,
		AverageMicros: Microseconds(total, count),
	}
}
