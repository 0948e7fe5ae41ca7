package toggle

import (
	"strconv"

	"github.com/conneroisu/togglebench/internal/bench"
	"github.com/conneroisu/togglebench/internal/errors"
)

// Workload is a named toggle benchmark over one collection type.
type Workload struct {
	Name        string
	Description string

	build func(items []string) Toggler[string]
}

// NewWorkload creates a workload whose collections come from build. build is
// handed the prefill keys and must return a new collection on every call.
func NewWorkload(name, description string, build func(items []string) Toggler[string]) Workload {
	return Workload{Name: name, Description: description, build: build}
}

// New builds a fresh collection prefilled with the keys "0" through size-1.
func (w Workload) New(size int) Toggler[string] {
	return w.build(Keys(size))
}

// Func returns a unit of work toggling key in c.
func (w Workload) Func(c Toggler[string], key string) bench.Func {
	return bench.Do(func() { c.Toggle(key) })
}

// Setup returns a factory yielding a unit of work over a freshly built
// collection on every call.
func (w Workload) Setup(size int, key string) func() bench.Func {
	items := Keys(size)
	return func() bench.Func {
		return w.Func(w.build(items), key)
	}
}

// Keys returns the decimal strings "0" through size-1.
func Keys(size int) []string {
	if size <= 0 {
		return nil
	}
	keys := make([]string, size)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}

var registry = []Workload{
	{
		Name:        "set",
		Description: "map with empty struct values",
		build:       func(items []string) Toggler[string] { return NewSet(items...) },
	},
	{
		Name:        "map",
		Description: "map with boolean values",
		build:       func(items []string) Toggler[string] { return NewFlagMap(items...) },
	},
	{
		Name:        "list",
		Description: "unsorted slice with linear search",
		build:       func(items []string) Toggler[string] { return NewList(items...) },
	},
	{
		Name:        "sorted-list",
		Description: "sorted slice with binary search",
		build:       func(items []string) Toggler[string] { return NewSortedList(items...) },
	},
}

// Workloads returns every registered workload in display order.
func Workloads() []Workload {
	out := make([]Workload, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a workload by name.
func Lookup(name string) (Workload, error) {
	for _, w := range registry {
		if w.Name == name {
			return w, nil
		}
	}
	return Workload{}, errors.ErrWorkloadNotFound(name)
}

// Select resolves names to workloads. No names selects all of them.
func Select(names []string) ([]Workload, error) {
	if len(names) == 0 {
		return Workloads(), nil
	}
	out := make([]Workload, 0, len(names))
	for _, name := range names {
		w, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}
