// Package toggle holds the collections whose toggle operation is measured.
//
// Every collection toggles membership the same way: a key that is absent is
// inserted, a key that is present is removed. Toggling the same key twice
// restores the original membership.
package toggle

import (
	"cmp"
	"slices"
)

// Toggler is a collection supporting membership toggling.
type Toggler[T comparable] interface {
	Toggle(key T)
	Contains(key T) bool
	Len() int
	Items() []T
}

// Set stores members as keys of a map with empty values.
type Set[T comparable] map[T]struct{}

// NewSet creates a set holding items.
func NewSet[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s Set[T]) Toggle(key T) {
	if _, ok := s[key]; ok {
		delete(s, key)
	} else {
		s[key] = struct{}{}
	}
}

func (s Set[T]) Contains(key T) bool {
	_, ok := s[key]
	return ok
}

func (s Set[T]) Len() int { return len(s) }

// Items returns the members in no particular order.
func (s Set[T]) Items() []T {
	items := make([]T, 0, len(s))
	for item := range s {
		items = append(items, item)
	}
	return items
}

// FlagMap stores members as keys mapped to true.
type FlagMap[T comparable] map[T]bool

// NewFlagMap creates a flag map holding items.
func NewFlagMap[T comparable](items ...T) FlagMap[T] {
	m := make(FlagMap[T], len(items))
	for _, item := range items {
		m[item] = true
	}
	return m
}

func (m FlagMap[T]) Toggle(key T) {
	if m[key] {
		delete(m, key)
	} else {
		m[key] = true
	}
}

func (m FlagMap[T]) Contains(key T) bool { return m[key] }

func (m FlagMap[T]) Len() int { return len(m) }

// Items returns the members in no particular order.
func (m FlagMap[T]) Items() []T {
	items := make([]T, 0, len(m))
	for item, present := range m {
		if present {
			items = append(items, item)
		}
	}
	return items
}

// List keeps members in insertion order and searches linearly.
type List[T comparable] struct {
	items []T
}

// NewList creates a list holding items. Duplicates are dropped.
func NewList[T comparable](items ...T) *List[T] {
	l := &List[T]{items: make([]T, 0, len(items))}
	for _, item := range items {
		if !slices.Contains(l.items, item) {
			l.items = append(l.items, item)
		}
	}
	return l
}

func (l *List[T]) Toggle(key T) {
	if i := slices.Index(l.items, key); i >= 0 {
		l.items = slices.Delete(l.items, i, i+1)
	} else {
		l.items = append(l.items, key)
	}
}

func (l *List[T]) Contains(key T) bool { return slices.Contains(l.items, key) }

func (l *List[T]) Len() int { return len(l.items) }

// Items returns a copy of the members in insertion order.
func (l *List[T]) Items() []T { return slices.Clone(l.items) }

// SortedList keeps members sorted and locates them by binary search.
type SortedList[T cmp.Ordered] struct {
	items []T
}

// NewSortedList creates a sorted list holding items. Duplicates are dropped.
func NewSortedList[T cmp.Ordered](items ...T) *SortedList[T] {
	sorted := slices.Clone(items)
	slices.Sort(sorted)
	return &SortedList[T]{items: slices.Compact(sorted)}
}

func (l *SortedList[T]) Toggle(key T) {
	i, found := slices.BinarySearch(l.items, key)
	if found {
		l.items = slices.Delete(l.items, i, i+1)
	} else {
		l.items = slices.Insert(l.items, i, key)
	}
}

func (l *SortedList[T]) Contains(key T) bool {
	_, found := slices.BinarySearch(l.items, key)
	return found
}

func (l *SortedList[T]) Len() int { return len(l.items) }

// Items returns a copy of the members in ascending order.
func (l *SortedList[T]) Items() []T { return slices.Clone(l.items) }
