package model

import (
	"fmt"
	"strings"
)

// Filter narrows which todos are shown. It is view state and never persisted.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterActive Filter = "active"
	FilterDone   Filter = "done"
)

// Filters returns every filter in selector order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterDone}
}

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterAll, FilterActive, FilterDone:
		return f, nil
	case "":
		return FilterAll, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter %q (want all, active or done)", s)
	}
}

// Label is the selector text for f.
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterDone:
		return "Done"
	default:
		return "All"
	}
}

// Next cycles all → active → done → all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterActive
	case FilterActive:
		return FilterDone
	default:
		return FilterAll
	}
}

// Match reports whether t is selected by f. Unknown filters match everything.
func (f Filter) Match(t Todo) bool {
	switch f {
	case FilterActive:
		return !t.Done
	case FilterDone:
		return t.Done
	}
	return true
}

// Visible returns the subsequence of todos selected by f, in order.
// The result never shares its backing array with todos.
func Visible(todos []Todo, f Filter) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
