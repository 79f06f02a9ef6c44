package model

import (
	"fmt"
	"strings"
)

// Todo is the domain model for a todo entry.
// ID and Title never change after creation; only Done flips.
type Todo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Validate reports whether t could have been produced by an add.
func (t Todo) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("todo: empty id")
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("todo %s: blank title", t.ID)
	}
	return nil
}

// ValidateAll checks every record and id uniqueness across the collection.
func ValidateAll(todos []Todo) error {
	seen := make(map[string]struct{}, len(todos))
	for _, t := range todos {
		if err := t.Validate(); err != nil {
			return err
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("todo %s: duplicate id", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

// Count splits the collection into done and pending totals.
func Count(todos []Todo) (done, pending int) {
	for _, t := range todos {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return
}
