package models

import "time"

// Section is a named, ordered column of a project's board
type Section struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Position int    `json:"position"`
}

// Update is one entry of a project's audit trail
type Update struct {
	User   string    `json:"user"`
	Action string    `json:"action"`
	Date   time.Time `json:"date"`
}

// Project is the top-level container of sections and their tasks
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	Sections    []Section `json:"sections"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	// Deadline is a calendar date or timestamp string, empty when unset
	Deadline string   `json:"deadline,omitempty"`
	Updates  []Update `json:"updates,omitzero"`
}

// Section returns the section with the given id
func (p *Project) Section(id string) (Section, bool) {
	for _, s := range p.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Clone returns a deep copy of the project
func (p Project) Clone() Project {
	p.Sections = cloneSlice(p.Sections)
	p.Updates = cloneSlice(p.Updates)
	return p
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
