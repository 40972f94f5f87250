package smt

import (
	"fmt"
	"sort"
	"strings"
)

// Assignment is the value a model gives to one free symbol.
type Assignment struct {
	Name  string
	ID    uint64
	Sort  Sort
	Value string
}

// Symbol is the solver-level name of the assigned symbol. Unlike Name it is
// unique within a model.
func (a Assignment) Symbol() string {
	return symbolName(a.Name, a.ID)
}

func (a Assignment) String() string {
	return fmt.Sprintf("%s = %s", a.Symbol(), a.Value)
}

type Model struct {
	assignments []Assignment
}

func NewModel(assignments ...Assignment) *Model {
	m := &Model{
		assignments: make([]Assignment, 0, len(assignments)),
	}
	for _, a := range assignments {
		m.Add(a)
	}
	return m
}

func (m *Model) Add(a Assignment) {
	m.assignments = append(m.assignments, a)
}

// Assignments returns a copy sorted by name, then allocation id.
func (m *Model) Assignments() []Assignment {
	result := make([]Assignment, len(m.assignments))
	copy(result, m.assignments)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (m *Model) Len() int {
	return len(m.assignments)
}

func (m *Model) String() string {
	lines := make([]string, 0, len(m.assignments))
	for _, a := range m.Assignments() {
		lines = append(lines, a.String())
	}
	return strings.Join(lines, "\n")
}
