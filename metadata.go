package iim

import (
	"slices"
)

// Metadata holds the attributes decoded from one IIM application record
// block. Scalar and list attribute names never overlap; whether an attribute
// is single-valued or repeating is fixed by the dataset tables.
type Metadata struct {
	scalars map[string]string
	lists   map[string][]string
}

// Attribute returns the value of the named scalar attribute.
func (m *Metadata) Attribute(name string) (string, bool) {
	v, found := m.Scalars()[name]
	return v, found
}

// List returns the values of the named list attribute in stream order.
func (m *Metadata) List(name string) []string {
	return m.Lists()[name]
}

// Keywords returns the "keywords" list.
func (m *Metadata) Keywords() []string {
	return m.List("keywords")
}

// SupplementalCategories returns the "supplemental category" list.
func (m *Metadata) SupplementalCategories() []string {
	return m.List("supplemental category")
}

// Scalars returns the scalar attributes.
func (m *Metadata) Scalars() map[string]string {
	if m.scalars == nil {
		m.scalars = make(map[string]string)
	}
	return m.scalars
}

// Lists returns the list attributes.
func (m *Metadata) Lists() map[string][]string {
	if m.lists == nil {
		m.lists = make(map[string][]string)
	}
	return m.lists
}

// Names returns the names of all attributes present, sorted.
func (m *Metadata) Names() []string {
	names := make([]string, 0, m.Len())
	for name := range m.scalars {
		names = append(names, name)
	}
	for name := range m.lists {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of distinct attributes present.
func (m *Metadata) Len() int {
	return len(m.scalars) + len(m.lists)
}

func (m *Metadata) setScalar(name, value string) {
	m.Scalars()[name] = value
}

func (m *Metadata) appendList(name, value string) {
	m.Lists()[name] = append(m.lists[name], value)
}
