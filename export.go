// Copyright 2024 The iim Authors
// SPDX-License-Identifier: MIT

package iim

import (
	"encoding/xml"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
)

// xmlListElements maps the list attributes to their wrapper and item element
// names.
var xmlListElements = map[string]struct{ wrapper, item string }{
	"keywords":              {"keywords", "keyword"},
	"supplemental category": {"supplemental-categories", "supplemental-category"},
}

// MarshalJSON renders the attributes as one flat object: scalars as string
// members, lists as array members. The flat form is well defined because
// scalar and list names never overlap.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	all := make(map[string]any, m.Len())
	for name, v := range m.scalars {
		all[name] = v
	}
	for name, v := range m.lists {
		all[name] = v
	}
	return json.Marshal(all)
}

// WriteXML writes the attributes to w as a small XML document rooted at the
// given element name, "photo" if empty. Scalars become one element each in
// sorted name order; element names derive from attribute names with spaces
// turned into hyphens and slashes deleted. List attributes render as a
// wrapper element holding one item element per value in stream order.
func (m *Metadata) WriteXML(w io.Writer, root string) error {
	if root == "" {
		root = "photo"
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")

	start := xml.StartElement{Name: xml.Name{Local: root}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	for _, name := range slices.Sorted(maps.Keys(m.scalars)) {
		if err := encodeXMLElement(enc, xmlElementName(name), m.scalars[name]); err != nil {
			return err
		}
	}

	for _, name := range slices.Sorted(maps.Keys(m.lists)) {
		elements, ok := xmlListElements[name]
		if !ok {
			elements.wrapper = xmlElementName(name)
			elements.item = elements.wrapper
		}
		wrapper := xml.StartElement{Name: xml.Name{Local: elements.wrapper}}
		if err := enc.EncodeToken(wrapper); err != nil {
			return err
		}
		for _, v := range m.lists[name] {
			if err := encodeXMLElement(enc, elements.item, v); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(wrapper.End()); err != nil {
			return err
		}
	}

	if err := enc.EncodeToken(start.End()); err != nil {
		return err
	}
	return enc.Flush()
}

func encodeXMLElement(enc *xml.Encoder, name, value string) error {
	return enc.EncodeElement(value, xml.StartElement{Name: xml.Name{Local: name}})
}

// xmlElementName turns an attribute name into an XML element name, e.g.
// "caption/abstract" becomes "captionabstract" and "by-line title" becomes
// "by-line-title".
func xmlElementName(name string) string {
	name = strings.ReplaceAll(name, " ", "-")
	return strings.ReplaceAll(name, "/", "")
}

// SQLInsert builds a single INSERT statement for the attributes. columns
// maps column name to attribute name; columns appear in sorted column
// order. A scalar attribute inserts verbatim, a list attribute joins with
// ", ", and a column whose attribute is absent is left out. Values are
// single-quoted with '' escaping; the table and column names are taken as
// given and must come from a trusted source.
func (m *Metadata) SQLInsert(table string, columns map[string]string) (string, error) {
	if table == "" {
		return "", fmt.Errorf("no table name provided")
	}

	var names, values []string
	for _, col := range slices.Sorted(maps.Keys(columns)) {
		attr := columns[col]
		v, found := m.scalars[attr]
		if !found {
			vs, foundList := m.lists[attr]
			if !foundList {
				continue
			}
			v = strings.Join(vs, ", ")
		}
		names = append(names, col)
		values = append(values, "'"+strings.ReplaceAll(v, "'", "''")+"'")
	}

	if len(names) == 0 {
		return "", fmt.Errorf("no columns matched any attribute")
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(names, ", "), strings.Join(values, ", ")), nil
}
