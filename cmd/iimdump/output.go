package main

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/photometa/iim"
)

// defaultSQLColumns maps column names to attribute names for sql output when
// the config file provides no sql_columns mapping.
var defaultSQLColumns = map[string]string{
	"byline":    "by-line",
	"caption":   "caption/abstract",
	"city":      "city",
	"copyright": "copyright notice",
	"credit":    "credit",
	"headline":  "headline",
	"keywords":  "keywords",
}

func validFormat(f string) bool {
	switch f {
	case "text", "json", "xml", "sql":
		return true
	}
	return false
}

func render(w io.Writer, meta *iim.Metadata, columns map[string]string) error {
	switch format {
	case "json":
		return renderJSON(w, meta)
	case "xml":
		return renderXML(w, meta)
	case "sql":
		return renderSQL(w, meta, columns)
	default:
		return renderText(w, meta)
	}
}

// renderText prints one "name: value" line per attribute, names sorted,
// lists one line per value in stream order.
func renderText(w io.Writer, meta *iim.Metadata) error {
	for _, name := range meta.Names() {
		if v, found := meta.Attribute(name); found {
			if _, err := fmt.Fprintf(w, "%s: %s\n", name, v); err != nil {
				return err
			}
			continue
		}
		for _, v := range meta.List(name) {
			if _, err := fmt.Fprintf(w, "%s: %s\n", name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderJSON(w io.Writer, meta *iim.Metadata) error {
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func renderXML(w io.Writer, meta *iim.Metadata) error {
	if err := meta.WriteXML(w, xmlRoot); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func renderSQL(w io.Writer, meta *iim.Metadata, columns map[string]string) error {
	stmt, err := meta.SQLInsert(sqlTable, columns)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s;\n", stmt)
	return err
}
