// Package docx recovers tabular structure from Word (.docx) contract documents.
//
// A .docx file is a zip package whose body markup lives in word/document.xml.
// This package extracts that entry, parses the WordprocessingML tree, and
// rebuilds every table as an ordered sequence of rows of cell texts. Only the
// fixed layout the contracts use is supported: label in the first cell, value
// lines in the second.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrNoDocumentBody indicates the package has no word/document.xml entry.
var ErrNoDocumentBody = errors.New("docx: no word/document.xml entry in package")

const documentEntry = "word/document.xml"

// Table is an ordered sequence of rows; each row is an ordered sequence of
// raw cell texts. Cell text joins the cell's paragraphs with a line break.
type Table [][]string

// Document is the recovered content of one contract package.
type Document struct {
	// ContractName is the document's base filename with the extension stripped.
	// It is the identity the dedup gate keys on.
	ContractName string
	Tables       []Table
}

// WordprocessingML element skeleton. Tags carry local names only so the
// parser accepts any namespace prefix the producing application chose.
type xmlDocument struct {
	Body xmlBody `xml:"body"`
}

type xmlBody struct {
	Tables []xmlTable `xml:"tbl"`
}

type xmlTable struct {
	Rows []xmlRow `xml:"tr"`
}

type xmlRow struct {
	Cells []xmlCell `xml:"tc"`
}

type xmlCell struct {
	Paragraphs []xmlParagraph `xml:"p"`
}

type xmlParagraph struct {
	Runs []xmlRun `xml:"r"`
}

type xmlRun struct {
	Texts []string `xml:"t"`
}

// Parse opens a .docx package and recovers its tables.
func Parse(path string) (*Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening package %s: %w", filepath.Base(path), err)
	}
	defer zr.Close()

	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == documentEntry {
			entry = f
			break
		}
	}
	if entry == nil {
		return nil, ErrNoDocumentBody
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("opening document body: %w", err)
	}
	defer rc.Close()

	tables, err := parseBody(rc)
	if err != nil {
		return nil, err
	}

	return &Document{
		ContractName: ContractName(path),
		Tables:       tables,
	}, nil
}

// ContractName derives the contract identity from a document path: the base
// filename with its extension stripped.
func ContractName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseBody decodes the document markup and walks its tables.
func parseBody(r io.Reader) ([]Table, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing document body: %w", err)
	}

	var tables []Table
	for _, t := range doc.Body.Tables {
		table := parseTable(t)
		if len(table) > 0 {
			tables = append(tables, table)
		}
	}
	return tables, nil
}

// parseTable rebuilds one table, dropping rows with zero cells.
func parseTable(t xmlTable) Table {
	var table Table
	for _, r := range t.Rows {
		var row []string
		for _, c := range r.Cells {
			row = append(row, cellText(c))
		}
		if len(row) > 0 {
			table = append(table, row)
		}
	}
	return table
}

// cellText concatenates a cell's text runs per paragraph and joins non-empty
// paragraphs with a line break.
func cellText(c xmlCell) string {
	var paragraphs []string
	for _, p := range c.Paragraphs {
		var sb strings.Builder
		for _, r := range p.Runs {
			for _, t := range r.Texts {
				sb.WriteString(t)
			}
		}
		if text := sb.String(); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return strings.TrimSpace(strings.Join(paragraphs, "\n"))
}
