package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"microtag/internal/fileutil"
)

// DefaultNATokens are the field values read as missing when ReadOptions does
// not provide its own set.
var DefaultNATokens = []string{"", "NA", "N/A", "#N/A", "NaN", "nan", "NULL", "null", "None", "<NA>"}

// ReadOptions controls delimited-file parsing.
type ReadOptions struct {
	// Comma is the field delimiter. Zero infers it from the file extension.
	Comma rune
	// NATokens replaces DefaultNATokens when non-nil.
	NATokens []string
}

// WriteOptions controls delimited-file output.
type WriteOptions struct {
	// Comma is the field delimiter. Zero infers it from the file extension.
	Comma rune
}

// DelimiterFor returns ',' for .csv files and a tab for everything else.
func DelimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ','
	}
	return '\t'
}

// ReadFile parses the delimited file at path. The table is named after the
// file's base name.
func ReadFile(path string, opts ReadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if opts.Comma == 0 {
		opts.Comma = DelimiterFor(path)
	}
	return Read(f, filepath.Base(path), opts)
}

// ReadHeader returns the cleaned column names of the delimited file at path
// without reading its rows.
func ReadHeader(path string, opts ReadOptions) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if opts.Comma == 0 {
		opts.Comma = DelimiterFor(path)
	}
	return readHeader(newReader(f, opts), filepath.Base(path))
}

func newReader(r io.Reader, opts ReadOptions) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = opts.Comma
	if reader.Comma == 0 {
		reader.Comma = '\t'
	}
	reader.LazyQuotes = true
	reader.ReuseRecord = true
	return reader
}

func readHeader(reader *csv.Reader, name string) ([]string, error) {
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file", name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}
	columns := make([]string, len(header))
	for i, cell := range header {
		columns[i] = cleanHeader(cell, i)
	}
	return columns, nil
}

// Read parses delimited text from r. The first record is the header.
func Read(r io.Reader, name string, opts ReadOptions) (*Table, error) {
	reader := newReader(r, opts)
	columns, err := readHeader(reader, name)
	if err != nil {
		return nil, err
	}
	t, err := New(name, columns...)
	if err != nil {
		return nil, err
	}

	na := opts.NATokens
	if na == nil {
		na = DefaultNATokens
	}
	missing := make(map[string]struct{}, len(na))
	for _, tok := range na {
		missing[tok] = struct{}{}
	}

	row := make([]Value, len(columns))
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		for i, field := range record {
			if _, ok := missing[field]; ok {
				row[i] = Missing
				continue
			}
			row[i] = Str(field)
		}
		if err := t.AppendRow(row); err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%s line %d: %w", name, line, err)
		}
	}
	return t, nil
}

// cleanHeader strips a byte-order mark and surrounding whitespace, folds the
// name to NFC, and names blank headers the way pandas does for an unnamed
// index column.
func cleanHeader(cell string, position int) string {
	cell = strings.TrimPrefix(cell, "\ufeff")
	cell = strings.TrimSpace(norm.NFC.String(cell))
	if cell == "" {
		return "Unnamed: " + strconv.Itoa(position)
	}
	return cell
}

// WriteFile writes t to path atomically. Missing cells become empty fields.
func WriteFile(path string, t *Table, opts WriteOptions) error {
	if opts.Comma == 0 {
		opts.Comma = DelimiterFor(path)
	}
	return fileutil.WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		return Write(w, t, opts)
	})
}

// Write serializes t as delimited text with a header row.
func Write(w io.Writer, t *Table, opts WriteOptions) error {
	writer := csv.NewWriter(w)
	writer.Comma = opts.Comma
	if writer.Comma == 0 {
		writer.Comma = '\t'
	}

	if err := writer.Write(t.columns); err != nil {
		return fmt.Errorf("write %s header: %w", t.label(), err)
	}
	record := make([]string, len(t.columns))
	for i := 0; i < t.rows; i++ {
		for c := range t.columns {
			s, _ := t.data[c][i].Get()
			record[c] = s
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write %s row %d: %w", t.label(), i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
