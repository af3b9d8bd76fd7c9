// =============================================================================
// Weight Reconciler - Dataset Model
// =============================================================================
//
// This package contains the tabular model shared by the loader, the
// reconciliation core and the report layer. Types defined here are used by:
//   - loader     (builds datasets from XLSX / CSV files)
//   - reconcile  (reads cells by header)
//   - comparison (passes datasets between pipeline steps)
//
// HEADER RULE:
//   A dataset's header set is the key set of its first row. For decoded files
//   this is the header row of the sheet. Later rows may lack some keys; a
//   missing key reads as an empty value.
//
// =============================================================================

package dataset

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// =============================================================================
// VALUE
// =============================================================================

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindEmpty is an absent or null cell.
	KindEmpty Kind = iota

	// KindText is a textual cell, possibly the empty string.
	KindText

	// KindNumber is a numeric cell.
	KindNumber
)

// Value is a single cell: text, number, or empty.
// The zero Value is empty.
type Value struct {
	kind   Kind
	text   string
	number float64
}

// Empty returns an empty Value.
func Empty() Value {
	return Value{}
}

// Text returns a textual Value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, number: f}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsEmpty reports whether v is absent.
func (v Value) IsEmpty() bool {
	return v.kind == KindEmpty
}

// Float returns the numeric payload and true when v is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.number, true
}

// Raw returns the textual payload and true when v is text.
func (v Value) Raw() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// Truthy reports whether v would be considered "set": non-empty text or a
// non-zero, non-NaN number.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindText:
		return v.text != ""
	case KindNumber:
		return v.number != 0 && !math.IsNaN(v.number)
	default:
		return false
	}
}

// String coerces v to text. Empty values become "". Numbers use the shortest
// decimal form ("1000", "12.5"), switching to exponent notation ("1e+21",
// "1e-7") outside the [1e-6, 1e21) magnitude range.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return formatNumber(v.number)
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go pads exponents to two digits ("1e-07"); trim the padding.
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mantissa + "e" + sign + digits
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// =============================================================================
// ROW
// =============================================================================

// Row maps a header string to a cell value.
// Rows are treated as immutable once read.
type Row map[string]Value

// Get returns the value stored under header, or an empty Value when the key
// is absent.
func (r Row) Get(header string) Value {
	if r == nil {
		return Value{}
	}
	return r[header]
}

// =============================================================================
// DATASET
// =============================================================================

// Dataset is an ordered sequence of rows sharing a common header set.
type Dataset struct {
	// Name is a display name for the dataset (usually the source file name).
	Name string

	// Headers is the ordered header set, i.e. the first row's keys.
	Headers []string

	// Rows contains the data rows in source order.
	Rows []Row
}

// New creates a dataset from an ordered header list and its rows.
func New(name string, headers []string, rows []Row) *Dataset {
	return &Dataset{
		Name:    name,
		Headers: headers,
		Rows:    rows,
	}
}

// FromRecords builds a dataset from positional records. Record cells beyond
// the header list are dropped; missing trailing cells become empty text.
func FromRecords(name string, headers []string, records [][]Value) *Dataset {
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row := make(Row, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = Text("")
			}
		}
		rows = append(rows, row)
	}
	return New(name, headers, rows)
}

// Len returns the number of data rows, treating a nil dataset as empty.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// HeaderList returns the header set. When no explicit header list was
// recorded, the keys of the first row are returned in lexical order, because
// a Go map carries no ordering of its own.
func (d *Dataset) HeaderList() []string {
	if d == nil {
		return nil
	}
	if d.Headers != nil {
		return d.Headers
	}
	if len(d.Rows) == 0 {
		return []string{}
	}

	keys := make([]string, 0, len(d.Rows[0]))
	for key := range d.Rows[0] {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
