package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/weight-reconciler/internal/config"
	"github.com/ginjaninja78/weight-reconciler/internal/dataset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadCSV decodes delimited text. Every cell is read as text, untrimmed.
//
// PARAMETERS:
//   - r: The CSV content.
//   - name: The dataset name.
//   - settings: Delimiter and encoding settings.
//
// RETURNS:
//   - The decoded dataset.
//   - An error if the content cannot be transcoded or parsed.
func LoadCSV(r io.Reader, name string, settings config.InputSettings) (*dataset.Dataset, error) {
	reader, err := decodingReader(r, settings.Encoding)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	delimiter, err := config.ParseDelimiter(settings.Delimiter)
	if err != nil {
		return nil, err
	}
	if delimiter == 0 {
		delimiter = SniffDelimiter(data)
	}

	csvReader := csv.NewReader(bytes.NewReader(data))
	csvReader.Comma = delimiter

	// Allow a variable number of fields per row and quotes that do not follow
	// strict CSV rules; spreadsheet exports produce both.
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	headerIndex := firstNonEmpty(allRows)
	if headerIndex < 0 {
		return dataset.New(name, []string{}, []dataset.Row{}), nil
	}

	headers := buildHeaders(allRows[headerIndex])
	rows := make([]dataset.Row, 0, len(allRows)-headerIndex-1)

	for _, record := range allRows[headerIndex+1:] {
		if isRowEmpty(record) {
			continue
		}

		row := make(dataset.Row, len(headers))
		for col, header := range headers {
			if col < len(record) {
				row[header] = dataset.Text(record[col])
			} else {
				row[header] = dataset.Text("")
			}
		}
		rows = append(rows, row)
	}

	return dataset.New(name, headers, rows), nil
}

// decodingReader wraps r so that it yields UTF-8.
func decodingReader(r io.Reader, encoding string) (io.Reader, error) {
	name, err := config.NormalizeEncoding(encoding)
	if err != nil {
		return nil, err
	}

	switch name {
	case config.EncodingWindows1252:
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case config.EncodingISO88591:
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return r, nil
	}
}

// SniffDelimiter picks the most frequent of ';', ',' and tab in the first
// line, preferring them in that order on ties. It defaults to ','.
func SniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}

	best, bestCount := ',', 0
	for _, candidate := range []rune{';', ',', '\t'} {
		count := bytes.Count(line, []byte(string(candidate)))
		if count > bestCount {
			best, bestCount = candidate, count
		}
	}
	return best
}
