package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/olist-dashboard/pkg/errors"
	"github.com/xuri/excelize/v2"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// rawTable is a header-indexed grid of trimmed string cells.
type rawTable struct {
	source  string
	columns map[string]int
	rows    [][]string
}

func (t *rawTable) value(row []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (t *rawTable) requireColumns() error {
	// A source with no header at all is an empty dataset, not a schema error.
	if t.columns == nil {
		return nil
	}
	var missing []string
	for _, column := range RequiredColumns[t.source] {
		if _, ok := t.columns[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return configError(t.source, "missing required columns", map[string]any{"missing": missing})
	}
	return nil
}

func newRawTable(source string, records [][]string) *rawTable {
	table := &rawTable{source: source}
	headerIndex := -1
	for idx, row := range records {
		if !isBlankRow(row) {
			headerIndex = idx
			break
		}
	}
	if headerIndex < 0 {
		return table
	}

	table.columns = make(map[string]int, len(records[headerIndex]))
	for idx, name := range records[headerIndex] {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := table.columns[key]; !dup {
			table.columns[key] = idx
		}
	}

	width := len(records[headerIndex])
	for _, row := range records[headerIndex+1:] {
		if isBlankRow(row) {
			continue
		}
		table.rows = append(table.rows, padRow(row, width))
	}
	return table
}

// parseTable picks a reader from the file extension. Workbooks use the first
// sheet; .tsv forces a tab delimiter.
func parseTable(source, fileName string, payload []byte, comma rune) (*rawTable, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		return parseWorkbook(source, payload)
	case ".tsv":
		return parseDelimited(source, payload, '\t')
	default:
		return parseDelimited(source, payload, comma)
	}
}

func parseDelimited(source string, payload []byte, comma rune) (*rawTable, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	if comma != 0 {
		csvReader.Comma = comma
	}
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	var records [][]string
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, configError(source, fmt.Sprintf("malformed delimited data: %v", err), nil)
		}
		records = append(records, record)
	}
	return newRawTable(source, records), nil
}

func parseWorkbook(source string, payload []byte) (*rawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, configError(source, fmt.Sprintf("failed to open workbook: %v", err), nil)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return newRawTable(source, nil), nil
	}
	// Raw values keep prices and dates out of the sheet's display formats.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, configError(source, fmt.Sprintf("failed to read sheet %q: %v", sheets[0], err), nil)
	}
	table := newRawTable(source, rows)

	var date1904 bool
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	table.convertSerialDates(workbookDateColumns[source], date1904)
	return table, nil
}

// workbookDateColumns lists the columns whose workbook cells may hold
// spreadsheet date serials instead of text.
var workbookDateColumns = map[string][]string{
	SourceOrders: {ColPurchaseTimestamp},
}

// workbookTimestampLayout is the text form serial dates are rewritten to.
const workbookTimestampLayout = "2006-01-02 15:04:05"

// convertSerialDates rewrites numeric cells in the given columns as timestamp
// text. Cells that are not numbers are left untouched.
func (t *rawTable) convertSerialDates(columns []string, date1904 bool) {
	for _, column := range columns {
		idx, ok := t.columns[column]
		if !ok {
			continue
		}
		for _, row := range t.rows {
			serial, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
			if err != nil {
				continue
			}
			at, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			row[idx] = at.Round(time.Second).Format(workbookTimestampLayout)
		}
	}
}

func isBlankRow(row []string) bool {
	return !slices.ContainsFunc(row, func(cell string) bool {
		return strings.TrimSpace(cell) != ""
	})
}

func padRow(row []string, length int) []string {
	if len(row) >= length {
		return row
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}

func configError(source, message string, details map[string]any) *pkgerrors.Error {
	if details == nil {
		details = map[string]any{}
	}
	details["source"] = source
	return pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("%s: %s", source, message)).WithDetails(details)
}
