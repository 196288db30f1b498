package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dialysisdash/domain/tabular"

	"github.com/xuri/excelize/v2"
)

// File types understood by DataReader
const (
	FileTypeCSV  = "csv"
	FileTypeTSV  = "tsv"
	FileTypeXLSX = "xlsx"
)

// DataReader handles reading Excel and delimited text files
type DataReader struct {
	filePath string
	fileType string
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	return &DataReader{filePath: filePath, fileType: DetectFileType(filePath)}
}

// DetectFileType maps a file name to a reader type by extension. Anything
// that is not a spreadsheet or tab-separated file is read as CSV.
func DetectFileType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FileTypeXLSX
	case ".tsv", ".tab":
		return FileTypeTSV
	default:
		return FileTypeCSV
	}
}

// Describe names the source for logs
func (r *DataReader) Describe() string {
	return fmt.Sprintf("%s file %s", r.fileType, r.filePath)
}

// ReadTable reads the configured file
func (r *DataReader) ReadTable(ctx context.Context) (*tabular.Table, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	file, err := os.Open(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
		}
		return nil, fmt.Errorf("failed to open %s file: %w", r.fileType, err)
	}
	defer file.Close()

	return ReadFrom(ctx, r.filePath, file)
}

// ReadFrom parses a table from any reader, using name to pick the format
func ReadFrom(ctx context.Context, name string, src io.Reader) (*tabular.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileType := DetectFileType(name)
	readStart := time.Now()

	var (
		rows [][]string
		err  error
	)
	switch fileType {
	case FileTypeXLSX:
		rows, err = readExcelRows(src)
	case FileTypeTSV:
		rows, err = readDelimitedRows(src, '\t')
	default:
		rows, err = readDelimitedRows(src, ',')
	}
	if err != nil {
		return nil, err
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)", name, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("%s must have at least a header row and one data row", name)
	}

	return processRows(name, rows)
}

// readExcelRows reads the first sheet of a workbook
func readExcelRows(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	return rows, nil
}

// readDelimitedRows reads CSV/TSV; short rows are allowed and padded later
func readDelimitedRows(src io.Reader, comma rune) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse delimited file: %w", err)
	}
	return rows, nil
}

// processRows converts raw string rows into a Table
func processRows(name string, rows [][]string) (*tabular.Table, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	seen := make(map[string]bool, len(headerRow))
	for i, header := range headerRow {
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		header = strings.TrimSpace(header)
		if header == "" {
			// exported index columns come without a name
			header = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[header] {
			return nil, fmt.Errorf("%s: duplicate column %q", name, header)
		}
		seen[header] = true
		headers[i] = header
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) > len(headers) {
			return nil, fmt.Errorf("%s: line %d has %d fields, header has %d", name, i+1, len(row), len(headers))
		}
		if isBlank(row) {
			continue
		}

		rowData := make([]string, len(headers))
		for j, cell := range row {
			rowData[j] = strings.TrimSpace(cell)
		}
		dataRows = append(dataRows, rowData)
	}

	log.Printf("[DataReader] %s processed (%d columns, %d rows)", name, len(headers), len(dataRows))

	return &tabular.Table{
		Source:  name,
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
