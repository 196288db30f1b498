package facility

import (
	"slices"
)

// Dataset is the immutable, process-wide facility table. It is built once by
// the loader and only read afterwards; every accessor returns copies.
type Dataset struct {
	columns []string
	records []Record
}

// NewDataset copies columns and records into a new read-only dataset.
func NewDataset(columns []string, records []Record) *Dataset {
	ds := &Dataset{
		columns: slices.Clone(columns),
		records: make([]Record, len(records)),
	}
	for i := range records {
		ds.records[i] = records[i].clone()
	}
	return ds
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Columns returns every loaded column in table order.
func (d *Dataset) Columns() []string {
	return slices.Clone(d.columns)
}

// HasColumn reports whether the table carries column.
func (d *Dataset) HasColumn(column string) bool {
	return slices.Contains(d.columns, column)
}

// At returns a copy of record i.
func (d *Dataset) At(i int) Record {
	return d.records[i].clone()
}

// Row renders record i as display cells in column order.
func (d *Dataset) Row(i int) []string {
	rec := &d.records[i]
	row := make([]string, len(d.columns))
	for j, col := range d.columns {
		row[j] = rec.Cell(col)
	}
	return row
}

// NumericValues returns the values of a numeric field in record order.
func (d *Dataset) NumericValues(f Field) ([]float64, bool) {
	if kind, ok := KindOf(f); !ok || kind != KindNumeric {
		return nil, false
	}
	out := make([]float64, len(d.records))
	for i := range d.records {
		out[i], _ = d.records[i].Numeric(f)
	}
	return out, true
}

// TextValues returns the values of a text or categorical field in record order.
func (d *Dataset) TextValues(f Field) ([]string, bool) {
	if kind, ok := KindOf(f); !ok || kind == KindNumeric {
		return nil, false
	}
	out := make([]string, len(d.records))
	for i := range d.records {
		out[i], _ = d.records[i].Text(f)
	}
	return out, true
}
