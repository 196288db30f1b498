package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dialysisdash/adapters/datareadiness/coercer"
	"dialysisdash/domain/facility"
	"dialysisdash/domain/tabular"
	"dialysisdash/internal"
	"dialysisdash/internal/errors"
	"dialysisdash/ports"
)

// Loader builds the immutable facility dataset from a table source. It is
// meant to run once at startup.
type Loader struct {
	source  ports.TableSource
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// LoadReport summarizes what the loader kept and dropped
type LoadReport struct {
	Source              string        `json:"source"`
	RowsRead            int           `json:"rows_read"`
	DroppedIncomplete   int           `json:"dropped_incomplete"`
	DroppedZeroPatients int           `json:"dropped_zero_patients"`
	RowsLoaded          int           `json:"rows_loaded"`
	Columns             int           `json:"columns"`
	Duration            time.Duration `json:"duration"`
}

// NewLoader creates a loader over source
func NewLoader(source ports.TableSource, logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{
		source:  source,
		coercer: coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()),
		logger:  logger.With("Loader"),
	}
}

// Load reads the source, drops incomplete rows, coerces numeric columns and
// derives the computed columns. Every failure is a DATA_LOAD_ERROR.
func (l *Loader) Load(ctx context.Context) (*facility.Dataset, *LoadReport, error) {
	start := time.Now()
	report := &LoadReport{Source: l.source.Describe()}

	table, err := l.source.ReadTable(ctx)
	if err != nil {
		return nil, report, errors.DataLoad(fmt.Sprintf("failed to read %s", report.Source), err)
	}
	report.RowsRead = len(table.Rows)

	cols, err := resolveColumns(table)
	if err != nil {
		return nil, report, err
	}

	records := make([]facility.Record, 0, len(table.Rows))
	for i := range table.Rows {
		if l.incomplete(table, i) {
			report.DroppedIncomplete++
			continue
		}

		rec, err := l.buildRecord(table, cols, i)
		if err != nil {
			return nil, report, err
		}
		if rec.TotalPatients <= 0 {
			report.DroppedZeroPatients++
			continue
		}
		records = append(records, derive(rec))
	}

	if len(records) == 0 {
		return nil, report, errors.DataLoad(fmt.Sprintf("%s has no complete facility rows", report.Source), nil)
	}

	columns := append([]string(nil), table.Headers...)
	for _, f := range facility.DerivedColumns() {
		if table.Index(string(f)) < 0 {
			columns = append(columns, string(f))
		}
	}

	ds := facility.NewDataset(columns, records)
	report.RowsLoaded = ds.Len()
	report.Columns = len(columns)
	report.Duration = time.Since(start)

	l.logger.Info("loaded %d facilities from %s (%d read, %d incomplete, %d without patients) in %s",
		report.RowsLoaded, report.Source, report.RowsRead, report.DroppedIncomplete, report.DroppedZeroPatients, report.Duration)

	return ds, report, nil
}

// columnIndex maps schema fields to table positions
type columnIndex struct {
	fields map[facility.Field]int
	extra  []int
}

func resolveColumns(table *tabular.Table) (*columnIndex, error) {
	idx := &columnIndex{fields: make(map[facility.Field]int)}

	var missing []string
	for _, f := range facility.RequiredColumns() {
		pos := table.Index(string(f))
		if pos < 0 {
			missing = append(missing, string(f))
			continue
		}
		idx.fields[f] = pos
	}
	if len(missing) > 0 {
		return nil, errors.DataLoad(fmt.Sprintf("%s is missing expected columns: %s", table.Source, strings.Join(missing, ", ")), nil)
	}

	for i, h := range table.Headers {
		if !facility.InSchema(facility.Field(h)) {
			idx.extra = append(idx.extra, i)
		}
	}
	return idx, nil
}

// incomplete reports whether any cell of row i is missing. Every column
// counts, not only the ones the charts read.
func (l *Loader) incomplete(table *tabular.Table, i int) bool {
	for j := range table.Headers {
		if l.coercer.IsMissing(table.Cell(i, j)) {
			return true
		}
	}
	return false
}

func (l *Loader) buildRecord(table *tabular.Table, cols *columnIndex, i int) (facility.Record, error) {
	text := func(f facility.Field) string {
		return table.Cell(i, cols.fields[f])
	}

	var parseErr error
	num := func(f facility.Field) float64 {
		if parseErr != nil {
			return 0
		}
		v, err := l.coercer.ParseNumeric(text(f))
		if err != nil {
			parseErr = errors.DataLoad(fmt.Sprintf("%s row %d column %s", table.Source, i+1, f), err)
		}
		return v
	}

	rec := facility.Record{
		Name:                text(facility.FieldName),
		City:                text(facility.FieldCity),
		StateCode:           text(facility.FieldStateCode),
		Region:              text(facility.FieldRegion),
		Division:            text(facility.FieldDivision),
		Network:             networkLabel(l.coercer, text(facility.FieldNetwork)),
		ProfitStatus:        text(facility.FieldProfitStatus),
		HospitalAffiliation: text(facility.FieldHospitalAffiliation),
		TotalStaff:          num(facility.FieldTotalStaff),
		TotalPatients:       num(facility.FieldTotalPatients),
		TotalStations:       num(facility.FieldTotalStations),
		SRR:                 num(facility.FieldSRR),
		PctgBlack:           num(facility.FieldPctgBlack),
		PctgHispanic:        num(facility.FieldPctgHispanic),
		PctgBlackACS:        num(facility.FieldPctgBlackACS),
		PctgHispanicACS:     num(facility.FieldPctgHispanicACS),
		PctgPoorEnglish:     num(facility.FieldPctgPoorEnglish),
		UnemploymentRate:    num(facility.FieldUnemploymentRate),
		PctgFamilyBelowFPL:  num(facility.FieldPctgFamilyBelowFPL),
	}
	if parseErr != nil {
		return facility.Record{}, parseErr
	}

	if len(cols.extra) > 0 {
		extra := make(map[string]string, len(cols.extra))
		for _, j := range cols.extra {
			extra[table.Headers[j]] = table.Cell(i, j)
		}
		rec = rec.WithExtra(extra)
	}
	return rec, nil
}

// networkLabel renders the ESRD network number as "No. <n>". Numeric cells
// such as "5.0" collapse to "No. 5".
func networkLabel(c *coercer.TypeCoercer, raw string) string {
	if v, err := c.ParseNumeric(raw); err == nil {
		return "No. " + facility.FormatNumber(v)
	}
	return "No. " + raw
}

// derive fills the computed columns. TotalPatients is known to be positive.
func derive(rec facility.Record) facility.Record {
	rec.FacilityInfo = rec.Name + ", " + rec.City + ", " + rec.StateCode
	rec.StaffPatientRatio = rec.TotalStaff / rec.TotalPatients
	rec.StationPatientRatio = rec.TotalStations / rec.TotalPatients
	return rec
}
