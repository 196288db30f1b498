package facility

import (
	"maps"
	"strconv"
)

// Record is one dialysis facility row after load and derivation.
type Record struct {
	Name                string
	City                string
	StateCode           string
	FacilityInfo        string
	Region              string
	Division            string
	Network             string
	ProfitStatus        string
	HospitalAffiliation string

	TotalStaff         float64
	TotalPatients      float64
	TotalStations      float64
	SRR                float64
	PctgBlack          float64
	PctgHispanic       float64
	PctgBlackACS       float64
	PctgHispanicACS    float64
	PctgPoorEnglish    float64
	UnemploymentRate   float64
	PctgFamilyBelowFPL float64

	StaffPatientRatio   float64
	StationPatientRatio float64

	// extra holds source columns outside the schema, shown in the table only
	extra map[string]string
}

// Numeric returns the value of a numeric field.
func (r *Record) Numeric(f Field) (float64, bool) {
	switch f {
	case FieldTotalStaff:
		return r.TotalStaff, true
	case FieldTotalPatients:
		return r.TotalPatients, true
	case FieldTotalStations:
		return r.TotalStations, true
	case FieldSRR:
		return r.SRR, true
	case FieldPctgBlack:
		return r.PctgBlack, true
	case FieldPctgHispanic:
		return r.PctgHispanic, true
	case FieldPctgBlackACS:
		return r.PctgBlackACS, true
	case FieldPctgHispanicACS:
		return r.PctgHispanicACS, true
	case FieldPctgPoorEnglish:
		return r.PctgPoorEnglish, true
	case FieldUnemploymentRate:
		return r.UnemploymentRate, true
	case FieldPctgFamilyBelowFPL:
		return r.PctgFamilyBelowFPL, true
	case FieldStaffPatientRatio:
		return r.StaffPatientRatio, true
	case FieldStationPatientRatio:
		return r.StationPatientRatio, true
	}
	return 0, false
}

// Text returns the value of a text or categorical field.
func (r *Record) Text(f Field) (string, bool) {
	switch f {
	case FieldName:
		return r.Name, true
	case FieldCity:
		return r.City, true
	case FieldStateCode:
		return r.StateCode, true
	case FieldFacilityInfo:
		return r.FacilityInfo, true
	case FieldRegion:
		return r.Region, true
	case FieldDivision:
		return r.Division, true
	case FieldNetwork:
		return r.Network, true
	case FieldProfitStatus:
		return r.ProfitStatus, true
	case FieldHospitalAffiliation:
		return r.HospitalAffiliation, true
	}
	return "", false
}

// Cell renders any column of the record for display.
func (r *Record) Cell(column string) string {
	f := Field(column)
	if v, ok := r.Text(f); ok {
		return v
	}
	if v, ok := r.Numeric(f); ok {
		return FormatNumber(v)
	}
	return r.extra[column]
}

// FormatNumber prints integral values without a fractional part.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WithExtra returns a copy of the record carrying display-only columns.
func (r Record) WithExtra(extra map[string]string) Record {
	r.extra = maps.Clone(extra)
	return r
}

func (r Record) clone() Record {
	r.extra = maps.Clone(r.extra)
	return r
}
