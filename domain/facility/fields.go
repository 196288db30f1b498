package facility

// Field is a column name in the facility table
type Field string

// FieldKind says how a field is read by the charts
type FieldKind string

const (
	KindText        FieldKind = "text"
	KindCategorical FieldKind = "categorical"
	KindNumeric     FieldKind = "numeric"
)

// Source columns of the pre-joined dialysis table
const (
	FieldName                Field = "Name"
	FieldCity                Field = "City"
	FieldStateCode           Field = "StateCode"
	FieldRegion              Field = "Region"
	FieldDivision            Field = "Division"
	FieldNetwork             Field = "Network"
	FieldProfitStatus        Field = "ProfitStatus"
	FieldHospitalAffiliation Field = "HospitalAffiliation"
	FieldTotalStaff          Field = "TotalStaff"
	FieldTotalPatients       Field = "TotalPatients"
	FieldTotalStations       Field = "TotalStations"
	FieldSRR                 Field = "SRR"
	FieldPctgBlack           Field = "PctgBlack"
	FieldPctgHispanic        Field = "PctgHispanic"
	FieldPctgBlackACS        Field = "PctgBlackACS"
	FieldPctgHispanicACS     Field = "PctgHispanicACS"
	FieldPctgPoorEnglish     Field = "PctgPoorEnglish"
	FieldUnemploymentRate    Field = "UnemploymentRate"
	FieldPctgFamilyBelowFPL  Field = "PctgFamilyBelowFPL"
)

// Columns computed once after load
const (
	FieldFacilityInfo        Field = "FacilityInfo"
	FieldStaffPatientRatio   Field = "StaffPatientRatio"
	FieldStationPatientRatio Field = "StationPatientRatio"
)

// OutcomeField is the y-axis of the scatter and the first bar chart.
const OutcomeField = FieldSRR

// schema lists every typed field with its kind. Order is the order the
// loader checks required columns in.
var schema = []struct {
	Field   Field
	Kind    FieldKind
	Derived bool
}{
	{FieldName, KindText, false},
	{FieldCity, KindText, false},
	{FieldStateCode, KindCategorical, false},
	{FieldRegion, KindCategorical, false},
	{FieldDivision, KindCategorical, false},
	{FieldNetwork, KindCategorical, false},
	{FieldProfitStatus, KindCategorical, false},
	{FieldHospitalAffiliation, KindCategorical, false},
	{FieldTotalStaff, KindNumeric, false},
	{FieldTotalPatients, KindNumeric, false},
	{FieldTotalStations, KindNumeric, false},
	{FieldSRR, KindNumeric, false},
	{FieldPctgBlack, KindNumeric, false},
	{FieldPctgHispanic, KindNumeric, false},
	{FieldPctgBlackACS, KindNumeric, false},
	{FieldPctgHispanicACS, KindNumeric, false},
	{FieldPctgPoorEnglish, KindNumeric, false},
	{FieldUnemploymentRate, KindNumeric, false},
	{FieldPctgFamilyBelowFPL, KindNumeric, false},
	{FieldFacilityInfo, KindText, true},
	{FieldStaffPatientRatio, KindNumeric, true},
	{FieldStationPatientRatio, KindNumeric, true},
}

// RequiredColumns returns the source columns a table must carry to load.
func RequiredColumns() []Field {
	var out []Field
	for _, s := range schema {
		if !s.Derived {
			out = append(out, s.Field)
		}
	}
	return out
}

// DerivedColumns returns the computed columns in the order they are appended
// to the table.
func DerivedColumns() []Field {
	var out []Field
	for _, s := range schema {
		if s.Derived {
			out = append(out, s.Field)
		}
	}
	return out
}

// KindOf reports the kind of a schema field.
func KindOf(f Field) (FieldKind, bool) {
	for _, s := range schema {
		if s.Field == f {
			return s.Kind, true
		}
	}
	return "", false
}

// InSchema reports whether f is a typed field of the record.
func InSchema(f Field) bool {
	_, ok := KindOf(f)
	return ok
}
