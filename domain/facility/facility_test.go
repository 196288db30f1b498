package facility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, FieldSRR, c.Outcome)
	require.Len(t, c.RiskFactors, 9)
	require.Len(t, c.Stratifications, 6)
	require.Len(t, c.Arrangements, 2)

	assert.Equal(t, "StaffPatientRatio", c.RiskFactors[0].Value)
	assert.Equal(t, "Region", c.Stratifications[0].Value)
	assert.Equal(t, "stack", c.Arrangements[0].Value)
	assert.Equal(t, "ESRD Network", c.LabelOf("Network"))

	assert.True(t, c.IsRiskFactor(FieldPctgFamilyBelowFPL))
	assert.False(t, c.IsRiskFactor(FieldRegion))
	assert.True(t, c.IsStratification(FieldStateCode))
	assert.False(t, c.IsStratification(FieldSRR))
	assert.True(t, c.IsArrangement("side"))
}

func TestCatalogOptionsAreSchemaFields(t *testing.T) {
	c := DefaultCatalog()
	for _, o := range c.RiskFactors {
		assert.True(t, InSchema(Field(o.Value)), o.Value)
	}
	for _, o := range c.Stratifications {
		assert.True(t, InSchema(Field(o.Value)), o.Value)
	}
}

func TestDefaultCatalogReturnsCopy(t *testing.T) {
	c := DefaultCatalog()
	c.RiskFactors[0].Value = "Mutated"

	assert.Equal(t, "StaffPatientRatio", DefaultCatalog().RiskFactors[0].Value)
}

func TestParseCatalogRejectsWrongKinds(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "categorical risk factor",
			doc: `outcome: SRR
arrangements: [{label: V, value: stack}]
risk_factors: [{label: R, value: Region}]
stratifications: [{label: R, value: Region}]`,
		},
		{
			name: "numeric stratification",
			doc: `outcome: SRR
arrangements: [{label: V, value: stack}]
risk_factors: [{label: S, value: SRR}]
stratifications: [{label: S, value: SRR}]`,
		},
		{
			name: "unknown outcome",
			doc: `outcome: Readmissions
arrangements: [{label: V, value: stack}]
risk_factors: [{label: S, value: SRR}]
stratifications: [{label: R, value: Region}]`,
		},
		{
			name: "empty lists",
			doc:  `outcome: SRR`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestDatasetIsReadOnly(t *testing.T) {
	recs := []Record{
		{Name: "Alpha", City: "Austin", StateCode: "TX", SRR: 1.1, TotalPatients: 10},
	}
	recs[0] = recs[0].WithExtra(map[string]string{"ProviderID": "452301"})
	ds := NewDataset([]string{"Name", "SRR", "ProviderID"}, recs)

	recs[0].Name = "Changed"
	cols := ds.Columns()
	cols[0] = "Changed"

	assert.Equal(t, "Alpha", ds.At(0).Name)
	assert.Equal(t, []string{"Name", "SRR", "ProviderID"}, ds.Columns())
	assert.Equal(t, []string{"Alpha", "1.1", "452301"}, ds.Row(0))

	vals, ok := ds.NumericValues(FieldSRR)
	require.True(t, ok)
	vals[0] = 99
	again, _ := ds.NumericValues(FieldSRR)
	assert.Equal(t, 1.1, again[0])

	_, ok = ds.NumericValues(FieldRegion)
	assert.False(t, ok)
	_, ok = ds.TextValues(FieldSRR)
	assert.False(t, ok)
}

func TestRequiredAndDerivedColumns(t *testing.T) {
	assert.Len(t, RequiredColumns(), 19)
	assert.Equal(t, []Field{FieldFacilityInfo, FieldStaffPatientRatio, FieldStationPatientRatio}, DerivedColumns())
}
