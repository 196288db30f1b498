package app

import (
	"context"
	"strings"
	"testing"

	"dialysisdash/adapters/excel"
	"dialysisdash/domain/facility"
	"dialysisdash/domain/tabular"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const fixtureHeader = "Name,City,StateCode,Network,Region,Division,ProfitStatus,HospitalAffiliation," +
	"TotalStaff,TotalPatients,TotalStations,SRR,PctgBlack,PctgHispanic,PctgBlackACS,PctgHispanicACS," +
	"PctgPoorEnglish,UnemploymentRate,PctgFamilyBelowFPL,ProviderID"

// twelve complete facilities plus three rows the loader must drop
var fixtureRows = []string{
	"Alpha Dialysis,Boston,MA,1,Northeast,New England,Profit,Yes,20,100,20,1.10,30,10,25,12,3.5,4.1,9.0,P01",
	"Beta Kidney,Atlanta,GA,6,South,South Atlantic,Profit,No,15,50,10,0.90,55,5,48,6,1.2,5.0,14.5,P02",
	"Gamma Renal,Denver,CO,15,West,Mountain,Non-Profit,No,12,60,12,1.30,8,35,7,30,6.0,3.9,10.2,P03",
	"Delta Care,Houston,TX,14,South,West South Central,Profit,Yes,30,120,24,0.80,35,40,30,38,12.0,4.8,16.0,P04",
	"Nu Renal,Reno,NV,17,West,Mountain,Profit,No,10,,10,1.00,5,20,5,20,4.0,4.0,9.0,P13",
	"Epsilon,Chicago,IL,10,Midwest,East North Central,Non-Profit,Yes,18,90,15,1.00,45,20,40,22,5.5,6.2,13.0,P05",
	"Zeta,Seattle,WA,16,West,Pacific,Profit,No,10,40,8,1.20,10,12,9,11,4.0,3.5,8.0,P06",
	"Xi Kidney,Provo,UT,15,West,Mountain,Profit,No,5,0,5,1.00,2,10,2,10,1.0,3.0,7.0,P14",
	"Eta,Hartford,CT,1,Northeast,New England,Non-Profit,No,22,110,22,0.95,20,15,18,14,2.5,4.5,7.5,P07",
	"Theta,Miami,FL,7,South,South Atlantic,Profit,No,25,125,25,1.05,40,50,35,60,15.0,5.1,18.0,P08",
	"Omicron,Boise,ID,15,West,Mountain,Profit,No,8,40,8,NA,3,15,3,15,2.0,3.1,8.0,P15",
	"Iota,Omaha,NE,12,Midwest,West North Central,Profit,No,9,45,9,0.85,12,8,10,9,1.5,3.0,9.5,P09",
	"Kappa,Portland,OR,16,West,Pacific,Non-Profit,Yes,14,70,14,1.15,6,15,5,12,3.0,4.0,11.0,P10",
	"Lambda,Newark,NJ,3,Northeast,Middle Atlantic,Profit,Yes,16,80,16,1.25,50,30,45,28,8.0,6.5,15.0,P11",
	"Mu,Tulsa,OK,13,South,West South Central,Profit,No,11,55,11,0.75,15,12,12,10,2.0,4.2,17.0,P12",
}

func fixtureCSV(rows ...string) string {
	return fixtureHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

// MockTableSource is a testify mock of ports.TableSource
type MockTableSource struct {
	mock.Mock
}

func (m *MockTableSource) ReadTable(ctx context.Context) (*tabular.Table, error) {
	args := m.Called(ctx)
	table, _ := args.Get(0).(*tabular.Table)
	return table, args.Error(1)
}

func (m *MockTableSource) Describe() string {
	return "mock table"
}

func sourceFromCSV(t *testing.T, csv string) *MockTableSource {
	t.Helper()
	table, err := excel.ReadFrom(context.Background(), "fixture.csv", strings.NewReader(csv))
	require.NoError(t, err)

	src := &MockTableSource{}
	src.On("ReadTable", mock.Anything).Return(table, nil)
	return src
}

func loadFixture(t *testing.T) *facility.Dataset {
	t.Helper()
	ds, _, err := NewLoader(sourceFromCSV(t, fixtureCSV(fixtureRows...)), nil).Load(context.Background())
	require.NoError(t, err)
	return ds
}
