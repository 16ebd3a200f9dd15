package report

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exportdw/internal/config"
	"exportdw/internal/dataset"
	"exportdw/internal/warehouse"
)

// builtStore returns a warehouse populated with three months of facts:
// January 100+200, February 300, March 400 USD FOB.
func builtStore(t *testing.T) *warehouse.Store {
	t.Helper()
	store, err := warehouse.Open(filepath.Join(t.TempDir(), config.WarehouseFileName), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	core := dataset.New(
		config.ColFormNumber, config.ColSerialNumber, config.ColDeclarationDate,
		config.ColExporterTaxID, config.ColExporterName, config.ColExporterAddress,
		config.ColCountryCode, config.ColCountryName, config.ColSubheading,
		config.ColFOBUSD, config.ColNetWeight, config.ColUnitCount,
	)
	add := func(form, serial string, date time.Time, razon, pais, sub string, fob, peso float64) {
		core.AppendRow([]dataset.Cell{
			dataset.String(form), dataset.String(serial), dataset.Date(date),
			dataset.String("900"), dataset.String(razon), dataset.String("Calle 1"),
			dataset.String("CC"), dataset.String(pais), dataset.String(sub),
			dataset.Number(fob), dataset.Number(peso), dataset.Number(1),
		})
	}
	add("F001", "1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), "ACME SAS", "United States", "0901.11", 100, 50)
	add("F001", "2", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), "BETA LTDA", "Germany", "0901.11", 200, 70)
	add("F002", "1", time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), "ACME SAS", "United States", "1701.99", 300, 20)
	add("F003", "1", time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), "BETA LTDA", "Chile", "1701.99", 400, 10)

	require.NoError(t, store.BuildSemanticLayer(context.Background(), core))
	return store
}

func TestFOBByMonth(t *testing.T) {
	store := builtStore(t)
	a := NewAnalyzer(store, nil, &bytes.Buffer{})

	result, err := a.FOBByMonth(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Rows, 3, "one row per populated month")
	assert.Equal(t, []string{"2025", "1", "300"}, result.Rows[0])
	assert.Equal(t, []string{"2025", "2", "300"}, result.Rows[1])
	assert.Equal(t, []string{"2025", "3", "400"}, result.Rows[2])
}

func TestTopCompaniesByFOBFiltersAndLimits(t *testing.T) {
	store := builtStore(t)
	a := NewAnalyzer(store, nil, &bytes.Buffer{})
	ctx := context.Background()

	result, err := a.TopCompaniesByFOB(ctx, 2025, 1, 10)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, []string{"BETA LTDA", "200"}, result.Rows[0], "ordered by FOB descending")
	assert.Equal(t, []string{"ACME SAS", "100"}, result.Rows[1])

	limited, err := a.TopCompaniesByFOB(ctx, 2025, 1, 1)
	require.NoError(t, err)
	assert.Len(t, limited.Rows, 1)

	none, err := a.TopCompaniesByFOB(ctx, 2024, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, none.Rows)
}

func TestTopDestinationsByFOBRange(t *testing.T) {
	store := builtStore(t)
	a := NewAnalyzer(store, nil, &bytes.Buffer{})

	result, err := a.TopDestinationsByFOB(context.Background(), 2025, 1, 2, 10)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2, "March falls outside the range")
	assert.Equal(t, []string{"United States", "400"}, result.Rows[0])
	assert.Equal(t, []string{"Germany", "200"}, result.Rows[1])
}

func TestTopSubheadingsByFOB(t *testing.T) {
	store := builtStore(t)
	a := NewAnalyzer(store, nil, &bytes.Buffer{})

	result, err := a.TopSubheadingsByFOB(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, []string{"1701.99", "700"}, result.Rows[0])
	assert.Equal(t, []string{"0901.11", "300"}, result.Rows[1])
}

func TestTopDestinationsByNetWeight(t *testing.T) {
	store := builtStore(t)
	a := NewAnalyzer(store, nil, &bytes.Buffer{})

	result, err := a.TopDestinationsByNetWeight(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)
	// Germany and United States tie at 70kg; their relative order is up to
	// the engine. Chile is strictly last.
	assert.ElementsMatch(t,
		[][]string{{"Germany", "70"}, {"United States", "70"}},
		result.Rows[:2])
	assert.Equal(t, []string{"Chile", "10"}, result.Rows[2])
}

func TestRunRendersAllReports(t *testing.T) {
	store := builtStore(t)
	var out bytes.Buffer

	require.NoError(t, NewAnalyzer(store, nil, &out).Run(context.Background(), 2025, 3))

	text := out.String()
	assert.Contains(t, text, "Top 10 companies by FOB value (2025-03)")
	assert.Contains(t, text, "Total FOB value by month")
	assert.Contains(t, text, "Top 10 destinations by net weight")
	assert.Contains(t, text, "TOTAL_FOB_USD")
	assert.Contains(t, text, "BETA LTDA")
}

func TestRunAgainstEmptyWarehouseCollectsErrors(t *testing.T) {
	store, err := warehouse.Open(filepath.Join(t.TempDir(), config.WarehouseFileName), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	var out bytes.Buffer
	err = NewAnalyzer(store, nil, &out).Run(context.Background(), 2025, 3)
	assert.Error(t, err, "missing tables surface as collected errors, not a panic")
}
