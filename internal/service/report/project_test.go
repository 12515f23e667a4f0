package report

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/loyalty-admin/internal/model"
)

var update = flag.Bool("update", false, "rewrite golden files")

func fixtures() []model.PurchaseRecord {
	madrid := time.FixedZone("CET", 3600)
	return []model.PurchaseRecord{
		{ID: "p3", CustomerID: "c1", CustomerName: "Ana Pérez", TotalAmount: 125.5, PointsEarned: 12, Date: time.Date(2024, 3, 2, 18, 30, 0, 0, time.UTC)},
		{ID: "p2", CustomerID: "c2", TotalAmount: 40, PointsEarned: 4, Date: time.Date(2024, 3, 2, 10, 0, 0, 0, madrid)},
		{ID: "p1", CustomerID: "c3", CustomerName: "   ", TotalAmount: 0.99, PointsEarned: 0, Date: time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC)},
	}
}

func TestProjectGolden(t *testing.T) {
	got, err := json.MarshalIndent(Project(fixtures()), "", "  ")
	require.NoError(t, err)
	got = append(got, '\n')

	path := filepath.Join("testdata", "report.golden.json")
	if *update {
		require.NoError(t, os.WriteFile(path, got, 0o644))
	}
	want, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestProjectUnknownName(t *testing.T) {
	rows := Project(fixtures())
	require.Len(t, rows, 3)
	assert.Equal(t, "Ana Pérez", rows[0].CustomerName)
	assert.Equal(t, model.UnknownCustomerName, rows[1].CustomerName)
	assert.Equal(t, model.UnknownCustomerName, rows[2].CustomerName)
}

func TestProjectPassesValuesThrough(t *testing.T) {
	in := fixtures()
	rows := Project(in)
	require.Len(t, rows, len(in))
	for i, r := range rows {
		assert.Equal(t, in[i].TotalAmount, r.TotalAmount)
		assert.Equal(t, in[i].PointsEarned, r.PointsEarned)
		assert.Equal(t, in[i].Date, r.Date)
	}
	assert.Equal(t, "CET", rows[1].Date.Location().String())
}

func TestProjectEmpty(t *testing.T) {
	rows := Project(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestReportRowFieldOrder(t *testing.T) {
	typ := reflect.TypeOf(model.ReportRow{})
	var names []string
	for i := 0; i < typ.NumField(); i++ {
		names = append(names, typ.Field(i).Tag.Get("json"))
	}
	assert.Equal(t, []string{"customerName", "totalAmount", "pointsEarned", "date"}, names)
}

func TestArchiveKeepsIDs(t *testing.T) {
	out := Archive(fixtures())
	require.Len(t, out, 3)
	assert.Equal(t, "p3", out[0].PurchaseID)
	assert.Equal(t, "c1", out[0].CustomerID)
	assert.Equal(t, "Ana Pérez", out[0].CustomerName)
	assert.Equal(t, model.UnknownCustomerName, out[1].CustomerName)
	assert.Equal(t, time.UTC, out[1].Date.Location())
	assert.True(t, out[1].Date.Equal(fixtures()[1].Date))
}
