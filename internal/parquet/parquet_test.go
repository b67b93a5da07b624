package parquet

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/kpitrend/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKPIRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	s := parquet.SchemaOf(new(KPIRow))
	require.NotNil(t, s)

	expectedColumns := []string{"row_num", "date_key"}
	for _, m := range schema.MetricSet {
		expectedColumns = append(expectedColumns, m.Key)
	}

	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Run))
	require.NotNil(t, s)

	expectedColumns := []string{
		"run_id",
		"date_key",
		"start_time",
		"end_time",
		"outcome",
		"completeness",
		"positive_count",
		"tier",
	}

	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func sampleRows() []schema.KPIRow {
	return []schema.KPIRow{
		{Row: 1, Date: "01/02/2022", Values: []schema.Cell{
			{Value: 100, Present: true}, {Value: 250, Present: true}, {Value: 40, Present: true},
			{Value: 7, Present: true}, {Value: 900, Present: true},
		}},
		{Row: 2, Date: "02/02/2022", Values: []schema.Cell{
			{Value: 0, Present: true}, {}, {Value: 12, Present: true}, {}, {},
		}},
		{Row: 3, Date: "03/02/2022", Values: make([]schema.Cell, len(schema.MetricSet))},
	}
}

func TestConvertKPIRows(t *testing.T) {
	converted := ConvertKPIRows(sampleRows())
	require.Len(t, converted, 3)

	first := converted[0]
	assert.Equal(t, int32(1), first.RowNum)
	assert.Equal(t, "01/02/2022", first.DateKey)
	require.NotNil(t, first.AppOpens)
	assert.Equal(t, int64(100), *first.AppOpens)
	require.NotNil(t, first.Swipes)
	assert.Equal(t, int64(900), *first.Swipes)

	// A present zero is not the same as an absent cell
	second := converted[1]
	require.NotNil(t, second.AppOpens)
	assert.Equal(t, int64(0), *second.AppOpens)
	assert.Nil(t, second.ScreenViews)
	assert.Nil(t, second.Swipes)

	third := converted[2]
	assert.Nil(t, third.AppOpens)
	assert.Nil(t, third.AdViews)
}

func TestConvertRunRecords(t *testing.T) {
	end := time.Date(2022, 2, 22, 10, 5, 0, 0, time.UTC)
	completeness := schema.CompleteWindow
	tier := schema.SecondTier
	positive := int32(3)

	records := []schema.RunRecord{
		{
			RunID:         "a",
			Date:          "22/02/2022",
			StartTime:     end.Add(-time.Minute),
			EndTime:       &end,
			Outcome:       schema.AnalyzedOutcome,
			Completeness:  &completeness,
			PositiveCount: &positive,
			Tier:          &tier,
		},
		{RunID: "b", Date: "23/02/2022", StartTime: end},
	}

	converted := ConvertRunRecords(records)
	require.Len(t, converted, 2)
	assert.Equal(t, "analyzed", converted[0].Outcome)
	require.NotNil(t, converted[0].Completeness)
	assert.Equal(t, "complete", *converted[0].Completeness)
	require.NotNil(t, converted[0].Tier)
	assert.Equal(t, "second", *converted[0].Tier)
	assert.Equal(t, int32(3), *converted[0].PositiveCount)

	assert.Empty(t, converted[1].Outcome)
	assert.Nil(t, converted[1].EndTime)
	assert.Nil(t, converted[1].Completeness)
	assert.Nil(t, converted[1].Tier)
}

func TestWriteKPIRowsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "rows.parquet")
	data := ConvertKPIRows(sampleRows())

	require.NoError(t, WriteKPIRowsParquet(data, outputPath))

	readData, err := parquet.ReadFile[KPIRow](outputPath)
	require.NoError(t, err)
	require.Len(t, readData, len(data))

	for i := range data {
		assert.Equal(t, data[i].RowNum, readData[i].RowNum)
		assert.Equal(t, data[i].DateKey, readData[i].DateKey)
		assert.Equal(t, data[i].AppOpens, readData[i].AppOpens)
		assert.Equal(t, data[i].ScreenViews, readData[i].ScreenViews)
		assert.Equal(t, data[i].Swipes, readData[i].Swipes)
	}
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	end := time.Date(2022, 2, 22, 10, 5, 0, 0, time.UTC)
	tier := "top"
	data := []Run{
		{RunID: "a", DateKey: "22/02/2022", StartTime: end.Add(-time.Minute), EndTime: &end, Outcome: "analyzed", Tier: &tier},
		{RunID: "b", DateKey: "23/02/2022", StartTime: end, Outcome: "record_only"},
	}

	require.NoError(t, WriteRunsParquet(data, outputPath))

	readData, err := parquet.ReadFile[Run](outputPath)
	require.NoError(t, err)
	require.Len(t, readData, 2)

	assert.Equal(t, "a", readData[0].RunID)
	require.NotNil(t, readData[0].EndTime)
	assert.WithinDuration(t, end, *readData[0].EndTime, time.Nanosecond)
	require.NotNil(t, readData[0].Tier)
	assert.Equal(t, "top", *readData[0].Tier)

	assert.Equal(t, "record_only", readData[1].Outcome)
	assert.Nil(t, readData[1].EndTime)
	assert.Nil(t, readData[1].Tier)
}

func TestWriteParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteRunsParquet([]Run{}, outputPath))

	readData, err := parquet.ReadFile[Run](outputPath)
	require.NoError(t, err)
	assert.Empty(t, readData)
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	err := WriteKPIRowsParquet(nil, "/nonexistent/directory/rows.parquet")
	assert.Error(t, err)
}
