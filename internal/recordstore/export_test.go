package recordstore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportParquet(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	_, err := store.ImportRecords(ctx, sampleRecords())
	require.NoError(t, err)
	require.NoError(t, store.RecordRun(ctx, juneRun("run-1")))

	prefix := filepath.Join(t.TempDir(), "farm")
	var out bytes.Buffer
	require.NoError(t, ExportParquet(ctx, store, prefix, &out))

	assert.Contains(t, out.String(), "Exported 5 records")
	assert.Contains(t, out.String(), "Exported 1 report runs")
	for _, suffix := range []string{".records.parquet", ".report_runs.parquet"} {
		info, err := os.Stat(prefix + suffix)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestExportParquet_Errors(t *testing.T) {
	store := newMemoryStore(t)
	var out bytes.Buffer

	err := ExportParquet(context.Background(), store, "", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file is required")

	err = ExportParquet(context.Background(), store, filepath.Join(t.TempDir(), "x"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no record data found")
}
