package refimport

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	seekerr "github.com/docuseek/docuseek/internal/errors"
	"github.com/docuseek/docuseek/internal/store"
)

func newTestImporter(t *testing.T) (*Importer, *store.SQLiteStore) {
	t.Helper()
	st, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return New(st), st
}

func TestImport_Basic(t *testing.T) {
	imp, st := newTestImporter(t)
	ctx := context.Background()

	report, err := imp.Import(ctx, []string{"HH001", "HH002", " HH003 "})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 3, report.Imported)
	assert.Zero(t, report.Skipped)

	n, err := st.CountReferenceIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestImport_SecondRunSkipsEverything(t *testing.T) {
	imp, st := newTestImporter(t)
	ctx := context.Background()

	ids := []string{"HH001", "HH002", "HH003", "HH004", "HH005",
		"HH006", "HH007", "HH008", "HH009", "HH010"}

	first, err := imp.Import(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, 10, first.Imported)

	second, err := imp.Import(ctx, ids)
	require.NoError(t, err)
	assert.Zero(t, second.Imported)
	assert.Equal(t, 10, second.Skipped)

	n, err := st.CountReferenceIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestImport_EmptyValuesSkippedWithNotes(t *testing.T) {
	imp, _ := newTestImporter(t)

	report, err := imp.Import(context.Background(), []string{"HH001", "", "   ", "HH002"})
	require.NoError(t, err)
	assert.Equal(t, 4, report.Processed)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 2, report.Skipped)
	assert.Len(t, report.Notes, 2)
}

func TestImport_DuplicatesWithinBatch(t *testing.T) {
	imp, _ := newTestImporter(t)

	report, err := imp.Import(context.Background(), []string{"HH001", "hh001", "HH001"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 2, report.Skipped)
}

func TestImport_EmptyInputIsValidationError(t *testing.T) {
	imp, _ := newTestImporter(t)

	_, err := imp.Import(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, seekerr.ErrCodeNoRecords, seekerr.GetCode(err))
}

func TestCSVSource_ReadsDefaultColumn(t *testing.T) {
	src := &CSVSource{}
	in := "name,hh_id,notes\nalpha,HH001,first\nbeta,HH002,second\n"

	ids, err := src.Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"HH001", "HH002"}, ids)
}

func TestCSVSource_ColumnMatchIsCaseInsensitive(t *testing.T) {
	src := &CSVSource{}
	in := "Name, HH_ID \nalpha,HH001\n"

	ids, err := src.Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"HH001"}, ids)
}

func TestCSVSource_CustomColumn(t *testing.T) {
	src := &CSVSource{Column: "record_id"}
	in := "record_id\nR-17\n"

	ids, err := src.Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"R-17"}, ids)
}

func TestCSVSource_MissingColumn(t *testing.T) {
	src := &CSVSource{}
	in := "name,notes\nalpha,first\n"

	_, err := src.Read(strings.NewReader(in))
	require.Error(t, err)
	assert.Equal(t, seekerr.ErrCodeColumnNotFound, seekerr.GetCode(err))
}

func TestCSVSource_EmptyFile(t *testing.T) {
	src := &CSVSource{}

	_, err := src.Read(strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, seekerr.ErrCodeNoRecords, seekerr.GetCode(err))
}

func TestCSVSource_HeaderOnly(t *testing.T) {
	src := &CSVSource{}

	_, err := src.Read(strings.NewReader("hh_id\n"))
	require.Error(t, err)
	assert.Equal(t, seekerr.ErrCodeNoRecords, seekerr.GetCode(err))
}

func TestCSVSource_ShortRowYieldsEmptyValue(t *testing.T) {
	src := &CSVSource{}
	in := "name,hh_id\nalpha,HH001\nonlyname\n"

	ids, err := src.Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"HH001", ""}, ids)
}

func TestImport_FromCSVEndToEnd(t *testing.T) {
	imp, st := newTestImporter(t)
	ctx := context.Background()

	src := &CSVSource{}
	in := "hh_id\nHH001\nHH002\nHH001\n\n"
	ids, err := src.Read(strings.NewReader(in))
	require.NoError(t, err)

	report, err := imp.Import(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)

	n, err := st.CountReferenceIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
