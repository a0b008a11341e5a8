package batch

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-passport-mrz/mrz"

	"github.com/stretchr/testify/require"
)

const (
	specimenEntry   = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<;L898902C36UTO7408122F1204159ZE184226B<<<<<10"
	mismatchedEntry = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<;L898902C35UTO7408122F1204159ZE184226B<<<<<10"
	civEntry        = "P<CIVLYNN<<NEVEAH<BRAM<<<<<<<<<<<<<<<<<<<<<<;W620126G54CIV5910106F9707302AJ010215I<<<<<<6"
)

func encodedJSON(entries ...string) string {
	quoted := make([]string, len(entries))
	for i, e := range entries {
		quoted[i] = fmt.Sprintf("%q", e)
	}
	return `{"records_encoded": [` + strings.Join(quoted, ",") + `]}`
}

func repeat(entry string, n int) []Record {
	rec, err := ParseRecord(entry)
	if err != nil {
		panic(err)
	}
	records := make([]Record, n)
	for i := range records {
		records[i] = rec
	}
	return records
}

func TestParseRecord(t *testing.T) {
	rec, err := ParseRecord(specimenEntry)
	require.NoError(t, err)
	require.Len(t, rec.Line1, mrz.LineLength)
	require.Len(t, rec.Line2, mrz.LineLength)

	_, err = ParseRecord("no separator here")
	require.ErrorContains(t, err, "separator")
}

func TestReadDataset(t *testing.T) {
	t.Run("encoded records only", func(t *testing.T) {
		ds, err := ReadDataset(strings.NewReader(encodedJSON(specimenEntry, mismatchedEntry)), nil)
		require.NoError(t, err)
		require.Len(t, ds.Encoded, 2)
		require.Empty(t, ds.Decoded)
	})

	t.Run("decoded records are read under their own key", func(t *testing.T) {
		decoded := `{"records_decoded": ["` + specimenEntry + `"]}`
		ds, err := ReadDataset(strings.NewReader(encodedJSON(specimenEntry)), strings.NewReader(decoded))
		require.NoError(t, err)
		require.Len(t, ds.Decoded, 1)
	})

	t.Run("invalid json fails", func(t *testing.T) {
		_, err := ReadDataset(strings.NewReader("{"), nil)
		require.ErrorContains(t, err, "failed to decode encoded records")
	})

	t.Run("entry without separator fails", func(t *testing.T) {
		_, err := ReadDataset(strings.NewReader(encodedJSON("abc")), nil)
		require.ErrorContains(t, err, "entry 0")
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("one row per size", func(t *testing.T) {
		ds := Dataset{Encoded: repeat(specimenEntry, 20)}
		rows, err := Run(ctx, Config{Sizes: []int{5, 10}, Workers: 2}, ds)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, 5, rows[0].LinesRead)
		require.Equal(t, 10, rows[1].LinesRead)
		require.Zero(t, rows[1].MismatchedRows)
	})

	t.Run("sizes are clamped to the dataset", func(t *testing.T) {
		ds := Dataset{Encoded: repeat(specimenEntry, 3)}
		rows, err := Run(ctx, Config{Sizes: []int{100}}, ds)
		require.NoError(t, err)
		require.Equal(t, 3, rows[0].LinesRead)
	})

	t.Run("default sizes", func(t *testing.T) {
		ds := Dataset{Encoded: repeat(specimenEntry, 1)}
		rows, err := Run(ctx, Config{}, ds)
		require.NoError(t, err)
		require.Len(t, rows, len(DefaultSizes))
	})

	t.Run("mismatched records are counted", func(t *testing.T) {
		records := append(repeat(specimenEntry, 4), repeat(mismatchedEntry, 3)...)
		rows, err := Run(ctx, Config{Sizes: []int{7}, Workers: 3}, Dataset{Encoded: records})
		require.NoError(t, err)
		require.Equal(t, 3, rows[0].MismatchedRows)
	})

	t.Run("filler check digit on a personal number is counted, not fatal", func(t *testing.T) {
		records := append(repeat(specimenEntry, 2), repeat(civEntry, 1)...)
		rows, err := Run(ctx, Config{Sizes: []int{1, 3}}, Dataset{Encoded: records})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Zero(t, rows[0].MalformedRows)
		require.Equal(t, 1, rows[1].MalformedRows)
		require.Zero(t, rows[1].MismatchedRows)
	})

	t.Run("short zone fails the run", func(t *testing.T) {
		records := append(repeat(specimenEntry, 2), Record{Line1: "P<UTO", Line2: "L898"})
		_, err := Run(ctx, Config{Sizes: []int{3}}, Dataset{Encoded: records})
		require.ErrorIs(t, err, mrz.ErrOutOfRange)
	})

	t.Run("zone without passport number fails the assertions", func(t *testing.T) {
		line2 := "<<<<<<<<<<UTO7408122F1204159ZE184226B<<<<<10"
		records := []Record{{Line1: "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<", Line2: line2}}
		_, err := Run(ctx, Config{Sizes: []int{1}}, Dataset{Encoded: records})
		require.ErrorIs(t, err, ErrNoPassportNumber)
	})

	t.Run("cancelled context stops the run", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Run(cancelled, Config{Sizes: []int{10}}, Dataset{Encoded: repeat(specimenEntry, 10)})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestWriteReport(t *testing.T) {
	rows := []Row{
		{LinesRead: 100, TimeNoTests: 1500 * time.Millisecond, TimeWithTests: 2 * time.Second},
		{LinesRead: 1000, TimeNoTests: 250 * time.Millisecond, TimeWithTests: time.Second},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"Lines_Read", "Exec_Time_No_Tests", "Exec_Time_With_Tests"},
		{"100", "1.5", "2"},
		{"1000", "0.25", "1"},
	}, records)
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	encodedPath := filepath.Join(dir, "records_encoded.json")
	outputPath := filepath.Join(dir, "execution_times.csv")
	require.NoError(t, os.WriteFile(encodedPath, []byte(encodedJSON(specimenEntry, specimenEntry)), 0o600))

	rows, err := RunFiles(context.Background(), Config{
		EncodedPath: encodedPath,
		OutputCSV:   outputPath,
		Sizes:       []int{1, 2},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	report, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(report), "Lines_Read,Exec_Time_No_Tests,Exec_Time_With_Tests\n"))
	require.Equal(t, 3, strings.Count(string(report), "\n"))
}
