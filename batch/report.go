package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

var reportHeader = []string{"Lines_Read", "Exec_Time_No_Tests", "Exec_Time_With_Tests"}

// WriteReport writes rows as CSV with timings in seconds.
func WriteReport(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(reportHeader); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.LinesRead),
			strconv.FormatFloat(row.TimeNoTests.Seconds(), 'f', -1, 64),
			strconv.FormatFloat(row.TimeWithTests.Seconds(), 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteReportFile writes the report to path, replacing any existing file.
func WriteReportFile(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := WriteReport(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
