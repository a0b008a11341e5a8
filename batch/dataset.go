package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

const recordSeparator = ";"

// Record is one zone of a dataset.
type Record struct {
	Line1 string
	Line2 string
}

// Dataset holds the zones read from the encoded and decoded record files.
type Dataset struct {
	Encoded []Record
	Decoded []Record
}

type encodedFile struct {
	Records []string `json:"records_encoded"`
}

type decodedFile struct {
	Records []string `json:"records_decoded"`
}

// ParseRecord splits a "line1;line2" entry.
func ParseRecord(entry string) (Record, error) {
	line1, line2, found := strings.Cut(entry, recordSeparator)
	if !found {
		return Record{}, fmt.Errorf("record %q has no %q separator", entry, recordSeparator)
	}
	return Record{Line1: line1, Line2: line2}, nil
}

// ReadDataset reads both record documents. The decoded reader may be nil.
func ReadDataset(encoded io.Reader, decoded io.Reader) (Dataset, error) {
	var ef encodedFile
	if err := json.NewDecoder(encoded).Decode(&ef); err != nil {
		return Dataset{}, fmt.Errorf("failed to decode encoded records: %w", err)
	}
	enc, err := parseRecords(ef.Records)
	if err != nil {
		return Dataset{}, fmt.Errorf("invalid encoded records: %w", err)
	}

	ds := Dataset{Encoded: enc}
	if decoded == nil {
		return ds, nil
	}

	var df decodedFile
	if err := json.NewDecoder(decoded).Decode(&df); err != nil {
		return Dataset{}, fmt.Errorf("failed to decode decoded records: %w", err)
	}
	ds.Decoded, err = parseRecords(df.Records)
	if err != nil {
		return Dataset{}, fmt.Errorf("invalid decoded records: %w", err)
	}
	return ds, nil
}

// LoadDataset opens the record files named in cfg.
func LoadDataset(cfg Config) (Dataset, error) {
	ef, err := os.Open(cfg.EncodedPath)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to open encoded records: %w", err)
	}
	defer ef.Close()

	if cfg.DecodedPath == "" {
		return ReadDataset(ef, nil)
	}

	df, err := os.Open(cfg.DecodedPath)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to open decoded records: %w", err)
	}
	defer df.Close()

	return ReadDataset(ef, df)
}

func parseRecords(entries []string) ([]Record, error) {
	records := make([]Record, 0, len(entries))
	for i, entry := range entries {
		rec, err := ParseRecord(entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
