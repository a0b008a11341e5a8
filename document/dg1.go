package document

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	"go-passport-mrz/mrz"

	"github.com/gmrtd/gmrtd/document"
)

// FieldRecordFromDG1 rebuilds the printed zone fields from a chip DG1.
// The TD3 optional data (personal number) is padded back to its slot;
// every check digit is recomputed from the values.
// No chip authentication is done: the data group is trusted as given.
func FieldRecordFromDG1(dg1Hex string) (mrz.FieldRecord, error) {
	if dg1Hex == "" {
		return mrz.FieldRecord{}, fmt.Errorf("DG1 is missing in the request")
	}

	dg1Bytes, err := hex.DecodeString(dg1Hex)
	if err != nil {
		return mrz.FieldRecord{}, fmt.Errorf("failed to decode DG1 hex: %w", err)
	}

	dg1, err := document.NewDG1(dg1Bytes)
	if err != nil {
		return mrz.FieldRecord{}, fmt.Errorf("failed to create DG1: %w", err)
	}
	if dg1 == nil {
		return mrz.FieldRecord{}, fmt.Errorf("failed to create DG1: no data group in input")
	}
	chipMrz := dg1.Mrz

	slog.Debug("Parsed DG1", "issuing_state", chipMrz.IssuingState, "document_code", chipMrz.DocumentCode)

	documentType := chipMrz.DocumentCode
	if len(documentType) > 1 {
		documentType = documentType[:1]
	}

	rec := mrz.FieldRecord{
		DocumentType:   documentType,
		IssuingCountry: chipMrz.IssuingState,
		LastName:       chipMrz.NameOfHolder.Primary,
		FirstName:      chipMrz.NameOfHolder.Secondary,
		PassportNumber: chipMrz.DocumentNumber,
		CountryCode:    chipMrz.Nationality,
		BirthDate:      chipMrz.DateOfBirth,
		Sex:            fillEmpty(chipMrz.Sex),
		ExpirationDate: chipMrz.DateOfExpiry,
		PersonalNumber: mrz.NormalizePersonalNumber(chipMrz.OptionalData),
	}
	rec.PassportCheckDigit = string(mrz.CheckDigitChar(rec.PassportNumber))
	rec.BirthDateCheckDigit = string(mrz.CheckDigitChar(rec.BirthDate))
	rec.ExpirationDateCheckDigit = string(mrz.CheckDigitChar(rec.ExpirationDate))
	rec.PersonalNumberCheckDigit = string(mrz.CheckDigitChar(rec.PersonalNumber))

	return rec, nil
}

func fillEmpty(s string) string {
	if s == "" {
		return string(mrz.Filler)
	}
	return s
}
