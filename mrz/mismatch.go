package mrz

import "strings"

const mismatchSuffix = " there is a mismatch in the digit check"

// checkedField ties a value to the digit that protects it.
type checkedField struct {
	label      string
	digitKey   string
	value      func(FieldRecord) string
	checkDigit func(FieldRecord) string
}

var checkedFields = []checkedField{
	{
		label:      "Passport Number",
		digitKey:   FieldPassportCheckDigit,
		value:      func(r FieldRecord) string { return r.PassportNumber },
		checkDigit: func(r FieldRecord) string { return r.PassportCheckDigit },
	},
	{
		label:      "Birth Date",
		digitKey:   FieldBirthDateCheckDigit,
		value:      func(r FieldRecord) string { return r.BirthDate },
		checkDigit: func(r FieldRecord) string { return r.BirthDateCheckDigit },
	},
	{
		label:      "Expiration Date",
		digitKey:   FieldExpirationDateCheckDigit,
		value:      func(r FieldRecord) string { return r.ExpirationDate },
		checkDigit: func(r FieldRecord) string { return r.ExpirationDateCheckDigit },
	},
	{
		label:      "Personal Number",
		digitKey:   FieldPersonalNumberCheckDigit,
		value:      func(r FieldRecord) string { return r.PersonalNumber },
		checkDigit: func(r FieldRecord) string { return r.PersonalNumberCheckDigit },
	},
}

// compositeLabel names the composite digit in mismatch reports.
const compositeLabel = "Composite"

// MismatchMessage is the report line for a field whose check digit fails.
func MismatchMessage(label string) string {
	return label + mismatchSuffix
}

// MismatchLabel returns the field label of a report line.
func MismatchLabel(message string) string {
	return strings.TrimSuffix(message, mismatchSuffix)
}

// Mismatches recomputes every check digit of rec and reports the fields
// whose stored digit differs, in zone order. An empty result means the
// record is consistent. The composite digit is only checked when present.
// A check digit that is not a single digit fails with MALFORMED_CHECK_DIGIT.
func Mismatches(rec FieldRecord) ([]string, error) {
	mismatches := []string{}

	for _, f := range checkedFields {
		value := f.value(rec)
		want, err := parseCheckDigit(f.digitKey, f.checkDigit(rec), value)
		if err != nil {
			return nil, err
		}
		if CheckDigit(value) != want {
			mismatches = append(mismatches, MismatchMessage(f.label))
		}
	}

	if rec.CompositeCheckDigit != "" {
		want, err := parseCheckDigit(FieldCompositeCheckDigit, rec.CompositeCheckDigit, "")
		if err != nil {
			return nil, err
		}
		if CheckDigit(compositeInput(rec)) != want {
			mismatches = append(mismatches, MismatchMessage(compositeLabel))
		}
	}

	return mismatches, nil
}

// Validate decodes the zone and reports its check digit mismatches.
func Validate(line1, line2 string) (FieldRecord, []string, error) {
	rec, err := Decode(line1, line2)
	if err != nil {
		return FieldRecord{}, nil, err
	}
	mismatches, err := Mismatches(rec)
	if err != nil {
		return rec, nil, err
	}
	return rec, mismatches, nil
}

// parseCheckDigit reads a stored check digit. A filler digit is accepted
// as zero for a field that is entirely filler, as issuers do for an
// absent personal number.
func parseCheckDigit(key, digit, value string) (int, error) {
	if len(digit) != 1 {
		return 0, newError(KindMalformedCheckDigit, key, "expected a single digit, got %q", digit)
	}
	c := digit[0]
	if c >= '0' && c <= '9' {
		return int(c - '0'), nil
	}
	if c == Filler && value != "" && strings.Trim(value, string(Filler)) == "" {
		return 0, nil
	}
	return 0, newError(KindMalformedCheckDigit, key, "expected a single digit, got %q", digit)
}

func compositeInput(rec FieldRecord) string {
	return padRight(rec.PassportNumber, 9) + padRight(rec.PassportCheckDigit, 1) +
		padRight(rec.BirthDate, 6) + padRight(rec.BirthDateCheckDigit, 1) +
		padRight(rec.ExpirationDate, 6) + padRight(rec.ExpirationDateCheckDigit, 1) +
		NormalizePersonalNumber(rec.PersonalNumber) + padRight(rec.PersonalNumberCheckDigit, 1)
}
