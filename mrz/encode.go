package mrz

import "strings"

const (
	documentPrefix       = "P<"
	personalNumberLength = 14
)

// line2Slot is a fixed-width position in line2.
type line2Slot struct {
	key   string
	width int
	value func(FieldRecord) string
}

var line2Layout = []line2Slot{
	{FieldPassportNumber, 9, func(r FieldRecord) string { return r.PassportNumber }},
	{FieldPassportCheckDigit, 1, func(r FieldRecord) string { return r.PassportCheckDigit }},
	{FieldCountryCode, 3, func(r FieldRecord) string { return r.CountryCode }},
	{FieldBirthDate, 6, func(r FieldRecord) string { return r.BirthDate }},
	{FieldBirthDateCheckDigit, 1, func(r FieldRecord) string { return r.BirthDateCheckDigit }},
	{FieldSex, 1, func(r FieldRecord) string { return r.Sex }},
	{FieldExpirationDate, 6, func(r FieldRecord) string { return r.ExpirationDate }},
	{FieldExpirationDateCheckDigit, 1, func(r FieldRecord) string { return r.ExpirationDateCheckDigit }},
	{FieldPersonalNumber, personalNumberLength, func(r FieldRecord) string { return NormalizePersonalNumber(r.PersonalNumber) }},
	{FieldPersonalNumberCheckDigit, 1, func(r FieldRecord) string { return r.PersonalNumberCheckDigit }},
}

// Encode builds both TD3 lines from rec. Check digits are written as given,
// only the composite digit is computed when the record does not carry one.
// Lines and fields that do not fit are rejected with an OVERFLOW error.
// line2 is always 44 characters, so a record decoded from a 43 character
// line2 encodes to that line plus its composite digit.
func Encode(rec FieldRecord) (line1, line2 string, err error) {
	line1, err = encodeLine1(rec)
	if err != nil {
		return "", "", err
	}
	line2, err = encodeLine2(rec)
	if err != nil {
		return "", "", err
	}
	return line1, line2, nil
}

// EncodeMap encodes the interchange form of a record.
func EncodeMap(fields map[string]string) (line1, line2 string, err error) {
	rec, err := FieldsFromMap(fields)
	if err != nil {
		return "", "", err
	}
	return Encode(rec)
}

func encodeLine1(rec FieldRecord) (string, error) {
	var b strings.Builder
	b.Grow(LineLength)
	b.WriteString(documentPrefix)
	b.WriteString(rec.IssuingCountry)
	b.WriteString(toFiller(rec.LastName))
	b.WriteString(nameSeparator)
	b.WriteString(toFiller(rec.FirstName))

	if b.Len() > LineLength {
		return "", newError(KindOverflow, "line1", "composed line is %d characters, limit is %d", b.Len(), LineLength)
	}
	return padRight(b.String(), LineLength), nil
}

func encodeLine2(rec FieldRecord) (string, error) {
	var b strings.Builder
	b.Grow(LineLength)
	for _, slot := range line2Layout {
		v := slot.value(rec)
		if len(v) > slot.width {
			return "", newError(KindOverflow, slot.key, "value %q is wider than %d characters", v, slot.width)
		}
		b.WriteString(padRight(v, slot.width))
	}

	composite := rec.CompositeCheckDigit
	if composite == "" {
		composite = string(CompositeCheckDigit(b.String()))
	}
	if len(composite) != 1 {
		return "", newError(KindOverflow, FieldCompositeCheckDigit, "value %q is not a single character", composite)
	}
	b.WriteString(composite)
	return b.String(), nil
}

// CompositeCheckDigit computes the composite digit over the first 43
// characters of line2: document number, birth date, expiry date and
// personal number, each with its own check digit.
func CompositeCheckDigit(line2 string) byte {
	if len(line2) < minLine2Length {
		line2 = padRight(line2, minLine2Length)
	}
	return CheckDigitChar(line2[0:10] + line2[13:20] + line2[21:43])
}

// NormalizePersonalNumber truncates or pads the personal number with filler
// to its 14 character slot.
func NormalizePersonalNumber(s string) string {
	if len(s) > personalNumberLength {
		return s[:personalNumberLength]
	}
	return padRight(s, personalNumberLength)
}

func toFiller(name string) string {
	return strings.ReplaceAll(name, " ", string(Filler))
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(string(Filler), width-len(s))
}
