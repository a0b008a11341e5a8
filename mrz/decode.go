// Package mrz reads and writes the machine readable zone of TD3 passports
// as described in ICAO Doc 9303 part 4.
package mrz

import "strings"

const (
	// LineLength is the width of both TD3 lines.
	LineLength = 44

	// Filler pads unused positions.
	Filler = '<'

	nameSeparator = "<<"
	namesOffset   = 5

	// line1 must hold the document type and issuing country, line2 every
	// field up to the personal number check digit.
	minLine1Length = namesOffset
	minLine2Length = 43
	compositeIndex = 43
)

// Decode splits the two lines of a TD3 zone into their fields.
// It only checks that the lines are long enough to read every field;
// check digits are left to Mismatches.
func Decode(line1, line2 string) (FieldRecord, error) {
	if len(line1) < minLine1Length {
		return FieldRecord{}, newError(KindOutOfRange, "line1", "need at least %d characters, got %d", minLine1Length, len(line1))
	}
	if len(line2) < minLine2Length {
		return FieldRecord{}, newError(KindOutOfRange, "line2", "need at least %d characters, got %d", minLine2Length, len(line2))
	}

	lastName, firstName := splitName(line1[namesOffset:])

	rec := FieldRecord{
		DocumentType:             line1[0:1],
		IssuingCountry:           line1[2:5],
		LastName:                 lastName,
		FirstName:                firstName,
		PassportNumber:           line2[0:9],
		PassportCheckDigit:       line2[9:10],
		CountryCode:              line2[10:13],
		BirthDate:                line2[13:19],
		BirthDateCheckDigit:      line2[19:20],
		Sex:                      line2[20:21],
		ExpirationDate:           line2[21:27],
		ExpirationDateCheckDigit: line2[27:28],
		PersonalNumber:           line2[28:42],
		PersonalNumberCheckDigit: line2[42:43],
	}
	if len(line2) > compositeIndex {
		rec.CompositeCheckDigit = line2[compositeIndex : compositeIndex+1]
	}
	return rec, nil
}

// splitName separates primary and secondary identifiers at the first "<<".
func splitName(names string) (primary, secondary string) {
	before, after, found := strings.Cut(names, nameSeparator)
	if !found {
		return cleanName(before), ""
	}
	return cleanName(before), cleanName(after)
}

func cleanName(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, string(Filler), " "))
}
