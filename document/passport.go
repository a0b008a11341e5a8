package document

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go-passport-mrz/models"
	"go-passport-mrz/mrz"
)

var euCountries = []string{
	"AUT", "BEL", "BGR", "HRV", "CYP",
	"CZE", "DNK", "EST", "FIN", "FRA",
	// Germany has D instead of the expected DEU.
	"D", "GRC", "HUN", "IRL", "ITA",
	"LVA", "LTU", "LUX", "MLT", "NLD",
	"POL", "PRT", "ROU", "SVK", "SVN",
	"ESP", "SWE",
}

// IsEuCitizen reports whether an MRZ nationality code belongs to an EU member state.
// Trailing filler is ignored so that Germany's "D<<" matches.
func IsEuCitizen(nationality string) bool {
	code := strings.ToUpper(trimFiller(nationality))
	for _, country := range euCountries {
		if code == country {
			return true
		}
	}
	return false
}

// normalizeSex maps the MRZ filler for an unspecified sex to "X".
func normalizeSex(sex string) string {
	switch strings.ToUpper(sex) {
	case "M":
		return "M"
	case "F":
		return "F"
	default:
		return "X"
	}
}

func ToPassportData(rec mrz.FieldRecord) (models.PassportData, error) {
	slog.Debug("Converting field record to passport data", "issuing_country", rec.IssuingCountry)

	dob, err := ParseDateOfBirth(rec.BirthDate)
	if err != nil {
		return models.PassportData{}, fmt.Errorf("failed to parse date of birth: %w", err)
	}

	doe, err := ParseExpiryDate(rec.ExpirationDate)
	if err != nil {
		return models.PassportData{}, fmt.Errorf("failed to parse date of expiry: %w", err)
	}

	now := time.Now()
	return models.PassportData{
		DocumentNumber: trimFiller(rec.PassportNumber),
		DocumentType:   rec.DocumentType,
		FirstName:      rec.FirstName,
		LastName:       rec.LastName,
		Nationality:    trimFiller(rec.CountryCode),
		IsEuCitizen:    BoolToYesNo(IsEuCitizen(rec.CountryCode)),
		DateOfBirth:    dob,
		YearOfBirth:    dob.Format("2006"),
		DateOfExpiry:   doe,
		IsExpired:      BoolToYesNo(doe.Before(now)),
		Gender:         normalizeSex(rec.Sex),
		Country:        trimFiller(rec.IssuingCountry),
		PersonalNumber: trimFiller(rec.PersonalNumber),
		Over12:         BoolToYesNo(dob.Before(now.AddDate(-12, 0, 0))),
		Over16:         BoolToYesNo(dob.Before(now.AddDate(-16, 0, 0))),
		Over18:         BoolToYesNo(dob.Before(now.AddDate(-18, 0, 0))),
		Over21:         BoolToYesNo(dob.Before(now.AddDate(-21, 0, 0))),
		Over65:         BoolToYesNo(dob.Before(now.AddDate(-65, 0, 0))),
	}, nil
}

func trimFiller(s string) string {
	return strings.TrimRight(s, string(mrz.Filler))
}
