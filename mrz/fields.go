package mrz

// Interchange keys of a decoded TD3 zone.
const (
	FieldDocumentType             = "document-type"
	FieldIssuingCountry           = "issuing-country"
	FieldLastName                 = "last-name"
	FieldFirstName                = "first-name"
	FieldPassportNumber           = "passport-number"
	FieldPassportCheckDigit       = "passport-check-digit"
	FieldCountryCode              = "country-code"
	FieldBirthDate                = "birth-date"
	FieldBirthDateCheckDigit      = "birth-date-check-digit"
	FieldSex                      = "sex"
	FieldExpirationDate           = "expiration-date"
	FieldExpirationDateCheckDigit = "expiration-date-check-digit"
	FieldPersonalNumber           = "personal-number"
	FieldPersonalNumberCheckDigit = "personal-number-check-digit"
	FieldCompositeCheckDigit      = "composite-check-digit"
)

// RequiredFields lists the keys every interchange record must carry, in table order.
var RequiredFields = []string{
	FieldDocumentType,
	FieldIssuingCountry,
	FieldLastName,
	FieldFirstName,
	FieldPassportNumber,
	FieldPassportCheckDigit,
	FieldCountryCode,
	FieldBirthDate,
	FieldBirthDateCheckDigit,
	FieldSex,
	FieldExpirationDate,
	FieldExpirationDateCheckDigit,
	FieldPersonalNumber,
	FieldPersonalNumberCheckDigit,
}

// FieldRecord holds the fields of a TD3 machine readable zone.
// All values are kept as they appear in the zone, except names which
// have their filler replaced by spaces.
type FieldRecord struct {
	DocumentType             string `json:"document-type"`
	IssuingCountry           string `json:"issuing-country"`
	LastName                 string `json:"last-name"`
	FirstName                string `json:"first-name"`
	PassportNumber           string `json:"passport-number"`
	PassportCheckDigit       string `json:"passport-check-digit"`
	CountryCode              string `json:"country-code"`
	BirthDate                string `json:"birth-date"`
	BirthDateCheckDigit      string `json:"birth-date-check-digit"`
	Sex                      string `json:"sex"`
	ExpirationDate           string `json:"expiration-date"`
	ExpirationDateCheckDigit string `json:"expiration-date-check-digit"`
	PersonalNumber           string `json:"personal-number"`
	PersonalNumberCheckDigit string `json:"personal-number-check-digit"`

	// CompositeCheckDigit is line2[43]; empty when the zone did not carry it.
	CompositeCheckDigit string `json:"composite-check-digit,omitempty"`
}

// fieldRefs pairs each interchange key with the record field it maps to.
type fieldRef struct {
	key string
	ptr *string
}

func (r *FieldRecord) fieldRefs() []fieldRef {
	return []fieldRef{
		{FieldDocumentType, &r.DocumentType},
		{FieldIssuingCountry, &r.IssuingCountry},
		{FieldLastName, &r.LastName},
		{FieldFirstName, &r.FirstName},
		{FieldPassportNumber, &r.PassportNumber},
		{FieldPassportCheckDigit, &r.PassportCheckDigit},
		{FieldCountryCode, &r.CountryCode},
		{FieldBirthDate, &r.BirthDate},
		{FieldBirthDateCheckDigit, &r.BirthDateCheckDigit},
		{FieldSex, &r.Sex},
		{FieldExpirationDate, &r.ExpirationDate},
		{FieldExpirationDateCheckDigit, &r.ExpirationDateCheckDigit},
		{FieldPersonalNumber, &r.PersonalNumber},
		{FieldPersonalNumberCheckDigit, &r.PersonalNumberCheckDigit},
	}
}

// ToMap returns the string keyed interchange form of the record.
// The composite check digit is only included when set.
func (r FieldRecord) ToMap() map[string]string {
	m := make(map[string]string, len(RequiredFields)+1)
	for _, ref := range r.fieldRefs() {
		m[ref.key] = *ref.ptr
	}
	if r.CompositeCheckDigit != "" {
		m[FieldCompositeCheckDigit] = r.CompositeCheckDigit
	}
	return m
}

// FieldsFromMap builds a record from its interchange form.
// The first absent required key, in table order, is reported as MISSING_FIELD.
// Unknown keys are ignored.
func FieldsFromMap(m map[string]string) (FieldRecord, error) {
	var rec FieldRecord
	for _, ref := range rec.fieldRefs() {
		v, ok := m[ref.key]
		if !ok {
			return FieldRecord{}, newError(KindMissingField, ref.key, "required field is absent")
		}
		*ref.ptr = v
	}
	rec.CompositeCheckDigit = m[FieldCompositeCheckDigit]
	return rec, nil
}
