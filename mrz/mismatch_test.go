package mrz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMismatches(t *testing.T) {
	t.Run("valid specimen has no mismatches", func(t *testing.T) {
		rec, err := Decode(shortSpecimenLine1, shortSpecimenLine2)
		require.NoError(t, err)

		mismatches, err := Mismatches(rec)
		require.NoError(t, err)
		require.Empty(t, mismatches)
		require.NotNil(t, mismatches)
	})

	t.Run("valid specimen with composite digit has no mismatches", func(t *testing.T) {
		_, mismatches, err := Validate(specimenLine1, specimenLine2)
		require.NoError(t, err)
		require.Empty(t, mismatches)
	})

	t.Run("wrong passport check digit is reported", func(t *testing.T) {
		rec := specimenRecord()
		rec.PassportCheckDigit = "7"

		mismatches, err := Mismatches(rec)
		require.NoError(t, err)
		require.Equal(t, []string{"Passport Number there is a mismatch in the digit check"}, mismatches)
	})

	t.Run("two wrong digits are reported in zone order", func(t *testing.T) {
		rec := specimenRecord()
		rec.BirthDateCheckDigit = "3"
		rec.PassportCheckDigit = "7"

		mismatches, err := Mismatches(rec)
		require.NoError(t, err)
		require.Equal(t, []string{
			"Passport Number there is a mismatch in the digit check",
			"Birth Date there is a mismatch in the digit check",
		}, mismatches)
	})

	t.Run("every field can be reported", func(t *testing.T) {
		rec := specimenRecord()
		rec.PassportCheckDigit = "0"
		rec.BirthDateCheckDigit = "0"
		rec.ExpirationDateCheckDigit = "0"
		rec.PersonalNumberCheckDigit = "0"
		rec.CompositeCheckDigit = "9"

		mismatches, err := Mismatches(rec)
		require.NoError(t, err)
		require.Equal(t, []string{
			MismatchMessage("Passport Number"),
			MismatchMessage("Birth Date"),
			MismatchMessage("Expiration Date"),
			MismatchMessage("Personal Number"),
			MismatchMessage("Composite"),
		}, mismatches)
	})

	t.Run("altered field value is caught by its digit", func(t *testing.T) {
		line2 := strings.Replace(specimenLine2, "740812", "740813", 1)
		_, mismatches, err := Validate(specimenLine1, line2)
		require.NoError(t, err)
		require.Equal(t, []string{
			MismatchMessage("Birth Date"),
			MismatchMessage("Composite"),
		}, mismatches)
	})

	t.Run("non numeric check digit is malformed", func(t *testing.T) {
		rec := specimenRecord()
		rec.ExpirationDateCheckDigit = "X"

		_, err := Mismatches(rec)
		requireKind(t, err, KindMalformedCheckDigit, FieldExpirationDateCheckDigit)
		require.ErrorIs(t, err, ErrMalformedCheckDigit)
	})

	t.Run("first malformed digit in zone order is reported", func(t *testing.T) {
		rec := specimenRecord()
		rec.PersonalNumberCheckDigit = "?"
		rec.BirthDateCheckDigit = ""

		_, err := Mismatches(rec)
		requireKind(t, err, KindMalformedCheckDigit, FieldBirthDateCheckDigit)
	})

	t.Run("multi character check digit is malformed", func(t *testing.T) {
		rec := specimenRecord()
		rec.PassportCheckDigit = "66"

		_, err := Mismatches(rec)
		requireKind(t, err, KindMalformedCheckDigit, FieldPassportCheckDigit)
	})

	t.Run("filler digit is accepted for an empty personal number", func(t *testing.T) {
		rec := specimenRecord()
		rec.PersonalNumber = strings.Repeat("<", 14)
		rec.PersonalNumberCheckDigit = "<"

		mismatches, err := Mismatches(rec)
		require.NoError(t, err)
		require.Empty(t, mismatches)
	})

	t.Run("filler digit is malformed for a populated personal number", func(t *testing.T) {
		_, _, err := Validate(civLine1, civLine2)
		requireKind(t, err, KindMalformedCheckDigit, FieldPersonalNumberCheckDigit)
	})

	t.Run("decode failure is passed through", func(t *testing.T) {
		_, _, err := Validate("P<UTO", "L898902")
		require.ErrorIs(t, err, ErrOutOfRange)
	})
}

func TestErrorMessages(t *testing.T) {
	err := newError(KindMissingField, FieldSex, "required field is absent")
	require.Equal(t, "mrz [MISSING_FIELD] sex: required field is absent", err.Error())

	bare := &Error{Kind: KindOverflow, Subject: "line1"}
	require.Equal(t, "mrz [OVERFLOW]: line1", bare.Error())

	require.NotErrorIs(t, err, ErrOverflow)
	require.Equal(t, Kind(""), KindOf(nil))
}

func TestMismatchLabel(t *testing.T) {
	require.Equal(t, "Birth Date", MismatchLabel(MismatchMessage("Birth Date")))
	require.Equal(t, "free text", MismatchLabel("free text"))
}
