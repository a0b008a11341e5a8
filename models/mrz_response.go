package models

// DecodeResponse holds the decoded fields and their check digit report.
// CheckError is set instead of a report when a check digit is malformed.
type DecodeResponse struct {
	Fields     map[string]string `json:"fields"`
	Mismatches []string          `json:"mismatches"`
	Valid      bool              `json:"valid"`
	CheckError *ErrorResponse    `json:"check_error,omitempty"`
}

type EncodeResponse struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

type ValidateResponse struct {
	Mismatches []string `json:"mismatches"`
	Valid      bool     `json:"valid"`
}

type DataGroupResponse struct {
	Line1  string            `json:"line1"`
	Line2  string            `json:"line2"`
	Fields map[string]string `json:"fields"`
}

// ErrorResponse is written for rejected codec input.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Subject string `json:"subject,omitempty"`
}
