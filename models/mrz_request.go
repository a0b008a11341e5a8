package models

type DecodeRequest struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

type EncodeRequest struct {
	Fields map[string]string `json:"fields"`
}

// DataGroupRequest carries a hex encoded DG1 read from the chip.
type DataGroupRequest struct {
	DG1 string `json:"dg1"`
}
