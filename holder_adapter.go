package main

import (
	"go-passport-mrz/document"
	"go-passport-mrz/models"
	"go-passport-mrz/mrz"
)

// abstract interfaces for easier testing

type HolderDataConverter interface {
	ToPassportData(mrz.FieldRecord) (models.PassportData, error)
}

type DataGroupReader interface {
	FieldRecordFromDG1(dg1Hex string) (mrz.FieldRecord, error)
}

// Production implementations

type HolderDataConverterImpl struct{}

func (HolderDataConverterImpl) ToPassportData(rec mrz.FieldRecord) (models.PassportData, error) {
	return document.ToPassportData(rec)
}

type DataGroupReaderImpl struct{}

func (DataGroupReaderImpl) FieldRecordFromDG1(dg1Hex string) (mrz.FieldRecord, error) {
	return document.FieldRecordFromDG1(dg1Hex)
}
