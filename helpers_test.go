package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-passport-mrz/metrics"
	"go-passport-mrz/models"
	"go-passport-mrz/mrz"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	specimenLine1 = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<"
	specimenLine2 = "L898902C36UTO7408122F1204159ZE184226B<<<<<10"
)

var testConfig = ServerConfig{
	Host: "localhost",
	Port: 8081,
}

type testServer struct {
	url      string
	cache    *InMemoryReportCache
	metrics  *metrics.Metrics
	registry *prometheus.Registry
}

func startTestServer(t *testing.T, opts ...stateOpt) *testServer {
	t.Helper()

	cache := NewInMemoryReportCache(0)
	registry := prometheus.NewRegistry()
	testState := &ServerState{
		reportCache:     cache,
		converter:       HolderDataConverterImpl{},
		dataGroupReader: fakeDataGroupReader{rec: specimenFields()},
		metrics:         metrics.New(registry),
		gatherer:        registry,
	}
	for _, o := range opts {
		o(testState)
	}

	srv, err := NewServer(testState, testConfig)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testServer{url: ts.URL, cache: cache, metrics: testState.metrics, registry: registry}
}

type stateOpt func(*ServerState)

func withConverter(c HolderDataConverter) stateOpt {
	return func(s *ServerState) { s.converter = c }
}

func withDataGroupReader(r DataGroupReader) stateOpt {
	return func(s *ServerState) { s.dataGroupReader = r }
}

func withReportCache(c ReportCache) stateOpt {
	return func(s *ServerState) { s.reportCache = c }
}

func postJSON[T any](t *testing.T, url string, payload any) (*http.Response, []byte, *T) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(b)
	}
	resp, err := http.Post(url, "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var v T
	_ = json.Unmarshal(respBody, &v)

	return resp, respBody, &v
}

func mustStatus(t *testing.T, resp *http.Response, want int, body []byte) {
	t.Helper()
	require.Equalf(t, want, resp.StatusCode, "body: %s", body)
}

func specimenFields() mrz.FieldRecord {
	return mrz.FieldRecord{
		DocumentType:             "P",
		IssuingCountry:           "UTO",
		LastName:                 "ERIKSSON",
		FirstName:                "ANNA MARIA",
		PassportNumber:           "L898902C3",
		PassportCheckDigit:       "6",
		CountryCode:              "UTO",
		BirthDate:                "740812",
		BirthDateCheckDigit:      "2",
		Sex:                      "F",
		ExpirationDate:           "120415",
		ExpirationDateCheckDigit: "9",
		PersonalNumber:           "ZE184226B<<<<<",
		PersonalNumberCheckDigit: "1",
	}
}

// test doubles

type fakeConverter struct{ err error }

func (f fakeConverter) ToPassportData(rec mrz.FieldRecord) (models.PassportData, error) {
	if f.err != nil {
		return models.PassportData{}, f.err
	}
	return models.PassportData{DocumentNumber: rec.PassportNumber}, nil
}

type fakeDataGroupReader struct {
	rec mrz.FieldRecord
	err error
}

func (f fakeDataGroupReader) FieldRecordFromDG1(_ string) (mrz.FieldRecord, error) {
	return f.rec, f.err
}

// failingReportCache breaks on every call; decoding must not depend on it.
type failingReportCache struct{}

func (failingReportCache) StoreReport(_ context.Context, _ string, _ models.DecodeResponse) error {
	return errors.New("cache unavailable")
}

func (failingReportCache) RetrieveReport(_ context.Context, _ string) (models.DecodeResponse, bool, error) {
	return models.DecodeResponse{}, false, errors.New("cache unavailable")
}
