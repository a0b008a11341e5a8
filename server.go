package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go-passport-mrz/metrics"
	"go-passport-mrz/models"
	"go-passport-mrz/mrz"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const ErrorInternal = "error:internal"
const ERR_MARSHAL = "failed to marshal response message"
const ERR_DECODE_BODY = "failed to decode request body"
const ERR_CODEC = "rejected machine readable zone input"
const ERR_HOLDER_CONVERT = "failed to convert to passport data"
const ERR_DATA_GROUP = "failed to read data group"

const requestIdHeader = "X-Request-Id"

type ServerConfig struct {
	Host           string `json:"host" env:"MRZ_HOST"`
	Port           int    `json:"port" env:"MRZ_PORT"`
	UseTls         bool   `json:"use_tls,omitempty" env:"MRZ_USE_TLS"`
	TlsPrivKeyPath string `json:"tls_priv_key_path,omitempty" env:"MRZ_TLS_PRIV_KEY_PATH"`
	TlsCertPath    string `json:"tls_cert_path,omitempty" env:"MRZ_TLS_CERT_PATH"`
}

type ServerState struct {
	reportCache     ReportCache
	converter       HolderDataConverter
	dataGroupReader DataGroupReader
	metrics         *metrics.Metrics
	gatherer        prometheus.Gatherer
}

type Server struct {
	server *http.Server
	config ServerConfig
}

func (s *Server) ListenAndServe() error {
	if s.config.UseTls {
		slog.Info("Starting server with TLS", "host", s.config.Host, "port", s.config.Port, "cert", s.config.TlsCertPath, "key", s.config.TlsPrivKeyPath)
		return s.server.ListenAndServeTLS(s.config.TlsCertPath, s.config.TlsPrivKeyPath)
	} else {
		slog.Info("Starting server without TLS", "host", s.config.Host, "port", s.config.Port)
		return s.server.ListenAndServe()
	}
}

func (s *Server) Stop() error {
	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	if err != nil {
		slog.Error("Error during server shutdown", "error", err)
	} else {
		slog.Info("Server shut down successfully")
	}
	return err
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func NewServer(state *ServerState, config ServerConfig) (*Server, error) {
	if state.reportCache == nil {
		return nil, fmt.Errorf("server state has no report cache")
	}
	if state.metrics == nil || state.gatherer == nil {
		return nil, fmt.Errorf("server state has no metrics")
	}

	slog.Info("Creating new server", "host", config.Host, "port", config.Port, "tls", config.UseTls)
	router := mux.NewRouter()
	router.Use(requestIdMiddleware, metricsMiddleware(state.metrics))

	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("Health check request received")
		err := json.NewEncoder(w).Encode(map[string]bool{"ok": true})
		if err != nil {
			slog.Error("failed to write body to http response", "error", err)
		}
	})

	router.HandleFunc("/api/decode", func(w http.ResponseWriter, r *http.Request) {
		handleDecode(state, w, r)
	})
	router.HandleFunc("/api/encode", func(w http.ResponseWriter, r *http.Request) {
		handleEncode(state, w, r)
	})
	router.HandleFunc("/api/validate", func(w http.ResponseWriter, r *http.Request) {
		handleValidate(state, w, r)
	})
	router.HandleFunc("/api/passport-data", func(w http.ResponseWriter, r *http.Request) {
		handlePassportData(state, w, r)
	})
	router.HandleFunc("/api/decode-dg1", func(w http.ResponseWriter, r *http.Request) {
		handleDecodeDG1(state, w, r)
	})
	router.Handle("/metrics", promhttp.HandlerFor(state.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	slog.Debug("Registered all API routes")

	addr := fmt.Sprintf("%v:%v", config.Host, config.Port)
	srv := &http.Server{
		Handler: router,
		Addr:    addr,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	slog.Info("Server created successfully", "address", addr)
	return &Server{
		server: srv,
		config: config,
	}, nil
}

// middleware ------------

type requestIdKey struct{}

// requestIdMiddleware keeps an incoming X-Request-Id or assigns a new one.
func requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get(requestIdHeader)
		if _, err := uuid.Parse(requestId); err != nil {
			requestId = uuid.NewString()
		}
		w.Header().Set(requestIdHeader, requestId)
		ctx := context.WithValue(r.Context(), requestIdKey{}, requestId)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIdFrom(r *http.Request) string {
	if id, ok := r.Context().Value(requestIdKey{}).(string); ok {
		return id
	}
	return ""
}

func metricsMiddleware(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			route := "unknown"
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}
			m.ObserveRequest(route, start)
		})
	}
}

// handlers ------------

func handleDecode(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	requestId := requestIdFrom(r)
	slog.Info("Received request to decode a zone", "request_id", requestId)

	var request models.DecodeRequest
	if err := decodeBody(r, &request); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", ERR_DECODE_BODY, err)
		return
	}

	key := reportKey(request.Line1, request.Line2)
	cached, found, err := state.reportCache.RetrieveReport(r.Context(), key)
	if err != nil {
		// the cache is an optimisation, decoding still works without it
		slog.Warn("Failed to read report cache", "error", err, "request_id", requestId)
	} else if found {
		slog.Debug("Serving decode report from cache", "request_id", requestId)
		state.metrics.IncrementCacheHit()
		state.metrics.IncrementDecoded()
		if err := writeJSON(w, http.StatusOK, cached); err != nil {
			respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		}
		return
	}

	rec, err := mrz.Decode(request.Line1, request.Line2)
	if err != nil {
		respondWithCodecErr(state, w, err)
		return
	}
	state.metrics.IncrementDecoded()

	response := models.DecodeResponse{
		Fields:     rec.ToMap(),
		Mismatches: []string{},
	}

	// a zone that decodes is returned even when its digits cannot be checked
	mismatches, err := mrz.Mismatches(rec)
	if err != nil {
		var codecErr *mrz.Error
		if !errors.As(err, &codecErr) {
			respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_CODEC, err)
			return
		}
		slog.Warn("Check digits of decoded zone cannot be verified", "kind", codecErr.Kind, "subject", codecErr.Subject, "request_id", requestId)
		state.metrics.IncrementCodecError(string(codecErr.Kind))
		response.CheckError = codecErrorResponse(codecErr)
	} else {
		observeMismatches(state, mismatches)
		response.Mismatches = mismatches
		response.Valid = len(mismatches) == 0
	}

	if err := state.reportCache.StoreReport(r.Context(), key, response); err != nil {
		slog.Warn("Failed to store decode report", "error", err, "request_id", requestId)
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Zone decoded", "request_id", requestId, "valid", response.Valid, "mismatches", len(response.Mismatches))
}

func handleEncode(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	requestId := requestIdFrom(r)
	slog.Info("Received request to encode a zone", "request_id", requestId)

	var request models.EncodeRequest
	if err := decodeBody(r, &request); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", ERR_DECODE_BODY, err)
		return
	}

	line1, line2, err := mrz.EncodeMap(request.Fields)
	if err != nil {
		respondWithCodecErr(state, w, err)
		return
	}
	state.metrics.IncrementEncoded()

	if err := writeJSON(w, http.StatusOK, models.EncodeResponse{Line1: line1, Line2: line2}); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Zone encoded", "request_id", requestId)
}

func handleValidate(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	requestId := requestIdFrom(r)
	slog.Info("Received request to validate check digits", "request_id", requestId)

	var request models.EncodeRequest
	if err := decodeBody(r, &request); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", ERR_DECODE_BODY, err)
		return
	}

	rec, err := mrz.FieldsFromMap(request.Fields)
	if err != nil {
		respondWithCodecErr(state, w, err)
		return
	}

	mismatches, err := mrz.Mismatches(rec)
	if err != nil {
		respondWithCodecErr(state, w, err)
		return
	}
	observeMismatches(state, mismatches)

	response := models.ValidateResponse{
		Mismatches: mismatches,
		Valid:      len(mismatches) == 0,
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Check digits validated", "request_id", requestId, "valid", response.Valid)
}

func handlePassportData(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	requestId := requestIdFrom(r)
	slog.Info("Received request for passport holder data", "request_id", requestId)

	var request models.DecodeRequest
	if err := decodeBody(r, &request); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", ERR_DECODE_BODY, err)
		return
	}

	rec, err := mrz.Decode(request.Line1, request.Line2)
	if err != nil {
		respondWithCodecErr(state, w, err)
		return
	}
	state.metrics.IncrementDecoded()

	passportData, err := state.converter.ToPassportData(rec)
	if err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", ERR_HOLDER_CONVERT, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, passportData); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Passport holder data returned", "request_id", requestId, "is_expired", passportData.IsExpired)
}

func handleDecodeDG1(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	requestId := requestIdFrom(r)
	slog.Info("Received request to rebuild a zone from DG1", "request_id", requestId)

	var request models.DataGroupRequest
	if err := decodeBody(r, &request); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", ERR_DECODE_BODY, err)
		return
	}

	rec, err := state.dataGroupReader.FieldRecordFromDG1(request.DG1)
	if err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", ERR_DATA_GROUP, err)
		return
	}

	line1, line2, err := mrz.Encode(rec)
	if err != nil {
		respondWithCodecErr(state, w, err)
		return
	}
	state.metrics.IncrementEncoded()

	response := models.DataGroupResponse{
		Line1:  line1,
		Line2:  line2,
		Fields: rec.ToMap(),
	}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Zone rebuilt from DG1", "request_id", requestId)
}

// helpers ------------

func observeMismatches(state *ServerState, mismatches []string) {
	labels := make([]string, 0, len(mismatches))
	for _, m := range mismatches {
		labels = append(labels, mrz.MismatchLabel(m))
	}
	state.metrics.ObserveMismatches(labels)
}

func decodeBody(r *http.Request, v any) error {
	slog.Debug("Decoding request body", "path", r.URL.Path)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		slog.Warn("Failed to decode request body", "error", err)
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func respondWithErr(w http.ResponseWriter, code int, responseBody string, logMsg string, e error) {
	slog.Error(logMsg, "error", e, "status_code", code, "response_body", responseBody)
	w.WriteHeader(code)
	if _, err := w.Write([]byte(responseBody)); err != nil {
		slog.Error("failed to write body to http response", "error", err)
	}
}

// respondWithCodecErr reports rejected MRZ input with the failing line, field or key.
func respondWithCodecErr(state *ServerState, w http.ResponseWriter, e error) {
	var codecErr *mrz.Error
	if !errors.As(e, &codecErr) {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_CODEC, e)
		return
	}

	slog.Warn(ERR_CODEC, "kind", codecErr.Kind, "subject", codecErr.Subject, "error", e)
	state.metrics.IncrementCodecError(string(codecErr.Kind))

	if err := writeJSON(w, http.StatusBadRequest, codecErrorResponse(codecErr)); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
	}
}

func codecErrorResponse(e *mrz.Error) *models.ErrorResponse {
	return &models.ErrorResponse{
		Error:   e.Error(),
		Kind:    string(e.Kind),
		Subject: e.Subject,
	}
}

func closeRequestBody(r *http.Request) {
	if err := r.Body.Close(); err != nil {
		slog.Error("failed to close request body", "error", err)
	}
}

func requirePOST(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		slog.Debug("Non-POST request rejected", "method", r.Method, "path", r.URL.Path)
		respondWithErr(w, http.StatusMethodNotAllowed, "method not allowed", "invalid method", nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	slog.Debug("Writing JSON response", "status_code", status)
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal JSON payload", "error", err)
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(payload)
	if err != nil {
		slog.Error("failed to write body to http response", "error", err)
	} else {
		slog.Debug("JSON response written successfully", "status_code", status, "payload_size", len(payload))
	}
	return nil
}
