package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iwvelando/payout-simulator/internal/advisor"
	"github.com/iwvelando/payout-simulator/internal/analysis"
	"github.com/iwvelando/payout-simulator/internal/comparison"
	"github.com/iwvelando/payout-simulator/internal/config"
	"github.com/iwvelando/payout-simulator/internal/store"
	"github.com/iwvelando/payout-simulator/pkg/compensation"
	"github.com/iwvelando/payout-simulator/pkg/constants"
	"github.com/iwvelando/payout-simulator/pkg/output"
	"github.com/iwvelando/payout-simulator/pkg/philosophy"
	"github.com/iwvelando/payout-simulator/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	store         store.Store
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler serving the payout API. Saved
// structures and profiles live in st.
func NewHandler(logger *zap.Logger, st store.Store, maxUploadSize int64, version string, allowedOrigins []string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	h := &handler{logger: logger, store: st, maxUploadSize: maxUploadSize, version: trimmedVersion}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	}))
	r.Use(h.limitBody)

	r.Get("/healthz", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Get("/defaults", h.handleDefaults)
		r.Get("/presets", h.handlePresets)

		r.Post("/calculate", h.handleCalculate)
		r.Post("/analyze", h.handleAnalyze)
		r.Post("/recommendations/apply", h.handleApply)

		r.Route("/structures", func(r chi.Router) {
			r.Get("/", h.handleListStructures)
			r.Post("/", h.handleSaveStructure)
			r.Get("/{id}", h.handleGetStructure)
			r.Delete("/{id}", h.handleDeleteStructure)
		})
		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", h.handleListProfiles)
			r.Post("/", h.handleSaveProfile)
			r.Get("/{id}", h.handleGetProfile)
			r.Delete("/{id}", h.handleDeleteProfile)
		})

		r.Post("/comparisons", h.handleCompare)
	})

	return r
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug(fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			zap.String("op", "server.logRequests"),
			zap.String("requestId", middleware.GetReqID(r.Context())),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (h *handler) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

type defaultsResponse struct {
	Structure config.StructureConfig `json:"structure"`
	Profile   config.ProfileConfig   `json:"profile"`
	Analysis  config.AnalysisConfig  `json:"analysis"`
	Goals     []philosophy.Goal      `json:"goals"`
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	def := config.Default()
	h.writeJSON(w, http.StatusOK, defaultsResponse{
		Structure: def.Structure,
		Profile:   def.Profile,
		Analysis:  def.Analysis,
		Goals:     philosophy.Goals,
	})
}

type presetsResponse struct {
	Structures []config.StructureConfig `json:"structures"`
	Profiles   []config.ProfileConfig   `json:"profiles"`
}

func (h *handler) handlePresets(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, presetsResponse{
		Structures: config.StructurePresets(),
		Profiles:   config.ProfilePresets(),
	})
}

// requestOptions are the optional knobs accepted next to a configuration.
type requestOptions struct {
	Goal            string
	Recommendations []int
	IncludeCSV      bool
}

type calculateResponse struct {
	StructureName string                                               `json:"structureName"`
	ProfileName   string                                               `json:"profileName"`
	Payout        compensation.Result                                  `json:"payout"`
	QuarterTotals [constants.QuartersPerYear]compensation.QuarterTotal `json:"quarterTotals"`
	Monthly       [constants.MonthsPerYear]compensation.MonthRow       `json:"monthly"`
	KPIs          compensation.KPIs                                    `json:"kpis"`
	Warnings      []string                                             `json:"warnings,omitempty"`
	Duration      string                                               `json:"duration"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	start := time.Now()

	cfg, _, ok := h.readConfiguration(w, r, op)
	if !ok {
		return
	}

	report, err := analysis.Run(h.logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err, http.StatusBadRequest), err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("payout computed",
		zap.String("op", op),
		zap.String("structure", report.StructureName),
		zap.Float64("totalPayout", report.Payout.TotalPayout),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, calculateResponse{
		StructureName: report.StructureName,
		ProfileName:   report.ProfileName,
		Payout:        report.Payout,
		QuarterTotals: report.QuarterTotals,
		Monthly:       report.Monthly,
		KPIs:          report.KPIs,
		Warnings:      report.Warnings,
		Duration:      elapsed.String(),
	})
}

type analyzeResponse struct {
	Report   *analysis.Report `json:"report"`
	CSV      string           `json:"csv,omitempty"`
	Duration string           `json:"duration"`
}

func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalyze"
	start := time.Now()

	cfg, opts, ok := h.readConfiguration(w, r, op)
	if !ok {
		return
	}

	report, err := analysis.Run(h.logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err, http.StatusBadRequest), err.Error(), op)
		return
	}

	response := analyzeResponse{Report: report}
	if opts.IncludeCSV {
		response.CSV = output.CsvString(report)
	}

	elapsed := time.Since(start)
	response.Duration = elapsed.String()
	h.logger.Info("analysis computed",
		zap.String("op", op),
		zap.String("structure", report.StructureName),
		zap.String("goal", string(report.Goal)),
		zap.Int("recommendations", len(report.Recommendations)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

type applyResponse struct {
	*advisor.Result
	Config     map[string]interface{} `json:"config"`
	ConfigYAML string                 `json:"configYaml"`
	Duration   string                 `json:"duration"`
}

func (h *handler) handleApply(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleApply"
	start := time.Now()

	cfg, opts, ok := h.readConfiguration(w, r, op)
	if !ok {
		return
	}

	runner, err := advisor.NewRunner(h.logger, cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to initialize advisor: %v", err), op)
		return
	}
	result, err := runner.Run(opts.Recommendations)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err, http.StatusBadRequest), err.Error(), op)
		return
	}

	updated := *cfg
	updated.Structure = result.Structure
	configBytes, err := yaml.Marshal(updated)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.logger.Warn("failed to decode updated configuration map",
			zap.String("op", op),
			zap.Error(err),
		)
	}

	elapsed := time.Since(start)
	h.logger.Info("recommendations applied",
		zap.String("op", op),
		zap.Int("changes", len(result.Changes)),
		zap.Bool("significant", result.Curve.Significant),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, applyResponse{
		Result:     result,
		Config:     configMap,
		ConfigYAML: string(configBytes),
		Duration:   elapsed.String(),
	})
}

// readConfiguration decodes a request body into a configuration. YAML bodies
// are read as a configuration file. JSON bodies are either the configuration
// itself or an object with "config" and "options" keys. Missing sections
// take their defaults.
func (h *handler) readConfiguration(w http.ResponseWriter, r *http.Request, op string) (*config.Configuration, requestOptions, bool) {
	var opts requestOptions

	body, ok := h.readBody(w, r, op)
	if !ok {
		return nil, opts, false
	}

	var configBytes []byte
	if isYAML(r.Header.Get("Content-Type")) {
		configBytes = body
	} else {
		var payload map[string]interface{}
		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
				return nil, opts, false
			}
		}
		if payload == nil {
			payload = make(map[string]interface{})
		}

		configPayload := payload
		if rawConfig, found := payload["config"]; found {
			cfgMap, isMap := rawConfig.(map[string]interface{})
			if !isMap {
				h.respondErrorWithOp(w, http.StatusBadRequest, "invalid config payload: expected object", op)
				return nil, opts, false
			}
			configPayload = cfgMap
		}

		if rawOptions, found := payload["options"]; found {
			optsMap, isMap := rawOptions.(map[string]interface{})
			if !isMap {
				h.respondErrorWithOp(w, http.StatusBadRequest, "invalid options payload: expected object", op)
				return nil, opts, false
			}
			var err error
			if opts, err = parseOptions(optsMap); err != nil {
				h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
				return nil, opts, false
			}
		}

		var err error
		configBytes, err = yaml.Marshal(configPayload)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
			return nil, opts, false
		}
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return nil, opts, false
	}
	if opts.Goal != "" {
		cfg.Analysis.Goal = opts.Goal
	}
	return cfg, opts, true
}

func parseOptions(raw map[string]interface{}) (requestOptions, error) {
	var opts requestOptions
	if v, ok := raw["goal"]; ok {
		goal, isString := v.(string)
		if !isString {
			return opts, fmt.Errorf("invalid goal option: expected string")
		}
		opts.Goal = goal
	}
	if v, ok := raw["csv"]; ok {
		opts.IncludeCSV = coerceBool(v)
	}
	if v, ok := raw["recommendations"]; ok {
		list, isList := v.([]interface{})
		if !isList {
			return opts, fmt.Errorf("invalid recommendations option: expected list of indexes")
		}
		for _, item := range list {
			idx, err := coerceInt(item)
			if err != nil {
				return opts, fmt.Errorf("invalid recommendation index: %w", err)
			}
			opts.Recommendations = append(opts.Recommendations, idx)
		}
	}
	return opts, nil
}

func isYAML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "yaml") || strings.Contains(ct, "yml")
}

func (h *handler) readBody(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r.Body); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err), op)
		return nil, false
	}
	return buf.Bytes(), true
}

// decodeJSON reads a JSON body into dst.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	body, ok := h.readBody(w, r, op)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) handleListStructures(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListStructures(r.Context())
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err, http.StatusInternalServerError), err.Error(), "server.handleListStructures")
		return
	}
	if records == nil {
		records = []store.StructureRecord{}
	}
	h.writeJSON(w, http.StatusOK, records)
}

func (h *handler) handleSaveStructure(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSaveStructure"

	var s config.StructureConfig
	if !h.decodeJSON(w, r, &s, op) {
		return
	}
	warnings, err := s.Validate(true)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	rec, err := h.store.SaveStructure(r.Context(), s)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	for _, warning := range warnings {
		h.logger.Warn(warning, zap.String("op", op), zap.String("id", rec.ID))
	}
	h.logger.Info("structure saved", zap.String("op", op), zap.String("id", rec.ID), zap.String("name", s.Name))
	h.writeJSON(w, http.StatusCreated, savedResponse{Record: rec, Warnings: warnings})
}

type savedResponse struct {
	Record   interface{} `json:"record"`
	Warnings []string    `json:"warnings,omitempty"`
}

func (h *handler) handleGetStructure(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetStructure(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err, http.StatusInternalServerError), err.Error(), "server.handleGetStructure")
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

func (h *handler) handleDeleteStructure(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteStructure(r.Context(), id); err != nil {
		h.respondErrorWithOp(w, statusFor(err, http.StatusInternalServerError), err.Error(), "server.handleDeleteStructure")
		return
	}
	h.logger.Info("structure deleted", zap.String("op", "server.handleDeleteStructure"), zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListProfiles(r.Context())
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err, http.StatusInternalServerError), err.Error(), "server.handleListProfiles")
		return
	}
	if records == nil {
		records = []store.ProfileRecord{}
	}
	h.writeJSON(w, http.StatusOK, records)
}

func (h *handler) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSaveProfile"

	var p config.ProfileConfig
	if !h.decodeJSON(w, r, &p, op) {
		return
	}
	warnings, err := p.Validate(true)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	rec, err := h.store.SaveProfile(r.Context(), p)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	for _, warning := range warnings {
		h.logger.Warn(warning, zap.String("op", op), zap.String("id", rec.ID))
	}
	h.logger.Info("profile saved", zap.String("op", op), zap.String("id", rec.ID), zap.String("name", p.Name))
	h.writeJSON(w, http.StatusCreated, savedResponse{Record: rec, Warnings: warnings})
}

func (h *handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err, http.StatusInternalServerError), err.Error(), "server.handleGetProfile")
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

func (h *handler) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteProfile(r.Context(), id); err != nil {
		h.respondErrorWithOp(w, statusFor(err, http.StatusInternalServerError), err.Error(), "server.handleDeleteProfile")
		return
	}
	h.logger.Info("profile deleted", zap.String("op", "server.handleDeleteProfile"), zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}

type compareRequest struct {
	StructureIDs []string `json:"structureIds"`
	ProfileIDs   []string `json:"profileIds"`
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"
	start := time.Now()

	var req compareRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	result, err := comparison.CompareStored(r.Context(), h.logger, h.store, req.StructureIDs, req.ProfileIDs)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err, http.StatusInternalServerError), err.Error(), op)
		return
	}

	h.logger.Info("comparison computed",
		zap.String("op", op),
		zap.Int("rows", len(result.Rows)),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, result)
}

// statusFor maps domain errors to HTTP status codes, falling back to def.
func statusFor(err error, def int) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, validation.ErrInvalidStructure),
		errors.Is(err, validation.ErrInvalidProfile),
		errors.Is(err, validation.ErrInvalidSelection),
		errors.Is(err, philosophy.ErrUnknownGoal),
		errors.Is(err, advisor.ErrUnknownRecommendation):
		return http.StatusBadRequest
	}
	return def
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	level := h.logger.Error
	if status < http.StatusInternalServerError {
		level = h.logger.Warn
	}
	level("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Warn("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false
		}
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return false
}

func coerceInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%v is not a whole number", v)
		}
		return int(v), nil
	case int:
		return v, nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	}
	return 0, fmt.Errorf("unsupported index %v", value)
}
