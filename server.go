package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// maxRequestBody bounds POST /solve bodies, which carry at most a config.
const maxRequestBody = 1 << 20

// maxRequestAttempts caps the escalation attempts of a request config.
const maxRequestAttempts = 10

type solveRequest struct {
	Target *int            `json:"target"`
	Config json.RawMessage `json:"config,omitempty"`
}

type httpError struct {
	code int
	msg  string
}

func (e *httpError) Error() string { return e.msg }

// solveBody decodes a solve request and runs it. A request may carry its
// own config; otherwise def is used.
func solveBody(body []byte, def *Solver, log *zap.Logger, metrics *Metrics) (SolveResponse, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var req solveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return SolveResponse{}, &httpError{http.StatusBadRequest, "invalid JSON: " + err.Error()}
	}
	if req.Target == nil {
		return SolveResponse{}, &httpError{http.StatusBadRequest, "missing target"}
	}
	if err := checkTarget(*req.Target); err != nil {
		return SolveResponse{}, &httpError{http.StatusBadRequest, err.Error()}
	}

	solver := def
	if len(req.Config) > 0 {
		cfg, err := parseConfigJSON(string(req.Config))
		if err != nil {
			return SolveResponse{}, &httpError{http.StatusBadRequest, "config: " + err.Error()}
		}
		// A request never searches longer than the served config allows.
		if budget := def.engine.Budget(); cfg.MaxIterations > budget {
			log.Debug("clamped request budget",
				zap.Int("requested", cfg.MaxIterations), zap.Int("budget", budget))
			cfg.MaxIterations = budget
		}
		cfg.MaxAttempts = min(cfg.MaxAttempts, maxRequestAttempts)
		solver, err = NewSolver(cfg, log, metrics)
		if err != nil {
			return SolveResponse{}, &httpError{http.StatusUnprocessableEntity, err.Error()}
		}
	}

	res, report, err := solver.Solve(*req.Target)
	if err != nil {
		return SolveResponse{}, &httpError{http.StatusUnprocessableEntity, err.Error()}
	}
	return SolveResponse{Target: *req.Target, Resolution: res, Report: report}, nil
}

// errorStatus maps an error from solveBody to a status code and message.
func errorStatus(err error) (int, string) {
	var he *httpError
	if errors.As(err, &he) {
		return he.code, he.msg
	}
	return http.StatusInternalServerError, err.Error()
}

// NewRouter serves solve requests against def, plus catalog, health and
// metrics endpoints.
func NewRouter(def *Solver, log *zap.Logger, metrics *Metrics) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/catalog", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, def.Catalog())
	})

	r.Post("/solve", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
		if err != nil {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
			return
		}
		resp, err := solveBody(body, def, log, metrics)
		if err != nil {
			code, msg := errorStatus(err)
			log.Debug("rejected solve request", zap.Int("status", code), zap.String("error", msg))
			writeJSON(w, code, map[string]string{"error": msg})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})

	if metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		code = http.StatusInternalServerError
		body = fmt.Appendf(nil, `{"error":%q}`, err.Error())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(append(body, '\n'))
}
