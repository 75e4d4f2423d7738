package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lazorkit/lazor/pkg/buildinfo"
	"github.com/lazorkit/lazor/pkg/cache"
	"github.com/lazorkit/lazor/pkg/errors"
	lazorio "github.com/lazorkit/lazor/pkg/io"
	"github.com/lazorkit/lazor/pkg/pipeline"
	"github.com/lazorkit/lazor/pkg/store"
)

// solveRequest is the POST /api/solve body.
type solveRequest struct {
	Board       lazorio.BoardJSON `json:"board"`
	Convention  string            `json:"convention,omitempty"`
	TimeLimitMS int64             `json:"time_limit_ms,omitempty"`
	Parallel    bool              `json:"parallel,omitempty"`
	Seeds       []int64           `json:"seeds,omitempty"`
	Refresh     bool              `json:"refresh,omitempty"`
}

// solveResponse is the POST /api/solve reply.
type solveResponse struct {
	ID        string             `json:"id"`
	BoardHash string             `json:"board_hash"`
	Solved    bool               `json:"solved"`
	HitCount  int                `json:"hit_count"`
	Record    lazorio.Record     `json:"record"`
	Stats     pipeline.Stats     `json:"stats"`
	Cache     pipeline.CacheInfo `json:"cache"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest,
			errors.New(errors.ErrCodeInvalidFormat, "decode request: %v", err))
		return
	}

	b, err := (lazorio.Record{Board: req.Board}).BuildBoard()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	limit := time.Duration(req.TimeLimitMS) * time.Millisecond
	if limit <= 0 || limit > maxTimeLimit {
		limit = maxTimeLimit
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Board:      b,
		Convention: req.Convention,
		TimeLimit:  limit,
		Parallel:   req.Parallel,
		Seeds:      req.Seeds,
		Refresh:    req.Refresh,
		Formats:    []string{pipeline.FormatJSON},
		Logger:     s.logger,
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	rec := lazorio.NewRecord(result.Board, result.Solution)
	run := &store.Run{
		ID:         result.RunID,
		BoardHash:  result.BoardHash,
		Record:     rec,
		Solved:     result.Solution.Solved,
		HitCount:   result.Solution.HitCount,
		Convention: string(result.Solution.Convention),
		Mode:       string(result.Solution.Mode),
		ElapsedMS:  result.Solution.Elapsed.Milliseconds(),
	}
	// Archive failures shouldn't fail the solve; retry transient errors and
	// log the rest.
	if err := cache.RetryWithBackoff(r.Context(), func() error {
		return s.runs.Insert(r.Context(), run)
	}); err != nil {
		s.logger.Error("archive run", "id", run.ID, "err", err)
	}

	writeJSON(w, http.StatusOK, solveResponse{
		ID:        result.RunID,
		BoardHash: result.BoardHash,
		Solved:    result.Solution.Solved,
		HitCount:  result.Solution.HitCount,
		Record:    rec,
		Stats:     result.Stats,
		Cache:     result.CacheInfo,
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest,
				errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}

	runs, err := s.runs.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.runs.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound,
			errors.New(errors.ErrCodeNotFound, "run %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.runs.Delete(r.Context(), id)
	if err == store.ErrNotFound {
		writeError(w, http.StatusNotFound,
			errors.New(errors.ErrCodeNotFound, "run %s not found", id))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps structured error codes to HTTP statuses.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidGrid,
		errors.ErrCodeInvalidToken, errors.ErrCodeInvalidLaser, errors.ErrCodeInvalidTarget,
		errors.ErrCodeInvalidStock, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	}})
}
