package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lazorkit/lazor/pkg/board"
	"github.com/lazorkit/lazor/pkg/cache"
	lazorio "github.com/lazorkit/lazor/pkg/io"
	"github.com/lazorkit/lazor/pkg/pipeline"
	"github.com/lazorkit/lazor/pkg/store"
)

func testServer() (*Server, *store.MemoryStore) {
	runs := store.NewMemoryStore()
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, log.New(io.Discard))
	return NewServer(runner, runs, log.New(io.Discard)), runs
}

func solveBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(solveRequest{
		Board: lazorio.BoardJSON{
			Grid: [][]string{
				{"o", "o", "o"},
				{"o", "o", "o"},
				{"o", "o", "o"},
			},
			Stock:   map[string]int{"A": 1},
			Lasers:  []board.Laser{{X: 0, Y: 1, VX: 1, VY: 1}},
			Targets: []board.Point{{X: 1, Y: 4}},
		},
		TimeLimitMS: 5000,
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	srv, _ := testServer()
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestSolveAndArchive(t *testing.T) {
	srv, runs := testServer()
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/solve", "application/json", bytes.NewReader(solveBody(t)))
	if err != nil {
		t.Fatalf("POST /api/solve error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, raw)
	}
	var out solveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !out.Solved {
		t.Error("Solved = false, want true")
	}
	if out.ID == "" || out.BoardHash == "" {
		t.Errorf("missing identifiers: %+v", out)
	}
	if out.Record.Solution == nil {
		t.Fatal("response record has no solution")
	}

	// The run is archived
	archived, err := runs.Get(t.Context(), out.ID)
	if err != nil {
		t.Fatalf("store.Get error: %v", err)
	}
	if archived == nil {
		t.Fatal("run not archived")
	}
	if !archived.Solved || archived.BoardHash != out.BoardHash {
		t.Errorf("archived run = %+v", archived)
	}

	// And listable via the API
	listResp, err := http.Get(ts.URL + "/api/runs")
	if err != nil {
		t.Fatalf("GET /api/runs error: %v", err)
	}
	defer listResp.Body.Close()
	var list struct {
		Runs []store.Run `json:"runs"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(list.Runs) != 1 || list.Runs[0].ID != out.ID {
		t.Errorf("runs = %+v, want the solve run", list.Runs)
	}
}

func TestSolveRejectsInvalidBoard(t *testing.T) {
	srv, _ := testServer()
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	body, _ := json.Marshal(solveRequest{
		Board: lazorio.BoardJSON{
			Grid:   [][]string{{"o", "?"}},
			Lasers: []board.Laser{{X: 0, Y: 1, VX: 1, VY: 1}},
		},
	})
	resp, err := http.Post(ts.URL+"/api/solve", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var out errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if out.Error.Code != "INVALID_TOKEN" {
		t.Errorf("error code = %q, want INVALID_TOKEN", out.Error.Code)
	}
}

func TestSolveRejectsMalformedJSON(t *testing.T) {
	srv, _ := testServer()
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/solve", "application/json", bytes.NewBufferString("{nope"))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetRunNotFound(t *testing.T) {
	srv, _ := testServer()
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/runs/absent")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDeleteRun(t *testing.T) {
	srv, runs := testServer()
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	if err := runs.Insert(t.Context(), &store.Run{ID: "run-1"}); err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/runs/run-1", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("second DELETE error: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp2.StatusCode)
	}
}
