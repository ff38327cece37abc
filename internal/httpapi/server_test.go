package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/latticevm/latticevm/internal/chem"
)

func newTestCore() *chem.Core {
	cfg := chem.DefaultConfig()
	cfg.W, cfg.H = 4, 4
	cfg.MaxVMs, cfg.MoveBufSize = 2, 8
	return chem.NewCore(cfg)
}

// pumpUntil drives core.Step() on the calling goroutine until fn reports
// done, or a short deadline elapses — the same role a running cmd/irmad
// RunLoop plays in production, standing in for it in tests so queued
// httpapi jobs actually get a tick to run on.
func pumpUntil(t *testing.T, core *chem.Core, fn func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		core.Step()
		if fn() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for queued job to drain")
}

func TestHandleCommandRun(t *testing.T) {
	core := newTestCore()
	srv := New(core)

	body, _ := json.Marshal(commandRequest{Cmd: "run"})
	req := httptest.NewRequest(http.MethodPost, "/command", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	pumpUntil(t, core, func() bool { return core.Config().IsRunning })
}

func TestHandleCommandUnknown(t *testing.T) {
	core := newTestCore()
	srv := New(core)

	body, _ := json.Marshal(commandRequest{Cmd: "bogus"})
	req := httptest.NewRequest(http.MethodPost, "/command", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	core.Step()
	assert.False(t, core.Config().IsRunning, "unknown cmd must never reach the core")
}

func TestHandleCommandMalformedBody(t *testing.T) {
	core := newTestCore()
	srv := New(core)

	req := httptest.NewRequest(http.MethodPost, "/command", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSnapshot(t *testing.T) {
	core := newTestCore()
	srv := New(core)
	core.World().SetAtom(0, chem.NewAtom(chem.TypeMov, chem.DirRight, 0, false))

	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	rec := httptest.NewRecorder()

	recDone := make(chan struct{})
	go func() {
		srv.router.ServeHTTP(rec, req)
		close(recDone)
	}()
	pumpUntil(t, core, func() bool {
		select {
		case <-recDone:
			return true
		default:
			return false
		}
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("snapshot body did not decode as JSON: %v", err)
	}
	assert.Equal(t, 4, got.Width)
	assert.Equal(t, 4, got.Height)
}
