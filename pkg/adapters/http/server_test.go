package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/turing/internal/adapters/file"
	turinghttp "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machines"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler http.Handler
	runs    *memory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loader, err := memory.NewLoader(machines.Copy(), machines.BusyBeaver3(), machines.Rule110())
	require.NoError(t, err)

	runs := memory.NewStore()
	mgr := session.NewManager(memory.NewStore(), loader)
	handler := turinghttp.NewHandler(loader,
		turinghttp.WithRunStore(runs),
		turinghttp.WithSessions(mgr),
		turinghttp.WithMetrics(prometheus.NewRegistry()),
	)
	return &fixture{handler: handler, runs: runs}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestMachines(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "GET", "/machines", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"bb3", "copy", "rule110"}, decode[[]string](t, w))

	w = f.do(t, "GET", "/machines/copy", "")
	require.Equal(t, http.StatusOK, w.Code)
	def := decode[domain.Definition](t, w)
	assert.Equal(t, domain.State("s1"), def.Start)
	assert.Len(t, def.Transitions, 10)

	w = f.do(t, "GET", "/machines/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "machine not found")
}

func TestGraph(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "GET", "/machines/bb3/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph TD"))

	w = f.do(t, "GET", "/machines/bb3/graph?format=markdown", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "| State | Read | Next | Write | Move |")

	w = f.do(t, "GET", "/machines/bb3/graph?format=svg", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRun(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "POST", "/machines/copy/runs", `{"tape":"111"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	run := decode[domain.Run](t, w)
	assert.Equal(t, domain.StatusHalted, run.Status)
	assert.Equal(t, 28, run.Steps)
	assert.Equal(t, int64(3), run.Position)

	w = f.do(t, "GET", "/runs/"+run.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, run.ID, decode[domain.Run](t, w).ID)

	w = f.do(t, "GET", "/runs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{run.ID}, decode[[]string](t, w))
}

func TestCreateRun_DefaultTapeAndCells(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "POST", "/machines/copy/runs", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 45, decode[domain.Run](t, w).Steps)

	w = f.do(t, "POST", "/machines/copy/runs", `{"tape":[{"position":0,"symbol":"1"}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 6, decode[domain.Run](t, w).Steps)
}

func TestCreateRun_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		want   string
	}{
		{"missing machine", "/machines/nope/runs", `{}`, http.StatusNotFound, "machine not found"},
		{"invalid body", "/machines/copy/runs", `{"tape":`, http.StatusBadRequest, "invalid request body"},
		{"invalid tape", "/machines/copy/runs", `{"tape":42}`, http.StatusBadRequest, "tape must be"},
		{"negative limit", "/machines/copy/runs", `{"max_steps":-1}`, http.StatusBadRequest, "max_steps"},
		{"step limit", "/machines/bb3/runs", `{"max_steps":5}`, http.StatusUnprocessableEntity, "did not halt within 5 steps"},
		{"missing transition", "/machines/bb3/runs", `{"tape":"2"}`, http.StatusUnprocessableEntity, "missing transition"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, "POST", tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}

	// Failed runs are still recorded.
	w := f.do(t, "POST", "/machines/bb3/runs", `{"tape":"2"}`)
	var body struct {
		Run *domain.Run `json:"run"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Run)
	assert.Equal(t, domain.StatusFailed, body.Run.Status)

	stored, err := f.runs.Load(context.Background(), body.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, stored.Status)
}

func TestSessions_InvalidID(t *testing.T) {
	loader, err := memory.NewLoader(machines.Copy())
	require.NoError(t, err)

	stores := map[string]ports.RunStore{
		"memory": memory.NewStore(),
		"file":   file.NewStore(t.TempDir()),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			f := &fixture{handler: turinghttp.NewHandler(loader,
				turinghttp.WithSessions(session.NewManager(store, loader)))}

			for _, id := range []string{"a/b", ".."} {
				w := f.do(t, "POST", "/sessions", `{"id":"`+id+`","machine":"copy"}`)
				assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
				assert.Contains(t, w.Body.String(), "invalid run ID")
			}
		})
	}
}

func TestSessions(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "POST", "/sessions", `{"id":"dbg","machine":"copy","tape":"11"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, "POST", "/sessions", `{"id":"dbg","machine":"copy"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, "POST", "/sessions", `{"id":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "POST", "/sessions/dbg/step", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[domain.Run](t, w).Steps)

	w = f.do(t, "POST", "/sessions/dbg/step", `{"steps":4}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decode[domain.Run](t, w).Steps)

	w = f.do(t, "POST", "/sessions/dbg/step", `{"steps":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	run := decode[domain.Run](t, w)
	assert.Equal(t, domain.StatusHalted, run.Status)
	assert.Equal(t, 15, run.Steps)

	w = f.do(t, "GET", "/sessions", "")
	assert.Equal(t, []string{"dbg"}, decode[[]string](t, w))

	w = f.do(t, "GET", "/sessions/dbg", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, "DELETE", "/sessions/dbg", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, "GET", "/sessions/dbg", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)

	f.do(t, "POST", "/machines/copy/runs", `{"tape":"1"}`)

	w := f.do(t, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `turing_runs_total{machine="copy",status="halted"} 1`)
	assert.Contains(t, w.Body.String(), `turing_steps_total{machine="copy"} 6`)
}

func TestHealthAndInfo(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = f.do(t, "GET", "/info", "")
	assert.Equal(t, "turing-http", decode[map[string]string](t, w)["app"])
}

func TestSubscribeEvents(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/sessions", "application/json", bytes.NewBufferString(`{"id":"live","machine":"copy"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/sessions/live/events", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()

	reader := bufio.NewReader(stream.Body)
	readData := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "data: "))
			}
		}
	}
	assert.Equal(t, "connected", readData())

	resp, err = http.Post(srv.URL+"/sessions/live/step", "application/json", bytes.NewBufferString(`{"steps":3}`))
	require.NoError(t, err)
	resp.Body.Close()

	var run domain.Run
	require.NoError(t, json.Unmarshal([]byte(readData()), &run))
	assert.Equal(t, "live", run.ID)
	assert.Equal(t, 3, run.Steps)
}
