package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docktiles/docktiles/internal/config"
	"github.com/docktiles/docktiles/internal/docker"
)

// mockRuntime records calls so tests can assert the gate short-circuits
// before any runtime work.
type mockRuntime struct {
	containers map[string]container.InspectResponse

	pingErr error
	logs    string
	nextErr error

	startCalls   int
	stopCalls    int
	restartCalls int
	logTail      int
}

func (m *mockRuntime) ListContainers(_ context.Context, _ bool) ([]container.Summary, error) {
	summaries := make([]container.Summary, 0, len(m.containers))
	for _, c := range m.containers {
		summaries = append(summaries, container.Summary{ID: c.ID})
	}
	return summaries, nil
}

func (m *mockRuntime) InspectContainer(_ context.Context, name string) (container.InspectResponse, error) {
	if c, ok := m.containers[name]; ok {
		return c, nil
	}
	for _, c := range m.containers {
		if c.ID == name {
			return c, nil
		}
	}
	return container.InspectResponse{}, fmt.Errorf("no such container %s: %w", name, docker.ErrNotFound)
}

func (m *mockRuntime) InspectImage(_ context.Context, ref string) (image.InspectResponse, error) {
	return image.InspectResponse{}, fmt.Errorf("no such image %s: %w", ref, docker.ErrNotFound)
}

func (m *mockRuntime) StartContainer(_ context.Context, name string) error {
	m.startCalls++
	return m.checkName(name)
}

func (m *mockRuntime) StopContainer(_ context.Context, name string) error {
	m.stopCalls++
	return m.checkName(name)
}

func (m *mockRuntime) RestartContainer(_ context.Context, name string) error {
	m.restartCalls++
	return m.checkName(name)
}

func (m *mockRuntime) ContainerLogs(_ context.Context, name string, tail int) (string, error) {
	m.logTail = tail
	if err := m.checkName(name); err != nil {
		return "", err
	}
	return m.logs, nil
}

func (m *mockRuntime) Ping(_ context.Context) error { return m.pingErr }

func (m *mockRuntime) checkName(name string) error {
	if m.nextErr != nil {
		return m.nextErr
	}
	if _, ok := m.containers[name]; !ok {
		return fmt.Errorf("no such container %s: %w", name, docker.ErrNotFound)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8088},
		Security: config.SecurityConfig{
			ActionsEnabled: true,
			RateLimit:      0,
		},
		UI: config.UIConfig{PortHints: "8080,3000,80,5000,8000,8888,9090"},
	}
}

func containerFixture(id, name string) container.InspectResponse {
	return container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			ID:    id,
			Name:  "/" + name,
			Image: "sha256:0123456789abcdef",
			State: &container.State{Status: "running", Running: true},
		},
		Config: &container.Config{Image: "nginx:latest"},
	}
}

func newTestServer(cfg *config.Config, rt *mockRuntime) *Server {
	if rt.containers == nil {
		rt.containers = map[string]container.InspectResponse{
			"web": containerFixture("aaaabbbbccccddddeeee", "web"),
		}
	}
	return New(cfg, rt)
}

func doRequest(s *Server, method, target, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Run("runtime reachable", func(t *testing.T) {
		s := newTestServer(testConfig(), &mockRuntime{})
		rec := doRequest(s, http.MethodGet, "/healthz", "")

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]bool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body["ok"])
	})

	t.Run("runtime unreachable", func(t *testing.T) {
		rt := &mockRuntime{pingErr: fmt.Errorf("ping runtime: dial unix: no such file: %w", docker.ErrUnavailable)}
		s := newTestServer(testConfig(), rt)
		rec := doRequest(s, http.MethodGet, "/healthz", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "no such file")
	})

	t.Run("no auth required even with secret set", func(t *testing.T) {
		cfg := testConfig()
		cfg.Security.AuthSecret = "s3cret"
		s := newTestServer(cfg, &mockRuntime{})
		rec := doRequest(s, http.MethodGet, "/healthz", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestContainerActions(t *testing.T) {
	for _, action := range []string{"start", "stop", "restart"} {
		t.Run(action, func(t *testing.T) {
			rt := &mockRuntime{}
			s := newTestServer(testConfig(), rt)
			rec := doRequest(s, http.MethodPost, "/containers/web/"+action, "")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
		})
	}
}

func TestContainerActionNotFound(t *testing.T) {
	s := newTestServer(testConfig(), &mockRuntime{})
	rec := doRequest(s, http.MethodPost, "/containers/ghost/start", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestActionsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Security.AuthSecret = "s3cret"
	cfg.Security.ActionsEnabled = false
	rt := &mockRuntime{}
	s := newTestServer(cfg, rt)

	for _, action := range []string{"start", "stop", "restart"} {
		rec := doRequest(s, http.MethodPost, "/containers/web/"+action, "s3cret")
		assert.Equal(t, http.StatusForbidden, rec.Code, "action %s must be forbidden", action)
	}

	// The runtime must never have been touched.
	assert.Zero(t, rt.startCalls)
	assert.Zero(t, rt.stopCalls)
	assert.Zero(t, rt.restartCalls)
}

func TestActionAuthGate(t *testing.T) {
	cfg := testConfig()
	cfg.Security.AuthSecret = "s3cret"
	rt := &mockRuntime{}
	s := newTestServer(cfg, rt)

	tests := []struct {
		name       string
		bearer     string
		wantStatus int
	}{
		{name: "valid token", bearer: "s3cret", wantStatus: http.StatusOK},
		{name: "missing token", bearer: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong token", bearer: "wrong", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodPost, "/containers/web/start", tt.bearer)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	// Only the authorized request reached the runtime.
	assert.Equal(t, 1, rt.startCalls)
}

func TestIndexRequiresAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Security.AuthSecret = "s3cret"
	s := newTestServer(cfg, &mockRuntime{})

	rec := doRequest(s, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(s, http.MethodGet, "/", "s3cret")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContainerLogs(t *testing.T) {
	t.Run("default tail", func(t *testing.T) {
		rt := &mockRuntime{logs: "line one\nline two\n"}
		s := newTestServer(testConfig(), rt)
		rec := doRequest(s, http.MethodGet, "/containers/web/logs", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 200, rt.logTail)
		assert.Equal(t, "line one\nline two\n", rec.Body.String())
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	})

	t.Run("explicit tail", func(t *testing.T) {
		rt := &mockRuntime{}
		s := newTestServer(testConfig(), rt)
		rec := doRequest(s, http.MethodGet, "/containers/web/logs?tail=50", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 50, rt.logTail)
	})

	t.Run("invalid tail falls back to default", func(t *testing.T) {
		rt := &mockRuntime{}
		s := newTestServer(testConfig(), rt)
		rec := doRequest(s, http.MethodGet, "/containers/web/logs?tail=bogus", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 200, rt.logTail)
	})

	t.Run("unknown container", func(t *testing.T) {
		s := newTestServer(testConfig(), &mockRuntime{})
		rec := doRequest(s, http.MethodGet, "/containers/ghost/logs", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
