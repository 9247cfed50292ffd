package workspace_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushi-labs/kushi/modules/workspace"
	"github.com/kushi-labs/kushi/pkg/bootstrap"
	"github.com/kushi-labs/kushi/pkg/logger"
	"github.com/kushi-labs/kushi/pkg/session"
	"github.com/kushi-labs/kushi/pkg/theme"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	data, err := workspace.Load()
	require.NoError(t, err)

	assert.Len(t, data.Nav, 7)
	assert.Len(t, data.Logs, 4)
	assert.Len(t, data.Timeline, 3)
	assert.Len(t, data.Commits, 4)
	assert.Equal(t, []string{"App.js", "Button.js", "Index.js", "Modal.js", "Utils.js"}, data.FileNames())

	f, ok := data.File("App.js")
	require.True(t, ok)
	assert.Contains(t, f.Content, "Hello World")

	_, ok = data.File("Missing.js")
	assert.False(t, ok)

	assert.Equal(t, "Agent: Analyzing project structure.", data.Logs[2].Message)
	assert.Equal(t, "Jan 15, 2026", data.Timeline[0].Date)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := workspace.Parse([]byte("nav: []\nwhiteboard: {}\n"))
	require.ErrorIs(t, err, workspace.ErrInvalidFixtures)
}

func newAPI(t *testing.T, log *bytes.Buffer, guards ...func(http.Handler) http.Handler) http.Handler {
	t.Helper()

	data, err := workspace.Load()
	require.NoError(t, err)

	opts := []workspace.Option{workspace.WithGuards(guards...)}
	if log != nil {
		opts = append(opts, workspace.WithLogger(logger.New(logger.WithOutput(log), logger.WithJSONFormatter())))
	}

	r := chi.NewRouter()
	r.Mount("/api/workspace", workspace.NewService(data, opts...).Handle())
	return r
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestAPI(t *testing.T) {
	t.Parallel()

	h := newAPI(t, nil)

	tests := []struct {
		path string
		want string
	}{
		{"/api/workspace/nav", `"label":"Developer"`},
		{"/api/workspace/logs", `"message":"Environment setup complete."`},
		{"/api/workspace/timeline", `"title":"Design Phase"`},
		{"/api/workspace/commits", `"hash":"e4f5g6h"`},
		{"/api/workspace/files", `"Modal.js"`},
		{"/api/workspace/files/Utils.js", `"name":"Utils.js"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			w := get(h, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestAPI_MissingFile(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := get(newAPI(t, &buf), "/api/workspace/files/Nope.js")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"not_found"`)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "snippet not found", entry["msg"])
	assert.Equal(t, "Nope.js", entry["resource"])
}

func TestAPI_Guarded(t *testing.T) {
	t.Parallel()

	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
	}

	w := get(newAPI(t, nil, deny), "/api/workspace/logs")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	data, err := workspace.Load()
	require.NoError(t, err)

	svc := workspace.NewService(data, workspace.WithAppearance(
		func(http.ResponseWriter, *http.Request) (bootstrap.Appearance, error) {
			return bootstrap.AppearanceOf(theme.Dark), nil
		},
	))

	sess := session.NewSession("token", 0)
	sess.Set("userName", "alice")

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req = req.WithContext(session.WithSession(req.Context(), sess))
	w := httptest.NewRecorder()
	svc.Dashboard()(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `class="dark-theme"`)
	assert.Contains(t, body, "Welcome, alice")
	assert.Contains(t, body, `id="nav-developer"`)
	assert.Contains(t, body, "Initial commit")
	assert.Contains(t, body, `action="/logout"`)
}
