// pkg/server/server_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp directories), httptest
// PURPOSE: Verify the JSON API drives the engine and maps errors to statuses

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/arthur-debert/modlink/pkg/config"
	"github.com/arthur-debert/modlink/pkg/engine"
	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/arthur-debert/modlink/pkg/filesystem"
	"github.com/arthur-debert/modlink/pkg/testutil"
	"github.com/arthur-debert/modlink/pkg/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu    sync.Mutex
	roots []string
	err   error
}

func (r *recordingNotifier) Notify(root string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roots = append(r.roots, root)
	return r.err
}

func (r *recordingNotifier) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.roots)
}

type memoryStore struct {
	mu  sync.Mutex
	cfg config.Config
	err error
}

func (m *memoryStore) Load() (*config.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *memoryStore) load() (*config.Config, error) {
	if m.err != nil {
		return nil, m.err
	}
	cfg := m.cfg
	return &cfg, nil
}

func (m *memoryStore) SetPaths(mods, save string) (*config.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.cfg.ModsPath = mods
	m.cfg.SaveModsPath = save
	m.cfg.FirstRun = false
	return m.load()
}

type fixture struct {
	repo     *testutil.ModRepo
	engine   *engine.Manager
	store    *memoryStore
	notifier *recordingNotifier
	handler  http.Handler
}

func newFixture(t *testing.T, mods ...string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := testutil.NewModRepo(t)
	for _, id := range mods {
		repo.AddMod(id)
	}
	m := engine.New(filesystem.NewOS(), repo.ModsPath, repo.ActivePath)
	store := &memoryStore{cfg: *config.Defaults()}
	notifier := &recordingNotifier{}

	srv, err := NewServer(&Options{
		Engine:   m,
		Store:    store,
		Notifier: notifier,
		Reload:   true,
		Version:  "test",
	})
	require.NoError(t, err)

	return &fixture{repo: repo, engine: m, store: store, notifier: notifier, handler: srv.Handler()}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	return w, decoded
}

func TestNewServer_RequiresEngine(t *testing.T) {
	_, err := NewServer(&Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = NewServer(nil)
	assert.Error(t, err)
}

func TestRootAndHealth(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "modlink", body["name"])
	assert.Equal(t, "test", body["version"])
	assert.Equal(t, "running", body["status"])

	w, body = f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestListMods(t *testing.T) {
	f := newFixture(t, "A", "B")
	f.repo.LinkMod("B")

	w, body := f.do(t, http.MethodGet, "/api/mods", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	mods := body["mods"].([]interface{})
	require.Len(t, mods, 2)
	first := mods[0].(map[string]interface{})
	second := mods[1].(map[string]interface{})
	assert.Equal(t, "A", first["id"])
	assert.Equal(t, false, first["is_active"])
	assert.Equal(t, "B", second["id"])
	assert.Equal(t, true, second["is_active"])
}

func TestListMods_UnconfiguredIsBadRequest(t *testing.T) {
	f := newFixture(t)
	f.engine.SetPaths("", "")

	w, body := f.do(t, http.MethodGet, "/api/mods", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, string(errors.ErrPathsNotConfigured), body["code"])
}

func TestActiveMods(t *testing.T) {
	f := newFixture(t, "A", "B")
	f.repo.LinkMod("A")

	w, body := f.do(t, http.MethodGet, "/api/mods/active", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"A"}, body["mods"])
}

func TestModInfo(t *testing.T) {
	f := newFixture(t)
	f.repo.AddFile("A", "a.txt", "12345")

	w, body := f.do(t, http.MethodGet, "/api/mods/A", nil)
	require.Equal(t, http.StatusOK, w.Code)
	mod := body["mod"].(map[string]interface{})
	assert.Equal(t, float64(5), mod["size"])
	assert.Equal(t, "5.0 B", mod["size_formatted"])

	w, body = f.do(t, http.MethodGet, "/api/mods/Nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(errors.ErrModNotFound), body["code"])
}

func TestToggle(t *testing.T) {
	f := newFixture(t, "A")

	w, body := f.do(t, http.MethodPost, "/api/mods/toggle", gin.H{"mod_id": "A"})
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["is_active"])
	assert.True(t, f.repo.IsLinked("A"))
	assert.Equal(t, 1, f.notifier.calls())

	w, body = f.do(t, http.MethodPost, "/api/mods/toggle", gin.H{"mod_id": "A"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["is_active"])
	assert.False(t, f.repo.IsLinked("A"))
	assert.Equal(t, 2, f.notifier.calls())
}

func TestToggle_Errors(t *testing.T) {
	f := newFixture(t, "A")

	t.Run("missing_body_field", func(t *testing.T) {
		w, _ := f.do(t, http.MethodPost, "/api/mods/toggle", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown_mod", func(t *testing.T) {
		w, body := f.do(t, http.MethodPost, "/api/mods/toggle", gin.H{"mod_id": "Nope"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, false, body["success"])
	})

	assert.Zero(t, f.notifier.calls(), "failed changes do not signal a reload")
}

func TestActivateSet(t *testing.T) {
	f := newFixture(t, "A", "B", "C")
	f.repo.LinkMod("A")

	w, body := f.do(t, http.MethodPost, "/api/mods/activate", gin.H{"mod_ids": []string{"B", "Missing"}})

	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, string(types.StatusPartial), body["status"])
	assert.Contains(t, body["message"], "Missing")
	assert.Equal(t, []string{"B"}, f.repo.ActiveLinks())
}

func TestActivateSet_EmptySelection(t *testing.T) {
	f := newFixture(t, "A")

	w, body := f.do(t, http.MethodPost, "/api/mods/activate", gin.H{"mod_ids": []string{}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(errors.ErrEmptySelection), body["code"])
}

func TestActivateAndDeactivateByPath(t *testing.T) {
	f := newFixture(t, "A", "B")
	f.repo.LinkMod("B")

	w, body := f.do(t, http.MethodPost, "/api/mods/A/activate", nil)
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, []string{"A", "B"}, f.repo.ActiveLinks())

	w, body = f.do(t, http.MethodPost, "/api/mods/A/deactivate", nil)
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, false, body["is_active"])
	assert.Equal(t, []string{"B"}, f.repo.ActiveLinks())
}

func TestClearAll(t *testing.T) {
	f := newFixture(t, "A", "B")
	f.repo.LinkMod("A")
	f.repo.LinkMod("B")
	f.repo.AddForeignFile("d3dx.ini", "x")

	w, body := f.do(t, http.MethodPost, "/api/mods/clear-all", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Deactivated 2 mod(s)", body["message"])
	assert.Empty(t, f.repo.ActiveLinks())
}

func TestConfig(t *testing.T) {
	f := newFixture(t, "A")

	w, body := f.do(t, http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, f.repo.ModsPath, body["mods_path"])
	assert.Equal(t, true, body["first_run"])

	other := testutil.NewModRepo(t)
	other.AddMod("Z")
	w, body = f.do(t, http.MethodPost, "/api/config", gin.H{
		"mods_path":      other.ModsPath,
		"save_mods_path": other.ActivePath,
	})
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Nil(t, body["warning"])

	assert.Equal(t, other.ModsPath, f.store.cfg.ModsPath)
	assert.Equal(t, []string{"Z"}, f.engine.ScanMods(), "engine uses the new paths without a restart")
}

func TestConfig_ConcurrentUpdatesAndListing(t *testing.T) {
	f := newFixture(t, "A", "B")
	other := testutil.NewModRepo(t)
	other.AddMod("Z")
	roots := [][2]string{
		{f.repo.ModsPath, f.repo.ActivePath},
		{other.ModsPath, other.ActivePath},
	}

	send := func(method, path string, body []byte) int {
		req := httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		f.handler.ServeHTTP(w, req)
		return w.Code
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		root := roots[i%2]
		body, err := json.Marshal(gin.H{"mods_path": root[0], "save_mods_path": root[1]})
		require.NoError(t, err)

		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.Equal(t, http.StatusOK, send(http.MethodPost, "/api/config", body))
		}()
		go func() {
			defer wg.Done()
			assert.Equal(t, http.StatusOK, send(http.MethodGet, "/api/mods", nil))
		}()
	}
	wg.Wait()

	mods, _ := f.engine.Paths()
	assert.Contains(t, []string{f.repo.ModsPath, other.ModsPath}, mods)
}

func TestConfig_WarnsOnUnusablePaths(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodPost, "/api/config", gin.H{
		"mods_path":      "/definitely/not/here",
		"save_mods_path": "/nor/here",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["warning"])
}

func TestConfig_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.err = errors.New(errors.ErrConfigSave, "disk full")

	w, body := f.do(t, http.MethodPost, "/api/config", gin.H{"mods_path": "/a", "save_mods_path": "/b"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "disk full", body["error"])
}

func TestReload(t *testing.T) {
	f := newFixture(t)

	w, _ := f.do(t, http.MethodPost, "/api/reload", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, f.notifier.calls())
	assert.Equal(t, f.repo.ActivePath, f.notifier.roots[0])

	f.notifier.err = errors.New(errors.ErrNotify, "no folder")
	w, body := f.do(t, http.MethodPost, "/api/reload", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "no folder", body["error"])
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.ErrorCode
		want int
	}{
		{errors.ErrPathsNotConfigured, http.StatusBadRequest},
		{errors.ErrEmptySelection, http.StatusBadRequest},
		{errors.ErrModNotFound, http.StatusNotFound},
		{errors.ErrPermissionDenied, http.StatusForbidden},
		{errors.ErrLinkCreate, http.StatusInternalServerError},
		{errors.ErrUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.code))
		})
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	f := newFixture(t)
	srv, err := NewServer(&Options{Engine: f.engine})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()

	cancel()
	assert.NoError(t, <-done)
}
