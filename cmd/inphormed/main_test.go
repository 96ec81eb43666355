package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inphormed/internal/layout"
	"inphormed/internal/server"
	"inphormed/internal/store"
)

// unreachable is a base URL nothing listens on.
const unreachable = "http://127.0.0.1:1"

// testEnv isolates config, cache and tracing from the developer's machine and
// returns the cache directory.
func testEnv(t *testing.T, baseURL string) string {
	t.Helper()
	cacheDir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("INPHORMED_CONFIG", "")
	t.Setenv("INPHORMED_CACHE_DIR", cacheDir)
	t.Setenv("INPHORMED_CLIENT_BASE_URL", baseURL)
	t.Setenv("INPHORMED_CLIENT_TIMEOUT", "2s")
	t.Setenv("INPHORMED_LOG_LEVEL", "error")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	return cacheDir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func newTestServer(t *testing.T) (*httptest.Server, store.Repository) {
	t.Helper()
	repo := store.NewFileRepository(filepath.Join(t.TempDir(), "ui_layout.json"))
	srv := httptest.NewServer(server.New("", repo, server.WithLogger(zap.NewNop())).Handler())
	t.Cleanup(srv.Close)
	return srv, repo
}

func writeCache(t *testing.T, dir string, l layout.Layout) {
	t.Helper()
	data, err := json.Marshal(l)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, layout.CacheKey+".json"), data, 0o644))
}

func readCache(t *testing.T, dir string) layout.Layout {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, layout.CacheKey+".json"))
	require.NoError(t, err)
	l, err := layout.Parse(data)
	require.NoError(t, err)
	return l
}

func TestLayoutShow_CacheWhenServerDown(t *testing.T) {
	cacheDir := testEnv(t, unreachable)
	writeCache(t, cacheDir, layout.Default().MoveTo(layout.WidgetCreate, 0))

	out, err := execute(t, "layout", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "remote: unavailable  cache: ok")
	assert.Contains(t, out, "1. create")
	assert.Contains(t, out, "2. chat")
	assert.Contains(t, out, "3. validate")
}

func TestLayoutShow_DefaultWhenNothingStored(t *testing.T) {
	testEnv(t, unreachable)

	out, err := execute(t, "layout", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "(default layout)")
	assert.Contains(t, out, "1. chat")
}

func TestLayoutShow_JSON(t *testing.T) {
	srv, repo := newTestServer(t)
	testEnv(t, srv.URL)
	require.NoError(t, repo.Write(context.Background(), layout.Default().MoveTo(layout.WidgetValidate, 0)))

	out, err := execute(t, "layout", "show", "--json")

	require.NoError(t, err)
	l, err := layout.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, []string{"validate", "chat", "create"}, l.OrderedIDs())
}

func TestLayoutReset(t *testing.T) {
	srv, repo := newTestServer(t)
	cacheDir := testEnv(t, srv.URL)
	hidden := layout.Default()
	hidden.Widgets[0].Visible = false
	writeCache(t, cacheDir, hidden)

	out, err := execute(t, "layout", "reset")

	require.NoError(t, err)
	assert.Contains(t, out, "layout reset to default")
	assert.Equal(t, layout.Default(), readCache(t, cacheDir))
	persisted, err := repo.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, layout.Default(), persisted)
}

func TestLayoutForget_ServerWinsAgain(t *testing.T) {
	srv, repo := newTestServer(t)
	cacheDir := testEnv(t, srv.URL)
	writeCache(t, cacheDir, layout.Default().MoveTo(layout.WidgetCreate, 0))
	require.NoError(t, repo.Write(context.Background(), layout.Default().MoveTo(layout.WidgetValidate, 0)))

	out, err := execute(t, "layout", "forget")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")
	_, err = os.Stat(filepath.Join(cacheDir, layout.CacheKey+".json"))
	assert.True(t, os.IsNotExist(err))

	out, err = execute(t, "layout", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "remote: ok  cache: missing")
	assert.Contains(t, out, "1. validate")
}

func TestCommand_AppliesAgentResult(t *testing.T) {
	srv, repo := newTestServer(t)
	cacheDir := testEnv(t, srv.URL)

	out, err := execute(t, "command", "oculta", "chat")

	require.NoError(t, err)
	assert.Contains(t, out, "chat → visible=False")
	assert.Contains(t, out, "hidden")

	chat, ok := readCache(t, cacheDir).Lookup(layout.WidgetChat)
	require.True(t, ok)
	assert.False(t, chat.Visible)

	persisted, err := repo.Read(context.Background())
	require.NoError(t, err)
	chat, ok = persisted.Lookup(layout.WidgetChat)
	require.True(t, ok)
	assert.False(t, chat.Visible)
}

func TestCommand_UsesCachedLayoutAsBase(t *testing.T) {
	srv, _ := newTestServer(t)
	cacheDir := testEnv(t, srv.URL)
	writeCache(t, cacheDir, layout.Default().MoveTo(layout.WidgetCreate, 0))

	_, err := execute(t, "command", "mueve chat al final")

	require.NoError(t, err)
	assert.Equal(t, []string{"create", "validate", "chat"}, readCache(t, cacheDir).OrderedIDs())
}

func TestCommand_NotUnderstood(t *testing.T) {
	srv, _ := newTestServer(t)
	testEnv(t, srv.URL)

	out, err := execute(t, "command", "haz", "magia")

	require.NoError(t, err)
	assert.Contains(t, out, "no change")
	assert.True(t, strings.Index(out, "1. chat") > strings.Index(out, "no change"))
}

func TestCommand_ServerDown(t *testing.T) {
	testEnv(t, unreachable)

	_, err := execute(t, "command", "oculta", "chat")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui agent")
}

func TestCommand_RequiresText(t *testing.T) {
	testEnv(t, unreachable)

	_, err := execute(t, "command")

	assert.Error(t, err)
}

func TestRoot_MissingExplicitConfig(t *testing.T) {
	testEnv(t, unreachable)

	_, err := execute(t, "layout", "show", "--config", filepath.Join(t.TempDir(), "nope.toml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestServe_UnknownStorage(t *testing.T) {
	testEnv(t, unreachable)

	_, err := execute(t, "serve", "--storage", "redis", "--addr", "127.0.0.1:0")

	assert.Error(t, err)
}
