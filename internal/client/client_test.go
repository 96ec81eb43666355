package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inphormed/internal/layout"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestNew_DefaultsAndTrimsBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("").BaseURL())
	assert.Equal(t, "http://example.test", New("http://example.test/").BaseURL())
}

func TestGetLayout(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, LayoutPath, r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		_, _ = w.Write([]byte(`{"version":1,"widgets":[{"id":"create","order":0,"span":1},{"id":"chat","order":1,"span":2,"visible":false}]}`))
	})

	l, err := c.GetLayout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"create", "chat"}, l.OrderedIDs())
	chat, _ := l.Lookup("chat")
	assert.False(t, chat.Visible)
	create, _ := l.Lookup("create")
	assert.True(t, create.Visible)
}

func TestGetLayout_NonSuccessStatus(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.GetLayout(context.Background())

	var se *StatusError
	require.True(t, errors.As(err, &se), "want StatusError, got %v", err)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "boom", se.Body)
	assert.False(t, errors.Is(err, layout.ErrMalformed))
}

func TestGetLayout_MalformedBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})

	_, err := c.GetLayout(context.Background())
	assert.ErrorIs(t, err, layout.ErrMalformed)
}

func TestGetLayout_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).GetLayout(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, layout.ErrMalformed))
}

func TestSaveLayout_PostsWrappedLayout(t *testing.T) {
	var got struct {
		Layout layout.Layout `json:"layout"`
	}
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	require.NoError(t, c.SaveLayout(context.Background(), layout.Default()))
	assert.Equal(t, layout.Default(), got.Layout)
}

func TestSendCommand(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, CommandPath, r.URL.Path)
		var req struct {
			Command string        `json:"command"`
			Layout  layout.Layout `json:"layout"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "oculta chat", req.Command)
		assert.Len(t, req.Layout.Widgets, 3)

		l := req.Layout
		l.Widgets[0].Visible = false
		_ = json.NewEncoder(w).Encode(map[string]any{"layout": l, "notes": []string{"chat → visible=False"}})
	})

	resp, err := c.SendCommand(context.Background(), "oculta chat", layout.Default())
	require.NoError(t, err)
	require.NotNil(t, resp.Layout)
	chat, _ := resp.Layout.Lookup("chat")
	assert.False(t, chat.Visible)
	assert.Equal(t, []string{"chat → visible=False"}, resp.Notes)
}

func TestSendCommand_NoLayoutMeansNoChange(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	resp, err := c.SendCommand(context.Background(), "hola", layout.Default())
	require.NoError(t, err)
	assert.Nil(t, resp.Layout)
}

func TestHealth(t *testing.T) {
	status := "ok"
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, HealthPath, r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	})

	assert.NoError(t, c.Health(context.Background()))
	status = "degraded"
	assert.Error(t, c.Health(context.Background()))
}

func TestClient_AsLayoutRemote(t *testing.T) {
	stored := layout.Layout{Version: 1, Widgets: []layout.Widget{{ID: "validate", Order: 0, Span: 2, Visible: true}}}
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(stored)
		case http.MethodPost:
			var req struct {
				Layout layout.Layout `json:"layout"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			stored = req.Layout
		}
	})

	s := layout.NewStore(c, nil)
	res := s.Load(context.Background())
	require.True(t, res.Applied)
	assert.Equal(t, []string{"validate"}, s.Get().OrderedIDs())
}
