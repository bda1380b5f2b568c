package reload_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gild/internal/adapters/reload"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type frame struct {
	Command    string   `json:"command"`
	Protocols  []string `json:"protocols"`
	ServerName string   `json:"serverName"`
	Path       string   `json:"path"`
	LiveCSS    bool     `json:"liveCSS"`
}

func newTestServer(t *testing.T, root string) (*reload.Hub, *httptest.Server) {
	t.Helper()
	ctrl := gomock.NewController(t)
	hub := reload.NewHub()
	srv := reload.NewServer(hub, domain.Server{Host: "127.0.0.1", Port: 0}, root, mocks.NewMockLogger(ctrl))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return hub, ts
}

// connect dials the socket and completes the hello handshake.
func connect(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/livereload"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.WriteJSON(frame{Command: "hello", Protocols: []string{reload.ProtocolV7}}))

	var hello frame
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "hello", hello.Command)
	assert.Equal(t, []string{reload.ProtocolV7}, hello.Protocols)
	assert.Equal(t, "gild", hello.ServerName)
	return conn
}

func TestHub_ReloadCSS(t *testing.T) {
	hub, ts := newTestServer(t, t.TempDir())
	conn := connect(t, ts)

	hub.Reload("dist/css/main.css")

	var got frame
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "reload", got.Command)
	assert.Equal(t, "/dist/css/main.css", got.Path)
	assert.True(t, got.LiveCSS)
}

func TestHub_FullPageReload(t *testing.T) {
	hub, ts := newTestServer(t, t.TempDir())
	conn := connect(t, ts)

	hub.Reload()

	var got frame
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "reload", got.Command)
	assert.Equal(t, "/", got.Path)
	assert.False(t, got.LiveCSS)
}

func TestHub_BroadcastsToEveryClient(t *testing.T) {
	hub, ts := newTestServer(t, t.TempDir())
	a := connect(t, ts)
	b := connect(t, ts)
	require.Equal(t, 2, hub.Clients())

	hub.Reload("dist/js/main.js")

	for _, conn := range []*websocket.Conn{a, b} {
		var got frame
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, "/dist/js/main.js", got.Path)
		assert.False(t, got.LiveCSS)
	}
}

func TestHub_PrunesDroppedClients(t *testing.T) {
	hub, ts := newTestServer(t, t.TempDir())
	conn := connect(t, ts)
	require.Equal(t, 1, hub.Clients())

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		hub.Reload("dist/css/main.css")
		return hub.Clients() == 0
	}, 5*time.Second, 20*time.Millisecond)
}

func TestHub_ReloadWithoutClients(t *testing.T) {
	hub := reload.NewHub()
	assert.NotPanics(t, func() { hub.Reload("dist/css/main.css") })
}

func TestServer_ServesClientScript(t *testing.T) {
	_, ts := newTestServer(t, t.TempDir())

	resp, err := http.Get(ts.URL + "/livereload.js")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")
	assert.Contains(t, string(body), reload.ProtocolV7)
}

func TestServer_ServesStaticRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>gild</h1>"), 0o600))
	_, ts := newTestServer(t, root)

	resp, err := http.Get(ts.URL + "/index.html")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>gild</h1>", string(body))
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any())

	srv := reload.NewServer(reload.NewHub(), domain.Server{Host: "127.0.0.1", Port: 0}, t.TempDir(), log)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_ServeReportsListenFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv := reload.NewServer(reload.NewHub(), domain.Server{Host: "256.0.0.1", Port: 1}, t.TempDir(), mocks.NewMockLogger(ctrl))

	err := srv.Serve(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrReloadServerFailed.Error())
}
