package debug

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/scene/pkg/component"
	"github.com/vango-dev/scene/pkg/input"
	"github.com/vango-dev/scene/pkg/item"
	"github.com/vango-dev/scene/pkg/itemtree"
	"github.com/vango-dev/scene/pkg/metrics"
	"github.com/vango-dev/scene/pkg/window"
)

// newServer serves a 200x100 rectangle holding one 50x20 touch area at the
// origin.
func newServer(t *testing.T) (*Server, *window.Window) {
	t.Helper()
	def, err := component.NewBuilder(nil).Compile(&component.Element{
		Kind: item.KindRectangle,
		Setup: func(it item.Item, _ *component.Instance) error {
			r := it.(*item.Rectangle)
			r.Width.Set(200)
			r.Height.Set(100)
			return nil
		},
		Children: []*component.Element{{
			Kind: item.KindTouchArea,
			Name: "button",
			Setup: func(it item.Item, _ *component.Instance) error {
				ta := it.(*item.TouchArea)
				ta.Width.Set(50)
				ta.Height.Set(20)
				return nil
			},
		}},
	})
	require.NoError(t, err)
	root, err := def.New()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg))
	w := window.New(root,
		window.WithObserver(m),
		window.WithDispatcher(input.NewDispatcher(input.WithObserver(m))),
	)
	t.Cleanup(w.Close)
	return New(w, WithGatherer(reg)), w
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestTree(t *testing.T) {
	s, _ := newServer(t)

	rec := get(t, s.Handler(), "/tree")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var snap itemtree.SnapshotNode
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, item.KindRectangle, snap.Kind)
	assert.Equal(t, float32(200), snap.Width)
	require.Len(t, snap.Children, 1)
	assert.Equal(t, item.KindTouchArea, snap.Children[0].Kind)

	rec = get(t, s.Handler(), "/tree?format=text")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), item.KindTouchArea)
}

func TestHealth(t *testing.T) {
	s, w := newServer(t)

	_, err := w.Dispatch(context.Background(), item.MouseEvent{Pos: item.Point{X: 10, Y: 10}, Kind: item.MousePressed})
	require.NoError(t, err)

	rec := get(t, s.Handler(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var h Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, w.ID().String(), h.Window)
	assert.Equal(t, "#1", h.Grab)
	assert.Equal(t, window.Stats{Events: 1, Grabbed: 1}, h.Stats)
}

func TestMetrics(t *testing.T) {
	s, w := newServer(t)
	_, err := w.Dispatch(context.Background(), item.MouseEvent{Pos: item.Point{X: 150, Y: 80}, Kind: item.MouseMoved})
	require.NoError(t, err)

	rec := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "scene_dispatch_duration_seconds_count 1")
	assert.Contains(t, body, `scene_input_events_total{grabbed="false",kind="moved",result="ignored"} 1`)
}

func TestEventsSocket(t *testing.T) {
	s, w := newServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	exchange := func(frame string) ResultMessage {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
		var reply ResultMessage
		require.NoError(t, conn.ReadJSON(&reply))
		return reply
	}

	assert.Equal(t, ResultMessage{Result: "grab_mouse", Grab: "#1"}, exchange(`{"kind":"pressed","x":10,"y":10}`))
	assert.Equal(t, ResultMessage{Result: "accepted", Grab: "free"}, exchange(`{"kind":"released","x":10,"y":10}`))
	assert.Equal(t, ResultMessage{Result: "ignored", Grab: "free"}, exchange(`{"kind":"moved","x":150,"y":80}`))

	reply := exchange(`{"kind":"wheel"}`)
	assert.NotEmpty(t, reply.Error)
	reply = exchange(`not json`)
	assert.Contains(t, reply.Error, "invalid event")

	assert.Equal(t, 3, w.Stats().Events)
}

func TestStartAndShutdown(t *testing.T) {
	s, _ := newServer(t)

	addr, err := s.Start("127.0.0.1:0")
	require.NoError(t, err)

	again, err := s.Start("127.0.0.1:0")
	require.NoError(t, err)
	assert.Equal(t, addr, again)

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.NoError(t, s.Shutdown(ctx))
}

func TestConcurrentRepliesMatchTheirResult(t *testing.T) {
	s, _ := newServer(t)

	frames := []string{
		`{"kind":"pressed","x":10,"y":10}`,
		`{"kind":"moved","x":12,"y":12}`,
		`{"kind":"released","x":10,"y":10}`,
	}
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				reply := s.dispatch(context.Background(), []byte(frames[i%len(frames)]))
				if reply.Error != "" {
					t.Errorf("unexpected error %q", reply.Error)
					return
				}
				// The touch area holds the grab exactly when it answers grab_mouse.
				if (reply.Result == "grab_mouse") != (reply.Grab == "#1") {
					t.Errorf("reply %+v mixes the outcome of two events", reply)
					return
				}
			}
		}()
	}
	wg.Wait()
}
