package v1

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/mapsync"
)

var errFake = errors.New("connection refused")

func mapSyncServer(t *testing.T, source mapsync.DataSource) (*httptest.Server, *mapsync.Hub) {
	t.Helper()

	hub := mapsync.NewHub()
	h := NewMapSyncHandler(source, hub, 10*time.Millisecond)

	r := gin.New()
	r.GET("/map/ws", h.HandleWebSocket)
	r.POST("/map/sessions/:sessionID/search", h.HandleSearch)
	r.POST("/map/sessions/:sessionID/highlight", h.HandleSetHighlight)
	r.DELETE("/map/sessions/:sessionID/highlight", h.HandleClearHighlight)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv, hub
}

type envelope struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestMapSyncWebSocket(t *testing.T) {
	anchor := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	srv, hub := mapSyncServer(t, &fakeMapService{anchor: &anchor})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/map/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	opened := readEnvelope(t, conn)
	require.Equal(t, "session", opened.Type)
	sessionID, _ := opened.Payload["sessionId"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, 1, hub.Len())

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"iframeReady","payload":{"status":"ok"}}`)))
	assert.Equal(t, "setMarketDates", readEnvelope(t, conn).Type)
	assert.Equal(t, "mapLoading", readEnvelope(t, conn).Type)
	loaded := readEnvelope(t, conn)
	require.Equal(t, "loadMapData", loaded.Type)
	assert.Equal(t, "2026-05-02", loaded.Payload["currentDate"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"requestDateData","payload":{"date":"2026-05-09"}}`)))
	assert.Equal(t, "mapLoading", readEnvelope(t, conn).Type)
	loaded = readEnvelope(t, conn)
	require.Equal(t, "loadMapData", loaded.Type)
	assert.Equal(t, "2026-05-09", loaded.Payload["currentDate"])

	resp, err := http.Post(srv.URL+"/map/sessions/"+sessionID+"/search", "application/json", strings.NewReader(`{"term":"honey"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	search := readEnvelope(t, conn)
	assert.Equal(t, "searchText", search.Type)
	assert.Equal(t, "honey", search.Payload["term"])

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/map/sessions/"+sessionID+"/highlight", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "clearHighlight", readEnvelope(t, conn).Type)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestMapSyncRelayUnknownSession(t *testing.T) {
	srv, _ := mapSyncServer(t, &fakeMapService{})

	resp, err := http.Post(srv.URL+"/map/sessions/nope/highlight", "application/json", strings.NewReader(`{"type":"poiType","id":"Restroom"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/map/sessions/nope/highlight", "application/json", strings.NewReader(`{"type":"color","id":"red"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMapSyncRelayBusySession(t *testing.T) {
	srv, hub := mapSyncServer(t, &fakeMapService{})

	session := mapsync.NewSession("busy", &fakeMapService{}, time.Millisecond)
	defer session.Close()
	hub.Register(session)

	for session.SetHighlight("tag", "organic") {
	}

	resp, err := http.Post(srv.URL+"/map/sessions/busy/highlight", "application/json", strings.NewReader(`{"type":"tag","id":"organic"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/map/sessions/busy/highlight", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMapSyncOpenSessionAcceptsIframeReadyAtOnce(t *testing.T) {
	hub := mapsync.NewHub()
	h := NewMapSyncHandler(&fakeMapService{}, hub, time.Millisecond)

	session := h.openSession()
	defer func() {
		hub.Unregister(session)
		session.Close()
	}()

	assert.Equal(t, mapsync.StateAwaitingIframeReady, session.State())
	registered, err := hub.Get(session.ID())
	require.NoError(t, err)
	assert.Same(t, session, registered)

	require.NoError(t, session.Handle(mapsync.IframeReady{}))
	assert.Equal(t, mapsync.StateReady, session.State())
}
