package v1

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/api/handler/v1/request"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/api/handler/v1/response"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/mapsync"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var errMapViewBusy = errors.New("map view is not keeping up, try again")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The map is embedded by the market website; CORS config covers the REST routes.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type MapSyncHandler struct {
	source   mapsync.DataSource
	hub      *mapsync.Hub
	debounce time.Duration
}

func NewMapSyncHandler(source mapsync.DataSource, hub *mapsync.Hub, debounce time.Duration) *MapSyncHandler {
	return &MapSyncHandler{
		source:   source,
		hub:      hub,
		debounce: debounce,
	}
}

// HandleWebSocket godoc
// @Summary      Open a map sync connection
// @Description  Upgrades to a websocket carrying map sync messages. The first message sent is {"type":"session","payload":{"sessionId":...}}.
// @Tags         map
// @Success      101  {string}  string  "Switching Protocols to WebSocket"
// @Router       /map/ws [get]
func (h *MapSyncHandler) HandleWebSocket(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	session := h.openSession()

	go h.writePump(conn, session)
	go h.readPump(conn, session)
}

// openSession registers and starts a session. It is started before any
// message can be read for it, so an early iframeReady is never rejected.
func (h *MapSyncHandler) openSession() *mapsync.Session {
	session := mapsync.NewSession(uuid.NewString(), h.source, h.debounce)
	h.hub.Register(session)
	session.Start()

	zap.L().Info("map session opened", zap.String("session_id", session.ID()))

	return session
}

func (h *MapSyncHandler) readPump(conn *websocket.Conn, session *mapsync.Session) {
	defer func() {
		h.hub.Unregister(session)
		session.Close()
		conn.Close()
		zap.L().Info("map session closed", zap.String("session_id", session.ID()))
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Warn("map session read failed", zap.String("session_id", session.ID()), zap.Error(err))
			}
			return
		}

		msg, err := mapsync.Decode(data)
		if err != nil {
			zap.L().Warn("ignoring malformed map message", zap.String("session_id", session.ID()), zap.Error(err))
			continue
		}

		if err := session.Handle(msg); err != nil {
			zap.L().Debug("map message not handled", zap.String("session_id", session.ID()), zap.Error(err))
		}
	}
}

func (h *MapSyncHandler) writePump(conn *websocket.Conn, session *mapsync.Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg := <-session.Outbox():
			data, err := mapsync.Encode(msg)
			if err != nil {
				zap.L().Error("failed to encode map message", zap.String("type", msg.Type()), zap.Error(err))
				continue
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-session.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (h *MapSyncHandler) session(ctx *gin.Context) (*mapsync.Session, bool) {
	sessionID := ctx.Param("sessionID")

	session, err := h.hub.Get(sessionID)
	if err != nil {
		if errors.Is(err, mapsync.ErrSessionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("map session", "id", sessionID))
			return nil, false
		}

		err = fmt.Errorf("h.hub.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return nil, false
	}

	return session, true
}

// HandleSearch godoc
// @Summary      Filter the map by text
// @Description  Sends a debounced search term to a connected map view.
// @Tags         map
// @Accept       json
// @Param        sessionID  path  string                  true  "Map session ID"
// @Param        input      body  request.SearchRequest   true  "Search term"
// @Success      202
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /map/sessions/{sessionID}/search [post]
func (h *MapSyncHandler) HandleSearch(ctx *gin.Context) {
	var req request.SearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	session, ok := h.session(ctx)
	if !ok {
		return
	}

	session.SearchText(req.Term)
	ctx.Status(http.StatusAccepted)
}

// HandleSetHighlight godoc
// @Summary      Highlight a category on the map
// @Tags         map
// @Accept       json
// @Param        sessionID  path  string                    true  "Map session ID"
// @Param        input      body  request.HighlightRequest  true  "Category to highlight"
// @Success      202
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /map/sessions/{sessionID}/highlight [post]
func (h *MapSyncHandler) HandleSetHighlight(ctx *gin.Context) {
	var req request.HighlightRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	session, ok := h.session(ctx)
	if !ok {
		return
	}

	if !session.SetHighlight(req.Type, req.ID) {
		response.RenderErr(ctx, response.ErrServiceUnavailable(errMapViewBusy))
		return
	}
	ctx.Status(http.StatusAccepted)
}

// HandleClearHighlight godoc
// @Summary      Clear the map highlight
// @Tags         map
// @Param        sessionID  path  string  true  "Map session ID"
// @Success      202
// @Failure      404  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /map/sessions/{sessionID}/highlight [delete]
func (h *MapSyncHandler) HandleClearHighlight(ctx *gin.Context) {
	session, ok := h.session(ctx)
	if !ok {
		return
	}

	if !session.ClearHighlight() {
		response.RenderErr(ctx, response.ErrServiceUnavailable(errMapViewBusy))
		return
	}
	ctx.Status(http.StatusAccepted)
}
