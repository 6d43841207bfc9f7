package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bronla/gateway/internal/middleware"
	"github.com/bronla/gateway/internal/notify"
	"github.com/bronla/gateway/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin is enforced by the session cookie; the socket carries
	// no state-changing actions.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NotifyHandler upgrades an owner console connection and attaches it to
// the restaurant's notification room.
type NotifyHandler struct {
	Hub      *notify.Hub
	Sessions *session.Manager
	Log      *zap.Logger
}

func NewNotifyHandler(hub *notify.Hub, m *session.Manager, log *zap.Logger) *NotifyHandler {
	return &NotifyHandler{Hub: hub, Sessions: m, Log: log}
}

// Stream is GET /v1/owner/notifications/ws. The room is the slug of the
// caller's restaurant, resolved server-side so an owner can only ever
// listen to their own inbox.
func (h *NotifyHandler) Stream(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	client := h.Sessions.Client(c.Request().Context(), sess)

	r, err := client.MyRestaurant(c.Request().Context())
	if err != nil {
		return upstreamError(c, err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil // Upgrade already wrote the response
	}

	cl := &notify.Client{Send: make(chan []byte, 64), Room: r.Slug}
	h.Hub.Register(cl)
	h.Log.Debug("owner console connected", zap.String("room", r.Slug))

	go writePump(conn, cl)
	go readPump(conn, cl, h.Hub)
	return nil
}

func writePump(conn *websocket.Conn, c *notify.Client) {
	defer conn.Close()
	for msg := range c.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// readPump discards inbound frames; the stream is one-way. Reading is
// still required to notice the close handshake.
func readPump(conn *websocket.Conn, c *notify.Client, hub *notify.Hub) {
	defer func() {
		hub.Unregister(c)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
