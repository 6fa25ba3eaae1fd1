package controller

import (
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"github.com/ssps-place/place-backend/internal/middleware"
	"github.com/ssps-place/place-backend/internal/service"
)

// WebSocketController owns the per-connection read loop. The protocol is
// stateless request/response plus broadcast: a session is Connected until
// the read loop ends, nothing else.
type WebSocketController struct {
	placeService *service.PlaceService
}

func NewWebSocketController(placeService *service.PlaceService) *WebSocketController {
	return &WebSocketController{
		placeService: placeService,
	}
}

// HandleConnection is called once per established websocket connection and
// blocks until it closes.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	key, _ := c.Locals(middleware.LocalsClientKey).(string)
	if key == "" {
		// Locals can be empty when the endpoint is hit without the
		// middleware chain, e.g. from tests. Fall back to the socket.
		key = middleware.ClientKeyFromRequest("", "", c.RemoteAddr().String())
	}

	wsc.placeService.HandleConnect(key, c)
	defer wsc.placeService.HandleDisconnect(key, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logrus.WithError(err).WithField("client", key).Debug("read loop ended")
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}
		wsc.placeService.HandleMessage(key, c, message)
	}
}
