package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thanhtike404/hotel-booking/delivery"
	"github.com/thanhtike404/hotel-booking/models"
	"github.com/thanhtike404/hotel-booking/utils"
	ws "github.com/thanhtike404/hotel-booking/websocket"
)

// WebSocketController manages connection bindings and the fire-and-forget
// push endpoint.
type WebSocketController struct {
	hub      *ws.Hub
	registry ws.Registry
	gateway  *delivery.Gateway
}

func NewWebSocketController(hub *ws.Hub, registry ws.Registry, gateway *delivery.Gateway) *WebSocketController {
	return &WebSocketController{hub: hub, registry: registry, gateway: gateway}
}

// HandleWebSocket handles GET /api/v1/ws?userId= — the upgrade path.
func (wc *WebSocketController) HandleWebSocket(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "userId query parameter is required",
		})
	}
	return ws.HandleWebSocket(c, wc.hub, userID)
}

// Connect handles POST /api/v1/websocket/connect — an explicit registry
// binding signal for transports that manage their own connections.
func (wc *WebSocketController) Connect(c echo.Context) error {
	var req models.ConnectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if req.UserID == "" || req.Action == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing required fields",
		})
	}

	switch req.Action {
	case "connect":
		if req.ConnectionID == "" {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "connectionId is required for connect",
			})
		}
		wc.registry.Bind(req.UserID, req.ConnectionID)
	case "disconnect":
		wc.registry.Unbind(req.UserID)
	default:
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "action must be connect or disconnect",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// Notify handles POST /api/v1/websocket/notify. The response is always 200
// with delivery counts; partial or total push failure is not an error.
func (wc *WebSocketController) Notify(c echo.Context) error {
	var req models.NotifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if len(req.UserIDs) == 0 || req.Message == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "userIds and message are required",
		})
	}

	msg := utils.BuildAdHocPushMessage(req.Message, req.Type, req.Data)
	result := wc.gateway.Deliver(c.Request().Context(), req.UserIDs, msg)

	return c.JSON(http.StatusOK, result)
}
