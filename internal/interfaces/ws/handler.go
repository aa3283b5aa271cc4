package ws

import (
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/notifier"
	"github.com/jhoicas/almacen-api/pkg/jwt"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// inbound mensaje entrante del cliente: subscribe/unsubscribe/ping.
type inbound struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

// validChannels canales a los que un cliente puede suscribirse.
var validChannels = map[string]bool{
	notifier.ChannelDashboard:      true,
	notifier.ChannelProducts:       true,
	notifier.ChannelStockMovements: true,
	notifier.ChannelStockTransfers: true,
}

// Handler gestiona el ciclo de vida de las conexiones WebSocket.
type Handler struct {
	hub       *Hub
	jwtSecret string
	log       *logger.Logger
}

// NewHandler construye el handler.
func NewHandler(hub *Hub, jwtSecret string, log *logger.Logger) *Handler {
	return &Handler{hub: hub, jwtSecret: jwtSecret, log: log.Module("ws")}
}

// Upgrade exige que la petición sea un upgrade WebSocket y valida el token
// (query param; los navegadores no mandan headers en el handshake WS).
func (h *Handler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	token := c.Query("token")
	if token == "" {
		return fiber.ErrUnauthorized
	}
	userID, _, err := jwt.Parse(h.jwtSecret, token)
	if err != nil {
		return fiber.ErrUnauthorized
	}
	c.Locals("ws_user_id", userID)
	return c.Next()
}

// Online devuelve los usuarios con al menos una conexión activa (solo admin).
func (h *Handler) Online(c *fiber.Ctx) error {
	users := h.hub.OnlineUsers()
	if users == nil {
		users = []string{}
	}
	return c.JSON(fiber.Map{"online_users": users, "total": len(users)})
}

// Serve atiende la conexión: registra en el hub y procesa los mensajes de
// suscripción hasta que el cliente se desconecta.
func (h *Handler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("ws_user_id").(string)
		h.hub.Register(conn, userID)
		defer func() {
			h.hub.Unregister(conn)
			_ = conn.Close()
		}()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg inbound
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			switch msg.Action {
			case "subscribe":
				if validChannels[msg.Channel] {
					h.hub.Subscribe(conn, msg.Channel)
				}
			case "unsubscribe":
				h.hub.Unsubscribe(conn, msg.Channel)
			case "ping":
				_ = h.hub.Send(conn, []byte(`{"type":"pong"}`))
			}
		}
	})
}
