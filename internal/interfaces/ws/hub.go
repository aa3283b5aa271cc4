// Package ws implementa el hub de notificaciones en tiempo real sobre
// WebSocket. El hub es el Sink de los eventos de dominio: los casos de uso
// publican después del commit y el hub reparte a los clientes suscritos al
// canal correspondiente.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/jhoicas/almacen-api/internal/application/notifier"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

var _ notifier.Sink = (*Hub)(nil)

// envelope mensaje saliente hacia el cliente.
type envelope struct {
	Channel   string    `json:"channel"`
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// clientState estado de una conexión: identidad y canales suscritos.
// writeMu serializa las escrituras: fasthttp/websocket no permite
// escritores concurrentes sobre la misma conexión.
type clientState struct {
	userID   string
	channels map[string]bool
	writeMu  sync.Mutex
}

// Hub registro de conexiones activas y sus suscripciones por canal.
// Publish nunca bloquea a los casos de uso: los envíos fallidos solo
// desconectan al cliente afectado.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*clientState
	log     *logger.Logger
}

// NewHub construye el hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*clientState),
		log:     log.Module("ws"),
	}
}

// Register incorpora una conexión autenticada, suscrita por defecto al dashboard.
func (h *Hub) Register(conn *websocket.Conn, userID string) {
	h.mu.Lock()
	h.clients[conn] = &clientState{
		userID:   userID,
		channels: map[string]bool{notifier.ChannelDashboard: true},
	}
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Info().Str("user_id", userID).Int("connections", total).Msg("cliente conectado")
}

// Unregister retira la conexión del hub. No cierra el socket: eso es del handler.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	state, ok := h.clients[conn]
	delete(h.clients, conn)
	total := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.log.Info().Str("user_id", state.userID).Int("connections", total).Msg("cliente desconectado")
	}
}

// Subscribe agrega la conexión al canal.
func (h *Hub) Subscribe(conn *websocket.Conn, channel string) {
	h.mu.Lock()
	if state, ok := h.clients[conn]; ok {
		state.channels[channel] = true
	}
	h.mu.Unlock()
}

// Unsubscribe retira la conexión del canal.
func (h *Hub) Unsubscribe(conn *websocket.Conn, channel string) {
	h.mu.Lock()
	if state, ok := h.clients[conn]; ok {
		delete(state.channels, channel)
	}
	h.mu.Unlock()
}

// OnlineUsers devuelve los IDs de usuario con al menos una conexión activa.
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[string]bool, len(h.clients))
	var users []string
	for _, state := range h.clients {
		if !seen[state.userID] {
			seen[state.userID] = true
			users = append(users, state.userID)
		}
	}
	return users
}

// Send escribe un mensaje directo a una conexión registrada, respetando su
// mutex de escritura para no competir con Publish.
func (h *Hub) Send(conn *websocket.Conn, raw []byte) error {
	h.mu.RLock()
	state, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return nil
	}
	state.writeMu.Lock()
	defer state.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, raw)
}

// Publish implementa notifier.Sink: serializa el evento una vez y lo envía a
// todos los suscriptores del canal. Los clientes con error de escritura se
// retiran del hub.
func (h *Hub) Publish(event notifier.Event) {
	raw, err := json.Marshal(envelope{
		Channel:   event.Channel,
		Type:      event.Type,
		Payload:   event.Payload,
		Timestamp: event.Timestamp,
	})
	if err != nil {
		h.log.Error().Err(err).Str("type", event.Type).Msg("serializar evento")
		return
	}

	h.mu.RLock()
	targets := make([]*websocket.Conn, 0, len(h.clients))
	states := make([]*clientState, 0, len(h.clients))
	for conn, state := range h.clients {
		if state.channels[event.Channel] {
			targets = append(targets, conn)
			states = append(states, state)
		}
	}
	h.mu.RUnlock()

	var dead []*websocket.Conn
	for i, conn := range targets {
		states[i].writeMu.Lock()
		err := conn.WriteMessage(websocket.TextMessage, raw)
		states[i].writeMu.Unlock()
		if err != nil {
			dead = append(dead, conn)
		}
	}
	for _, conn := range dead {
		h.Unregister(conn)
		_ = conn.Close()
	}
}
