package websockets

import (
	"attendtrack/config"
	"attendtrack/internal/database"
	"attendtrack/internal/events"
	"attendtrack/internal/logger"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	sendBufferSize = 16
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
)

type Client struct {
	ID     string
	UserID string
	conn   *websocket.Conn
	send   chan []byte
}

// Manager pushes import notifications to connected browsers.
type Manager struct {
	db       database.DB
	eventBus *events.EventBus
	config   config.Config
	log      logger.Logger
	mu       sync.RWMutex
	clients  map[string]*Client
}

func New(db database.DB, eventBus *events.EventBus, config config.Config) (*Manager, error) {
	log := logger.New("websockets").Function("New")

	if eventBus == nil {
		return nil, log.ErrMsg("event bus is nil")
	}

	manager := &Manager{
		db:       db,
		eventBus: eventBus,
		config:   config,
		log:      logger.New("websockets"),
		clients:  make(map[string]*Client),
	}

	eventBus.Subscribe(events.ImportCompleted, manager.Broadcast)

	return manager, nil
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// HandleWebSocket serves one connection until the peer goes away.
func (m *Manager) HandleWebSocket(conn *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		ID:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	if userID, ok := conn.Locals("userID").(string); ok {
		client.UserID = userID
	}

	m.register(client)
	defer m.unregister(client)

	log.Info("client connected", "clientID", client.ID, "userID", client.UserID)

	done := make(chan struct{})
	go m.writePump(client, done)
	defer close(done)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Debug("client disconnected", "clientID", client.ID, "error", err)
			return
		}
	}
}

func (m *Manager) writePump(client *Client, done <-chan struct{}) {
	log := m.log.Function("writePump")
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case message, ok := <-client.send:
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn("failed to write message", "clientID", client.ID, "error", err)
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (m *Manager) register(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
}

func (m *Manager) unregister(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[client.ID]; ok {
		delete(m.clients, client.ID)
		close(client.send)
	}
}

// Broadcast sends event to every client. Clients that cannot keep up are
// dropped rather than blocking the publisher.
func (m *Manager) Broadcast(event events.Event) error {
	log := m.log.Function("Broadcast")

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, client := range m.clients {
		select {
		case client.send <- payload:
		default:
			log.Warn("dropping slow client", "clientID", id)
			delete(m.clients, id)
			close(client.send)
		}
	}

	return nil
}
