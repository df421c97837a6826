package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Manager routes notification events to the live connections of a single
// recipient. Clients are keyed by user id; one user may hold several
// connections (phone + tablet).
type Manager struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	mu         sync.RWMutex
}

type delivery struct {
	userID  string
	message []byte
}

type Client struct {
	conn    *websocket.Conn
	userID  string
	send    chan []byte
	manager *Manager
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery),
	}
}

func (m *Manager) Start() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			if m.clients[client.userID] == nil {
				m.clients[client.userID] = make(map[*Client]bool)
			}
			m.clients[client.userID][client] = true
			m.mu.Unlock()
			log.Printf("WebSocket client registered for user %s", client.userID)

		case client := <-m.unregister:
			m.mu.Lock()
			if conns, ok := m.clients[client.userID]; ok {
				if conns[client] {
					delete(conns, client)
					close(client.send)
				}
				if len(conns) == 0 {
					delete(m.clients, client.userID)
				}
			}
			m.mu.Unlock()
			log.Printf("WebSocket client unregistered for user %s", client.userID)

		case d := <-m.deliver:
			m.mu.RLock()
			for client := range m.clients[d.userID] {
				select {
				case client.send <- d.message:
				default:
					// Slow consumer; drop the connection.
					close(client.send)
					delete(m.clients[d.userID], client)
				}
			}
			m.mu.RUnlock()
		}
	}
}

// SendToUser pushes a typed event to every live connection of the user.
// It never blocks the caller on a dead hub: when the user has no
// connections the delivery is a no-op.
func (m *Manager) SendToUser(userID string, eventType string, payload interface{}) {
	data := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}

	msg, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling WebSocket event: %v", err)
		return
	}

	m.deliver <- delivery{userID: userID, message: msg}
}

// ConnectedUsers reports how many distinct users hold live connections.
func (m *Manager) ConnectedUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades the connection after authenticating the ?token= query
// parameter through the supplied validator, which returns the user id.
func Handler(manager *Manager, authenticate func(token string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Token required", http.StatusUnauthorized)
			return
		}

		userID, err := authenticate(token)
		if err != nil {
			log.Printf("WebSocket connection rejected: %v", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := &Client{
			conn:    conn,
			userID:  userID,
			send:    make(chan []byte, 256),
			manager: manager,
		}

		manager.register <- client

		welcome := map[string]interface{}{
			"type": "connected",
			"payload": map[string]interface{}{
				"userId": userID,
				"time":   time.Now().Unix(),
			},
		}
		msg, _ := json.Marshal(welcome)
		client.send <- msg

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var data map[string]interface{}
		if err := json.Unmarshal(message, &data); err != nil {
			continue
		}

		if data["type"] == "ping" {
			c.sendPong()
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendPong() {
	msg, err := json.Marshal(map[string]interface{}{
		"type":    "pong",
		"payload": map[string]interface{}{"time": time.Now().Unix()},
	})
	if err != nil {
		return
	}
	c.send <- msg
}
