package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	ID   uint
	Role string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub
}

// Hub maintains the set of active clients and delivers booking events
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %d connected", client.ID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Client %d disconnected", client.ID)
		}
	}
}

// BroadcastToUser sends a message to all connections of a specific user.
// Takes the write lock because stalled clients are evicted inline.
func (h *Hub) BroadcastToUser(userID uint, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.ID == userID {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocket message envelope
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// BookingStatusUpdate notifies a user or gym owner that a booking changed status
type BookingStatusUpdate struct {
	BookingID uint   `json:"bookingId"`
	GymID     uint   `json:"gymId"`
	Status    string `json:"status"`
	UpdatedBy string `json:"updatedBy"` // user or gym_owner
}

// MembershipCreated notifies a user that a membership was issued for them
type MembershipCreated struct {
	MembershipID uint    `json:"membershipId"`
	GymID        uint    `json:"gymId"`
	Price        float64 `json:"price"`
}

// SendBookingStatusUpdate delivers a booking status event to the given users
func (h *Hub) SendBookingStatusUpdate(update BookingStatusUpdate, userIDs ...uint) {
	message := WebSocketMessage{
		Type: "booking_status",
		Data: update,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling booking status update: %v", err)
		return
	}

	for _, id := range userIDs {
		h.BroadcastToUser(id, data)
	}
}

// SendMembershipCreated delivers a membership-created event to a user
func (h *Hub) SendMembershipCreated(userID uint, created MembershipCreated) {
	message := WebSocketMessage{
		Type: "membership_created",
		Data: created,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling membership created event: %v", err)
		return
	}

	h.BroadcastToUser(userID, data)
}

// HandleWebSocket upgrades the request and registers the connection
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, role string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:   userID,
		Role: role,
		Conn: conn,
		Send: make(chan []byte, 256),
		Hub:  hub,
	}

	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection; clients only listen, so incoming
// payloads are ignored and the loop exists to detect closure.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
