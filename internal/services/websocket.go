package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ronin-tn/blassa-sub000/pkg/countdown"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client is one authenticated WebSocket connection. A user may hold several
// at once (phone and web session).
type Client struct {
	UserID uint
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub
}

// Hub tracks connected clients and fans notification events out to them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

// NewHub creates an empty hub. Run must be started in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes client registrations until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("User %d connected", client.UserID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("User %d disconnected", client.UserID)
		}
	}
}

// SendToUser delivers a message to every connection the user holds.
func (h *Hub) SendToUser(userID uint, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.UserID == userID {
			select {
			case client.Send <- message:
			default:
				// Channel full, the reader is gone; drop the message and
				// let readPump tear the connection down.
				log.Printf("Warning: could not send to user %d (channel full)", client.UserID)
			}
		}
	}
}

// ConnectedUsers returns the number of open connections.
func (h *Hub) ConnectedUsers() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Event is the wire envelope for pushed notifications.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// BookingEvent notifies a driver of a new request or a passenger of a
// decision on theirs.
type BookingEvent struct {
	BookingID   uint   `json:"bookingId"`
	RideID      uint   `json:"rideId"`
	PassengerID uint   `json:"passengerId"`
	Seats       int    `json:"seats"`
	Status      string `json:"status"`
}

// RideEvent notifies booked passengers of a lifecycle change on their ride.
type RideEvent struct {
	RideID uint   `json:"rideId"`
	Status string `json:"status"`
}

// ReviewEvent notifies a user that a new review landed on their profile.
type ReviewEvent struct {
	ReviewID uint `json:"reviewId"`
	RideID   uint `json:"rideId"`
	Rating   int  `json:"rating"`
}

// ResendTick is pushed once per second while the resend throttle for the
// user's email is active. The final tick carries zero.
type ResendTick struct {
	Email     string `json:"email"`
	Remaining int    `json:"remaining"`
}

// PushResendCountdown streams throttle ticks to a user who just asked for a
// code to be resent. The authoritative wait comes from Redis; the hub counts
// it down locally so clients can show a live timer without polling. Returns
// immediately; the ticking happens in the background.
func (h *Hub) PushResendCountdown(ctx context.Context, userID uint, email string) {
	remaining, err := ResendRemaining(ctx, email)
	if err != nil || remaining <= 0 {
		return
	}
	h.streamResendTicks(userID, email, remaining)
}

func (h *Hub) streamResendTicks(userID uint, email string, remaining int) {
	h.push(userID, "resend_tick", ResendTick{Email: email, Remaining: remaining})

	cd := countdown.New(remaining)
	done := make(chan struct{})
	var once sync.Once
	cd.OnTick = func(left int) {
		h.push(userID, "resend_tick", ResendTick{Email: email, Remaining: left})
		if left == 0 {
			once.Do(func() { close(done) })
		}
	}
	cd.Start(context.Background())
	go func() {
		<-done
		cd.Stop()
	}()
}

// PushBookingEvent sends a booking event to one user.
func (h *Hub) PushBookingEvent(userID uint, eventType string, ev BookingEvent) {
	h.push(userID, eventType, ev)
}

// PushRideEvent sends a ride lifecycle event to one user.
func (h *Hub) PushRideEvent(userID uint, eventType string, ev RideEvent) {
	h.push(userID, eventType, ev)
}

// PushReviewEvent sends a review event to one user.
func (h *Hub) PushReviewEvent(userID uint, ev ReviewEvent) {
	h.push(userID, "new_review", ev)
}

func (h *Hub) push(userID uint, eventType string, data interface{}) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}
	h.SendToUser(userID, payload)
}

// HandleWebSocket upgrades the request and attaches the connection to the
// hub. The caller has already authenticated the user.
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Hub:    hub,
	}

	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection. Clients only send pings; everything else
// is ignored.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var ev Event
		if err := json.Unmarshal(message, &ev); err != nil {
			continue
		}
		if ev.Type == "ping" {
			payload, _ := json.Marshal(Event{Type: "pong"})
			select {
			case c.Send <- payload:
			default:
			}
		}
	}
}

// writePump forwards hub messages to the connection.
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
