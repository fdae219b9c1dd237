package ws

import (
	"encoding/json"
	"ieltsprep/internal/model"
	"ieltsprep/pkg/logger"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgClassSnapshot MessageType = model.ClassSnapshotMessage
	MsgError         MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections subscribed to classes
type Hub struct {
	// classID -> connections
	classConns map[string]map[*Connection]struct{}

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	quit       chan struct{}
}

// Connection represents a WebSocket connection
type Connection struct {
	ClassID string
	UserID  string
	Role    model.Role
	Send    chan []byte
	Hub     *Hub
}

// BroadcastMessage is a message for the subscribers of a class holding one
// role
type BroadcastMessage struct {
	ClassID string
	Role    model.Role
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		classConns: make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		quit:       make(chan struct{}),
	}
	go h.run()
	return h
}

// Stop ends the hub loop and closes every connection
func (h *Hub) Stop() {
	close(h.quit)
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for classID, conns := range h.classConns {
				for conn := range conns {
					close(conn.Send)
				}
				delete(h.classConns, classID)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.classConns[conn.ClassID] == nil {
				h.classConns[conn.ClassID] = make(map[*Connection]struct{})
			}
			h.classConns[conn.ClassID][conn] = struct{}{}
			h.mu.Unlock()
			logger.Log.Debug("class subscriber connected",
				zap.String("classId", conn.ClassID),
				zap.String("userId", conn.UserID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.classConns[conn.ClassID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.classConns, conn.ClassID)
					}
				}
			}
			h.mu.Unlock()
			logger.Log.Debug("class subscriber disconnected",
				zap.String("classId", conn.ClassID),
				zap.String("userId", conn.UserID))

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				logger.Log.Warn("unencodable broadcast", zap.Error(err))
				continue
			}
			h.mu.RLock()
			for conn := range h.classConns[msg.ClassID] {
				if conn.Role != msg.Role {
					continue
				}
				select {
				case conn.Send <- data:
				default:
					logger.Log.Warn("dropping message for slow subscriber",
						zap.String("classId", conn.ClassID),
						zap.String("userId", conn.UserID))
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.quit:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.quit:
	}
}

// BroadcastToClass sends a message to every subscriber of a class with the
// given role (implements service.Broadcaster)
func (h *Hub) BroadcastToClass(classID string, role model.Role, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Warn("unencodable payload", zap.String("type", msgType), zap.Error(err))
		return
	}
	msg := &BroadcastMessage{
		ClassID: classID,
		Role:    role,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
	select {
	case h.broadcast <- msg:
	default:
		logger.Log.Warn("broadcast queue full, dropping message", zap.String("classId", classID))
	}
}

// ActiveClasses lists classes that have subscribers (implements
// service.Broadcaster)
func (h *Hub) ActiveClasses() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	classes := make([]string, 0, len(h.classConns))
	for classID := range h.classConns {
		classes = append(classes, classID)
	}
	sort.Strings(classes)
	return classes
}

// Encode wraps a payload in the message envelope
func Encode(msgType MessageType, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{Type: msgType, Payload: data})
}
