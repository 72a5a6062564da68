package realtime

import (
	"encoding/json"
	"time"
)

// MessageType identifies a websocket push
type MessageType string

const (
	MessageWelcome  MessageType = "welcome"
	MessageMetrics  MessageType = "realtime_metrics"
	MessageActivity MessageType = "activity"
)

// Message is the envelope of every websocket frame
// ⭐ SSOT: 실시간 푸시 메시지 구조
type Message struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewMessage stamps a message with the current time
func NewMessage(t MessageType, data interface{}) Message {
	return Message{Type: t, Data: data, Timestamp: time.Now().UTC()}
}

func (m Message) encode() ([]byte, error) {
	return json.Marshal(m)
}
