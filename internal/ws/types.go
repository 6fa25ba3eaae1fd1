package ws

import (
	"encoding/json"
	"errors"
)

// MessageType discriminates the wire frames exchanged with clients.
type MessageType string

const (
	// Inbound intents.
	MessageTypePixel         MessageType = "pixel"
	MessageTypeRequestCanvas MessageType = "request_canvas"
	MessageTypeCheckCooldown MessageType = "check_cooldown"

	// Outbound frames. MessageTypePixel is reused for placement broadcasts.
	MessageTypeCanvasState     MessageType = "canvas_state"
	MessageTypeCooldownStatus  MessageType = "cooldown_status"
	MessageTypeCooldownStarted MessageType = "cooldown_started"
	MessageTypeCooldownError   MessageType = "cooldown_error"
	MessageTypeError           MessageType = "error"
)

// Envelope is the minimal decode of an inbound frame: just enough to
// dispatch on type. The full frame is re-decoded into the matching variant
// afterwards, with field validation.
type Envelope struct {
	Type MessageType `json:"type"`
}

// DecodeEnvelope parses the type discriminator out of a raw frame.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// PixelRequest is a client's placement intent. PreviousColor is
// client-supplied bookkeeping echoed back on cooldown rejection so the
// client can roll back its optimistic draw.
type PixelRequest struct {
	X             int    `json:"x"`
	Y             int    `json:"y"`
	Color         string `json:"color"`
	PreviousColor string `json:"previousColor,omitempty"`
}

// ErrMissingPixelField rejects a pixel frame that omits x, y or color. A
// missing field would otherwise decode to its zero value and read as a
// placement at (0,0).
var ErrMissingPixelField = errors.New("pixel frame missing x, y or color")

// DecodePixelRequest decodes a pixel frame with field validation: x and y
// must be present as integers and color as a string.
func DecodePixelRequest(raw []byte) (PixelRequest, error) {
	var frame struct {
		X             *int    `json:"x"`
		Y             *int    `json:"y"`
		Color         *string `json:"color"`
		PreviousColor string  `json:"previousColor"`
	}
	if err := json.Unmarshal(raw, &frame); err != nil {
		return PixelRequest{}, err
	}
	if frame.X == nil || frame.Y == nil || frame.Color == nil {
		return PixelRequest{}, ErrMissingPixelField
	}
	return PixelRequest{
		X:             *frame.X,
		Y:             *frame.Y,
		Color:         *frame.Color,
		PreviousColor: frame.PreviousColor,
	}, nil
}

// PixelBroadcast announces one accepted placement to every session.
type PixelBroadcast struct {
	Type      MessageType `json:"type"`
	X         int         `json:"x"`
	Y         int         `json:"y"`
	Color     string      `json:"color"`
	Timestamp int64       `json:"timestamp"`
}

// CanvasState carries the full snapshot, keyed "x,y".
type CanvasState struct {
	Type   MessageType       `json:"type"`
	Pixels map[string]string `json:"pixels"`
}

// CooldownStatus answers check_cooldown and greets reconnecting clients
// that are still cooling down.
type CooldownStatus struct {
	Type          MessageType `json:"type"`
	Allowed       bool        `json:"allowed"`
	RemainingTime int64       `json:"remainingTime"`
}

// CooldownStarted tells the placing client its authoritative new deadline,
// as absolute milliseconds since epoch.
type CooldownStarted struct {
	Type        MessageType `json:"type"`
	CooldownEnd int64       `json:"cooldownEnd"`
}

// CooldownError rejects a placement attempted during cooldown. It carries
// the coordinate and client-supplied previous color for rollback.
type CooldownError struct {
	Type          MessageType `json:"type"`
	Message       string      `json:"message"`
	RemainingTime int64       `json:"remainingTime"`
	X             int         `json:"x"`
	Y             int         `json:"y"`
	PreviousColor string      `json:"previousColor,omitempty"`
}

// Error is the generic rejection frame.
type Error struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

func NewPixelBroadcast(x, y int, color string, timestamp int64) PixelBroadcast {
	return PixelBroadcast{Type: MessageTypePixel, X: x, Y: y, Color: color, Timestamp: timestamp}
}

func NewCanvasState(pixels map[string]string) CanvasState {
	return CanvasState{Type: MessageTypeCanvasState, Pixels: pixels}
}

func NewCooldownStatus(allowed bool, remainingMillis int64) CooldownStatus {
	return CooldownStatus{Type: MessageTypeCooldownStatus, Allowed: allowed, RemainingTime: remainingMillis}
}

func NewCooldownStarted(cooldownEndMillis int64) CooldownStarted {
	return CooldownStarted{Type: MessageTypeCooldownStarted, CooldownEnd: cooldownEndMillis}
}

func NewCooldownError(message string, remainingMillis int64, x, y int, previousColor string) CooldownError {
	return CooldownError{
		Type:          MessageTypeCooldownError,
		Message:       message,
		RemainingTime: remainingMillis,
		X:             x,
		Y:             y,
		PreviousColor: previousColor,
	}
}

func NewError(message string) Error {
	return Error{Type: MessageTypeError, Message: message}
}
