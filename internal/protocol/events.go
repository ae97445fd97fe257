// Package protocol defines the wire events exchanged with browser peers.
// Inbound frames are a flat JSON object with a "type" discriminator;
// payload fields sit alongside it, one struct per event type.
package protocol

import (
	"encoding/json"

	"huddle/internal/core"
	"huddle/internal/domain"
)

// Inbound event types (client -> server).
const (
	TypeJoinRoom    = "join:room"
	TypeSignal      = "signal"
	TypeMediaState  = "media:state"
	TypeScreenShare = "screen:share"
	TypeLeaveRoom   = "leave:room"
	TypeChatMessage = "chat:message"
	TypePing        = "ping"
)

// Outbound event types (server -> client).
const (
	TypeRoomFull    = "room:full"
	TypeRoomJoined  = "room:joined"
	TypeMediaStates = "media:states"
	TypeUserJoined  = "user:joined"
	TypeUserLeft    = "user:left"
	TypePong        = "pong"
	TypeError       = "error"
)

// Envelope is the discriminator view of any inbound frame.
type Envelope struct {
	Type string `json:"type"`
}

// EventType extracts the discriminator without decoding the payload.
func EventType(data []byte) (string, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", err
	}
	return env.Type, nil
}

// JoinRoom asks to enter a room. Identity is caller-supplied and opaque.
type JoinRoom struct {
	Type        string `json:"type"`
	RoomID      string `json:"roomId" validate:"required,max=64"`
	UserID      string `json:"userId" validate:"required,max=64"`
	DisplayName string `json:"displayName" validate:"required,max=64"`
	PhotoURL    string `json:"photoURL,omitempty" validate:"omitempty,max=512"`
}

// Signal carries an opaque SDP/ICE blob for exactly one recipient.
// The payload is never parsed at this layer.
type Signal struct {
	Type    string          `json:"type"`
	RoomID  string          `json:"roomId"`
	To      string          `json:"to"`
	From    string          `json:"from,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MediaState toggles the sender's audio/video flags. Absent fields keep
// their prior value; the screen-share flag is never touched here.
type MediaState struct {
	Type         string `json:"type"`
	RoomID       string `json:"roomId" validate:"required,max=64"`
	AudioEnabled *bool  `json:"audioEnabled,omitempty"`
	VideoEnabled *bool  `json:"videoEnabled,omitempty"`
}

type ScreenShare struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId" validate:"required,max=64"`
	Sharing bool   `json:"sharing"`
}

type LeaveRoom struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId" validate:"required,max=64"`
}

type ChatMessage struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId" validate:"required,max=64"`
	UserID  string `json:"userId" validate:"required,max=64"`
	Message string `json:"message" validate:"required"`
}

// Outbound events.

type RoomFull struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
}

type RoomJoined struct {
	Type          string                 `json:"type"`
	RoomID        domain.RoomID          `json:"roomId"`
	ExistingUsers []core.ParticipantInfo `json:"existingUsers"`
}

type MediaStates struct {
	Type   string                            `json:"type"`
	RoomID domain.RoomID                     `json:"roomId"`
	States map[core.ConnID]domain.MediaState `json:"states"`
}

type UserJoined struct {
	Type        string        `json:"type"`
	ConnID      core.ConnID   `json:"connectionId"`
	UserID      domain.UserID `json:"userId"`
	DisplayName string        `json:"displayName"`
	PhotoURL    string        `json:"photoURL,omitempty"`
}

type SignalOut struct {
	Type        string          `json:"type"`
	From        core.ConnID     `json:"from"`
	Payload     json.RawMessage `json:"payload"`
	UserID      domain.UserID   `json:"userId,omitempty"`
	DisplayName string          `json:"displayName,omitempty"`
	PhotoURL    string          `json:"photoURL,omitempty"`
}

type MediaStateOut struct {
	Type         string      `json:"type"`
	ConnID       core.ConnID `json:"connectionId"`
	AudioEnabled bool        `json:"audioEnabled"`
	VideoEnabled bool        `json:"videoEnabled"`
}

type ScreenShareOut struct {
	Type        string      `json:"type"`
	ConnID      core.ConnID `json:"connectionId"`
	Sharing     bool        `json:"sharing"`
	DisplayName string      `json:"displayName,omitempty"`
	PhotoURL    string      `json:"photoURL,omitempty"`
}

type UserLeft struct {
	Type   string      `json:"type"`
	ConnID core.ConnID `json:"connectionId"`
}

type ChatMessageOut struct {
	Type      string        `json:"type"`
	UserID    domain.UserID `json:"userId"`
	Message   string        `json:"message"`
	Timestamp int64         `json:"timestamp"`
}

type Pong struct {
	Type string `json:"type"`
}

type ErrorOut struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}
