package core

import "huddle/internal/domain"

// Frame is an encoded outbound event ready for the wire.
type Frame []byte

// ConnID identifies one live transport connection. It is unique per
// connection and not stable across reconnects.
type ConnID string

// SignalConnection abstracts the system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats/backpressure to the coordinator.
type PublishResult struct {
	SentTo  int
	Dropped []ConnID
}

// ParticipantInfo is a read-only view for APIs and room snapshots
// (no transport fields).
type ParticipantInfo struct {
	ConnID      ConnID        `json:"connectionId"`
	UserID      domain.UserID `json:"userId"`
	DisplayName string        `json:"displayName"`
	PhotoURL    string        `json:"photoURL,omitempty"`
}

type RoomInfo struct {
	RoomID      domain.RoomID `json:"roomId"`
	MemberCount int           `json:"memberCount"`
}
