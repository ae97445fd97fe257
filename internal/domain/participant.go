// Package domain contains entities without logic, just meta-data.
package domain

import "errors"

const (
	MaxRoomIDLen      = 64
	MaxUserIDLen      = 64
	MaxDisplayNameLen = 64
)

var (
	ErrDisplayNameEmpty   = errors.New("display name empty")
	ErrDisplayNameTooLong = errors.New("display name too long")
)

type (
	RoomID string
	UserID string
)

// Participant is the profile a peer announces when joining a room.
// UserID is caller-supplied and stable across reconnects; the connection
// identifier that keys it inside a room is not.
type Participant struct {
	UserID      UserID `json:"userId"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// NewParticipant avoids raw literals in adapters and keeps construction obvious.
func NewParticipant(userID UserID, displayName, photoURL string) (Participant, error) {
	if len(displayName) == 0 {
		return Participant{}, ErrDisplayNameEmpty
	}
	if len(displayName) > MaxDisplayNameLen {
		return Participant{}, ErrDisplayNameTooLong
	}
	return Participant{UserID: userID, DisplayName: displayName, PhotoURL: photoURL}, nil
}
