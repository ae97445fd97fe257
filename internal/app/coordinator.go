package app

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"huddle/internal/core"
	"huddle/internal/domain"
	"huddle/internal/protocol"
)

var ErrAlreadyJoined = errors.New("connection already joined a room")

// Coordinator is the event state machine for room membership and presence.
// Per connection the states are implicit: unjoined, joined to exactly one
// room, then left or disconnected. All mutation goes through the room
// store, which serializes it.
type Coordinator struct {
	Registry *Registry
	Store    *core.RoomStore
	Gateway  *Gateway
	Policy   Policy
}

// Join adds the connection to a room and announces it. The requester gets
// the room snapshot plus everyone's current media state; everyone else
// gets a user:joined. At capacity the requester gets room:full and
// nothing is mutated. A second join on the same connection is rejected.
func (c *Coordinator) Join(cid core.ConnID, roomID domain.RoomID, p domain.Participant) error {
	if bound, ok := c.Registry.RoomOf(cid); ok {
		log.Warn().Str("module", "app.coordinator").
			Str("conn", string(cid)).
			Str("room", string(bound)).
			Msg("join rejected, already in a room")
		c.Gateway.Unicast(cid, protocol.ErrorOut{Type: protocol.TypeError, Reason: "already_joined"})
		return ErrAlreadyJoined
	}

	if err := c.Store.AddMember(roomID, cid, p); err != nil {
		log.Info().Str("module", "app.coordinator").
			Str("conn", string(cid)).
			Str("room", string(roomID)).
			Msg("join rejected, room is full")
		c.Gateway.Unicast(cid, protocol.RoomFull{Type: protocol.TypeRoomFull, RoomID: roomID})
		return core.ErrRoomFull
	}
	c.Registry.SetRoom(cid, roomID)

	c.Gateway.Unicast(cid, protocol.RoomJoined{
		Type:          protocol.TypeRoomJoined,
		RoomID:        roomID,
		ExistingUsers: c.Store.ListOtherMembers(roomID, cid),
	})
	c.Gateway.Unicast(cid, protocol.MediaStates{
		Type:   protocol.TypeMediaStates,
		RoomID: roomID,
		States: c.Store.MediaStates(roomID),
	})
	res := c.Gateway.Broadcast(roomID, cid, protocol.UserJoined{
		Type:        protocol.TypeUserJoined,
		ConnID:      cid,
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
	})
	c.applyBackpressure(roomID, res)

	log.Info().Str("module", "app.coordinator").
		Str("conn", string(cid)).
		Str("room", string(roomID)).
		Str("user", string(p.UserID)).
		Msg("joined room")
	return nil
}

// RelaySignal forwards an opaque negotiation payload to exactly one
// recipient, enriched with the sender's profile from the store. Anything
// malformed or undeliverable is dropped silently; the protocol is
// fire-and-forget by design.
func (c *Coordinator) RelaySignal(cid core.ConnID, roomID domain.RoomID, to core.ConnID, payload []byte) {
	if to == "" || len(payload) == 0 {
		log.Debug().Str("module", "app.coordinator").
			Str("conn", string(cid)).
			Msg("signal dropped, missing to or payload")
		return
	}
	out := protocol.SignalOut{
		Type:    protocol.TypeSignal,
		From:    cid,
		Payload: payload,
	}
	// The sender's own claim of who it is stays untrusted; the profile
	// recorded at join time wins.
	if p, ok := c.Store.Lookup(roomID, cid); ok {
		out.UserID = p.UserID
		out.DisplayName = p.DisplayName
		out.PhotoURL = p.PhotoURL
	}
	c.Gateway.Unicast(to, out)
}

// SetMediaState merges the patch into the member's state and tells the
// rest of the room. The screen-share flag is never altered here.
func (c *Coordinator) SetMediaState(cid core.ConnID, roomID domain.RoomID, audio, video *bool) {
	st, ok := c.Store.UpdateMediaState(roomID, cid, domain.MediaStatePatch{
		AudioEnabled: audio,
		VideoEnabled: video,
	})
	if !ok {
		return
	}
	res := c.Gateway.Broadcast(roomID, cid, protocol.MediaStateOut{
		Type:         protocol.TypeMediaState,
		ConnID:       cid,
		AudioEnabled: st.AudioEnabled,
		VideoEnabled: st.VideoEnabled,
	})
	c.applyBackpressure(roomID, res)
}

// SetScreenShare flips the member's screen-sharing flag and tells the
// rest of the room.
func (c *Coordinator) SetScreenShare(cid core.ConnID, roomID domain.RoomID, sharing bool) {
	_, ok := c.Store.UpdateMediaState(roomID, cid, domain.MediaStatePatch{
		ScreenSharing: &sharing,
	})
	if !ok {
		return
	}
	out := protocol.ScreenShareOut{
		Type:    protocol.TypeScreenShare,
		ConnID:  cid,
		Sharing: sharing,
	}
	if p, lok := c.Store.Lookup(roomID, cid); lok {
		out.DisplayName = p.DisplayName
		out.PhotoURL = p.PhotoURL
	}
	res := c.Gateway.Broadcast(roomID, cid, out)
	c.applyBackpressure(roomID, res)
}

// Leave removes the member and tells the remaining room. Safe to call
// redundantly; the removal side effects happen exactly once.
func (c *Coordinator) Leave(cid core.ConnID, roomID domain.RoomID) {
	if !c.Store.RemoveMember(roomID, cid) {
		return
	}
	c.Registry.ClearRoom(cid)
	res := c.Gateway.Broadcast(roomID, cid, protocol.UserLeft{
		Type:   protocol.TypeUserLeft,
		ConnID: cid,
	})
	c.applyBackpressure(roomID, res)
	log.Info().Str("module", "app.coordinator").
		Str("conn", string(cid)).
		Str("room", string(roomID)).
		Msg("left room")
}

// Disconnect runs the leave steps for whatever room the connection is in
// and frees the connection id. Called exactly once per connection loss.
func (c *Coordinator) Disconnect(cid core.ConnID) {
	if roomID, ok := c.Registry.RoomOf(cid); ok {
		c.Leave(cid, roomID)
	}
	c.Registry.Unbind(cid)
}

// Chat relays a trimmed chat line to every member of the room including
// the sender, stamped with the relay's own receipt time. Nothing is
// stored beyond the act of relaying.
func (c *Coordinator) Chat(cid core.ConnID, roomID domain.RoomID, userID domain.UserID, message string) {
	if _, ok := c.Store.Lookup(roomID, cid); !ok {
		return
	}
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return
	}
	res := c.Gateway.Broadcast(roomID, "", protocol.ChatMessageOut{
		Type:      protocol.TypeChatMessage,
		UserID:    userID,
		Message:   trimmed,
		Timestamp: time.Now().UnixMilli(),
	})
	c.applyBackpressure(roomID, res)
}

func (c *Coordinator) applyBackpressure(roomID domain.RoomID, res core.PublishResult) {
	if c.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch c.Policy.OnBackpressure(roomID, slow) {
		case KickMember:
			c.Registry.Cancel(slow)
		case DropFrame, NoAction:
		}
	}
}
