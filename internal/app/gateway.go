package app

import (
	"github.com/rs/zerolog/log"

	"huddle/internal/core"
	"huddle/internal/domain"
	"huddle/internal/protocol"
)

// Gateway is the delivery primitive: unicast to one connection, or fan
// out to a room with or without the sender. All sends are best-effort; a
// closed or missing connection drops the frame without error.
type Gateway struct {
	Registry *Registry
	Store    *core.RoomStore
}

// Unicast delivers one event to one connection id. Returns false when the
// target is gone or its buffer is full.
func (g *Gateway) Unicast(cid core.ConnID, event any) bool {
	conn, ok := g.Registry.Get(cid)
	if !ok {
		log.Debug().Str("module", "app.gateway").Str("dst", string(cid)).Msg("cannot forward, dst not found")
		return false
	}
	frame, err := protocol.Encode(event)
	if err != nil {
		log.Error().Err(err).Str("module", "app.gateway").Msg("encode failed")
		return false
	}
	if err = conn.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "app.gateway").Str("dst", string(cid)).Msg("send dropped")
		return false
	}
	return true
}

// Broadcast fans an event out to every member of a room except the given
// connection. Pass an empty exclude id to include everyone.
func (g *Gateway) Broadcast(roomID domain.RoomID, exclude core.ConnID, event any) core.PublishResult {
	res := core.PublishResult{}
	frame, err := protocol.Encode(event)
	if err != nil {
		log.Error().Err(err).Str("module", "app.gateway").Msg("encode failed")
		return res
	}
	for _, cid := range g.Store.Members(roomID) {
		if cid == exclude {
			continue
		}
		conn, ok := g.Registry.Get(cid)
		if !ok {
			continue
		}
		if err = conn.TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, cid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "app.gateway").
		Str("room", string(roomID)).
		Int("sent_to", res.SentTo).
		Int("dropped", len(res.Dropped)).
		Msg("broadcast result")
	return res
}
