package signal

import (
	"github.com/rs/zerolog/log"

	"huddle/internal/core"
	"huddle/internal/domain"
	"huddle/internal/protocol"
)

// handleEvent is the single entry point for inbound frames: decode the
// discriminator, then the typed payload, then call the coordinator.
func (ctl *Controller) handleEvent(cid core.ConnID, c *wsConn, data []byte) {
	evType, err := protocol.EventType(data)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(cid)).Msg("bad json")
		return
	}

	switch evType {
	case protocol.TypeJoinRoom:
		ctl.handleJoin(cid, c, data)
	case protocol.TypeSignal:
		ctl.handleSignal(cid, data)
	case protocol.TypeMediaState:
		ctl.handleMediaState(cid, data)
	case protocol.TypeScreenShare:
		ctl.handleScreenShare(cid, data)
	case protocol.TypeLeaveRoom:
		ctl.handleLeave(cid, data)
	case protocol.TypeChatMessage:
		ctl.handleChat(cid, c, data)
	case protocol.TypePing:
		ctl.sendEvent(c, protocol.Pong{Type: protocol.TypePong})
	default:
		log.Debug().Str("module", "signal").Str("type", evType).Msg("unknown event")
	}
}

func (ctl *Controller) sendEvent(c *wsConn, v any) {
	frame, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("encode event")
		return
	}
	_ = c.TrySend(frame)
}

func (ctl *Controller) sendError(c *wsConn, reason string) {
	ctl.sendEvent(c, protocol.ErrorOut{Type: protocol.TypeError, Reason: reason})
}

func (ctl *Controller) handleJoin(cid core.ConnID, c *wsConn, data []byte) {
	var p protocol.JoinRoom
	if err := protocol.Decode(data, &p); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	participant, err := domain.NewParticipant(domain.UserID(p.UserID), p.DisplayName, p.PhotoURL)
	if err != nil {
		ctl.sendError(c, "invalid_name")
		return
	}
	_ = ctl.Coord.Join(cid, domain.RoomID(p.RoomID), participant)
}

// handleSignal tolerates malformed frames silently: browsers emit empty
// or transient signaling artifacts on retry, and the relay is
// fire-and-forget.
func (ctl *Controller) handleSignal(cid core.ConnID, data []byte) {
	var p protocol.Signal
	if err := protocol.Decode(data, &p); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("signal dropped, bad payload")
		return
	}
	ctl.Coord.RelaySignal(cid, domain.RoomID(p.RoomID), core.ConnID(p.To), p.Payload)
}

func (ctl *Controller) handleMediaState(cid core.ConnID, data []byte) {
	var p protocol.MediaState
	if err := protocol.Decode(data, &p); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("bad media state payload")
		return
	}
	ctl.Coord.SetMediaState(cid, domain.RoomID(p.RoomID), p.AudioEnabled, p.VideoEnabled)
}

func (ctl *Controller) handleScreenShare(cid core.ConnID, data []byte) {
	var p protocol.ScreenShare
	if err := protocol.Decode(data, &p); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("bad screen share payload")
		return
	}
	ctl.Coord.SetScreenShare(cid, domain.RoomID(p.RoomID), p.Sharing)
}

func (ctl *Controller) handleLeave(cid core.ConnID, data []byte) {
	var p protocol.LeaveRoom
	if err := protocol.Decode(data, &p); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("bad leave payload")
		return
	}
	ctl.Coord.Leave(cid, domain.RoomID(p.RoomID))
}

func (ctl *Controller) handleChat(cid core.ConnID, c *wsConn, data []byte) {
	var p protocol.ChatMessage
	if err := protocol.Decode(data, &p); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("bad chat payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	if !ctl.Limiter.Allow(domain.UserID(p.UserID)) {
		log.Debug().Str("module", "signal").Str("user", p.UserID).Msg("chat rate limited")
		ctl.sendError(c, "rate_limited")
		return
	}
	ctl.Coord.Chat(cid, domain.RoomID(p.RoomID), domain.UserID(p.UserID), p.Message)
}
