package app

import (
	"huddle/internal/core"
	"huddle/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a member whose send buffer is full.
type Policy interface {
	OnBackpressure(roomID domain.RoomID, cid core.ConnID) BackpressureAction
}

// DropPolicy keeps delivery best-effort: a slow receiver just misses the
// frame. This is the default.
type DropPolicy struct{}

func (DropPolicy) OnBackpressure(domain.RoomID, core.ConnID) BackpressureAction {
	return DropFrame
}

// KickPolicy evicts slow receivers instead of letting them fall behind.
type KickPolicy struct{}

func (KickPolicy) OnBackpressure(domain.RoomID, core.ConnID) BackpressureAction {
	return KickMember
}
