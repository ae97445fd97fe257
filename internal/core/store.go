package core

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"huddle/internal/domain"
)

// DefaultRoomCapacity is the hard member limit per room. Joins beyond it
// are rejected, not queued.
const DefaultRoomCapacity = 10

var ErrRoomFull = errors.New("room is full")

// roomState is one room's membership. The participant and media maps are
// always mutated together under the store lock so their key sets stay
// identical.
type roomState struct {
	order        []ConnID
	participants map[ConnID]domain.Participant
	media        map[ConnID]domain.MediaState
}

func newRoomState() *roomState {
	return &roomState{
		participants: make(map[ConnID]domain.Participant),
		media:        make(map[ConnID]domain.MediaState),
	}
}

// RoomStore is the in-memory registry of rooms and their members.
// All mutation is serialized through one mutex; rooms share no other state.
// Every method is safe to call against a room or member that no longer
// exists.
type RoomStore struct {
	mu       sync.Mutex
	rooms    map[domain.RoomID]*roomState
	capacity int
}

func NewRoomStore() *RoomStore {
	return NewRoomStoreWithCapacity(DefaultRoomCapacity)
}

func NewRoomStoreWithCapacity(capacity int) *RoomStore {
	if capacity <= 0 {
		capacity = DefaultRoomCapacity
	}
	return &RoomStore{
		rooms:    make(map[domain.RoomID]*roomState),
		capacity: capacity,
	}
}

// CreateRoomIfAbsent is idempotent; no-op if the room already exists.
func (s *RoomStore) CreateRoomIfAbsent(roomID domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureRoom(roomID)
}

func (s *RoomStore) ensureRoom(roomID domain.RoomID) *roomState {
	room, ok := s.rooms[roomID]
	if !ok {
		room = newRoomState()
		s.rooms[roomID] = room
	}
	return room
}

// AddMember inserts a participant with the default media state, creating
// the room when needed. Returns ErrRoomFull when the room is at capacity;
// in that case nothing is mutated.
func (s *RoomStore) AddMember(roomID domain.RoomID, cid ConnID, p domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.ensureRoom(roomID)
	if _, ok := room.participants[cid]; ok {
		// re-announce of the same connection, keep media state as-is
		room.participants[cid] = p
		return nil
	}
	if len(room.participants) >= s.capacity {
		return ErrRoomFull
	}
	room.order = append(room.order, cid)
	room.participants[cid] = p
	room.media[cid] = domain.DefaultMediaState()
	log.Debug().Str("module", "core.store").
		Str("room", string(roomID)).
		Str("conn", string(cid)).
		Str("user", string(p.UserID)).
		Msg("member added")
	return nil
}

// RemoveMember deletes a member from both maps atomically and drops the
// room entirely when it becomes empty. Safe to call redundantly from both
// the explicit-leave and the disconnect paths; returns false when there
// was nothing to remove.
func (s *RoomStore) RemoveMember(roomID domain.RoomID, cid ConnID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return false
	}
	if _, ok = room.participants[cid]; !ok {
		return false
	}
	delete(room.participants, cid)
	delete(room.media, cid)
	for i, id := range room.order {
		if id == cid {
			room.order = append(room.order[:i], room.order[i+1:]...)
			break
		}
	}
	if len(room.participants) == 0 {
		delete(s.rooms, roomID)
	}
	log.Debug().Str("module", "core.store").
		Str("room", string(roomID)).
		Str("conn", string(cid)).
		Msg("member removed")
	return true
}

// UpdateMediaState merges the patch into the member's media state and
// returns the result. No-op (ok=false) when the room or member is gone,
// which can happen when an update races a disconnect.
func (s *RoomStore) UpdateMediaState(roomID domain.RoomID, cid ConnID, patch domain.MediaStatePatch) (domain.MediaState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return domain.MediaState{}, false
	}
	if _, ok = room.participants[cid]; !ok {
		return domain.MediaState{}, false
	}
	st, ok := room.media[cid]
	if !ok {
		st = domain.DefaultMediaState()
	}
	st = patch.Apply(st)
	room.media[cid] = st
	return st, true
}

// ListOtherMembers snapshots every member's profile except the given one,
// in insertion order. Callers must not depend on the ordering.
func (s *RoomStore) ListOtherMembers(roomID domain.RoomID, exclude ConnID) []ParticipantInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ParticipantInfo, 0)
	room, ok := s.rooms[roomID]
	if !ok {
		return out
	}
	for _, cid := range room.order {
		if cid == exclude {
			continue
		}
		p := room.participants[cid]
		out = append(out, ParticipantInfo{
			ConnID:      cid,
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			PhotoURL:    p.PhotoURL,
		})
	}
	return out
}

// MediaStates snapshots the full media-state mapping of a room.
func (s *RoomStore) MediaStates(roomID domain.RoomID) map[ConnID]domain.MediaState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[ConnID]domain.MediaState)
	room, ok := s.rooms[roomID]
	if !ok {
		return out
	}
	for cid, st := range room.media {
		out[cid] = st
	}
	return out
}

// Lookup returns a member's profile view, used to enrich outgoing signal
// envelopes without trusting the client to repeat its own metadata.
func (s *RoomStore) Lookup(roomID domain.RoomID, cid ConnID) (ParticipantInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return ParticipantInfo{}, false
	}
	p, ok := room.participants[cid]
	if !ok {
		return ParticipantInfo{}, false
	}
	return ParticipantInfo{
		ConnID:      cid,
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
	}, true
}

// Members lists the connection ids of a room in insertion order.
func (s *RoomStore) Members(roomID domain.RoomID) []ConnID {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]ConnID, len(room.order))
	copy(out, room.order)
	return out
}

func (s *RoomStore) MemberCount(roomID domain.RoomID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return 0
	}
	return len(room.participants)
}

// List snapshots every live room for the rooms API.
func (s *RoomStore) List() []RoomInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RoomInfo, 0, len(s.rooms))
	for id, room := range s.rooms {
		out = append(out, RoomInfo{RoomID: id, MemberCount: len(room.participants)})
	}
	return out
}
