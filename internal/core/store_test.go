package core

import (
	"errors"
	"fmt"
	"testing"

	"huddle/internal/domain"
)

func member(n int) (ConnID, domain.Participant) {
	return ConnID(fmt.Sprintf("conn-%d", n)), domain.Participant{
		UserID:      domain.UserID(fmt.Sprintf("user-%d", n)),
		DisplayName: fmt.Sprintf("User %d", n),
	}
}

func TestStoreCapacity(t *testing.T) {
	s := NewRoomStore()
	room := domain.RoomID("crowded")

	for i := 0; i < DefaultRoomCapacity; i++ {
		cid, p := member(i)
		if err := s.AddMember(room, cid, p); err != nil {
			t.Fatalf("join %d: unexpected error %v", i, err)
		}
	}
	if got := s.MemberCount(room); got != DefaultRoomCapacity {
		t.Fatalf("member count = %d, want %d", got, DefaultRoomCapacity)
	}

	cid, p := member(DefaultRoomCapacity)
	if err := s.AddMember(room, cid, p); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("11th join: got %v, want ErrRoomFull", err)
	}
	if got := s.MemberCount(room); got != DefaultRoomCapacity {
		t.Fatalf("member count after rejected join = %d, want %d", got, DefaultRoomCapacity)
	}
	if _, ok := s.Lookup(room, cid); ok {
		t.Fatal("rejected joiner must not appear in the store")
	}
}

func TestStoreKeySetsStayIdentical(t *testing.T) {
	s := NewRoomStore()
	room := domain.RoomID("r")

	// interleave joins and removals, then compare key sets
	for i := 0; i < 6; i++ {
		cid, p := member(i)
		if err := s.AddMember(room, cid, p); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	for _, n := range []int{1, 3, 3, 5} { // 3 removed twice on purpose
		cid, _ := member(n)
		s.RemoveMember(room, cid)
	}

	st := s.rooms[room]
	if st == nil {
		t.Fatal("room missing")
	}
	if len(st.participants) != len(st.media) {
		t.Fatalf("map sizes differ: participants=%d media=%d", len(st.participants), len(st.media))
	}
	for cid := range st.participants {
		if _, ok := st.media[cid]; !ok {
			t.Fatalf("media state missing for %s", cid)
		}
	}
	if len(st.order) != len(st.participants) {
		t.Fatalf("order len %d != participants %d", len(st.order), len(st.participants))
	}
}

func TestStoreEmptyRoomIsDeleted(t *testing.T) {
	s := NewRoomStore()
	room := domain.RoomID("ephemeral")
	cid, p := member(0)

	if err := s.AddMember(room, cid, p); err != nil {
		t.Fatal(err)
	}
	if !s.RemoveMember(room, cid) {
		t.Fatal("remove returned false for existing member")
	}
	if _, ok := s.rooms[room]; ok {
		t.Fatal("room with zero participants must not exist in the store")
	}
	if got := s.ListOtherMembers(room, ""); len(got) != 0 {
		t.Fatalf("dead room still lists members: %v", got)
	}

	// a fresh join starts clean
	if err := s.AddMember(room, cid, p); err != nil {
		t.Fatal(err)
	}
	if got := s.ListOtherMembers(room, cid); len(got) != 0 {
		t.Fatalf("fresh room should have no other members, got %v", got)
	}
}

func TestStoreRemoveIsRedundantSafe(t *testing.T) {
	s := NewRoomStore()
	room := domain.RoomID("r")
	cid, p := member(0)

	if s.RemoveMember(room, cid) {
		t.Fatal("remove from missing room should be a no-op")
	}
	if err := s.AddMember(room, cid, p); err != nil {
		t.Fatal(err)
	}
	if !s.RemoveMember(room, cid) {
		t.Fatal("first remove should report removal")
	}
	if s.RemoveMember(room, cid) {
		t.Fatal("second remove should be a no-op")
	}
}

func TestStoreMediaStatePartialMerge(t *testing.T) {
	s := NewRoomStore()
	room := domain.RoomID("r")
	cid, p := member(0)
	if err := s.AddMember(room, cid, p); err != nil {
		t.Fatal(err)
	}

	st, ok := s.UpdateMediaState(room, cid, domain.MediaStatePatch{})
	if !ok {
		t.Fatal("update against live member must succeed")
	}
	if !st.AudioEnabled || !st.VideoEnabled || st.ScreenSharing {
		t.Fatalf("defaults wrong: %+v", st)
	}

	off := false
	st, _ = s.UpdateMediaState(room, cid, domain.MediaStatePatch{VideoEnabled: &off})
	if st.VideoEnabled {
		t.Fatal("video should be off")
	}
	st, _ = s.UpdateMediaState(room, cid, domain.MediaStatePatch{AudioEnabled: &off})
	if st.AudioEnabled {
		t.Fatal("audio should be off")
	}
	if st.VideoEnabled {
		t.Fatal("video flag must survive an audio-only patch")
	}

	on := true
	st, _ = s.UpdateMediaState(room, cid, domain.MediaStatePatch{ScreenSharing: &on})
	if !st.ScreenSharing || st.AudioEnabled || st.VideoEnabled {
		t.Fatalf("screen patch must not touch audio/video: %+v", st)
	}

	if _, ok = s.UpdateMediaState(room, "ghost", domain.MediaStatePatch{AudioEnabled: &on}); ok {
		t.Fatal("update for unknown member must be a no-op")
	}
	if _, ok = s.UpdateMediaState("ghost-room", cid, domain.MediaStatePatch{AudioEnabled: &on}); ok {
		t.Fatal("update for unknown room must be a no-op")
	}
}

func TestStoreListOtherMembers(t *testing.T) {
	s := NewRoomStore()
	room := domain.RoomID("r")

	ids := make([]ConnID, 0, 3)
	for i := 0; i < 3; i++ {
		cid, p := member(i)
		ids = append(ids, cid)
		if err := s.AddMember(room, cid, p); err != nil {
			t.Fatal(err)
		}
	}

	others := s.ListOtherMembers(room, ids[0])
	if len(others) != 2 {
		t.Fatalf("want 2 others, got %d", len(others))
	}
	for _, o := range others {
		if o.ConnID == ids[0] {
			t.Fatal("excluded member present in snapshot")
		}
		if o.UserID == "" || o.DisplayName == "" {
			t.Fatalf("profile fields missing: %+v", o)
		}
	}
}

func TestStoreCreateRoomIfAbsent(t *testing.T) {
	s := NewRoomStore()
	room := domain.RoomID("r")

	s.CreateRoomIfAbsent(room)
	s.CreateRoomIfAbsent(room) // idempotent

	cid, p := member(0)
	if err := s.AddMember(room, cid, p); err != nil {
		t.Fatal(err)
	}
	if got := s.MemberCount(room); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
}

func TestStoreList(t *testing.T) {
	s := NewRoomStore()
	for i := 0; i < 2; i++ {
		cid, p := member(i)
		if err := s.AddMember(domain.RoomID(fmt.Sprintf("room-%d", i)), cid, p); err != nil {
			t.Fatal(err)
		}
	}
	infos := s.List()
	if len(infos) != 2 {
		t.Fatalf("want 2 rooms, got %d", len(infos))
	}
	for _, info := range infos {
		if info.MemberCount != 1 {
			t.Fatalf("room %s count = %d, want 1", info.RoomID, info.MemberCount)
		}
	}
}
