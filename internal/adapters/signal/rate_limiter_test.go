package signal

import (
	"testing"
	"time"

	"huddle/internal/domain"
)

func TestChatLimiterWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewChatLimiter(3, 10*time.Second)
	rl.now = func() time.Time { return now }

	uid := domain.UserID("u1")

	for i := 0; i < 3; i++ {
		if !rl.Allow(uid) {
			t.Fatalf("attempt %d should be allowed", i)
		}
	}
	if rl.Allow(uid) {
		t.Fatal("4th attempt inside window should be blocked")
	}

	// other users have their own window
	if !rl.Allow(domain.UserID("u2")) {
		t.Fatal("separate user must not be affected")
	}

	// once the window slides past, attempts are allowed again
	now = now.Add(11 * time.Second)
	if !rl.Allow(uid) {
		t.Fatal("attempt after window expiry should be allowed")
	}
}

func TestChatLimiterForget(t *testing.T) {
	rl := NewChatLimiter(1, time.Minute)
	uid := domain.UserID("u1")

	if !rl.Allow(uid) {
		t.Fatal("first attempt should pass")
	}
	if rl.Allow(uid) {
		t.Fatal("second attempt should be blocked")
	}
	rl.Forget(uid)
	if !rl.Allow(uid) {
		t.Fatal("window should reset after Forget")
	}
}
