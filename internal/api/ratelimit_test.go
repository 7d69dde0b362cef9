package api

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, time.Minute)
	t.Cleanup(rl.Stop)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first request from 10.0.0.1 denied")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("second request from 10.0.0.1 allowed past burst")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other client shares the first client's bucket")
	}
	if rl.ClientCount() != 2 {
		t.Errorf("ClientCount() = %d, want 2", rl.ClientCount())
	}
}

func TestRateLimiter_CleanupForgetsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	t.Cleanup(rl.Stop)

	rl.Allow("10.0.0.1")
	rl.cleanup(time.Now())
	if rl.ClientCount() != 1 {
		t.Fatalf("active client removed")
	}

	rl.cleanup(time.Now().Add(2 * time.Minute))
	if rl.ClientCount() != 0 {
		t.Errorf("idle client kept, count = %d", rl.ClientCount())
	}
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	rl.Stop()
	rl.Stop()
}

func TestClientAddr(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.7:51234"
	if got := clientAddr(r); got != "203.0.113.7" {
		t.Errorf("clientAddr = %q", got)
	}

	r.RemoteAddr = "no-port"
	if got := clientAddr(r); got != "no-port" {
		t.Errorf("clientAddr = %q", got)
	}
}
