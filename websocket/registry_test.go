package websocket

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistryBindResolve(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	if _, ok := r.Resolve("user-1"); ok {
		t.Error("Resolve on empty registry should report no binding")
	}

	r.Bind("user-1", "conn-a")
	handle, ok := r.Resolve("user-1")
	if !ok {
		t.Fatal("expected binding for user-1 after Bind")
	}
	if handle != "conn-a" {
		t.Errorf("expected handle conn-a, got %s", handle)
	}
}

func TestRegistryLastConnectWins(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Bind("user-1", "conn-a")
	r.Bind("user-1", "conn-b")

	handle, ok := r.Resolve("user-1")
	if !ok {
		t.Fatal("expected binding for user-1")
	}
	if handle != "conn-b" {
		t.Errorf("expected newest handle conn-b, got %s", handle)
	}
}

func TestRegistryUnbind(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Bind("user-1", "conn-a")
	r.Unbind("user-1")

	if _, ok := r.Resolve("user-1"); ok {
		t.Error("expected no binding after Unbind")
	}

	// Unbinding an absent user is a no-op
	r.Unbind("user-2")
}

func TestRegistryIsolatesUsers(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Bind("user-1", "conn-a")
	r.Bind("user-2", "conn-b")
	r.Unbind("user-1")

	handle, ok := r.Resolve("user-2")
	if !ok || handle != "conn-b" {
		t.Errorf("user-2 binding should survive user-1's unbind, got %q ok=%v", handle, ok)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", n%10)
			r.Bind(userID, fmt.Sprintf("conn-%d", n))
			r.Resolve(userID)
			if n%3 == 0 {
				r.Unbind(userID)
			}
		}(i)
	}
	wg.Wait()
}
