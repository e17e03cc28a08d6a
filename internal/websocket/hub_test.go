package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	return hub
}

func registerClient(t *testing.T, hub *Hub, userID, role string) *Client {
	t.Helper()
	client := NewClient(userID, role, nil, hub)
	hub.register <- client
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 5*time.Millisecond)
	return client
}

func TestBroadcastToUserDeliversToThatClientOnly(t *testing.T) {
	hub := startHub(t)
	driver := registerClient(t, hub, "driver-001", "driver")

	hub.BroadcastToUser("driver-001", map[string]string{"type": "sync_record_uploaded"})
	hub.BroadcastToUser("driver-999", map[string]string{"type": "sync_record_uploaded"})

	select {
	case msg := <-driver.send:
		assert.JSONEq(t, `{"type":"sync_record_uploaded"}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("expected a message for driver-001")
	}
	select {
	case msg := <-driver.send:
		t.Fatalf("unexpected second message: %s", msg)
	default:
	}
}

func TestBroadcastToUserDisconnectsSlowConsumer(t *testing.T) {
	hub := startHub(t)
	driver := registerClient(t, hub, "driver-001", "driver")

	for i := 0; i < cap(driver.send); i++ {
		driver.send <- []byte("backlog")
	}

	// Readers hammering the client map while the full-buffer disconnect
	// runs must never observe a torn map.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.GetClientCount()
			hub.BroadcastToRole("admin", map[string]string{"type": "noise"})
		}
	}()

	hub.BroadcastToUser("driver-001", map[string]string{"type": "overflow"})
	wg.Wait()

	assert.Eventually(t, func() bool {
		return hub.GetClientCount() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestBroadcastToRoleFiltersByRole(t *testing.T) {
	hub := startHub(t)

	admin := NewClient("admin-001", "admin", nil, hub)
	driver := NewClient("driver-001", "driver", nil, hub)
	hub.register <- admin
	hub.register <- driver
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 2
	}, time.Second, 5*time.Millisecond)

	hub.BroadcastToRole("admin", map[string]string{"type": "driver_punch"})

	select {
	case msg := <-admin.send:
		assert.JSONEq(t, `{"type":"driver_punch"}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("expected a message for the admin")
	}
	select {
	case msg := <-driver.send:
		t.Fatalf("driver should not receive admin broadcasts, got: %s", msg)
	default:
	}
}
