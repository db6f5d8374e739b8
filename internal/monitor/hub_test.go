package monitor

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func setupHubWithSubscriber(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()
	hub := NewHub(log.New(io.Discard, "", 0))
	t.Cleanup(hub.Close)

	testUpgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	added := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Add(conn)
		close(added)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { client.Close() })

	select {
	case <-added:
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber was not registered")
	}
	return hub, client
}

func TestHubBroadcastReachesSubscriber(t *testing.T) {
	hub, client := setupHubWithSubscriber(t)

	hub.Broadcast(StatusEvent{Type: "device_status", DeviceID: 7, Name: "screen", Online: true})

	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	var event StatusEvent
	require.NoError(t, client.ReadJSON(&event))
	require.Equal(t, "device_status", event.Type)
	require.Equal(t, int64(7), event.DeviceID)
	require.True(t, event.Online)
}

func TestHubBroadcastConcurrent(t *testing.T) {
	hub, client := setupHubWithSubscriber(t)

	const writers = 8
	const perWriter = 25

	received := make(chan StatusEvent, writers*perWriter)
	go func() {
		for {
			var event StatusEvent
			if err := client.ReadJSON(&event); err != nil {
				return
			}
			received <- event
		}
	}()

	// The sweep goroutine and status handlers broadcast independently;
	// every frame must arrive intact with no interleaved writes.
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				hub.Broadcast(StatusEvent{Type: "device_status", DeviceID: id, Online: true})
			}
		}(int64(i))
	}
	wg.Wait()

	for i := 0; i < writers*perWriter; i++ {
		select {
		case event := <-received:
			require.Equal(t, "device_status", event.Type)
		case <-time.After(5 * time.Second):
			t.Fatalf("received %d of %d events", i, writers*perWriter)
		}
	}
}

func TestHubRemovesClosedSubscriber(t *testing.T) {
	hub, client := setupHubWithSubscriber(t)

	require.NoError(t, client.Close())

	// The broadcast either hits the dead connection and drops it, or the
	// drain goroutine already removed it; both end with an empty hub.
	require.Eventually(t, func() bool {
		hub.Broadcast(StatusEvent{Type: "device_status", DeviceID: 1})
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.conns) == 0
	}, 5*time.Second, 50*time.Millisecond)
}
