package delivery

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func TestAlertsHubBroadcasts(t *testing.T) {
	hub := NewAlertsHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Notify(Alert{ReminderID: "A-2024-01-01-09-00", Title: "Time to take A 5mg"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got Alert
	require.NoError(t, websocket.JSON.Receive(conn, &got))
	assert.Equal(t, "A-2024-01-01-09-00", got.ReminderID)
	assert.Equal(t, "Time to take A 5mg", got.Title)
}

func TestAlertsHubWithoutClientsFallsBack(t *testing.T) {
	hub := NewAlertsHub(nil)
	assert.NotPanics(t, func() { hub.Notify(Alert{ReminderID: "x"}) })
	assert.Zero(t, hub.Clients())
}
