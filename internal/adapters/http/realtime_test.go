package httpadapter_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestRealtimeWebSocket(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/realtime/ws/client-1"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{
		"text": "You always ruin everything!",
	}))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var resp struct {
		Type          string  `json:"type"`
		ConflictScore float64 `json:"conflict_score"`
		WarningLevel  string  `json:"warning_level"`
		QuickTip      string  `json:"quick_tip"`
	}
	require.NoError(t, conn.ReadJSON(&resp))

	require.Equal(t, "score_update", resp.Type)
	require.Greater(t, resp.ConflictScore, 0.0)
	require.Contains(t, []string{"safe", "caution", "danger"}, resp.WarningLevel)
	require.NotEmpty(t, resp.QuickTip)
}

func TestRealtimeWebSocketIgnoresEmptyText(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/realtime/ws/client-2"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"text": "   "}))
	require.NoError(t, conn.WriteJSON(map[string]string{"text": "This is ridiculous!"}))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var resp struct {
		Type string `json:"type"`
	}
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "score_update", resp.Type)
}
