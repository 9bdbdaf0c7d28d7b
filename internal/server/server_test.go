package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casewire/casewire/internal/store"
	"github.com/casewire/casewire/pkg/rpc"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ts := httptest.NewServer(New(st, zerolog.Nop()).Router())
	t.Cleanup(ts.Close)
	return ts
}

// dial connects to the test server and consumes the connect greeting.
func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	msg := readMessage(t, conn)
	require.Equal(t, rpc.EventServerMessage, msg.Event)
	var greeting rpc.Greeting
	require.NoError(t, json.Unmarshal(msg.Data, &greeting))
	require.Equal(t, "connected", greeting.Response)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) rpc.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg rpc.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func readResult(t *testing.T, conn *websocket.Conn) rpc.Result {
	t.Helper()
	msg := readMessage(t, conn)
	require.Equal(t, rpc.EventServerMessage, msg.Event)
	var result rpc.Result
	require.NoError(t, json.Unmarshal(msg.Data, &result))
	return result
}

func send(t *testing.T, conn *websocket.Conn, event string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(rpc.Message{Event: event, Data: data}))
}

func sendQuery(t *testing.T, conn *websocket.Conn, id rpc.QueryID, to string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	send(t, conn, rpc.EventQueryDB, rpc.Query{QueryID: id, To: to, Data: raw})
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp, err := ts.Client().Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}

func TestQueryFlow(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, rpc.EventRegisterUser, rpc.Register{Username: "user"})

	t.Run("CreateCase", func(t *testing.T) {
		sendQuery(t, conn, rpc.QueryCreateCase, "user", store.CaseInput{
			Title: "Case A", Description: "d", Priority: "high", Status: "open",
		})
		result := readResult(t, conn)
		require.Empty(t, result.Error)
		assert.Equal(t, rpc.QueryCreateCase, result.QueryID)

		created, ok := result.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(1), created["case_id"])
		assert.Equal(t, "Case A", created["title"])
	})

	t.Run("CreateProceeding", func(t *testing.T) {
		sendQuery(t, conn, rpc.QueryCreateProceeding, "user", map[string]any{
			"id": 100, "caseId": 1, "startTime": "09:00", "date": "2025-05-21",
			"participants": []map[string]any{
				{"id": "p1", "name": "Alice", "role": "Lead"},
			},
		})
		result := readResult(t, conn)
		require.Empty(t, result.Error)
		assert.Equal(t, float64(100), result.Data)
	})

	t.Run("FetchProceedings", func(t *testing.T) {
		sendQuery(t, conn, rpc.QueryFetchProceedings, "user", map[string]any{"case_id": 1})
		result := readResult(t, conn)
		require.Empty(t, result.Error)

		proceedings, ok := result.Data.([]any)
		require.True(t, ok)
		require.Len(t, proceedings, 1)
		first := proceedings[0].(map[string]any)
		assert.Equal(t, float64(100), first["id"])
		assert.Equal(t, "2025-05-21T09:00:00", first["startTime"])
		assert.Equal(t, "2025-05-21", first["date"])
	})

	t.Run("DeleteProceeding", func(t *testing.T) {
		sendQuery(t, conn, rpc.QueryDeleteProceeding, "user", map[string]any{"id": 100})
		result := readResult(t, conn)
		require.Empty(t, result.Error)
		assert.Equal(t, float64(100), result.Data)
	})

	t.Run("DeleteCase", func(t *testing.T) {
		sendQuery(t, conn, rpc.QueryDeleteCase, "user", map[string]any{"case_id": 1})
		result := readResult(t, conn)
		require.Empty(t, result.Error)
		assert.Equal(t, float64(1), result.Data)

		sendQuery(t, conn, rpc.QueryFetchCases, "user", nil)
		result = readResult(t, conn)
		require.Empty(t, result.Error)
		assert.Empty(t, result.Data)
	})
}

func TestRecipientResolution(t *testing.T) {
	t.Run("ReplyToSenderWhenUnaddressed", func(t *testing.T) {
		ts := newTestServer(t)
		conn := dial(t, ts)

		// No registration at all; an unaddressed query still gets its answer.
		sendQuery(t, conn, rpc.QueryFetchCases, "", nil)
		result := readResult(t, conn)
		assert.Empty(t, result.Error)
		assert.Equal(t, rpc.QueryFetchCases, result.QueryID)
	})

	t.Run("UnregisteredRecipientReportedToSender", func(t *testing.T) {
		ts := newTestServer(t)
		conn := dial(t, ts)

		sendQuery(t, conn, rpc.QueryFetchCases, "ghost", nil)
		result := readResult(t, conn)
		assert.Contains(t, result.Error, "recipient not found")
	})

	t.Run("DeliveredToAddressedConnection", func(t *testing.T) {
		ts := newTestServer(t)
		receiver := dial(t, ts)
		sender := dial(t, ts)

		send(t, receiver, rpc.EventRegisterUser, rpc.Register{Username: "user"})
		// Registration is fire-and-forget; give the read loop a moment.
		time.Sleep(50 * time.Millisecond)

		sendQuery(t, sender, rpc.QueryFetchCases, "user", nil)
		result := readResult(t, receiver)
		assert.Equal(t, rpc.QueryFetchCases, result.QueryID)
		assert.Empty(t, result.Error)
	})
}

func TestQueryErrors(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts)

	t.Run("ValidationErrorReported", func(t *testing.T) {
		sendQuery(t, conn, rpc.QueryCreateProceeding, "", map[string]any{
			"id": 100, "caseId": 42,
			"participants": []map[string]any{{"id": "p1", "name": "Alice", "role": "Lead"}},
		})
		result := readResult(t, conn)
		assert.Contains(t, result.Error, "case not found")
	})

	t.Run("UnknownQueryID", func(t *testing.T) {
		sendQuery(t, conn, rpc.QueryID(99), "", nil)
		result := readResult(t, conn)
		assert.Contains(t, result.Error, "unknown query id")
	})

	t.Run("MalformedPayload", func(t *testing.T) {
		sendQuery(t, conn, rpc.QueryCreateCase, "", "not-an-object")
		result := readResult(t, conn)
		assert.Contains(t, result.Error, "invalid query payload")
	})

	t.Run("ConnectionSurvivesErrors", func(t *testing.T) {
		sendQuery(t, conn, rpc.QueryFetchCases, "", nil)
		result := readResult(t, conn)
		assert.Empty(t, result.Error)
	})
}
