// Package rpc defines the JSON message envelopes exchanged over the push channel.
//
// Every frame is an event envelope. Clients send "register_user" and "query_db"
// events; the server pushes "server_message" events carrying query results.
package rpc

import (
	"encoding/json"

	"github.com/buger/jsonparser"
)

// Event names carried in the envelope.
const (
	EventRegisterUser  = "register_user"
	EventQueryDB       = "query_db"
	EventServerMessage = "server_message"
)

// QueryID selects which service operation an inbound query invokes.
type QueryID int

const (
	QueryCreateCase          QueryID = 1
	QueryFetchCases          QueryID = 2
	QueryCreateProceeding    QueryID = 3
	QueryUpdateProceeding    QueryID = 4
	QueryCaseProceedingsJSON QueryID = 5
	QueryFetchProceedings    QueryID = 6
	QueryDeleteProceeding    QueryID = 7
	QueryDeleteCase          QueryID = 8
)

// Message is the outer event envelope for every frame.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Register is the payload of a "register_user" event.
type Register struct {
	Username string `json:"username"`
}

// Query is the payload of a "query_db" event. To names the registered
// connection that should receive the result; when empty the result goes
// back to the sender.
type Query struct {
	QueryID QueryID         `json:"query_id"`
	To      string          `json:"to,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Result is the payload of a "server_message" event.
type Result struct {
	QueryID QueryID `json:"query_id"`
	Data    any     `json:"data,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Greeting is pushed once on connect, before any registration.
type Greeting struct {
	Response string `json:"response"`
}

// RawMessage wraps an undecoded frame and answers cheap questions about it
// without a full unmarshal.
type RawMessage struct {
	Data []byte

	event        string
	decodedEvent bool
}

// Event extracts the envelope event name, caching the answer.
func (m *RawMessage) Event() (string, error) {
	if m.decodedEvent {
		return m.event, nil
	}

	event, err := jsonparser.GetString(m.Data, "event")
	if err != nil {
		return "", err
	}

	m.event = event
	m.decodedEvent = true
	return event, nil
}

// QueryID extracts data.query_id from a query_db frame. Returns 0 when the
// field is absent or the frame is not a query.
func (m *RawMessage) QueryID() QueryID {
	id, err := jsonparser.GetInt(m.Data, "data", "query_id")
	if err != nil {
		return 0
	}
	return QueryID(id)
}
