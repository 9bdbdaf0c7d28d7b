// Package server implements the push-channel endpoint: it upgrades WebSocket
// connections, tracks username registrations, and dispatches integer-tagged
// query messages to the store, pushing each result to the addressed
// connection.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/casewire/casewire/internal/store"
	"github.com/casewire/casewire/pkg/rpc"
)

// Server owns the connection registry and the dispatch table.
type Server struct {
	store    *store.Store
	log      zerolog.Logger
	reg      *registry
	upgrader websocket.Upgrader
}

func New(st *store.Store, log zerolog.Logger) *Server {
	return &Server{
		store: st,
		log:   log,
		reg:   newRegistry(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin policy is the outer layer's concern.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Router returns the HTTP routes: the WebSocket endpoint and a health check.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sock, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{id: uuid.NewString(), sock: sock}
	s.log.Info().Str("conn", c.id).Msg("client connected")

	if err := c.push(rpc.EventServerMessage, rpc.Greeting{Response: "connected"}); err != nil {
		s.log.Warn().Err(err).Str("conn", c.id).Msg("greeting failed")
	}

	s.readLoop(c)
}

func (s *Server) readLoop(c *client) {
	defer func() {
		dropped := s.reg.dropConn(c)
		c.close()
		s.log.Info().Str("conn", c.id).Strs("usernames", dropped).Msg("client disconnected")
	}()

	for {
		_, data, err := c.sock.ReadMessage()
		if err != nil {
			return
		}
		s.handleMessage(c, data)
	}
}

func (s *Server) handleMessage(c *client, data []byte) {
	raw := rpc.RawMessage{Data: data}
	event, err := raw.Event()
	if err != nil {
		s.log.Warn().Err(err).Str("conn", c.id).Msg("frame without event")
		return
	}

	var msg rpc.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		s.log.Warn().Err(err).Str("conn", c.id).Msg("malformed frame")
		return
	}

	switch event {
	case rpc.EventRegisterUser:
		var reg rpc.Register
		if err := json.Unmarshal(msg.Data, &reg); err != nil || reg.Username == "" {
			s.log.Warn().Str("conn", c.id).Msg("registration without username")
			return
		}
		s.reg.register(reg.Username, c)
		s.log.Info().Str("conn", c.id).Str("username", reg.Username).Msg("registered user")

	case rpc.EventQueryDB:
		var q rpc.Query
		if err := json.Unmarshal(msg.Data, &q); err != nil {
			s.log.Warn().Err(err).Str("conn", c.id).
				Int("query_id", int(raw.QueryID())).Msg("malformed query")
			return
		}
		s.handleQuery(c, q)

	default:
		s.log.Warn().Str("conn", c.id).Str("event", event).Msg("unknown event")
	}
}

// handleQuery runs one dispatch and delivers the result. A query addressed
// to a registered username is pushed to that connection; an unaddressed
// query replies to the sender. Handler failures and unresolvable recipients
// are reported to the sender instead of tearing down the loop.
func (s *Server) handleQuery(c *client, q rpc.Query) {
	target := c
	result := rpc.Result{QueryID: q.QueryID}

	output, err := s.dispatch(context.Background(), q.QueryID, q.Data)
	switch {
	case err != nil:
		result.Error = err.Error()
		s.log.Warn().Err(err).Int("query_id", int(q.QueryID)).Str("conn", c.id).Msg("query failed")
	case q.To != "":
		recipient, ok := s.reg.lookup(q.To)
		if !ok {
			result.Error = fmt.Sprintf("recipient not found: %q", q.To)
			s.log.Warn().Str("to", q.To).Str("conn", c.id).Msg("recipient not registered")
			break
		}
		target = recipient
		result.Data = output
	default:
		result.Data = output
	}

	if err := target.push(rpc.EventServerMessage, result); err != nil {
		s.log.Warn().Err(err).Str("conn", target.id).Msg("push failed")
	}
	s.log.Debug().Int("query_id", int(q.QueryID)).Str("conn", target.id).Msg("result delivered")
}
