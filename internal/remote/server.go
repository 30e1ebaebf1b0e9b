// Package remote exposes an effect engine's controller over HTTP and
// websocket.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cwbudde/algo-fxhost/dsp/effectchain"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// DefaultRequestTimeout bounds one control round trip.
const DefaultRequestTimeout = 2 * time.Second

// Server serves GET /effects, GET /slots and the /control websocket.
type Server struct {
	engine   *effectchain.Engine
	logger   logrus.FieldLogger
	timeout  time.Duration
	upgrader websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRequestTimeout sets the timeout of a single control request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewServer creates a Server for engine.
func NewServer(engine *effectchain.Engine, opts ...Option) *Server {
	s := &Server{
		engine:  engine,
		logger:  logrus.StandardLogger(),
		timeout: DefaultRequestTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /effects", s.handleEffects)
	mux.HandleFunc("GET /slots", s.handleSlots)
	mux.HandleFunc("/control", s.handleControl)

	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)

	go func() {
		s.logger.WithField("addr", addr).Info("remote control listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}

		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	}
}

func (s *Server) handleEffects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.engine.Registry().Manifests())
}

// SlotInfo describes one chain slot.
type SlotInfo struct {
	Slot   int    `json:"slot"`
	Effect string `json:"effect,omitempty"`
}

func (s *Server) handleSlots(w http.ResponseWriter, _ *http.Request) {
	ctrl := s.engine.Controller()
	slots := make([]SlotInfo, s.engine.Slots())

	for i := range slots {
		slots[i].Slot = i
		if m := ctrl.Manifest(i); m != nil {
			slots[i].Effect = m.ID
		}
	}

	writeJSON(w, slots)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := s.logger.WithField("remote", r.RemoteAddr)
	log.Debug("control client connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("control client read failed")
			}

			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.WithError(err).Info("malformed control message")

			if err := conn.WriteJSON(Reply{Error: err.Error()}); err != nil {
				return
			}

			continue
		}

		reply := replyFor(s.apply(r.Context(), msg))
		if !reply.Success {
			log.WithFields(logrus.Fields{
				"type":   msg.Type,
				"slot":   msg.Slot,
				"status": reply.Status,
			}).Info(reply.Error)
		}

		if err := conn.WriteJSON(reply); err != nil {
			log.WithError(err).Warn("control client write failed")
			return
		}
	}
}

func (s *Server) apply(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ctrl := s.engine.Controller()

	switch msg.Type {
	case effectchain.LoadEffect:
		return ctrl.LoadEffect(ctx, msg.Slot, msg.Effect)
	case effectchain.UnloadEffect:
		return ctrl.UnloadEffect(ctx, msg.Slot)
	case effectchain.SetEffectParameters:
		return ctrl.SetEnabled(ctx, msg.Slot, msg.Enabled)
	case effectchain.SetParameterParameters:
		if msg.ParameterID != "" {
			return ctrl.SetParameterValue(ctx, msg.Slot, msg.ParameterID, msg.Value)
		}

		return ctrl.SetParameter(ctx, msg.Slot, msg.Parameter, msg.Minimum, msg.Maximum, msg.Default, msg.Value)
	case effectchain.SetGroupEnabled:
		group, ok := s.engine.Group(msg.Group)
		if !ok {
			return fmt.Errorf("remote: group %q: %w", msg.Group, effectchain.ErrNoSuchGroup)
		}

		return ctrl.SetGroupEnabled(ctx, msg.Slot, group, msg.Enabled)
	default:
		return fmt.Errorf("remote: request type %d: %w", msg.Type, effectchain.ErrNoSuchEffect)
	}
}
