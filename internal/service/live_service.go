package service

import (
	"context"
	"errors"

	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/skillcheck-go-api/internal/dto"
	"github.com/noah-isme/skillcheck-go-api/internal/fault"
)

// LiveConnectionOptions wraps metadata extracted during the HTTP upgrade.
type LiveConnectionOptions struct {
	SessionID string
	OwnerKey  string
	Context   context.Context
}

// LiveSessionService drives a full evaluate-and-advance cycle over a single
// websocket connection: the client receives the outstanding challenge, sends
// answers, and receives each evaluation with the next challenge until the
// session completes.
type LiveSessionService interface {
	ServeConnection(conn *websocket.Conn, opts LiveConnectionOptions)
}

type liveSessionService struct {
	sessions SessionService
	logger   zerolog.Logger
}

// NewLiveSessionService constructs the live session service.
func NewLiveSessionService(sessions SessionService, logger zerolog.Logger) LiveSessionService {
	return &liveSessionService{
		sessions: sessions,
		logger:   logger.With().Str("component", "live_session_service").Logger(),
	}
}

// liveMessage is the envelope written to the client for every event on the channel.
type liveMessage struct {
	Type    string               `json:"type"`
	Session *dto.SessionResponse `json:"session,omitempty"`
	Error   string               `json:"error,omitempty"`
	Kind    string               `json:"kind,omitempty"`
}

func (s *liveSessionService) ServeConnection(conn *websocket.Conn, opts LiveConnectionOptions) {
	defer func() {
		_ = conn.Close()
	}()

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	state, err := s.sessions.Get(ctx, opts.SessionID, opts.OwnerKey)
	if err != nil {
		s.writeError(conn, err)
		return
	}

	if err := conn.WriteJSON(liveMessage{Type: "session", Session: &state}); err != nil {
		return
	}
	if state.Completed {
		return
	}

	for {
		var payload dto.SessionAnswerRequest
		if err := conn.ReadJSON(&payload); err != nil {
			s.logger.Debug().Err(err).Str("session_id", opts.SessionID).Msg("live session read loop ended")
			return
		}

		state, err := s.sessions.Advance(ctx, opts.SessionID, payload, opts.OwnerKey)
		if err != nil {
			s.writeError(conn, err)
			if errors.Is(err, ErrSessionCompleted) || errors.Is(err, ErrSessionNotFound) {
				return
			}
			continue
		}

		if err := conn.WriteJSON(liveMessage{Type: "evaluation", Session: &state}); err != nil {
			return
		}

		if state.Completed {
			return
		}
	}
}

func (s *liveSessionService) writeError(conn *websocket.Conn, err error) {
	message := liveMessage{Type: "error", Error: err.Error(), Kind: string(fault.KindOf(err))}
	if fault.IsKind(err, fault.KindTransport) {
		message.Error = "the grading service is temporarily unavailable, please try again"
	}
	if writeErr := conn.WriteJSON(message); writeErr != nil {
		s.logger.Debug().Err(writeErr).Msg("live session error write failed")
	}
}
