package service

import (
	"errors"

	"github.com/noah-isme/skillcheck-go-api/internal/fault"
)

// ErrSessionNotFound indicates the session id does not exist.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionCompleted indicates the session is terminal and accepts no further answers.
var ErrSessionCompleted = errors.New("session already completed")

// ErrNoChallengeOutstanding indicates an answer arrived while no challenge was in flight.
var ErrNoChallengeOutstanding = errors.New("no challenge outstanding for this session")

var (
	errEmptyChallengeText      = errors.New("generated challenge has empty text")
	errMissingOptions          = errors.New("generated challenge lacks answer options")
	errGenerationCountMismatch = errors.New("generated challenge count does not match request")
)

// reasonFor labels a generation failure for the fallback metric.
func reasonFor(err error) string {
	if fault.IsKind(err, fault.KindTransport) {
		return "transport"
	}
	return "normalization"
}
