package session

import (
	"context"
	"errors"

	"github.com/jobmatch/pkg/jwt"
	"github.com/rs/zerolog"
)

const RouteLogin = "/login"

// Navigator moves the user between screens. Replace drops the current screen
// from history so it cannot be navigated back into.
type Navigator interface {
	Replace(route string)
}

type TokenReader interface {
	Token() (string, error)
}

// Guard gates protected screens on the presence of a stored token. Token
// absence is the only invalidity signal; expiry is left to the backend.
type Guard struct {
	tokens TokenReader
	logger *zerolog.Logger
}

func NewGuard(tokens TokenReader, logger *zerolog.Logger) *Guard {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Guard{tokens: tokens, logger: logger}
}

// Enter reports whether the guarded screen may render. On false the
// navigator has already been sent to the login route.
func (g *Guard) Enter(ctx context.Context, nav Navigator) bool {
	if err := ctx.Err(); err != nil {
		nav.Replace(RouteLogin)
		return false
	}

	token, err := g.tokens.Token()
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			g.logger.Warn().Err(err).Msg("Failed to read session token")
		} else {
			g.logger.Debug().Msg("No session token, redirecting to login")
		}
		nav.Replace(RouteLogin)
		return false
	}

	event := g.logger.Debug()
	if id, err := jwt.Inspect(token); err == nil {
		event = event.Int64("user_id", id)
	}
	event.Msg("Session present")
	return true
}
