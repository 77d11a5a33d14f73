package session

import (
	"context"
	"errors"
	"strings"

	"github.com/jobmatch/internal/models"
	"github.com/rs/zerolog"
)

var ErrMissingToken = errors.New("backend returned no token")

type Authenticator interface {
	RegisterUser(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	VerifyCode(ctx context.Context, req models.VerifyRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
}

type TokenStore interface {
	TokenReader
	Save(token string) error
	Delete() error
}

// Manager owns the only writes to the token store: login creates the token,
// logout deletes it.
type Manager struct {
	auth   Authenticator
	store  TokenStore
	logger *zerolog.Logger
}

func NewManager(auth Authenticator, store TokenStore, logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{auth: auth, store: store, logger: logger}
}

func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	return m.auth.RegisterUser(ctx, req)
}

// Verify confirms the emailed code. Some backends log the user in right away
// by returning a token; it is stored when present.
func (m *Manager) Verify(ctx context.Context, email, code string) (*models.AuthResponse, error) {
	resp, err := m.auth.VerifyCode(ctx, models.VerifyRequest{
		Email: strings.TrimSpace(email),
		Code:  strings.TrimSpace(code),
	})
	if err != nil {
		return nil, err
	}
	if resp.Token != "" {
		if err := m.store.Save(resp.Token); err != nil {
			return nil, err
		}
		m.logger.Info().Str("email", email).Msg("Verified and logged in")
	}
	return resp, nil
}

func (m *Manager) Login(ctx context.Context, email, password string) error {
	resp, err := m.auth.Login(ctx, models.LoginRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		return err
	}
	if resp.Token == "" {
		return ErrMissingToken
	}
	if err := m.store.Save(resp.Token); err != nil {
		return err
	}
	m.logger.Info().Str("email", email).Msg("Logged in")
	return nil
}

func (m *Manager) Logout() error {
	if err := m.store.Delete(); err != nil {
		return err
	}
	m.logger.Info().Msg("Logged out")
	return nil
}
