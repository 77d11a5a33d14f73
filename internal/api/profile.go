package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jobmatch/internal/models"
)

func (c *Client) GetPerfil(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(ctx, http.MethodGet, "/perfil", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) GetPerfilPublicoPorEmail(ctx context.Context, email string) (*models.PublicProfile, error) {
	var profile models.PublicProfile
	query := url.Values{"email": {email}}
	if err := c.do(ctx, http.MethodGet, "/perfil/publico", query, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) GetEstadisticas(ctx context.Context) (*models.Statistics, error) {
	var stats models.Statistics
	if err := c.do(ctx, http.MethodGet, "/estadisticas", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
