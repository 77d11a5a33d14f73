package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jobmatch/internal/models"
)

func (c *Client) GetOfertas(ctx context.Context) ([]models.Oferta, error) {
	var ofertas []models.Oferta
	if err := c.do(ctx, http.MethodGet, "/ofertas", nil, nil, &ofertas); err != nil {
		return nil, err
	}
	return ofertas, nil
}

func (c *Client) GetOferta(ctx context.Context, id int64) (*models.Oferta, error) {
	var oferta models.Oferta
	if err := c.do(ctx, http.MethodGet, idPath("/ofertas/{id}", id), nil, nil, &oferta); err != nil {
		return nil, err
	}
	return &oferta, nil
}

func (c *Client) ToggleGuardarOferta(ctx context.Context, id int64) (*models.SaveToggleResult, error) {
	var result models.SaveToggleResult
	if err := c.do(ctx, http.MethodPost, idPath("/ofertas/{id}/guardar", id), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUserApplications lists the caller's applications. An empty estado means
// no filter.
func (c *Client) GetUserApplications(ctx context.Context, estado models.EstadoPostulacion) ([]models.Postulacion, error) {
	var query url.Values
	if estado != "" {
		query = url.Values{"estado": {string(estado)}}
	}
	var apps []models.Postulacion
	if err := c.do(ctx, http.MethodGet, "/postulaciones", query, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}
