package api

import (
	"context"
	"net/http"

	"github.com/jobmatch/internal/models"
)

func (c *Client) GetLikesByOferta(ctx context.Context, ofertaID int64) ([]models.Like, error) {
	var likes []models.Like
	if err := c.do(ctx, http.MethodGet, idPath("/likes/oferta/{id}", ofertaID), nil, nil, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (c *Client) CreateMatch(ctx context.Context, likeID int64) (*models.Match, error) {
	var match models.Match
	if err := c.do(ctx, http.MethodPost, idPath("/matches/{id}", likeID), nil, nil, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (c *Client) RejectUserProfile(ctx context.Context, likeID int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/likes/{id}", likeID), nil, nil, nil)
}
