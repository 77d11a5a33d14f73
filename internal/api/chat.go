package api

import (
	"context"
	"net/http"

	"github.com/jobmatch/internal/models"
)

func (c *Client) ObtenerChats(ctx context.Context) ([]models.ChatSummary, error) {
	var chats []models.ChatSummary
	if err := c.do(ctx, http.MethodGet, "/chats", nil, nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// ObtenerMensajes returns the chat's messages exactly as the backend sends
// them, newest first.
func (c *Client) ObtenerMensajes(ctx context.Context, chatID int64) (*models.MessagesPage, error) {
	var page models.MessagesPage
	if err := c.do(ctx, http.MethodGet, idPath("/chats/{id}/mensajes", chatID), nil, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) EnviarMensaje(ctx context.Context, req models.SendMessageRequest) (*models.Message, error) {
	var msg models.Message
	if err := c.do(ctx, http.MethodPost, "/chats/mensajes", nil, req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
