package backendtest_test

import (
	"context"
	"testing"
	"time"

	"github.com/jobmatch/internal/api"
	"github.com/jobmatch/internal/backendtest"
	"github.com/jobmatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedServesDemoAccount(t *testing.T) {
	backend := backendtest.New(nil)
	demo := backendtest.Seed(backend.Store, time.Now().UTC())
	server := backend.Start()
	defer server.Close()

	ctx := context.Background()
	anon := api.New(api.Options{BaseURL: server.URL + backendtest.APIPrefix})
	resp, err := anon.Login(ctx, models.LoginRequest{Email: backendtest.DemoEmail, Password: backendtest.DemoPassword})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	client := api.New(api.Options{
		BaseURL: server.URL + backendtest.APIPrefix,
		Tokens:  backendtest.StaticToken(resp.Token),
	})

	perfil, err := client.GetPerfil(ctx)
	require.NoError(t, err)
	assert.Equal(t, demo.UserID, perfil.ID)

	chats, err := client.ObtenerChats(ctx)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, demo.ChatID, chats[0].ID)

	page, err := client.ObtenerMensajes(ctx, demo.ChatID)
	require.NoError(t, err)
	assert.Len(t, page.Mensajes, 2)

	likes, err := client.GetLikesByOferta(ctx, demo.OfertaID)
	require.NoError(t, err)
	assert.Len(t, likes, 3)

	matched, err := client.GetUserApplications(ctx, models.EstadoMatched)
	require.NoError(t, err)
	assert.Len(t, matched, 1)
}

func TestBackendRejectsForeignToken(t *testing.T) {
	backend := backendtest.New(nil)
	server := backend.Start()
	defer server.Close()

	client := api.New(api.Options{
		BaseURL: server.URL + backendtest.APIPrefix,
		Tokens:  backendtest.StaticToken("not-a-jwt"),
	})
	_, err := client.ObtenerChats(context.Background())
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, 1, backend.Calls(backendtest.RouteChats))
}
