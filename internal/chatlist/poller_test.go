package chatlist

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jobmatch/internal/api"
	"github.com/jobmatch/internal/backendtest"
	"github.com/jobmatch/internal/models"
	"github.com/jobmatch/internal/poll"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	backend *backendtest.Backend
	client  *api.Client
	userID  int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := backendtest.New(nil)
	server := backend.Start()
	t.Cleanup(server.Close)

	userID := backend.Store.AddUser("empresa@example.com", "password123", "Acme", "")
	client := api.New(api.Options{
		BaseURL: server.URL + backendtest.APIPrefix,
		Tokens:  backendtest.StaticToken(backend.Token(userID)),
	})
	return &fixture{backend: backend, client: client, userID: userID}
}

func (f *fixture) poller(t *testing.T, interval time.Duration, onChange func(Snapshot)) *Poller {
	t.Helper()
	nop := zerolog.Nop()
	p := NewPoller(f.client, interval, onChange, &nop)
	t.Cleanup(p.Stop)
	return p
}

func TestPollerPicksUpNewChat(t *testing.T) {
	f := newFixture(t)
	p := f.poller(t, 20*time.Millisecond, nil)
	p.Start(context.Background())

	require.Eventually(t, func() bool { return p.Snapshot().Status == poll.StatusReady }, time.Second, time.Millisecond)
	assert.Empty(t, p.Snapshot().Chats)

	f.backend.Store.AddChat(f.userID, models.ChatSummary{OfertaID: 3, NombreContraparte: "Eva", NoLeidos: 4})
	require.Eventually(t, func() bool { return len(p.Snapshot().Chats) == 1 }, time.Second, time.Millisecond)

	chat := p.Snapshot().Chats[0]
	assert.Equal(t, 4, chat.NoLeidos)
	assert.Equal(t, "Eva", chat.NombreContraparte)
}

func TestPollerReplacesListWholesale(t *testing.T) {
	f := newFixture(t)
	f.backend.Store.AddChat(f.userID, models.ChatSummary{OfertaID: 1})
	f.backend.Store.AddChat(f.userID, models.ChatSummary{OfertaID: 2})

	p := f.poller(t, 20*time.Millisecond, nil)
	p.Start(context.Background())
	require.Eventually(t, func() bool { return len(p.Snapshot().Chats) == 2 }, time.Second, time.Millisecond)

	f.backend.Store.RemoveChats(f.userID)
	require.Eventually(t, func() bool { return len(p.Snapshot().Chats) == 0 }, time.Second, time.Millisecond)
}

func TestPollerErrorThenRecovery(t *testing.T) {
	f := newFixture(t)
	f.backend.Fail(backendtest.RouteChats, http.StatusInternalServerError, "")

	var mu sync.Mutex
	var statuses []poll.Status
	p := f.poller(t, time.Hour, func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, s.Status)
	})
	p.Start(context.Background())

	require.Eventually(t, func() bool { return p.Snapshot().Status == poll.StatusError }, time.Second, time.Millisecond)
	assert.Equal(t, api.KindServer, api.KindOf(p.Snapshot().Err))

	f.backend.Clear(backendtest.RouteChats)
	require.NoError(t, p.Reload())

	snap := p.Snapshot()
	assert.Equal(t, poll.StatusReady, snap.Status)
	assert.NoError(t, snap.Err)

	mu.Lock()
	assert.Equal(t, []poll.Status{poll.StatusError, poll.StatusReady}, statuses)
	mu.Unlock()
}

func TestPollerStopsTicking(t *testing.T) {
	f := newFixture(t)
	p := f.poller(t, 10*time.Millisecond, nil)
	p.Start(context.Background())
	require.Eventually(t, func() bool { return f.backend.Calls(backendtest.RouteChats) >= 2 }, time.Second, time.Millisecond)

	p.Stop()
	<-p.Done()
	calls := f.backend.Calls(backendtest.RouteChats)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, f.backend.Calls(backendtest.RouteChats))

	assert.Error(t, p.Reload())
}

func TestSelectPassesNavigationParams(t *testing.T) {
	f := newFixture(t)
	chatID := f.backend.Store.AddChat(f.userID, models.ChatSummary{
		OfertaID: 12, TituloOferta: "Backend Go", NombreContraparte: "Eva Ruiz",
	})

	p := f.poller(t, time.Hour, nil)
	p.Start(context.Background())
	require.Eventually(t, func() bool { return len(p.Snapshot().Chats) == 1 }, time.Second, time.Millisecond)

	params, err := p.Select(chatID)
	require.NoError(t, err)
	assert.Equal(t, chatID, params.ChatID)
	assert.Equal(t, int64(12), params.OfertaID)
	assert.Equal(t, "Eva Ruiz", params.Counterpart)
	assert.Equal(t, "Backend Go", params.OfferTitle)

	_, err = p.Select(chatID + 1000)
	assert.ErrorIs(t, err, ErrUnknownChat)
}

func TestPollerWithoutLogger(t *testing.T) {
	f := newFixture(t)
	f.backend.Fail(backendtest.RouteChats, http.StatusInternalServerError, "")

	p := NewPoller(f.client, time.Hour, nil, nil)
	t.Cleanup(p.Stop)
	p.Start(context.Background())

	require.Eventually(t, func() bool { return p.Snapshot().Status == poll.StatusError }, time.Second, time.Millisecond)
}
