package transcript

import (
	"context"
	"net/http"
	"strings"
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

type recordingView struct {
	mu      sync.Mutex
	renders int
	scrolls int
	alerts  []string
}

func (v *recordingView) Render(Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renders++
}

func (v *recordingView) ScrollToEnd() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolls++
}

func (v *recordingView) Alert(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, message)
}

func (v *recordingView) counts() (renders, scrolls int, alerts []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renders, v.scrolls, append([]string(nil), v.alerts...)
}

type fixture struct {
	backend *backendtest.Backend
	client  *api.Client
	userID  int64
	view    *recordingView
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := backendtest.New(nil)
	server := backend.Start()
	t.Cleanup(server.Close)

	userID := backend.Store.AddUser("ana@example.com", "password123", "Ana", "Pérez")
	client := api.New(api.Options{
		BaseURL: server.URL + backendtest.APIPrefix,
		Tokens:  backendtest.StaticToken(backend.Token(userID)),
	})
	return &fixture{backend: backend, client: client, userID: userID, view: &recordingView{}}
}

func (f *fixture) controller(t *testing.T, ofertaID int64, opts Options) *Controller {
	t.Helper()
	if opts.Interval == 0 {
		opts.Interval = time.Hour
	}
	nop := zerolog.Nop()
	c := NewController(f.client, f.view, Params{OfertaID: ofertaID}, opts, &nop)
	t.Cleanup(c.Stop)
	return c
}

func waitLoaded(t *testing.T, c *Controller) Snapshot {
	t.Helper()
	require.Eventually(t, func() bool { return c.Snapshot().Loaded }, 2*time.Second, 5*time.Millisecond)
	return c.Snapshot()
}

func ids(msgs []models.Message) []int64 {
	out := make([]int64, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}

func TestChronologicalReverses(t *testing.T) {
	in := []models.Message{{ID: 3}, {ID: 2}, {ID: 1}}
	assert.Equal(t, []int64{1, 2, 3}, ids(Chronological(in)))
	assert.Empty(t, Chronological(nil))
}

func TestChronologicalDoesNotResort(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []models.Message{{ID: 9, FechaEnvio: t0}, {ID: 4, FechaEnvio: t0.Add(time.Hour)}}
	assert.Equal(t, []int64{4, 9}, ids(Chronological(in)))
}

func TestFindByOferta(t *testing.T) {
	chats := []models.ChatSummary{{ID: 1, OfertaID: 10}, {ID: 2, OfertaID: 20}}
	id, ok := FindByOferta(chats, 20)
	assert.True(t, ok)
	assert.Equal(t, int64(2), id)

	_, ok = FindByOferta(chats, 30)
	assert.False(t, ok)
}

func TestLoadRendersOldestFirst(t *testing.T) {
	f := newFixture(t)
	chatID := f.backend.Store.AddChat(f.userID, models.ChatSummary{OfertaID: 7, TituloOferta: "Go dev"})
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	m1 := f.backend.Store.AddMessage(chatID, 555, "hola", base)
	m2 := f.backend.Store.AddMessage(chatID, f.userID, "buenas", base.Add(time.Minute))
	m3 := f.backend.Store.AddMessage(chatID, 555, "qué tal", base.Add(2*time.Minute))

	c := f.controller(t, 7, Options{})
	c.Start(context.Background())
	snap := waitLoaded(t, c)

	assert.Equal(t, poll.StatusReady, snap.Status)
	assert.Equal(t, chatID, snap.ChatID)
	assert.Equal(t, []int64{m1.ID, m2.ID, m3.ID}, ids(snap.Messages))
	assert.False(t, snap.IsMine(snap.Messages[0]))
	assert.True(t, c.IsMine(snap.Messages[1]))
	assert.True(t, snap.ComposerEnabled())

	_, scrolls, _ := f.view.counts()
	assert.GreaterOrEqual(t, scrolls, 1)
}

func TestMissingChatIsEmptyConversation(t *testing.T) {
	f := newFixture(t)
	f.backend.Store.AddChat(f.userID, models.ChatSummary{OfertaID: 99})

	c := f.controller(t, 7, Options{})
	c.Start(context.Background())
	snap := waitLoaded(t, c)

	assert.Zero(t, snap.ChatID)
	assert.Empty(t, snap.Messages)
	assert.Zero(t, f.backend.Calls(backendtest.RouteMessages))
}

func TestSendAppendsAndAdoptsChatID(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, 7, Options{})
	c.Start(context.Background())
	waitLoaded(t, c)

	msg, err := c.Send(context.Background(), "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Contenido)
	assert.Equal(t, f.userID, msg.RemitenteID)

	snap := c.Snapshot()
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, msg.ID, snap.Messages[0].ID)
	assert.Equal(t, msg.ChatID, snap.ChatID)
	assert.NotZero(t, snap.ChatID)
	assert.False(t, snap.Sending)
}

func TestSendKeepsPreviousOrder(t *testing.T) {
	f := newFixture(t)
	chatID := f.backend.Store.AddChat(f.userID, models.ChatSummary{OfertaID: 7})
	base := time.Now().Add(-time.Hour).UTC()
	m1 := f.backend.Store.AddMessage(chatID, 555, "uno", base)
	m2 := f.backend.Store.AddMessage(chatID, 555, "dos", base.Add(time.Minute))

	c := f.controller(t, 7, Options{})
	c.Start(context.Background())
	waitLoaded(t, c)

	msg, err := c.Send(context.Background(), "tres")
	require.NoError(t, err)

	snap := c.Snapshot()
	assert.Equal(t, []int64{m1.ID, m2.ID, msg.ID}, ids(snap.Messages))
	assert.Equal(t, chatID, snap.ChatID)

	require.NoError(t, c.Reload())
	assert.Equal(t, []int64{m1.ID, m2.ID, msg.ID}, ids(c.Snapshot().Messages))
}

func TestSendValidationMakesNoCall(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, 7, Options{})
	c.Start(context.Background())
	waitLoaded(t, c)

	_, err := c.Send(context.Background(), "   \n\t ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = c.Send(context.Background(), strings.Repeat("a", MaxMessageLength+1))
	assert.ErrorIs(t, err, ErrMessageTooLong)

	assert.Zero(t, f.backend.Calls(backendtest.RouteSend))
	_, _, alerts := f.view.counts()
	assert.Equal(t, []string{ErrEmptyMessage.Error(), ErrMessageTooLong.Error()}, alerts)

	_, err = c.Send(context.Background(), strings.Repeat("ñ", MaxMessageLength))
	require.NoError(t, err)
	assert.Equal(t, 1, f.backend.Calls(backendtest.RouteSend))
}

func TestSendFailureLeavesTranscript(t *testing.T) {
	f := newFixture(t)
	chatID := f.backend.Store.AddChat(f.userID, models.ChatSummary{OfertaID: 7})
	m1 := f.backend.Store.AddMessage(chatID, 555, "uno", time.Now().UTC())
	f.backend.Fail(backendtest.RouteSend, http.StatusInternalServerError, "")

	c := f.controller(t, 7, Options{})
	c.Start(context.Background())
	waitLoaded(t, c)

	_, err := c.Send(context.Background(), "hola")
	require.Error(t, err)
	assert.Equal(t, api.KindServer, api.KindOf(err))

	snap := c.Snapshot()
	assert.Equal(t, []int64{m1.ID}, ids(snap.Messages))
	assert.False(t, snap.Sending)
	_, _, alerts := f.view.counts()
	assert.Equal(t, []string{"internal server error"}, alerts)
}

func TestSendIsSerialized(t *testing.T) {
	f := newFixture(t)
	f.backend.Delay(backendtest.RouteSend, 300*time.Millisecond)

	c := f.controller(t, 7, Options{})
	c.Start(context.Background())
	waitLoaded(t, c)

	done := make(chan error, 1)
	go func() {
		_, err := c.Send(context.Background(), "primero")
		done <- err
	}()
	require.Eventually(t, func() bool { return c.Snapshot().Sending }, time.Second, time.Millisecond)
	assert.False(t, c.Snapshot().ComposerEnabled())

	_, err := c.Send(context.Background(), "segundo")
	assert.ErrorIs(t, err, ErrSendInProgress)

	require.NoError(t, <-done)
	assert.Len(t, c.Snapshot().Messages, 1)
	assert.Equal(t, 1, f.backend.Calls(backendtest.RouteSend))
}

func TestSendBeforeLoad(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, 7, Options{})

	_, err := c.Send(context.Background(), "hola")
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Zero(t, f.backend.Calls(backendtest.RouteSend))
}

func TestStopHaltsPolling(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t, 7, Options{Interval: 15 * time.Millisecond})
	c.Start(context.Background())
	require.Eventually(t, func() bool { return f.backend.Calls(backendtest.RoutePerfil) >= 2 }, 2*time.Second, time.Millisecond)

	c.Stop()
	<-c.Done()
	calls := f.backend.Calls(backendtest.RoutePerfil)
	renders, _, _ := f.view.counts()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, calls, f.backend.Calls(backendtest.RoutePerfil))
	after, _, _ := f.view.counts()
	assert.Equal(t, renders, after)
}

func TestResponseAfterStopIsDropped(t *testing.T) {
	f := newFixture(t)
	f.backend.Delay(backendtest.RoutePerfil, 150*time.Millisecond)

	c := f.controller(t, 7, Options{})
	c.Start(context.Background())
	require.Eventually(t, func() bool { return f.backend.Calls(backendtest.RoutePerfil) == 1 }, time.Second, time.Millisecond)
	c.Stop()
	<-c.Done()

	snap := c.Snapshot()
	assert.False(t, snap.Loaded)
	renders, _, _ := f.view.counts()
	assert.Zero(t, renders)
}

func TestPollingRecoversFromError(t *testing.T) {
	f := newFixture(t)
	f.backend.Fail(backendtest.RouteChats, http.StatusInternalServerError, "")

	c := f.controller(t, 7, Options{Interval: 20 * time.Millisecond})
	c.Start(context.Background())
	require.Eventually(t, func() bool { return c.Snapshot().Status == poll.StatusError }, time.Second, time.Millisecond)
	assert.Equal(t, api.KindServer, api.KindOf(c.Snapshot().Err))

	f.backend.Clear(backendtest.RouteChats)
	require.Eventually(t, func() bool { return c.Snapshot().Status == poll.StatusReady }, time.Second, time.Millisecond)
	assert.NoError(t, c.Snapshot().Err)
}

func TestPollingRefetchesEverythingByDefault(t *testing.T) {
	f := newFixture(t)
	f.backend.Store.AddChat(f.userID, models.ChatSummary{OfertaID: 7})

	c := f.controller(t, 7, Options{Interval: 15 * time.Millisecond})
	c.Start(context.Background())
	require.Eventually(t, func() bool { return f.backend.Calls(backendtest.RouteMessages) >= 3 }, 2*time.Second, time.Millisecond)

	assert.GreaterOrEqual(t, f.backend.Calls(backendtest.RoutePerfil), 3)
	assert.GreaterOrEqual(t, f.backend.Calls(backendtest.RouteChats), 3)
}

func TestCacheIdentityResolvesOnce(t *testing.T) {
	f := newFixture(t)
	f.backend.Store.AddChat(f.userID, models.ChatSummary{OfertaID: 7})

	c := f.controller(t, 7, Options{Interval: 15 * time.Millisecond, CacheIdentity: true})
	c.Start(context.Background())
	require.Eventually(t, func() bool { return f.backend.Calls(backendtest.RouteMessages) >= 3 }, 2*time.Second, time.Millisecond)

	assert.Equal(t, 1, f.backend.Calls(backendtest.RoutePerfil))
	assert.Equal(t, 1, f.backend.Calls(backendtest.RouteChats))
}

func TestControllerWithoutLogger(t *testing.T) {
	f := newFixture(t)
	f.backend.Fail(backendtest.RouteSend, http.StatusInternalServerError, "")

	c := NewController(f.client, f.view, Params{OfertaID: 7}, Options{Interval: time.Hour}, nil)
	t.Cleanup(c.Stop)
	c.Start(context.Background())
	waitLoaded(t, c)

	_, err := c.Send(context.Background(), "hola")
	assert.Equal(t, api.KindServer, api.KindOf(err))

	f.backend.Fail(backendtest.RoutePerfil, http.StatusInternalServerError, "")
	assert.Error(t, c.Reload())
	assert.Equal(t, poll.StatusError, c.Snapshot().Status)
}

func TestSendResolvingAfterStopLeavesState(t *testing.T) {
	f := newFixture(t)
	f.backend.Delay(backendtest.RouteSend, 150*time.Millisecond)

	c := f.controller(t, 7, Options{})
	c.Start(context.Background())
	waitLoaded(t, c)

	sent := make(chan error, 1)
	go func() {
		_, err := c.Send(context.Background(), "hola")
		sent <- err
	}()
	require.Eventually(t, func() bool { return f.backend.Calls(backendtest.RouteSend) == 1 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return c.Snapshot().Sending }, time.Second, time.Millisecond)

	c.Stop()
	before := c.Snapshot()
	renders, scrolls, _ := f.view.counts()
	require.NoError(t, <-sent)

	after := c.Snapshot()
	assert.Equal(t, before, after)
	assert.True(t, after.Sending)
	assert.Empty(t, after.Messages)
	r, s, _ := f.view.counts()
	assert.Equal(t, renders, r)
	assert.Equal(t, scrolls, s)
}
