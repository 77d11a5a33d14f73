package transcript

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jobmatch/internal/models"
	"github.com/jobmatch/internal/poll"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const MaxMessageLength = 1000

var (
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMessageTooLong = errors.New("message cannot exceed 1000 characters")
	ErrSendInProgress = errors.New("a message is already being sent")
	ErrThrottled      = errors.New("sending too fast")
	ErrNotReady       = errors.New("conversation is still loading")
)

type API interface {
	GetPerfil(ctx context.Context) (*models.Profile, error)
	ObtenerChats(ctx context.Context) ([]models.ChatSummary, error)
	ObtenerMensajes(ctx context.Context, chatID int64) (*models.MessagesPage, error)
	EnviarMensaje(ctx context.Context, req models.SendMessageRequest) (*models.Message, error)
}

// View is the screen the controller drives. Calls never happen with the
// controller's lock held.
type View interface {
	Render(Snapshot)
	ScrollToEnd()
	Alert(message string)
}

// Params are the navigation parameters handed over by the chat list. They
// are displayed as given and not refetched.
type Params struct {
	ChatID      int64
	OfertaID    int64
	Counterpart string
	OfferTitle  string
}

type Options struct {
	Interval time.Duration
	// CacheIdentity resolves the caller's profile id and the chat id once
	// instead of on every tick.
	CacheIdentity bool
	// SendLimiter throttles sends on top of the one-in-flight rule. Optional.
	SendLimiter *rate.Limiter
}

type Snapshot struct {
	Params   Params
	Status   poll.Status
	Err      error
	UserID   int64
	ChatID   int64
	Messages []models.Message
	Loaded   bool
	Sending  bool
}

// IsMine reports whether msg was sent by the local user.
func (s Snapshot) IsMine(msg models.Message) bool {
	return s.Loaded && msg.RemitenteID == s.UserID
}

// ComposerEnabled is false until the first load finished and while a send
// is in flight.
func (s Snapshot) ComposerEnabled() bool {
	return s.Loaded && !s.Sending
}

type loadResult struct {
	userID   int64
	chatID   int64
	found    bool
	messages []models.Message
	rev      uint64
}

type Controller struct {
	api    API
	view   View
	logger *zerolog.Logger
	opts   Options
	task   *poll.Task[loadResult]

	mu       sync.Mutex
	params   Params
	status   poll.Status
	err      error
	userID   int64
	loaded   bool
	chatID   int64
	resolved bool
	messages []models.Message
	sending  bool
	closed   bool
	// rev counts local appends. A poll that started before an append would
	// drop the appended message, so its messages are discarded.
	rev uint64
}

func NewController(api API, view View, params Params, opts Options, logger *zerolog.Logger) *Controller {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	c := &Controller{
		api:    api,
		view:   view,
		logger: logger,
		opts:   opts,
		params: params,
	}
	c.task = poll.NewTask(opts.Interval, poll.Hooks[loadResult]{
		Fetch: c.load,
		Begin: c.begin,
		Apply: c.apply,
	})
	return c
}

// Start runs the load sequence now and on every tick until Stop or ctx ends.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.closed = false
	c.mu.Unlock()
	c.task.Start(ctx)
}

// Stop ends polling. Responses arriving afterwards, including a send in
// flight, leave the state untouched.
func (c *Controller) Stop() {
	c.task.Stop()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Done is closed when the polling goroutine has exited.
func (c *Controller) Done() <-chan struct{} {
	return c.task.Done()
}

// Reload is the manual retry.
func (c *Controller) Reload() error {
	_, err := c.task.RunNow()
	return err
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Params:   c.params,
		Status:   c.status,
		Err:      c.err,
		UserID:   c.userID,
		ChatID:   c.chatID,
		Messages: append([]models.Message(nil), c.messages...),
		Loaded:   c.loaded,
		Sending:  c.sending,
	}
}

func (c *Controller) IsMine(msg models.Message) bool {
	return c.Snapshot().IsMine(msg)
}

func (c *Controller) begin() {
	c.mu.Lock()
	c.status = poll.Next(c.status, poll.EventFetch)
	c.mu.Unlock()
}

// load is the screen's initialization sequence: own profile, then the chat
// for the offer, then its messages in display order.
func (c *Controller) load(ctx context.Context) (loadResult, error) {
	c.mu.Lock()
	res := loadResult{rev: c.rev}
	cachedUser, cachedChat := c.loaded && c.opts.CacheIdentity, c.resolved && c.opts.CacheIdentity
	res.userID, res.chatID = c.userID, c.chatID
	ofertaID := c.params.OfertaID
	c.mu.Unlock()

	if !cachedUser {
		profile, err := c.api.GetPerfil(ctx)
		if err != nil {
			return res, err
		}
		res.userID = profile.ID
	}

	if cachedChat {
		res.found = true
	} else {
		chats, err := c.api.ObtenerChats(ctx)
		if err != nil {
			return res, err
		}
		res.chatID, res.found = FindByOferta(chats, ofertaID)
	}
	if !res.found {
		res.chatID = 0
		return res, nil
	}

	page, err := c.api.ObtenerMensajes(ctx, res.chatID)
	if err != nil {
		return res, err
	}
	res.messages = Chronological(page.Mensajes)
	return res, nil
}

func (c *Controller) apply(res loadResult, err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.status = poll.Next(c.status, poll.EventFailure)
		c.err = err
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.logger.Warn().Err(err).Int64("oferta_id", snap.Params.OfertaID).Msg("Failed to load conversation")
		c.view.Render(snap)
		return
	}

	c.status = poll.Next(c.status, poll.EventSuccess)
	c.err = nil
	c.userID = res.userID
	c.loaded = true
	if res.found {
		c.chatID = res.chatID
		c.resolved = true
	}
	if res.rev == c.rev {
		c.messages = res.messages
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.view.Render(snap)
	c.view.ScrollToEnd()
}

// Send validates text, posts it and appends the server's copy at the end of
// the transcript. Validation failures make no network call. Nothing is
// appended before the server confirms.
func (c *Controller) Send(ctx context.Context, text string) (*models.Message, error) {
	content := strings.TrimSpace(text)
	if content == "" {
		c.view.Alert(ErrEmptyMessage.Error())
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		c.view.Alert(ErrMessageTooLong.Error())
		return nil, ErrMessageTooLong
	}

	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return nil, ErrNotReady
	}
	if c.sending {
		c.mu.Unlock()
		return nil, ErrSendInProgress
	}
	if c.opts.SendLimiter != nil && !c.opts.SendLimiter.Allow() {
		c.mu.Unlock()
		return nil, ErrThrottled
	}
	c.sending = true
	ofertaID := c.params.OfertaID
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.view.Render(snap)

	msg, err := c.api.EnviarMensaje(ctx, models.SendMessageRequest{OfertaID: ofertaID, Contenido: content})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return msg, err
	}
	c.sending = false
	if err != nil {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.logger.Warn().Err(err).Int64("oferta_id", ofertaID).Msg("Failed to send message")
		c.view.Render(snap)
		c.view.Alert(err.Error())
		return nil, err
	}

	c.messages = append(c.messages, *msg)
	c.rev++
	if c.chatID == 0 && msg.ChatID != 0 {
		c.chatID = msg.ChatID
		c.resolved = true
	}
	snap = c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug().Int64("chat_id", msg.ChatID).Int64("message_id", msg.ID).Msg("Message sent")
	c.view.Render(snap)
	c.view.ScrollToEnd()
	return msg, nil
}

// FindByOferta returns the id of the first chat about ofertaID.
func FindByOferta(chats []models.ChatSummary, ofertaID int64) (int64, bool) {
	for _, chat := range chats {
		if chat.OfertaID == ofertaID {
			return chat.ID, true
		}
	}
	return 0, false
}

// Chronological turns the backend's newest-first page into display order by
// reversing it. It never re-sorts.
func Chronological(newestFirst []models.Message) []models.Message {
	out := make([]models.Message, len(newestFirst))
	for i, msg := range newestFirst {
		out[len(newestFirst)-1-i] = msg
	}
	return out
}
