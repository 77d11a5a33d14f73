package chatlist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jobmatch/internal/models"
	"github.com/jobmatch/internal/poll"
	"github.com/jobmatch/internal/transcript"
	"github.com/rs/zerolog"
)

var ErrUnknownChat = errors.New("chat is not in the current list")

type API interface {
	ObtenerChats(ctx context.Context) ([]models.ChatSummary, error)
}

type Snapshot struct {
	Status poll.Status
	Err    error
	Chats  []models.ChatSummary
}

// Poller keeps the conversation list fresh. Every tick replaces the list
// wholesale; nothing is merged, so client-only marks such as a locally
// cleared unread count are lost on the next tick.
type Poller struct {
	api      API
	logger   *zerolog.Logger
	onChange func(Snapshot)
	task     *poll.Task[[]models.ChatSummary]

	mu     sync.Mutex
	status poll.Status
	err    error
	chats  []models.ChatSummary
}

// NewPoller builds a poller. onChange, when set, is called after every
// applied tick, outside the poller's lock.
func NewPoller(api API, interval time.Duration, onChange func(Snapshot), logger *zerolog.Logger) *Poller {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	p := &Poller{api: api, logger: logger, onChange: onChange}
	p.task = poll.NewTask(interval, poll.Hooks[[]models.ChatSummary]{
		Fetch: api.ObtenerChats,
		Begin: p.begin,
		Apply: p.apply,
	})
	return p
}

func (p *Poller) Start(ctx context.Context) {
	p.task.Start(ctx)
}

func (p *Poller) Stop() {
	p.task.Stop()
}

func (p *Poller) Done() <-chan struct{} {
	return p.task.Done()
}

// Reload is the manual retry behind the error banner's button.
func (p *Poller) Reload() error {
	_, err := p.task.RunNow()
	return err
}

func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Poller) snapshotLocked() Snapshot {
	return Snapshot{
		Status: p.status,
		Err:    p.err,
		Chats:  append([]models.ChatSummary(nil), p.chats...),
	}
}

func (p *Poller) begin() {
	p.mu.Lock()
	p.status = poll.Next(p.status, poll.EventFetch)
	p.mu.Unlock()
}

func (p *Poller) apply(chats []models.ChatSummary, err error) {
	p.mu.Lock()
	if err != nil {
		p.status = poll.Next(p.status, poll.EventFailure)
		p.err = err
	} else {
		p.status = poll.Next(p.status, poll.EventSuccess)
		p.err = nil
		p.chats = chats
	}
	snap := p.snapshotLocked()
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn().Err(err).Msg("Failed to refresh chat list")
	}
	if p.onChange != nil {
		p.onChange(snap)
	}
}

// Select returns the navigation parameters for opening chatID's transcript.
func (p *Poller) Select(chatID int64) (transcript.Params, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, chat := range p.chats {
		if chat.ID == chatID {
			return ParamsFor(chat), nil
		}
	}
	return transcript.Params{}, ErrUnknownChat
}

func ParamsFor(chat models.ChatSummary) transcript.Params {
	return transcript.Params{
		ChatID:      chat.ID,
		OfertaID:    chat.OfertaID,
		Counterpart: chat.NombreContraparte,
		OfferTitle:  chat.TituloOferta,
	}
}
