package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jobmatch/internal/api"
	"github.com/jobmatch/internal/chatlist"
	"github.com/jobmatch/internal/models"
	"github.com/jobmatch/internal/swipe"
	"github.com/jobmatch/internal/transcript"
	"golang.org/x/time/rate"
)

const sendSpacing = 500 * time.Millisecond

func parseID(args []string, what string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("missing %s", what)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, args[0])
	}
	return id, nil
}

func (a *app) chatsScreen(ctx context.Context) error {
	input := lines(ctx, a.in)
	for {
		view := &chatListView{term: a.term}
		unauthorized := make(chan struct{}, 1)
		poller := chatlist.NewPoller(a.client, a.cfg.PollInterval, func(s chatlist.Snapshot) {
			if api.IsUnauthorized(s.Err) {
				notifyOnce(unauthorized)
			}
			view.render(s)
		}, a.logger)
		poller.Start(ctx)
		a.term.printf("Type a chat number to open it, r to reload, q to quit.\n")

		params, open, err := a.chatsLoop(ctx, poller, input, unauthorized)
		poller.Stop()
		if err != nil || !open {
			return err
		}
		if err := a.runTranscript(ctx, params, input); err != nil {
			return err
		}
	}
}

func (a *app) chatsLoop(ctx context.Context, poller *chatlist.Poller, input *lineInput, unauthorized <-chan struct{}) (transcript.Params, bool, error) {
	for {
		select {
		case <-ctx.Done():
			return transcript.Params{}, false, nil
		case <-unauthorized:
			return transcript.Params{}, false, a.guardErr(&api.Error{Kind: api.KindUnauthorized})
		case line, ok := <-input.C:
			if !ok {
				return transcript.Params{}, false, input.Err()
			}
			line = strings.TrimPrefix(strings.TrimSpace(line), "#")
			switch line {
			case "":
				continue
			case "q":
				return transcript.Params{}, false, nil
			case "r":
				poller.Reload()
				continue
			}
			id, err := strconv.ParseInt(line, 10, 64)
			if err != nil {
				a.term.Alert("type a chat number, r or q")
				continue
			}
			params, err := poller.Select(id)
			if err != nil {
				a.term.Alert(err.Error())
				continue
			}
			return params, true, nil
		}
	}
}

func (a *app) chatScreen(ctx context.Context, args []string) error {
	ofertaID, err := parseID(args, "offer id")
	if err != nil {
		return err
	}
	return a.runTranscript(ctx, transcript.Params{OfertaID: ofertaID}, lines(ctx, a.in))
}

func (a *app) runTranscript(ctx context.Context, params transcript.Params, input *lineInput) error {
	view := newTranscriptView(a.term)
	ctrl := transcript.NewController(a.client, view, params, transcript.Options{
		Interval:      a.cfg.PollInterval,
		CacheIdentity: a.cfg.CacheIdentity,
		SendLimiter:   rate.NewLimiter(rate.Every(sendSpacing), 1),
	}, a.logger)

	title := params.OfferTitle
	if title == "" {
		title = fmt.Sprintf("offer %d", params.OfertaID)
	}
	a.term.printf("── %s ── type to send, /r to reload, /q to leave\n", title)

	ctrl.Start(ctx)
	defer ctrl.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-view.unauthorized:
			return a.guardErr(&api.Error{Kind: api.KindUnauthorized})
		case line, ok := <-input.C:
			if !ok {
				return input.Err()
			}
			switch strings.TrimSpace(line) {
			case "/q":
				return nil
			case "/r":
				ctrl.Reload()
				continue
			}
			_, err := ctrl.Send(ctx, line)
			switch {
			case err == nil:
			case api.IsUnauthorized(err):
				return a.guardErr(err)
			case errors.Is(err, transcript.ErrNotReady),
				errors.Is(err, transcript.ErrSendInProgress),
				errors.Is(err, transcript.ErrThrottled):
				a.term.Alert(err.Error())
			}
		}
	}
}

func (a *app) applicantsScreen(ctx context.Context, args []string) error {
	ofertaID, err := parseID(args, "offer id")
	if err != nil {
		return err
	}
	deck, err := swipe.Open(ctx, a.client, ofertaID, a.term, a.logger)
	if err != nil {
		return a.guardErr(err)
	}
	defer deck.Wait()

	a.term.printf("%d candidates. r contact, l discard, u favorite, q quit.\n", deck.Len())
	input := lines(ctx, a.in)
	for {
		candidate, ok := deck.Current()
		if !ok {
			a.term.printf("All candidates reviewed.\n")
			return nil
		}
		a.printCandidate(deck.Cursor(), deck.Len(), candidate)

		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, open := <-input.C:
			if !open {
				return input.Err()
			}
			line = l
		}
		if strings.TrimSpace(line) == "q" {
			return nil
		}
		dir, err := swipe.ParseDirection(line)
		if err != nil {
			a.term.Alert("use r, l, u or q")
			continue
		}
		if _, err := deck.Swipe(ctx, dir); err != nil {
			a.term.Alert(err.Error())
		}
	}
}

func (a *app) printCandidate(index, total int, c models.Candidate) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n[%d/%d] %s", index+1, total, c.FullName())
	if c.TipoLike == models.TipoSuperlike {
		b.WriteString(" ★")
	}
	b.WriteString("\n")
	if c.Titular != "" {
		fmt.Fprintf(&b, "  %s\n", c.Titular)
	}
	if len(c.Habilidades) > 0 {
		fmt.Fprintf(&b, "  skills: %s\n", strings.Join(c.Habilidades, ", "))
	}
	if c.Descripcion != "" {
		fmt.Fprintf(&b, "  %s\n", c.Descripcion)
	}
	if c.FotoURL != "" {
		fmt.Fprintf(&b, "  photo: %s\n", c.FotoURL)
	}
	fmt.Fprintf(&b, "  liked %s\n", c.FechaLike.Local().Format("02 Jan 2006"))
	a.term.printf("%s", b.String())
}
