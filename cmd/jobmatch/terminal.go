package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jobmatch/internal/api"
	"github.com/jobmatch/internal/chatlist"
	"github.com/jobmatch/internal/models"
	"github.com/jobmatch/internal/poll"
	"github.com/jobmatch/internal/session"
	"github.com/jobmatch/internal/transcript"
)

// terminal serializes writes coming from pollers and from the input loop.
type terminal struct {
	mu  sync.Mutex
	out io.Writer
}

func newTerminal(out io.Writer) *terminal {
	return &terminal{out: out}
}

func (t *terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *terminal) Replace(route string) {
	if route == session.RouteLogin {
		t.printf("You are not logged in. Run: jobmatch login --email <email> --password <password>\n")
		return
	}
	t.printf("-> %s\n", route)
}

func (t *terminal) Notify(message string) {
	t.printf("» %s\n", message)
}

func (t *terminal) Alert(message string) {
	t.printf("! %s\n", message)
}

// chatListView prints the list only when it changed since the last tick.
type chatListView struct {
	term *terminal
	mu   sync.Mutex
	last string
}

func (v *chatListView) render(snap chatlist.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	var b strings.Builder
	switch {
	case snap.Status == poll.StatusError:
		fmt.Fprintf(&b, "! could not load chats: %v (r to retry)\n", snap.Err)
	case len(snap.Chats) == 0:
		b.WriteString("No conversations yet.\n")
	default:
		b.WriteString("Conversations:\n")
		for _, c := range snap.Chats {
			unread := ""
			if c.NoLeidos > 0 {
				unread = fmt.Sprintf(" (%d new)", c.NoLeidos)
			}
			fmt.Fprintf(&b, "  #%d %s · %s%s\n", c.ID, c.NombreContraparte, c.TituloOferta, unread)
			if c.UltimoMensaje != "" {
				fmt.Fprintf(&b, "      %s  %s\n", c.UltimaActividad.Local().Format("02 Jan 15:04"), c.UltimoMensaje)
			}
		}
	}
	text := b.String()
	if text == v.last {
		return
	}
	v.last = text
	v.term.printf("%s", text)
}

// transcriptView prints each message once, in display order.
type transcriptView struct {
	term         *terminal
	unauthorized chan struct{}

	mu      sync.Mutex
	printed map[int64]bool
	lastErr string
}

func newTranscriptView(term *terminal) *transcriptView {
	return &transcriptView{
		term:         term,
		unauthorized: make(chan struct{}, 1),
		printed:      make(map[int64]bool),
	}
}

func (v *transcriptView) Render(snap transcript.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if api.IsUnauthorized(snap.Err) {
		notifyOnce(v.unauthorized)
	}
	if snap.Err != nil {
		if msg := snap.Err.Error(); msg != v.lastErr {
			v.lastErr = msg
			v.term.printf("! could not load conversation: %s (/r to retry)\n", msg)
		}
		return
	}
	v.lastErr = ""

	for _, msg := range snap.Messages {
		if v.printed[msg.ID] {
			continue
		}
		v.printed[msg.ID] = true
		v.term.printf("[%s] %s: %s\n", msg.FechaEnvio.Local().Format("15:04"), author(snap, msg), msg.Contenido)
	}
}

// ScrollToEnd is implicit on a terminal: new lines always land at the bottom.
func (v *transcriptView) ScrollToEnd() {}

func (v *transcriptView) Alert(message string) {
	v.term.Alert(message)
}

func author(snap transcript.Snapshot, msg models.Message) string {
	if snap.IsMine(msg) {
		return "you"
	}
	if snap.Params.Counterpart != "" {
		return snap.Params.Counterpart
	}
	return "them"
}

func notifyOnce(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// lineInput is stdin split into lines. Lines have no length limit, so an
// oversized message still reaches the composer's own validation.
type lineInput struct {
	C <-chan string

	mu  sync.Mutex
	err error
}

// Err is the read failure that closed C, or nil on end of input.
func (in *lineInput) Err() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.err
}

// lines feeds stdin lines to a channel until ctx ends or input closes.
func lines(ctx context.Context, r io.Reader) *lineInput {
	ch := make(chan string)
	in := &lineInput{C: ch}
	go func() {
		defer close(ch)
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadString('\n')
			if line != "" {
				select {
				case ch <- strings.TrimRight(line, "\r\n"):
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					in.mu.Lock()
					in.err = fmt.Errorf("read input: %w", err)
					in.mu.Unlock()
				}
				return
			}
		}
	}()
	return in
}
