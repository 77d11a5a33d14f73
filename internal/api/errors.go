package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindServer
	KindNoResponse
	KindConnection
	KindHTTP
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindServer:
		return "server"
	case KindNoResponse:
		return "no_response"
	case KindConnection:
		return "connection"
	case KindHTTP:
		return "http"
	}
	return "unknown"
}

const (
	msgValidation   = "validation error"
	msgUnauthorized = "unauthorized"
	msgServer       = "internal server error"
	msgNoResponse   = "no response from server"
	msgConnection   = "connection error"
	msgBadResponse  = "invalid response from server"
)

// Error is the single failure shape every endpoint returns. Message is meant
// to be shown to the user as is.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// IsUnauthorized reports whether err came from a 401. The client never
// redirects by itself; callers send the user back to login.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Mensaje string `json:"mensaje"`
}

func backendMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	for _, m := range []string{eb.Message, eb.Mensaje, eb.Error} {
		if m = strings.TrimSpace(m); m != "" {
			return m
		}
	}
	return ""
}

func normalize(status int, body []byte) *Error {
	switch status {
	case http.StatusBadRequest:
		msg := backendMessage(body)
		if msg == "" {
			msg = msgValidation
		}
		return &Error{Kind: KindValidation, Status: status, Message: msg}
	case http.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized, Status: status, Message: msgUnauthorized}
	case http.StatusInternalServerError:
		return &Error{Kind: KindServer, Status: status, Message: msgServer}
	}
	msg := backendMessage(body)
	if msg == "" {
		msg = strings.ToLower(http.StatusText(status))
	}
	if msg == "" {
		msg = msgServer
	}
	return &Error{Kind: KindHTTP, Status: status, Message: msg}
}

func noResponse(err error) *Error {
	return &Error{Kind: KindNoResponse, Message: msgNoResponse, Err: err}
}

func connectionError(err error) *Error {
	return &Error{Kind: KindConnection, Message: msgConnection, Err: err}
}
