// Package backendtest is an in-memory stand-in for the job-matching backend.
// It serves the same HTTP contract the api package consumes and lets tests
// script failures per route.
package backendtest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/jobmatch/pkg/jwt"
	"github.com/rs/zerolog"
)

const (
	RouteRegister      = "register"
	RouteVerify        = "verify"
	RouteLogin         = "login"
	RouteChats         = "chats"
	RouteMessages      = "messages"
	RouteSend          = "send"
	RouteApplications  = "applications"
	RouteMatch         = "match"
	RouteReject        = "reject"
	RouteLikes         = "likes"
	RoutePerfil        = "perfil"
	RoutePerfilPublico = "perfil_publico"
	RouteOfertas       = "ofertas"
	RouteOferta        = "oferta"
	RouteGuardar       = "guardar"
	RouteStats         = "estadisticas"
)

type fault struct {
	status  int
	message string
	delay   time.Duration
	// match limits the fault to requests whose URI contains it.
	match string
}

type Backend struct {
	Store  *Store
	JWT    jwt.Service
	Logger *zerolog.Logger

	router *mux.Router

	mu     sync.Mutex
	faults map[string]fault
	calls  map[string]int
}

func New(logger *zerolog.Logger) *Backend {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	b := &Backend{
		Store:  NewStore(),
		JWT:    jwt.NewJWTService("backendtest-secret", time.Hour),
		Logger: logger,
		faults: make(map[string]fault),
		calls:  make(map[string]int),
	}
	b.router = mux.NewRouter()
	SetupRoutes(b.router, b)
	return b
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// Start serves the backend on a local listener. The API base URL is the
// server URL plus "/api".
func (b *Backend) Start() *httptest.Server {
	return httptest.NewServer(b)
}

// Token issues a bearer token for userID.
func (b *Backend) Token(userID int64) string {
	token, err := b.JWT.GenerateToken(userID)
	if err != nil {
		panic(err)
	}
	return token
}

// Fail makes every request to route answer with status and message.
func (b *Backend) Fail(route string, status int, message string) {
	b.setFault(route, fault{status: status, message: message})
}

// FailPath is Fail restricted to requests whose path and query contain match.
func (b *Backend) FailPath(route, match string, status int, message string) {
	b.setFault(route, fault{status: status, message: message, match: match})
}

// Delay holds every request to route for d before handling it.
func (b *Backend) Delay(route string, d time.Duration) {
	b.setFault(route, fault{delay: d})
}

func (b *Backend) Clear(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.faults, route)
}

func (b *Backend) setFault(route string, f fault) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults[route] = f
}

// Calls counts requests that reached route, faults included.
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

func (b *Backend) record(route string) (fault, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[route]++
	f, ok := b.faults[route]
	return f, ok
}

// APIPrefix is where the routes are mounted.
const APIPrefix = "/api"

// StaticToken hands out a fixed bearer token.
type StaticToken string

func (s StaticToken) Token() (string, error) {
	return string(s), nil
}
