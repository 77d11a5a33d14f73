package backendtest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

func SetupRoutes(router *mux.Router, b *Backend) {
	router.Use(LoggingMiddleware(b), FaultMiddleware(b))

	apiRouter := router.PathPrefix("/api").Subrouter()

	apiRouter.HandleFunc("/auth/register", HandleRegister(b)).Methods("POST").Name(RouteRegister)
	apiRouter.HandleFunc("/auth/verify", HandleVerify(b)).Methods("POST").Name(RouteVerify)
	apiRouter.HandleFunc("/auth/login", HandleLogin(b)).Methods("POST").Name(RouteLogin)

	protected := apiRouter.NewRoute().Subrouter()
	protected.Use(AuthMiddleware(b))

	protected.HandleFunc("/chats", HandleChats(b)).Methods("GET").Name(RouteChats)
	protected.HandleFunc("/chats/mensajes", HandleSendMessage(b)).Methods("POST").Name(RouteSend)
	protected.HandleFunc("/chats/{chatId:[0-9]+}/mensajes", HandleMessages(b)).Methods("GET").Name(RouteMessages)
	protected.HandleFunc("/postulaciones", HandleApplications(b)).Methods("GET").Name(RouteApplications)
	protected.HandleFunc("/matches/{likeId:[0-9]+}", HandleCreateMatch(b)).Methods("POST").Name(RouteMatch)
	protected.HandleFunc("/likes/{likeId:[0-9]+}", HandleReject(b)).Methods("DELETE").Name(RouteReject)
	protected.HandleFunc("/likes/oferta/{ofertaId:[0-9]+}", HandleLikes(b)).Methods("GET").Name(RouteLikes)
	protected.HandleFunc("/perfil", HandlePerfil(b)).Methods("GET").Name(RoutePerfil)
	protected.HandleFunc("/perfil/publico", HandlePerfilPublico(b)).Methods("GET").Name(RoutePerfilPublico)
	protected.HandleFunc("/ofertas", HandleOfertas(b)).Methods("GET").Name(RouteOfertas)
	protected.HandleFunc("/ofertas/{ofertaId:[0-9]+}", HandleOferta(b)).Methods("GET").Name(RouteOferta)
	protected.HandleFunc("/ofertas/{ofertaId:[0-9]+}/guardar", HandleToggleGuardar(b)).Methods("POST").Name(RouteGuardar)
	protected.HandleFunc("/estadisticas", HandleStatistics(b)).Methods("GET").Name(RouteStats)

	router.HandleFunc("/health", healthCheck).Methods("GET")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
