package backendtest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jobmatch/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id, err == nil
}

func HandleRegister(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" || req.Nombre == "" {
			writeError(w, http.StatusBadRequest, "nombre, email and password are required")
			return
		}
		if len(req.Password) < 8 {
			writeError(w, http.StatusBadRequest, "password must have at least 8 characters")
			return
		}
		if _, ok := b.Store.register(req); !ok {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		writeJSON(w, http.StatusCreated, models.AuthResponse{Message: "verification code sent"})
	}
}

func HandleVerify(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.VerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}
		id, ok := b.Store.verify(req.Email, req.Code)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid verification code")
			return
		}
		writeJSON(w, http.StatusOK, models.AuthResponse{Token: b.Token(id), Message: "verified"})
	}
}

func HandleLogin(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}
		id, ok := b.Store.login(req.Email, req.Password)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeJSON(w, http.StatusOK, models.AuthResponse{Token: b.Token(id)})
	}
}

func HandleChats(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, b.Store.chatsOf(userID(r)))
	}
}

func HandleMessages(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := pathID(r, "chatId")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid chat id")
			return
		}
		msgs, ok := b.Store.messagesOf(userID(r), chatID)
		if !ok {
			writeError(w, http.StatusNotFound, "chat not found")
			return
		}
		writeJSON(w, http.StatusOK, models.MessagesPage{Mensajes: msgs})
	}
}

func HandleSendMessage(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}
		content := strings.TrimSpace(req.Contenido)
		if content == "" || len([]rune(content)) > 1000 || req.OfertaID <= 0 {
			writeError(w, http.StatusBadRequest, "contenido must have between 1 and 1000 characters")
			return
		}
		req.Contenido = content
		writeJSON(w, http.StatusCreated, b.Store.send(userID(r), req))
	}
}

func HandleApplications(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		estado, ok := models.ParseEstado(r.URL.Query().Get("estado"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid estado")
			return
		}
		writeJSON(w, http.StatusOK, b.Store.applications(userID(r), estado))
	}
}

func HandleCreateMatch(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		likeID, _ := pathID(r, "likeId")
		m, ok := b.Store.match(likeID)
		if !ok {
			writeError(w, http.StatusNotFound, "like not found")
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func HandleReject(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		likeID, _ := pathID(r, "likeId")
		if !b.Store.reject(likeID) {
			writeError(w, http.StatusNotFound, "like not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func HandleLikes(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ofertaID, _ := pathID(r, "ofertaId")
		writeJSON(w, http.StatusOK, b.Store.likesOf(ofertaID))
	}
}

func HandlePerfil(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := b.Store.profile(userID(r))
		if !ok {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func HandlePerfilPublico(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if email == "" {
			writeError(w, http.StatusBadRequest, "email is required")
			return
		}
		p, ok := b.Store.publicProfile(email)
		if !ok {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func HandleOfertas(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, b.Store.ofertasFor(userID(r)))
	}
}

func HandleOferta(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "ofertaId")
		o, ok := b.Store.oferta(userID(r), id)
		if !ok {
			writeError(w, http.StatusNotFound, "offer not found")
			return
		}
		writeJSON(w, http.StatusOK, o)
	}
}

func HandleToggleGuardar(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "ofertaId")
		saved, ok := b.Store.toggleSaved(userID(r), id)
		if !ok {
			writeError(w, http.StatusNotFound, "offer not found")
			return
		}
		writeJSON(w, http.StatusOK, models.SaveToggleResult{OfertaID: id, Guardada: saved})
	}
}

func HandleStatistics(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, b.Store.statistics(userID(r)))
	}
}
