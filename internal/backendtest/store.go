package backendtest

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jobmatch/internal/models"
)

type user struct {
	profile  models.Profile
	password string
	code     string
	verified bool
}

type chat struct {
	summary models.ChatSummary
	owner   int64
}

// Store is the fake backend's in-memory state. Methods are safe for
// concurrent use by handlers and tests.
type Store struct {
	mu sync.Mutex

	nextID   int64
	users    map[int64]*user
	byEmail  map[string]int64
	public   map[string]models.PublicProfile
	chats    map[int64]*chat
	messages map[int64][]models.Message
	likes    map[int64][]models.Like
	matches  []models.Match
	rejected []int64
	ofertas  map[int64]*models.Oferta
	saved    map[int64]map[int64]bool
	apps     map[int64][]models.Postulacion
}

func NewStore() *Store {
	return &Store{
		nextID:   100,
		users:    make(map[int64]*user),
		byEmail:  make(map[string]int64),
		public:   make(map[string]models.PublicProfile),
		chats:    make(map[int64]*chat),
		messages: make(map[int64][]models.Message),
		likes:    make(map[int64][]models.Like),
		ofertas:  make(map[int64]*models.Oferta),
		saved:    make(map[int64]map[int64]bool),
		apps:     make(map[int64][]models.Postulacion),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func normEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AddUser registers a verified user and returns its id.
func (s *Store) AddUser(email, password, nombre, apellido string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	email = normEmail(email)
	s.users[id] = &user{
		profile:  models.Profile{ID: id, Nombre: nombre, Apellido: apellido, Email: email},
		password: password,
		verified: true,
	}
	s.byEmail[email] = id
	return id
}

func (s *Store) register(req models.RegisterRequest) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := normEmail(req.Email)
	if _, exists := s.byEmail[email]; exists {
		return "", false
	}
	id := s.id()
	code := strings.ToUpper(uuid.NewString()[:6])
	s.users[id] = &user{
		profile:  models.Profile{ID: id, Nombre: req.Nombre, Apellido: req.Apellido, Email: email},
		password: req.Password,
		code:     code,
	}
	s.byEmail[email] = id
	return code, true
}

// Code returns the verification code issued at registration.
func (s *Store) Code(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[s.byEmail[normEmail(email)]]; ok {
		return u.code
	}
	return ""
}

func (s *Store) verify(email, code string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[normEmail(email)]
	if !ok {
		return 0, false
	}
	u := s.users[id]
	if u.verified || !strings.EqualFold(u.code, strings.TrimSpace(code)) {
		return 0, false
	}
	u.verified = true
	return id, true
}

func (s *Store) login(email, password string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[normEmail(email)]
	if !ok {
		return 0, false
	}
	u := s.users[id]
	if !u.verified || u.password != password {
		return 0, false
	}
	return id, true
}

func (s *Store) profile(userID int64) (models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return models.Profile{}, false
	}
	return u.profile, true
}

func (s *Store) AddPublicProfile(p models.PublicProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Email = normEmail(p.Email)
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.public[p.Email] = p
}

func (s *Store) publicProfile(email string) (models.PublicProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.public[normEmail(email)]
	return p, ok
}

// AddChat gives owner a conversation. A zero ID is assigned.
func (s *Store) AddChat(owner int64, summary models.ChatSummary) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if summary.ID == 0 {
		summary.ID = s.id()
	}
	s.chats[summary.ID] = &chat{summary: summary, owner: owner}
	return summary.ID
}

// RemoveChats drops every conversation of owner.
func (s *Store) RemoveChats(owner int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.chats {
		if c.owner == owner {
			delete(s.chats, id)
		}
	}
}

func (s *Store) chatsOf(owner int64) []models.ChatSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ChatSummary{}
	for _, c := range s.chats {
		if c.owner == owner {
			out = append(out, c.summary)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UltimaActividad.Equal(out[j].UltimaActividad) {
			return out[i].UltimaActividad.After(out[j].UltimaActividad)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) AddMessage(chatID, remitenteID int64, contenido string, at time.Time) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addMessageLocked(chatID, remitenteID, contenido, at)
}

func (s *Store) addMessageLocked(chatID, remitenteID int64, contenido string, at time.Time) models.Message {
	msg := models.Message{
		ID:          s.id(),
		RemitenteID: remitenteID,
		Contenido:   contenido,
		FechaEnvio:  at,
		ChatID:      chatID,
	}
	s.messages[chatID] = append(s.messages[chatID], msg)
	if c, ok := s.chats[chatID]; ok {
		c.summary.UltimoMensaje = contenido
		c.summary.UltimaActividad = at
	}
	return msg
}

// messagesOf returns the chat's messages newest first, like the real backend.
func (s *Store) messagesOf(owner, chatID int64) ([]models.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[chatID]
	if !ok || c.owner != owner {
		return nil, false
	}
	msgs := append([]models.Message{}, s.messages[chatID]...)
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].FechaEnvio.Equal(msgs[j].FechaEnvio) {
			return msgs[i].FechaEnvio.After(msgs[j].FechaEnvio)
		}
		return msgs[i].ID > msgs[j].ID
	})
	return msgs, true
}

// send stores a message in the sender's chat for the offer, opening the chat
// when none exists yet.
func (s *Store) send(sender int64, req models.SendMessageRequest) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var chatID int64
	for id, c := range s.chats {
		if c.owner == sender && c.summary.OfertaID == req.OfertaID {
			chatID = id
			break
		}
	}
	if chatID == 0 {
		chatID = s.id()
		summary := models.ChatSummary{ID: chatID, OfertaID: req.OfertaID}
		if o, ok := s.ofertas[req.OfertaID]; ok {
			summary.TituloOferta = o.Titulo
			summary.NombreContraparte = o.Empresa
		}
		s.chats[chatID] = &chat{summary: summary, owner: sender}
	}
	return s.addMessageLocked(chatID, sender, req.Contenido, time.Now().UTC())
}

func (s *Store) AddLike(ofertaID int64, email, tipo string) models.Like {
	s.mu.Lock()
	defer s.mu.Unlock()
	like := models.Like{
		ID:           s.id(),
		UsuarioEmail: normEmail(email),
		OfertaID:     ofertaID,
		Fecha:        time.Now().UTC(),
		Tipo:         tipo,
	}
	s.likes[ofertaID] = append(s.likes[ofertaID], like)
	return like
}

func (s *Store) likesOf(ofertaID int64) []models.Like {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Like{}, s.likes[ofertaID]...)
}

func (s *Store) findLike(likeID int64) (models.Like, bool) {
	for _, likes := range s.likes {
		for _, l := range likes {
			if l.ID == likeID {
				return l, true
			}
		}
	}
	return models.Like{}, false
}

func (s *Store) match(likeID int64) (models.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	like, ok := s.findLike(likeID)
	if !ok {
		return models.Match{}, false
	}
	m := models.Match{ID: s.id(), LikeID: likeID, OfertaID: like.OfertaID, Fecha: time.Now().UTC()}
	s.matches = append(s.matches, m)
	return m, true
}

func (s *Store) reject(likeID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findLike(likeID); !ok {
		return false
	}
	s.rejected = append(s.rejected, likeID)
	return true
}

// Matches lists like ids a match was created for, in call order.
func (s *Store) Matches() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, m.LikeID)
	}
	return out
}

func (s *Store) Rejected() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64{}, s.rejected...)
}

func (s *Store) AddOferta(o models.Oferta) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == 0 {
		o.ID = s.id()
	}
	s.ofertas[o.ID] = &o
	return o.ID
}

func (s *Store) ofertasFor(userID int64) []models.Oferta {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Oferta, 0, len(s.ofertas))
	for _, o := range s.ofertas {
		cp := *o
		cp.Guardada = s.saved[userID][o.ID]
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) oferta(userID, id int64) (models.Oferta, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.ofertas[id]
	if !ok {
		return models.Oferta{}, false
	}
	cp := *o
	cp.Guardada = s.saved[userID][id]
	return cp, true
}

func (s *Store) toggleSaved(userID, ofertaID int64) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ofertas[ofertaID]; !ok {
		return false, false
	}
	if s.saved[userID] == nil {
		s.saved[userID] = make(map[int64]bool)
	}
	s.saved[userID][ofertaID] = !s.saved[userID][ofertaID]
	return s.saved[userID][ofertaID], true
}

func (s *Store) AddApplication(userID int64, p models.Postulacion) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.apps[userID] = append(s.apps[userID], p)
	return p.ID
}

func (s *Store) applications(userID int64, estado models.EstadoPostulacion) []models.Postulacion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Postulacion{}
	for _, p := range s.apps[userID] {
		if estado == "" || p.Estado == estado {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) statistics(userID int64) models.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := models.Statistics{PorEstado: make(map[models.EstadoPostulacion]int)}
	for _, p := range s.apps[userID] {
		stats.TotalPostulaciones++
		stats.PorEstado[p.Estado]++
	}
	stats.TotalMatches = len(s.matches)
	for _, c := range s.chats {
		if c.owner == userID {
			stats.TotalChats++
		}
	}
	for _, saved := range s.saved[userID] {
		if saved {
			stats.OfertasGuardadas++
		}
	}
	return stats
}
