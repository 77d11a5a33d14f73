package models

import "time"

type Profile struct {
	ID       int64  `json:"id"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email"`
	Rol      string `json:"rol,omitempty"`
	FotoURL  string `json:"fotoUrl,omitempty"`
}

type PublicProfile struct {
	ID          int64    `json:"id"`
	Nombre      string   `json:"nombre"`
	Apellido    string   `json:"apellido"`
	Email       string   `json:"email"`
	Titular     string   `json:"titular,omitempty"`
	Descripcion string   `json:"descripcion,omitempty"`
	Habilidades []string `json:"habilidades,omitempty"`
	FotoURL     string   `json:"fotoUrl,omitempty"`
}

// Like is a one-directional expression of interest from a candidate toward
// an offer. TipoLike is either LIKE or SUPERLIKE.
type Like struct {
	ID           int64     `json:"id"`
	UsuarioEmail string    `json:"usuarioEmail"`
	OfertaID     int64     `json:"ofertaId"`
	Fecha        time.Time `json:"fecha"`
	Tipo         string    `json:"tipo"`
}

const (
	TipoLike      = "LIKE"
	TipoSuperlike = "SUPERLIKE"
)

// Candidate is a public profile together with the like that brought it to
// the offer's review stack.
type Candidate struct {
	PublicProfile
	LikeID    int64     `json:"likeId"`
	FechaLike time.Time `json:"fechaLike"`
	TipoLike  string    `json:"tipoLike"`
}

func (c Candidate) FullName() string {
	if c.Apellido == "" {
		return c.Nombre
	}
	return c.Nombre + " " + c.Apellido
}

type Match struct {
	ID       int64     `json:"id"`
	LikeID   int64     `json:"likeId"`
	OfertaID int64     `json:"ofertaId"`
	Fecha    time.Time `json:"fecha"`
}
