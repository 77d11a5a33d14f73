package models

import (
	"strings"
	"time"
)

type EstadoPostulacion string

const (
	EstadoPending   EstadoPostulacion = "PENDING"
	EstadoSuperlike EstadoPostulacion = "SUPERLIKE"
	EstadoAccepted  EstadoPostulacion = "ACCEPTED"
	EstadoRejected  EstadoPostulacion = "REJECTED"
	EstadoMatched   EstadoPostulacion = "MATCHED"
)

func (e EstadoPostulacion) Valid() bool {
	switch e {
	case EstadoPending, EstadoSuperlike, EstadoAccepted, EstadoRejected, EstadoMatched:
		return true
	}
	return false
}

// ParseEstado accepts the status case-insensitively. The empty string means
// "no filter" and is returned as is.
func ParseEstado(s string) (EstadoPostulacion, bool) {
	if s == "" {
		return "", true
	}
	e := EstadoPostulacion(strings.ToUpper(strings.TrimSpace(s)))
	return e, e.Valid()
}

type Postulacion struct {
	ID           int64             `json:"id"`
	OfertaID     int64             `json:"ofertaId"`
	TituloOferta string            `json:"tituloOferta"`
	Empresa      string            `json:"empresa"`
	Estado       EstadoPostulacion `json:"estado"`
	Fecha        time.Time         `json:"fecha"`
}

type Oferta struct {
	ID          int64     `json:"id"`
	Titulo      string    `json:"titulo"`
	Descripcion string    `json:"descripcion"`
	Empresa     string    `json:"empresa"`
	Ubicacion   string    `json:"ubicacion,omitempty"`
	Modalidad   string    `json:"modalidad,omitempty"`
	Salario     string    `json:"salario,omitempty"`
	Guardada    bool      `json:"guardada"`
	Publicada   time.Time `json:"fechaPublicacion"`
}

type SaveToggleResult struct {
	OfertaID int64 `json:"ofertaId"`
	Guardada bool  `json:"guardada"`
}

type Statistics struct {
	TotalPostulaciones int                       `json:"totalPostulaciones"`
	PorEstado          map[EstadoPostulacion]int `json:"porEstado"`
	TotalMatches       int                       `json:"totalMatches"`
	TotalChats         int                       `json:"totalChats"`
	OfertasGuardadas   int                       `json:"ofertasGuardadas"`
}
