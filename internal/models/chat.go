package models

import "time"

type ChatSummary struct {
	ID                int64     `json:"id"`
	OfertaID          int64     `json:"ofertaId"`
	TituloOferta      string    `json:"tituloOferta"`
	NombreContraparte string    `json:"nombreContraparte"`
	UltimoMensaje     string    `json:"ultimoMensaje"`
	UltimaActividad   time.Time `json:"ultimaActividad"`
	NoLeidos          int       `json:"noLeidos"`
}
