package models

import "time"

type Message struct {
	ID          int64     `json:"id"`
	RemitenteID int64     `json:"remitenteId"`
	Contenido   string    `json:"contenido"`
	FechaEnvio  time.Time `json:"fechaEnvio"`
	ChatID      int64     `json:"chatId"`
}

// MessagesPage is what the backend returns for a chat, newest first.
type MessagesPage struct {
	Mensajes []Message `json:"mensajes"`
}

type SendMessageRequest struct {
	OfertaID  int64  `json:"ofertaId"`
	Contenido string `json:"contenido"`
}
