package backendtest

import (
	"time"

	"github.com/jobmatch/internal/models"
)

const (
	DemoEmail    = "demo@jobmatch.dev"
	DemoPassword = "password123"
)

// Demo describes what Seed put in the store.
type Demo struct {
	UserID   int64
	OfertaID int64
	ChatID   int64
}

// Seed fills s with one recruiter account, an offer with three candidates
// waiting for review and a conversation with a few messages.
func Seed(s *Store, now time.Time) Demo {
	var d Demo
	d.UserID = s.AddUser(DemoEmail, DemoPassword, "Marta", "Gil")

	d.OfertaID = s.AddOferta(models.Oferta{
		Titulo:      "Backend Go Developer",
		Descripcion: "Services, queues and a lot of HTTP.",
		Empresa:     "Acme Labs",
		Ubicacion:   "Madrid",
		Modalidad:   "hybrid",
		Salario:     "45-55k",
		Publicada:   now.Add(-72 * time.Hour),
	})
	s.AddOferta(models.Oferta{
		Titulo:    "Frontend Engineer",
		Empresa:   "Initech",
		Modalidad: "remote",
		Publicada: now.Add(-24 * time.Hour),
	})

	candidates := []struct {
		profile models.PublicProfile
		tipo    string
	}{
		{models.PublicProfile{Nombre: "Eva", Apellido: "Ruiz", Email: "eva@example.com", Titular: "Go engineer", Habilidades: []string{"go", "postgres", "kubernetes"}}, models.TipoSuperlike},
		{models.PublicProfile{Nombre: "Leo", Apellido: "Martín", Email: "leo@example.com", Titular: "Full-stack developer", Habilidades: []string{"typescript", "go"}}, models.TipoLike},
		{models.PublicProfile{Nombre: "Nora", Apellido: "Vidal", Email: "nora@example.com", Descripcion: "Moving from Java to Go."}, models.TipoLike},
	}
	for _, c := range candidates {
		s.AddPublicProfile(c.profile)
		s.AddLike(d.OfertaID, c.profile.Email, c.tipo)
	}

	d.ChatID = s.AddChat(d.UserID, models.ChatSummary{
		OfertaID:          d.OfertaID,
		TituloOferta:      "Backend Go Developer",
		NombreContraparte: "Eva Ruiz",
		NoLeidos:          1,
	})
	s.AddMessage(d.ChatID, d.UserID, "Hola Eva, ¿tienes un rato esta semana?", now.Add(-2*time.Hour))
	s.AddMessage(d.ChatID, 0, "¡Claro! El jueves por la tarde me viene bien.", now.Add(-90*time.Minute))

	s.AddApplication(d.UserID, models.Postulacion{OfertaID: d.OfertaID, TituloOferta: "Backend Go Developer", Empresa: "Acme Labs", Estado: models.EstadoMatched, Fecha: now.Add(-48 * time.Hour)})
	s.AddApplication(d.UserID, models.Postulacion{TituloOferta: "Frontend Engineer", Empresa: "Initech", Estado: models.EstadoPending, Fecha: now.Add(-12 * time.Hour)})
	return d
}
