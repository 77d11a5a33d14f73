package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jobmatch/internal/models"
	"github.com/spf13/cobra"
)

func (a *app) registerCmd() *cobra.Command {
	var req models.RegisterRequest
	cmd := &cobra.Command{
		Use:     "register",
		Short:   "Create an account and get a verification code by email",
		GroupID: "account",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Email == "" || req.Password == "" || req.Nombre == "" {
				return errors.New("register needs --nombre, --email and --password")
			}
			resp, err := a.sessions.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			msg := resp.Message
			if msg == "" {
				msg = "registered"
			}
			a.term.printf("%s. Check %s for the verification code, then run: jobmatch verify --email %s --code <code>\n", msg, req.Email, req.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Nombre, "nombre", "", "first name")
	cmd.Flags().StringVar(&req.Apellido, "apellido", "", "last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	var email, code string
	cmd := &cobra.Command{
		Use:     "verify",
		Short:   "Confirm the emailed verification code",
		GroupID: "account",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || code == "" {
				return errors.New("verify needs --email and --code")
			}
			resp, err := a.sessions.Verify(cmd.Context(), email, code)
			if err != nil {
				return err
			}
			if resp.Token != "" {
				a.term.printf("Account verified, you are logged in.\n")
			} else {
				a.term.printf("Account verified. Run: jobmatch login --email %s --password <password>\n", email)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&code, "code", "", "verification code")
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Log in and store the session token",
		GroupID: "account",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || password == "" {
				return errors.New("login needs --email and --password")
			}
			if err := a.sessions.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			a.term.printf("Logged in as %s.\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Forget the stored session token",
		GroupID: "account",
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.sessions.Logout()
		},
	}
}

func (a *app) chatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "chats",
		Short:   "Live conversation list",
		GroupID: "screens",
		Args:    cobra.NoArgs,
		RunE: a.protected(func(cmd *cobra.Command, _ []string) error {
			return a.chatsScreen(cmd.Context())
		}),
	}
}

func (a *app) chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "chat <ofertaId>",
		Short:   "Live conversation for an offer",
		GroupID: "screens",
		Args:    cobra.ExactArgs(1),
		RunE: a.protected(func(cmd *cobra.Command, args []string) error {
			return a.chatScreen(cmd.Context(), args)
		}),
	}
}

func (a *app) applicantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "applicants <ofertaId>",
		Short:   "Review candidates (r contact, l discard, u favorite)",
		GroupID: "screens",
		Args:    cobra.ExactArgs(1),
		RunE: a.protected(func(cmd *cobra.Command, args []string) error {
			return a.applicantsScreen(cmd.Context(), args)
		}),
	}
}

func (a *app) applicationsCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:     "applications",
		Short:   "Your applications",
		GroupID: "lists",
		Args:    cobra.NoArgs,
		RunE: a.protected(func(cmd *cobra.Command, _ []string) error {
			estado, ok := models.ParseEstado(status)
			if !ok {
				return fmt.Errorf("unknown status %q", status)
			}
			apps, err := a.client.GetUserApplications(cmd.Context(), estado)
			if err != nil {
				return a.guardErr(err)
			}
			if len(apps) == 0 {
				a.term.printf("No applications.\n")
				return nil
			}
			for _, p := range apps {
				a.term.printf("  %-9s %s · %s (%s)\n", p.Estado, p.TituloOferta, p.Empresa, p.Fecha.Local().Format("02 Jan 2006"))
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&status, "status", "", "filter: PENDING, SUPERLIKE, ACCEPTED, REJECTED or MATCHED")
	return cmd
}

func (a *app) offersCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "offers",
		Short:   "Published offers",
		GroupID: "lists",
		Args:    cobra.NoArgs,
		RunE: a.protected(func(cmd *cobra.Command, _ []string) error {
			ofertas, err := a.client.GetOfertas(cmd.Context())
			if err != nil {
				return a.guardErr(err)
			}
			if len(ofertas) == 0 {
				a.term.printf("No offers.\n")
				return nil
			}
			for _, o := range ofertas {
				saved := " "
				if o.Guardada {
					saved = "♥"
				}
				details := []string{o.Empresa}
				for _, d := range []string{o.Ubicacion, o.Modalidad, o.Salario} {
					if d != "" {
						details = append(details, d)
					}
				}
				a.term.printf("%s #%d %s · %s\n", saved, o.ID, o.Titulo, strings.Join(details, " · "))
			}
			return nil
		}),
	}
}

func (a *app) saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "save <ofertaId>",
		Short:   "Toggle a saved offer",
		GroupID: "lists",
		Args:    cobra.ExactArgs(1),
		RunE: a.protected(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args, "offer id")
			if err != nil {
				return err
			}
			res, err := a.client.ToggleGuardarOferta(cmd.Context(), id)
			if err != nil {
				return a.guardErr(err)
			}
			if res.Guardada {
				a.term.printf("Offer %d saved.\n", id)
			} else {
				a.term.printf("Offer %d removed from saved.\n", id)
			}
			return nil
		}),
	}
}

func (a *app) profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "profile",
		Short:   "Your profile",
		GroupID: "lists",
		Args:    cobra.NoArgs,
		RunE: a.protected(func(cmd *cobra.Command, _ []string) error {
			p, err := a.client.GetPerfil(cmd.Context())
			if err != nil {
				return a.guardErr(err)
			}
			a.term.printf("%s %s <%s>\n", p.Nombre, p.Apellido, p.Email)
			if p.Rol != "" {
				a.term.printf("  role: %s\n", p.Rol)
			}
			if p.FotoURL != "" {
				a.term.printf("  photo: %s\n", p.FotoURL)
			}
			return nil
		}),
	}
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		Short:   "Application statistics",
		GroupID: "lists",
		Args:    cobra.NoArgs,
		RunE: a.protected(func(cmd *cobra.Command, _ []string) error {
			s, err := a.client.GetEstadisticas(cmd.Context())
			if err != nil {
				return a.guardErr(err)
			}
			a.term.printf("Applications: %d\n", s.TotalPostulaciones)
			estados := make([]string, 0, len(s.PorEstado))
			for e := range s.PorEstado {
				estados = append(estados, string(e))
			}
			sort.Strings(estados)
			for _, e := range estados {
				a.term.printf("  %-9s %d\n", e, s.PorEstado[models.EstadoPostulacion(e)])
			}
			a.term.printf("Matches: %d\nChats: %d\nSaved offers: %d\n", s.TotalMatches, s.TotalChats, s.OfertasGuardadas)
			return nil
		}),
	}
}
