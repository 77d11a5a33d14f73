package swipe

import (
	"context"
	"fmt"

	"github.com/jobmatch/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const resolveConcurrency = 8

type API interface {
	GetLikesByOferta(ctx context.Context, ofertaID int64) ([]models.Like, error)
	GetPerfilPublicoPorEmail(ctx context.Context, email string) (*models.PublicProfile, error)
	CreateMatch(ctx context.Context, likeID int64) (*models.Match, error)
	RejectUserProfile(ctx context.Context, likeID int64) error
}

// LoadCandidates fetches the offer's likes and resolves each liker's public
// profile in parallel. A candidate whose profile fails to resolve is left
// out; the others keep the order of the likes.
func LoadCandidates(ctx context.Context, api API, ofertaID int64, logger *zerolog.Logger) ([]models.Candidate, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	likes, err := api.GetLikesByOferta(ctx, ofertaID)
	if err != nil {
		return nil, fmt.Errorf("load likes for offer %d: %w", ofertaID, err)
	}

	resolved := make([]*models.Candidate, len(likes))
	var g errgroup.Group
	g.SetLimit(resolveConcurrency)
	for i, like := range likes {
		i, like := i, like
		g.Go(func() error {
			profile, err := api.GetPerfilPublicoPorEmail(ctx, like.UsuarioEmail)
			if err != nil {
				logger.Warn().Err(err).
					Int64("like_id", like.ID).
					Str("email", like.UsuarioEmail).
					Msg("Dropping candidate, profile did not resolve")
				return nil
			}
			resolved[i] = &models.Candidate{
				PublicProfile: *profile,
				LikeID:        like.ID,
				FechaLike:     like.Fecha,
				TipoLike:      like.Tipo,
			}
			return nil
		})
	}
	g.Wait()

	candidates := make([]models.Candidate, 0, len(likes))
	for _, c := range resolved {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}
	logger.Debug().
		Int64("oferta_id", ofertaID).
		Int("likes", len(likes)).
		Int("candidates", len(candidates)).
		Msg("Candidates loaded")
	return candidates, nil
}
