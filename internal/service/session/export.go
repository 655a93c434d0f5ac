package session

import (
	"context"
	"io"

	"roulette_sentinel/internal/export"
)

// Export CSV со спинами последней сессии
func (s *serv) Export(ctx context.Context, w io.Writer) error {
	uid, err := userID(ctx)
	if err != nil {
		return err
	}

	sess, err := s.lastSession(ctx, uid)
	if err != nil {
		return err
	}

	spins, err := s.spinRepo.ListSpins(ctx, sess.ID)
	if err != nil {
		return err
	}

	return export.WriteSpins(w, spins)
}
