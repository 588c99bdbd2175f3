package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propdesk/backend/internal/infrastructure/auth"
)

// TokenCmd signs an access token with the configured secret
type TokenCmd struct {
	Office uuid.UUID     `help:"Office the token is bound to" required:""`
	User   uuid.UUID     `help:"User id (random when omitted)"`
	Email  string        `help:"Email claim" default:"operator@propdesk.local"`
	Role   string        `help:"Role claim" default:"admin"`
	TTL    time.Duration `help:"Token lifetime (default from configuration)"`
}

func (t *TokenCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := globals.Config()
	if err != nil {
		return err
	}
	if t.TTL > 0 {
		cfg.JWT.AccessTokenExpiration = t.TTL
	}
	user := t.User
	if user == uuid.Nil {
		user = uuid.New()
	}

	token, expiresAt, err := auth.NewJWTService(cfg.JWT).IssueAccessToken(auth.TokenInput{
		OfficeID: t.Office,
		UserID:   user,
		Email:    t.Email,
		Role:     t.Role,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(globals.Out, token)
	globals.Logger.Debug("Token issued", zap.Time("expires_at", expiresAt))
	return nil
}
