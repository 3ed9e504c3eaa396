package api

import (
	"github.com/gofrs/uuid"
	"github.com/sysdevguru/stockfolio/env"
	"github.com/sysdevguru/stockfolio/pferrors"
)

type Authenticator interface {
	Authenticate(Context) error
}

// envAuthenticator binds every request to the portfolio owner
// configured in PORTFOLIO_USER_ID. When a real authentication layer
// lands, it replaces this implementation and nothing downstream moves.
type envAuthenticator struct {
	Authenticator
}

func NewAuthenticator() Authenticator {
	return &envAuthenticator{}
}

func (a *envAuthenticator) Authenticate(ctx Context) error {
	id, err := uuid.FromString(env.GetVar("PORTFOLIO_USER_ID"))
	if err != nil {
		return pferrors.InternalServerError.WithError(err).WithMsg("portfolio owner is misconfigured")
	}

	ctx.Authorize(id)

	return nil
}
