package api

import (
	"errors"
	"strings"

	"github.com/phrazzld/products-api/internal/domain"
	"github.com/phrazzld/products-api/internal/service/auth"
)

// Client-facing messages.
const (
	MsgProductNotFound = "Product not found"
	MsgRouteNotFound   = "Route not found"
	MsgSearchQuery     = `Query param "q" is required for search`
)

// MsgInvalidTier lists the tiers a key may be issued for.
var MsgInvalidTier = "Tier must be one of " + strings.Join([]string{
	string(domain.TierProduction),
	string(domain.TierDevelopment),
	string(domain.TierTesting),
}, ", ")

// classifyError turns errors from the layers below into *domain.Error values
// the terminal translator understands. Already classified errors pass
// through; anything unknown stays internal.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	switch {
	case errors.Is(err, auth.ErrUnknownTier):
		return invalidTierError()
	default:
		return domain.NewInternalError(err)
	}
}

func invalidTierError() *domain.Error {
	return domain.NewValidationError(domain.KindValidation.DefaultMessage(), MsgInvalidTier)
}
