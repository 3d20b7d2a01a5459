package service

import (
	"strings"

	"github.com/udagram/image-filter/internal/core/domain"
	"github.com/udagram/image-filter/internal/core/ports"
)

const bearerScheme = "bearer"

// BearerGate authorizes requests that carry "Bearer <token>".
type BearerGate struct {
	tokens ports.TokenService
}

func NewBearerGate(tokens ports.TokenService) *BearerGate {
	return &BearerGate{tokens: tokens}
}

// Authorize inspects an Authorization header value. Anything other than a
// verified token is a denial.
func (g *BearerGate) Authorize(header string) domain.AuthResult {
	if strings.TrimSpace(header) == "" {
		return domain.Denied(domain.DenyMissingHeader)
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) {
		return domain.Denied(domain.DenyMalformedHeader)
	}

	identity, err := g.tokens.Verify(parts[1])
	if err != nil || identity == "" {
		return domain.Denied(domain.DenyInvalidOrExpiredToken)
	}
	return domain.Authenticated(identity)
}
