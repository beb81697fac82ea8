package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
)

// userClaim is the "user" object the storefront embeds in its tokens
type userClaim struct {
	MongoID   string         `json:"_id"`
	ID        string         `json:"id"`
	Role      domain.Role    `json:"role"`
	Email     string         `json:"email"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Phone     string         `json:"phone"`
	Address   domain.Address `json:"address"`
}

type tokenClaims struct {
	User *userClaim `json:"user"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

// Decode reads the claims of token without verifying its signature
func Decode(token string) (domain.Identity, error) {
	var claims tokenClaims
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if claims.User == nil {
		return domain.Identity{}, fmt.Errorf("%w: missing user claim", domain.ErrDecode)
	}

	u := claims.User
	id := u.MongoID
	if id == "" {
		id = u.ID
	}
	if id == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing user id", domain.ErrDecode)
	}

	identity := domain.Identity{
		ID:        id,
		Role:      u.Role,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Address:   u.Address,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	return identity, nil
}
