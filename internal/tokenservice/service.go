// Package tokenservice issues and refreshes access/refresh token pairs.
//
// Tokens are stateless: a pair is minted from two makers with distinct
// secrets and lifetimes, and presenting a valid refresh token yields a
// brand-new pair. Nothing is persisted and nothing is revoked.
package tokenservice

import (
	"errors"
	"time"

	"github.com/pocketbank/pocketbank/pkg/configpkg"
	"github.com/pocketbank/pocketbank/pkg/tokenpkg"
)

// Token schemes selectable via configuration.
const (
	SchemeJWT    = "jwt"
	SchemePaseto = "paseto"
)

// TokenPair holds a freshly minted access and refresh token.
type TokenPair struct {
	AccessToken           string    `json:"accessToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// Service facilitates token pair issuing and refreshing.
type Service struct {
	accessMaker     tokenpkg.Maker
	refreshMaker    tokenpkg.Maker
	accessDuration  time.Duration
	refreshDuration time.Duration
}

// New returns a token service configured with distinct access and refresh
// makers. The scheme defaults to JWT.
func New(config configpkg.Config) (*Service, error) {
	newMaker := func(secret string) (tokenpkg.Maker, error) {
		if config.TokenScheme == SchemePaseto {
			return tokenpkg.NewPasetoMaker(secret)
		}

		return tokenpkg.NewJWTMaker(secret)
	}

	if config.TokenScheme != "" && config.TokenScheme != SchemeJWT && config.TokenScheme != SchemePaseto {
		return nil, errors.New("unknown token scheme: " + config.TokenScheme)
	}

	accessMaker, err := newMaker(config.AccessTokenSecret)
	if err != nil {
		return nil, err
	}

	refreshMaker, err := newMaker(config.RefreshTokenSecret)
	if err != nil {
		return nil, err
	}

	return &Service{
		accessMaker:     accessMaker,
		refreshMaker:    refreshMaker,
		accessDuration:  config.AccessTokenDuration,
		refreshDuration: config.RefreshTokenDuration,
	}, nil
}

// AccessMaker exposes the access token maker for the auth middleware.
func (s *Service) AccessMaker() tokenpkg.Maker {
	return s.accessMaker
}

// IssuePair mints a new access and refresh token for the given user.
func (s *Service) IssuePair(userID, email string) (TokenPair, error) {
	accessToken, accessPayload, err := s.accessMaker.CreateToken(userID, email, s.accessDuration)
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, refreshPayload, err := s.refreshMaker.CreateToken(userID, email, s.refreshDuration)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessPayload.ExpiredAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshPayload.ExpiredAt,
	}, nil
}

// Refresh verifies the refresh token and mints a brand-new pair.
func (s *Service) Refresh(refreshToken string) (TokenPair, error) {
	payload, err := s.refreshMaker.VerifyToken(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	return s.IssuePair(payload.UserID, payload.Email)
}
