package commands

import (
	"context"
	"log/slog"
	"strings"

	"mess-market/internal/domain/user"
	"mess-market/internal/pkg/errs"
	"mess-market/internal/pkg/jwt"
	"mess-market/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errs.New("user not found")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrTokenValidation      = errs.New("token validation failed")
	ErrEmptyCredential      = errs.New("meal credential cannot be empty")
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type LoginResult struct {
	UserID    uuid.UUID
	Roll      string
	TokenPair *TokenPair
}

type AuthCommands interface {
	// Login exchanges a one-time SSO ticket for a session. First login
	// creates the user row; later logins refresh name and email from SSO.
	Login(ctx context.Context, ticket string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	// UpdateMealCredential stores the user's dining-portal session so
	// listings can be venue-checked and tokens fetched on their behalf.
	UpdateMealCredential(ctx context.Context, userID uuid.UUID, credential string) error
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	validator  shared.TicketValidator
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, validator shared.TicketValidator, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		validator:  validator,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, ticket string) (*LoginResult, error) {
	identity, err := a.validator.Validate(ctx, ticket)
	if err != nil {
		// ErrInvalidTicket passes through for a 401; anything else is upstream trouble
		return nil, err
	}

	entity, err := user.NewUser(identity.Roll, identity.DisplayName, identity.Email)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	var userID uuid.UUID
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Users().Upsert(ctx, tx.DB(), entity)
		if err != nil {
			return err
		}
		userID = id
		if err := tx.Users().UpdateLastLogin(ctx, tx.DB(), id); err != nil {
			slog.Warn("failed to update last login", "user_id", id, "error", err.Error())
		}
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	pair, err := a.issueTokens(userID, identity.Roll)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		UserID:    userID,
		Roll:      identity.Roll,
		TokenPair: pair,
	}, nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenValidation
	}

	// The user row must still exist: a wiped database or removed account
	// invalidates outstanding refresh tokens.
	if _, err := a.uow.CommandReads().UserByID(ctx, claims.UserID); err != nil {
		return nil, ErrUserNotFound
	}

	return a.issueTokens(claims.UserID, claims.Roll)
}

func (a *authCommandsImpl) UpdateMealCredential(ctx context.Context, userID uuid.UUID, credential string) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return ErrEmptyCredential
	}

	err := a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateMealCredential(ctx, tx.DB(), userID, credential)
	})
	if err != nil {
		return errs.Mark(err, ErrUserNotFound)
	}
	return nil
}

func (a *authCommandsImpl) issueTokens(userID uuid.UUID, roll string) (*TokenPair, error) {
	accessToken, err := a.jwtService.GenerateAccessToken(userID, roll)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	refreshToken, err := a.jwtService.GenerateRefreshToken(userID, roll)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
