package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"coachdash/config"
	"coachdash/internal/domain"
	"coachdash/internal/repository"
	"coachdash/pkg/auth"
)

type AuthBackend interface {
	Login(ctx context.Context, email, password string) (domain.LoginResult, error)
	ForgetPassword(ctx context.Context, email string) (string, error)
	VerifyCode(ctx context.Context, email, otp string) (string, error)
	ResetPassword(ctx context.Context, email, newPassword string) (string, error)
}

type tokenClaims struct {
	jwt.RegisteredClaims
	SessionToken string      `json:"sid"`
	CoachID      string      `json:"coach_id"`
	Role         domain.Role `json:"role"`
}

type AuthServiceImpl struct {
	sessions  repository.SessionRepository
	backend   AuthBackend
	jwtConfig config.JWTConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuthService(sessions repository.SessionRepository, backend AuthBackend, jwtConfig config.JWTConfig, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		sessions:  sessions,
		backend:   backend,
		jwtConfig: jwtConfig,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, req domain.LoginRequest, userAgent, ip string) (domain.LoginResponse, error) {
	if err := domain.ValidateStruct(req).Err(); err != nil {
		return domain.LoginResponse{}, err
	}

	res, err := s.backend.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Info("login rejected by backend", zap.String("email", req.Email), zap.Error(err))
		return domain.LoginResponse{}, err
	}
	if res.Coach.ID == "" || res.AccessToken == "" {
		return domain.LoginResponse{}, &domain.BackendError{StatusCode: 401, Message: "Invalid login credentials"}
	}
	if res.Coach.Role != domain.RoleCoach {
		s.logger.Warn("non-coach login attempt", zap.String("coach_id", res.Coach.ID), zap.String("role", string(res.Coach.Role)))
		return domain.LoginResponse{}, domain.ErrForbiddenRole
	}

	token, err := auth.GenerateRandomToken(auth.SessionTokenLength)
	if err != nil {
		return domain.LoginResponse{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	hash, err := auth.HashToken(token)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	now := s.now()
	session := domain.Session{
		ID:           uuid.New().String(),
		TokenHash:    hash,
		CoachID:      res.Coach.ID,
		Role:         res.Coach.Role,
		Email:        res.Coach.Email,
		FirstName:    res.Coach.FirstName,
		LastName:     res.Coach.LastName,
		ProfileImage: res.Coach.ProfileImage,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		UserAgent:    userAgent,
		IP:           ip,
		ExpiresAt:    now.Add(s.jwtConfig.SessionTTL),
		CreatedAt:    now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error("failed to store session", zap.Error(err))
		return domain.LoginResponse{}, err
	}

	signed, err := s.sign(token, session)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	s.logger.Info("coach signed in", zap.String("coach_id", session.CoachID))
	return domain.LoginResponse{
		Token:     signed,
		ExpiresAt: session.ExpiresAt,
		User:      session.User(),
	}, nil
}

func (s *AuthServiceImpl) sign(sessionToken string, session domain.Session) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtConfig.Issuer,
			Subject:   session.CoachID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		},
		SessionToken: sessionToken,
		CoachID:      session.CoachID,
		Role:         session.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.SigningKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (s *AuthServiceImpl) parse(tokenString string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SigningKey), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.SessionToken == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func (s *AuthServiceImpl) lookup(ctx context.Context, claims *tokenClaims) (*domain.Session, error) {
	hash, err := auth.HashToken(claims.SessionToken)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	session, err := s.sessions.GetByTokenHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if !auth.CompareTokenHash(claims.SessionToken, session.TokenHash) {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Authenticate resolves a signed token to a live coach session.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, tokenString string) (*domain.Session, error) {
	if tokenString == "" {
		return nil, domain.ErrUnauthorized
	}
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	session, err := s.lookup(ctx, claims)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if session.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			s.logger.Warn("failed to delete expired session", zap.Error(err))
		}
		return nil, domain.ErrSessionExpired
	}
	if session.Role != domain.RoleCoach {
		return nil, domain.ErrForbiddenRole
	}

	return session, nil
}

// Logout is idempotent: unknown or malformed tokens are ignored.
func (s *AuthServiceImpl) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return nil
	}
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil
	}

	session, err := s.lookup(ctx, claims)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		s.logger.Error("failed to delete session", zap.Error(err))
		return err
	}
	s.logger.Info("coach signed out", zap.String("coach_id", session.CoachID))
	return nil
}

func (s *AuthServiceImpl) ForgetPassword(ctx context.Context, req domain.ForgetPasswordRequest) (string, error) {
	if err := domain.ValidateStruct(req).Err(); err != nil {
		return "", err
	}
	return s.backend.ForgetPassword(ctx, req.Email)
}

func (s *AuthServiceImpl) VerifyCode(ctx context.Context, req domain.VerifyCodeRequest) (string, error) {
	if err := domain.ValidateStruct(req).Err(); err != nil {
		return "", err
	}
	return s.backend.VerifyCode(ctx, req.Email, req.OTP)
}

func (s *AuthServiceImpl) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) (string, error) {
	if err := domain.ValidateStruct(req).Err(); err != nil {
		return "", err
	}
	return s.backend.ResetPassword(ctx, req.Email, req.NewPassword)
}

func (s *AuthServiceImpl) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired sessions removed", zap.Int64("count", n))
	}
	return n, nil
}
