package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ananth-NQI/loadboard-backend/internal/apperrors"
	"github.com/Ananth-NQI/loadboard-backend/internal/config"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

// Claims is the bearer token payload
type Claims struct {
	jwt.RegisteredClaims
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Company  string
	Role     models.Role
}

// AuthService registers users and issues tokens
type AuthService struct {
	store storage.Store
	cfg   config.JWTConfig
	now   func() time.Time
}

func NewAuthService(store storage.Store, cfg config.JWTConfig) *AuthService {
	if cfg.Expiration <= 0 {
		cfg.Expiration = 24 * time.Hour
	}
	return &AuthService{store: store, cfg: cfg, now: time.Now}
}

// Register creates an account. The very first account becomes an approved
// super admin; later ones wait for approval unless settings auto-approve.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, apperrors.Invalid("role", "unknown role")
	}
	email := models.NormalizeEmail(in.Email)
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, apperrors.Domain("email %s is already registered", email)
	} else if !isNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         in.Name,
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Company:      in.Company,
		Role:         in.Role,
		Status:       models.UserPending,
	}
	switch {
	case count == 0:
		user.Role = models.RoleSuperAdmin
		user.Status = models.UserApproved
	case in.Role.IsAdmin():
		return nil, apperrors.Forbidden("admin accounts are created by administrators")
	case settings.AutoApproveUsers:
		user.Status = models.UserApproved
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.Domain("email %s is already registered", email)
		}
		return nil, err
	}
	return user, nil
}

// Login checks the password and account status and returns a signed token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, models.NormalizeEmail(email))
	if isNotFound(err) {
		return "", nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrUnauthorized
	}
	if !user.CanLogin() {
		return "", nil, apperrors.Forbidden(fmt.Sprintf("account is %s", user.Status))
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// IssueToken signs an HS256 token for the user
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Expiration)),
		},
		UserID: user.ID,
		Role:   user.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates signature, expiry and issuer
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}
	if claims.UserID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}

// Authenticate resolves a token to an approved user
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, claims.UserID)
	if isNotFound(err) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !user.CanLogin() {
		return nil, apperrors.Forbidden(fmt.Sprintf("account is %s", user.Status))
	}
	return user, nil
}
