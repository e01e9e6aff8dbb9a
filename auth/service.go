// Package auth handles POS operator accounts: password and Google sign-in, the super
// admin approval workflow and the JWTs the API checks.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPendingApproval    = errors.New("pending approval by super admin")
	ErrUsernameTaken      = errors.New("admin already exists")
	ErrInvalidInput       = errors.New("username and a password of at least 6 characters are required")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrGoogleUnavailable  = errors.New("google sign-in is not configured")
)

// Claims is the JWT payload issued to operators.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret             []byte
	TokenTTL           time.Duration
	SuperAdminUsername string
	SuperAdminEmail    string
}

type Service struct {
	admins   store.AdminStore
	cfg      Config
	verifier IdentityVerifier
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithVerifier enables Google sign-in.
func WithVerifier(v IdentityVerifier) Option { return func(s *Service) { s.verifier = v } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.logger = l } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(admins store.AdminStore, cfg Config, opts ...Option) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 60 * 24 * time.Hour
	}
	s := &Service{admins: admins, cfg: cfg, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register creates an operator. The configured super admin is approved at once; every
// other account waits for approval.
func (s *Service) Register(ctx context.Context, in RegisterInput) (models.Admin, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || len(in.Password) < minPasswordLength {
		return models.Admin{}, ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Admin{}, fmt.Errorf("hash password: %w", err)
	}

	admin := models.Admin{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		CreatedAt:    s.now().UTC(),
	}
	if s.isSuperAdmin(admin.Username, admin.Email) {
		admin.Role = models.RoleSuperAdmin
		admin.Approved = true
	}

	if err := s.admins.CreateAdmin(ctx, &admin); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return models.Admin{}, ErrUsernameTaken
		}
		return models.Admin{}, err
	}
	s.logger.Info("📝 admin registered", zap.String("username", admin.Username), zap.Bool("approved", admin.Approved))
	return admin, nil
}

// Login checks the password and returns a signed token for an approved operator.
func (s *Service) Login(ctx context.Context, username, password string) (string, models.Admin, error) {
	admin, err := s.admins.AdminByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return "", models.Admin{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", models.Admin{}, err
	}
	if admin.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", models.Admin{}, ErrInvalidCredentials
	}
	if !admin.Approved {
		return "", admin, ErrPendingApproval
	}
	token, err := s.IssueToken(admin)
	return token, admin, err
}

func (s *Service) isSuperAdmin(username, email string) bool {
	if s.cfg.SuperAdminUsername != "" && username == s.cfg.SuperAdminUsername {
		return true
	}
	return s.cfg.SuperAdminEmail != "" && strings.EqualFold(email, s.cfg.SuperAdminEmail)
}

func (s *Service) IssueToken(admin models.Admin) (string, error) {
	now := s.now()
	claims := Claims{
		Username: admin.Username,
		Email:    admin.Email,
		Role:     admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken accepts a raw token or an "Authorization: Bearer" value.
func (s *Service) ParseToken(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return s.cfg.Secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) Admins(ctx context.Context) ([]models.Admin, error) {
	return s.admins.Admins(ctx, false)
}

func (s *Service) PendingAdmins(ctx context.Context) ([]models.Admin, error) {
	return s.admins.Admins(ctx, true)
}

// Approve marks the operator approved. The key is a username or, as in the Google
// flow, an email.
func (s *Service) Approve(ctx context.Context, key string) (models.Admin, error) {
	admin, err := s.lookup(ctx, key)
	if err != nil {
		return models.Admin{}, err
	}
	admin.Approved = true
	if err := s.admins.UpdateAdmin(ctx, &admin); err != nil {
		return models.Admin{}, err
	}
	s.logger.Info("✅ admin approved", zap.String("username", admin.Username))
	return admin, nil
}

// Reject deletes a pending or approved operator.
func (s *Service) Reject(ctx context.Context, key string) error {
	admin, err := s.lookup(ctx, key)
	if err != nil {
		return err
	}
	if err := s.admins.DeleteAdmin(ctx, admin.Username); err != nil {
		return err
	}
	s.logger.Info("🗑️ admin rejected", zap.String("username", admin.Username))
	return nil
}

func (s *Service) lookup(ctx context.Context, key string) (models.Admin, error) {
	key = strings.TrimSpace(key)
	admin, err := s.admins.AdminByUsername(ctx, key)
	if errors.Is(err, store.ErrNotFound) && strings.Contains(key, "@") {
		return s.admins.AdminByEmail(ctx, key)
	}
	return admin, err
}
