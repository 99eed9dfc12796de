// Package auth issues and verifies staff access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tristarfitness/backend/internal/models"
	cfgpkg "github.com/tristarfitness/backend/pkg/config"
	"github.com/tristarfitness/backend/pkg/tool"
	"github.com/tristarfitness/backend/pkg/types"
)

var (
	ErrUnauthenticated    = errors.New("missing access token")
	ErrInvalidToken       = errors.New("invalid access token")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Subject is the verified identity behind a request.
type Subject struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  types.Role `json:"role"`
}

type Claims struct {
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  types.Role `json:"role"`
	jwt.StandardClaims
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Subject   `json:"user"`
}

type Service struct {
	db     *gorm.DB
	cfg    cfgpkg.AuthConfig
	secret []byte
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewService(db *gorm.DB, cfg *cfgpkg.Config, log *zap.SugaredLogger) *Service {
	return &Service{db: db, cfg: cfg.Auth, secret: []byte(cfg.Auth.JWTSecret), log: log, now: time.Now}
}

// Issue signs an HS256 token for u.
func (s *Service) Issue(u *models.StaffUser) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.TokenTTL)
	claims := &Claims{
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: exp.Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm, expiry and issuer.
func (s *Service) Verify(token string) (*Subject, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if s.cfg.Issuer != "" && !claims.VerifyIssuer(s.cfg.Issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: missing subject or role", ErrInvalidToken)
	}
	return &Subject{ID: claims.Subject, Email: claims.Email, Name: claims.Name, Role: claims.Role}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var u models.StaffUser
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load staff user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, exp, err := s.Issue(&u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: exp,
		User:      Subject{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role},
	}, nil
}

// CreateUser hashes password and stores a new staff account.
func (s *Service) CreateUser(ctx context.Context, email, name, password string, role types.Role) (*models.StaffUser, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.StaffUser{
		ID:           tool.GenerateUUIDV7(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         name,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, fmt.Errorf("create staff user: %w", err)
	}
	return u, nil
}

// SeedDefault creates the configured manager account when no staff exist.
func (s *Service) SeedDefault(ctx context.Context) error {
	if s.cfg.SeedEmail == "" || s.cfg.SeedPassword == "" {
		return nil
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.StaffUser{}).Count(&n).Error; err != nil {
		return fmt.Errorf("count staff users: %w", err)
	}
	if n > 0 {
		return nil
	}
	u, err := s.CreateUser(ctx, s.cfg.SeedEmail, s.cfg.SeedName, s.cfg.SeedPassword, types.RoleManager)
	if err != nil {
		return err
	}
	s.log.Infow("seeded default staff account", "email", u.Email, "role", u.Role)
	return nil
}
