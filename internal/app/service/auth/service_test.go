package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tristarfitness/backend/internal/models"
	"github.com/tristarfitness/backend/internal/platform/db/dbtest"
	cfgpkg "github.com/tristarfitness/backend/pkg/config"
	"github.com/tristarfitness/backend/pkg/types"
)

func newService(t *testing.T) *Service {
	cfg := &cfgpkg.Config{}
	cfg.Auth = cfgpkg.AuthConfig{
		JWTSecret:    "test-secret",
		Issuer:       "tristar-fitness",
		TokenTTL:     time.Hour,
		SeedEmail:    "manager@tristar",
		SeedPassword: "manager@tristarfitness",
		SeedName:     "Manager",
	}
	return NewService(dbtest.NewSQLite(t), cfg, zap.NewNop().Sugar())
}

func TestSeedAndLogin(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	require.NoError(t, s.SeedDefault(ctx))
	require.NoError(t, s.SeedDefault(ctx))

	var n int64
	require.NoError(t, s.db.Model(&models.StaffUser{}).Count(&n).Error)
	require.EqualValues(t, 1, n)

	res, err := s.Login(ctx, "Manager@Tristar", "manager@tristarfitness")
	require.NoError(t, err)
	require.Equal(t, types.RoleManager, res.User.Role)
	require.NotEmpty(t, res.Token)

	sub, err := s.Verify(res.Token)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, sub.ID)
	require.Equal(t, types.RoleManager, sub.Role)

	_, err = s.Login(ctx, "manager@tristar", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, "nobody@tristar", "x")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerify_Rejects(t *testing.T) {
	s := newService(t)
	u := &models.StaffUser{ID: "u1", Email: "t@x.com", Name: "T", Role: types.RoleTrainer}

	_, err := s.Verify("")
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, err = s.Verify("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)

	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := s.Issue(u)
	require.NoError(t, err)
	s.now = time.Now
	_, err = s.Verify(expired)
	require.ErrorIs(t, err, ErrInvalidToken)

	other := *s
	other.secret = []byte("other-secret")
	forged, _, err := other.Issue(u)
	require.NoError(t, err)
	_, err = s.Verify(forged)
	require.ErrorIs(t, err, ErrInvalidToken)

	other = *s
	other.cfg.Issuer = "someone-else"
	foreign, _, err := other.Issue(u)
	require.NoError(t, err)
	_, err = s.Verify(foreign)
	require.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: types.RoleOwner, StandardClaims: jwt.StandardClaims{Subject: "x", Issuer: "tristar-fitness"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Verify(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Role: "janitor", StandardClaims: jwt.StandardClaims{Subject: "x", Issuer: "tristar-fitness", ExpiresAt: time.Now().Add(time.Hour).Unix()}})
	signed, err := badRole.SignedString(s.secret)
	require.NoError(t, err)
	_, err = s.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}
