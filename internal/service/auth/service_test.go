package auth

import (
	"context"
	"testing"

	"github.com/repsboard/payroll-backend/internal/domain/auth"
	"github.com/repsboard/payroll-backend/internal/domain/candidate"
	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/pkg/jwt"
	"github.com/repsboard/payroll-backend/internal/pkg/validator"
	"github.com/repsboard/payroll-backend/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "test-secret-key-for-jwt"
	testPasscode = "letmein"
)

type authFixture struct {
	svc        auth.AuthService
	jwt        jwt.Service
	candidates candidate.CandidateRepository
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	candidates := sqlite.NewCandidateRepository(db)
	jwtService := jwt.NewJWTService(testSecret, "1h")
	return authFixture{
		svc:        NewAuthService(candidates, jwtService, testPasscode),
		jwt:        jwtService,
		candidates: candidates,
	}
}

func (f authFixture) createRep(t *testing.T, name, password string) candidate.Candidate {
	t.Helper()
	ctx := context.Background()
	c, err := f.candidates.Create(ctx, candidate.Candidate{Name: name, Username: candidate.UsernameFromName(name), Status: candidate.StatusWorking})
	require.NoError(t, err)

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		hashed := string(hash)
		require.NoError(t, f.candidates.UpdateDetails(ctx, c.ID, candidate.DetailsPatch{PasswordHash: &hashed}))
	}
	return c
}

func principalOf(t *testing.T, f authFixture, token string) user.Principal {
	t.Helper()
	decoded, err := f.jwt.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	p, err := jwt.PrincipalFromClaims(claims)
	require.NoError(t, err)
	return p
}

func TestAdminLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.svc.AdminLogin(ctx, auth.AdminLoginRequest{Passcode: testPasscode})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Greater(t, resp.ExpiresIn, int64(0))
	assert.Equal(t, user.AdminID, resp.User.ID)

	p := principalOf(t, f, resp.AccessToken)
	assert.True(t, p.IsAdmin())

	_, err = f.svc.AdminLogin(ctx, auth.AdminLoginRequest{Passcode: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidPasscode)

	_, err = f.svc.AdminLogin(ctx, auth.AdminLoginRequest{})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestRepLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	jane := f.createRep(t, "Jane Doe", "s3cret-pass")

	resp, err := f.svc.RepLogin(ctx, auth.RepLoginRequest{Username: "janedoe", Password: "s3cret-pass"})
	require.NoError(t, err)
	p := principalOf(t, f, resp.AccessToken)
	assert.Equal(t, jane.ID, p.ID)
	assert.Equal(t, user.RoleRep, p.Role)
	assert.Equal(t, "Jane Doe", p.Name)

	_, err = f.svc.RepLogin(ctx, auth.RepLoginRequest{Username: "janedoe", Password: "nope"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.RepLogin(ctx, auth.RepLoginRequest{Username: "ghost", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRepLoginAfterRevoke(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	jane := f.createRep(t, "Jane Doe", "s3cret-pass")
	f.createRep(t, "No Access", "")

	require.NoError(t, f.candidates.RevokeAccess(ctx, jane.ID))

	_, err := f.svc.RepLogin(ctx, auth.RepLoginRequest{Username: "janedoe", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.EqualError(t, err, "invalid rep credentials or access has been revoked")

	_, err = f.svc.RepLogin(ctx, auth.RepLoginRequest{Username: "noaccess", Password: "anything"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.svc.AdminLogin(ctx, auth.AdminLoginRequest{Passcode: testPasscode})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, resp.AccessToken))
	assert.True(t, f.jwt.IsTokenRevoked(resp.AccessToken))

	assert.ErrorIs(t, f.svc.Logout(ctx, resp.AccessToken), auth.ErrTokenRevoked)
	assert.ErrorIs(t, f.svc.Logout(ctx, "garbage"), auth.ErrInvalidToken)
	assert.ErrorIs(t, f.svc.Logout(ctx, ""), auth.ErrInvalidToken)
}

func TestMeAndSSEToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	rep := user.Principal{ID: "rep-1", Name: "Jane", Role: user.RoleRep}

	me, err := f.svc.Me(ctx, rep)
	require.NoError(t, err)
	assert.Equal(t, auth.MeResponse{ID: "rep-1", Name: "Jane", Role: "rep"}, me)

	_, err = f.svc.Me(ctx, user.Principal{})
	assert.ErrorIs(t, err, user.ErrUnauthenticated)

	sse, err := f.svc.IssueSSEToken(ctx, rep)
	require.NoError(t, err)
	userID, err := f.jwt.ValidateSSEToken(sse.Token)
	require.NoError(t, err)
	assert.Equal(t, "rep-1", userID)
}
