package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/domain"
	"portal/internal/domain/models"
	"portal/internal/domain/models/kb"
	"portal/internal/domain/repositories"
	"portal/internal/domain/services"
	"portal/internal/repository/memory"
)

type fakeProvider struct {
	identity *models.Identity
	err      error
	calls    int
}

func (p *fakeProvider) Login(ctx context.Context, username, password string) (*models.Identity, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.identity, nil
}

type fakeVerifier struct {
	err    error
	tokens []string
}

func (v *fakeVerifier) VerifyToken(ctx context.Context, token string) error {
	v.tokens = append(v.tokens, token)
	return v.err
}

func (v *fakeVerifier) Close() error { return nil }

type failingStore struct {
	*memory.SessionStore
	failKey string
}

func (s *failingStore) Set(ctx context.Context, sessionID, key, value string) error {
	if key == s.failKey {
		return errors.New("disk full")
	}
	return s.SessionStore.Set(ctx, sessionID, key, value)
}

func newTestService(store repositories.SessionStore, provider *fakeProvider, verifier *fakeVerifier) services.SessionService {
	return NewSessionService(store, provider, verifier, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func editor() *models.Identity {
	return &models.Identity{Token: "tok", DisplayName: "Jo", Roles: []string{"editor"}}
}

func TestLogin_StoresIdentity(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore(time.Hour)
	svc := newTestService(store, &fakeProvider{identity: editor()}, &fakeVerifier{})

	session, err := svc.Login(ctx, &services.LoginRequest{Username: "jo", Password: "secret"})
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)

	token, _, _ := store.Get(ctx, session.ID, repositories.SessionKeyToken)
	name, _, _ := store.Get(ctx, session.ID, repositories.SessionKeyUserName)
	role, _, _ := store.Get(ctx, session.ID, repositories.SessionKeyUserRole)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "Jo", name)
	assert.Equal(t, `["editor"]`, role)

	identity, ok, err := svc.Current(ctx, session.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, editor(), identity)
}

func TestLogin_Validation(t *testing.T) {
	provider := &fakeProvider{identity: editor()}
	svc := newTestService(memory.NewSessionStore(time.Hour), provider, &fakeVerifier{})

	tests := []*services.LoginRequest{
		{Username: "", Password: "secret"},
		{Username: "jo", Password: ""},
		{Username: strings.Repeat("j", 500), Password: "secret"},
	}
	for _, req := range tests {
		_, err := svc.Login(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Zero(t, provider.calls, "invalid forms never reach the identity endpoint")
}

func TestLogin_Rejected(t *testing.T) {
	store := memory.NewSessionStore(time.Hour)
	svc := newTestService(store, &fakeProvider{err: domain.ErrInvalidCredentials}, &fakeVerifier{})

	_, err := svc.Login(context.Background(), &services.LoginRequest{Username: "jo", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Zero(t, store.Len())
}

func TestLogin_StoreFailureLeavesNoPartialSession(t *testing.T) {
	store := &failingStore{SessionStore: memory.NewSessionStore(time.Hour), failKey: repositories.SessionKeyUserRole}
	svc := newTestService(store, &fakeProvider{identity: editor()}, &fakeVerifier{})

	_, err := svc.Login(context.Background(), &services.LoginRequest{Username: "jo", Password: "secret"})
	require.Error(t, err)
	assert.Zero(t, store.Len())
}

func TestCurrent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore(time.Hour)
	svc := newTestService(store, &fakeProvider{}, &fakeVerifier{})

	_, ok, err := svc.Current(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.Current(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "s1", repositories.SessionKeyToken, "tok"))
	require.NoError(t, store.Set(ctx, "s1", repositories.SessionKeyUserRole, "administrator"))
	identity, ok, err := svc.Current(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, identity.IsAdmin(), "a bare role string is accepted")
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name        string
		verifyErr   error
		wantReason  string
		wantCleared bool
	}{
		{name: "accepted"},
		{
			name:        "rejected",
			verifyErr:   &domain.AuthError{Reason: "rejected with status 403"},
			wantReason:  "rejected with status 403",
			wantCleared: true,
		},
		{
			name:        "endpoint unreachable",
			verifyErr:   errors.New("connection refused"),
			wantReason:  "validation unavailable",
			wantCleared: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.NewSessionStore(time.Hour)
			verifier := &fakeVerifier{err: tt.verifyErr}
			svc := newTestService(store, &fakeProvider{identity: editor()}, verifier)

			session, err := svc.Login(ctx, &services.LoginRequest{Username: "jo", Password: "secret"})
			require.NoError(t, err)
			require.NoError(t, svc.SaveNavigation(ctx, session.ID, kb.NewNavState()))

			identity, err := svc.Authenticate(ctx, session.ID)
			assert.Equal(t, []string{"tok"}, verifier.tokens)

			if tt.verifyErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "Jo", identity.DisplayName)
				return
			}

			var authErr *domain.AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.wantReason, authErr.Reason)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)

			for _, key := range []string{
				repositories.SessionKeyToken,
				repositories.SessionKeyUserName,
				repositories.SessionKeyUserRole,
				repositories.SessionKeyNavigation,
			} {
				_, ok, _ := store.Get(ctx, session.ID, key)
				assert.False(t, ok, "%s must be cleared", key)
			}
		})
	}
}

func TestAuthenticate_NoSession(t *testing.T) {
	verifier := &fakeVerifier{}
	svc := newTestService(memory.NewSessionStore(time.Hour), &fakeProvider{}, verifier)

	_, err := svc.Authenticate(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, verifier.tokens)
}

func TestAuthenticate_CancelledKeepsSession(t *testing.T) {
	store := memory.NewSessionStore(time.Hour)
	svc := newTestService(store, &fakeProvider{identity: editor()}, &fakeVerifier{err: context.Canceled})

	session, err := svc.Login(context.Background(), &services.LoginRequest{Username: "jo", Password: "secret"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Authenticate(ctx, session.ID)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, store.Len())
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore(time.Hour)
	svc := newTestService(store, &fakeProvider{identity: editor()}, &fakeVerifier{})

	session, err := svc.Login(ctx, &services.LoginRequest{Username: "jo", Password: "secret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.ID))
	assert.Zero(t, store.Len())
	assert.NoError(t, svc.Logout(ctx, ""))
}

func TestNavigationRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore(time.Hour)
	svc := newTestService(store, &fakeProvider{}, &fakeVerifier{})

	fresh, err := svc.LoadNavigation(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, kb.NewNavState(), fresh)

	cat, doc := int64(1), int64(10)
	state := kb.NewNavState()
	state.Phase = kb.PhaseReady
	state.ActiveCategoryID = &cat
	state.ActiveDocumentID = &doc
	state.Expanded[1] = true
	state.Seen[1] = true
	state.Query = "leave"
	state.Scroll = kb.ScrollTarget{Kind: kb.ScrollTop}
	state.Catalog = &kb.Catalog{}

	require.NoError(t, svc.SaveNavigation(ctx, "s1", state))

	restored, err := svc.LoadNavigation(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), *restored.ActiveCategoryID)
	assert.Equal(t, int64(10), *restored.ActiveDocumentID)
	assert.True(t, restored.IsExpanded(1))
	assert.True(t, restored.Seen[1])
	assert.Equal(t, "leave", restored.Query)
	assert.Nil(t, restored.Catalog, "the catalog is never persisted")
	assert.Equal(t, kb.ScrollNone, restored.Scroll.Kind, "scroll effects are not persisted")

	require.NoError(t, store.Set(ctx, "s1", repositories.SessionKeyNavigation, "{broken"))
	restored, err = svc.LoadNavigation(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, kb.NewNavState(), restored)
}
