// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bolgeo/internal/platform/apperr"
	"github.com/taibuivan/bolgeo/internal/platform/constants"
	"github.com/taibuivan/bolgeo/internal/platform/sec"
	"github.com/taibuivan/bolgeo/internal/users/session"
	"github.com/taibuivan/bolgeo/pkg/uuid"
)

// # In-memory stores

type memoryUsers struct {
	mu      sync.Mutex
	byEmail map[string]*session.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: make(map[string]*session.User)}
}

func (m *memoryUsers) UpsertByEmail(_ context.Context, email string) (*session.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if user, ok := m.byEmail[email]; ok {
		user.LastLoginAt = &now
		return user, nil
	}

	user := &session.User{
		ID:          uuid.New(),
		Email:       email,
		CreatedAt:   now,
		LastLoginAt: &now,
	}
	m.byEmail[email] = user
	return user, nil
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*session.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

type pendingCode struct {
	hash     string
	attempts int64
}

type memoryCodes struct {
	mu    sync.Mutex
	codes map[string]*pendingCode
}

func newMemoryCodes() *memoryCodes {
	return &memoryCodes{codes: make(map[string]*pendingCode)}
}

func (m *memoryCodes) Save(_ context.Context, email, codeHash string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[email] = &pendingCode{hash: codeHash}
	return nil
}

func (m *memoryCodes) Attempt(_ context.Context, email string) (string, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code, ok := m.codes[email]
	if !ok {
		return "", 0, apperr.NotFound("Login code")
	}
	code.attempts++
	return code.hash, code.attempts, nil
}

func (m *memoryCodes) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, email)
	return nil
}

type memoryRevocations struct {
	mu  sync.Mutex
	ids map[string]time.Duration
}

func (m *memoryRevocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ids == nil {
		m.ids = make(map[string]time.Duration)
	}
	m.ids[tokenID] = ttl
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[tokenID]
	return ok, nil
}

// capturingMailer remembers the last code sent to each address.
type capturingMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *capturingMailer) SendLoginCode(_ context.Context, email, code string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.codes == nil {
		m.codes = make(map[string]string)
	}
	m.codes[email] = code
	return nil
}

func (m *capturingMailer) last(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

// # Fixture

var (
	keyOnce sync.Once
	testKey *rsa.PrivateKey
)

func signingKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	keyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKey = key
	})
	return testKey
}

type fixture struct {
	service *session.Service
	tokens  *sec.TokenService
	users   *memoryUsers
	codes   *memoryCodes
	revoked *memoryRevocations
	mailer  *capturingMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	key := signingKey(t)
	f := &fixture{
		tokens:  sec.NewTokenServiceFromKeys(key, &key.PublicKey, constants.AuthIssuer),
		users:   newMemoryUsers(),
		codes:   newMemoryCodes(),
		revoked: &memoryRevocations{},
		mailer:  &capturingMailer{},
	}
	f.service = session.NewService(f.users, f.codes, f.revoked, f.tokens, f.mailer, discardLogger())
	return f
}

// login runs the full code flow and returns the issued token.
func (f *fixture) login(t *testing.T, email string) *session.Login {
	t.Helper()

	require.NoError(t, f.service.RequestLogin(context.Background(), email))
	login, err := f.service.VerifyLogin(context.Background(), email, f.mailer.last(session.NormalizeEmail(email)))
	require.NoError(t, err)
	return login
}
