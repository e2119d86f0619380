package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/artisanhub/artisanhub-api/internal/logger"
	"github.com/artisanhub/artisanhub-api/internal/storage"
)

// SessionKey is the session-scoped storage key of the cached wallet session
const SessionKey = "artisanhub.wallet"

var (
	ErrRejected     = errors.New("request rejected by wallet")
	ErrNotConnected = errors.New("wallet not connected")
)

// Session is the cached wallet state
type Session struct {
	Connected            bool   `json:"connected"`
	PublicAddress        string `json:"publicAddress,omitempty"`
	SmartWalletAuthority string `json:"smartWalletAuthority,omitempty"`
}

// Account is what a wallet yields on approval
type Account struct {
	PublicAddress        string
	SmartWalletAuthority string
}

// Provider is an external wallet. Connect and SignMessage block until the
// wallet approves or rejects.
type Provider interface {
	Connect(ctx context.Context) (Account, error)
	Disconnect() error
	SignMessage(ctx context.Context, payload []byte) ([]byte, error)
}

// Manager passes calls through to a Provider and caches the session
type Manager struct {
	mu       sync.Mutex
	provider Provider
	store    storage.Store
}

func NewManager(provider Provider, store storage.Store) *Manager {
	if store == nil {
		store = storage.Noop{}
	}
	return &Manager{provider: provider, store: store}
}

// Session returns the cached session, or a disconnected one
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked()
}

func (m *Manager) loadLocked() Session {
	raw, ok := m.store.Get(SessionKey)
	if !ok || raw == "" {
		return Session{}
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		logger.Warn("Discarding unreadable wallet session", logger.Fields{"error": err.Error()})
		return Session{}
	}
	return s
}

// Connect asks the wallet for approval and caches the resulting session
func (m *Manager) Connect(ctx context.Context) (Session, error) {
	if m.provider == nil {
		return Session{}, ErrNotConnected
	}
	account, err := m.provider.Connect(ctx)
	if err != nil {
		return Session{}, err
	}

	s := Session{
		Connected:            true,
		PublicAddress:        account.PublicAddress,
		SmartWalletAuthority: account.SmartWalletAuthority,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveLocked(s)
	return s, nil
}

// Disconnect clears the cached session before returning. A provider error is
// logged; the session is cleared regardless.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.provider == nil {
		m.store.Remove(SessionKey)
		return
	}
	if err := m.provider.Disconnect(); err != nil {
		logger.Warn("Wallet disconnect failed", logger.Fields{"error": err.Error()})
	}
	m.store.Remove(SessionKey)
}

// SignMessage asks the wallet to sign payload
func (m *Manager) SignMessage(ctx context.Context, payload []byte) ([]byte, error) {
	if m.provider == nil {
		return nil, ErrNotConnected
	}
	return m.provider.SignMessage(ctx, payload)
}

func (m *Manager) saveLocked(s Session) {
	data, err := json.Marshal(s)
	if err != nil {
		logger.Warn("Failed to encode wallet session", logger.Fields{"error": err.Error()})
		return
	}
	m.store.Set(SessionKey, string(data))
}
