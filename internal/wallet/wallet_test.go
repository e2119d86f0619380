package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/artisanhub/artisanhub-api/internal/storage"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore map[string]string

func (m mapStore) Get(k string) (string, bool) { v, ok := m[k]; return v, ok }
func (m mapStore) Set(k, v string) { m[k] = v }
func (m mapStore) Remove(k string) { delete(m, k) }

type fakeProvider struct {
	account       Account
	connectErr    error
	disconnectErr error
	disconnects   int
}

func (f *fakeProvider) Connect(ctx context.Context) (Account, error) {
	return f.account, f.connectErr
}

func (f *fakeProvider) Disconnect() error {
	f.disconnects++
	return f.disconnectErr
}

func (f *fakeProvider) SignMessage(ctx context.Context, payload []byte) ([]byte, error) {
	return append([]byte("signed:"), payload...), nil
}

func TestManager_ConnectCachesSession(t *testing.T) {
	store := mapStore{}
	provider := &fakeProvider{account: Account{PublicAddress: "addr", SmartWalletAuthority: "auth"}}
	m := NewManager(provider, store)

	assert.Equal(t, Session{}, m.Session())

	s, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Session{Connected: true, PublicAddress: "addr", SmartWalletAuthority: "auth"}, s)

	var cached Session
	require.NoError(t, json.Unmarshal([]byte(store[SessionKey]), &cached))
	assert.Equal(t, s, cached)

	// A new manager over the same store restores the session
	assert.Equal(t, s, NewManager(provider, store).Session())
}

func TestManager_ConnectRejected(t *testing.T) {
	store := mapStore{}
	m := NewManager(&fakeProvider{connectErr: ErrRejected}, store)

	_, err := m.Connect(context.Background())
	assert.ErrorIs(t, err, ErrRejected)
	assert.Empty(t, store)
}

func TestManager_DisconnectClearsEvenOnProviderError(t *testing.T) {
	store := mapStore{SessionKey: `{"connected":true,"publicAddress":"addr"}`}
	provider := &fakeProvider{disconnectErr: errors.New("extension gone")}
	m := NewManager(provider, store)

	m.Disconnect()
	assert.Equal(t, 1, provider.disconnects)
	assert.NotContains(t, store, SessionKey)
	assert.False(t, m.Session().Connected)
}

func TestManager_CorruptSession(t *testing.T) {
	m := NewManager(&fakeProvider{}, mapStore{SessionKey: "{"})
	assert.Equal(t, Session{}, m.Session())
}

func TestManager_NilStoreIsNoop(t *testing.T) {
	m := NewManager(&fakeProvider{account: Account{PublicAddress: "a"}}, nil)
	_, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.False(t, m.Session().Connected)
}

func TestManager_SignMessagePassesThrough(t *testing.T) {
	m := NewManager(&fakeProvider{}, storage.Noop{})
	sig, err := m.SignMessage(context.Background(), []byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, []byte("signed:hi"), sig)
}

func TestKeypairProvider(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	data, _ := json.Marshal(ints)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	p, err := NewKeypairProvider(path, nil)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), p.PublicKey())

	account, err := p.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey().String(), account.PublicAddress)
	assert.Equal(t, account.PublicAddress, account.SmartWalletAuthority)

	msg := []byte("ArtisanHub mint: Fox")
	raw, err := p.SignMessage(context.Background(), msg)
	require.NoError(t, err)
	require.Len(t, raw, 64)
	assert.True(t, solana.SignatureFromBytes(raw).Verify(key.PublicKey(), msg))
}

func TestKeypairProvider_Rejected(t *testing.T) {
	key, _ := solana.NewRandomPrivateKey()
	p := NewKeypairProviderFromKey(key, func(ctx context.Context, prompt string) (bool, error) {
		return false, nil
	})

	_, err := p.Connect(context.Background())
	assert.ErrorIs(t, err, ErrRejected)
	_, err = p.SignMessage(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrRejected)
}

func TestKeypairProvider_MissingFile(t *testing.T) {
	_, err := NewKeypairProvider(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}

func TestStaticProvider(t *testing.T) {
	addr := solana.NewWallet().PublicKey().String()

	p, err := NewStaticProvider(addr, "")
	require.NoError(t, err)
	account, err := p.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, addr, account.SmartWalletAuthority)

	_, err = p.SignMessage(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrSigningUnavailable)

	_, err = NewStaticProvider("bogus", "")
	assert.Error(t, err)
	_, err = NewStaticProvider(addr, "bogus")
	assert.Error(t, err)
}
