package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Approver asks the user to approve an action described by prompt
type Approver func(ctx context.Context, prompt string) (bool, error)

// KeypairProvider is a wallet over a local Solana keypair file
type KeypairProvider struct {
	key     solana.PrivateKey
	approve Approver
}

// NewKeypairProvider loads a solana-keygen JSON keypair. A nil approve
// approves every request.
func NewKeypairProvider(path string, approve Approver) (*KeypairProvider, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("load keypair %s: %w", path, err)
	}
	return NewKeypairProviderFromKey(key, approve), nil
}

func NewKeypairProviderFromKey(key solana.PrivateKey, approve Approver) *KeypairProvider {
	return &KeypairProvider{key: key, approve: approve}
}

func (p *KeypairProvider) PublicKey() solana.PublicKey {
	return p.key.PublicKey()
}

func (p *KeypairProvider) Connect(ctx context.Context) (Account, error) {
	address := p.key.PublicKey().String()
	if err := p.confirm(ctx, fmt.Sprintf("Connect wallet %s?", address)); err != nil {
		return Account{}, err
	}
	// A plain keypair authorizes for itself
	return Account{PublicAddress: address, SmartWalletAuthority: address}, nil
}

func (p *KeypairProvider) Disconnect() error {
	return nil
}

func (p *KeypairProvider) SignMessage(ctx context.Context, payload []byte) ([]byte, error) {
	if err := p.confirm(ctx, fmt.Sprintf("Sign %d byte message?", len(payload))); err != nil {
		return nil, err
	}
	sig, err := p.key.Sign(payload)
	if err != nil {
		return nil, fmt.Errorf("sign message: %w", err)
	}
	return sig[:], nil
}

func (p *KeypairProvider) confirm(ctx context.Context, prompt string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.approve == nil {
		return nil
	}
	ok, err := p.approve(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRejected
	}
	return nil
}

// ErrSigningUnavailable is returned by StaticProvider.SignMessage
var ErrSigningUnavailable = errors.New("signing happens in the browser wallet")

// StaticProvider represents an account the browser wallet already approved.
// It cannot sign.
type StaticProvider struct {
	account Account
}

// NewStaticProvider validates the addresses and returns a provider for them.
// An empty authority defaults to the public address.
func NewStaticProvider(publicAddress, authority string) (*StaticProvider, error) {
	if _, err := solana.PublicKeyFromBase58(publicAddress); err != nil {
		return nil, fmt.Errorf("invalid public address: %w", err)
	}
	if authority == "" {
		authority = publicAddress
	} else if _, err := solana.PublicKeyFromBase58(authority); err != nil {
		return nil, fmt.Errorf("invalid smart wallet authority: %w", err)
	}
	return &StaticProvider{account: Account{PublicAddress: publicAddress, SmartWalletAuthority: authority}}, nil
}

func (p *StaticProvider) Connect(ctx context.Context) (Account, error) {
	return p.account, ctx.Err()
}

func (p *StaticProvider) Disconnect() error {
	return nil
}

func (p *StaticProvider) SignMessage(ctx context.Context, payload []byte) ([]byte, error) {
	return nil, ErrSigningUnavailable
}
