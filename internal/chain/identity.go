package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/artisanhub/artisanhub-api/internal/logger"
	"github.com/gagliardetto/solana-go"
)

// LoadIdentity parses the server keypair from its base58 secret. An empty
// secret generates an ephemeral keypair, which must be funded before minting.
func LoadIdentity(secret string) (solana.PrivateKey, bool, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		key, err := solana.NewRandomPrivateKey()
		if err != nil {
			return nil, false, fmt.Errorf("generate server keypair: %w", err)
		}
		return key, true, nil
	}

	key, err := solana.PrivateKeyFromBase58(secret)
	if err != nil {
		return nil, false, fmt.Errorf("parse server keypair: %w", err)
	}
	if len(key) != 64 {
		return nil, false, fmt.Errorf("parse server keypair: expected 64 bytes, got %d", len(key))
	}
	return key, false, nil
}

// ReportIdentity logs the server address and, when reachable, its balance
func ReportIdentity(ctx context.Context, backend Backend, key solana.PrivateKey, generated bool) {
	address := key.PublicKey().String()
	fields := logger.Fields{"address": address}

	if generated {
		logger.Warn("SERVER_KEYPAIR not set, using an ephemeral identity; fund this address before minting", fields)
	}

	balance, err := backend.Balance(ctx, key.PublicKey())
	if err != nil {
		fields["error"] = err.Error()
		logger.Warn("Could not read server identity balance", fields)
		return
	}
	fields["lamports"] = balance
	logger.Info("Server identity ready", fields)
}
