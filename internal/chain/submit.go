package chain

import (
	"context"
	"fmt"

	"github.com/artisanhub/artisanhub-api/internal/logger"
	"github.com/gagliardetto/solana-go"
)

// Submitter sends signed transactions and waits for confirmation
type Submitter struct {
	backend   Backend
	confirmer *Confirmer
}

// NewSubmitter creates a submitter over backend
func NewSubmitter(backend Backend, confirmer *Confirmer) *Submitter {
	return &Submitter{backend: backend, confirmer: confirmer}
}

// Backend returns the RPC backend used for submission
func (s *Submitter) Backend() Backend {
	return s.backend
}

// Submit serializes tx, sends it once and waits for confirmation. The
// returned signature is valid even when confirmation fails, so callers can
// report it.
func (s *Submitter) Submit(ctx context.Context, operation string, tx *solana.Transaction) (solana.Signature, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("serialize transaction: %w", err)
	}

	sig, err := s.backend.SendRawTransaction(ctx, raw)
	if err != nil {
		return solana.Signature{}, err
	}
	logger.LogChainSubmission(operation, sig.String(), nil)

	if err := s.confirmer.Wait(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

// LatestBlockhash returns the blockhash new transactions should anchor to
func (s *Submitter) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	return s.backend.LatestBlockhash(ctx)
}
