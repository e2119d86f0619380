package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/artisanhub/artisanhub-api/internal/logger"
	"github.com/gagliardetto/solana-go"
)

var (
	// ErrConfirmationTimeout means the network did not confirm within the configured bound
	ErrConfirmationTimeout = errors.New("transaction not confirmed before timeout")
	// ErrTransactionFailed means the network processed the transaction with an error
	ErrTransactionFailed = errors.New("transaction failed")
)

// Confirmer waits for signatures to reach confirmed commitment
type Confirmer struct {
	backend  Backend
	interval time.Duration
	timeout  time.Duration
}

// NewConfirmer creates a confirmer polling every interval for at most timeout
func NewConfirmer(backend Backend, interval, timeout time.Duration) *Confirmer {
	return &Confirmer{
		backend:  backend,
		interval: interval,
		timeout:  timeout,
	}
}

// Wait blocks until sig is confirmed, fails on chain, or the timeout elapses.
// Transient RPC errors while polling are logged and polling continues.
func (c *Confirmer) Wait(ctx context.Context, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		status, err := c.backend.SignatureStatus(ctx, sig)
		switch {
		case err != nil:
			if ctx.Err() == nil {
				logger.Warn("Signature status poll failed", logger.Fields{
					"signature": sig.String(),
					"error":     err.Error(),
				})
			}
		case status == nil:
		case status.Err != "":
			return fmt.Errorf("%w: %s", ErrTransactionFailed, status.Err)
		case status.Confirmed:
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s after %v", ErrConfirmationTimeout, sig, c.timeout)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
