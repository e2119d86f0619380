package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artisanhub/artisanhub-api/internal/apperrors"
	"github.com/artisanhub/artisanhub-api/internal/chain"
	"github.com/artisanhub/artisanhub-api/internal/logger"
	"github.com/artisanhub/artisanhub-api/internal/metrics"
	"github.com/gagliardetto/solana-go"
)

const transferFailedMessage = "Failed to transfer tokens"

// TransactionSubmitter sends transactions and waits for confirmation.
// *chain.Submitter implements it.
type TransactionSubmitter interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	Submit(ctx context.Context, operation string, tx *solana.Transaction) (solana.Signature, error)
}

// TransferInput is a transfer request as received from clients
type TransferInput struct {
	From            string
	To              string
	Amount          string // decimal SOL
	Signature       string
	RecentBlockhash string // blockhash the client signed against; latest if empty
}

// TransferResult is a confirmed transfer
type TransferResult struct {
	TransactionID string
	Lamports      uint64
}

// TransferService submits SOL transfers signed by the sender
type TransferService struct {
	submitter TransactionSubmitter
	metrics   metrics.Recorder
}

func NewTransferService(submitter TransactionSubmitter, recorder metrics.Recorder) *TransferService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &TransferService{submitter: submitter, metrics: recorder}
}

// Transfer rebuilds the transfer message, attaches the sender's signature
// and submits it once. Confirmation is awaited for a bounded time.
func (s *TransferService) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if strings.TrimSpace(in.From) == "" || strings.TrimSpace(in.To) == "" ||
		strings.TrimSpace(in.Amount) == "" || strings.TrimSpace(in.Signature) == "" {
		return nil, apperrors.MissingFields("From, to, amount, and signature are required")
	}

	from, err := chain.ParsePublicKey(in.From)
	if err != nil {
		return nil, apperrors.InvalidPublicKey("Invalid public key", fmt.Errorf("from: %w", err))
	}
	to, err := chain.ParsePublicKey(in.To)
	if err != nil {
		return nil, apperrors.InvalidPublicKey("Invalid public key", fmt.Errorf("to: %w", err))
	}

	lamports, err := ParseLamports(in.Amount)
	if err != nil {
		return nil, apperrors.InvalidValue("Invalid amount", err)
	}

	sig, err := chain.DecodeSignature(in.Signature)
	if err != nil {
		return nil, apperrors.InvalidSignature("Invalid signature encoding")
	}

	var blockhash solana.Hash
	if in.RecentBlockhash != "" {
		blockhash, err = solana.HashFromBase58(in.RecentBlockhash)
		if err != nil {
			return nil, apperrors.InvalidValue("Invalid recent blockhash", err)
		}
	} else {
		blockhash, err = s.submitter.LatestBlockhash(ctx)
		if err != nil {
			logger.Error("Failed to fetch blockhash", err, nil)
			return nil, apperrors.Upstream(transferFailedMessage, err)
		}
	}

	tx, err := chain.BuildTransfer(from, to, lamports, blockhash)
	if err != nil {
		return nil, apperrors.Upstream(transferFailedMessage, err)
	}
	chain.AttachSignature(tx, sig)
	if err := tx.VerifySignatures(); err != nil {
		details := "signature must cover the transfer message built from from, to, amount and recentBlockhash"
		if in.RecentBlockhash == "" {
			details = "recentBlockhash is missing; sign the transfer against a recent blockhash and send that blockhash as recentBlockhash"
		}
		return nil, apperrors.SignatureMismatch("Signature does not match the transfer", details)
	}

	start := time.Now()
	txid, err := s.submitter.Submit(ctx, "transfer", tx)
	duration := time.Since(start)

	fields := logger.Fields{
		"from":        from.String(),
		"to":          to.String(),
		"lamports":    lamports,
		"duration_ms": duration.Milliseconds(),
	}
	if err != nil {
		if errors.Is(err, chain.ErrConfirmationTimeout) {
			s.metrics.RecordChainOperation(ctx, "transfer", metrics.OutcomeTimeout, duration)
			fields["txid"] = txid.String()
			logger.Warn("Transfer not confirmed in time", fields)
			return nil, apperrors.Timeout(fmt.Sprintf("Transfer %s not confirmed", txid), err)
		}
		s.metrics.RecordChainOperation(ctx, "transfer", metrics.OutcomeFailed, duration)
		logger.Error("Transfer failed", err, fields)
		return nil, apperrors.Upstream(transferFailedMessage, err)
	}

	s.metrics.RecordChainOperation(ctx, "transfer", metrics.OutcomeSuccess, duration)
	fields["txid"] = txid.String()
	logger.Info("Transfer confirmed", fields)

	return &TransferResult{TransactionID: txid.String(), Lamports: lamports}, nil
}
