package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/artisanhub/artisanhub-api/internal/api/handlers"
	"github.com/artisanhub/artisanhub-api/internal/chain"
	"github.com/artisanhub/artisanhub-api/internal/services"
	"github.com/gagliardetto/solana-go"
)

// messageSigner is the part of the wallet manager a transfer needs
type messageSigner interface {
	SignMessage(ctx context.Context, payload []byte) ([]byte, error)
}

type blockhashFunc func(ctx context.Context) (solana.Hash, error)

func blockhashSource(endpoint string) blockhashFunc {
	return chain.NewRPCBackend(endpoint).LatestBlockhash
}

// signTransfer builds the same transfer message the server rebuilds, has the
// wallet sign it and returns the request carrying signature and blockhash.
func signTransfer(ctx context.Context, signer messageSigner, latest blockhashFunc, from, to, amount string) (*handlers.TransferRequest, error) {
	fromKey, err := chain.ParsePublicKey(from)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	toKey, err := chain.ParsePublicKey(to)
	if err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	lamports, err := services.ParseLamports(amount)
	if err != nil {
		return nil, err
	}

	blockhash, err := latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch blockhash: %w", err)
	}
	tx, err := chain.BuildTransfer(fromKey, toKey, lamports, blockhash)
	if err != nil {
		return nil, err
	}
	msg, err := chain.TransferMessage(tx)
	if err != nil {
		return nil, err
	}

	raw, err := signer.SignMessage(ctx, msg)
	if err != nil {
		return nil, err
	}
	if len(raw) != solana.SignatureLength {
		return nil, fmt.Errorf("wallet returned a %d byte signature", len(raw))
	}

	return &handlers.TransferRequest{
		From:            from,
		To:              to,
		Amount:          json.Number(strings.TrimSpace(amount)),
		Signature:       chain.EncodeSignature(solana.SignatureFromBytes(raw)),
		RecentBlockhash: blockhash.String(),
	}, nil
}
