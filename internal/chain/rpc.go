package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Backend is the subset of the Solana JSON-RPC API used by the service
type Backend interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendRawTransaction(ctx context.Context, raw []byte) (solana.Signature, error)
	SignatureStatus(ctx context.Context, sig solana.Signature) (*SignatureStatus, error)
	Balance(ctx context.Context, account solana.PublicKey) (uint64, error)
	MinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)
}

// SignatureStatus is the network's view of a submitted transaction.
// A nil status from Backend means the node has not seen the signature yet.
type SignatureStatus struct {
	Slot      uint64
	Confirmed bool   // confirmed or finalized
	Err       string // non-empty when the transaction failed on chain
}

// RPCBackend implements Backend over a JSON-RPC endpoint
type RPCBackend struct {
	client     *rpc.Client
	commitment rpc.CommitmentType
}

// NewRPCBackend connects to endpoint, e.g. https://api.devnet.solana.com
func NewRPCBackend(endpoint string) *RPCBackend {
	return &RPCBackend{
		client:     rpc.New(endpoint),
		commitment: rpc.CommitmentConfirmed,
	}
}

func (b *RPCBackend) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	res, err := b.client.GetLatestBlockhash(ctx, b.commitment)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("get latest blockhash: %w", err)
	}
	if res == nil || res.Value == nil {
		return solana.Hash{}, fmt.Errorf("get latest blockhash: empty response")
	}
	return res.Value.Blockhash, nil
}

func (b *RPCBackend) SendRawTransaction(ctx context.Context, raw []byte) (solana.Signature, error) {
	sig, err := b.client.SendRawTransaction(ctx, raw)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("send transaction: %w", err)
	}
	return sig, nil
}

func (b *RPCBackend) SignatureStatus(ctx context.Context, sig solana.Signature) (*SignatureStatus, error) {
	res, err := b.client.GetSignatureStatuses(ctx, false, sig)
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get signature status: %w", err)
	}
	if res == nil || len(res.Value) == 0 || res.Value[0] == nil {
		return nil, nil
	}

	st := res.Value[0]
	out := &SignatureStatus{
		Slot: st.Slot,
		Confirmed: st.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
			st.ConfirmationStatus == rpc.ConfirmationStatusFinalized,
	}
	if st.Err != nil {
		out.Err = fmt.Sprintf("%v", st.Err)
	}
	return out, nil
}

func (b *RPCBackend) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	res, err := b.client.GetBalance(ctx, account, b.commitment)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return res.Value, nil
}

func (b *RPCBackend) MinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	lamports, err := b.client.GetMinimumBalanceForRentExemption(ctx, size, b.commitment)
	if err != nil {
		return 0, fmt.Errorf("get rent exemption: %w", err)
	}
	return lamports, nil
}
