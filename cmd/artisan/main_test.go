package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/artisanhub/artisanhub-api/internal/chain"
	"github.com/artisanhub/artisanhub-api/internal/wallet"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignTransfer(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	signer := wallet.NewKeypairProviderFromKey(key, nil)
	recipient := solana.NewWallet().PublicKey()
	blockhash := solana.Hash{5}

	req, err := signTransfer(context.Background(), signer,
		func(context.Context) (solana.Hash, error) { return blockhash, nil },
		key.PublicKey().String(), recipient.String(), " 0.5 ")
	require.NoError(t, err)
	assert.Equal(t, "0.5", req.Amount.String())
	assert.Equal(t, blockhash.String(), req.RecentBlockhash)

	// the server rebuilds the same message and the signature must verify
	tx, err := chain.BuildTransfer(key.PublicKey(), recipient, 500_000_000, blockhash)
	require.NoError(t, err)
	sig, err := chain.DecodeSignature(req.Signature)
	require.NoError(t, err)
	chain.AttachSignature(tx, sig)
	assert.NoError(t, tx.VerifySignatures())
}

func TestSignTransferErrors(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	signer := wallet.NewKeypairProviderFromKey(key, nil)
	latest := func(context.Context) (solana.Hash, error) { return solana.Hash{}, nil }
	to := solana.NewWallet().PublicKey().String()

	_, err = signTransfer(context.Background(), signer, latest, "bogus", to, "1")
	assert.Error(t, err)

	_, err = signTransfer(context.Background(), signer, latest, key.PublicKey().String(), to, "-1")
	assert.Error(t, err)

	failing := func(context.Context) (solana.Hash, error) { return solana.Hash{}, errors.New("rpc down") }
	_, err = signTransfer(context.Background(), signer, failing, key.PublicKey().String(), to, "1")
	assert.ErrorContains(t, err, "rpc down")

	rejecting := wallet.NewKeypairProviderFromKey(key, func(context.Context, string) (bool, error) { return false, nil })
	_, err = signTransfer(context.Background(), rejecting, latest, key.PublicKey().String(), to, "1")
	assert.ErrorIs(t, err, wallet.ErrRejected)
}

func TestTerminalApprover(t *testing.T) {
	var out bytes.Buffer
	approve := terminalApprover(strings.NewReader("y\nno\n"), &out)

	ok, err := approve(context.Background(), "Connect?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Connect? [y/N]")

	ok, err = approve(context.Background(), "Sign?")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = approve(context.Background(), "Again?")
	require.NoError(t, err)
	assert.False(t, ok, "EOF means no")
}

func TestDecodeDataURL(t *testing.T) {
	raw := []byte("png")
	encoded := base64.StdEncoding.EncodeToString(raw)

	got, err := decodeDataURL("data:image/png;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = decodeDataURL(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	_, err = decodeDataURL("data:image/png;base64,%%%")
	assert.Error(t, err)
}

func TestMintMessage(t *testing.T) {
	assert.Equal(t, "ArtisanHub mint: Fox", mintMessage("Fox"))
}
