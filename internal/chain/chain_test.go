package chain

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeBackend records submitted transactions and replays scripted statuses
type fakeBackend struct {
	mu        sync.Mutex
	blockhash solana.Hash
	sendErr   error
	statuses  []*SignatureStatus
	statusErr error
	polls     int
	sent      [][]byte
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		blockhash: solana.HashFromBytes(make32(7)),
		statuses:  []*SignatureStatus{{Confirmed: true}},
	}
}

func make32(b byte) []byte {
	out := make([]byte, 32)
	for i := range out {
		out[i] = b
	}
	return out
}

func (f *fakeBackend) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	return f.blockhash, nil
}

func (f *fakeBackend) SendRawTransaction(ctx context.Context, raw []byte) (solana.Signature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return solana.Signature{}, f.sendErr
	}
	f.sent = append(f.sent, raw)
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil || len(tx.Signatures) == 0 {
		return solana.Signature{}, errors.New("malformed transaction")
	}
	return tx.Signatures[0], nil
}

func (f *fakeBackend) SignatureStatus(ctx context.Context, sig solana.Signature) (*SignatureStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if len(f.statuses) == 0 {
		return nil, nil
	}
	st := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return st, nil
}

func (f *fakeBackend) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	return 5 * LamportsPerSOL, nil
}

func (f *fakeBackend) MinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	return 1461600, nil
}

func decodeTx(t *testing.T, raw []byte) *solana.Transaction {
	t.Helper()
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	require.NoError(t, err)
	return tx
}

func TestDecodeSignature(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	sig, err := key.Sign([]byte("hello"))
	require.NoError(t, err)

	fromB64, err := DecodeSignature(EncodeSignature(sig))
	require.NoError(t, err)
	assert.Equal(t, sig, fromB64)

	fromB58, err := DecodeSignature(sig.String())
	require.NoError(t, err)
	assert.Equal(t, sig, fromB58)

	_, err = DecodeSignature("")
	assert.ErrorIs(t, err, ErrInvalidSignatureEncoding)

	_, err = DecodeSignature("c2hvcnQ=")
	assert.ErrorIs(t, err, ErrInvalidSignatureEncoding)
}

func TestVerifyMessage(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	other, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	msg := []byte("ArtisanHub mint: Fox")
	sig, err := key.Sign(msg)
	require.NoError(t, err)

	assert.True(t, VerifyMessage(key.PublicKey(), msg, sig))
	assert.False(t, VerifyMessage(other.PublicKey(), msg, sig))
	assert.False(t, VerifyMessage(key.PublicKey(), []byte("tampered"), sig))
}

func TestParsePublicKey(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	pk, err := ParsePublicKey(" " + key.PublicKey().String() + " ")
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), pk)

	_, err = ParsePublicKey("")
	assert.Error(t, err)
	_, err = ParsePublicKey("not-a-key")
	assert.Error(t, err)
}

func TestLoadIdentity(t *testing.T) {
	generated, isNew, err := LoadIdentity("")
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Len(t, generated, 64)

	loaded, isNew, err := LoadIdentity(generated.String())
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, generated.PublicKey(), loaded.PublicKey())

	_, _, err = LoadIdentity("%%%")
	assert.Error(t, err)
}

func TestBuildTransfer(t *testing.T) {
	from, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	to, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	blockhash := solana.HashFromBytes(make32(9))

	tx, err := BuildTransfer(from.PublicKey(), to.PublicKey(), 1_500_000_000, blockhash)
	require.NoError(t, err)

	assert.Equal(t, blockhash, tx.Message.RecentBlockhash)
	assert.Equal(t, from.PublicKey(), tx.Message.AccountKeys[0])
	require.Len(t, tx.Message.Instructions, 1)

	ix := tx.Message.Instructions[0]
	program := tx.Message.AccountKeys[ix.ProgramIDIndex]
	assert.Equal(t, solana.SystemProgramID, program)

	data := []byte(ix.Data)
	require.Len(t, data, 12)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[:4]))
	assert.Equal(t, uint64(1_500_000_000), binary.LittleEndian.Uint64(data[4:]))

	// Rebuilding with the same inputs yields the same message bytes
	again, err := BuildTransfer(from.PublicKey(), to.PublicKey(), 1_500_000_000, blockhash)
	require.NoError(t, err)
	msgA, err := TransferMessage(tx)
	require.NoError(t, err)
	msgB, err := TransferMessage(again)
	require.NoError(t, err)
	assert.Equal(t, msgA, msgB)

	sig, err := from.Sign(msgA)
	require.NoError(t, err)
	AttachSignature(tx, sig)
	assert.NoError(t, tx.VerifySignatures())
}

func TestConfirmer_Confirms(t *testing.T) {
	backend := newFakeBackend()
	backend.statuses = []*SignatureStatus{nil, {Confirmed: false}, {Confirmed: true}}

	c := NewConfirmer(backend, time.Millisecond, time.Second)
	require.NoError(t, c.Wait(context.Background(), solana.Signature{1}))
	assert.Equal(t, 3, backend.polls)
}

func TestConfirmer_Timeout(t *testing.T) {
	backend := newFakeBackend()
	backend.statuses = nil

	c := NewConfirmer(backend, 5*time.Millisecond, 30*time.Millisecond)
	err := c.Wait(context.Background(), solana.Signature{1})
	assert.ErrorIs(t, err, ErrConfirmationTimeout)
}

func TestConfirmer_KeepsPollingThroughRPCErrors(t *testing.T) {
	backend := newFakeBackend()
	backend.statusErr = errors.New("node unavailable")

	c := NewConfirmer(backend, 5*time.Millisecond, 30*time.Millisecond)
	err := c.Wait(context.Background(), solana.Signature{1})
	assert.ErrorIs(t, err, ErrConfirmationTimeout)
	assert.Greater(t, backend.polls, 1)
}

func TestConfirmer_TransactionError(t *testing.T) {
	backend := newFakeBackend()
	backend.statuses = []*SignatureStatus{{Err: "InsufficientFundsForFee"}}

	c := NewConfirmer(backend, time.Millisecond, time.Second)
	err := c.Wait(context.Background(), solana.Signature{1})
	assert.ErrorIs(t, err, ErrTransactionFailed)
	assert.Contains(t, err.Error(), "InsufficientFundsForFee")
}

func TestConfirmer_ContextCanceled(t *testing.T) {
	backend := newFakeBackend()
	backend.statuses = nil

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewConfirmer(backend, time.Millisecond, time.Second)
	err := c.Wait(ctx, solana.Signature{1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSubmitter_SendFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.sendErr = errors.New("blockhash not found")
	s := NewSubmitter(backend, NewConfirmer(backend, time.Millisecond, time.Second))

	from, _ := solana.NewRandomPrivateKey()
	tx, err := BuildTransfer(from.PublicKey(), solana.SystemProgramID, 1, backend.blockhash)
	require.NoError(t, err)
	AttachSignature(tx, solana.Signature{})

	_, err = s.Submit(context.Background(), "transfer", tx)
	assert.ErrorContains(t, err, "blockhash not found")
	assert.Equal(t, 0, backend.polls)
}

func TestMetadataInstructionEncoding(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	creator := solana.NewWallet().PublicKey()
	payer := solana.NewWallet().PublicKey()

	metadata, err := MetadataAddress(mint)
	require.NoError(t, err)

	ix, err := NewCreateMetadataAccountV3Instruction(metadata, mint, payer, payer, payer, TokenMetadata{
		Name:                 "Fox",
		Symbol:               "ART",
		URI:                  "https://cdn.example/meta.json",
		SellerFeeBasisPoints: 500,
		Creators:             []Creator{{Address: creator, Share: 100}},
	})
	require.NoError(t, err)
	assert.Equal(t, TokenMetadataProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, instructionCreateMetadataAccountV3, data[0])
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(data[1:5]))
	assert.Equal(t, "Fox", string(data[5:8]))

	// name(4+3) symbol(4+3) uri(4+29) fee(2) creators(1+4+34) collection uses mutable details(4)
	assert.Len(t, data, 1+7+7+33+2+39+4)
	feeAt := 1 + 7 + 7 + 33
	assert.Equal(t, uint16(500), binary.LittleEndian.Uint16(data[feeAt:feeAt+2]))
	creatorAt := feeAt + 2 + 1 + 4
	assert.Equal(t, creator.Bytes(), data[creatorAt:creatorAt+32])
	assert.Equal(t, byte(0), data[creatorAt+32], "creator unverified")
	assert.Equal(t, byte(100), data[creatorAt+33])
	assert.Equal(t, []byte{0, 0, 1, 0}, data[len(data)-4:])
}

func TestMetadataInstructionRejectsLongName(t *testing.T) {
	_, err := NewCreateMetadataAccountV3Instruction(
		solana.PublicKey{}, solana.PublicKey{}, solana.PublicKey{}, solana.PublicKey{}, solana.PublicKey{},
		TokenMetadata{Name: "a name that is far longer than thirty-two bytes"},
	)
	assert.ErrorContains(t, err, "name exceeds 32 bytes")
}

func TestMasterEditionInstructionEncoding(t *testing.T) {
	ix, err := NewCreateMasterEditionV3Instruction(
		solana.PublicKey{}, solana.PublicKey{}, solana.PublicKey{}, solana.PublicKey{}, solana.PublicKey{}, solana.PublicKey{}, 0,
	)
	require.NoError(t, err)
	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{17, 1, 0, 0, 0, 0, 0, 0, 0, 0}, data)
}

func TestMinter_CreateNFT(t *testing.T) {
	backend := newFakeBackend()
	payer, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	owner := solana.NewWallet().PublicKey()

	minter := NewMinter(NewSubmitter(backend, NewConfirmer(backend, time.Millisecond, time.Second)), payer)

	params := NFTParams{
		Metadata: TokenMetadata{
			Name:                 "Fox",
			Symbol:               "ART",
			URI:                  "memory://meta.json",
			SellerFeeBasisPoints: 500,
			Creators:             []Creator{{Address: owner, Share: 100}},
		},
		Owner: owner,
	}

	first, err := minter.CreateNFT(context.Background(), params)
	require.NoError(t, err)
	second, err := minter.CreateNFT(context.Background(), params)
	require.NoError(t, err)
	assert.NotEqual(t, first.Mint, second.Mint)

	require.Len(t, backend.sent, 2)
	tx := decodeTx(t, backend.sent[0])
	assert.NoError(t, tx.VerifySignatures())
	assert.Len(t, tx.Signatures, 2)
	assert.Equal(t, payer.PublicKey(), tx.Message.AccountKeys[0])
	assert.Equal(t, first.Signature, tx.Signatures[0])

	var programs []solana.PublicKey
	for _, ix := range tx.Message.Instructions {
		programs = append(programs, tx.Message.AccountKeys[ix.ProgramIDIndex])
	}
	assert.Equal(t, []solana.PublicKey{
		solana.SystemProgramID,
		solana.TokenProgramID,
		solana.SPLAssociatedTokenAccountProgramID,
		solana.TokenProgramID,
		TokenMetadataProgramID,
		TokenMetadataProgramID,
	}, programs)

	expectedATA, _, err := solana.FindAssociatedTokenAddress(owner, first.Mint)
	require.NoError(t, err)
	assert.Equal(t, expectedATA, first.TokenAccount)
}

func TestMinter_ConfirmationTimeout(t *testing.T) {
	backend := newFakeBackend()
	backend.statuses = nil
	payer, _ := solana.NewRandomPrivateKey()

	minter := NewMinter(NewSubmitter(backend, NewConfirmer(backend, 5*time.Millisecond, 20*time.Millisecond)), payer)
	_, err := minter.CreateNFT(context.Background(), NFTParams{
		Metadata: TokenMetadata{Name: "Fox", Symbol: "ART"},
		Owner:    solana.NewWallet().PublicKey(),
	})
	assert.ErrorIs(t, err, ErrConfirmationTimeout)
}
