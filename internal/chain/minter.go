package chain

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
)

// mintAccountSize is the byte size of an SPL token mint account
const mintAccountSize = 82

// NFTParams describes a one-of-one NFT
type NFTParams struct {
	Metadata TokenMetadata
	Owner    solana.PublicKey // receives the single token
}

// NFTResult identifies a minted NFT
type NFTResult struct {
	Mint         solana.PublicKey
	TokenAccount solana.PublicKey
	Signature    solana.Signature
}

// Minter creates NFTs paid for and signed by the server identity
type Minter struct {
	submitter *Submitter
	payer     solana.PrivateKey
	newMint   func() (solana.PrivateKey, error)
}

// NewMinter creates a minter with payer as fee payer, mint authority and update authority
func NewMinter(submitter *Submitter, payer solana.PrivateKey) *Minter {
	return &Minter{
		submitter: submitter,
		payer:     payer,
		newMint:   solana.NewRandomPrivateKey,
	}
}

// Payer returns the server identity address
func (m *Minter) Payer() solana.PublicKey {
	return m.payer.PublicKey()
}

// CreateNFT creates a fresh mint, mints one token to the owner and attaches
// metadata and a master edition, all in one confirmed transaction.
func (m *Minter) CreateNFT(ctx context.Context, params NFTParams) (*NFTResult, error) {
	mintKey, err := m.newMint()
	if err != nil {
		return nil, fmt.Errorf("generate mint keypair: %w", err)
	}

	tx, tokenAccount, err := m.buildTransaction(ctx, mintKey.PublicKey(), params)
	if err != nil {
		return nil, err
	}

	payer := m.payer
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		switch {
		case key.Equals(payer.PublicKey()):
			return &payer
		case key.Equals(mintKey.PublicKey()):
			return &mintKey
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("sign mint transaction: %w", err)
	}

	sig, err := m.submitter.Submit(ctx, "mint_nft", tx)
	if err != nil {
		return nil, fmt.Errorf("mint nft %s: %w", mintKey.PublicKey(), err)
	}

	return &NFTResult{
		Mint:         mintKey.PublicKey(),
		TokenAccount: tokenAccount,
		Signature:    sig,
	}, nil
}

func (m *Minter) buildTransaction(ctx context.Context, mint solana.PublicKey, params NFTParams) (*solana.Transaction, solana.PublicKey, error) {
	backend := m.submitter.Backend()
	payer := m.payer.PublicKey()

	rent, err := backend.MinimumBalanceForRentExemption(ctx, mintAccountSize)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	blockhash, err := backend.LatestBlockhash(ctx)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	tokenAccount, _, err := solana.FindAssociatedTokenAddress(params.Owner, mint)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("derive token account: %w", err)
	}
	metadata, err := MetadataAddress(mint)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	edition, err := MasterEditionAddress(mint)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	createMetadata, err := NewCreateMetadataAccountV3Instruction(metadata, mint, payer, payer, payer, params.Metadata)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	createEdition, err := NewCreateMasterEditionV3Instruction(edition, mint, payer, payer, payer, metadata, 0)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	instructions := []solana.Instruction{
		system.NewCreateAccountInstruction(rent, mintAccountSize, solana.TokenProgramID, payer, mint).Build(),
		token.NewInitializeMintInstruction(0, payer, payer, mint, solana.SysVarRentPubkey).Build(),
		associatedtokenaccount.NewCreateInstruction(payer, params.Owner, mint).Build(),
		token.NewMintToInstruction(1, mint, tokenAccount, payer, nil).Build(),
		createMetadata,
		createEdition,
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("build mint transaction: %w", err)
	}
	return tx, tokenAccount, nil
}
