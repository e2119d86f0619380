package chain

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// TokenMetadataProgramID is the Metaplex Token Metadata program
var TokenMetadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

const (
	instructionCreateMetadataAccountV3 uint8 = 33
	instructionCreateMasterEditionV3   uint8 = 17

	maxNameLength   = 32
	maxSymbolLength = 10
	maxURILength    = 200
)

// Creator is one entry of the on-chain creators list
type Creator struct {
	Address  solana.PublicKey
	Verified bool
	Share    uint8
}

// TokenMetadata is the DataV2 payload of a metadata account
type TokenMetadata struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             []Creator
}

func (m TokenMetadata) validate() error {
	if len(m.Name) > maxNameLength {
		return fmt.Errorf("name exceeds %d bytes", maxNameLength)
	}
	if len(m.Symbol) > maxSymbolLength {
		return fmt.Errorf("symbol exceeds %d bytes", maxSymbolLength)
	}
	if len(m.URI) > maxURILength {
		return fmt.Errorf("uri exceeds %d bytes", maxURILength)
	}
	if m.SellerFeeBasisPoints > 10000 {
		return fmt.Errorf("seller fee basis points exceeds 10000")
	}
	if len(m.Creators) > 0 {
		total := 0
		for _, c := range m.Creators {
			total += int(c.Share)
		}
		if total != 100 {
			return fmt.Errorf("creator shares must add up to 100, got %d", total)
		}
	}
	return nil
}

// MetadataAddress derives the metadata PDA of mint
func MetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("metadata"), TokenMetadataProgramID.Bytes(), mint.Bytes()},
		TokenMetadataProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive metadata address: %w", err)
	}
	return addr, nil
}

// MasterEditionAddress derives the master edition PDA of mint
func MasterEditionAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("metadata"), TokenMetadataProgramID.Bytes(), mint.Bytes(), []byte("edition")},
		TokenMetadataProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive master edition address: %w", err)
	}
	return addr, nil
}

// NewCreateMetadataAccountV3Instruction builds a mutable metadata account
// without collection, uses or collection details.
func NewCreateMetadataAccountV3Instruction(
	metadata, mint, mintAuthority, payer, updateAuthority solana.PublicKey,
	data TokenMetadata,
) (solana.Instruction, error) {
	if err := data.validate(); err != nil {
		return nil, fmt.Errorf("invalid token metadata: %w", err)
	}

	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	steps := []func() error{
		func() error { return enc.WriteUint8(instructionCreateMetadataAccountV3) },
		func() error { return writeBorshString(enc, data.Name) },
		func() error { return writeBorshString(enc, data.Symbol) },
		func() error { return writeBorshString(enc, data.URI) },
		func() error { return enc.WriteUint16(data.SellerFeeBasisPoints, binary.LittleEndian) },
		func() error { return writeCreators(enc, data.Creators) },
		func() error { return enc.WriteBool(false) }, // collection: None
		func() error { return enc.WriteBool(false) }, // uses: None
		func() error { return enc.WriteBool(true) },  // is_mutable
		func() error { return enc.WriteBool(false) }, // collection_details: None
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, fmt.Errorf("encode metadata instruction: %w", err)
		}
	}

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(metadata, true, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(mintAuthority, false, true),
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(updateAuthority, false, true),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.SysVarRentPubkey, false, false),
	}
	return solana.NewInstruction(TokenMetadataProgramID, accounts, buf.Bytes()), nil
}

// NewCreateMasterEditionV3Instruction turns mint into a one-of-one master
// edition. maxSupply 0 forbids printing editions.
func NewCreateMasterEditionV3Instruction(
	edition, mint, updateAuthority, mintAuthority, payer, metadata solana.PublicKey,
	maxSupply uint64,
) (solana.Instruction, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteUint8(instructionCreateMasterEditionV3); err != nil {
		return nil, fmt.Errorf("encode master edition instruction: %w", err)
	}
	if err := enc.WriteBool(true); err != nil {
		return nil, fmt.Errorf("encode master edition instruction: %w", err)
	}
	if err := enc.WriteUint64(maxSupply, binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("encode master edition instruction: %w", err)
	}

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(edition, true, false),
		solana.NewAccountMeta(mint, true, false),
		solana.NewAccountMeta(updateAuthority, false, true),
		solana.NewAccountMeta(mintAuthority, false, true),
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(metadata, true, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.SysVarRentPubkey, false, false),
	}
	return solana.NewInstruction(TokenMetadataProgramID, accounts, buf.Bytes()), nil
}

func writeBorshString(enc *bin.Encoder, s string) error {
	if err := enc.WriteUint32(uint32(len(s)), binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteBytes([]byte(s), false)
}

func writeCreators(enc *bin.Encoder, creators []Creator) error {
	if len(creators) == 0 {
		return enc.WriteBool(false)
	}
	if err := enc.WriteBool(true); err != nil {
		return err
	}
	if err := enc.WriteUint32(uint32(len(creators)), binary.LittleEndian); err != nil {
		return err
	}
	for _, c := range creators {
		if err := enc.WriteBytes(c.Address.Bytes(), false); err != nil {
			return err
		}
		if err := enc.WriteBool(c.Verified); err != nil {
			return err
		}
		if err := enc.WriteUint8(c.Share); err != nil {
			return err
		}
	}
	return nil
}
