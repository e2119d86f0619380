package chain

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
)

// LamportsPerSOL is the number of lamports in one SOL
const LamportsPerSOL uint64 = 1_000_000_000

// BuildTransfer assembles an unsigned SystemProgram transfer paid by from.
// Client and server both call it so they agree on the exact message bytes.
func BuildTransfer(from, to solana.PublicKey, lamports uint64, blockhash solana.Hash) (*solana.Transaction, error) {
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(lamports, from, to).Build(),
		},
		blockhash,
		solana.TransactionPayer(from),
	)
	if err != nil {
		return nil, fmt.Errorf("build transfer: %w", err)
	}
	return tx, nil
}

// TransferMessage returns the serialized message a wallet signs for tx
func TransferMessage(tx *solana.Transaction) ([]byte, error) {
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("serialize transfer message: %w", err)
	}
	return msg, nil
}

// AttachSignature sets the fee payer's signature on a single-signer transaction
func AttachSignature(tx *solana.Transaction, sig solana.Signature) {
	tx.Signatures = []solana.Signature{sig}
}
