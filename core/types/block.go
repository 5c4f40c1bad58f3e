package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// NodeID identifies a participant in the cluster. In this design the node
// identifier is the node's HTTP listening port, reused as the proposer
// identity carried in every block's miner field.
type NodeID int

// String renders the node identifier the same way it appears inside a
// block's hash preimage: a plain decimal integer.
func (n NodeID) String() string { return strconv.Itoa(int(n)) }

// GenesisPreviousHash is the fixed previous_hash literal carried by block 1.
const GenesisPreviousHash = "0xfeedcafe"

// Block is a numbered, hash-linked batch of transactions proposed by a
// single miner. NewBlock always populates Hash from content; a block decoded
// from a peer instead carries the Hash it was sent with, which the validator
// checks against ComputeHash.
type Block struct {
	Number       uint64        `json:"number"`
	Transactions []Transaction `json:"transactions"`
	PreviousHash string        `json:"previous_hash"`
	Miner        NodeID        `json:"miner"`
	Hash         string        `json:"hash"`
}

// NewBlock constructs a block and computes its hash from content, mirroring
// the constructor-computes-hash pattern of the reference implementation.
func NewBlock(number uint64, txns []Transaction, previousHash string, miner NodeID) Block {
	b := Block{
		Number:       number,
		Transactions: txns,
		PreviousHash: previousHash,
		Miner:        miner,
	}
	b.Hash = b.ComputeHash()
	return b
}

// NewGenesisBlock builds the unmined genesis block for the given proposer.
func NewGenesisBlock(miner NodeID) Block {
	return NewBlock(1, []Transaction{}, GenesisPreviousHash, miner)
}

// ComputeHash recomputes the SHA-256 hex digest of the block's canonical
// byte sequence: the decimal block number, the bracketed transaction list,
// the previous hash, and the decimal miner id, concatenated with no
// separators between the four fields. Changing any byte of this sequence
// changes the hash and diverges the cluster, so the rendering here must
// never drift from what every other node computes.
func (b Block) ComputeHash() string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(b.Number, 10))
	sb.WriteString(renderTransactionList(b.Transactions))
	sb.WriteString(b.PreviousHash)
	sb.WriteString(b.Miner.String())
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// renderTransactionList formats transactions using the canonical
// bracketed-comma form: "[]" when empty, otherwise
// "[T(a -> b: c), T(d -> e: f)]".
func renderTransactionList(txns []Transaction) string {
	if len(txns) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, t := range txns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// IsGenesis reports whether b is block number 1.
func (b Block) IsGenesis() bool { return b.Number == 1 }
