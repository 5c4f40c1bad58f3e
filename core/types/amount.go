package types

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// Amount is a non-negative transfer amount or account balance. It is backed
// by a fixed-width 256-bit integer so debit/credit arithmetic can be checked
// for overflow instead of silently wrapping, the same way erigon represents
// wei amounts.
type Amount struct {
	v uint256.Int
}

// NewAmount builds an Amount from a machine-native integer.
func NewAmount(n uint64) Amount {
	return Amount{v: *uint256.NewInt(n)}
}

// ZeroAmount is the additive identity, used when an account is first
// created as the recipient of a transaction.
func ZeroAmount() Amount { return Amount{} }

// AmountFromDecimal parses the canonical decimal rendering of an amount, the
// same form used both on the wire and inside a block's hash preimage.
func AmountFromDecimal(s string) (Amount, error) {
	var z uint256.Int
	if err := z.SetFromDecimal(s); err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Amount{v: z}, nil
}

// String renders the amount in plain decimal, matching the transaction
// render used for block hashing.
func (a Amount) String() string { return a.v.Dec() }

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a.v.IsZero() }

// Cmp compares a and b the way sort.Interface implementations expect:
// negative if a < b, zero if equal, positive if a > b.
func (a Amount) Cmp(b Amount) int { return a.v.Cmp(&b.v) }

// LessThan reports whether a is strictly smaller than b.
func (a Amount) LessThan(b Amount) bool { return a.Cmp(b) < 0 }

// Add returns a+b. Overflow cannot occur for balances that originate from a
// chain of valid blocks, since no single chain can mint more than the
// genesis allocation and State.Validate only admits transfers the sender can
// cover. Add itself performs no check and wraps on overflow.
func (a Amount) Add(b Amount) Amount {
	var z uint256.Int
	z.Add(&a.v, &b.v)
	return Amount{v: z}
}

// Sub returns a-b and reports whether the subtraction underflowed (b > a).
// An underflowing Sub must never be committed to state; callers use the
// reported bool to reject the transaction instead.
func (a Amount) Sub(b Amount) (Amount, bool) {
	var z uint256.Int
	_, underflow := z.SubOverflow(&a.v, &b.v)
	return Amount{v: z}, underflow
}

// BigInt converts the amount to an unsigned math/big.Int, used when an
// amount needs to participate in signed arithmetic (history deltas).
func (a Amount) BigInt() *big.Int { return a.v.ToBig() }

// MarshalJSON renders the amount as a bare JSON integer, not a quoted hex
// string, so that wire payloads stay a plain {sender, recipient, amount}
// object as the transport contract requires.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.v.Dec()), nil
}

// UnmarshalJSON accepts either a bare JSON integer or a quoted decimal
// string, since some HTTP clients serialize large integers as strings to
// avoid float64 truncation.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	parsed, err := AmountFromDecimal(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
