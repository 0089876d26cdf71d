package xrpl

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// DropsPerXRP is the base-unit scale of the source ledger:
// one display unit equals 1,000,000 drops.
const DropsPerXRP = 1_000_000

// Payment is an XRPL Payment transaction in its JSON wire shape.
// Field names match the XRPL transaction format exactly; the relay on the
// receiving side parses Memos positionally, so their order is significant.
type Payment struct {
	TransactionType string        `json:"TransactionType"`
	Account         string        `json:"Account"`
	Destination     string        `json:"Destination"`
	Amount          string        `json:"Amount"` // drops, decimal string
	Memos           []MemoWrapper `json:"Memos,omitempty"`
	SourceTag       *uint32       `json:"SourceTag,omitempty"`
}

// MemoWrapper carries one memo; XRPL nests each memo under a "Memo" key
type MemoWrapper struct {
	Memo Memo `json:"Memo"`
}

// Memo holds hex-encoded type and data fields
type Memo struct {
	MemoType string `json:"MemoType"`
	MemoData string `json:"MemoData"`
	// MemoFormat is unused by the relay but part of the wire shape
	MemoFormat string `json:"MemoFormat,omitempty"`
}

// NewMemo hex-encodes a tag and its payload text into a wrapped memo
func NewMemo(memoType, data string) MemoWrapper {
	return MemoWrapper{
		Memo: Memo{
			MemoType: EncodeMemoHex(memoType),
			MemoData: EncodeMemoHex(data),
		},
	}
}

// NewHexMemo wraps a tag with payload that is already hex (raw bytes
// expressed as hex, e.g. an ABI-encoded command)
func NewHexMemo(memoType, dataHex string) MemoWrapper {
	return MemoWrapper{
		Memo: Memo{
			MemoType: EncodeMemoHex(memoType),
			MemoData: strings.ToLower(dataHex),
		},
	}
}

// EncodeMemoHex converts UTF-8 text to the lowercase hex form XRPL
// memo fields require
func EncodeMemoHex(s string) string {
	return hex.EncodeToString([]byte(s))
}

// DecodeMemoHex is the inverse of EncodeMemoHex; used in tests and when
// rendering recorded payments
func DecodeMemoHex(h string) (string, error) {
	b, err := hex.DecodeString(h)
	if err != nil {
		return "", fmt.Errorf("invalid memo hex: %w", err)
	}
	return string(b), nil
}

// base58 alphabet used by XRPL classic addresses (note: no '0', 'O', 'I', 'l')
const addressAlphabet = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"

// ValidAddress performs a shape check on an XRPL classic address:
// r-prefixed, base58, 25-35 characters. Full checksum verification is
// left to the wallet, which rejects malformed accounts on its own.
func ValidAddress(addr string) bool {
	if len(addr) < 25 || len(addr) > 35 {
		return false
	}
	if addr[0] != 'r' {
		return false
	}
	for _, c := range addr {
		if !strings.ContainsRune(addressAlphabet, c) {
			return false
		}
	}
	return true
}
