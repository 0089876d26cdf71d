package payload

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Command identifies the pool contract action the relay should invoke
// on the destination chain. The set is closed; the relay payload is the
// ABI encoding of the command as a uint8.
type Command uint8

const (
	// CommandDonate credits the sender's forwarded value to the pool
	CommandDonate Command = 0
)

// uint8Args is the ABI argument list used to encode a command.
// Built once at init; an invalid static type here is a programming
// error, not a runtime condition.
var uint8Args abi.Arguments

func init() {
	typ, err := abi.NewType("uint8", "", nil)
	if err != nil {
		panic(fmt.Sprintf("unable to build uint8 ABI type: %v", err))
	}
	uint8Args = abi.Arguments{{Type: typ}}
}

// Valid reports whether the command is a known variant
func (c Command) Valid() bool {
	return c == CommandDonate
}

func (c Command) String() string {
	switch c {
	case CommandDonate:
		return "donate"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Encode returns the ABI encoding of the command: a single 32-byte
// big-endian word whose last byte is the command value. The encoding is
// deterministic and injective over the command set.
func Encode(cmd Command) ([]byte, error) {
	if !cmd.Valid() {
		return nil, fmt.Errorf("unknown command %d", uint8(cmd))
	}
	encoded, err := uint8Args.Pack(uint8(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to encode command %s: %w", cmd, err)
	}
	return encoded, nil
}

// MustEncode is Encode for commands known valid at compile time.
// Panics on failure since encoding a closed enum cannot fail absent
// a programming error.
func MustEncode(cmd Command) []byte {
	encoded, err := Encode(cmd)
	if err != nil {
		panic(err)
	}
	return encoded
}

// EncodeHex returns the encoded command as lowercase hex without a 0x
// prefix, the form carried in the payment's payload memo.
func EncodeHex(cmd Command) (string, error) {
	encoded, err := Encode(cmd)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(encoded), nil
}
