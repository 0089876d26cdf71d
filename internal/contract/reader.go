package contract

import (
	"context"
	"math/big"
)

// View methods exposed by the pool contract
const (
	MethodTotalDonations = "totalDonations"
	MethodDonorCount     = "getDonorCount"
	MethodDonorAt        = "donors"
	MethodDonationOf     = "donations"
)

// Reader is the read-only view capability over the pool contract.
// Calls fail independently; callers must not assume a consistent snapshot
// across separate calls, since the registry can be mutated between reads.
// Timeout and transport behavior belong to the implementation; the
// callers treat a single failed call as absent data and never retry it.
type Reader interface {
	// ReadScalar invokes a no-argument view returning an unsigned integer
	// (total raised, donor count)
	ReadScalar(ctx context.Context, method string) (*big.Int, error)

	// ReadIndexed invokes an index-parameterized view returning a string
	// (donor address at position i)
	ReadIndexed(ctx context.Context, method string, index uint64) (string, error)

	// ReadByKey invokes a string-keyed view returning an unsigned integer
	// (donation amount for an address)
	ReadByKey(ctx context.Context, method string, key string) (*big.Int, error)
}
