package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donations/internal/contract"
)

// fakeReader serves a scripted registry: donors by index, amounts by
// address, with per-slot and per-address failure injection
type fakeReader struct {
	donors       map[uint64]string
	amounts      map[string]string
	failIndexes  map[uint64]bool
	failKeys     map[string]bool
	indexedCalls int
	keyCalls     int
}

var errRPC = errors.New("execution reverted")

func (r *fakeReader) ReadScalar(ctx context.Context, method string) (*big.Int, error) {
	switch method {
	case contract.MethodDonorCount:
		return big.NewInt(int64(len(r.donors))), nil
	case contract.MethodTotalDonations:
		total := new(big.Int)
		for _, amt := range r.amounts {
			v, _ := new(big.Int).SetString(amt, 10)
			total.Add(total, v)
		}
		return total, nil
	}
	return nil, fmt.Errorf("unknown method %s", method)
}

func (r *fakeReader) ReadIndexed(ctx context.Context, method string, index uint64) (string, error) {
	r.indexedCalls++
	if r.failIndexes[index] {
		return "", errRPC
	}
	addr, ok := r.donors[index]
	if !ok {
		return "", errRPC
	}
	return addr, nil
}

func (r *fakeReader) ReadByKey(ctx context.Context, method string, key string) (*big.Int, error) {
	r.keyCalls++
	if r.failKeys[key] {
		return nil, errRPC
	}
	amt, ok := r.amounts[key]
	if !ok {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(amt, 10)
	if !ok {
		return nil, fmt.Errorf("bad fixture amount %q", amt)
	}
	return v, nil
}

// xrp converts whole display units to the contract's 18-decimal base units
func xrp(n int64) string {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)).String()
}

func TestBuild_EmptyRegistry(t *testing.T) {
	reader := &fakeReader{}
	b := NewBuilder(reader)

	result, err := b.Build(context.Background(), 0, "")
	require.NoError(t, err)

	assert.Equal(t, ScanOK, result.Status)
	assert.Empty(t, result.Donors)
	assert.Zero(t, reader.indexedCalls, "empty registry must not trigger indexed reads")
}

func TestBuild_SortedAndRanked(t *testing.T) {
	reader := &fakeReader{
		donors: map[uint64]string{
			0: "0xaaa1000000000000000000000000000000000001",
			1: "0xbbb2000000000000000000000000000000000002",
			2: "0xccc3000000000000000000000000000000000003",
		},
		amounts: map[string]string{
			"0xaaa1000000000000000000000000000000000001": xrp(5),
			"0xbbb2000000000000000000000000000000000002": xrp(50),
			"0xccc3000000000000000000000000000000000003": xrp(20),
		},
	}
	b := NewBuilder(reader)

	result, err := b.Scan(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, result.Donors, 3)

	assert.Equal(t, "0xbbb2000000000000000000000000000000000002", result.Donors[0].Address)
	assert.Equal(t, "0xccc3000000000000000000000000000000000003", result.Donors[1].Address)
	assert.Equal(t, "0xaaa1000000000000000000000000000000000001", result.Donors[2].Address)

	for i, donor := range result.Donors {
		assert.Equal(t, i+1, donor.Rank, "ranks are dense and 1-based")
	}
	assert.Equal(t, "50.0", result.Donors[0].Amount)
}

func TestBuild_GapTolerated(t *testing.T) {
	// Index 1 unreadable: indices 0 and 2 survive, pre-sort order kept
	reader := &fakeReader{
		donors: map[uint64]string{
			0: "0xaaa1000000000000000000000000000000000001",
			1: "0xbbb2000000000000000000000000000000000002",
			2: "0xccc3000000000000000000000000000000000003",
		},
		amounts: map[string]string{
			"0xaaa1000000000000000000000000000000000001": xrp(10),
			"0xccc3000000000000000000000000000000000003": xrp(10),
		},
		failIndexes: map[uint64]bool{1: true},
	}
	b := NewBuilder(reader)

	result, err := b.Build(context.Background(), 3, "")
	require.NoError(t, err)

	assert.Equal(t, ScanOK, result.Status)
	require.Len(t, result.Donors, 2)
	assert.Equal(t, []uint64{1}, result.SkippedIndexes)

	// Equal amounts: encounter order preserved, distinct consecutive ranks
	assert.Equal(t, "0xaaa1000000000000000000000000000000000001", result.Donors[0].Address)
	assert.Equal(t, 1, result.Donors[0].Rank)
	assert.Equal(t, "0xccc3000000000000000000000000000000000003", result.Donors[1].Address)
	assert.Equal(t, 2, result.Donors[1].Rank)
}

func TestBuild_FirstSlotFailureAborts(t *testing.T) {
	reader := &fakeReader{
		donors: map[uint64]string{
			0: "0xaaa1000000000000000000000000000000000001",
			1: "0xbbb2000000000000000000000000000000000002",
		},
		amounts: map[string]string{
			"0xaaa1000000000000000000000000000000000001": xrp(1),
			"0xbbb2000000000000000000000000000000000002": xrp(2),
		},
		failIndexes: map[uint64]bool{0: true},
	}
	b := NewBuilder(reader)

	result, err := b.Build(context.Background(), 2, "")
	require.NoError(t, err, "inconsistency is a result variant, not an error")

	assert.Equal(t, ScanInconsistent, result.Status)
	assert.Empty(t, result.Donors, "abort degrades to zero donors")
	assert.Equal(t, 1, reader.indexedCalls, "no further indices attempted after the abort")
}

func TestBuild_ZeroAmountsSkipped(t *testing.T) {
	reader := &fakeReader{
		donors: map[uint64]string{
			0: "0xaaa1000000000000000000000000000000000001",
			1: "0xbbb2000000000000000000000000000000000002",
		},
		amounts: map[string]string{
			"0xaaa1000000000000000000000000000000000001": xrp(3),
			"0xbbb2000000000000000000000000000000000002": "0",
		},
	}
	b := NewBuilder(reader)

	result, err := b.Build(context.Background(), 2, "")
	require.NoError(t, err)

	require.Len(t, result.Donors, 1)
	assert.Equal(t, "0xaaa1000000000000000000000000000000000001", result.Donors[0].Address)
}

func TestBuild_BlankAddressSkipped(t *testing.T) {
	reader := &fakeReader{
		donors: map[uint64]string{
			0: "0xaaa1000000000000000000000000000000000001",
			1: "   ",
		},
		amounts: map[string]string{
			"0xaaa1000000000000000000000000000000000001": xrp(3),
		},
	}
	b := NewBuilder(reader)

	result, err := b.Build(context.Background(), 2, "")
	require.NoError(t, err)

	require.Len(t, result.Donors, 1)
	assert.Equal(t, []uint64{1}, result.SkippedIndexes)
}

func TestBuild_AmountReadFailureSkipsAddress(t *testing.T) {
	reader := &fakeReader{
		donors: map[uint64]string{
			0: "0xaaa1000000000000000000000000000000000001",
			1: "0xbbb2000000000000000000000000000000000002",
		},
		amounts: map[string]string{
			"0xaaa1000000000000000000000000000000000001": xrp(3),
			"0xbbb2000000000000000000000000000000000002": xrp(9),
		},
		failKeys: map[string]bool{"0xbbb2000000000000000000000000000000000002": true},
	}
	b := NewBuilder(reader)

	result, err := b.Build(context.Background(), 2, "")
	require.NoError(t, err)

	require.Len(t, result.Donors, 1, "addresses with unknown amounts are never listed")
	assert.Equal(t, "0xaaa1000000000000000000000000000000000001", result.Donors[0].Address)
}

func TestBuild_ViewerAmountIndependentOfScan(t *testing.T) {
	viewer := "0xbbb2000000000000000000000000000000000002"
	reader := &fakeReader{
		donors: map[uint64]string{
			0: "0xaaa1000000000000000000000000000000000001",
			1: viewer,
		},
		amounts: map[string]string{
			"0xaaa1000000000000000000000000000000000001": xrp(3),
			viewer: xrp(7),
		},
		// The viewer's slot fails during the walk...
		failIndexes: map[uint64]bool{1: true},
	}
	b := NewBuilder(reader)

	result, err := b.Build(context.Background(), 2, viewer)
	require.NoError(t, err)

	// ...but the directly-keyed viewer read still sees their donation
	require.Len(t, result.Donors, 1)
	assert.Equal(t, "7.0", result.ViewerAmount)
}

func TestBuild_ViewerAmountFailureDegradesToZero(t *testing.T) {
	viewer := "0xbbb2000000000000000000000000000000000002"
	reader := &fakeReader{
		failKeys: map[string]bool{viewer: true},
	}
	b := NewBuilder(reader)

	result, err := b.Build(context.Background(), 0, viewer)
	require.NoError(t, err)
	assert.Equal(t, "0.0", result.ViewerAmount)
}

func TestBuild_ContextCancelled(t *testing.T) {
	reader := &fakeReader{
		donors:  map[uint64]string{0: "0xaaa1000000000000000000000000000000000001"},
		amounts: map[string]string{"0xaaa1000000000000000000000000000000000001": xrp(1)},
	}
	b := NewBuilder(reader)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Build(ctx, 1, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsViewer_CaseInsensitive(t *testing.T) {
	assert.True(t, IsViewer("0xABC1000000000000000000000000000000000001", "0xabc1000000000000000000000000000000000001"))
	assert.True(t, IsViewer("0xabc1000000000000000000000000000000000001", "0xABC1000000000000000000000000000000000001"))
	assert.False(t, IsViewer("0xabc1000000000000000000000000000000000001", "0xdef1000000000000000000000000000000000001"))
	assert.False(t, IsViewer("0xabc1000000000000000000000000000000000001", ""))
}
