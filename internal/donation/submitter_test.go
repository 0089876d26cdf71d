package donation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donations/internal/xrpl"
)

var testConfig = Config{
	PoolAddress:      "0x3d0d600385af49e9db119eb76b4327592c91f277",
	RelayAddress:     "rNrjh1KGZk2jBR3wPfAQnoidtFFYQKbQn2",
	DestinationChain: "xrpl-evm",
	FeeDrops:         "300000",
}

const testSender = "rrrrrrrrrrrrrrrrrrrrrhoLvTp"

// fakeWallet implements xrpl.Wallet for submitter tests
type fakeWallet struct {
	available       error
	submitErr       error
	submitted       *xrpl.Payment
	txHash          string
	availableCalled bool
	submitCalled    bool
}

func (w *fakeWallet) IsAvailable(ctx context.Context) error {
	w.availableCalled = true
	return w.available
}

func (w *fakeWallet) Address(ctx context.Context) (string, error) { return testSender, nil }

func (w *fakeWallet) SubmitPayment(ctx context.Context, tx *xrpl.Payment) (string, error) {
	w.submitCalled = true
	w.submitted = tx
	if w.submitErr != nil {
		return "", w.submitErr
	}
	return w.txHash, nil
}

func TestPreparePayment_MemoSet(t *testing.T) {
	s, err := NewSubmitter(testConfig, nil)
	require.NoError(t, err)

	tx, err := s.PreparePayment("1.5", testSender)
	require.NoError(t, err)

	assert.Equal(t, "Payment", tx.TransactionType)
	assert.Equal(t, testSender, tx.Account)
	assert.Equal(t, testConfig.RelayAddress, tx.Destination)
	// 1.5 XRP = 1,500,000 drops, plus the 300,000 drop relay fee
	assert.Equal(t, "1800000", tx.Amount)

	// Exactly five memos, fixed order, fixed tags
	require.Len(t, tx.Memos, 5)

	wantTags := []string{"payload", "type", "destination_chain", "destination_address", "gas_fee_amount"}
	for i, want := range wantTags {
		tag, err := xrpl.DecodeMemoHex(tx.Memos[i].Memo.MemoType)
		require.NoError(t, err)
		assert.Equal(t, want, tag, "memo %d tag", i)
	}

	// payload memo carries the raw ABI word as hex (no extra framing)
	assert.Equal(t,
		"0000000000000000000000000000000000000000000000000000000000000000",
		tx.Memos[0].Memo.MemoData)

	data := func(i int) string {
		s, err := xrpl.DecodeMemoHex(tx.Memos[i].Memo.MemoData)
		require.NoError(t, err)
		return s
	}
	assert.Equal(t, "interchain_transfer", data(1))
	assert.Equal(t, "xrpl-evm", data(2))
	// destination address is hex of the pool address text without 0x
	assert.Equal(t, "3d0d600385af49e9db119eb76b4327592c91f277", data(3))
	assert.Equal(t, "300000", data(4))
}

func TestPreparePayment_MemoSetIndependentOfAmount(t *testing.T) {
	s, err := NewSubmitter(testConfig, nil)
	require.NoError(t, err)

	for _, amount := range []string{"0.000001", "1", "42.123456", "999999"} {
		tx, err := s.PreparePayment(amount, testSender)
		require.NoError(t, err, "amount %s", amount)
		require.Len(t, tx.Memos, 5, "amount %s", amount)
	}
}

func TestPreparePayment_TotalIsDonationPlusFee(t *testing.T) {
	s, err := NewSubmitter(testConfig, nil)
	require.NoError(t, err)

	tests := []struct {
		amount string
		total  string
	}{
		{"1", "1300000"},
		{"0.000001", "300001"},
		{"10.5", "10800000"},
	}
	for _, tt := range tests {
		tx, err := s.PreparePayment(tt.amount, testSender)
		require.NoError(t, err)
		assert.Equal(t, tt.total, tx.Amount, "amount %s", tt.amount)
	}
}

func TestPreparePayment_RejectsInvalidAmounts(t *testing.T) {
	s, err := NewSubmitter(testConfig, nil)
	require.NoError(t, err)

	for _, amount := range []string{"", "0", "-1", "abc", "0.0000009"} {
		_, err := s.PreparePayment(amount, testSender)
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %q", amount)
	}
}

func TestSubmit_Success(t *testing.T) {
	wallet := &fakeWallet{txHash: "ABC123"}
	s, err := NewSubmitter(testConfig, wallet)
	require.NoError(t, err)

	txID, err := s.Submit(context.Background(), "2", testSender)
	require.NoError(t, err)
	assert.Equal(t, "ABC123", txID)
	assert.Equal(t, "2300000", wallet.submitted.Amount)
}

func TestSubmit_WalletUnavailable(t *testing.T) {
	wallet := &fakeWallet{available: errors.New("extension not found")}
	s, err := NewSubmitter(testConfig, wallet)
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), "2", testSender)
	assert.ErrorIs(t, err, xrpl.ErrWalletUnavailable)
	assert.False(t, wallet.submitCalled, "no submission attempt when wallet is unavailable")
}

func TestSubmit_InvalidAmountSkipsWallet(t *testing.T) {
	wallet := &fakeWallet{txHash: "ABC123"}
	s, err := NewSubmitter(testConfig, wallet)
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), "-3", testSender)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.False(t, wallet.availableCalled, "invalid amounts must be rejected before any wallet call, including the availability probe")
	assert.False(t, wallet.submitCalled, "invalid amounts must never reach submission")
}

func TestSubmit_Rejected(t *testing.T) {
	wallet := &fakeWallet{submitErr: errors.New("user declined")}
	s, err := NewSubmitter(testConfig, wallet)
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), "2", testSender)
	assert.ErrorIs(t, err, xrpl.ErrSubmissionRejected)
}

func TestNewSubmitter_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad pool address", func(c *Config) { c.PoolAddress = "3d0d" }, true},
		{"bad relay address", func(c *Config) { c.RelayAddress = "0xabc" }, true},
		{"missing chain", func(c *Config) { c.DestinationChain = "" }, true},
		{"bad fee", func(c *Config) { c.FeeDrops = "many" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig
			tt.mutate(&cfg)
			_, err := NewSubmitter(cfg, nil)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
