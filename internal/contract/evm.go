package contract

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// poolABI describes the donation pool contract's view surface:
// donors is index-addressed and donations is keyed by the donor's
// source-ledger address string.
const poolABI = `[
	{
		"inputs": [{"internalType": "string", "name": "", "type": "string"}],
		"name": "donations",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"name": "donors",
		"outputs": [{"internalType": "string", "name": "", "type": "string"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getDonorCount",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "totalDonations",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// EVMReader implements Reader over an EVM JSON-RPC endpoint using
// eth_call against the pool contract
type EVMReader struct {
	client  *ethclient.Client
	abi     abi.ABI
	pool    common.Address
	timeout time.Duration
}

// NewEVMReader connects to the RPC endpoint and binds the pool ABI.
// callTimeout bounds each individual eth_call.
func NewEVMReader(rpcURL, poolAddress string, callTimeout time.Duration) (*EVMReader, error) {
	if !common.IsHexAddress(poolAddress) {
		return nil, fmt.Errorf("invalid pool contract address %q", poolAddress)
	}

	parsed, err := abi.JSON(strings.NewReader(poolABI))
	if err != nil {
		return nil, fmt.Errorf("unable to parse pool contract ABI: %w", err)
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	return &EVMReader{
		client:  client,
		abi:     parsed,
		pool:    common.HexToAddress(poolAddress),
		timeout: callTimeout,
	}, nil
}

// call packs the method with its arguments, performs eth_call at the
// latest block, and unpacks the outputs
func (r *EVMReader) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := r.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	out, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &r.pool,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}

	results, err := r.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return results, nil
}

func (r *EVMReader) ReadScalar(ctx context.Context, method string) (*big.Int, error) {
	results, err := r.call(ctx, method)
	if err != nil {
		return nil, err
	}
	value, ok := results[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s returned %T, expected uint256", method, results[0])
	}
	return value, nil
}

func (r *EVMReader) ReadIndexed(ctx context.Context, method string, index uint64) (string, error) {
	results, err := r.call(ctx, method, new(big.Int).SetUint64(index))
	if err != nil {
		return "", err
	}
	value, ok := results[0].(string)
	if !ok {
		return "", fmt.Errorf("%s returned %T, expected string", method, results[0])
	}
	return value, nil
}

func (r *EVMReader) ReadByKey(ctx context.Context, method string, key string) (*big.Int, error) {
	results, err := r.call(ctx, method, key)
	if err != nil {
		return nil, err
	}
	value, ok := results[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s returned %T, expected uint256", method, results[0])
	}
	return value, nil
}

// Ping verifies the contract is reachable by invoking its cheapest view
func (r *EVMReader) Ping(ctx context.Context) error {
	_, err := r.ReadScalar(ctx, MethodTotalDonations)
	return err
}

// Close releases the underlying RPC connection
func (r *EVMReader) Close() {
	r.client.Close()
}
