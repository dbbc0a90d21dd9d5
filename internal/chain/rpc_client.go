package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/chainchat-labs/txengine/internal/contracts"
	"github.com/chainchat-labs/txengine/internal/registry"
)

// DefaultCallTimeout bounds a single RPC attempt against one endpoint.
const DefaultCallTimeout = 5 * time.Second

// quoteParams mirrors the QuoterV2 QuoteExactInputSingleParams tuple.
type quoteParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	AmountIn          *big.Int
	Fee               *big.Int
	SqrtPriceLimitX96 *big.Int
}

// RPCClient implements Client over JSON-RPC endpoints from the network
// registry, falling back through each chain's ordered endpoint list.
type RPCClient struct {
	timeout time.Duration
	logger  *zap.Logger

	// endpointOverrides replaces a chain's registry endpoints, e.g. from
	// config or tests.
	endpointOverrides map[int64][]string

	mu      sync.Mutex
	clients map[string]*ethclient.Client
}

func NewRPCClient(logger *zap.Logger, endpointOverrides map[int64][]string) *RPCClient {
	return &RPCClient{
		timeout:           DefaultCallTimeout,
		logger:            logger,
		endpointOverrides: endpointOverrides,
		clients:           make(map[string]*ethclient.Client),
	}
}

// SetTimeout adjusts the per-attempt timeout.
func (c *RPCClient) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

func (c *RPCClient) endpoints(chainID int64) ([]string, error) {
	if urls, ok := c.endpointOverrides[chainID]; ok && len(urls) > 0 {
		return urls, nil
	}
	network, ok := registry.GetNetwork(chainID)
	if !ok {
		return nil, fmt.Errorf("chain %d is not configured", chainID)
	}
	return network.RPCEndpoints, nil
}

func (c *RPCClient) dial(url string) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if client, ok := c.clients[url]; ok {
		return client, nil
	}
	client, err := ethclient.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	c.clients[url] = client
	return client, nil
}

// withEndpoint runs fn against each of the chain's endpoints in order and
// returns the first success.
func withEndpoint[R any](ctx context.Context, c *RPCClient, chainID int64, fn func(ctx context.Context, client *ethclient.Client) (R, error)) (R, error) {
	var zero R
	urls, err := c.endpoints(chainID)
	if err != nil {
		return zero, err
	}
	result, _, err := FirstSuccess(ctx, urls, c.timeout, func(ctx context.Context, url string) (R, error) {
		client, err := c.dial(url)
		if err != nil {
			return zero, err
		}
		return fn(ctx, client)
	})
	if err != nil {
		c.logger.Debug("all endpoints failed", zap.Int64("chain_id", chainID), zap.Error(err))
		return zero, fmt.Errorf("all endpoints failed for chain %d: %w", chainID, err)
	}
	return result, nil
}

func (c *RPCClient) NativeBalance(ctx context.Context, chainID int64, account common.Address) (*big.Int, error) {
	return withEndpoint(ctx, c, chainID, func(ctx context.Context, client *ethclient.Client) (*big.Int, error) {
		return client.BalanceAt(ctx, account, nil)
	})
}

// callContract packs a contract call, issues eth_call and returns the raw
// return data.
func (c *RPCClient) callContract(ctx context.Context, chainID int64, to common.Address, parsed *contractCall) ([]byte, error) {
	input, err := parsed.abiRef.Pack(parsed.method, parsed.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", parsed.method, err)
	}
	return withEndpoint(ctx, c, chainID, func(ctx context.Context, client *ethclient.Client) ([]byte, error) {
		out, err := client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: input}, nil)
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}

type contractCall struct {
	abiRef abi.ABI
	method string
	args   []interface{}
}

func (c *RPCClient) TokenBalance(ctx context.Context, chainID int64, token, account common.Address) (*big.Int, error) {
	out, err := c.callContract(ctx, chainID, token, &contractCall{abiRef: contracts.ERC20ABI, method: "balanceOf", args: []interface{}{account}})
	if err != nil {
		return nil, fmt.Errorf("balanceOf call failed: %w", err)
	}
	return unpackBigInt(contracts.ERC20ABI, "balanceOf", out)
}

func (c *RPCClient) Allowance(ctx context.Context, chainID int64, token, owner, spender common.Address) (*big.Int, error) {
	out, err := c.callContract(ctx, chainID, token, &contractCall{abiRef: contracts.ERC20ABI, method: "allowance", args: []interface{}{owner, spender}})
	if err != nil {
		return nil, fmt.Errorf("allowance call failed: %w", err)
	}
	return unpackBigInt(contracts.ERC20ABI, "allowance", out)
}

func (c *RPCClient) TokenDecimals(ctx context.Context, chainID int64, token common.Address) (uint8, error) {
	out, err := c.callContract(ctx, chainID, token, &contractCall{abiRef: contracts.ERC20ABI, method: "decimals", args: nil})
	if err != nil {
		return 0, fmt.Errorf("decimals call failed: %w", err)
	}
	values, err := contracts.ERC20ABI.Unpack("decimals", out)
	if err != nil {
		return 0, fmt.Errorf("failed to decode decimals: %w", err)
	}
	decimals, ok := values[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals type %T", values[0])
	}
	return decimals, nil
}

func (c *RPCClient) TokenSymbol(ctx context.Context, chainID int64, token common.Address) (string, error) {
	out, err := c.callContract(ctx, chainID, token, &contractCall{abiRef: contracts.ERC20ABI, method: "symbol", args: nil})
	if err != nil {
		return "", fmt.Errorf("symbol call failed: %w", err)
	}
	values, err := contracts.ERC20ABI.Unpack("symbol", out)
	if err != nil {
		return "", fmt.Errorf("failed to decode symbol: %w", err)
	}
	symbol, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected symbol type %T", values[0])
	}
	return strings.TrimSpace(symbol), nil
}

func (c *RPCClient) QuoteV3(ctx context.Context, chainID int64, quoter, tokenIn, tokenOut common.Address, feeTier int64, amountIn *big.Int) (*big.Int, error) {
	params := quoteParams{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		AmountIn:          amountIn,
		Fee:               big.NewInt(feeTier),
		SqrtPriceLimitX96: big.NewInt(0),
	}
	out, err := c.callContract(ctx, chainID, quoter, &contractCall{abiRef: contracts.QuoterV2ABI, method: "quoteExactInputSingle", args: []interface{}{params}})
	if err != nil {
		return nil, fmt.Errorf("quoteExactInputSingle call failed: %w", err)
	}
	values, err := contracts.QuoterV2ABI.Unpack("quoteExactInputSingle", out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode quote: %w", err)
	}
	amountOut, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected quote type %T", values[0])
	}
	return amountOut, nil
}

func (c *RPCClient) QuoteV2(ctx context.Context, chainID int64, router common.Address, amountIn *big.Int, path []common.Address) (*big.Int, error) {
	out, err := c.callContract(ctx, chainID, router, &contractCall{abiRef: contracts.V2RouterABI, method: "getAmountsOut", args: []interface{}{amountIn, path}})
	if err != nil {
		return nil, fmt.Errorf("getAmountsOut call failed: %w", err)
	}
	values, err := contracts.V2RouterABI.Unpack("getAmountsOut", out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode amounts: %w", err)
	}
	amounts, ok := values[0].([]*big.Int)
	if !ok || len(amounts) == 0 {
		return nil, fmt.Errorf("unexpected amounts shape")
	}
	return amounts[len(amounts)-1], nil
}

func unpackBigInt(parsed abi.ABI, method string, data []byte) (*big.Int, error) {
	values, err := parsed.Unpack(method, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	value, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s result type %T", method, values[0])
	}
	return value, nil
}
