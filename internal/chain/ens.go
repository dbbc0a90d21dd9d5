package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chainchat-labs/txengine/internal/contracts"
	"github.com/chainchat-labs/txengine/internal/registry"
)

// ensRegistryAddress is the canonical ENS registry deployment.
var ensRegistryAddress = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

// Namehash implements the ENS namehash algorithm (EIP-137).
func Namehash(name string) [32]byte {
	var node [32]byte
	if name == "" {
		return node
	}
	labels := strings.Split(strings.ToLower(name), ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		copy(node[:], crypto.Keccak256(node[:], labelHash))
	}
	return node
}

// ResolveName resolves an ENS name through the registry and its resolver.
func (c *RPCClient) ResolveName(ctx context.Context, chainID int64, name string) (common.Address, error) {
	network, ok := registry.GetNetwork(chainID)
	if !ok {
		return common.Address{}, fmt.Errorf("chain %d is not configured", chainID)
	}
	if !network.SupportsENS {
		return common.Address{}, fmt.Errorf("chain %d does not support name service resolution", chainID)
	}

	node := Namehash(name)

	out, err := c.callContract(ctx, chainID, ensRegistryAddress, &contractCall{abiRef: contracts.ENSRegistryABI, method: "resolver", args: []interface{}{node}})
	if err != nil {
		return common.Address{}, fmt.Errorf("resolver lookup failed: %w", err)
	}
	values, err := contracts.ENSRegistryABI.Unpack("resolver", out)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode resolver: %w", err)
	}
	resolverAddr, ok := values[0].(common.Address)
	if !ok || resolverAddr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("no resolver set for %s", name)
	}

	out, err = c.callContract(ctx, chainID, resolverAddr, &contractCall{abiRef: contracts.ENSResolverABI, method: "addr", args: []interface{}{node}})
	if err != nil {
		return common.Address{}, fmt.Errorf("addr lookup failed: %w", err)
	}
	values, err = contracts.ENSResolverABI.Unpack("addr", out)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode addr: %w", err)
	}
	resolved, ok := values[0].(common.Address)
	if !ok || resolved == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%s does not resolve to an address", name)
	}
	return resolved, nil
}
