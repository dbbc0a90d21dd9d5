package chain_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"

	"github.com/chainchat-labs/txengine/internal/chain"
)

// Reference vectors from EIP-137.
func TestNamehash(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: "0x0000000000000000000000000000000000000000000000000000000000000000"},
		{name: "tld", input: "eth", expected: "0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae"},
		{name: "second level", input: "foo.eth", expected: "0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := chain.Namehash(tt.input)
			assert.Equal(t, tt.expected, hexutil.Encode(node[:]))
		})
	}
}

func TestNamehashCaseInsensitive(t *testing.T) {
	assert.Equal(t, chain.Namehash("foo.eth"), chain.Namehash("FOO.ETH"))
}
