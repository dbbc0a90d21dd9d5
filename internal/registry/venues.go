package registry

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ProtocolFamily selects the calling convention used for quoting and
// call-data construction.
type ProtocolFamily string

const (
	// ProtocolV3SingleHop quotes single-hop with explicit fee tiers and
	// swaps through a router02-style multicall envelope.
	ProtocolV3SingleHop ProtocolFamily = "v3_single_hop"
	// ProtocolV2Path quotes and swaps over a two-element address path.
	ProtocolV2Path ProtocolFamily = "v2_path"
)

// V3 fee tiers in probe order. The lowest-index tier that quotes a positive
// amount wins per venue; no further tiers are tried after one succeeds.
var V3FeeTiers = []int64{500, 3000, 10000}

// V3DefaultFeeTier is used when a swap is built without a tier discovered
// during quoting.
const V3DefaultFeeTier int64 = 3000

// Venue describes a decentralized exchange whose contracts are queried for
// swap pricing and execution.
type Venue struct {
	Name          string
	Slug          string
	Family        ProtocolFamily
	RouterByChain map[int64]common.Address
	// QuoterByChain is only set for V3 venues.
	QuoterByChain map[int64]common.Address
}

// SupportsChain reports whether the venue has a router on the chain.
func (v *Venue) SupportsChain(chainID int64) bool {
	_, ok := v.RouterByChain[chainID]
	return ok
}

// Router returns the venue's router address on a chain.
func (v *Venue) Router(chainID int64) (common.Address, bool) {
	a, ok := v.RouterByChain[chainID]
	return a, ok
}

// Quoter returns the venue's quoter address on a chain (V3 only).
func (v *Venue) Quoter(chainID int64) (common.Address, bool) {
	a, ok := v.QuoterByChain[chainID]
	return a, ok
}

// venues is ordered; quote ties are broken by registration order (stable
// sort). The order itself carries no market meaning.
var venues = []Venue{
	{
		Name:   "Uniswap",
		Slug:   "uniswap",
		Family: ProtocolV3SingleHop,
		RouterByChain: map[int64]common.Address{
			1:     common.HexToAddress("0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45"),
			42161: common.HexToAddress("0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45"),
			137:   common.HexToAddress("0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45"),
			8453:  common.HexToAddress("0x2626664c2603336E57B271c5C0b26F421741e481"),
		},
		QuoterByChain: map[int64]common.Address{
			1:     common.HexToAddress("0x61fFE014bA17989E743c5F6cB21bF9697530B21e"),
			42161: common.HexToAddress("0x61fFE014bA17989E743c5F6cB21bF9697530B21e"),
			137:   common.HexToAddress("0x61fFE014bA17989E743c5F6cB21bF9697530B21e"),
			8453:  common.HexToAddress("0x3d4e44Eb1374240CE5F1B871ab261CD16335B76a"),
		},
	},
	{
		Name:   "SushiSwap",
		Slug:   "sushiswap",
		Family: ProtocolV2Path,
		RouterByChain: map[int64]common.Address{
			1:     common.HexToAddress("0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F"),
			42161: common.HexToAddress("0x1b02dA8Cb0d097eB8D57A175b88c7D8b47997506"),
			137:   common.HexToAddress("0x1b02dA8Cb0d097eB8D57A175b88c7D8b47997506"),
			8453:  common.HexToAddress("0x6BDED42c6DA8FBf0d2bA55B2fa120C5e0c8D7891"),
		},
	},
}

// AllVenues returns every registered venue in registration order.
func AllVenues() []*Venue {
	out := make([]*Venue, len(venues))
	for i := range venues {
		out[i] = &venues[i]
	}
	return out
}

// VenuesForChain returns the venues with a router on the chain, preserving
// registration order.
func VenuesForChain(chainID int64) []*Venue {
	var out []*Venue
	for i := range venues {
		if venues[i].SupportsChain(chainID) {
			out = append(out, &venues[i])
		}
	}
	return out
}

// GetVenue looks up a venue by slug or display name, case-insensitively.
func GetVenue(nameOrSlug string) (*Venue, bool) {
	key := strings.ToLower(strings.TrimSpace(nameOrSlug))
	for i := range venues {
		if venues[i].Slug == key || strings.ToLower(venues[i].Name) == key {
			return &venues[i], true
		}
	}
	return nil, false
}

// GetSpender resolves a protocol name to its well-known spender contract on a
// chain. Used by approval preparation in place of the contact table.
func GetSpender(nameOrSlug string, chainID int64) (common.Address, string, bool) {
	venue, ok := GetVenue(nameOrSlug)
	if !ok {
		return common.Address{}, "", false
	}
	router, ok := venue.Router(chainID)
	if !ok {
		return common.Address{}, "", false
	}
	return router, venue.Name + " Router", true
}
