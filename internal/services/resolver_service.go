package services

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chainchat-labs/txengine/internal/apperrors"
	"github.com/chainchat-labs/txengine/internal/chain"
	"github.com/chainchat-labs/txengine/internal/models"
	"github.com/chainchat-labs/txengine/internal/registry"
)

const ensSuffix = ".eth"

// ResolvedRecipient is the outcome of recipient resolution. ResolvedFrom is
// empty for raw addresses, "contact" or "ens" otherwise.
type ResolvedRecipient struct {
	Address      common.Address
	ResolvedFrom string
}

// ResolvedToken carries everything later pipeline stages need about a token.
// Address is nil for the native asset.
type ResolvedToken struct {
	Symbol   string
	Name     string
	Address  *common.Address
	Decimals uint8
}

// IsNative reports whether the token is the chain's native asset.
func (t *ResolvedToken) IsNative() bool {
	return t.Address == nil
}

// AddressOrWrapped returns the token address, substituting the chain's
// wrapped native token for the native asset. Used on quote and swap paths.
func (t *ResolvedToken) AddressOrWrapped(chainID int64) common.Address {
	if t.Address != nil {
		return *t.Address
	}
	network, ok := registry.GetNetwork(chainID)
	if !ok {
		return common.Address{}
	}
	return network.WrappedNative
}

// ResolvedSpender is the outcome of spender resolution for approvals.
type ResolvedSpender struct {
	Address common.Address
	Name    string
}

type ResolverService interface {
	ResolveRecipient(ctx context.Context, input, userID string, chainID int64) (*ResolvedRecipient, error)
	ResolveToken(ctx context.Context, input string, chainID int64) (*ResolvedToken, error)
	ResolveSpender(input string, chainID int64) (*ResolvedSpender, error)
}

type resolverService struct {
	db          *gorm.DB
	chainClient chain.Client
	logger      *zap.Logger
}

func NewResolverService(db *gorm.DB, chainClient chain.Client, logger *zap.Logger) ResolverService {
	return &resolverService{db: db, chainClient: chainClient, logger: logger}
}

// ResolveRecipient maps a user-supplied string to an address. Precedence:
// raw address, then the requesting user's saved contacts (case-insensitive),
// then ENS on chains that support it.
func (s *resolverService) ResolveRecipient(ctx context.Context, input, userID string, chainID int64) (*ResolvedRecipient, error) {
	input = strings.TrimSpace(input)

	if common.IsHexAddress(input) {
		return &ResolvedRecipient{Address: common.HexToAddress(input)}, nil
	}

	var contact models.Contact
	err := s.db.Where("user_id = ? AND LOWER(name) = ?", userID, strings.ToLower(input)).First(&contact).Error
	if err == nil {
		if !common.IsHexAddress(contact.Address) {
			return nil, apperrors.NewResolutionError("recipient", input)
		}
		return &ResolvedRecipient{Address: common.HexToAddress(contact.Address), ResolvedFrom: "contact"}, nil
	}

	network, ok := registry.GetNetwork(chainID)
	if ok && network.SupportsENS && strings.HasSuffix(strings.ToLower(input), ensSuffix) {
		resolved, err := s.chainClient.ResolveName(ctx, chainID, input)
		if err != nil {
			s.logger.Debug("ens resolution failed", zap.String("name", input), zap.Error(err))
			return nil, apperrors.NewResolutionError("recipient", input)
		}
		return &ResolvedRecipient{Address: resolved, ResolvedFrom: "ens"}, nil
	}

	return nil, apperrors.NewResolutionError("recipient", input)
}

// ResolveToken maps a symbol, alias or address to a token descriptor. A
// well-formed address always passes through unchanged; for addresses outside
// the registry, decimals and symbol come from on-chain introspection.
func (s *resolverService) ResolveToken(ctx context.Context, input string, chainID int64) (*ResolvedToken, error) {
	input = strings.TrimSpace(input)

	if common.IsHexAddress(input) {
		address := common.HexToAddress(input)
		if token, ok := registry.FindTokenByAddress(chainID, address); ok {
			return &ResolvedToken{Symbol: token.Symbol, Name: token.Name, Address: &address, Decimals: token.Decimals}, nil
		}
		decimals, err := s.chainClient.TokenDecimals(ctx, chainID, address)
		if err != nil {
			s.logger.Debug("decimals introspection failed", zap.String("token", input), zap.Error(err))
			return nil, apperrors.NewResolutionError("token", input)
		}
		symbol, err := s.chainClient.TokenSymbol(ctx, chainID, address)
		if err != nil {
			symbol = "TOKEN"
		}
		return &ResolvedToken{Symbol: symbol, Name: symbol, Address: &address, Decimals: decimals}, nil
	}

	symbol := registry.NormalizeSymbol(input)

	if registry.IsNativeSymbol(chainID, symbol) {
		network, _ := registry.GetNetwork(chainID)
		return &ResolvedToken{Symbol: network.NativeSymbol, Name: network.NativeSymbol, Address: nil, Decimals: network.NativeDecimal}, nil
	}

	if token, ok := registry.GetToken(chainID, symbol); ok {
		return &ResolvedToken{Symbol: token.Symbol, Name: token.Name, Address: token.Address, Decimals: token.Decimals}, nil
	}

	return nil, apperrors.NewResolutionError("token", input)
}

// ResolveSpender mirrors recipient resolution for approvals, substituting the
// protocol table for the contact table.
func (s *resolverService) ResolveSpender(input string, chainID int64) (*ResolvedSpender, error) {
	input = strings.TrimSpace(input)

	if common.IsHexAddress(input) {
		return &ResolvedSpender{Address: common.HexToAddress(input), Name: input}, nil
	}

	if address, name, ok := registry.GetSpender(input, chainID); ok {
		return &ResolvedSpender{Address: address, Name: name}, nil
	}

	return nil, apperrors.NewResolutionError("spender", input)
}
