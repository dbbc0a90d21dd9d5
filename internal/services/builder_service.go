package services

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainchat-labs/txengine/internal/apperrors"
	"github.com/chainchat-labs/txengine/internal/registry"
	"github.com/chainchat-labs/txengine/internal/utils"
)

// DeadlineWindow is how long a prepared swap stays executable on chain.
const DeadlineWindow = 20 * time.Minute

// BuiltTransaction is the signable payload: target address, hex-encoded
// native value and hex-encoded call data.
type BuiltTransaction struct {
	To    string
	Value string
	Data  string
}

// BuildSwapArgs describes one swap to encode. FeeTier carries the tier
// discovered during quoting; zero means none was discovered and the default
// mid tier applies for V3 venues.
type BuildSwapArgs struct {
	Venue        *registry.Venue
	ChainID      int64
	TokenIn      *ResolvedToken
	TokenOut     *ResolvedToken
	AmountIn     *big.Int
	AmountOutMin *big.Int
	Recipient    common.Address
	FeeTier      int64
	Deadline     *big.Int
}

type BuilderService interface {
	BuildTransfer(token *ResolvedToken, recipient common.Address, amount *big.Int) (*BuiltTransaction, error)
	BuildApprove(token *ResolvedToken, spender common.Address, amount *big.Int) (*BuiltTransaction, error)
	BuildSwap(args BuildSwapArgs) (*BuiltTransaction, error)
}

type builderService struct{}

func NewBuilderService() BuilderService {
	return &builderService{}
}

// SwapDeadline returns the deadline for a swap prepared now.
func SwapDeadline() *big.Int {
	return big.NewInt(time.Now().Add(DeadlineWindow).Unix())
}

// BuildTransfer encodes either a raw native-value transaction or an ERC-20
// transfer call.
func (s *builderService) BuildTransfer(token *ResolvedToken, recipient common.Address, amount *big.Int) (*BuiltTransaction, error) {
	if token.IsNative() {
		return &BuiltTransaction{
			To:    recipient.Hex(),
			Value: hexutil.EncodeBig(amount),
			Data:  "0x",
		}, nil
	}
	data, err := utils.EncodeTransfer(recipient, amount)
	if err != nil {
		return nil, &apperrors.BuildError{Op: "transfer", Err: err}
	}
	return &BuiltTransaction{
		To:    token.Address.Hex(),
		Value: "0x0",
		Data:  data,
	}, nil
}

func (s *builderService) BuildApprove(token *ResolvedToken, spender common.Address, amount *big.Int) (*BuiltTransaction, error) {
	if token.IsNative() {
		return nil, &apperrors.BuildError{Op: "approve", Err: fmt.Errorf("native asset cannot be approved")}
	}
	data, err := utils.EncodeApprove(spender, amount)
	if err != nil {
		return nil, &apperrors.BuildError{Op: "approve", Err: err}
	}
	return &BuiltTransaction{
		To:    token.Address.Hex(),
		Value: "0x0",
		Data:  data,
	}, nil
}

func (s *builderService) BuildSwap(args BuildSwapArgs) (*BuiltTransaction, error) {
	router, ok := args.Venue.Router(args.ChainID)
	if !ok {
		return nil, &apperrors.UnsupportedVenueOrChainError{Venue: args.Venue.Slug, ChainID: args.ChainID}
	}

	value := "0x0"
	if args.TokenIn.IsNative() {
		value = hexutil.EncodeBig(args.AmountIn)
	}

	switch args.Venue.Family {
	case registry.ProtocolV3SingleHop:
		feeTier := args.FeeTier
		if feeTier == 0 {
			feeTier = registry.V3DefaultFeeTier
		}
		// Zero recipient is the router's unwrap sentinel for native output.
		recipient := args.Recipient
		if args.TokenOut.IsNative() {
			recipient = common.Address{}
		}
		data, err := utils.EncodeV3ExactInputSingle(
			args.TokenIn.AddressOrWrapped(args.ChainID),
			args.TokenOut.AddressOrWrapped(args.ChainID),
			feeTier,
			recipient,
			args.AmountIn,
			args.AmountOutMin,
			args.Deadline,
		)
		if err != nil {
			return nil, &apperrors.BuildError{Op: "swap", Err: err}
		}
		return &BuiltTransaction{To: router.Hex(), Value: value, Data: data}, nil

	case registry.ProtocolV2Path:
		path := []common.Address{
			args.TokenIn.AddressOrWrapped(args.ChainID),
			args.TokenOut.AddressOrWrapped(args.ChainID),
		}
		var data string
		var err error
		switch {
		case args.TokenIn.IsNative():
			data, err = utils.EncodeV2SwapNativeIn(args.AmountOutMin, path, args.Recipient, args.Deadline)
		case args.TokenOut.IsNative():
			data, err = utils.EncodeV2SwapNativeOut(args.AmountIn, args.AmountOutMin, path, args.Recipient, args.Deadline)
		default:
			data, err = utils.EncodeV2SwapTokens(args.AmountIn, args.AmountOutMin, path, args.Recipient, args.Deadline)
		}
		if err != nil {
			return nil, &apperrors.BuildError{Op: "swap", Err: err}
		}
		return &BuiltTransaction{To: router.Hex(), Value: value, Data: data}, nil

	default:
		return nil, &apperrors.BuildError{Op: "swap", Err: fmt.Errorf("unknown protocol family %q", args.Venue.Family)}
	}
}
