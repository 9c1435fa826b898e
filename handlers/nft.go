package handlers

import (
	"context"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/KryptoMuratLive/kryptomuratv4/story"
	"github.com/KryptoMuratLive/kryptomuratv4/web3"
)

// oneEther is the premium threshold in wei.
var oneEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

type NFTAccessResponse struct {
	WalletAddress string `json:"wallet_address"`
	HasAccess     bool   `json:"has_access"`
	NFTCount      int    `json:"nft_count"`
	AccessLevel   string `json:"access_level"`
}

// tierForBalance approximates NFT ownership from the native coin balance:
// any balance grants access, more than one MATIC grants premium.
func tierForBalance(wei *big.Int) story.Tier {
	switch {
	case wei.Sign() <= 0:
		return story.TierNone
	case wei.Cmp(oneEther) > 0:
		return story.TierPremium
	default:
		return story.TierBasic
	}
}

// NewTierResolver returns the access-tier resolver backed by the chain
// client, used by the story engine for gating and vote weights.
func NewTierResolver(client *web3.Client) story.TierResolver {
	return func(ctx context.Context, wallet string) (story.Tier, error) {
		balance, err := client.NativeBalance(ctx, wallet)
		if err != nil {
			return story.TierNone, err
		}
		return tierForBalance(balance), nil
	}
}

// resolveTier is the request-scoped variant over the package chain client.
func resolveTier(ctx context.Context, wallet string) (story.Tier, error) {
	balance, err := chain.NativeBalance(ctx, wallet)
	if err != nil {
		return story.TierNone, err
	}
	return tierForBalance(balance), nil
}

// NFTAccessHandler answers /api/nft/access/{address}.
func NFTAccessHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	address := strings.TrimPrefix(r.URL.Path, "/api/nft/access/")
	if !web3.IsValidAddress(address) {
		writeError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	balance, err := chain.NativeBalance(ctx, address)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error checking access: "+err.Error())
		return
	}

	tier := tierForBalance(balance)
	resp := NFTAccessResponse{
		WalletAddress: address,
		HasAccess:     tier != story.TierNone,
		AccessLevel:   string(tier),
	}
	if resp.HasAccess {
		resp.NFTCount = 1
	}

	writeJSON(w, http.StatusOK, resp)
}
