// Package web3 is a minimal JSON-RPC client for the Polygon chain, covering
// exactly the calls the platform needs: native balance lookups and the three
// read-only ERC-20 views (balanceOf, decimals, symbol).
package web3

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"
)

// ERC-20 function selectors (first four bytes of the keccak256 signature).
const (
	selectorBalanceOf = "0x70a08231"
	selectorDecimals  = "0x313ce567"
	selectorSymbol    = "0x95d89b41"
)

// Client talks to an EVM JSON-RPC endpoint.
type Client struct {
	rpcURL     string
	httpClient *http.Client
}

// NewClient returns a client for the given RPC endpoint.
func NewClient(rpcURL string) *Client {
	return &Client{
		rpcURL:     rpcURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// TokenBalance is a human-readable ERC-20 balance.
type TokenBalance struct {
	WalletAddress string `json:"wallet_address"`
	Balance       string `json:"balance"`
	Symbol        string `json:"symbol"`
	Decimals      int    `json:"decimals"`
}

// IsValidAddress reports whether s looks like an EVM address: 0x followed by
// 40 hex digits.
func IsValidAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type callArgs struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

func (c *Client) call(ctx context.Context, method string, params ...interface{}) (string, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("rpc %s: %w", method, err)
	}
	defer resp.Body.Close()

	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("rpc %s: decode response: %w", method, err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("rpc %s: %s (code %d)", method, decoded.Error.Message, decoded.Error.Code)
	}

	var result string
	if err := json.Unmarshal(decoded.Result, &result); err != nil {
		return "", fmt.Errorf("rpc %s: unexpected result: %w", method, err)
	}
	return result, nil
}

// NativeBalance returns the wallet's native coin balance in wei.
func (c *Client) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	result, err := c.call(ctx, "eth_getBalance", address, "latest")
	if err != nil {
		return nil, err
	}
	return parseUint(result)
}

// TokenBalanceOf returns the wallet's ERC-20 balance on the given token
// contract, converted to a human-readable decimal string.
func (c *Client) TokenBalanceOf(ctx context.Context, token, holder string) (*TokenBalance, error) {
	rawBalance, err := c.call(ctx, "eth_call", callArgs{To: token, Data: encodeBalanceOf(holder)}, "latest")
	if err != nil {
		return nil, err
	}
	wei, err := parseUint(rawBalance)
	if err != nil {
		return nil, fmt.Errorf("balanceOf: %w", err)
	}

	rawDecimals, err := c.call(ctx, "eth_call", callArgs{To: token, Data: selectorDecimals}, "latest")
	if err != nil {
		return nil, err
	}
	decimals, err := parseUint(rawDecimals)
	if err != nil {
		return nil, fmt.Errorf("decimals: %w", err)
	}

	rawSymbol, err := c.call(ctx, "eth_call", callArgs{To: token, Data: selectorSymbol}, "latest")
	if err != nil {
		return nil, err
	}
	symbol, err := parseString(rawSymbol)
	if err != nil {
		return nil, fmt.Errorf("symbol: %w", err)
	}

	return &TokenBalance{
		WalletAddress: holder,
		Balance:       FormatUnits(wei, int(decimals.Int64())),
		Symbol:        symbol,
		Decimals:      int(decimals.Int64()),
	}, nil
}

// encodeBalanceOf builds calldata for balanceOf(address): the selector plus
// the address left-padded to 32 bytes.
func encodeBalanceOf(holder string) string {
	addr := strings.TrimPrefix(strings.ToLower(holder), "0x")
	return selectorBalanceOf + strings.Repeat("0", 64-len(addr)) + addr
}

// parseUint decodes a hex quantity ("0x..." or raw 32-byte word) into a
// big.Int. An empty result decodes to zero.
func parseUint(hexStr string) (*big.Int, error) {
	s := strings.TrimPrefix(hexStr, "0x")
	if s == "" {
		return big.NewInt(0), nil
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", hexStr)
	}
	return n, nil
}

// parseString decodes an ABI-encoded string return value: a 32-byte offset,
// a 32-byte length, then the bytes.
func parseString(hexStr string) (string, error) {
	s := strings.TrimPrefix(hexStr, "0x")
	if len(s) < 128 {
		return "", fmt.Errorf("short string return %q", hexStr)
	}
	length, err := parseUint(s[64:128])
	if err != nil {
		return "", err
	}
	end := 128 + int(length.Int64())*2
	if end > len(s) {
		return "", fmt.Errorf("truncated string return %q", hexStr)
	}
	out, err := hex.DecodeString(s[128:end])
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FormatUnits converts a wei-scale integer to a decimal string with the
// given number of fractional digits, trailing zeros trimmed.
func FormatUnits(wei *big.Int, decimals int) string {
	if decimals <= 0 {
		return wei.String()
	}
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	value := new(big.Rat).SetFrac(wei, divisor)
	formatted := value.FloatString(decimals)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimSuffix(formatted, ".")
	if formatted == "" || formatted == "-" {
		return "0"
	}
	return formatted
}
