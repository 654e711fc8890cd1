package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const checksumField = "CHECKSUMHASH"

// PaytmClient holds the merchant credentials and builds/verifies signed
// transaction parameter sets.
type PaytmClient struct {
	merchantID   string
	merchantKey  string
	website      string
	industryType string
	channelID    string
	baseURL      string
	http         *http.Client
}

func NewPaytmClient() *PaytmClient {
	base := os.Getenv("PAYTM_BASE_URL")
	if base == "" {
		base = "https://securegw-stage.paytm.in"
	}
	return &PaytmClient{
		merchantID:   os.Getenv("PAYTM_MERCHANT_ID"),
		merchantKey:  os.Getenv("PAYTM_MERCHANT_KEY"),
		website:      envOrDefault("PAYTM_WEBSITE", "WEBSTAGING"),
		industryType: envOrDefault("PAYTM_INDUSTRY_TYPE", "Retail"),
		channelID:    envOrDefault("PAYTM_CHANNEL_ID", "WEB"),
		baseURL:      base,
		http:         &http.Client{Timeout: 15 * time.Second},
	}
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// GenerateOrderID returns a fresh merchant order id.
func (p *PaytmClient) GenerateOrderID() string {
	return "ORDER_" + strings.ToUpper(uuid.NewString()[:18])
}

// GenerateChecksum signs the parameter set: HMAC-SHA256 over the sorted
// key=value pairs joined with "|", hex uppercase. CHECKSUMHASH itself is
// excluded from the digest.
func (p *PaytmClient) GenerateChecksum(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == checksumField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	mac := hmac.New(sha256.New, []byte(p.merchantKey))
	mac.Write([]byte(strings.Join(pairs, "|")))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// VerifyChecksum recomputes the signature and compares in constant time.
func (p *PaytmClient) VerifyChecksum(params map[string]string, checksum string) bool {
	if checksum == "" {
		return false
	}
	expected := p.GenerateChecksum(params)
	return hmac.Equal([]byte(expected), []byte(strings.ToUpper(checksum)))
}

// TransactionParams is the signed form posted to the Paytm gateway.
type TransactionParams struct {
	Params      map[string]string `json:"paytm_params"`
	RedirectURL string            `json:"redirect_url"`
}

// BuildTransaction assembles the order parameters and signs them.
func (p *PaytmClient) BuildTransaction(orderID, customerID, amount, customerEmail, customerPhone, callbackURL string) *TransactionParams {
	params := map[string]string{
		"MID":              p.merchantID,
		"WEBSITE":          p.website,
		"INDUSTRY_TYPE_ID": p.industryType,
		"CHANNEL_ID":       p.channelID,
		"ORDER_ID":         orderID,
		"CUST_ID":          customerID,
		"TXN_AMOUNT":       amount,
		"EMAIL":            customerEmail,
		"MOBILE_NO":        customerPhone,
		"CALLBACK_URL":     callbackURL,
	}
	params[checksumField] = p.GenerateChecksum(params)
	return &TransactionParams{
		Params:      params,
		RedirectURL: fmt.Sprintf("%s/order/process", p.baseURL),
	}
}

// StatusResult is the gateway's view of a transaction.
type StatusResult struct {
	OrderID       string `json:"ORDERID"`
	TransactionID string `json:"TXNID"`
	Amount        string `json:"TXNAMOUNT"`
	Status        string `json:"STATUS"`
	RespCode      string `json:"RESPCODE"`
	RespMsg       string `json:"RESPMSG"`
}

func (r *StatusResult) Succeeded() bool { return r.Status == "TXN_SUCCESS" }

// TransactionStatus queries the gateway's status API for an order.
func (p *PaytmClient) TransactionStatus(ctx context.Context, orderID string) (*StatusResult, error) {
	payload := map[string]string{"MID": p.merchantID, "ORDERID": orderID}
	payload[checksumField] = p.GenerateChecksum(payload)

	body, err := json.Marshal(map[string]interface{}{"requestParameters": payload})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/order/status", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paytm status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("paytm status returned %d (%w)", resp.StatusCode, ErrGateway)
	}

	var result StatusResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
