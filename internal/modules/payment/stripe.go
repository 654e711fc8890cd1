package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// StripeClient is the slice of the Stripe API the payment service uses.
type StripeClient interface {
	CreateCustomer(ctx context.Context, email, name, phone string) (*StripeCustomer, error)
	CreatePaymentIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*StripeIntent, error)
	ConfirmPaymentIntent(ctx context.Context, intentID string) (*StripeIntent, error)
}

type StripeCustomer struct {
	ID string `json:"id"`
}

type StripeIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// HTTPStripeClient talks to the Stripe REST API with form-encoded requests.
type HTTPStripeClient struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

func NewHTTPStripeClient() *HTTPStripeClient {
	base := os.Getenv("STRIPE_BASE_URL")
	if base == "" {
		base = "https://api.stripe.com/v1"
	}
	return &HTTPStripeClient{
		secretKey: os.Getenv("STRIPE_SECRET_KEY"),
		baseURL:   base,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPStripeClient) CreateCustomer(ctx context.Context, email, name, phone string) (*StripeCustomer, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("name", name)
	if phone != "" {
		form.Set("phone", phone)
	}

	var customer StripeCustomer
	if err := c.post(ctx, "/customers", form, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *HTTPStripeClient) CreatePaymentIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*StripeIntent, error) {
	form := url.Values{}
	// Stripe expects the amount in the smallest currency unit.
	form.Set("amount", fmt.Sprintf("%d", int64(amount*100)))
	form.Set("currency", currency)
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	var intent StripeIntent
	if err := c.post(ctx, "/payment_intents", form, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *HTTPStripeClient) ConfirmPaymentIntent(ctx context.Context, intentID string) (*StripeIntent, error) {
	var intent StripeIntent
	if err := c.post(ctx, "/payment_intents/"+intentID+"/confirm", url.Values{}, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *HTTPStripeClient) post(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.secretKey, "")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("stripe %s: %s (%w)", path, apiErr.Error.Message, ErrGateway)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
