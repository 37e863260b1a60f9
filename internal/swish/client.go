// Package swish is a minimal client for the Swish m-commerce payment
// request API. The HTTPS client (carrying the merchant TLS certificate)
// is constructed once and injected, never a package-level global.
package swish

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/KellenSmith/TaskMaster-sub001/internal/config"
)

type Client struct {
	httpClient  *http.Client
	baseURL     string
	payeeAlias  string
	callbackURL string
}

func NewClient(conf *config.SwishConfig) (*Client, error) {
	transport := &http.Transport{}

	if conf.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(conf.CertFile, conf.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("tls.LoadX509KeyPair -> %w", err)
		}
		transport.TLSClientConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   10 * time.Second,
		},
		baseURL:     conf.BaseURL,
		payeeAlias:  conf.PayeeAlias,
		callbackURL: conf.CallbackURL,
	}, nil
}

type paymentRequestBody struct {
	PayeePaymentReference string `json:"payeePaymentReference"`
	CallbackURL           string `json:"callbackUrl"`
	PayeeAlias            string `json:"payeeAlias"`
	Amount                string `json:"amount"`
	Currency              string `json:"currency"`
	Message               string `json:"message"`
}

// CreatePaymentRequest registers a payment request with the provider.
// The reference becomes payeePaymentReference, which the confirmation
// callback echoes back. Amount is in öre; Swish wants SEK with two
// decimals.
func (c *Client) CreatePaymentRequest(ctx context.Context, reference string, amount int64, message string) error {
	body := paymentRequestBody{
		PayeePaymentReference: reference,
		CallbackURL:           c.callbackURL,
		PayeeAlias:            c.payeeAlias,
		Amount:                fmt.Sprintf("%d.%02d", amount/100, amount%100),
		Currency:              "SEK",
		Message:               message,
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	url := fmt.Sprintf("%s/api/v2/paymentrequests/%s", c.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("c.httpClient.Do -> %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		payload, _ := io.ReadAll(res.Body)

		return fmt.Errorf("swish payment request rejected: status %d: %s", res.StatusCode, payload)
	}

	return nil
}
