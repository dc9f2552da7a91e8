package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/mwork/points-api/internal/domain/points"
)

const defaultTimeout = 10 * time.Second

// Client talks to a running points API.
type Client struct {
	baseURL string
	ua      string
	http    *http.Client
}

// APIError is a non-2xx answer carrying the service error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("points api error: status=%d code=%s message=%s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("points api error: status=%d body=%s", e.Status, e.Body)
}

// Unwrap maps spend failures back to the ledger errors so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "INSUFFICIENT_POINTS":
		return points.ErrInsufficientPoints
	case "INVALID_AMOUNT":
		return points.ErrInvalidAmount
	}
	return nil
}

// NewClient creates a new points API client.
func NewClient(baseURL string, timeout time.Duration, ua string) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		ua:      ua,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// AddTransaction records one transaction.
func (c *Client) AddTransaction(ctx context.Context, tx points.Transaction) error {
	body := points.AddTransactionRequest{
		Payer:     tx.Payer,
		Points:    tx.Points,
		Timestamp: tx.Timestamp,
	}
	return c.do(ctx, http.MethodPost, "/points/transaction", body, nil)
}

// Spend spends amount points and returns the per-payer deductions.
func (c *Client) Spend(ctx context.Context, amount int) ([]points.PayerDelta, error) {
	var deltas []points.PayerDelta
	if err := c.do(ctx, http.MethodPost, "/points/spend", points.SpendRequest{Points: amount}, &deltas); err != nil {
		return nil, err
	}
	return deltas, nil
}

// Balances returns the current per-payer balances.
func (c *Client) Balances(ctx context.Context) (points.Balances, error) {
	balances := points.Balances{}
	if err := c.do(ctx, http.MethodGet, "/points/balances", nil, &balances); err != nil {
		return nil, err
	}
	return balances, nil
}

// Transactions returns every recorded transaction with its remaining points.
func (c *Client) Transactions(ctx context.Context) ([]points.Entry, error) {
	var entries []points.Entry
	if err := c.do(ctx, http.MethodGet, "/points/transactions", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	if c == nil || c.http == nil {
		return fmt.Errorf("points request error: client is nil")
	}
	if strings.TrimSpace(c.baseURL) == "" {
		return fmt.Errorf("points config error: base_url is empty")
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("points request error: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("points request error: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyRequestError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("points response error: status=%d: %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("points response error: %w", err)
	}
	return nil
}

func decodeAPIError(status int, raw []byte) error {
	apiErr := &APIError{Status: status, Body: string(raw)}

	var envelope struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}

func classifyRequestError(ctx context.Context, err error) error {
	if isTimeoutError(ctx, err) {
		return fmt.Errorf("points request timeout: %w", err)
	}
	if isNetworkError(err) {
		return fmt.Errorf("points network error: %w", err)
	}
	return fmt.Errorf("points request error: %w", err)
}

func isTimeoutError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}
