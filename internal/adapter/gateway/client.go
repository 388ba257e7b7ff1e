package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/printmart/printmart/internal/domain/model"
)

const (
	payPath    = "/pg/v1/pay"
	statusPath = "/pg/v1/status"
)

// ErrChecksumMismatch indicates a callback whose X-VERIFY header does not
// match the payload and must be discarded.
var ErrChecksumMismatch = errors.New("gateway checksum mismatch")

// ErrGatewayRejected indicates the gateway refused to open a payment session.
var ErrGatewayRejected = errors.New("gateway rejected payment request")

// InitiateRequest describes one payment session to open at the gateway.
type InitiateRequest struct {
	TxnID       string
	UserID      int64
	AmountPaise int64
	RedirectURL string
}

// InitiateResponse carries the page the user must be sent to.
type InitiateResponse struct {
	TxnID       string
	RedirectURL string
}

// Client exposes payment gateway operations.
type Client interface {
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error)
	QueryStatus(ctx context.Context, txnID string) (*model.PaymentResult, error)
	VerifyCallback(verifyHeader string, body []byte) (*model.PaymentResult, error)
}

// HTTPClient implements Client against the gateway HTTP API. Every request
// carries a checksum over the payload, the API path and the salt key, so the
// gateway can authenticate the merchant without a session.
type HTTPClient struct {
	baseURL     *url.URL
	httpClient  *http.Client
	logger      *slog.Logger
	merchantID  string
	saltKey     string
	saltIndex   int
	callbackURL string
}

// Options configures the gateway client.
type Options struct {
	BaseURL     string
	MerchantID  string
	SaltKey     string
	SaltIndex   int
	CallbackURL string
	Timeout     time.Duration
}

// NewHTTPClient creates the gateway client.
func NewHTTPClient(opts Options, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:     parsed,
		logger:      logger,
		merchantID:  opts.MerchantID,
		saltKey:     opts.SaltKey,
		saltIndex:   opts.SaltIndex,
		callbackURL: opts.CallbackURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// checksum signs material with the salt key. The gateway expects
// sha256(material + saltKey) in hex followed by "###" and the salt index.
func (c *HTTPClient) checksum(material string) string {
	sum := sha256.Sum256([]byte(material + c.saltKey))
	return hex.EncodeToString(sum[:]) + "###" + strconv.Itoa(c.saltIndex)
}

type payPayload struct {
	MerchantID            string        `json:"merchantId"`
	MerchantTransactionID string        `json:"merchantTransactionId"`
	MerchantUserID        string        `json:"merchantUserId"`
	Amount                int64         `json:"amount"`
	RedirectURL           string        `json:"redirectUrl"`
	RedirectMode          string        `json:"redirectMode"`
	CallbackURL           string        `json:"callbackUrl,omitempty"`
	PaymentInstrument     payInstrument `json:"paymentInstrument"`
}

type payInstrument struct {
	Type string `json:"type"`
}

type payResponse struct {
	Success bool `json:"success"`
	Data    struct {
		InstrumentResponse struct {
			RedirectInfo struct {
				URL string `json:"url"`
			} `json:"redirectInfo"`
		} `json:"instrumentResponse"`
	} `json:"data"`
}

// statusPayload mirrors the verdict JSON the gateway reports, both in status
// responses and in callback bodies.
type statusPayload struct {
	Code string `json:"code"`
	Data struct {
		MerchantTransactionID string `json:"merchantTransactionId"`
		State                 string `json:"state"`
	} `json:"data"`
}

// Initiate opens a payment session and returns the hosted payment page URL.
func (c *HTTPClient) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	payload := payPayload{
		MerchantID:            c.merchantID,
		MerchantTransactionID: req.TxnID,
		MerchantUserID:        "MUID" + strconv.FormatInt(req.UserID, 10),
		Amount:                req.AmountPaise,
		RedirectURL:           req.RedirectURL,
		RedirectMode:          "REDIRECT",
		CallbackURL:           c.callbackURL,
		PaymentInstrument:     payInstrument{Type: "PAY_PAGE"},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode pay payload: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	body, err := json.Marshal(map[string]string{"request": encoded})
	if err != nil {
		return nil, fmt.Errorf("encode pay request: %w", err)
	}

	endpoint := *c.baseURL
	endpoint.Path = endpoint.Path + payPath

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-VERIFY", c.checksum(encoded+payPath))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("gateway pay request failed",
			slog.Int("status", resp.StatusCode),
			slog.String("txn_id", req.TxnID),
		)
		return nil, fmt.Errorf("gateway error: %s", resp.Status)
	}

	var data payResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, fmt.Errorf("decode pay response: %w", err)
	}
	if !data.Success || data.Data.InstrumentResponse.RedirectInfo.URL == "" {
		return nil, ErrGatewayRejected
	}

	return &InitiateResponse{TxnID: req.TxnID, RedirectURL: data.Data.InstrumentResponse.RedirectInfo.URL}, nil
}

// QueryStatus asks the gateway for the current verdict on one transaction.
func (c *HTTPClient) QueryStatus(ctx context.Context, txnID string) (*model.PaymentResult, error) {
	apiPath := statusPath + "/" + c.merchantID + "/" + txnID

	endpoint := *c.baseURL
	endpoint.Path = endpoint.Path + apiPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-VERIFY", c.checksum(apiPath))
	req.Header.Set("X-MERCHANT-ID", c.merchantID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("gateway status request failed",
			slog.Int("status", resp.StatusCode),
			slog.String("txn_id", txnID),
		)
		return nil, fmt.Errorf("gateway error: %s", resp.Status)
	}

	return parseVerdict(txnID, body)
}

// VerifyCallback authenticates a server-to-server callback body against its
// X-VERIFY header and extracts the verdict. The body is the JSON object
// {"response": "<base64 payload>"} posted by the gateway.
func (c *HTTPClient) VerifyCallback(verifyHeader string, body []byte) (*model.PaymentResult, error) {
	var envelope struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode callback body: %w", err)
	}
	if envelope.Response == "" {
		return nil, fmt.Errorf("decode callback body: empty response field")
	}

	expected := c.checksum(envelope.Response)
	if !hmac.Equal([]byte(expected), []byte(verifyHeader)) {
		return nil, ErrChecksumMismatch
	}

	decoded, err := base64.StdEncoding.DecodeString(envelope.Response)
	if err != nil {
		return nil, fmt.Errorf("decode callback payload: %w", err)
	}

	return parseVerdict("", decoded)
}

func parseVerdict(txnID string, raw []byte) (*model.PaymentResult, error) {
	var payload statusPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode gateway verdict: %w", err)
	}
	if payload.Data.MerchantTransactionID != "" {
		txnID = payload.Data.MerchantTransactionID
	}
	if txnID == "" {
		return nil, fmt.Errorf("gateway verdict without transaction id")
	}

	var state model.GatewayState
	switch payload.Data.State {
	case string(model.GatewayStateCompleted):
		state = model.GatewayStateCompleted
	case string(model.GatewayStatePending), "":
		state = model.GatewayStatePending
	default:
		state = model.GatewayStateFailed
	}
	// Some error verdicts omit data.state and signal only through code.
	if payload.Data.State == "" && payload.Code != "" && payload.Code != "PAYMENT_PENDING" {
		if payload.Code == "PAYMENT_SUCCESS" {
			state = model.GatewayStateCompleted
		} else {
			state = model.GatewayStateFailed
		}
	}

	return &model.PaymentResult{TxnID: txnID, State: state, Raw: raw}, nil
}
