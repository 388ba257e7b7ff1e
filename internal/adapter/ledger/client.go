package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/printmart/printmart/internal/domain/model"
)

// Client records settled orders in an external spreadsheet ledger. Failures
// here never affect the order itself; callers retry and eventually give up.
type Client interface {
	AppendOrder(ctx context.Context, order *model.Order) error
}

// HTTPClient implements Client against a Sheets-style values:append API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	sheetID    string
	token      string
}

// NewHTTPClient creates the ledger client.
func NewHTTPClient(baseURL, sheetID, token string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ledger url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("ledger url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		sheetID: sheetID,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// AppendOrder appends one row describing a settled order.
func (c *HTTPClient) AppendOrder(ctx context.Context, order *model.Order) error {
	row := []any{
		order.Number,
		order.CreatedAt.Format(time.RFC3339),
		strconv.FormatInt(order.ID, 10),
		strconv.FormatInt(order.UserID, 10),
		strconv.FormatInt(order.StoreID, 10),
		len(order.Items),
		order.TotalPrice,
		order.PlatformFee,
		string(order.PaymentStatus),
	}

	body, err := json.Marshal(map[string]any{
		"range":  "Orders!A1",
		"values": [][]any{row},
	})
	if err != nil {
		return fmt.Errorf("encode ledger row: %w", err)
	}

	endpoint := *c.baseURL
	endpoint.Path = endpoint.Path + "/v4/spreadsheets/" + c.sheetID + "/values/Orders!A1:append"
	query := endpoint.Query()
	query.Set("valueInputOption", "USER_ENTERED")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("ledger append failed",
			slog.Int("status", resp.StatusCode),
			slog.String("order", order.Number),
			slog.String("body", string(respBody)),
		)
		return fmt.Errorf("ledger error: %s", resp.Status)
	}
	return nil
}

// NoopClient is used when no ledger is configured.
type NoopClient struct{}

func (NoopClient) AppendOrder(context.Context, *model.Order) error { return nil }
