package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"linecut/internal/model"
)

type PixClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewPixClient builds a client that issues at most perSecond charge requests
// per second.
func NewPixClient(baseURL string, timeout time.Duration, perSecond float64) *PixClient {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &PixClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// CreateCharge asks the PIX API for an immediate charge of total BRL payable
// to key.
func (c *PixClient) CreateCharge(ctx context.Context, total float64, key string) (*model.PixResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait rate limit: %w", err)
	}

	body, err := json.Marshal(model.PixRequest{ValorTotal: total, ChavePix: key})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %d, body: %s", resp.StatusCode, string(raw))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("empty response body")
	}

	var res model.PixResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if res.CobData.TxID == "" {
		return nil, errors.New("response without txid")
	}
	res.QRCodeImage = NormalizeQRCode(res.QRCodeImage)
	return &res, nil
}

// NormalizeQRCode strips a data URI prefix such as "data:image/png;base64,".
func NormalizeQRCode(raw string) string {
	if i := strings.Index(raw, "base64,"); i >= 0 {
		return raw[i+len("base64,"):]
	}
	return raw
}
