// Package client is a typed HTTP client for the canteen API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/modules/catalog"
	"github.com/georgemunganga/canteen-backend/internal/modules/order"
	"github.com/georgemunganga/canteen-backend/internal/modules/paymentqr"
	"github.com/georgemunganga/canteen-backend/internal/modules/report"
	"github.com/georgemunganga/canteen-backend/internal/modules/table"
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d %s (%s)", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client talks to the API mounted at baseURL (for example
// "http://localhost:8080/api").
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a client. token may be empty; hc defaults to a client with a
// 15 second timeout.
func New(baseURL, token string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), token: token, http: hc}
}

// Screenshot is the payment proof attached to a new order.
type Screenshot struct {
	Filename string
	Body     io.Reader
}

// NewOrder is the checkout payload.
type NewOrder struct {
	TableID    string
	Items      []order.LineItem
	Total      float64
	Screenshot *Screenshot
}

func (c *Client) ListItems(ctx context.Context) ([]catalog.Item, error) {
	var items []catalog.Item
	if err := c.do(ctx, http.MethodGet, "/items", nil, "", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListOrders fetches the newest orders. Zero limit and empty status leave
// the server defaults in place.
func (c *Client) ListOrders(ctx context.Context, limit int, status string) ([]order.Order, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if status != "" {
		q.Set("status", status)
	}
	path := "/orders"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var orders []order.Order
	if err := c.do(ctx, http.MethodGet, path, nil, "", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, "", &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status order.Status) (*order.Order, error) {
	body, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		return nil, err
	}
	var o order.Order
	if err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(id), bytes.NewReader(body), "application/json", &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrder submits the order as multipart/form-data.
func (c *Client) CreateOrder(ctx context.Context, in NewOrder) (*order.Order, error) {
	items, err := json.Marshal(in.Items)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("tableId", in.TableID)
	mw.WriteField("items", string(items))
	mw.WriteField("total", strconv.FormatFloat(in.Total, 'f', -1, 64))
	if in.Screenshot != nil {
		part, err := mw.CreateFormFile("screenshot", filepath.Base(in.Screenshot.Filename))
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, in.Screenshot.Body); err != nil {
			return nil, fmt.Errorf("read screenshot: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var o order.Order
	if err := c.do(ctx, http.MethodPost, "/orders", &buf, mw.FormDataContentType(), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Report fetches the revenue report. from and to are passed through as
// given (YYYY-MM-DD or RFC3339); empty means unbounded.
func (c *Client) Report(ctx context.Context, from, to string) (*report.Report, error) {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	path := "/reports"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var rep report.Report
	if err := c.do(ctx, http.MethodGet, path, nil, "", &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (c *Client) ListTables(ctx context.Context) ([]table.View, error) {
	var tables []table.View
	if err := c.do(ctx, http.MethodGet, "/tables", nil, "", &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (c *Client) CurrentPaymentQR(ctx context.Context) (*paymentqr.PaymentQR, error) {
	var qr paymentqr.PaymentQR
	if err := c.do(ctx, http.MethodGet, "/payment-qr", nil, "", &qr); err != nil {
		return nil, err
	}
	return &qr, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Message, apiErr.Detail = payload.Message, payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
