package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/krisalay/observable-cache/types"
)

/*
HTTPSource is a DataSource speaking JSON over HTTP against a REST API:

	GET    {base}/tasks        list the collection
	POST   {base}/tasks        create an item
	PUT    {base}/tasks/{id}   update an item
	DELETE {base}/tasks/{id}   delete an item

Status codes map onto the error taxonomy:
- transport failures        → ErrNetwork
- 400, 422                  → ErrValidation
- 404                       → ErrNotFound (success for Delete)
- any other non-2xx         → ErrServer
*/
type HTTPSource struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// listResponse mirrors the API's paginated list envelope. Only the
// tasks field matters to the cache.
type listResponse struct {
	Tasks []types.Item `json:"tasks"`
}

// errorResponse mirrors the API's error envelope.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewHTTPSource(baseURL string, client *http.Client, logger zerolog.Logger) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger.With().Str("component", "http_source").Logger(),
	}
}

func (h *HTTPSource) List(ctx context.Context) ([]types.Item, error) {
	var out listResponse
	if err := h.do(ctx, http.MethodGet, "/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (h *HTTPSource) Create(ctx context.Context, item types.Item) (types.Item, error) {
	var out types.Item
	if err := h.do(ctx, http.MethodPost, "/tasks", &item, &out); err != nil {
		return types.Item{}, err
	}
	return out, nil
}

func (h *HTTPSource) Update(ctx context.Context, item types.Item) (types.Item, error) {
	var out types.Item
	if err := h.do(ctx, http.MethodPut, "/tasks/"+item.ID, &item, &out); err != nil {
		return types.Item{}, err
	}
	return out, nil
}

func (h *HTTPSource) Delete(ctx context.Context, id string) error {
	err := h.do(ctx, http.MethodDelete, "/tasks/"+id, nil, nil)

	// A 404 on delete means the item is already gone. The contract
	// treats that as success.
	if err != nil && ErrNotFound.Is(err) {
		return nil
	}
	return err
}

// do performs one request/response round trip. body and out may be nil.
func (h *HTTPSource) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return ErrValidation.Wrapf("encode request: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return ErrNetwork.Wrapf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("transport failure")
		return ErrNetwork.Wrapf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	h.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request complete")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return ErrServer.Wrapf("%s %s: malformed response: %v", method, path, err)
		}
		return nil
	}

	return h.statusError(resp, method, path)
}

// statusError maps a non-2xx response onto the taxonomy, preferring the
// server's own error message when the envelope decodes.
func (h *HTTPSource) statusError(resp *http.Response, method, path string) error {
	detail := fmt.Sprintf("%s %s: status %d", method, path, resp.StatusCode)

	var envelope errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
		detail = fmt.Sprintf("%s: %s", detail, envelope.Error.Message)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnprocessableEntity:
		return ErrValidation.Wrap(detail)
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound.Wrap(detail)
	default:
		return ErrServer.Wrap(detail)
	}
}
