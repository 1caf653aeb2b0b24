package wa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// HTTPGateway fala com o processo bridge do WhatsApp.
type HTTPGateway struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPGateway(baseURL, token string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *HTTPGateway) Connect(ctx context.Context) error {
	return g.post(ctx, "/session/connect", nil)
}

func (g *HTTPGateway) Logout(ctx context.Context) error {
	return g.post(ctx, "/session/logout", nil)
}

func (g *HTTPGateway) SendText(ctx context.Context, to, text string) error {
	return g.post(ctx, "/messages/text", map[string]any{
		"to":   to,
		"text": text,
	})
}

func (g *HTTPGateway) SendImage(ctx context.Context, to, path, caption string) error {
	return g.post(ctx, "/messages/image", map[string]any{
		"to":      to,
		"path":    path,
		"caption": caption,
	})
}

func (g *HTTPGateway) post(ctx context.Context, path string, body any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return errors.New("gateway error: " + resp.Status + " body=" + string(respBody))
	}
	return nil
}
