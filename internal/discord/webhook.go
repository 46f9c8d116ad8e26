package discord

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

	logx "stockwatch/pkg/logx"
)

// Webhook is the notification sink: it creates and edits the single live
// stock message behind one webhook URL.
type Webhook struct {
	http *http.Client
	url  string
	log  logx.Logger
}

func NewWebhook(url string, log logx.Logger) *Webhook {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Webhook{
		http: &http.Client{Timeout: 15 * time.Second},
		url:  strings.TrimRight(url, "/"),
		log:  log,
	}
}

// createResponse is the slice of the webhook execute response we need.
type createResponse struct {
	ID string `json:"id"`
}

// Create posts a new message and returns its id. The ?wait=true query makes
// the API return the created message instead of a 204.
func (w *Webhook) Create(ctx context.Context, p WebhookPayload) (string, error) {
	body, status, err := w.do(ctx, http.MethodPost, w.url+"?wait=true", p)
	if err != nil {
		return "", &SinkError{Kind: SinkOther, Op: "create", Err: err}
	}
	if status < 200 || status >= 300 {
		return "", &SinkError{Kind: kindForStatus(status), Op: "create", Status: status}
	}
	var cr createResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", &SinkError{Kind: SinkOther, Op: "create", Err: fmt.Errorf("decode response: %w", err)}
	}
	if cr.ID == "" {
		return "", &SinkError{Kind: SinkOther, Op: "create", Err: errors.New("response missing message id")}
	}
	return cr.ID, nil
}

// Edit replaces the content of an existing message by id.
func (w *Webhook) Edit(ctx context.Context, messageID string, p WebhookPayload) error {
	u := w.url + "/messages/" + messageID
	_, status, err := w.do(ctx, http.MethodPatch, u, p)
	if err != nil {
		return &SinkError{Kind: SinkOther, Op: "edit", Err: err}
	}
	if status < 200 || status >= 300 {
		return &SinkError{Kind: kindForStatus(status), Op: "edit", Status: status}
	}
	return nil
}

// SendText posts a plain content message. Used as the logx webhook sink;
// failures are swallowed there, so this only reports them.
func (w *Webhook) SendText(ctx context.Context, text string) error {
	_, status, err := w.do(ctx, http.MethodPost, w.url, struct {
		Content string `json:"content"`
	}{Content: text})
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("webhook send: status %d", status)
	}
	return nil
}

func (w *Webhook) do(ctx context.Context, method, url string, payload any) ([]byte, int, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(b))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return body, resp.StatusCode, nil
}

func kindForStatus(status int) SinkErrorKind {
	if status == http.StatusNotFound {
		return SinkNotFound
	}
	return SinkOther
}
