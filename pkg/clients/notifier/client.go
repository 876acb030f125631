package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/stockledger/internal/config"
)

// Client delivers text notifications to a chat webhook.
type Client interface {
	Send(ctx context.Context, text string) error
}

var _ Client = (*WebhookClient)(nil)

// WebhookClient is a resty-backed implementation of Client posting {"text": ...} payloads,
// the shape accepted by Slack, Mattermost and Google Chat incoming webhooks.
type WebhookClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client using the provided configuration values.
func NewClient(cfg config.NotifierConfig) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	if cfg.Token != "" {
		restyClient.SetAuthToken(cfg.Token)
	}

	return &WebhookClient{
		httpClient: restyClient,
		url:        cfg.WebhookURL,
	}
}

type message struct {
	Text string `json:"text"`
}

// apiError covers the common error bodies returned by chat webhooks.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Send posts text to the webhook.
func (c *WebhookClient) Send(ctx context.Context, text string) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(message{Text: text}).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		detail := apiErr.Message
		if detail == "" {
			detail = apiErr.Error
		}
		if detail == "" {
			detail = resp.String()
		}
		return fmt.Errorf("notification webhook error: code=%d, message=%s", resp.StatusCode(), detail)
	}

	return nil
}
