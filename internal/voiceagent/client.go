package voiceagent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fortaxe/food-track-backend/internal"
	"github.com/fortaxe/food-track-backend/internal/config"
)

const defaultBaseURL = "https://api.elevenlabs.io"

// Client is a thin wrapper over the ElevenLabs HTTP API. It carries no
// decision logic; the webhook consumes its output as-is.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	cfg        config.ElevenLabsConfig
	logger     internal.Logger
}

func NewClient(cfg config.ElevenLabsConfig, logger internal.Logger) *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		cfg:        cfg,
		logger:     logger,
	}
}

// SignedURL fetches a signed websocket URL for a conversational AI session
// with the configured agent.
func (c *Client) SignedURL(ctx context.Context) (string, error) {
	if c.cfg.AgentID == "" {
		return "", errors.New("agent id not configured")
	}

	endpoint := c.BaseURL + "/v1/convai/conversation/get_signed_url?agent_id=" + url.QueryEscape(c.cfg.AgentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger.Errorf("failed to call elevenlabs: %v", err)
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.Errorf("elevenlabs signed-url returned %d", resp.StatusCode)
		return "", errors.New("elevenlabs returned non-200")
	}

	var body struct {
		SignedURL string `json:"signed_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.SignedURL, nil
}

// TextToSpeech converts text to speech and returns the audio stream. The
// caller owns the returned body and must close it.
func (c *Client) TextToSpeech(ctx context.Context, text string) (io.ReadCloser, error) {
	payload, err := json.Marshal(map[string]string{
		"text":     text,
		"model_id": "eleven_turbo_v2_5",
	})
	if err != nil {
		return nil, err
	}

	endpoint := c.BaseURL + "/v1/text-to-speech/" + url.PathEscape(c.cfg.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger.Errorf("failed to call elevenlabs tts: %v", err)
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		c.logger.Errorf("elevenlabs tts returned %d", resp.StatusCode)
		return nil, errors.New("elevenlabs returned non-200")
	}
	return resp.Body, nil
}
