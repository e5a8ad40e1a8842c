package companion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// TTSClient synthesizes speech audio for a piece of text. Implementations
// are single-attempt; a failed call is simply a day without a voice.
type TTSClient interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// =============================================================================
// VOICEVOX
// =============================================================================

// VoicevoxClient talks to a VOICEVOX engine: one call to build the audio
// query, one to synthesize it into WAV bytes.
type VoicevoxClient struct {
	baseURL    string
	speaker    int
	httpClient *http.Client
}

// NewVoicevoxClient creates a client for the engine at baseURL with the
// given speaker id.
func NewVoicevoxClient(baseURL string, speaker int) *VoicevoxClient {
	return &VoicevoxClient{
		baseURL:    baseURL,
		speaker:    speaker,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *VoicevoxClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	params := url.Values{}
	params.Set("text", text)
	params.Set("speaker", strconv.Itoa(c.speaker))

	queryReq, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/audio_query?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create query request: %w", err)
	}

	queryResp, err := c.httpClient.Do(queryReq)
	if err != nil {
		return nil, fmt.Errorf("audio query failed: %w", err)
	}
	defer queryResp.Body.Close()

	queryBody, err := io.ReadAll(queryResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio query: %w", err)
	}
	if queryResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audio query failed with status %d: %s", queryResp.StatusCode, string(queryBody))
	}

	synthReq, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/synthesis?speaker="+strconv.Itoa(c.speaker), bytes.NewReader(queryBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}
	synthReq.Header.Set("Content-Type", "application/json")

	synthResp, err := c.httpClient.Do(synthReq)
	if err != nil {
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}
	defer synthResp.Body.Close()

	audio, err := io.ReadAll(synthResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if synthResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesis failed with status %d", synthResp.StatusCode)
	}

	return audio, nil
}

// =============================================================================
// ElevenLabs
// =============================================================================

// ElevenLabsClient talks to the ElevenLabs text-to-speech API.
type ElevenLabsClient struct {
	apiKey     string
	voiceID    string
	baseURL    string
	httpClient *http.Client
}

// NewElevenLabsClient creates a client for the given voice.
func NewElevenLabsClient(apiKey, voiceID string) *ElevenLabsClient {
	return NewElevenLabsClientWithBaseURL(apiKey, voiceID, "https://api.elevenlabs.io/v1")
}

// NewElevenLabsClientWithBaseURL targets a non-default API endpoint.
func NewElevenLabsClientWithBaseURL(apiKey, voiceID, baseURL string) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey:     apiKey,
		voiceID:    voiceID,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	reqBody, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": "eleven_multilingual_v2",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/text-to-speech/"+c.voiceID, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(audio))
	}

	return audio, nil
}

var (
	_ TTSClient = (*VoicevoxClient)(nil)
	_ TTSClient = (*ElevenLabsClient)(nil)
)
