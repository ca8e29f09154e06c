// Package ocr calls the OCR.space API to turn a receipt photo into
// raw text. It is a thin external collaborator: the parser only ever
// sees the ParsedText string this package returns.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// DefaultEndpoint is the OCR.space parse endpoint.
const DefaultEndpoint = "https://api.ocr.space/parse/image"

// defaultEngine is OCR.space engine 2, which handles receipt layouts
// better than the default engine.
const defaultEngine = 2

var (
	// ErrNoText means the provider processed the image but found no
	// text in it.
	ErrNoText = errors.New("no text found in image")
)

// Response is the OCR.space API response shape.
type Response struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool `json:"IsErroredOnProcessing"`
	// ErrorMessage is a string or an array of strings depending on
	// the failure; RawMessage defers that choice.
	ErrorMessage json.RawMessage `json:"ErrorMessage"`
}

// Client is an OCR.space API client.
type Client struct {
	// APIKey is the OCR.space API key.
	APIKey string

	// Endpoint overrides DefaultEndpoint, mainly for tests.
	Endpoint string

	// Engine selects the OCR engine (default 2).
	Engine int

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
}

// NewClient returns a client with sane defaults for receipt scanning.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:   apiKey,
		Endpoint: DefaultEndpoint,
		Engine:   defaultEngine,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ParseImage uploads image bytes and returns the recognized text.
// Table mode is always on: receipts are columnar and the parser's
// structured strategy expects column-split output.
func (c *Client) ParseImage(ctx context.Context, image io.Reader, filename string) (string, error) {
	body, contentType, err := c.buildForm(image, filename)
	if err != nil {
		return "", err
	}

	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to build OCR request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("OCR request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OCR provider returned status %d", resp.StatusCode)
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode OCR response: %w", err)
	}

	if result.IsErroredOnProcessing {
		return "", fmt.Errorf("OCR processing failed: %s", errorMessage(result.ErrorMessage))
	}
	if len(result.ParsedResults) == 0 || result.ParsedResults[0].ParsedText == "" {
		return "", ErrNoText
	}

	return result.ParsedResults[0].ParsedText, nil
}

// buildForm assembles the multipart request: the image file plus the
// OCR.space options the original receipt flow uses.
func (c *Client) buildForm(image io.Reader, filename string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build OCR form: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	engine := c.Engine
	if engine == 0 {
		engine = defaultEngine
	}
	fields := map[string]string{
		"apikey":            c.APIKey,
		"language":          "eng",
		"isOverlayRequired": "false",
		"detectOrientation": "true",
		"scale":             "true",
		"OCREngine":         strconv.Itoa(engine),
		"isTable":           "true",
	}
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to build OCR form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to build OCR form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

// errorMessage renders the provider's ErrorMessage field, which may
// be a bare string or an array of strings.
func errorMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "unknown error"
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return single
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[0]
	}
	return string(raw)
}
