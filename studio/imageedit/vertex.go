package imageedit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Prediction is a single generated image in an Imagen predict response.
type Prediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType,omitempty"`
}

// Predictor sends a predict request to a hosted Imagen model and returns the
// generated images.
type Predictor interface {
	Predict(ctx context.Context, model string, payload map[string]any) ([]Prediction, error)
}

// RESTClientOptions configures the predict client.
type RESTClientOptions struct {
	// HTTPClient replaces the authenticated default client, mainly for tests.
	HTTPClient *http.Client
}

// RESTClient calls the regional aiplatform predict endpoint. Requests are
// authenticated with bearer tokens from the application default credentials.
type RESTClient struct {
	httpClient *http.Client
	project    string
	location   string
}

// NewRESTClient builds a predict client for the given project and location.
func NewRESTClient(ctx context.Context, project, location string, optFns ...func(o *RESTClientOptions)) (*RESTClient, error) {
	opts := RESTClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		ts, err := google.DefaultTokenSource(ctx, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve application default credentials: %w", err)
		}
		httpClient = oauth2.NewClient(ctx, ts)
	}

	return &RESTClient{httpClient: httpClient, project: project, location: location}, nil
}

// Predict posts the payload to the model's predict endpoint and decodes the
// predictions. An error object in the response body is surfaced as an error
// even when the HTTP status is 200.
func (c *RESTClient) Predict(ctx context.Context, model string, payload map[string]any) ([]Prediction, error) {
	endpoint := fmt.Sprintf(
		"https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		c.location, c.project, c.location, model,
	)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode predict payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read predict response: %w", err)
	}

	var parsed struct {
		Predictions []Prediction `json:"predictions"`
		Error       *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode predict response (http %d): %w", resp.StatusCode, err)
	}

	if parsed.Error != nil {
		return nil, fmt.Errorf("predict call failed: %s (%s)", parsed.Error.Message, parsed.Error.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("predict call returned http %d", resp.StatusCode)
	}

	return parsed.Predictions, nil
}
