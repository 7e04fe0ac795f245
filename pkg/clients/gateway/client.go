// Package gateway is the typed client for the platform-integration API
// gateway, which fronts the social and ads platform connectors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/failsafe-go/failsafe-go"

	"github.com/theo45530/commerceai-pro/pkg/clients"
)

const DefaultBaseURL = "http://api-gateway:5000"

type APIError struct {
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway returned status: %d", e.StatusCode)
}

type Client struct {
	baseURL      string
	client       *http.Client
	httpExecutor failsafe.Executor[*http.Response]
	shouldRetry  func(resp *http.Response, err error) bool
}

type Option func(*Client)

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	defaultConfig := clients.DefaultHTTPExecutorConfig()
	c := &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: clients.DefaultTransport(),
		},
		httpExecutor: clients.NewHTTPExecutor(defaultConfig),
		shouldRetry:  defaultConfig.ShouldRetry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

func WithHTTPExecutorConfig(cfg clients.HTTPExecutorConfig) Option {
	return func(c *Client) {
		c.httpExecutor = clients.NewHTTPExecutor(cfg)
		c.shouldRetry = cfg.ShouldRetry
	}
}

func (c *Client) doRequest(ctx context.Context, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	if c.httpExecutor == nil {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		return c.client.Do(req)
	}

	return clients.ExecuteHTTP(ctx, c.httpExecutor, func() (*http.Response, error) {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := c.client.Do(req)
		if c.shouldRetry != nil && c.shouldRetry(resp, err) {
			if resp != nil && resp.Body != nil {
				_ = resp.Body.Close()
			}
		}
		return resp, err
	})
}

// doJSON sends a request with an optional JSON body and decodes the JSON
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, reqURL string, body interface{}, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	resp, err := c.doRequest(ctx, func(ctx context.Context) (*http.Request, error) {
		var reader *bytes.Buffer
		if payload != nil {
			reader = bytes.NewBuffer(payload)
		} else {
			reader = &bytes.Buffer{}
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// InitializeConnector registers platform credentials with the gateway and
// returns the connector ID used by all subsequent calls.
func (c *Client) InitializeConnector(ctx context.Context, platform string, credentials map[string]interface{}) (string, error) {
	reqURL := fmt.Sprintf("%s/api/integrations/%s/initialize", c.baseURL, platform)

	var result struct {
		ConnectorID string `json:"connector_id"`
	}
	err := c.doJSON(ctx, http.MethodPost, reqURL, map[string]interface{}{
		"credentials": credentials,
	}, &result)
	if err != nil {
		return "", err
	}
	if result.ConnectorID == "" {
		return "", fmt.Errorf("gateway returned no connector id for %s", platform)
	}
	return result.ConnectorID, nil
}

// PublishResult is the gateway's answer to a successful publish.
type PublishResult struct {
	PostID  string `json:"post_id"`
	PostURL string `json:"post_url"`
}

// PublishContent sends a platform-shaped content payload through the gateway.
func (c *Client) PublishContent(ctx context.Context, platform, connectorID string, content interface{}) (*PublishResult, error) {
	reqURL := fmt.Sprintf("%s/api/integrations/%s/publish-content", c.baseURL, platform)

	var result PublishResult
	err := c.doJSON(ctx, http.MethodPost, reqURL, map[string]interface{}{
		"connector_id": connectorID,
		"content":      content,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateContent replaces the platform copy of an already-published post.
func (c *Client) UpdateContent(ctx context.Context, platform, connectorID, postID string, content interface{}) (map[string]interface{}, error) {
	reqURL := fmt.Sprintf("%s/api/integrations/%s/update-content", c.baseURL, platform)

	var result map[string]interface{}
	err := c.doJSON(ctx, http.MethodPut, reqURL, map[string]interface{}{
		"connector_id": connectorID,
		"post_id":      postID,
		"content":      content,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetContentPerformance returns engagement metrics for a published post.
func (c *Client) GetContentPerformance(ctx context.Context, platform, connectorID, postID string) (map[string]interface{}, error) {
	query := url.Values{}
	query.Set("connector_id", connectorID)
	query.Set("post_id", postID)
	reqURL := fmt.Sprintf("%s/api/integrations/%s/content-performance?%s", c.baseURL, platform, query.Encode())

	var result map[string]interface{}
	if err := c.doJSON(ctx, http.MethodGet, reqURL, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetPlatformAnalytics returns account-level metrics for a date range
// (YYYY-MM-DD, inclusive).
func (c *Client) GetPlatformAnalytics(ctx context.Context, platform, connectorID, startDate, endDate string) (map[string]interface{}, error) {
	query := url.Values{}
	query.Set("connector_id", connectorID)
	query.Set("start_date", startDate)
	query.Set("end_date", endDate)
	reqURL := fmt.Sprintf("%s/api/integrations/%s/analytics?%s", c.baseURL, platform, query.Encode())

	var result map[string]interface{}
	if err := c.doJSON(ctx, http.MethodGet, reqURL, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteContent removes a published post from the platform.
func (c *Client) DeleteContent(ctx context.Context, platform, connectorID, postID string) error {
	reqURL := fmt.Sprintf("%s/api/integrations/%s/content", c.baseURL, platform)

	return c.doJSON(ctx, http.MethodDelete, reqURL, map[string]interface{}{
		"connector_id": connectorID,
		"post_id":      postID,
	}, nil)
}

// CampaignResult is the gateway's answer to campaign creation.
type CampaignResult struct {
	CampaignID string `json:"campaign_id"`
}

// CreateCampaign creates a platform campaign from an already-transformed
// payload. New campaigns are always created paused.
func (c *Client) CreateCampaign(ctx context.Context, platform, connectorID string, campaign interface{}) (*CampaignResult, error) {
	reqURL := fmt.Sprintf("%s/api/integrations/%s/campaigns", c.baseURL, platform)

	var result CampaignResult
	err := c.doJSON(ctx, http.MethodPost, reqURL, map[string]interface{}{
		"connector_id":  connectorID,
		"campaign_data": campaign,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateCampaign applies changes to an existing platform campaign.
func (c *Client) UpdateCampaign(ctx context.Context, platform, connectorID, campaignID string, update interface{}) (map[string]interface{}, error) {
	reqURL := fmt.Sprintf("%s/api/integrations/%s/campaigns/%s", c.baseURL, platform, campaignID)

	var result map[string]interface{}
	err := c.doJSON(ctx, http.MethodPut, reqURL, map[string]interface{}{
		"connector_id": connectorID,
		"update_data":  update,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetCampaignInsights returns raw spend and engagement numbers for a campaign.
func (c *Client) GetCampaignInsights(ctx context.Context, platform, connectorID, campaignID string) (map[string]interface{}, error) {
	query := url.Values{}
	query.Set("connector_id", connectorID)
	reqURL := fmt.Sprintf("%s/api/integrations/%s/campaigns/%s/insights?%s", c.baseURL, platform, campaignID, query.Encode())

	var result map[string]interface{}
	if err := c.doJSON(ctx, http.MethodGet, reqURL, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateAd creates an ad inside an existing campaign's ad group.
func (c *Client) CreateAd(ctx context.Context, platform, connectorID, campaignID, adGroupID string, ad interface{}) (map[string]interface{}, error) {
	reqURL := fmt.Sprintf("%s/api/integrations/%s/campaigns/%s/adgroups/%s/ads", c.baseURL, platform, campaignID, adGroupID)

	var result map[string]interface{}
	err := c.doJSON(ctx, http.MethodPost, reqURL, map[string]interface{}{
		"connector_id": connectorID,
		"ad_data":      ad,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}
