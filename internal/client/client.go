package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"recipe-importer/pkg/api"

	"github.com/go-resty/resty/v2"
)

const (
	importEndpoint      = "/recipes/import"
	galleryEndpoint     = "/recipes/gallery"
	configGetEndpoint   = "/config/get/{key}"
	configSetEndpoint   = "/config/set"
	hfLoginEndpoint     = "/model/login_to_huggingface"
	hfConfigEndpoint    = "/model/get_local_hfconfig"
	HuggingFaceTokenKey = "HuggingfaceUserAccessToken"
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lab api returned %s", e.Status)
}

// LabClient talks to the local experiment backend.
type LabClient struct {
	client *resty.Client
}

func NewLabClient(baseURL string, timeout time.Duration) *LabClient {
	return &LabClient{
		client: resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
	}
}

// ImportRecipe posts the recipe text and returns the raw response body. The
// caller is responsible for interpreting it.
func (c *LabClient) ImportRecipe(ctx context.Context, name, text string) ([]byte, error) {
	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain").
		SetQueryParam("name", name).
		SetBody(text).
		Post(importEndpoint)
	if err != nil {
		return nil, fmt.Errorf("error sending recipe '%s': %w", name, err)
	}

	if !res.IsSuccess() {
		slog.Error("recipe import returned error", "recipe", name, "status_code", res.StatusCode(), "body", res.String())
		return nil, statusError(res)
	}

	return res.Body(), nil
}

func (c *LabClient) Gallery(ctx context.Context) ([]api.RecipeDescriptor, error) {
	var gallery []api.RecipeDescriptor
	if err := c.getJSON(ctx, galleryEndpoint, nil, &gallery); err != nil {
		return nil, fmt.Errorf("error fetching recipe gallery: %w", err)
	}
	return gallery, nil
}

// GetConfig returns the stored value for key. A key that was never set is
// returned as an empty string.
func (c *LabClient) GetConfig(ctx context.Context, key string) (string, error) {
	res, err := c.client.R().
		SetContext(ctx).
		SetPathParam("key", key).
		Get(configGetEndpoint)
	if err != nil {
		return "", fmt.Errorf("error getting config '%s': %w", key, err)
	}
	if !res.IsSuccess() {
		return "", statusError(res)
	}

	var value *string
	if err := json.Unmarshal(res.Body(), &value); err != nil {
		return "", fmt.Errorf("error parsing config '%s': %w", key, err)
	}
	if value == nil {
		return "", nil
	}
	return *value, nil
}

func (c *LabClient) SetConfig(ctx context.Context, key, value string) error {
	res, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"k": key, "v": value}).
		Get(configSetEndpoint)
	if err != nil {
		return fmt.Errorf("error setting config '%s': %w", key, err)
	}
	if !res.IsSuccess() {
		return statusError(res)
	}
	return nil
}

// SetHuggingFaceToken stores the access token and asks the backend to log in
// with it.
func (c *LabClient) SetHuggingFaceToken(ctx context.Context, token string) error {
	if err := c.SetConfig(ctx, HuggingFaceTokenKey, token); err != nil {
		return err
	}

	res, err := c.client.R().SetContext(ctx).Get(hfLoginEndpoint)
	if err != nil {
		return fmt.Errorf("error logging in to huggingface: %w", err)
	}
	if !res.IsSuccess() {
		return statusError(res)
	}
	return nil
}

func (c *LabClient) ModelConfig(ctx context.Context, modelId string) (map[string]any, error) {
	var cfg map[string]any
	if err := c.getJSON(ctx, hfConfigEndpoint, map[string]string{"model_id": modelId}, &cfg); err != nil {
		return nil, fmt.Errorf("error fetching config for model '%s': %w", modelId, err)
	}
	return cfg, nil
}

func (c *LabClient) getJSON(ctx context.Context, endpoint string, params map[string]string, out any) error {
	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get(endpoint)
	if err != nil {
		return err
	}
	if !res.IsSuccess() {
		return statusError(res)
	}
	if err := json.Unmarshal(res.Body(), out); err != nil {
		return fmt.Errorf("error parsing response from %s: %w", endpoint, err)
	}
	return nil
}

func statusError(res *resty.Response) error {
	// resty reports "404 Not Found"; keep only the reason phrase.
	status := strings.TrimSpace(strings.TrimPrefix(res.Status(), strconv.Itoa(res.StatusCode())))
	if status == "" {
		status = http.StatusText(res.StatusCode())
	}
	return &StatusError{StatusCode: res.StatusCode(), Status: status}
}
