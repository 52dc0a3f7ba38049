package generation_api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"visionary/entities"
	"visionary/log"
)

type apiImplementation struct {
	host   string
	client *http.Client
}

type Config struct {
	// Host is the base URL of the generation service, e.g. http://localhost:8000
	Host string
	// Client defaults to a client without an explicit timeout.
	Client *http.Client
}

func New(cfg Config) (GenerationAPI, error) {
	if cfg.Host == "" {
		return nil, errors.New("missing host")
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}

	return &apiImplementation{
		host:   strings.TrimRight(cfg.Host, "/"),
		client: client,
	}, nil
}

func (api *apiImplementation) Client() *http.Client { return api.client }
func (api *apiImplementation) Host(path ...string) string {
	if len(path) > 0 {
		path = slices.Insert(path, 0, api.host)
		return strings.Join(path, "")
	}
	return api.host
}

func (api *apiImplementation) Generate(ctx context.Context, req *entities.GenerationRequest) (*entities.GenerationResponse, error) {
	if req == nil {
		return nil, errors.New("missing request")
	}

	response := new(entities.GenerationResponse)
	if err := POST(ctx, api.client, api.Host("/api/generate"), req, response); err != nil {
		return nil, fmt.Errorf("error with POST request: %w", err)
	}

	return response, nil
}

// GET is a generic function to make a GET request to the API
// It returns the response body as the specified type
func GET[T any](ctx context.Context, client *http.Client, url string) (*T, error) {
	v := new(T)
	err := Do[T](ctx, client, http.MethodGet, url, nil, v)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// POST is a generic function to make a POST request to the API
// It writes to v the response body as the specified type
func POST[T any](ctx context.Context, client *http.Client, url string, body any, v *T) error {
	if body == nil {
		return Do(ctx, client, http.MethodPost, url, nil, v)
	}
	reader := new(bytes.Buffer)
	if err := json.NewEncoder(reader).Encode(body); err != nil {
		return err
	}
	return Do(ctx, client, http.MethodPost, url, reader, v)
}

func Do[T any](ctx context.Context, client *http.Client, method string, url string, body io.Reader, v *T) error {
	request, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return err
	}
	defer closeResponseBody(ctx, response.Body)

	if response.StatusCode != http.StatusOK {
		responseString := " (unknown error)"
		body, _ := io.ReadAll(response.Body)
		if len(body) > 0 {
			responseString = fmt.Sprintf(": %s", bytes.TrimSpace(body))
		}
		return fmt.Errorf("unexpected status code: `%s`%s", response.Status, responseString)
	}

	if v == nil {
		return nil
	}

	err = json.NewDecoder(response.Body).Decode(v)
	if err != nil {
		return fmt.Errorf("error decoding response body: %w", err)
	}

	return nil
}

func closeResponseBody(ctx context.Context, closer io.Closer) {
	if err := closer.Close(); err != nil {
		log.FromContextOrDiscard(ctx).Warn("error closing response body", "error", err)
	}
}
