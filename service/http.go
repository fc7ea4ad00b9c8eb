package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
)

// NewGoogleClient returns an http client authenticated with the credentials file
// or, if empty, with the application default credentials
func NewGoogleClient(ctx context.Context, credentialsFile string, scopes ...string) (*http.Client, error) {
	opts := []option.ClientOption{option.WithScopes(scopes...)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, _, err := htransport.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewGoogleClient: %w", err)
	}
	return client, nil
}

// DefaultProject returns the project of the application default credentials
func DefaultProject(ctx context.Context, scopes ...string) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, scopes...)
	if err != nil {
		return "", fmt.Errorf("DefaultProject: %w", err)
	}
	if creds.ProjectID == "" {
		return "", fmt.Errorf("DefaultProject: no project found in the default credentials")
	}
	return creds.ProjectID, nil
}

// PostJSON posts in as a json body and decodes the json response into out (if not nil).
// A non-2xx response is returned as a *googleapi.Error
func PostJSON(ctx context.Context, client *http.Client, url string, in, out interface{}) error {
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(in); err != nil {
		return fmt.Errorf("PostJSON.Encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("PostJSON.NewRequest: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("PostJSON: %w", err)
	}
	defer resp.Body.Close()
	if err := googleapi.CheckResponse(resp); err != nil {
		return fmt.Errorf("PostJSON(%s): %w", url, err)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("PostJSON.Decode: %w", err)
	}
	return nil
}
