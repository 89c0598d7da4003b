package dialogflow

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var scopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/dialogflow",
}

// NewAuthenticatedHTTPClient returns an http.Client that signs requests with
// Google OAuth2 tokens. credentialsFile may point at a service-account or
// authorized-user JSON file; when empty, Application Default Credentials are
// used.
//
// Credentials are resolved on the first request, not here. A missing or
// unreadable credential fails that request and is retried on the next one.
func NewAuthenticatedHTTPClient(ctx context.Context, credentialsFile string) *http.Client {
	src := &credentialsTokenSource{ctx: ctx, credentialsFile: credentialsFile}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(nil, src))
}

// credentialsTokenSource finds credentials once they are first needed and
// keeps the resulting token source after the first success.
type credentialsTokenSource struct {
	ctx             context.Context
	credentialsFile string

	mu  sync.Mutex
	src oauth2.TokenSource
}

func (c *credentialsTokenSource) Token() (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.src == nil {
		creds, err := findCredentials(c.ctx, c.credentialsFile)
		if err != nil {
			return nil, err
		}
		c.src = creds.TokenSource
	}
	return c.src.Token()
}

func findCredentials(ctx context.Context, credentialsFile string) (*google.Credentials, error) {
	if credentialsFile == "" {
		creds, err := google.FindDefaultCredentials(ctx, scopes...)
		if err != nil {
			return nil, fmt.Errorf("dialogflow: default credentials: %w", err)
		}
		return creds, nil
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("dialogflow: read credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("dialogflow: parse credentials: %w", err)
	}
	return creds, nil
}
