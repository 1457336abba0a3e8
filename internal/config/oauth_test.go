package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOAuthClient() *OAuthClient {
	return &OAuthClient{
		ClientID:                "test-client-id.apps.googleusercontent.com",
		ProjectID:               "test-project",
		AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
		TokenURI:                "https://oauth2.googleapis.com/token",
		AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
		ClientSecret:            "test-secret",
		RedirectURIs:            []string{"http://localhost"},
	}
}

func TestValidateOAuthClient_Installed(t *testing.T) {
	cfg := &OAuthClientConfig{Installed: validOAuthClient()}
	assert.NoError(t, ValidateOAuthClient(cfg))
	assert.Same(t, cfg.Installed, cfg.Client())
}

func TestValidateOAuthClient_Web(t *testing.T) {
	cfg := &OAuthClientConfig{Web: validOAuthClient()}
	assert.NoError(t, ValidateOAuthClient(cfg))
	assert.Same(t, cfg.Web, cfg.Client())
}

func TestValidateOAuthClient_NeitherOrBoth(t *testing.T) {
	err := ValidateOAuthClient(&OAuthClientConfig{})
	assert.ErrorContains(t, err, "exactly one")

	err = ValidateOAuthClient(&OAuthClientConfig{Installed: validOAuthClient(), Web: validOAuthClient()})
	assert.ErrorContains(t, err, "exactly one")
}

func TestValidateOAuthClient_MissingClientID(t *testing.T) {
	client := validOAuthClient()
	client.ClientID = ""

	err := ValidateOAuthClient(&OAuthClientConfig{Installed: client})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateOAuthClient_InvalidURL(t *testing.T) {
	client := validOAuthClient()
	client.AuthURI = "not-a-valid-url"

	err := ValidateOAuthClient(&OAuthClientConfig{Installed: client})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateOAuthClient_EmptyRedirectURIs(t *testing.T) {
	client := validOAuthClient()
	client.RedirectURIs = []string{}

	err := ValidateOAuthClient(&OAuthClientConfig{Installed: client})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadOAuthClientFromPath_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	oauthPath := filepath.Join(tmpDir, "oauthClient.json")

	validOAuth := `{
  "installed": {
    "client_id": "test-client-id.apps.googleusercontent.com",
    "project_id": "test-project",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "client_secret": "test-secret",
    "redirect_uris": ["http://localhost"]
  }
}`

	err := os.WriteFile(oauthPath, []byte(validOAuth), 0644)
	require.NoError(t, err)

	cfg, err := LoadOAuthClientFromPath(oauthPath)
	require.NoError(t, err)

	require.NotNil(t, cfg.Installed)
	assert.Nil(t, cfg.Web)
	assert.Equal(t, "test-client-id.apps.googleusercontent.com", cfg.Client().ClientID)
	assert.Equal(t, []string{"http://localhost"}, cfg.Client().RedirectURIs)
}

func TestLoadOAuthClientFromPath_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	oauthPath := filepath.Join(tmpDir, "invalid_oauth.json")

	err := os.WriteFile(oauthPath, []byte(`{"installed": {"client_id": "test" "project_id": "x"}}`), 0644)
	require.NoError(t, err)

	_, err = LoadOAuthClientFromPath(oauthPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse oauth client file")
}

func TestLoadOAuthClientFromPath_FileNotFound(t *testing.T) {
	_, err := LoadOAuthClientFromPath("/nonexistent/path/oauthClient.json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read oauth client file")
}
