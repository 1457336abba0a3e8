package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jakechorley/restaurant-rota/internal/config"
)

func TestTokenStore_SaveLoadDelete(t *testing.T) {
	store := &TokenStore{Dir: filepath.Join(t.TempDir(), "tokens")}
	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.Save("test", token))

	info, err := os.Stat(filepath.Join(store.Dir, "token-test.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := store.Load("test")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))

	require.NoError(t, store.Delete("test"))
	loaded, err = store.Load("test")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	assert.NoError(t, store.Delete("test"), "deleting a missing token is not an error")
}

func TestTokenStore_LoadCorruptFile(t *testing.T) {
	store := &TokenStore{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "token-prod.json"), []byte("{not json"), 0600))

	_, err := store.Load("prod")
	assert.ErrorContains(t, err, "failed to parse token file")
}

func TestMissingScopes(t *testing.T) {
	assert.Empty(t, missingScopes("openid "+ScopeSheetsReadonly, requiredScopes()))
	assert.Equal(t, []string{ScopeSheetsReadonly}, missingScopes("openid email", requiredScopes()))
	assert.Equal(t, []string{ScopeSheetsReadonly}, missingScopes("", requiredScopes()))
}

func TestGetOAuthConfig(t *testing.T) {
	cfg := &config.OAuthClientConfig{Installed: &config.OAuthClient{
		ClientID:     "client-id",
		ProjectID:    "project",
		AuthURI:      "https://accounts.google.com/o/oauth2/auth",
		TokenURI:     "https://oauth2.googleapis.com/token",
		ClientSecret: "secret",
		RedirectURIs: []string{"http://localhost"},
	}}

	oauthConfig, err := GetOAuthConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "client-id", oauthConfig.ClientID)
	assert.Equal(t, []string{ScopeSheetsReadonly}, oauthConfig.Scopes)
	assert.Equal(t, "http://localhost:3000/oauth/callback", oauthConfig.RedirectURL)
}
