package calendar

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/Daniel-dot92/bookings-app/pkg/config"
)

func TestCredentialClientServiceAccountMissingKey(t *testing.T) {
	_, err := credentialClient(context.Background(), config.GoogleConfig{
		AuthMode: config.AuthModeServiceAccount,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "GOOGLE_SERVICE_ACCOUNT_JSON_BASE64")
}

func TestCredentialClientServiceAccountBadBase64(t *testing.T) {
	_, err := credentialClient(context.Background(), config.GoogleConfig{
		AuthMode:                 config.AuthModeServiceAccount,
		ServiceAccountJSONBase64: "not base64!!",
	})
	require.Error(t, err)
}

func TestCredentialClientServiceAccountBadJSON(t *testing.T) {
	_, err := credentialClient(context.Background(), config.GoogleConfig{
		AuthMode:                 config.AuthModeServiceAccount,
		ServiceAccountJSONBase64: base64.StdEncoding.EncodeToString([]byte("{")),
	})
	require.Error(t, err)
}

func TestCredentialClientDelegatedMissingToken(t *testing.T) {
	_, err := credentialClient(context.Background(), config.GoogleConfig{
		AuthMode: config.AuthModeDelegated,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "GOOGLE_REFRESH_TOKEN")
}

func TestCredentialClientDelegated(t *testing.T) {
	client, err := credentialClient(context.Background(), config.GoogleConfig{
		AuthMode:     config.AuthModeDelegated,
		ClientID:     "client",
		ClientSecret: "secret",
		RefreshToken: "refresh",
	})
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestCredentialClientUnknownMode(t *testing.T) {
	_, err := credentialClient(context.Background(), config.GoogleConfig{AuthMode: "password"})
	require.Error(t, err)
}

func TestOAuthConfig(t *testing.T) {
	oc := OAuthConfig(config.GoogleConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "https://example.com/oauth/callback",
	})
	require.Equal(t, "client", oc.ClientID)
	require.Equal(t, []string{gcal.CalendarScope}, oc.Scopes)
	require.NotEmpty(t, oc.Endpoint.AuthURL)
}
