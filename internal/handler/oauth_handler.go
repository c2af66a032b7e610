package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/Daniel-dot92/bookings-app/internal/calendar"
	"github.com/Daniel-dot92/bookings-app/pkg/config"
	appErrors "github.com/Daniel-dot92/bookings-app/pkg/errors"
	"github.com/Daniel-dot92/bookings-app/pkg/response"
)

// OAuthHandler implements the one-time operator flow that obtains the
// delegated refresh token. Not used at all when the service account mode is
// configured.
type OAuthHandler struct {
	google config.GoogleConfig
	logger *zap.Logger
}

// NewOAuthHandler constructs handler.
func NewOAuthHandler(google config.GoogleConfig, logger *zap.Logger) *OAuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OAuthHandler{google: google, logger: logger}
}

// Initiate redirects the operator to the Google consent screen. Offline
// access with forced consent makes Google return a refresh token.
func (h *OAuthHandler) Initiate(c *gin.Context) {
	oc := calendar.OAuthConfig(h.google)
	url := oc.AuthCodeURL("",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	c.Redirect(http.StatusFound, url)
}

// Callback exchanges the consent code and shows the refresh token so the
// operator can copy it into the environment.
func (h *OAuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "query parameter code is required"))
		return
	}

	oc := calendar.OAuthConfig(h.google)
	tok, err := oc.Exchange(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("oauth code exchange failed", zap.Error(err))
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to exchange authorization code"))
		return
	}

	refresh := tok.RefreshToken
	if refresh == "" {
		refresh = "(not returned – retry, consent will be requested again)"
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, `<html><body style="font-family:Arial;padding:24px">
<h2>Success</h2>
<p>Copy this <b>refresh token</b> into the environment as <code>GOOGLE_REFRESH_TOKEN</code>:</p>
<pre style="white-space:pre-wrap;background:#f6f8fa;padding:12px;border-radius:8px;">%s</pre>
<p>Then restart the service with <code>GOOGLE_AUTH_MODE=delegated</code>.</p>
</body></html>`, refresh)
}
