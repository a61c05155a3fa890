package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"promptgen-backend/internal/auth"
	"promptgen-backend/internal/utils"
	"promptgen-backend/pkg/logger"
)

const tokenSourceKey = "token_source"

// HaltFunc renders the response for a request that has no usable credential.
// err is nil when the user simply has not consented yet.
type HaltFunc func(c *gin.Context, res *auth.Result, err error)

// PageAuth gates browser routes. It feeds the request query to the
// authenticator so that the provider callback is handled on the page itself,
// and redirects to the clean path once a code has been consumed.
func PageAuth(authn auth.Authenticator, onHalt HaltFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, ok := authenticate(c, authn, c.Request.URL.Query(), onHalt)
		if !ok {
			return
		}
		if res.Rerun || c.Query("code") != "" {
			c.Redirect(http.StatusFound, c.Request.URL.Path)
			c.Abort()
			return
		}
		c.Next()
	}
}

// APIAuth gates JSON routes, answering 401 with the consent URL when the
// session is not authenticated.
func APIAuth(authn auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c, authn, nil, RespondUnauthorized); ok {
			c.Next()
		}
	}
}

// UnauthorizedData is returned with a 401 from API routes.
type UnauthorizedData struct {
	State   auth.State `json:"state"`
	AuthURL string     `json:"auth_url,omitempty"`
}

// RespondUnauthorized is the HaltFunc used by the JSON API.
func RespondUnauthorized(c *gin.Context, res *auth.Result, err error) {
	msg := "Authorization required"
	if err != nil {
		msg = err.Error()
	}
	data := UnauthorizedData{State: auth.StateNoCredential}
	if res != nil {
		data.State = res.State
		data.AuthURL = res.AuthURL
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, utils.Response{
		Status:  http.StatusUnauthorized,
		Message: msg,
		Data:    data,
	})
}

func authenticate(c *gin.Context, authn auth.Authenticator, callback url.Values, onHalt HaltFunc) (*auth.Result, bool) {
	sess := CurrentSession(c)
	res, err := authn.Authenticate(c.Request.Context(), sess, callback)
	if err != nil || res == nil || res.Halted() {
		if err != nil {
			logger.Named("auth").Warn("Authentication halted",
				zap.String("session_id", sess.ID),
				zap.Error(err),
			)
		}
		onHalt(c, res, err)
		c.Abort()
		return res, false
	}
	c.Set(tokenSourceKey, res.TokenSource)
	return res, true
}

// TokenSource returns the credential established by PageAuth or APIAuth.
func TokenSource(c *gin.Context) oauth2.TokenSource {
	if v, ok := c.Get(tokenSourceKey); ok {
		if ts, ok := v.(oauth2.TokenSource); ok {
			return ts
		}
	}
	return nil
}
