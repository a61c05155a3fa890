package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"promptgen-backend/internal/session"
	"promptgen-backend/internal/utils"
	"promptgen-backend/pkg/logger"
)

const (
	SessionCookie = "promptgen_session"

	sessionKey      = "session"
	sessionEndedKey = "session_ended"
)

// Session loads the caller's session from store, creating one when the cookie
// is missing, invalid or names an expired session, and saves it after the
// handler chain has run.
func Session(store session.Store, secret []byte, ttl time.Duration) gin.HandlerFunc {
	log := logger.Named("session")

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sess := loadSession(c, store, secret, log)
		c.Set(sessionKey, sess)

		// Refresh the cookie before any handler writes the body.
		if token, err := utils.GenerateSessionToken(secret, sess.ID, ttl); err == nil {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", false, true)
		} else {
			log.Error("Failed to sign session cookie", zap.Error(err))
		}

		c.Next()

		if c.GetBool(sessionEndedKey) {
			if err := store.Delete(ctx, sess.ID); err != nil {
				log.Error("Failed to delete session", zap.String("session_id", sess.ID), zap.Error(err))
			}
			return
		}
		if err := store.Save(ctx, sess); err != nil {
			log.Error("Failed to save session", zap.String("session_id", sess.ID), zap.Error(err))
		}
	}
}

func loadSession(c *gin.Context, store session.Store, secret []byte, log *zap.Logger) *session.Session {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie == "" {
		return session.New()
	}

	id, err := utils.ParseSessionToken(secret, cookie)
	if err != nil {
		log.Debug("Ignoring invalid session cookie", zap.Error(err))
		return session.New()
	}

	sess, err := store.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Error("Failed to load session", zap.String("session_id", id), zap.Error(err))
		}
		return session.New()
	}
	return sess
}

// CurrentSession returns the session loaded by Session.
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return session.New()
}

// EndSession drops the session once the request completes and expires the cookie.
func EndSession(c *gin.Context) {
	c.Set(sessionEndedKey, true)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}
