package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"promptgen-backend/internal/auth"
	"promptgen-backend/internal/middleware"
	"promptgen-backend/internal/utils"
	"promptgen-backend/pkg/logger"
)

type Handler struct {
	authn auth.Authenticator
	log   *zap.Logger
}

func NewHandler(authn auth.Authenticator) *Handler {
	return &Handler{authn: authn, log: logger.Named("api.auth")}
}

type StatusResponse struct {
	State         auth.State `json:"state"`
	Authenticated bool       `json:"authenticated"`
}

type LoginResponse struct {
	State   auth.State `json:"state"`
	AuthURL string     `json:"auth_url,omitempty"`
}

// Status godoc
// @Summary Authentication status
// @Description Reports where the session is in the OAuth handshake without advancing it
// @Tags auth
// @Produce  json
// @Success 200 {object} utils.Response{data=StatusResponse}
// @Router /auth/status [get]
func (h *Handler) Status(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	state := auth.State(sess.AuthState)
	if state == "" {
		state = auth.StateNoCredential
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Status retrieved successfully", StatusResponse{
		State:         state,
		Authenticated: state == auth.StateAuthenticated,
	}))
}

// Login godoc
// @Summary Start the OAuth handshake
// @Description Returns the consent URL for the session, or redirects to it when redirect=true. An already authenticated session gets its state back.
// @Tags auth
// @Produce  json
// @Param   redirect  query  bool  false  "Redirect to the consent page"
// @Success 200 {object} utils.Response{data=LoginResponse}
// @Success 302
// @Failure 401 {object} utils.Response{data=middleware.UnauthorizedData}
// @Router /auth/login [get]
func (h *Handler) Login(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	res, err := h.authn.Authenticate(c.Request.Context(), sess, nil)
	if err != nil {
		h.log.Warn("Login failed", zap.String("session_id", sess.ID), zap.Error(err))
		middleware.RespondUnauthorized(c, res, err)
		return
	}

	if res.AuthURL != "" && c.Query("redirect") == "true" {
		c.Redirect(http.StatusFound, res.AuthURL)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Login state retrieved successfully", LoginResponse{
		State:   res.State,
		AuthURL: res.AuthURL,
	}))
}

// Logout godoc
// @Summary Log out
// @Description Drops the cached credential and ends the session
// @Tags auth
// @Produce  json
// @Success 200 {object} utils.Response
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := h.authn.Forget(c.Request.Context(), sess); err != nil {
		h.log.Error("Failed to forget credential", zap.String("session_id", sess.ID), zap.Error(err))
		utils.Fail(c, http.StatusInternalServerError, "Failed to log out")
		return
	}
	middleware.EndSession(c)
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Successfully logged out", nil))
}
