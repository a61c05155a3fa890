// Package web serves the prompt generator page: the form, the generated
// prompt and the searchable history.
package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"promptgen-backend/internal/auth"
	"promptgen-backend/internal/middleware"
	"promptgen-backend/internal/models"
	"promptgen-backend/internal/services"
	"promptgen-backend/internal/store"
	"promptgen-backend/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the page templates for gin's HTML renderer.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

const incompleteWarning = "Please complete all fields before generating a prompt."

type Handler struct {
	authn   auth.Authenticator
	stores  store.Factory
	prompts *services.PromptService
	log     *zap.Logger
}

func NewHandler(authn auth.Authenticator, stores store.Factory, prompts *services.PromptService) *Handler {
	return &Handler{
		authn:   authn,
		stores:  stores,
		prompts: prompts,
		log:     logger.Named("web"),
	}
}

type pageData struct {
	Roles     []string
	Tones     []models.Tone
	OtherRole string
	Form      models.FormValues

	Warning   string
	Prompt    string
	Saved     bool
	SaveError string

	Search       string
	History      *models.History
	HistoryError string
}

type consentData struct {
	AuthURL string
	Error   string
}

// Consent is the HaltFunc for page routes: it shows the authorize link, or
// the failure that sent the handshake back to the start.
func (h *Handler) Consent(c *gin.Context, res *auth.Result, err error) {
	data := consentData{}
	if res != nil {
		data.AuthURL = res.AuthURL
	}
	status := http.StatusOK
	if err != nil {
		data.Error = err.Error()
		status = http.StatusUnauthorized
	}
	c.HTML(status, "consent.html", data)
}

// Index renders the form and history.
func (h *Handler) Index(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	data := h.newPage(sess.Form)
	h.loadHistory(c, &data, c.Query("q"))
	c.HTML(http.StatusOK, "index.html", data)
}

// Generate builds the prompt from the submitted form and appends it to the log.
func (h *Handler) Generate(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	var form models.FormValues
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warn("Unreadable form submission", zap.Error(err))
		data := h.newPage(sess.Form)
		data.Warning = incompleteWarning
		h.loadHistory(c, &data, "")
		c.HTML(http.StatusBadRequest, "index.html", data)
		return
	}
	sess.Form = form
	data := h.newPage(form)

	st, err := h.stores(c.Request.Context(), middleware.TokenSource(c))
	if err != nil {
		h.log.Error("Failed to open record store", zap.Error(err))
		data.HistoryError = err.Error()
		data.History = &models.History{}
		if preview, perr := h.prompts.Preview(form); perr == nil {
			data.Prompt = preview
			data.SaveError = err.Error()
		} else {
			data.Warning = formWarning(perr)
		}
		c.HTML(http.StatusOK, "index.html", data)
		return
	}

	result, err := h.prompts.Generate(c.Request.Context(), st, form)
	switch {
	case err != nil:
		data.Warning = formWarning(err)
	case result.SaveErr != nil:
		data.Prompt = result.Prompt
		data.SaveError = result.SaveErr.Error()
	default:
		data.Prompt = result.Prompt
		data.Saved = true
	}

	h.readHistory(c, st, &data, "")
	c.HTML(http.StatusOK, "index.html", data)
}

// Clear resets the form and returns to the page.
func (h *Handler) Clear(c *gin.Context) {
	middleware.CurrentSession(c).ClearForm()
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout drops the credential and the session.
func (h *Handler) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := h.authn.Forget(c.Request.Context(), sess); err != nil {
		h.log.Error("Failed to forget credential", zap.String("session_id", sess.ID), zap.Error(err))
	}
	middleware.EndSession(c)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) newPage(form models.FormValues) pageData {
	if form.Tone == "" {
		form.Tone = models.DefaultTone
	}
	return pageData{
		Roles:     models.Roles,
		Tones:     models.Tones,
		OtherRole: models.OtherRole,
		Form:      form,
	}
}

func (h *Handler) loadHistory(c *gin.Context, data *pageData, search string) {
	st, err := h.stores(c.Request.Context(), middleware.TokenSource(c))
	if err != nil {
		h.log.Error("Failed to open record store", zap.Error(err))
		data.Search = search
		data.History = &models.History{}
		data.HistoryError = err.Error()
		return
	}
	h.readHistory(c, st, data, search)
}

func (h *Handler) readHistory(c *gin.Context, st store.Store, data *pageData, search string) {
	data.Search = search
	history, err := h.prompts.History(c.Request.Context(), st, search)
	if err != nil {
		data.History = &models.History{}
		data.HistoryError = err.Error()
		return
	}
	data.History = history
}

func formWarning(err error) string {
	var formErr *services.FormError
	if errors.As(err, &formErr) && len(formErr.Missing) == 0 {
		return formErr.Error()
	}
	return incompleteWarning
}
