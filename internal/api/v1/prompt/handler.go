package prompt

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"promptgen-backend/internal/auth"
	"promptgen-backend/internal/middleware"
	"promptgen-backend/internal/models"
	"promptgen-backend/internal/services"
	"promptgen-backend/internal/store"
	"promptgen-backend/internal/utils"
)

type Handler struct {
	authn   auth.Authenticator
	stores  store.Factory
	prompts *services.PromptService
}

func NewHandler(authn auth.Authenticator, stores store.Factory, prompts *services.PromptService) *Handler {
	return &Handler{authn: authn, stores: stores, prompts: prompts}
}

// Options godoc
// @Summary List form options
// @Description Returns the selectable roles and tones
// @Tags prompts
// @Produce  json
// @Success 200 {object} utils.Response{data=OptionsResponse}
// @Router /options [get]
func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Options retrieved successfully", OptionsResponse{
		Roles:       models.Roles,
		OtherRole:   models.OtherRole,
		Tones:       models.Tones,
		DefaultTone: models.DefaultTone,
	}))
}

// Preview godoc
// @Summary Preview a prompt
// @Description Builds the prompt for the given form without saving it
// @Tags prompts
// @Accept  json
// @Produce  json
// @Param   input  body  GenerateRequest  true  "Form values"
// @Success 200 {object} utils.Response{data=PreviewResponse}
// @Failure 400 {object} utils.Response{data=utils.ValidationErrorData}
// @Router /prompts/preview [post]
func (h *Handler) Preview(c *gin.Context) {
	var req GenerateRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	prompt, err := h.prompts.Preview(req.Form())
	if err != nil {
		respondFormError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Prompt generated successfully", PreviewResponse{Prompt: prompt}))
}

// Create godoc
// @Summary Generate and save a prompt
// @Description Builds the prompt and appends it to the prompt log. When the append fails the prompt is still returned with a 502.
// @Tags prompts
// @Accept  json
// @Produce  json
// @Param   input  body  GenerateRequest  true  "Form values"
// @Success 201 {object} utils.Response{data=GenerateResponse}
// @Failure 400 {object} utils.Response{data=utils.ValidationErrorData}
// @Failure 401 {object} utils.Response{data=middleware.UnauthorizedData}
// @Failure 502 {object} utils.Response{data=GenerateResponse}
// @Router /prompts [post]
func (h *Handler) Create(c *gin.Context) {
	var req GenerateRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	// Reject bad forms before opening the store.
	if _, err := h.prompts.Preview(req.Form()); err != nil {
		respondFormError(c, err)
		return
	}

	st, err := h.stores(c.Request.Context(), middleware.TokenSource(c))
	if err != nil {
		utils.Fail(c, http.StatusBadGateway, fmt.Sprintf("Failed to open prompt log: %v", err))
		return
	}

	result, err := h.prompts.Generate(c.Request.Context(), st, req.Form())
	if err != nil {
		respondFormError(c, err)
		return
	}

	resp := GenerateResponse{Prompt: result.Prompt, Record: result.Record, Saved: result.Saved}
	if result.SaveErr != nil {
		resp.SaveError = result.SaveErr.Error()
		c.JSON(http.StatusBadGateway, utils.Response{
			Status:  http.StatusBadGateway,
			Message: "Prompt generated but could not be saved",
			Data:    resp,
		})
		return
	}

	c.JSON(http.StatusCreated, utils.Response{
		Status:  http.StatusCreated,
		Message: "Prompt generated and saved successfully",
		Data:    resp,
	})
}

// List godoc
// @Summary Prompt history
// @Description Returns the prompt log, most recent first, filtered by a case-insensitive search over every field
// @Tags prompts
// @Produce  json
// @Param   search  query  string  false  "Substring to match in any field"
// @Success 200 {object} utils.Response{data=models.History}
// @Failure 401 {object} utils.Response{data=middleware.UnauthorizedData}
// @Failure 502 {object} utils.Response
// @Router /prompts [get]
func (h *Handler) List(c *gin.Context) {
	st, err := h.stores(c.Request.Context(), middleware.TokenSource(c))
	if err != nil {
		utils.Fail(c, http.StatusBadGateway, fmt.Sprintf("Failed to open prompt log: %v", err))
		return
	}

	history, err := h.prompts.History(c.Request.Context(), st, c.Query("search"))
	if err != nil {
		utils.Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("History retrieved successfully", history))
}

func respondFormError(c *gin.Context, err error) {
	var formErr *services.FormError
	if !errors.As(err, &formErr) {
		utils.Fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	var details []utils.ValidationErrorDetail
	for _, field := range formErr.Missing {
		details = append(details, utils.ValidationErrorDetail{
			Field:    field,
			Message:  fmt.Sprintf("Field '%s' is required", field),
			Expected: "not blank",
			Received: "",
		})
	}
	if formErr.InvalidTone != "" {
		details = append(details, utils.ValidationErrorDetail{
			Field:    "tone",
			Message:  "Field 'tone' must be one of the listed tones",
			Expected: fmt.Sprint(models.Tones),
			Received: formErr.InvalidTone,
		})
	}

	msg := services.ErrIncompleteForm.Error()
	if len(formErr.Missing) == 0 {
		msg = services.ErrInvalidTone.Error()
	}
	utils.RespondValidationErrors(c, msg, details)
}
