package controller

import (
	"errors"
	"net/http"
	"strconv"

	"thinkdrills_backend/internal/ai"
	"thinkdrills_backend/internal/service"
	"thinkdrills_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WorksheetController struct {
	WorksheetService *service.WorksheetService
}

func NewWorksheetController(worksheetService *service.WorksheetService) *WorksheetController {
	return &WorksheetController{WorksheetService: worksheetService}
}

// Generate godoc
// @Summary Generate today's worksheet
// @Description Creates a new AI-generated worksheet for the authenticated student
// @Tags worksheets
// @Produce  json
// @Success 201 {object} util.Response{data=model.Worksheet} "Worksheet created"
// @Failure 400 {object} util.Response "Profile incomplete or no questions generated"
// @Failure 409 {object} util.Response "Unfinished worksheet already exists today"
// @Failure 429 {object} util.Response "AI provider rate limited"
// @Failure 503 {object} util.Response "AI provider misconfigured"
// @Security BearerAuth
// @Router /api/worksheets [post]
func (c *WorksheetController) Generate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	worksheet, err := c.WorksheetService.GenerateDaily(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondGenerationError(ctx, err)
		return
	}

	util.Created(ctx, worksheet)
}

// List godoc
// @Summary List the student's worksheets
// @Description Returns the current worksheet and the completed history
// @Tags worksheets
// @Produce  json
// @Success 200 {object} util.Response{data=service.WorksheetOverview} "Worksheets"
// @Security BearerAuth
// @Router /api/worksheets [get]
func (c *WorksheetController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	overview, err := c.WorksheetService.ListForStudent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, overview)
}

// Get godoc
// @Summary Get one worksheet
// @Description Returns the worksheet with questions. Students see their own; parents see their children's.
// @Tags worksheets
// @Produce  json
// @Param   id path int true "Worksheet ID"
// @Success 200 {object} util.Response{data=model.Worksheet} "Worksheet"
// @Failure 403 {object} util.Response "Not yours to view"
// @Failure 404 {object} util.Response "Worksheet not found"
// @Security BearerAuth
// @Router /api/worksheets/{id} [get]
func (c *WorksheetController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid worksheet id")
		return
	}

	worksheet, err := c.WorksheetService.Get(uint(id), claims.UserID, claims.Role)
	if err != nil {
		respondWorksheetError(ctx, err)
		return
	}

	util.Success(ctx, worksheet)
}

// UpdateWorksheetRequest is the tagged lifecycle request. Action selects the
// transition; answers are required for save and submit, aligned with the
// worksheet's question order, null for unanswered questions.
// swagger:model UpdateWorksheetRequest
type UpdateWorksheetRequest struct {
	WorksheetID uint      `json:"worksheetId" binding:"required"`
	Action      string    `json:"action" binding:"required,oneof=start save submit reset"`
	Answers     []*string `json:"answers"`
}

// Update godoc
// @Summary Apply a lifecycle action to a worksheet
// @Description Starts, saves progress on, submits, or resets a worksheet
// @Tags worksheets
// @Accept  json
// @Produce  json
// @Param   body body UpdateWorksheetRequest true "Action and answers"
// @Success 200 {object} util.Response{data=model.Worksheet} "Updated worksheet"
// @Failure 400 {object} util.Response "Illegal transition or answer mismatch"
// @Failure 403 {object} util.Response "Not your worksheet"
// @Failure 404 {object} util.Response "Worksheet not found"
// @Security BearerAuth
// @Router /api/worksheets [put]
func (c *WorksheetController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req UpdateWorksheetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var (
		worksheet interface{}
		err       error
	)
	switch req.Action {
	case "start":
		worksheet, err = c.WorksheetService.Start(req.WorksheetID, claims.UserID)
	case "save":
		worksheet, err = c.WorksheetService.SaveProgress(req.WorksheetID, claims.UserID, req.Answers)
	case "submit":
		worksheet, err = c.WorksheetService.Submit(req.WorksheetID, claims.UserID, req.Answers)
	case "reset":
		worksheet, err = c.WorksheetService.Reset(req.WorksheetID, claims.UserID)
	}
	if err != nil {
		respondWorksheetError(ctx, err)
		return
	}

	util.Success(ctx, worksheet)
}

func respondWorksheetError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrWorksheetNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrInvalidWorksheetState):
		util.BadRequest(ctx, "This action is not allowed in the worksheet's current state")
	case errors.Is(err, util.ErrAnswerCountMismatch):
		util.BadRequest(ctx, "Answer count does not match the worksheet's question count")
	default:
		util.LogInternalError(ctx, err)
	}
}

func respondGenerationError(ctx *gin.Context, err error) {
	var cfgErr *ai.ConfigurationError
	var rateErr *ai.RateLimitedError

	switch {
	case errors.Is(err, util.ErrStudentNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrProfileIncomplete):
		util.BadRequest(ctx, "Add at least one subject and one interest to the student's profile first")
	case errors.Is(err, util.ErrWorksheetExistsToday):
		util.Error(ctx, http.StatusConflict, "An unfinished worksheet already exists for today")
	case errors.Is(err, ai.ErrNoQuestionsGenerated):
		util.BadRequest(ctx, "No questions could be generated, please try again")
	case errors.As(err, &cfgErr):
		util.ServiceUnavailable(ctx, "Question generation is not available right now")
	case errors.As(err, &rateErr):
		util.TooManyRequests(ctx, "Question generation is busy, please try again shortly")
	default:
		util.LogInternalError(ctx, err)
	}
}
