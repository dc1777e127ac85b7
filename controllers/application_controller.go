package controllers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"applypilot/models"
	"applypilot/services"
	"applypilot/utils"
)

type ApplicationController struct {
	appModel     *models.ApplicationModel
	auditModel   *models.AuditLogModel
	applications *services.ApplicationService
}

func NewApplicationController(appModel *models.ApplicationModel, auditModel *models.AuditLogModel, applications *services.ApplicationService) *ApplicationController {
	return &ApplicationController{
		appModel:     appModel,
		auditModel:   auditModel,
		applications: applications,
	}
}

type CreateApplicationRequest struct {
	JobID int `json:"job_id" binding:"required"`
}

// Create starts an application for the authenticated user. Processing
// runs in the background; the row is returned immediately in drafting
// state and clients poll Get for progress.
func (c *ApplicationController) Create(ctx *gin.Context) {
	userID := ctx.GetInt("user_id")

	var req CreateApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequestError(ctx, "Invalid request payload", err)
		return
	}

	if existing, err := c.appModel.GetByUserAndJob(userID, req.JobID); err == nil && existing != nil {
		utils.SuccessResponse(ctx, 200, "Application already exists", existing)
		return
	}

	app, err := c.appModel.Create(userID, req.JobID)
	if err != nil {
		utils.InternalServerError(ctx, "Failed to create application", err)
		return
	}

	// The request context dies with the response; the pipeline gets its own.
	go c.applications.Process(context.Background(), app.ID)

	utils.SuccessResponse(ctx, 202, "Application processing started", app)
}

func (c *ApplicationController) Get(ctx *gin.Context) {
	userID := ctx.GetInt("user_id")

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		utils.BadRequestError(ctx, "Invalid application id", err)
		return
	}

	app, err := c.appModel.GetByID(id)
	if err != nil {
		utils.NotFoundError(ctx, "Application not found")
		return
	}
	if app.UserID != userID {
		utils.NotFoundError(ctx, "Application not found")
		return
	}

	utils.SuccessResponse(ctx, 200, "Application retrieved", app)
}

func (c *ApplicationController) List(ctx *gin.Context) {
	userID := ctx.GetInt("user_id")

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	apps, err := c.appModel.GetByUserID(userID, limit, offset)
	if err != nil {
		utils.InternalServerError(ctx, "Failed to list applications", err)
		return
	}

	utils.SuccessResponse(ctx, 200, "Applications retrieved", apps)
}

// Retry re-queues a failed application if the retry cap allows.
func (c *ApplicationController) Retry(ctx *gin.Context) {
	userID := ctx.GetInt("user_id")

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		utils.BadRequestError(ctx, "Invalid application id", err)
		return
	}

	app, err := c.appModel.GetByID(id)
	if err != nil || app.UserID != userID {
		utils.NotFoundError(ctx, "Application not found")
		return
	}

	if err := c.applications.Retry(ctx.Request.Context(), id); err != nil {
		utils.BadRequestError(ctx, "Retry not possible", err)
		return
	}

	utils.SuccessResponse(ctx, 202, "Retry started", gin.H{"id": id})
}

// History returns the audit trail for one application.
func (c *ApplicationController) History(ctx *gin.Context) {
	userID := ctx.GetInt("user_id")

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		utils.BadRequestError(ctx, "Invalid application id", err)
		return
	}

	app, err := c.appModel.GetByID(id)
	if err != nil || app.UserID != userID {
		utils.NotFoundError(ctx, "Application not found")
		return
	}

	entries, err := c.auditModel.ListByApplication(id)
	if err != nil {
		utils.InternalServerError(ctx, "Failed to load application history", err)
		return
	}

	utils.SuccessResponse(ctx, 200, "History retrieved", entries)
}
