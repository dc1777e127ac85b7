package controllers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"applypilot/models"
	"applypilot/services"
	"applypilot/utils"
)

type JobController struct {
	jobModel  *models.JobListingModel
	userModel *models.UserModel
	scraper   *services.JobScraperService
	matching  *services.MatchingService
}

func NewJobController(jobModel *models.JobListingModel, userModel *models.UserModel, scraper *services.JobScraperService, matching *services.MatchingService) *JobController {
	return &JobController{
		jobModel:  jobModel,
		userModel: userModel,
		scraper:   scraper,
		matching:  matching,
	}
}

type ScrapeJobRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// Scrape loads a job posting URL in a browser and stores the extracted
// listing.
func (c *JobController) Scrape(ctx *gin.Context) {
	var req ScrapeJobRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequestError(ctx, "Invalid request payload", err)
		return
	}

	scrapeCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Minute)
	defer cancel()

	listing, err := c.scraper.Scrape(scrapeCtx, req.URL)
	if err != nil {
		utils.InternalServerError(ctx, "Failed to scrape job posting", err)
		return
	}

	utils.SuccessResponse(ctx, 200, "Job scraped", listing)
}

func (c *JobController) List(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	jobs, err := c.jobModel.List(limit, offset)
	if err != nil {
		utils.InternalServerError(ctx, "Failed to list jobs", err)
		return
	}

	utils.SuccessResponse(ctx, 200, "Jobs retrieved", jobs)
}

func (c *JobController) Get(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		utils.BadRequestError(ctx, "Invalid job id", err)
		return
	}

	job, err := c.jobModel.GetByID(id)
	if err != nil {
		utils.NotFoundError(ctx, "Job not found")
		return
	}

	utils.SuccessResponse(ctx, 200, "Job retrieved", job)
}

type MatchRequest struct {
	JobID int `json:"job_id" binding:"required"`
}

// Match scores the authenticated user's profile against a job listing.
func (c *JobController) Match(ctx *gin.Context) {
	userID := ctx.GetInt("user_id")

	var req MatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequestError(ctx, "Invalid request payload", err)
		return
	}

	user, err := c.userModel.GetByID(userID)
	if err != nil {
		utils.NotFoundError(ctx, "User not found")
		return
	}

	job, err := c.jobModel.GetByID(req.JobID)
	if err != nil {
		utils.NotFoundError(ctx, "Job not found")
		return
	}

	breakdown, err := c.matching.Score(ctx.Request.Context(), user, job)
	if err != nil {
		utils.InternalServerError(ctx, "Failed to compute match score", err)
		return
	}

	utils.SuccessResponse(ctx, 200, "Match score computed", breakdown)
}
