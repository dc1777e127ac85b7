package controllers

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"applypilot/models"
	"applypilot/parsers"
	"applypilot/utils"
)

type UserController struct {
	userModel *models.UserModel
	parser    *parsers.ResumeParser
	uploadDir string
}

func NewUserController(userModel *models.UserModel, uploadDir string) *UserController {
	if uploadDir == "" {
		uploadDir = "./uploads/resumes"
	}
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		log.Printf("Warning: could not create upload directory %s: %v", uploadDir, err)
	}
	return &UserController{
		userModel: userModel,
		parser:    parsers.NewResumeParser(),
		uploadDir: uploadDir,
	}
}

func (c *UserController) GetProfile(ctx *gin.Context) {
	userID := ctx.GetInt("user_id")

	user, err := c.userModel.GetByID(userID)
	if err != nil {
		utils.NotFoundError(ctx, "User not found")
		return
	}

	utils.SuccessResponse(ctx, 200, "Profile retrieved", user)
}

type UpdateProfileRequest struct {
	FullName string   `json:"full_name" binding:"required"`
	Phone    string   `json:"phone"`
	Location string   `json:"location"`
	LinkedIn string   `json:"linkedin"`
	Skills   []string `json:"skills"`
}

func (c *UserController) UpdateProfile(ctx *gin.Context) {
	userID := ctx.GetInt("user_id")

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequestError(ctx, "Invalid request payload", err)
		return
	}

	err := c.userModel.UpdateProfile(userID, req.FullName, req.Phone, req.Location, req.LinkedIn, req.Skills)
	if err != nil {
		utils.InternalServerError(ctx, "Failed to update profile", err)
		return
	}

	user, err := c.userModel.GetByID(userID)
	if err != nil {
		utils.InternalServerError(ctx, "Failed to load updated profile", err)
		return
	}

	utils.SuccessResponse(ctx, 200, "Profile updated", user)
}

// UploadResume accepts a resume file, parses it, and stores both the
// file and the extracted text as the user's master resume. Parsed
// skills are merged into the profile.
func (c *UserController) UploadResume(ctx *gin.Context) {
	userID := ctx.GetInt("user_id")

	file, err := ctx.FormFile("resume")
	if err != nil {
		utils.BadRequestError(ctx, "No resume file provided", err)
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".pdf", ".docx", ".txt":
	default:
		utils.BadRequestError(ctx, fmt.Sprintf("Unsupported file type %s (supported: .pdf, .docx, .txt)", ext), nil)
		return
	}

	savedPath := filepath.Join(c.uploadDir, fmt.Sprintf("resume_%d_%d%s", userID, time.Now().Unix(), ext))
	if err := ctx.SaveUploadedFile(file, savedPath); err != nil {
		utils.InternalServerError(ctx, "Failed to save resume file", err)
		return
	}

	parsed, err := c.parser.ParseFile(savedPath)
	if err != nil {
		os.Remove(savedPath)
		utils.BadRequestError(ctx, "Failed to parse resume", err)
		return
	}

	if err := c.userModel.UpdateMasterResume(userID, parsed.Text, savedPath); err != nil {
		utils.InternalServerError(ctx, "Failed to store resume", err)
		return
	}

	if len(parsed.Skills) > 0 {
		c.mergeSkills(userID, parsed.Skills)
	}

	log.Printf("User %d uploaded resume %s (%d chars, %d skills)",
		userID, file.Filename, len(parsed.Text), len(parsed.Skills))

	utils.SuccessResponse(ctx, 200, "Resume uploaded and parsed", gin.H{
		"file_name": file.Filename,
		"chars":     len(parsed.Text),
		"skills":    parsed.Skills,
		"email":     parsed.Email,
		"phone":     parsed.Phone,
	})
}

func (c *UserController) mergeSkills(userID int, newSkills []string) {
	user, err := c.userModel.GetByID(userID)
	if err != nil {
		return
	}

	seen := map[string]bool{}
	for _, s := range user.Skills {
		seen[strings.ToLower(s)] = true
	}
	merged := user.Skills
	for _, s := range newSkills {
		if !seen[strings.ToLower(s)] {
			merged = append(merged, s)
			seen[strings.ToLower(s)] = true
		}
	}

	err = c.userModel.UpdateProfile(userID, user.FullName, user.Phone, user.Location, user.LinkedIn, merged)
	if err != nil {
		log.Printf("User %d: failed to merge parsed skills: %v", userID, err)
	}
}
