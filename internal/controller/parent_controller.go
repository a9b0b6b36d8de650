package controller

import (
	"errors"

	"thinkdrills_backend/internal/repository"
	"thinkdrills_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ParentController struct {
	ParentRepo *repository.ParentRepository
}

func NewParentController(parentRepo *repository.ParentRepository) *ParentController {
	return &ParentController{ParentRepo: parentRepo}
}

// Profile godoc
// @Summary Get the authenticated parent's profile
// @Tags parents
// @Produce  json
// @Success 200 {object} util.Response{data=model.Parent} "Profile"
// @Failure 404 {object} util.Response "Parent not found"
// @Security BearerAuth
// @Router /api/parent/profile [get]
func (c *ParentController) Profile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	parent, err := c.ParentRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, parent)
}

// DeleteAccount godoc
// @Summary Delete the parent account
// @Description Removes the parent together with all students and their worksheets
// @Tags parents
// @Produce  json
// @Success 200 {object} util.Response "Account deleted"
// @Security BearerAuth
// @Router /api/parent/account [delete]
func (c *ParentController) DeleteAccount(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.ParentRepo.Delete(claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Account deleted"})
}
