package controller

import (
	"thinkdrills_backend/internal/service"
	"thinkdrills_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// Reports godoc
// @Summary Progress reports for all of the parent's students
// @Description Per-student totals, averages, per-subject averages and recent worksheets
// @Tags reports
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.StudentReport} "Reports"
// @Security BearerAuth
// @Router /api/reports [get]
func (c *ReportController) Reports(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	reports, err := c.ReportService.ReportsForParent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, reports)
}
