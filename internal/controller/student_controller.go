package controller

import (
	"errors"
	"net/http"
	"strconv"

	"thinkdrills_backend/internal/model"
	"thinkdrills_backend/internal/service"
	"thinkdrills_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	StudentService *service.StudentService
}

func NewStudentController(studentService *service.StudentService) *StudentController {
	return &StudentController{StudentService: studentService}
}

func studentIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid student id")
		return 0, false
	}
	return uint(id), true
}

// CreateStudentRequest swagger:model CreateStudentRequest
type CreateStudentRequest struct {
	Name       string   `json:"name" binding:"required"`
	UserName   string   `json:"userName" binding:"required,min=3"`
	Password   string   `json:"password" binding:"required,min=6"`
	Grade      int      `json:"grade" binding:"required,min=1,max=12"`
	Categories []string `json:"categories"`
	Interests  []string `json:"interests"`
}

// Create godoc
// @Summary Create a student account
// @Description Registers a student under the authenticated parent
// @Tags students
// @Accept  json
// @Produce  json
// @Param   body body CreateStudentRequest true "Student info"
// @Success 201 {object} util.Response{data=model.Student} "Created"
// @Failure 400 {object} util.Response "Invalid request"
// @Failure 409 {object} util.Response "Username already taken"
// @Security BearerAuth
// @Router /api/students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student := &model.Student{
		Name:       req.Name,
		UserName:   req.UserName,
		Password:   req.Password,
		Grade:      req.Grade,
		Categories: req.Categories,
		Interests:  req.Interests,
	}

	if err := c.StudentService.CreateStudent(claims.UserID, student); err != nil {
		if errors.Is(err, util.ErrUserNameTaken) {
			util.Error(ctx, http.StatusConflict, "This username is already taken")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, student)
}

// List godoc
// @Summary List the parent's students
// @Tags students
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Student} "Students"
// @Security BearerAuth
// @Router /api/students [get]
func (c *StudentController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	students, err := c.StudentService.ListStudents(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, students)
}

// Get godoc
// @Summary Get one student
// @Tags students
// @Produce  json
// @Param   id path int true "Student ID"
// @Success 200 {object} util.Response{data=model.Student} "Student"
// @Failure 403 {object} util.Response "Not your student"
// @Failure 404 {object} util.Response "Student not found"
// @Security BearerAuth
// @Router /api/students/{id} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, ok := studentIDParam(ctx)
	if !ok {
		return
	}

	student, err := c.StudentService.GetStudent(claims.UserID, id)
	if err != nil {
		respondStudentError(ctx, err)
		return
	}

	util.Success(ctx, student)
}

// Update godoc
// @Summary Update a student's profile
// @Description Updates name, grade, subject categories and interests
// @Tags students
// @Accept  json
// @Produce  json
// @Param   id path int true "Student ID"
// @Param   body body service.StudentUpdate true "Fields to update"
// @Success 200 {object} util.Response{data=model.Student} "Updated student"
// @Failure 403 {object} util.Response "Not your student"
// @Failure 404 {object} util.Response "Student not found"
// @Security BearerAuth
// @Router /api/students/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, ok := studentIDParam(ctx)
	if !ok {
		return
	}

	var req service.StudentUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, err := c.StudentService.UpdateStudent(claims.UserID, id, req)
	if err != nil {
		respondStudentError(ctx, err)
		return
	}

	util.Success(ctx, student)
}

// ResetPasswordRequest for a student account
// swagger:model StudentResetPasswordRequest
type StudentResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// ResetPassword godoc
// @Summary Reset a student's password
// @Tags students
// @Accept  json
// @Produce  json
// @Param   id path int true "Student ID"
// @Param   body body StudentResetPasswordRequest true "New password"
// @Success 200 {object} util.Response "Password updated"
// @Failure 403 {object} util.Response "Not your student"
// @Failure 404 {object} util.Response "Student not found"
// @Security BearerAuth
// @Router /api/students/{id}/password [put]
func (c *StudentController) ResetPassword(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, ok := studentIDParam(ctx)
	if !ok {
		return
	}

	var req StudentResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.StudentService.ResetStudentPassword(claims.UserID, id, req.Password); err != nil {
		respondStudentError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Password has been reset"})
}

// Delete godoc
// @Summary Delete a student
// @Description Removes the student together with their worksheets
// @Tags students
// @Produce  json
// @Param   id path int true "Student ID"
// @Success 200 {object} util.Response "Deleted"
// @Failure 403 {object} util.Response "Not your student"
// @Failure 404 {object} util.Response "Student not found"
// @Security BearerAuth
// @Router /api/students/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, ok := studentIDParam(ctx)
	if !ok {
		return
	}

	if err := c.StudentService.DeleteStudent(claims.UserID, id); err != nil {
		respondStudentError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Student deleted"})
}

func respondStudentError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrStudentNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
