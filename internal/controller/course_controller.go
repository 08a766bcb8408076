package controller

import (
	"classquiz_backend/internal/service"
	"classquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	Service *service.CourseService
}

func NewCourseController(svc *service.CourseService) *CourseController {
	return &CourseController{Service: svc}
}

type JoinCourseReq struct {
	JoinCode string `json:"joinCode" binding:"required"`
}

// @Summary 创建课程
// @Description 自动生成 6 位加入码
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CourseReq true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/teacher/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req service.CourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.Service.CreateCourse(actor, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// @Summary 我的课程
// @Description 教师返回自己创建的课程，学生返回已加入的课程
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	courses, err := c.Service.ListMyCourses(actor)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// @Summary 课程详情
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseView}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	view, err := c.Service.GetCourse(actor, ctx.Param("courseId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 更新课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param body body service.CourseReq true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/teacher/courses/{courseId} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req service.CourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.Service.UpdateCourse(actor, ctx.Param("courseId"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary 删除课程
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/courses/{courseId} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := c.Service.DeleteCourse(actor, ctx.Param("courseId")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"ok": true})
}

// @Summary 加入课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param body body JoinCourseReq true "加入码"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 403 {object} util.Response "仅学生可加入"
// @Router /api/courses/{courseId}/join [post]
func (c *CourseController) JoinCourse(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req JoinCourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.Service.JoinCourse(actor, ctx.Param("courseId"), req.JoinCode)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// @Summary 通过加入码加入课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body JoinCourseReq true "加入码"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "仅学生可加入"
// @Router /api/courses/join [post]
func (c *CourseController) JoinByCode(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req JoinCourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, enrollment, err := c.Service.JoinByCode(actor, req.JoinCode)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"course": course, "enrollment": enrollment})
}

// @Summary 课程学生名单
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=[]repository.RosterRow}
// @Router /api/teacher/courses/{courseId}/roster [get]
func (c *CourseController) Roster(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	rows, err := c.Service.Roster(actor, ctx.Param("courseId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// @Summary 移除课程学生
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param userId path int true "学生ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/courses/{courseId}/students/{userId} [delete]
func (c *CourseController) RemoveStudent(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	userID := util.MustParseUint(ctx.Param("userId"))
	if userID == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	if err := c.Service.RemoveStudent(actor, ctx.Param("courseId"), userID); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"ok": true})
}
