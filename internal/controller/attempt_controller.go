package controller

import (
	"classquiz_backend/internal/service"
	"classquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Service *service.AttemptService
	Grades  *service.GradeService
}

func NewAttemptController(svc *service.AttemptService, grades *service.GradeService) *AttemptController {
	return &AttemptController{Service: svc, Grades: grades}
}

// @Summary 开始作答
// @Description 已有未过期的进行中作答时续答，返回 200 且 resumed=true
// @Tags 作答
// @Produce json
// @Security BearerAuth
// @Param quizId path string true "测验ID"
// @Success 201 {object} util.Response{data=service.StartAttemptResult}
// @Success 200 {object} util.Response{data=service.StartAttemptResult}
// @Failure 400 {object} util.Response "测验未开放/已关闭/次数用尽"
// @Failure 403 {object} util.Response "非学生账号或未加入课程"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{quizId}/attempts/start [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	result, err := c.Service.Start(ctx.Request.Context(), actor.UserID, ctx.Param("quizId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	if result.Resumed {
		util.Success(ctx, result)
		return
	}
	util.Created(ctx, result)
}

// @Summary 自动保存答案
// @Description 覆盖保存某题的选择
// @Tags 作答
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attemptId path string true "作答ID"
// @Param body body service.AutosaveInput true "答案"
// @Success 200 {object} util.Response
// @Router /api/attempts/{attemptId}/answers [patch]
func (c *AttemptController) Autosave(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var in service.AutosaveInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.Autosave(ctx.Request.Context(), ctx.Param("attemptId"), actor.UserID, in); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"ok": true})
}

// @Summary 提交作答
// @Description 截止后提交会将作答置为过期并返回 400
// @Tags 作答
// @Produce json
// @Security BearerAuth
// @Param attemptId path string true "作答ID"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Router /api/attempts/{attemptId}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	result, err := c.Service.Submit(ctx.Request.Context(), ctx.Param("attemptId"), actor.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 作答结果
// @Tags 作答
// @Produce json
// @Security BearerAuth
// @Param attemptId path string true "作答ID"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Router /api/attempts/{attemptId}/result [get]
func (c *AttemptController) Result(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	result, err := c.Service.GetResult(ctx.Request.Context(), ctx.Param("attemptId"), actor.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 我的成绩
// @Tags 作答
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.MyGrades}
// @Router /api/attempts/my [get]
func (c *AttemptController) MyGrades(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	grades, err := c.Grades.ListMyGrades(ctx.Request.Context(), actor.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, grades)
}
