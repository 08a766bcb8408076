package controller

import (
	"classquiz_backend/internal/service"
	"classquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	Service *service.GradeService
}

func NewGradeController(svc *service.GradeService) *GradeController {
	return &GradeController{Service: svc}
}

// @Summary 测验成绩列表
// @Description 仅包含已评分的作答，按提交时间倒序
// @Tags 评分
// @Produce json
// @Security BearerAuth
// @Param quizId path string true "测验ID"
// @Success 200 {object} util.Response{data=service.QuizGrades}
// @Router /api/teacher/quizzes/{quizId}/grades [get]
func (c *GradeController) ListQuizGrades(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	grades, err := c.Service.ListQuizGrades(ctx.Request.Context(), actor, ctx.Param("quizId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, grades)
}

// @Summary 导出测验成绩
// @Description 生成 CSV 上传至存储，返回下载地址
// @Tags 评分
// @Produce json
// @Security BearerAuth
// @Param quizId path string true "测验ID"
// @Success 200 {object} util.Response{data=service.GradeExport}
// @Router /api/teacher/quizzes/{quizId}/grades/export [get]
func (c *GradeController) ExportQuizGrades(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	export, err := c.Service.ExportQuizGrades(ctx.Request.Context(), actor, ctx.Param("quizId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, export)
}
