package controller

import (
	"classquiz_backend/internal/service"
	"classquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{Service: svc}
}

// @Summary 创建测验
// @Description 新建测验默认未发布
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param body body service.CreateQuizReq true "测验信息"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Router /api/teacher/courses/{courseId}/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req service.CreateQuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.CreateQuiz(actor, ctx.Param("courseId"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// @Summary 课程下的测验列表
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/courses/{courseId}/quizzes [get]
func (c *QuizController) ListCourseQuizzes(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	quizzes, err := c.Service.ListCourseQuizzes(ctx.Request.Context(), actor, ctx.Param("courseId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// @Summary 当前可作答的测验
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/quizzes/available [get]
func (c *QuizController) ListAvailable(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	quizzes, err := c.Service.ListAvailable(actor)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// @Summary 测验详情
// @Description 课程教师可见正确答案；学生仅在测验开放期内可见题目
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param quizId path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{quizId} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	detail, err := c.Service.GetQuizDetails(ctx.Request.Context(), actor, ctx.Param("quizId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 添加题目
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path string true "测验ID"
// @Param body body service.AddQuestionReq true "题目信息"
// @Success 201 {object} util.Response{data=model.Question}
// @Router /api/teacher/quizzes/{quizId}/questions [post]
func (c *QuizController) AddQuestion(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req service.AddQuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.Service.AddQuestion(actor, ctx.Param("quizId"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// @Summary 发布测验
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param quizId path string true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/teacher/quizzes/{quizId}/publish [post]
func (c *QuizController) Publish(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	quiz, err := c.Service.Publish(actor, ctx.Param("quizId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// @Summary 删除测验
// @Description 题目与选项一并删除，作答记录保留
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param quizId path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{quizId} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := c.Service.DeleteQuiz(actor, ctx.Param("quizId")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"ok": true})
}
