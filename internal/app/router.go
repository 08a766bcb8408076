package app

import (
	"classquiz_backend/docs"
	"classquiz_backend/internal/config"
	"classquiz_backend/internal/middleware"
	"classquiz_backend/internal/model"
	"classquiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// 学生/通用 授权接口
		a.registerStudentRoutes(authGroup, c)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)

	// 课程
	rg.GET("/courses", c.course.ListCourses)
	rg.GET("/courses/:courseId", c.course.GetCourse)
	rg.GET("/courses/:courseId/quizzes", c.quiz.ListCourseQuizzes)

	// 测验
	rg.GET("/quizzes/available", c.quiz.ListAvailable)
	rg.GET("/quizzes/:quizId", c.quiz.GetQuiz)

	// 作答结果仅校验归属
	rg.GET("/attempts/:attemptId/result", c.attempt.Result)

	student := rg.Group("")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.POST("/courses/join", c.course.JoinByCode)
		student.POST("/courses/:courseId/join", c.course.JoinCourse)

		student.POST("/quizzes/:quizId/attempts/start", c.attempt.Start)
		student.GET("/attempts/my", c.attempt.MyGrades)
		student.PATCH("/attempts/:attemptId/answers", c.attempt.Autosave)
		student.POST("/attempts/:attemptId/submit", c.attempt.Submit)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		// 课程管理
		teacher.POST("/courses", c.course.CreateCourse)
		teacher.PUT("/courses/:courseId", c.course.UpdateCourse)
		teacher.DELETE("/courses/:courseId", c.course.DeleteCourse)
		teacher.GET("/courses/:courseId/roster", c.course.Roster)
		teacher.DELETE("/courses/:courseId/students/:userId", c.course.RemoveStudent)

		// 测验管理
		teacher.POST("/courses/:courseId/quizzes", c.quiz.CreateQuiz)
		teacher.POST("/quizzes/:quizId/questions", c.quiz.AddQuestion)
		teacher.POST("/quizzes/:quizId/publish", c.quiz.Publish)
		teacher.DELETE("/quizzes/:quizId", c.quiz.DeleteQuiz)

		// 成绩
		teacher.GET("/quizzes/:quizId/grades", c.grade.ListQuizGrades)
		teacher.GET("/quizzes/:quizId/grades/export", c.grade.ExportQuizGrades)
	}
}
