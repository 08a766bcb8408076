package service

import "classquiz_backend/internal/model"

// Actor 当前请求的身份，由控制器从 JWT Claims 构造
type Actor struct {
	UserID uint
	Role   model.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.Admin
}

// owns 管理员视为拥有全部课程
func (a Actor) owns(course *model.Course) bool {
	return a.IsAdmin() || course.TeacherID == a.UserID
}
