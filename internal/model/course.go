package model

// swagger:model Course
type Course struct {
	UUIDBase
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	JoinCode    string `gorm:"size:16;uniqueIndex;not null" json:"joinCode,omitempty"`
	TeacherID   uint   `gorm:"index;not null" json:"teacherId"`
}

func (Course) TableName() string {
	return "courses"
}

type EnrollmentStatus string

const (
	EnrollmentActive  EnrollmentStatus = "active"
	EnrollmentRemoved EnrollmentStatus = "removed"
)

// Enrollment 课程成员关系，(course_id, user_id) 唯一
type Enrollment struct {
	BaseModel
	CourseID     string           `gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_course_user" json:"courseId"`
	UserID       uint             `gorm:"not null;uniqueIndex:idx_enrollment_course_user;index" json:"userId"`
	RoleInCourse UserRole         `gorm:"size:20;default:'student'" json:"roleInCourse"`
	Status       EnrollmentStatus `gorm:"size:20;default:'active'" json:"status"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
