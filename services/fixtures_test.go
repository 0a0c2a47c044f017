package services

import (
	"fmt"
	"testing"

	"lms/database/dbtest"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

type fixture struct {
	t  *testing.T
	db *gorm.DB
	n  int
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, db: dbtest.NewTestDB(t)}
}

func (f *fixture) user(role string) models.User {
	f.n++
	u := models.User{
		Username: fmt.Sprintf("user%d", f.n),
		Email:    fmt.Sprintf("user%d@example.com", f.n),
		Password: "x",
		Role:     role,
	}
	require.NoError(f.t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) course(teacher models.User) courseModels.Course {
	c := courseModels.Course{Title: "Algebra", TeacherID: teacher.ID}
	require.NoError(f.t, f.db.Create(&c).Error)
	return c
}

func (f *fixture) module(c courseModels.Course) courseModels.Module {
	m := courseModels.Module{CourseID: c.ID, Title: "Basics"}
	require.NoError(f.t, f.db.Create(&m).Error)
	return m
}

func (f *fixture) lesson(m courseModels.Module) courseModels.Lesson {
	l := courseModels.Lesson{ModuleID: m.ID, Title: "Lesson"}
	require.NoError(f.t, f.db.Create(&l).Error)
	return l
}

func (f *fixture) enroll(u models.User, c courseModels.Course) {
	require.NoError(f.t, f.db.Create(&courseModels.Enrollment{UserID: u.ID, CourseID: c.ID}).Error)
}

func (f *fixture) complete(u models.User, l courseModels.Lesson) {
	require.NoError(f.t, f.db.Create(&courseModels.LessonProgress{StudentID: u.ID, LessonID: l.ID, Completed: true}).Error)
}

func (f *fixture) quiz(l courseModels.Lesson, keys ...string) (courseModels.Quiz, []courseModels.Question) {
	q := courseModels.Quiz{LessonID: l.ID, Title: "Checkpoint"}
	require.NoError(f.t, f.db.Create(&q).Error)

	questions := make([]courseModels.Question, len(keys))
	for i, key := range keys {
		questions[i] = courseModels.Question{
			QuizID:        q.ID,
			Text:          fmt.Sprintf("Question %d", i+1),
			OptionA:       "a",
			OptionB:       "b",
			CorrectOption: key,
		}
		require.NoError(f.t, f.db.Create(&questions[i]).Error)
	}
	return q, questions
}

func (f *fixture) count(model any) int64 {
	var n int64
	require.NoError(f.t, f.db.Model(model).Count(&n).Error)
	return n
}
