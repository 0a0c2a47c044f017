package course

import (
	"strings"
	"time"

	"lms/models"

	"gorm.io/gorm"
)

// Quiz belongs to a lesson and owns an ordered set of questions
type Quiz struct {
	gorm.Model
	LessonID    uint       `json:"lesson" gorm:"index;not null"`
	Lesson      Lesson     `json:"-" gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Description string     `json:"description" gorm:"type:text"`
	TimeLimit   *int       `json:"time_limit"` // minutes
	Questions   []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	IsDeleted   bool       `json:"-" gorm:"default:false"`
}

// Question is a single-answer multiple choice question with up to four options
type Question struct {
	gorm.Model
	QuizID        uint    `json:"quiz" gorm:"index;not null"`
	Text          string  `json:"text" gorm:"size:300;not null"`
	OptionA       string  `json:"option_a" gorm:"size:200;not null"`
	OptionB       string  `json:"option_b" gorm:"size:200;not null"`
	OptionC       *string `json:"option_c" gorm:"size:200"`
	OptionD       *string `json:"option_d" gorm:"size:200"`
	CorrectOption string  `json:"correct_option" gorm:"size:1;not null"`
	IsDeleted     bool    `json:"-" gorm:"default:false"`
}

// IsCorrect reports whether selected matches the answer key, ignoring case
// and surrounding whitespace. A nil or blank selection is never correct.
func (q Question) IsCorrect(selected *string) bool {
	if selected == nil {
		return false
	}
	s := strings.TrimSpace(*selected)
	if s == "" {
		return false
	}
	return strings.EqualFold(s, strings.TrimSpace(q.CorrectOption))
}

// Attempt is one scored submission of a quiz by a user
type Attempt struct {
	gorm.Model
	UserID      uint        `json:"user" gorm:"index;not null"`
	User        models.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	QuizID      uint        `json:"quiz" gorm:"index;not null"`
	Quiz        Quiz        `json:"-" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Score       float64     `json:"score" gorm:"default:0"`
	CompletedAt time.Time   `json:"completed_at" gorm:"index;not null"`
	Answers     []Answer    `json:"answers,omitempty" gorm:"foreignKey:AttemptID"`
}

// Answer records the option chosen for one question within an attempt
type Answer struct {
	gorm.Model
	AttemptID      uint     `json:"attempt" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	QuestionID     uint     `json:"question" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	Question       Question `json:"-" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	SelectedOption *string  `json:"selected_option" gorm:"size:1"`
}
