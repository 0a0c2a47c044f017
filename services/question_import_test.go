package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"lms/apperr"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportQuestions(t *testing.T) {
	f := newFixture(t)
	quiz, _ := f.quiz(f.lesson(f.module(f.course(f.user(models.RoleTeacher)))))

	csv := fmt.Sprintf(`quiz,text,option_a,option_b,option_c,option_d,correct_option
%[1]d,2+2?,3,4,,,b
%[1]d,Capital of France?,Rome,Madrid,Paris,,C
%[1]d,Missing key option,x,y,,,D
999,Unknown quiz,x,y,,,A
%[1]d,,x,y,,,A
abc,Bad id,x,y,,,A
%[1]d,Bad key,x,y,,,E
`, quiz.ID)

	report, err := ImportQuestions(context.Background(), f.db, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 5, report.Skipped)
	assert.Len(t, report.Errors, 5)
	assert.Contains(t, report.Errors[1], "quiz 999 not found")

	var questions []courseModels.Question
	require.NoError(t, f.db.Where("quiz_id = ?", quiz.ID).Order("id").Find(&questions).Error)
	require.Len(t, questions, 2)
	assert.Equal(t, "B", questions[0].CorrectOption)
	assert.Nil(t, questions[0].OptionC)
	require.NotNil(t, questions[1].OptionC)
	assert.Equal(t, "Paris", *questions[1].OptionC)
}

func TestImportQuestions_BadHeader(t *testing.T) {
	f := newFixture(t)

	_, err := ImportQuestions(context.Background(), f.db, strings.NewReader(""))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = ImportQuestions(context.Background(), f.db, strings.NewReader("quiz,text\n1,hello\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "option_a")
}
