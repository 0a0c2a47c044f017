package services

import (
	"context"
	"testing"
	"time"

	"lms/apperr"
	"lms/config"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAttempt_ScoresCaseInsensitively(t *testing.T) {
	f := newFixture(t)
	student := f.user(models.RoleStudent)
	c := f.course(f.user(models.RoleTeacher))
	quiz, qs := f.quiz(f.lesson(f.module(c)), "A", "C")

	engine := NewScoringEngine(f.db, config.MissingQuestionSkip)
	res, err := engine.SubmitAttempt(context.Background(), quiz.ID, student.ID, []SubmittedAnswer{
		{QuestionID: qs[0].ID, SelectedOption: strPtr("a")},
		{QuestionID: qs[1].ID, SelectedOption: strPtr("B")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)

	var attempt courseModels.Attempt
	require.NoError(t, f.db.Preload("Answers").First(&attempt, res.AttemptID).Error)
	assert.Equal(t, 1.0, attempt.Score)
	assert.Len(t, attempt.Answers, 2)
}

func TestSubmitAttempt_NullAndBlankOptionsScoreZero(t *testing.T) {
	f := newFixture(t)
	student := f.user(models.RoleStudent)
	quiz, qs := f.quiz(f.lesson(f.module(f.course(f.user(models.RoleTeacher)))), "A", "B")

	engine := NewScoringEngine(f.db, config.MissingQuestionSkip)
	res, err := engine.SubmitAttempt(context.Background(), quiz.ID, student.ID, []SubmittedAnswer{
		{QuestionID: qs[0].ID, SelectedOption: nil},
		{QuestionID: qs[1].ID, SelectedOption: strPtr("  ")},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
	assert.EqualValues(t, 2, f.count(&courseModels.Answer{}))
}

func TestSubmitAttempt_EmptyAnswersWritesNothing(t *testing.T) {
	f := newFixture(t)
	student := f.user(models.RoleStudent)
	quiz, _ := f.quiz(f.lesson(f.module(f.course(f.user(models.RoleTeacher)))), "A")

	_, err := NewScoringEngine(f.db, "").SubmitAttempt(context.Background(), quiz.ID, student.ID, nil)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "No answers submitted.", err.Error())
	assert.Zero(t, f.count(&courseModels.Attempt{}))
}

func TestSubmitAttempt_UnknownQuiz(t *testing.T) {
	f := newFixture(t)
	student := f.user(models.RoleStudent)

	_, err := NewScoringEngine(f.db, "").SubmitAttempt(context.Background(), 999, student.ID, []SubmittedAnswer{
		{QuestionID: 1, SelectedOption: strPtr("A")},
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSubmitAttempt_SkipPolicyIgnoresForeignQuestions(t *testing.T) {
	f := newFixture(t)
	student := f.user(models.RoleStudent)
	lesson := f.lesson(f.module(f.course(f.user(models.RoleTeacher))))
	quiz, qs := f.quiz(lesson, "A")
	_, other := f.quiz(lesson, "B")

	res, err := NewScoringEngine(f.db, config.MissingQuestionSkip).SubmitAttempt(context.Background(), quiz.ID, student.ID, []SubmittedAnswer{
		{QuestionID: qs[0].ID, SelectedOption: strPtr("A")},
		{QuestionID: other[0].ID, SelectedOption: strPtr("B")},
		{QuestionID: 4242, SelectedOption: strPtr("A")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)
	assert.EqualValues(t, 1, f.count(&courseModels.Answer{}))
}

func TestSubmitAttempt_RejectPolicyRollsBack(t *testing.T) {
	f := newFixture(t)
	student := f.user(models.RoleStudent)
	quiz, qs := f.quiz(f.lesson(f.module(f.course(f.user(models.RoleTeacher)))), "A")

	_, err := NewScoringEngine(f.db, config.MissingQuestionReject).SubmitAttempt(context.Background(), quiz.ID, student.ID, []SubmittedAnswer{
		{QuestionID: qs[0].ID, SelectedOption: strPtr("A")},
		{QuestionID: 4242, SelectedOption: strPtr("A")},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Zero(t, f.count(&courseModels.Attempt{}))
	assert.Zero(t, f.count(&courseModels.Answer{}))
}

func TestSubmitAttempt_DuplicateQuestionCountsOnce(t *testing.T) {
	f := newFixture(t)
	student := f.user(models.RoleStudent)
	quiz, qs := f.quiz(f.lesson(f.module(f.course(f.user(models.RoleTeacher)))), "A")

	res, err := NewScoringEngine(f.db, config.MissingQuestionSkip).SubmitAttempt(context.Background(), quiz.ID, student.ID, []SubmittedAnswer{
		{QuestionID: qs[0].ID, SelectedOption: strPtr("A")},
		{QuestionID: qs[0].ID, SelectedOption: strPtr("A")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)
	assert.EqualValues(t, 1, f.count(&courseModels.Answer{}))

	_, err = NewScoringEngine(f.db, config.MissingQuestionReject).SubmitAttempt(context.Background(), quiz.ID, student.ID, []SubmittedAnswer{
		{QuestionID: qs[0].ID, SelectedOption: strPtr("A")},
		{QuestionID: qs[0].ID, SelectedOption: strPtr("B")},
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.EqualValues(t, 1, f.count(&courseModels.Attempt{}))
}

func TestSubmitAttempt_RejectsMultiLetterOption(t *testing.T) {
	f := newFixture(t)
	student := f.user(models.RoleStudent)
	quiz, qs := f.quiz(f.lesson(f.module(f.course(f.user(models.RoleTeacher)))), "A")

	_, err := NewScoringEngine(f.db, "").SubmitAttempt(context.Background(), quiz.ID, student.ID, []SubmittedAnswer{
		{QuestionID: qs[0].ID, SelectedOption: strPtr("AB")},
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Zero(t, f.count(&courseModels.Attempt{}))
}

func TestLatestResult_PicksNewestAttempt(t *testing.T) {
	f := newFixture(t)
	student := f.user(models.RoleStudent)
	quiz, qs := f.quiz(f.lesson(f.module(f.course(f.user(models.RoleTeacher)))), "A", "B")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	engine := NewScoringEngine(f.db, "")

	engine.WithClock(func() time.Time { return base })
	_, err := engine.SubmitAttempt(context.Background(), quiz.ID, student.ID, []SubmittedAnswer{
		{QuestionID: qs[0].ID, SelectedOption: strPtr("A")},
		{QuestionID: qs[1].ID, SelectedOption: strPtr("B")},
	})
	require.NoError(t, err)

	engine.WithClock(func() time.Time { return base.Add(time.Hour) })
	_, err = engine.SubmitAttempt(context.Background(), quiz.ID, student.ID, []SubmittedAnswer{
		{QuestionID: qs[1].ID, SelectedOption: strPtr("C")},
		{QuestionID: qs[0].ID, SelectedOption: nil},
	})
	require.NoError(t, err)

	res, err := engine.LatestResult(context.Background(), quiz.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checkpoint", res.Quiz)
	assert.Equal(t, 0.0, res.Score)
	require.Len(t, res.Answers, 2)
	assert.Equal(t, "Question 2", res.Answers[0].Question)
	assert.Equal(t, "C", *res.Answers[0].SelectedOption)
	assert.Equal(t, "B", res.Answers[0].CorrectOption)
	assert.Equal(t, "Question 1", res.Answers[1].Question)
	assert.Nil(t, res.Answers[1].SelectedOption)
}

func TestLatestResult_TieBreaksOnHighestID(t *testing.T) {
	f := newFixture(t)
	student := f.user(models.RoleStudent)
	quiz, qs := f.quiz(f.lesson(f.module(f.course(f.user(models.RoleTeacher)))), "A")

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	engine := NewScoringEngine(f.db, "").WithClock(func() time.Time { return at })

	_, err := engine.SubmitAttempt(context.Background(), quiz.ID, student.ID, []SubmittedAnswer{{QuestionID: qs[0].ID, SelectedOption: strPtr("B")}})
	require.NoError(t, err)
	second, err := engine.SubmitAttempt(context.Background(), quiz.ID, student.ID, []SubmittedAnswer{{QuestionID: qs[0].ID, SelectedOption: strPtr("A")}})
	require.NoError(t, err)

	res, err := engine.LatestResult(context.Background(), quiz.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(second.Score), res.Score)
	assert.Equal(t, 1.0, res.Score)
}

func TestLatestResult_NoAttempt(t *testing.T) {
	f := newFixture(t)
	student := f.user(models.RoleStudent)
	other := f.user(models.RoleStudent)
	quiz, qs := f.quiz(f.lesson(f.module(f.course(f.user(models.RoleTeacher)))), "A")

	engine := NewScoringEngine(f.db, "")
	_, err := engine.SubmitAttempt(context.Background(), quiz.ID, other.ID, []SubmittedAnswer{{QuestionID: qs[0].ID, SelectedOption: strPtr("A")}})
	require.NoError(t, err)

	_, err = engine.LatestResult(context.Background(), quiz.ID, student.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "No attempt found.", err.Error())
}

func TestAttemptHistory_NewestFirst(t *testing.T) {
	f := newFixture(t)
	student := f.user(models.RoleStudent)
	quiz, qs := f.quiz(f.lesson(f.module(f.course(f.user(models.RoleTeacher)))), "A")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	engine := NewScoringEngine(f.db, "")
	for i, opt := range []string{"A", "B", "A"} {
		engine.WithClock(func() time.Time { return base.Add(time.Duration(i) * time.Minute) })
		_, err := engine.SubmitAttempt(context.Background(), quiz.ID, student.ID, []SubmittedAnswer{{QuestionID: qs[0].ID, SelectedOption: strPtr(opt)}})
		require.NoError(t, err)
	}

	history, err := engine.AttemptHistory(context.Background(), quiz.ID, student.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []float64{1, 0, 1}, []float64{history[0].Score, history[1].Score, history[2].Score})
	assert.True(t, history[0].CompletedAt.After(history[1].CompletedAt))
}
