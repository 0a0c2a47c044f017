package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lms/apperr"
	"lms/config"
	"lms/logger"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// SubmittedAnswer is one {question, selected_option} pair of a submission.
type SubmittedAnswer struct {
	QuestionID     uint
	SelectedOption *string
}

type SubmitResult struct {
	AttemptID uint `json:"attempt_id"`
	Score     int  `json:"score"`
}

type AnswerReview struct {
	Question       string  `json:"question"`
	SelectedOption *string `json:"selected_option"`
	CorrectOption  string  `json:"correct_option"`
}

type QuizResult struct {
	Quiz        string         `json:"quiz"`
	Score       float64        `json:"score"`
	CompletedAt time.Time      `json:"completed_at"`
	Answers     []AnswerReview `json:"answers"`
}

type AttemptSummary struct {
	ID          uint      `json:"id"`
	Score       float64   `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// ScoringEngine evaluates quiz submissions and reads back results.
type ScoringEngine struct {
	db     *gorm.DB
	policy string
	now    func() time.Time
	log    *logger.Logger
}

func NewScoringEngine(db *gorm.DB, missingQuestionPolicy string) *ScoringEngine {
	if missingQuestionPolicy != config.MissingQuestionReject {
		missingQuestionPolicy = config.MissingQuestionSkip
	}
	return &ScoringEngine{
		db:     db,
		policy: missingQuestionPolicy,
		now:    time.Now,
		log:    logger.Log.With("service", "ScoringEngine"),
	}
}

// WithClock overrides the completion timestamp source.
func (s *ScoringEngine) WithClock(now func() time.Time) *ScoringEngine {
	s.now = now
	return s
}

// SubmitAttempt records one attempt for (userID, quizID) and scores it one
// point per correct answer. The attempt and its answers are written in a
// single transaction. Question IDs outside the quiz, and repeats of an ID
// already seen in this submission, are skipped or rejected according to the
// missing-question policy.
func (s *ScoringEngine) SubmitAttempt(ctx context.Context, quizID, userID uint, answers []SubmittedAnswer) (*SubmitResult, error) {
	if len(answers) == 0 {
		return nil, apperr.Validation("No answers submitted.")
	}

	normalized := make([]SubmittedAnswer, len(answers))
	for i, a := range answers {
		opt, err := normalizeOption(a.SelectedOption)
		if err != nil {
			return nil, err
		}
		normalized[i] = SubmittedAnswer{QuestionID: a.QuestionID, SelectedOption: opt}
	}

	quiz, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	var questions []courseModels.Question
	if err := s.db.WithContext(ctx).
		Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).
		Find(&questions).Error; err != nil {
		return nil, apperr.Internal("failed to load questions", err)
	}
	bank := make(map[uint]courseModels.Question, len(questions))
	for _, q := range questions {
		bank[q.ID] = q
	}

	result := &SubmitResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt := courseModels.Attempt{
			UserID:      userID,
			QuizID:      quiz.ID,
			Score:       0,
			CompletedAt: s.now(),
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return fmt.Errorf("create attempt: %w", err)
		}

		score := 0
		seen := make(map[uint]bool, len(normalized))
		for _, a := range normalized {
			q, ok := bank[a.QuestionID]
			if !ok || seen[a.QuestionID] {
				if s.policy == config.MissingQuestionReject {
					if ok {
						return apperr.Validation(fmt.Sprintf("Question %d submitted more than once.", a.QuestionID))
					}
					return apperr.Validation(fmt.Sprintf("Question %d does not belong to this quiz.", a.QuestionID))
				}
				continue
			}
			seen[a.QuestionID] = true

			answer := courseModels.Answer{
				AttemptID:      attempt.ID,
				QuestionID:     q.ID,
				SelectedOption: a.SelectedOption,
			}
			if err := tx.Create(&answer).Error; err != nil {
				return fmt.Errorf("create answer: %w", err)
			}

			if q.IsCorrect(a.SelectedOption) {
				score++
			}
		}

		if err := tx.Model(&attempt).Update("score", float64(score)).Error; err != nil {
			return fmt.Errorf("save score: %w", err)
		}

		result.AttemptID = attempt.ID
		result.Score = score
		return nil
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		s.log.Error("quiz submission failed", "quiz_id", quizID, "user_id", userID, "error", err)
		return nil, apperr.Internal("failed to submit quiz", err)
	}

	s.log.Debug("quiz submitted", "quiz_id", quizID, "user_id", userID, "attempt_id", result.AttemptID, "score", result.Score)
	return result, nil
}

// LatestResult returns the most recently completed attempt of userID on quizID
// with every recorded answer next to its answer key.
func (s *ScoringEngine) LatestResult(ctx context.Context, quizID, userID uint) (*QuizResult, error) {
	quiz, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	var attempt courseModels.Attempt
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quiz.ID).
		Order("completed_at DESC").Order("id DESC").
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Answers.Question", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("No attempt found.")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load attempt", err)
	}

	out := &QuizResult{
		Quiz:        quiz.Title,
		Score:       attempt.Score,
		CompletedAt: attempt.CompletedAt,
		Answers:     make([]AnswerReview, 0, len(attempt.Answers)),
	}
	for _, a := range attempt.Answers {
		out.Answers = append(out.Answers, AnswerReview{
			Question:       a.Question.Text,
			SelectedOption: a.SelectedOption,
			CorrectOption:  a.Question.CorrectOption,
		})
	}
	return out, nil
}

// AttemptHistory lists every attempt of userID on quizID, newest first.
func (s *ScoringEngine) AttemptHistory(ctx context.Context, quizID, userID uint) ([]AttemptSummary, error) {
	if _, err := s.loadQuiz(ctx, quizID); err != nil {
		return nil, err
	}
	var attempts []courseModels.Attempt
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("completed_at DESC").Order("id DESC").
		Find(&attempts).Error; err != nil {
		return nil, apperr.Internal("failed to load attempts", err)
	}
	out := make([]AttemptSummary, len(attempts))
	for i, a := range attempts {
		out[i] = AttemptSummary{ID: a.ID, Score: a.Score, CompletedAt: a.CompletedAt}
	}
	return out, nil
}

func (s *ScoringEngine) loadQuiz(ctx context.Context, quizID uint) (*courseModels.Quiz, error) {
	var quiz courseModels.Quiz
	err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Quiz not found.")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load quiz", err)
	}
	return &quiz, nil
}

// normalizeOption trims the selection. nil stays nil; anything longer than a
// single letter is rejected.
func normalizeOption(opt *string) (*string, error) {
	if opt == nil {
		return nil, nil
	}
	s := strings.TrimSpace(*opt)
	if len(s) > 1 {
		return nil, apperr.Validation(fmt.Sprintf("Invalid option %q.", *opt))
	}
	return &s, nil
}
