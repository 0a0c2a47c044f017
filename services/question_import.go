package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"lms/apperr"
	"lms/logger"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

var questionColumns = []string{"quiz", "text", "option_a", "option_b", "option_c", "option_d", "correct_option"}

// ImportReport summarises a question import.
type ImportReport struct {
	Inserted int
	Skipped  int
	Errors   []string
}

// ImportQuestions reads questions from CSV with the header
// quiz,text,option_a,option_b,option_c,option_d,correct_option and inserts
// every valid row. Invalid rows are skipped and reported, never fatal.
func ImportQuestions(ctx context.Context, db *gorm.DB, r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperr.Validation("CSV file is empty.")
	}
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("invalid CSV header: %v", err))
	}

	headerIndex := make(map[string]int, len(header))
	for i, h := range header {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range questionColumns {
		if _, ok := headerIndex[col]; !ok {
			return nil, apperr.Validation(fmt.Sprintf("missing column %q", col))
		}
	}

	report := &ImportReport{}
	quizzes := map[uint]bool{}
	tx := db.WithContext(ctx)

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		q, err := parseQuestionRow(row, headerIndex)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		exists, seen := quizzes[q.QuizID]
		if !seen {
			var n int64
			if err := tx.Model(&courseModels.Quiz{}).Where("id = ? AND is_deleted = ?", q.QuizID, false).Count(&n).Error; err != nil {
				return report, apperr.Internal("failed to look up quiz", err)
			}
			exists = n > 0
			quizzes[q.QuizID] = exists
		}
		if !exists {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: quiz %d not found", line, q.QuizID))
			continue
		}

		if err := tx.Create(q).Error; err != nil {
			return report, apperr.Internal("failed to insert question", err)
		}
		report.Inserted++
	}

	logger.Log.Info("question import finished", "inserted", report.Inserted, "skipped", report.Skipped)
	return report, nil
}

func parseQuestionRow(row []string, headerIndex map[string]int) (*courseModels.Question, error) {
	field := func(name string) string {
		i := headerIndex[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	optional := func(name string) *string {
		if v := field(name); v != "" {
			return &v
		}
		return nil
	}

	quizID, err := strconv.ParseUint(field("quiz"), 10, 64)
	if err != nil || quizID == 0 {
		return nil, fmt.Errorf("invalid quiz id %q", field("quiz"))
	}

	q := &courseModels.Question{
		QuizID:        uint(quizID),
		Text:          field("text"),
		OptionA:       field("option_a"),
		OptionB:       field("option_b"),
		OptionC:       optional("option_c"),
		OptionD:       optional("option_d"),
		CorrectOption: strings.ToUpper(field("correct_option")),
	}
	switch {
	case q.Text == "":
		return nil, errors.New("text is required")
	case q.OptionA == "" || q.OptionB == "":
		return nil, errors.New("option_a and option_b are required")
	}
	switch q.CorrectOption {
	case "A", "B":
	case "C":
		if q.OptionC == nil {
			return nil, errors.New("correct_option C but option_c is empty")
		}
	case "D":
		if q.OptionD == nil {
			return nil, errors.New("correct_option D but option_d is empty")
		}
	default:
		return nil, fmt.Errorf("correct_option must be one of A, B, C, D, got %q", q.CorrectOption)
	}
	return q, nil
}
