package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lms/apperr"
	"lms/logger"
	courseModels "lms/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CertificateService struct {
	db            *gorm.DB
	progress      *ProgressAggregator
	notifications *NotificationService
	now           func() time.Time
	log           *logger.Logger
}

// NewCertificateService builds the service. notifications may be nil.
func NewCertificateService(db *gorm.DB, notifications *NotificationService) *CertificateService {
	return &CertificateService{
		db:            db,
		progress:      NewProgressAggregator(db),
		notifications: notifications,
		now:           time.Now,
		log:           logger.Log.With("service", "CertificateService"),
	}
}

// CertificateNumber formats CERT-<YYYYMMDD>-<first 8 hex of a uuid>.
func CertificateNumber(at time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("CERT-%s-%s", at.Format("20060102"), strings.ToUpper(id[:8]))
}

// IssueCertificate returns the user's certificate for the course, creating it
// when the course is fully complete. created reports whether a new
// certificate was written.
func (s *CertificateService) IssueCertificate(ctx context.Context, userID, courseID uint) (cert *courseModels.Certificate, created bool, err error) {
	db := s.db.WithContext(ctx)

	var course courseModels.Course
	err = db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperr.NotFound("Course not found.")
	}
	if err != nil {
		return nil, false, apperr.Internal("failed to load course", err)
	}

	var enrolled int64
	if err := db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Count(&enrolled).Error; err != nil {
		return nil, false, apperr.Internal("failed to check enrollment", err)
	}
	if enrolled == 0 {
		return nil, false, apperr.Permission("You are not enrolled in this course.")
	}

	var existing courseModels.Certificate
	err = db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existing).Error
	if err == nil {
		existing.Course = course
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperr.Internal("failed to load certificate", err)
	}

	total, err := s.progress.TotalLessons(ctx, courseID)
	if err != nil {
		return nil, false, err
	}
	done, err := s.progress.CompletedLessons(ctx, userID, courseID)
	if err != nil {
		return nil, false, err
	}
	if total == 0 || Percent(done, total) < 100 {
		return nil, false, apperr.Validation("Course not completed yet.")
	}

	issuedAt := s.now()
	newCert := courseModels.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: CertificateNumber(issuedAt),
		IssuedAt:          issuedAt,
	}
	if err := db.Create(&newCert).Error; err != nil {
		return nil, false, apperr.Internal("failed to issue certificate", err)
	}
	newCert.Course = course

	if s.notifications != nil {
		_, nerr := s.notifications.Notify(ctx, userID,
			"Certificate issued",
			fmt.Sprintf("Congratulations! You completed %s.", course.Title),
			map[string]any{
				"course_id":          course.ID,
				"certificate_number": newCert.CertificateNumber,
			})
		if nerr != nil {
			s.log.Warn("certificate notification failed", "user_id", userID, "course_id", courseID, "error", nerr)
		}
	}

	s.log.Info("certificate issued", "user_id", userID, "course_id", courseID, "number", newCert.CertificateNumber)
	return &newCert, true, nil
}

// ListCertificates returns the user's certificates, newest first.
func (s *CertificateService) ListCertificates(ctx context.Context, userID uint) ([]courseModels.Certificate, error) {
	var out []courseModels.Certificate
	if err := s.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("issued_at DESC").Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, apperr.Internal("failed to load certificates", err)
	}
	return out, nil
}
