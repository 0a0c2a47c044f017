package utils

import (
	"time"

	"lms/logger"
	"lms/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// HousekeepingReport counts the rows touched by one housekeeping run.
type HousekeepingReport struct {
	ResetTokens   int64
	RevokedTokens int64
	UnblockedUser int64
}

// InitializeHousekeepingScheduler starts a cron that purges expired tokens and
// lifts elapsed login blocks. The returned cron must be stopped on shutdown.
func InitializeHousekeepingScheduler(db *gorm.DB, spec string) (*cron.Cron, error) {
	log := logger.Log.With("component", "HousekeepingScheduler")

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		report, err := RunHousekeeping(db, time.Now())
		if err != nil {
			log.Error("housekeeping failed", "error", err)
			return
		}
		log.Info("housekeeping finished",
			"reset_tokens", report.ResetTokens,
			"revoked_tokens", report.RevokedTokens,
			"unblocked_users", report.UnblockedUser,
		)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Info("housekeeping scheduler started", "spec", spec)
	return c, nil
}

// RunHousekeeping hard deletes expired or used reset tokens and revoked
// tokens that are past their expiry, then unblocks users whose block ended.
func RunHousekeeping(db *gorm.DB, now time.Time) (HousekeepingReport, error) {
	var report HousekeepingReport

	res := db.Unscoped().
		Where("expires_at < ? OR is_used = ?", now, true).
		Delete(&models.PasswordResetToken{})
	if res.Error != nil {
		return report, res.Error
	}
	report.ResetTokens = res.RowsAffected

	res = db.Unscoped().
		Where("expires_at < ?", now).
		Delete(&models.RevokedToken{})
	if res.Error != nil {
		return report, res.Error
	}
	report.RevokedTokens = res.RowsAffected

	res = db.Model(&models.User{}).
		Where("is_blocked = ? AND blocked_until IS NOT NULL AND blocked_until < ?", true, now).
		Updates(map[string]interface{}{
			"is_blocked":            false,
			"blocked_until":         nil,
			"failed_login_attempts": 0,
		})
	if res.Error != nil {
		return report, res.Error
	}
	report.UnblockedUser = res.RowsAffected

	return report, nil
}
