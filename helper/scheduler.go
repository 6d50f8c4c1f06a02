package helper

import (
	"asaan_shaadi/config"
	"asaan_shaadi/constants"
	"asaan_shaadi/database"
	"asaan_shaadi/logger"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const StaleBookingReason = "Expired without confirmation"

var (
	completionScheduler gocron.Scheduler
	housekeeping        *cron.Cron
)

// CompletePastBookings marks confirmed bookings whose event date is before today as completed.
func CompletePastBookings(db *gorm.DB, today utils.CustomDate) (int64, error) {
	res := db.Model(&model.Booking{}).
		Where("status = ? AND event_date < ?", constants.BOOKING_CONFIRMED, today).
		Update("status", constants.BOOKING_COMPLETED)
	return res.RowsAffected, res.Error
}

// ExpireStalePendingBookings cancels pending bookings whose event date has passed.
func ExpireStalePendingBookings(db *gorm.DB, today utils.CustomDate) (int64, error) {
	res := db.Model(&model.Booking{}).
		Where("status = ? AND event_date < ?", constants.BOOKING_PENDING, today).
		Updates(map[string]any{
			"status":              constants.BOOKING_CANCELLED,
			"cancellation_reason": StaleBookingReason,
			"payment_intent_id":   nil,
		})
	return res.RowsAffected, res.Error
}

func PurgeExpiredAuthTokens(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Where("expires_at < ?", now).Delete(&model.AuthToken{})
	return res.RowsAffected, res.Error
}

func runCompletion() {
	n, err := CompletePastBookings(database.DB, utils.Today(config.Location()))
	if err != nil {
		logger.L().Error("complete past bookings", zap.Error(err))
		return
	}
	logger.L().Info("completed past bookings", zap.Int64("count", n))
}

func runHousekeeping() {
	n, err := ExpireStalePendingBookings(database.DB, utils.Today(config.Location()))
	if err != nil {
		logger.L().Error("expire pending bookings", zap.Error(err))
	} else if n > 0 {
		logger.L().Info("expired stale pending bookings", zap.Int64("count", n))
	}

	n, err = PurgeExpiredAuthTokens(database.DB, time.Now())
	if err != nil {
		logger.L().Error("purge auth tokens", zap.Error(err))
	} else if n > 0 {
		logger.L().Info("purged expired auth tokens", zap.Int64("count", n))
	}
}

// StartSchedulers runs the daily completion job at 00:10 local time and the
// housekeeping job every 15 minutes.
func StartSchedulers() error {
	s, err := gocron.NewScheduler(gocron.WithLocation(config.Location()))
	if err != nil {
		return err
	}
	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(0, 10, 0),
			),
		),
		gocron.NewTask(runCompletion),
	)
	if err != nil {
		return err
	}
	s.Start()
	completionScheduler = s

	housekeeping = cron.New(
		cron.WithLocation(config.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := housekeeping.AddFunc("*/15 * * * *", runHousekeeping); err != nil {
		return err
	}
	housekeeping.Start()

	logger.L().Info("schedulers started", zap.String("timezone", config.Location().String()))
	return nil
}

func StopSchedulers() {
	if completionScheduler != nil {
		if err := completionScheduler.Shutdown(); err != nil {
			logger.L().Warn("stop completion scheduler", zap.Error(err))
		}
		completionScheduler = nil
	}
	if housekeeping != nil {
		<-housekeeping.Stop().Done()
		housekeeping = nil
	}
	logger.L().Info("schedulers stopped")
}
