package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteStore implements Store on a sqlite database via gorm.
type SQLiteStore struct {
	db *gorm.DB
}

type Config struct {
	DatabasePath string
	Debug        bool
}

func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	database, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// Auto-migrate schema
	if err := database.AutoMigrate(&Appointment{}, &AvailabilitySlot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	// sqlite permits a single writer; one pooled connection keeps concurrent
	// booking transactions serialized instead of surfacing SQLITE_BUSY.
	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return &SQLiteStore{db: database}, nil
}

func (s *SQLiteStore) SeedAvailability(ctx context.Context, slots map[string][]string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for date, times := range slots {
			var existing int64
			if err := tx.Model(&AvailabilitySlot{}).Where("date = ?", date).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}
			for i, t := range times {
				slot := AvailabilitySlot{Date: date, Time: t, Position: i}
				if err := tx.Create(&slot).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *SQLiteStore) SlotsOn(ctx context.Context, date string) ([]string, error) {
	var slots []AvailabilitySlot
	err := s.db.WithContext(ctx).
		Where("date = ?", date).
		Order("position ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	times := make([]string, 0, len(slots))
	for _, slot := range slots {
		times = append(times, slot.Time)
	}
	return times, nil
}

func (s *SQLiteStore) NextAvailableDates(ctx context.Context, after time.Time, days, limit int) ([]string, error) {
	candidates := make([]string, 0, days)
	for i := 1; i <= days; i++ {
		candidates = append(candidates, after.AddDate(0, 0, i).Format("2006-01-02"))
	}

	var dates []string
	err := s.db.WithContext(ctx).
		Model(&AvailabilitySlot{}).
		Distinct("date").
		Where("date IN ?", candidates).
		Order("date ASC").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, err
	}
	if len(dates) > limit {
		dates = dates[:limit]
	}
	return dates, nil
}

func (s *SQLiteStore) BookSlot(ctx context.Context, appt *Appointment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Compare-and-remove: the delete claims the slot, so two racing
		// bookings of the same (date, time) cannot both see RowsAffected == 1.
		res := tx.Where("date = ? AND time = ?", appt.Date, appt.Time).Delete(&AvailabilitySlot{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var remaining int64
			if err := tx.Model(&AvailabilitySlot{}).Where("date = ?", appt.Date).Count(&remaining).Error; err != nil {
				return err
			}
			if remaining == 0 {
				return ErrNoAvailability
			}
			return ErrSlotTaken
		}
		return tx.Create(appt).Error
	})
}

func (s *SQLiteStore) ReleaseSlot(ctx context.Context, date, timeLabel string) error {
	var maxPos int
	row := s.db.WithContext(ctx).
		Model(&AvailabilitySlot{}).
		Where("date = ?", date).
		Select("COALESCE(MAX(position), -1)").
		Row()
	if err := row.Scan(&maxPos); err != nil {
		return err
	}
	slot := AvailabilitySlot{Date: date, Time: timeLabel, Position: maxPos + 1}
	return s.db.WithContext(ctx).Create(&slot).Error
}

func (s *SQLiteStore) AppointmentsOn(ctx context.Context, date string) ([]Appointment, error) {
	var appts []Appointment
	err := s.db.WithContext(ctx).
		Where("date = ?", date).
		Order("created_at ASC").
		Find(&appts).Error
	return appts, err
}

func (s *SQLiteStore) RecentAppointments(ctx context.Context, limit int) ([]Appointment, error) {
	var appts []Appointment
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	// Callers render oldest-first, matching insertion order.
	for i, j := 0, len(appts)-1; i < j; i, j = i+1, j-1 {
		appts[i], appts[j] = appts[j], appts[i]
	}
	return appts, nil
}

func (s *SQLiteStore) DB() *gorm.DB {
	return s.db
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
