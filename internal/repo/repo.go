package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fieldops/internal/models"
)

var ErrDuplicate = errors.New("duplicate key")

type GormRepo struct {
	DB *gorm.DB
}

// Tx runs fn against a repo bound to a single transaction. Inside fn only
// the tx repo may be used.
func (r *GormRepo) Tx(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	db := r.DB.WithContext(ctx)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Client{},
		&models.Card{},
		&models.Expense{},
		&models.Job{},
		&models.Timesheet{},
		&models.LocationUpdate{},
		&models.SurveyTemplate{},
		&models.SurveyQuestion{},
		&models.SurveyResponse{},
		&models.SurveyAnswer{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_timesheets_one_open ON timesheets (user_id) WHERE clock_out_time IS NULL`).Error; err != nil {
		return fmt.Errorf("open timesheet index: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func translate(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
