package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/jmoiron/sqlx"
)

type ReportStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewReportStorage(db *sqlx.DB, logger *slog.Logger) *ReportStorage {
	return &ReportStorage{db: db, logger: logger, now: time.Now}
}

// CreateReport сохраняет сообщение о питомце. Если питомца нет, возвращает domain.ErrNotFound.
func (s *ReportStorage) CreateReport(ctx context.Context, report *domain.Report) error {
	report.CreatedAt = s.now().UTC()

	query := `
	INSERT INTO reports (pet_id, report_name, report_phone, report_about, created_at)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`
	err := s.db.QueryRowxContext(ctx, query,
		report.PetID, report.ReportName, report.ReportPhone, report.ReportAbout, report.CreatedAt,
	).Scan(&report.ID)
	if err != nil {
		s.logger.Error("failed to insert report", "pet_id", report.PetID, "error", err)
		return mapError("insert report", err)
	}

	s.logger.Info("report saved", "report_id", report.ID, "pet_id", report.PetID)
	return nil
}

func (s *ReportStorage) GetReportByID(ctx context.Context, id int64) (*domain.Report, error) {
	var report domain.Report
	query := `SELECT id, pet_id, report_name, report_phone, report_about, created_at FROM reports WHERE id = $1`
	if err := s.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, mapError("select report", err)
	}
	return &report, nil
}
