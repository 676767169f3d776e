package storage

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/GoArmGo/PetFinder/internal/logger"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReportMock(t *testing.T) (*ReportStorage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := NewReportStorage(sqlx.NewDb(db, "sqlmock"), logger.Discard())
	s.now = func() time.Time { return fixedNow }
	return s, mock
}

func TestCreateReport(t *testing.T) {
	s, mock := setupReportMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reports`)).
		WithArgs(int64(42), "Juan", "1122334455", "Lo vi en la plaza", fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	r := &domain.Report{PetID: 42, ReportName: "Juan", ReportPhone: "1122334455", ReportAbout: "Lo vi en la plaza"}
	require.NoError(t, s.CreateReport(context.Background(), r))
	assert.Equal(t, int64(5), r.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReport_PetGoneIsNotFound(t *testing.T) {
	s, mock := setupReportMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reports`)).
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

	err := s.CreateReport(context.Background(), &domain.Report{PetID: 42})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetReportByID(t *testing.T) {
	s, mock := setupReportMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM reports WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pet_id", "report_name", "report_phone", "report_about", "created_at"}).
			AddRow(int64(5), int64(42), "Juan", "11", "about", fixedNow))

	r, err := s.GetReportByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(42), r.PetID)
}
