package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"vehicle-request-api/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm open error: %v", err)
	}
	return db, mock
}

func TestVehicleRequestCount(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "vehicle_requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

	total, err := NewVehicleRequestRepository(db).Count(context.Background())
	if err != nil {
		t.Fatalf("count error: %v", err)
	}
	if total != 9 {
		t.Fatalf("expected 9, got %d", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVehicleRequestFindByTicketNumberNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "vehicle_requests" WHERE ticket_number = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ticket_number"}))

	_, err := NewVehicleRequestRepository(db).FindByTicketNumber(context.Background(), "GA-TR-99")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVehicleRequestDeleteReportsMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "vehicle_requests" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := NewVehicleRequestRepository(db).Delete(context.Background(), 5)
	if err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if deleted {
		t.Fatalf("expected deleted=false when no row matched")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTicketCounterLastNumber(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTicketCounterRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "ticket_counters" WHERE prefix = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"prefix", "last_number", "updated_at"}))
	n, err := repo.LastNumber(context.Background(), "GA-TR-")
	if err != nil || n != 0 {
		t.Fatalf("missing counter should read as 0, got %d, %v", n, err)
	}

	mock.ExpectQuery(`SELECT \* FROM "ticket_counters" WHERE prefix = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"prefix", "last_number", "updated_at"}).
			AddRow("GA-TR-", 12, time.Now()))
	n, err = repo.LastNumber(context.Background(), "GA-TR-")
	if err != nil || n != 12 {
		t.Fatalf("expected 12, got %d, %v", n, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserListByRoleScopesDepartment(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE .*role = \$1.*department_id = \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role", "department_id"}).
			AddRow(3, "kadep", "head_departemen", 7))

	dept := uint(7)
	users, err := NewUserRepository(db).ListByRole(context.Background(), "head_departemen", &dept)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(users) != 1 || users[0].Username != "kadep" {
		t.Fatalf("unexpected users: %+v", users)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStatisticsCountByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) as total FROM "vehicle_requests" WHERE .*created_at >= \$1.* GROUP BY "status"`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "total"}).
			AddRow("pending", 4).
			AddRow("approved", 2))

	end := time.Now()
	rows, err := NewStatisticsRepository(db).CountByStatus(context.Background(), end.AddDate(0, -1, 0), end)
	if err != nil {
		t.Fatalf("count error: %v", err)
	}
	if len(rows) != 2 || rows[0].Status != "pending" || rows[0].Total != 4 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStatisticsPendingByLevel(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT CASE WHEN approval1 = 'pending' THEN 1 .* as level, COUNT\(\*\) as total FROM "vehicle_requests" WHERE .*status = \$3 GROUP BY "level"`).
		WillReturnRows(sqlmock.NewRows([]string{"level", "total"}).
			AddRow(1, 5).
			AddRow(3, 1))

	end := time.Now()
	backlog, err := NewStatisticsRepository(db).PendingByLevel(context.Background(), end.AddDate(0, -1, 0), end)
	if err != nil {
		t.Fatalf("backlog error: %v", err)
	}
	if backlog[1] != 5 || backlog[2] != 0 || backlog[3] != 1 {
		t.Fatalf("unexpected backlog: %v", backlog)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunInTxJoinsOuterTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	tm := NewTransactionManager(db)
	audits := NewAuditRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "audit_logs"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tm.RunInTx(context.Background(), func(txCtx context.Context) error {
		return tm.RunInTx(txCtx, func(inner context.Context) error {
			return audits.Log(inner, &model.AuditLog{Action: model.ActionCreateVehicleRequest, EntityID: "1"})
		})
	})
	if err != nil {
		t.Fatalf("tx error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := NewTransactionManager(db).RunInTx(context.Background(), func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditListAppliesFilter(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "audit_logs" WHERE action = \$1 AND entity_id = \$2`).
		WithArgs(model.ActionApproveLevel, "12").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE action = \$1 AND entity_id = \$2 ORDER BY created_at desc LIMIT \$3`).
		WithArgs(model.ActionApproveLevel, "12", 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action", "entity_id", "entity_name"}).
			AddRow("8c0c6c1e-4a0f-4d55-9d0e-3f1b2c3d4e5f", 4, model.ActionApproveLevel, "12", "GA-TR-0001"))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(4, "kadep"))

	entries, total, err := NewAuditRepository(db).List(context.Background(),
		AuditFilter{Action: model.ActionApproveLevel, EntityID: "12"}, 1, 20)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if total != 1 || len(entries) != 1 || entries[0].User == nil || entries[0].User.Username != "kadep" {
		t.Fatalf("unexpected entries: total=%d %+v", total, entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
