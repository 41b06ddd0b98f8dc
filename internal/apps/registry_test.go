package apps

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/durka/mastodonlm/internal/db"

	"github.com/DATA-DOG/go-sqlmock"
)

type stubRegistrar struct {
	clientID     string
	clientSecret string
	err          error
	calls        int
}

func (s *stubRegistrar) register(_ context.Context, domain, redirectURIs string) (string, string, error) {
	s.calls++
	if s.err != nil {
		return "", "", s.err
	}
	return s.clientID, s.clientSecret, nil
}

func newTestRegistry(t *testing.T, reg *stubRegistrar) (*Registry, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = mockDB.Close() })

	return NewRegistry(&db.DB{DB: mockDB}, reg.register), mock
}

func appRows(domain, clientID, clientSecret string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"domain", "client_id", "client_secret"}).
		AddRow(domain, clientID, clientSecret)
}

func TestEnsureKnownDomainSkipsRegistration(t *testing.T) {
	reg := &stubRegistrar{}
	registry, mock := newTestRegistry(t, reg)

	mock.ExpectQuery("SELECT domain, client_id, client_secret").
		WithArgs("known.social").
		WillReturnRows(appRows("known.social", "stored-id", "stored-secret"))

	cfg, err := registry.Ensure(context.Background(), "known.social", "https://cb")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if cfg.ClientID != "stored-id" || cfg.ClientSecret != "stored-secret" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if reg.calls != 0 {
		t.Fatalf("registered %d times for a known domain", reg.calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEnsureFirstSightRegistersAndPersists(t *testing.T) {
	reg := &stubRegistrar{clientID: "new-id", clientSecret: "new-secret"}
	registry, mock := newTestRegistry(t, reg)

	mock.ExpectQuery("SELECT domain, client_id, client_secret").
		WithArgs("fresh.social").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO apps").
		WithArgs("fresh.social", "new-id", "new-secret").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cfg, err := registry.Ensure(context.Background(), "fresh.social", "https://cb")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if cfg.ClientID != "new-id" || cfg.ClientSecret != "new-secret" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if reg.calls != 1 {
		t.Fatalf("registered %d times", reg.calls)
	}

	// Second sight: the stored row answers, no further registration.
	mock.ExpectQuery("SELECT domain, client_id, client_secret").
		WithArgs("fresh.social").
		WillReturnRows(appRows("fresh.social", "new-id", "new-secret"))

	cfg, err = registry.Ensure(context.Background(), "fresh.social", "https://cb")
	if err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if cfg.ClientID != "new-id" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if reg.calls != 1 {
		t.Fatalf("registered %d times for a now-known domain", reg.calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEnsureRegistrationFailure(t *testing.T) {
	reg := &stubRegistrar{err: errors.New("remote refused")}
	registry, mock := newTestRegistry(t, reg)

	mock.ExpectQuery("SELECT domain, client_id, client_secret").
		WithArgs("down.social").
		WillReturnError(sql.ErrNoRows)

	_, err := registry.Ensure(context.Background(), "down.social", "https://cb")
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEnsureLostInsertRaceReturnsStoredRow(t *testing.T) {
	reg := &stubRegistrar{clientID: "loser-id", clientSecret: "loser-secret"}
	registry, mock := newTestRegistry(t, reg)

	mock.ExpectQuery("SELECT domain, client_id, client_secret").
		WithArgs("busy.social").
		WillReturnError(sql.ErrNoRows)
	// Another Ensure stored its registration between our lookup and
	// insert: the insert hits the conflict and changes nothing.
	mock.ExpectExec("INSERT INTO apps").
		WithArgs("busy.social", "loser-id", "loser-secret").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT domain, client_id, client_secret").
		WithArgs("busy.social").
		WillReturnRows(appRows("busy.social", "winner-id", "winner-secret"))

	cfg, err := registry.Ensure(context.Background(), "busy.social", "https://cb")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if cfg.ClientID != "winner-id" || cfg.ClientSecret != "winner-secret" {
		t.Fatalf("expected the persisted credentials, got %+v", cfg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
