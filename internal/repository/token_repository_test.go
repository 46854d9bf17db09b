package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRotateConsumesOldAndInsertsSuccessor(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	exp := time.Now().Add(24 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked=1 WHERE token_hash=? AND user_id=? AND revoked=0")).
		WithArgs("oldhash", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens (user_id, token_hash, revoked, expires_at) VALUES (?,?,0,?)")).
		WithArgs(uint64(7), "newhash", exp).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	repo := NewTokenRepo(db)
	if err := repo.Rotate(context.Background(), "oldhash", 7, "newhash", exp); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRotateFailsWhenTokenAlreadyConsumed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	// Zero rows affected: the token was already revoked (or never
	// existed for this user). No successor may be inserted.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked=1 WHERE token_hash=? AND user_id=? AND revoked=0")).
		WithArgs("oldhash", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewTokenRepo(db)
	err = repo.Rotate(context.Background(), "oldhash", 7, "newhash", time.Now())
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("got %v, want sql.ErrNoRows", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRotateRollsBackWhenInsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	boom := errors.New("disk full")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked=1 WHERE token_hash=? AND user_id=? AND revoked=0")).
		WithArgs("oldhash", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens")).
		WillReturnError(boom)
	mock.ExpectRollback()

	repo := NewTokenRepo(db)
	if err := repo.Rotate(context.Background(), "oldhash", 7, "newhash", time.Now()); !errors.Is(err, boom) {
		t.Fatalf("got %v, want insert error", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestFindByHashReturnsRevokedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "token_hash", "revoked", "created_at", "expires_at"}).
		AddRow(1, 7, "h", true, now, now.Add(time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, token_hash, revoked, created_at, expires_at FROM refresh_tokens WHERE token_hash=?")).
		WithArgs("h").
		WillReturnRows(rows)

	repo := NewTokenRepo(db)
	tok, err := repo.FindByHash(context.Background(), "h")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !tok.Revoked {
		t.Fatal("revoked flag lost in scan")
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	// Second revoke matches no row; still no error.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked=1 WHERE token_hash=? AND revoked=0")).
		WithArgs("h").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked=1 WHERE token_hash=? AND revoked=0")).
		WithArgs("h").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTokenRepo(db)
	if err := repo.Revoke(context.Background(), "h"); err != nil {
		t.Fatalf("first revoke: %v", err)
	}
	if err := repo.Revoke(context.Background(), "h"); err != nil {
		t.Fatalf("second revoke should be a no-op, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
