package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/helpcomp/ynab-tui/ynab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return New(db), mock
}

func TestActiveBudgetID_Fallback(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT value FROM local_storage WHERE key`).
		WithArgs(KeyActiveBudgetID).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	id, err := s.ActiveBudgetID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", id)
}

func TestActiveBudgetCurrency(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT value FROM local_storage WHERE key`).
		WithArgs(KeyActiveBudgetCurrency).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).
			AddRow(`{"iso_code":"EUR","decimal_digits":2,"currency_symbol":"€","display_symbol":true}`))

	cf, err := s.ActiveBudgetCurrency(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cf)
	assert.Equal(t, "EUR", cf.ISOCode)
	assert.Equal(t, "€", cf.CurrencySymbol)
}

func TestActiveBudgetCurrency_Null(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT value FROM local_storage WHERE key`).
		WithArgs(KeyActiveBudgetCurrency).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`null`))

	cf, err := s.ActiveBudgetCurrency(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cf)
}

func TestGet_QueryError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT value FROM local_storage WHERE key`).
		WithArgs(KeyActiveBudgetID).
		WillReturnError(errors.New("disk I/O error"))

	id, err := s.ActiveBudgetID(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "", id)
}

func TestSetActiveBudget(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO local_storage`).
		WithArgs(KeyActiveBudgetID, `"b1"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO local_storage`).
		WithArgs(KeyActiveBudgetCurrency, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := s.SetActiveBudget(context.Background(), "b1", &ynab.CurrencyFormat{ISOCode: "USD"})
	assert.NoError(t, err)
}

func TestSetActiveBudget_RollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO local_storage`).
		WithArgs(KeyActiveBudgetID, `"b1"`).
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	err := s.SetActiveBudget(context.Background(), "b1", nil)
	assert.ErrorContains(t, err, "database is locked")
}

func TestClearActiveBudget(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM local_storage WHERE key`).
		WithArgs(KeyActiveBudgetID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM local_storage WHERE key`).
		WithArgs(KeyActiveBudgetCurrency).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, s.ClearActiveBudget(context.Background()))
}

func TestClearActiveBudget_RollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM local_storage WHERE key`).
		WithArgs(KeyActiveBudgetID).
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	err := s.ClearActiveBudget(context.Background())
	assert.ErrorContains(t, err, "database is locked")
}
