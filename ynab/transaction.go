package ynab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type saveRequest struct {
	Transaction SaveTransaction `json:"transaction"`
}

type transactionResponse struct {
	Transaction Transaction `json:"transaction"`
}

// Transactions lists the transactions of a budget on or after since. A zero
// since lists everything.
func (y *YNAB) Transactions(ctx context.Context, budgetID string, since time.Time) ([]Transaction, error) {
	if budgetID == "" {
		return nil, ErrMissingID
	}
	path := fmt.Sprintf("/budgets/%s/transactions", url.PathEscape(budgetID))
	if !since.IsZero() {
		path += "?since_date=" + since.Format(time.DateOnly)
	}

	var res struct {
		Transactions []Transaction `json:"transactions"`
	}
	if err := y.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, fmt.Errorf("failed to fetch Transactions: %w", err)
	}

	txns := res.Transactions[:0]
	for _, t := range res.Transactions {
		if !t.Deleted {
			txns = append(txns, t)
		}
	}
	return txns, nil
}

func (y *YNAB) Transaction(ctx context.Context, budgetID, transactionID string) (Transaction, error) {
	if budgetID == "" || transactionID == "" {
		return Transaction{}, ErrMissingID
	}
	var res transactionResponse
	path := fmt.Sprintf("/budgets/%s/transactions/%s", url.PathEscape(budgetID), url.PathEscape(transactionID))
	if err := y.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return Transaction{}, fmt.Errorf("failed to fetch Transaction: %w", err)
	}
	if res.Transaction.ID == "" {
		return Transaction{}, errors.New("no transaction found")
	}
	return res.Transaction, nil
}

// UpdateTransaction replaces a transaction with t.
func (y *YNAB) UpdateTransaction(ctx context.Context, budgetID, transactionID string, t SaveTransaction) (Transaction, error) {
	if budgetID == "" || transactionID == "" {
		return Transaction{}, ErrMissingID
	}
	var res transactionResponse
	path := fmt.Sprintf("/budgets/%s/transactions/%s", url.PathEscape(budgetID), url.PathEscape(transactionID))
	if err := y.do(ctx, http.MethodPut, path, saveRequest{Transaction: t}, &res); err != nil {
		return Transaction{}, fmt.Errorf("could not update transaction: %w", err)
	}
	return res.Transaction, nil
}

func (y *YNAB) CreateTransaction(ctx context.Context, budgetID string, t SaveTransaction) (Transaction, error) {
	if budgetID == "" {
		return Transaction{}, ErrMissingID
	}
	if t.AccountID == "" {
		return Transaction{}, errors.New("account_id must be provided")
	}
	var res transactionResponse
	path := fmt.Sprintf("/budgets/%s/transactions", url.PathEscape(budgetID))
	if err := y.do(ctx, http.MethodPost, path, saveRequest{Transaction: t}, &res); err != nil {
		return Transaction{}, fmt.Errorf("could not create transaction: %w", err)
	}
	if res.Transaction.ID == "" {
		return Transaction{}, errors.New("could not create transaction")
	}
	return res.Transaction, nil
}
