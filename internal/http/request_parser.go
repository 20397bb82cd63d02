package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"grana/internal/core"
)

// maxBodySize bounds request bodies; the API only carries small JSON
// payloads.
const maxBodySize = 1 << 20

// transactionRequest is the JSON write payload. Amount is a decimal string
// ("123,45" or "123.45") so clients never round floats.
type transactionRequest struct {
	Type         string `json:"type"`
	Category     string `json:"category"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	Description  string `json:"description"`
	IsFixed      bool   `json:"is_fixed"`
	Installments int    `json:"installments"`
}

// configRequest mirrors the manual configuration snapshot. Empty strings
// mean "not set" and map to zero cents.
type configRequest struct {
	Income           string            `json:"income"`
	FixedExpenses    string            `json:"fixed_expenses"`
	VariableEstimate string            `json:"variable_estimate"`
	Invested         string            `json:"invested"`
	CategoryBudgets  map[string]string `json:"category_budgets"`
}

func decodeJSONBody(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errors.New("corpo da requisição inválido")
	}
	return nil
}

// decodeTransactionRequest parses and validates a transaction payload,
// returning the transaction and the requested installment count (1 when
// absent).
func decodeTransactionRequest(r *http.Request) (core.Transaction, int, error) {
	var req transactionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return core.Transaction{}, 0, err
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		return core.Transaction{}, 0, errors.New("valor inválido")
	}

	date, err := parseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return core.Transaction{}, 0, errors.New("data inválida, use AAAA-MM-DD")
	}

	tx := core.Transaction{
		Type:        core.TransactionType(strings.TrimSpace(req.Type)),
		Category:    core.NormalizeCategory(sanitizeInput(req.Category)),
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Description: sanitizeInput(req.Description),
		IsFixed:     req.IsFixed,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, 0, fmt.Errorf("lançamento inválido: %w", err)
	}

	installments := req.Installments
	if installments <= 0 {
		installments = 1
	}
	if installments > 48 {
		return core.Transaction{}, 0, errors.New("parcelamento limitado a 48 vezes")
	}

	return tx, installments, nil
}

// decodeConfigRequest parses the manual-configuration payload.
func decodeConfigRequest(r *http.Request) (core.ManualConfig, error) {
	var req configRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return core.ManualConfig{}, err
	}

	cfg := core.ManualConfig{}
	fields := []struct {
		name  string
		value string
		dst   *core.Money
	}{
		{"income", req.Income, &cfg.Income},
		{"fixed_expenses", req.FixedExpenses, &cfg.FixedExpenses},
		{"variable_estimate", req.VariableEstimate, &cfg.VariableEstimate},
		{"invested", req.Invested, &cfg.Invested},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		cents, err := core.ParseDecimalToCents(f.value)
		if err != nil {
			return core.ManualConfig{}, fmt.Errorf("campo %s inválido", f.name)
		}
		f.dst.Cents = cents
	}

	if len(req.CategoryBudgets) > 0 {
		cfg.CategoryBudgets = make(map[string]core.Money, len(req.CategoryBudgets))
		for category, value := range req.CategoryBudgets {
			if strings.TrimSpace(value) == "" {
				continue
			}
			cents, err := core.ParseDecimalToCents(value)
			if err != nil {
				return core.ManualConfig{}, fmt.Errorf("orçamento inválido para %s", category)
			}
			cfg.CategoryBudgets[core.NormalizeCategory(sanitizeInput(category))] = core.Money{Cents: cents}
		}
	}

	return cfg, nil
}

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (core.Date, error) {
	parsedTime, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: parsedTime}, nil
}

// validMonthKey reports whether s is a well-formed YYYY-MM key.
func validMonthKey(s string) bool {
	if len(s) != 7 || s[4] != '-' {
		return false
	}
	if _, err := time.Parse("2006-01", s); err != nil {
		return false
	}
	return true
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
