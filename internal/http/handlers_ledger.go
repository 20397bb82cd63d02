package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"grana/internal/ledger"
	"grana/internal/services"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", "error", err)
		writeError(w, http.StatusInternalServerError, "erro ao listar lançamentos")
		return
	}

	// Optional month filter
	if month := strings.TrimSpace(r.URL.Query().Get("month")); month != "" {
		if !validMonthKey(month) {
			writeError(w, http.StatusUnprocessableEntity, "parâmetro month inválido, use AAAA-MM")
			return
		}
		filtered := txs[:0]
		for _, tx := range txs {
			if tx.ResolvedMonth() == month {
				filtered = append(filtered, tx)
			}
		}
		txs = filtered
	}

	writeJSON(w, http.StatusOK, toTransactionsResponse(txs))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	tx, installments, err := decodeTransactionRequest(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx := r.Context()

	if installments > 1 {
		plan, err := services.PlanInstallments(tx, installments)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "parcelamento inválido: "+err.Error())
			return
		}
		ids := make([]string, 0, len(plan))
		for _, part := range plan {
			id, err := s.ledger.AppendTransaction(ctx, part)
			if err != nil {
				slog.ErrorContext(ctx, "Installment append error", "error", err, "saved", len(ids), "parts", installments)
				writeError(w, http.StatusInternalServerError, "erro ao salvar parcelas")
				return
			}
			ids = append(ids, id)
		}
		writeJSON(w, http.StatusCreated, transactionCreatedResponse{IDs: ids})
		return
	}

	id, err := s.ledger.AppendTransaction(ctx, tx)
	if err != nil {
		slog.ErrorContext(ctx, "Transaction append error", "error", err, "category", tx.Category)
		writeError(w, http.StatusInternalServerError, "erro ao salvar o lançamento")
		return
	}
	writeJSON(w, http.StatusCreated, transactionCreatedResponse{IDs: []string{id}})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if strings.TrimSpace(id) == "" {
		writeError(w, http.StatusUnprocessableEntity, "id obrigatório")
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "lançamento não encontrado")
			return
		}
		slog.ErrorContext(r.Context(), "Transaction delete error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "erro ao excluir o lançamento")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.ledger.ReadConfig(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Read config error", "error", err)
		writeError(w, http.StatusInternalServerError, "erro ao ler a configuração")
		return
	}
	if cfg == nil {
		writeError(w, http.StatusNotFound, "nenhuma configuração salva")
		return
	}
	writeJSON(w, http.StatusOK, toConfigResponse(cfg))
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := decodeConfigRequest(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.ledger.SaveConfig(r.Context(), cfg); err != nil {
		slog.ErrorContext(r.Context(), "Save config error", "error", err)
		writeError(w, http.StatusInternalServerError, "erro ao salvar a configuração")
		return
	}
	writeJSON(w, http.StatusOK, toConfigResponse(&cfg))
}

func (s *Server) handleRequestReport(w http.ResponseWriter, r *http.Request) {
	if s.requestReport == nil {
		writeError(w, http.StatusServiceUnavailable, "exportação de relatórios indisponível")
		return
	}

	month := r.PathValue("month")
	if !validMonthKey(month) {
		writeError(w, http.StatusUnprocessableEntity, "mês inválido, use AAAA-MM")
		return
	}

	if err := s.requestReport(r.Context(), month); err != nil {
		slog.ErrorContext(r.Context(), "Report request error", "error", err, "month", month)
		writeError(w, http.StatusInternalServerError, "erro ao solicitar o relatório")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"month": month, "status": "queued"})
}
