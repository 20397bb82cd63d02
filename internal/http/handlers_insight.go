package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"grana/internal/core"
)

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	result, err := s.insights.HealthScore(r.Context(), s.now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Health score error", "error", err)
		writeError(w, http.StatusInternalServerError, "erro ao calcular a nota")
		return
	}
	writeJSON(w, http.StatusOK, toScoreResponse(result))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.insights.Summary(r.Context(), s.now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary error", "error", err)
		writeError(w, http.StatusInternalServerError, "erro ao calcular o resumo")
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.insights.PaceAlerts(r.Context(), s.now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Pace alerts error", "error", err)
		writeError(w, http.StatusInternalServerError, "erro ao calcular alertas")
		return
	}
	writeJSON(w, http.StatusOK, toAlertsResponse(alerts))
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	horizon := s.horizon
	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > core.MaxProjectionHorizon {
			writeError(w, http.StatusUnprocessableEntity, "parâmetro months inválido")
			return
		}
		horizon = n
	}

	points, err := s.insights.Projection(r.Context(), s.now(), horizon)
	if err != nil {
		slog.ErrorContext(r.Context(), "Projection error", "error", err, "horizon", horizon)
		writeError(w, http.StatusInternalServerError, "erro ao calcular a projeção")
		return
	}
	writeJSON(w, http.StatusOK, toProjectionResponse(points))
}

func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	total, err := s.insights.NetWorth(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Net worth error", "error", err)
		writeError(w, http.StatusInternalServerError, "erro ao calcular o patrimônio")
		return
	}
	writeJSON(w, http.StatusOK, netWorthResponse{Total: toMoneyDTO(total)})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		month = s.now().Format("2006-01")
	}
	if !validMonthKey(month) {
		writeError(w, http.StatusUnprocessableEntity, "parâmetro month inválido, use AAAA-MM")
		return
	}

	overview, err := s.insights.MonthOverview(r.Context(), month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month overview error", "error", err, "month", month)
		writeError(w, http.StatusInternalServerError, "erro ao montar a visão do mês")
		return
	}
	writeJSON(w, http.StatusOK, toOverviewResponse(overview))
}

func (s *Server) handleAdvisorContext(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		writeError(w, http.StatusServiceUnavailable, "contexto do consultor indisponível")
		return
	}
	text, err := s.advisor.Build(r.Context(), s.now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Advisor context error", "error", err)
		writeError(w, http.StatusInternalServerError, "erro ao montar o contexto")
		return
	}
	writeJSON(w, http.StatusOK, advisorContextResponse{Context: text})
}
