package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/repository"
	"github.com/vfg2006/ads-report-dispatcher/pkg/apiErrors"
	"github.com/vfg2006/ads-report-dispatcher/pkg/log"
)

const (
	defaultSendLogLimit = 20
	maxSendLogLimit     = 200
)

// ListSendLog devolve os envios concluídos de um relatório
func ListSendLog(sendLog repository.SendLogRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reportID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if reportID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do relatório não informado", nil)
			return
		}

		limit := uint64(defaultSendLogLimit)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || parsed == 0 || parsed > maxSendLogLimit {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Parâmetro limit deve estar entre 1 e 200", nil)
				return
			}
			limit = parsed
		}

		entries, err := sendLog.ListByReport(r.Context(), reportID, limit)
		if err != nil {
			writeDomainError(w, r, err, log.Fields{"report_id": reportID})
			return
		}

		writeJSON(w, r, http.StatusOK, map[string]any{
			"report_id": reportID,
			"entries":   entries,
		})
	}
}
