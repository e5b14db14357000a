package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/ads-report-dispatcher/internal/usecases/connecting"
	"github.com/vfg2006/ads-report-dispatcher/pkg/apiErrors"
	"github.com/vfg2006/ads-report-dispatcher/pkg/log"
)

func ListTenants(service connecting.Connector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenants, err := service.ListTenants(r.Context())
		if err != nil {
			writeDomainError(w, r, err, log.Fields{})
			return
		}

		writeJSON(w, r, http.StatusOK, map[string]any{
			"tenants": tenants,
		})
	}
}

// GetTenantStatus verifica a conexão do tenant com a plataforma de anúncios
func GetTenantStatus(service connecting.Connector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if tenantID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do tenant não informado", nil)
			return
		}

		status, err := service.Status(r.Context(), tenantID)
		if err != nil {
			writeDomainError(w, r, err, log.Fields{"tenant_id": tenantID})
			return
		}

		writeJSON(w, r, http.StatusOK, status)
	}
}
