package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-report-dispatcher/pkg/apiErrors"
)

// RunDispatch inicia um tick manual em segundo plano
func RunDispatch(dispatcher DispatchController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunDispatch")

		if dispatcher == nil {
			apiErrors.WriteError(w, apiErrors.ErrServiceDisabled, "Despacho de relatórios não disponível", nil)
			return
		}

		dispatcher.TriggerManualRun()

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Despacho de relatórios iniciado",
		})
	}
}

func GetDispatchStatus(dispatcher DispatchController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dispatcher == nil {
			apiErrors.WriteError(w, apiErrors.ErrServiceDisabled, "Despacho de relatórios não disponível", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, dispatcher.GetStatus())
	}
}
