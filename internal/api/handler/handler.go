package handler

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/ads-report-dispatcher/pkg/apiErrors"
	"github.com/vfg2006/ads-report-dispatcher/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DispatchController expõe o agendador de relatórios para a API
type DispatchController interface {
	GetStatus() map[string]any
	TriggerManualRun()
}

// Pinger verifica a conexão com o banco
type Pinger interface {
	Ping(ctx context.Context) error
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao codificar resposta")
	}
}

func writeDomainError(w http.ResponseWriter, r *http.Request, err error, fields log.Fields) {
	fields["error"] = err.Error()
	fields["error_code"] = apiErrors.CodeFor(err)
	log.ForContext(r.Context()).WithFields(fields).Warn("Requisição não atendida")

	apiErrors.WriteDomainError(w, err)
}
