package handler

import (
	"net/http"

	"github.com/vfg2006/ads-report-dispatcher/infrastructure/repository"
	"github.com/vfg2006/ads-report-dispatcher/internal/api/handler/router"
	"github.com/vfg2006/ads-report-dispatcher/internal/usecases/connecting"
)

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

func Dispatch(dispatcher DispatchController) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/dispatch/status",
			Method:  http.MethodGet,
			Handler: GetDispatchStatus(dispatcher),
		},
		{
			Path:    "/v1/dispatch/run",
			Method:  http.MethodPost,
			Handler: RunDispatch(dispatcher),
		},
	}
}

func Tenants(service connecting.Connector) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/tenants",
			Method:  http.MethodGet,
			Handler: ListTenants(service),
		},
		{
			Path:    "/v1/tenants/:id/status",
			Method:  http.MethodGet,
			Handler: GetTenantStatus(service),
		},
	}
}

func Reports(sendLog repository.SendLogRepository) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/reports/:id/send-log",
			Method:  http.MethodGet,
			Handler: ListSendLog(sendLog),
		},
	}
}
