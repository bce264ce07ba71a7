package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/predictions", handler.GetPredictions)
	mux.HandleFunc("GET /v1/live-scores", handler.GetLiveScores)
	mux.HandleFunc("GET /v1/news", handler.GetNews)
	mux.HandleFunc("GET /v1/profiles/{userID}/access", handler.GetProfileAccess)
}

func registerWebhookRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/webhooks/paystack", handler.PaystackWebhook)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, scanSecret string) {
	mux.Handle("POST /v1/scan", RequireScanSecret(scanSecret, http.HandlerFunc(handler.TriggerScan)))
}
