package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/rules", handler.GetScoringRules)
	mux.HandleFunc("POST /v1/scores", handler.ScoreStatLine)
	mux.HandleFunc("GET /v1/patterns/touchdowns", handler.ListTouchdownPatterns)
	mux.HandleFunc("GET /v1/patterns/fieldgoals", handler.ListFieldGoalPatterns)
	mux.HandleFunc("GET /v1/projections", handler.ListWeekProjections)
	mux.HandleFunc("GET /v1/accuracy/intervals", handler.GetConfidenceIntervals)
	mux.HandleFunc("GET /v1/accuracy/report", handler.GetAccuracyReport)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/rosters/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyRoster)))
	mux.Handle("PUT /v1/rosters/me", RequireAuth(verifier, http.HandlerFunc(handler.SaveMyRoster)))
	mux.Handle("GET /v1/lineups/optimal", RequireAuth(verifier, http.HandlerFunc(handler.GetOptimalLineup)))
	mux.Handle("GET /v1/dashboard", RequireAuth(verifier, http.HandlerFunc(handler.GetDashboard)))
	registerAuthorizedSyncRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/bootstrap", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBootstrapJob)))
	mux.Handle("POST /v1/internal/jobs/refresh-projections", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshProjectionsJob)))
	mux.Handle("POST /v1/internal/jobs/sync-results", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncResultsJob)))
	mux.Handle("POST /v1/internal/jobs/ingest-season", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunIngestSeasonJob)))
}

func registerAuthorizedSyncRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	// Direct variants of the queue-delivered jobs for operators: same work,
	// bearer auth instead of the job token, no re-enqueue chaining.
	mux.Handle("POST /v1/internal/sync/reference", RequireAuth(verifier, http.HandlerFunc(handler.RunReferenceSyncDirect)))
	mux.Handle("POST /v1/internal/sync/projections", RequireAuth(verifier, http.HandlerFunc(handler.RunProjectionRefreshDirect)))
	mux.Handle("POST /v1/internal/sync/results", RequireAuth(verifier, http.HandlerFunc(handler.RunResultSyncDirect)))
	mux.Handle("POST /v1/internal/sync/season", RequireAuth(verifier, http.HandlerFunc(handler.RunSeasonIngestDirect)))
	// Get a previously executed ingestion run by run id.
	mux.Handle("GET /v1/internal/sync/runs/{runID}", RequireAuth(verifier, http.HandlerFunc(handler.GetIngestionRun)))
}
