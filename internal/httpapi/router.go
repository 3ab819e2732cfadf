package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach extras that need the
// server handle.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	jh := JobsHandler{DB: d.DB, Hub: d.Hub, Preview: d.Preview}
	fu := FollowUpsHandler{DB: d.DB, Hub: d.Hub}

	mux.HandleFunc("/api/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  jh.List,
		http.MethodPost: jh.Create,
	}))
	mux.HandleFunc("/api/jobs/", jh.ByPath(fu))

	// Analytics (read-only)
	ah := AnalyticsHandler{DB: d.DB}
	mux.HandleFunc("/api/analytics/overview", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.Overview,
	}))
	mux.HandleFunc("/api/analytics/conversion", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.Conversion,
	}))
	mux.HandleFunc("/api/analytics/outcomes", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.Outcomes,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// Secrets
	sh := SecretsHandler{}
	mux.HandleFunc("/api/secrets/token", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetAPIToken,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// DB maintenance
	dh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Checkpoint,
	}))

	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
