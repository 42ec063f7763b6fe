// Package router wires every API operation onto one gorilla/mux router.
package router

import (
	"context"
	"net/http"
	"time"

	createapplication "livest/internal/api/applications/create-application"
	decideapplication "livest/internal/api/applications/decide-application"
	listapplications "livest/internal/api/applications/list-applications"
	listleases "livest/internal/api/leases/list-leases"
	listpayments "livest/internal/api/leases/list-payments"
	createproperty "livest/internal/api/properties/create-property"
	getproperty "livest/internal/api/properties/get-property"
	listproperties "livest/internal/api/properties/list-properties"
	searchproperties "livest/internal/api/properties/search-properties"
	managefavorites "livest/internal/api/users/manage-favorites"
	"livest/internal/common/auth"
	"livest/internal/common/camunda"
	"livest/internal/common/config"
	"livest/internal/common/database"
	apperrors "livest/internal/common/errors"
	"livest/internal/common/geocoding"
	"livest/internal/common/logger"
	"livest/internal/common/observability"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Dependencies struct {
	Config        *config.Config
	DB            *database.PostgresClient
	Redis         *database.RedisClient
	Elasticsearch *database.ElasticsearchClient
	Sessions      auth.SessionStore
	Geocoder      geocoding.Geocoder
	Indexer       createproperty.Indexer
	Publisher     camunda.Publisher
	Observability *observability.Observability
	Logger        logger.Logger
	// AllowedOrigins for CORS; "*" allows any origin.
	AllowedOrigins []string
}

// New builds the HTTP handler of the API.
func New(deps Dependencies) http.Handler {
	cfg := deps.Config
	log := deps.Logger
	requestTimeout := config.GetDuration(cfg.Server.RequestTimeout)

	r := mux.NewRouter()
	r.Use(requestLogging(log))
	r.Use(auth.Middleware(deps.Sessions, cfg.Auth.CookieName, log))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apperrors.WriteError(w, apperrors.NewNotFoundError("Route not found"))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apperrors.WriteJSON(w, http.StatusMethodNotAllowed, apperrors.ErrorResponse{Message: "Method not allowed"})
	})

	r.HandleFunc("/health", health("healthy")).Methods(http.MethodGet)
	r.HandleFunc("/ready", ready(deps)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	session := func(h http.Handler) http.Handler { return auth.RequireSession(h) }

	// applications
	decideCfg := decideapplication.DefaultConfig()
	createCfg := createapplication.DefaultConfig()
	if requestTimeout > 0 {
		decideCfg.Timeout = requestTimeout
		createCfg.Timeout = requestTimeout
	}
	decide := decideapplication.NewHandler(decideapplication.NewService(decideapplication.ServiceDependencies{
		DB:            deps.DB,
		Publisher:     deps.Publisher,
		Observability: deps.Observability,
		Logger:        log,
	}, decideCfg), log)
	create := createapplication.NewHandler(createapplication.NewService(createapplication.ServiceDependencies{
		DB:            deps.DB,
		Publisher:     deps.Publisher,
		Observability: deps.Observability,
		Logger:        log,
	}, createCfg), log)
	listApps := listapplications.NewHandler(listapplications.NewService(listapplications.ServiceDependencies{
		DB:     deps.DB,
		Logger: log,
	}))

	r.Handle("/applications", session(listApps)).Methods(http.MethodGet)
	r.Handle("/applications", session(create)).Methods(http.MethodPost)
	r.Handle("/applications/{id}", session(decide)).Methods(http.MethodPatch)

	// search
	search := searchproperties.NewHandler(searchproperties.NewService(searchproperties.ServiceDependencies{
		DB:            deps.DB,
		Elasticsearch: deps.Elasticsearch,
		Observability: deps.Observability,
		Logger:        log,
	}, searchproperties.ConfigFrom(cfg.Search)))
	r.Handle("/search", search).Methods(http.MethodGet)

	// properties
	createProp := createproperty.NewHandler(createproperty.NewService(createproperty.ServiceDependencies{
		DB:            deps.DB,
		Geocoder:      deps.Geocoder,
		Indexer:       deps.Indexer,
		Publisher:     deps.Publisher,
		Observability: deps.Observability,
		Logger:        log,
	}, nil), log)
	getProp := getproperty.NewHandler(getproperty.NewService(getproperty.ServiceDependencies{
		DB:     deps.DB,
		Cache:  deps.Redis,
		Logger: log,
	}, &getproperty.Config{CacheTTL: time.Duration(cfg.Cache.PropertyTTL) * time.Second}))
	listProps := listproperties.NewHandler(listproperties.NewService(listproperties.ServiceDependencies{
		DB:     deps.DB,
		Logger: log,
	}))

	r.Handle("/properties", session(createProp)).Methods(http.MethodPost)
	r.Handle("/properties/me", session(http.HandlerFunc(listProps.Mine))).Methods(http.MethodGet)
	r.HandleFunc("/properties/manager/{managerId}", listProps.ForManager).Methods(http.MethodGet)
	r.HandleFunc("/properties/tenant/{tenantId}", listProps.ForTenant).Methods(http.MethodGet)
	r.Handle("/properties/{id}", getProp).Methods(http.MethodGet)

	// leases
	leases := listleases.NewHandler(listleases.NewService(listleases.ServiceDependencies{DB: deps.DB, Logger: log}))
	payments := listpayments.NewHandler(listpayments.NewService(listpayments.ServiceDependencies{DB: deps.DB, Logger: log}))
	r.Handle("/leases", session(leases)).Methods(http.MethodGet)
	r.Handle("/leases/{leaseId}/payments", session(payments)).Methods(http.MethodGet)

	// favorites
	favorites := managefavorites.NewHandler(managefavorites.NewService(managefavorites.ServiceDependencies{DB: deps.DB, Logger: log}))
	r.Handle("/users/favorites", session(http.HandlerFunc(favorites.Add))).Methods(http.MethodPost)
	r.Handle("/users/favorites", session(http.HandlerFunc(favorites.Remove))).Methods(http.MethodDelete)

	// preflight requests match no route, so CORS wraps the router itself
	return cors(deps.AllowedOrigins)(r)
}

func health(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		apperrors.WriteJSON(w, http.StatusOK, map[string]string{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// ready reports 503 until Postgres and, when configured, Redis answer a ping.
func ready(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"postgres": "ok"}
		status := http.StatusOK
		if err := deps.DB.Ping(ctx); err != nil {
			checks["postgres"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if deps.Redis != nil {
			checks["redis"] = "ok"
			if err := deps.Redis.Ping(ctx); err != nil {
				checks["redis"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}

		state := "ready"
		if status != http.StatusOK {
			state = "not ready"
		}
		apperrors.WriteJSON(w, status, map[string]interface{}{"status": state, "checks": checks})
	}
}
