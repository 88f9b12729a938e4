package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/adts-project/adts/internal/auth"
	"github.com/adts-project/adts/internal/catalog"
	"github.com/adts-project/adts/internal/employees"
	"github.com/adts-project/adts/internal/ledger"
	"github.com/adts-project/adts/internal/notify"
	"github.com/adts-project/adts/internal/observability"
	"github.com/adts-project/adts/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthHandler      *auth.Handler
	LedgerHandler    *ledger.Handler
	CatalogHandler   *catalog.Handler
	EmployeesHandler *employees.Handler
	NotifyHandler    *notify.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with ADTS defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/users", params.AuthHandler.MountRoutes)

	r.Route("/api/items", params.CatalogHandler.MountItemRoutes)

	// The borrow route group also serves the department item listing and the
	// employee display-name lookup, mirroring the paths the frontend uses.
	r.Route("/api/borrowTransaction", func(r chi.Router) {
		r.Get("/{currentDptId}/{empId}", params.CatalogHandler.ListDepartmentItems)
		r.Get("/{empId}", params.EmployeesHandler.GetDisplayName)
		params.LedgerHandler.MountBorrowRoutes(r)
	})

	r.Route("/api/lendTransaction", func(r chi.Router) {
		r.Get("/borrowers", params.EmployeesHandler.ListBorrowers)
		params.LedgerHandler.MountLendRoutes(r)
	})

	r.Route("/api/transferTransaction", func(r chi.Router) {
		r.Get("/receivers", params.EmployeesHandler.ListReceivers)
		params.LedgerHandler.MountTransferRoutes(r)
	})

	r.Route("/api/returnTransaction", params.LedgerHandler.MountReturnRoutes)

	r.Route("/api/notifications", params.NotifyHandler.MountRoutes)

	if params.JobHandler != nil {
		r.Route("/api/jobs", params.JobHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
