package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/gymcore/gym-api/internal/api/handler"
	"github.com/gymcore/gym-api/internal/api/middleware"
	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

// Services are the core ports the HTTP layer dispatches to.
type Services struct {
	Tokens      ports.TokenService
	Auth        ports.AuthService
	Users       ports.UserService
	Centers     ports.CenterService
	Access      ports.AccessService
	Classes     ports.CatalogService[domain.Class]
	Machines    ports.CatalogService[domain.Machine]
	Tickets     ports.CatalogService[domain.Ticket]
	Memberships ports.CatalogService[domain.Membership]
	Workouts    ports.CatalogService[domain.Workout]
	Diets       ports.CatalogService[domain.Diet]
	Readiness   map[string]handler.Check
}

// Options tunes transport behaviour.
type Options struct {
	CORSOrigins    []string
	LoginRateLimit float64
	SecureCookie   bool
	// Registry receives the HTTP metrics and backs /metrics. Defaults to the
	// global prometheus registry.
	Registry *prometheus.Registry
}

// Role sets used by the policy table.
var (
	anyRole   []domain.Role
	managers  = []domain.Role{domain.RoleAdmin, domain.RoleCenterAdmin}
	adminOnly = []domain.Role{domain.RoleAdmin}
	staff     = []domain.Role{domain.RoleAdmin, domain.RoleCenterAdmin, domain.RoleTrainer, domain.RoleCleaner}
	everyRole = domain.Roles
)

// route is one row of the routing policy. Public routes skip Auth; a nil
// roles slice admits any authenticated caller.
type route struct {
	method  string
	path    string
	public  bool
	roles   []domain.Role
	handler echo.HandlerFunc
	extra   []echo.MiddlewareFunc
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(metricsMiddleware(opts.Registry))

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(svc.Readiness).Readiness)
	e.GET("/metrics", metricsHandler(opts.Registry))

	auth := middleware.Auth(svc.Tokens)
	for _, r := range routes(svc, opts) {
		mws := append([]echo.MiddlewareFunc(nil), r.extra...)
		if !r.public {
			mws = append(mws, auth)
			if r.roles != nil {
				mws = append(mws, middleware.RequireRole(r.roles...))
			}
		}
		e.Add(r.method, r.path, r.handler, mws...)
	}

	return e
}

// routes is the routing policy table: every API route and the roles it admits.
// Services still apply center ownership and owner checks on top.
func routes(svc Services, opts Options) []route {
	authH := handler.NewAuthHandler(svc.Auth, opts.SecureCookie)
	usersH := handler.NewUserHandler(svc.Users)
	centersH := handler.NewCenterHandler(svc.Centers)
	accessH := handler.NewAccessHandler(svc.Access)

	rateLimit := opts.LoginRateLimit
	if rateLimit <= 0 {
		rateLimit = 5
	}

	table := []route{
		// Auth & accounts
		{method: http.MethodPost, path: "/api/auth/register", public: true, handler: authH.Register},
		{method: http.MethodPost, path: "/api/auth/login", public: true, handler: authH.Login, extra: []echo.MiddlewareFunc{middleware.LoginRateLimit(rateLimit)}},
		{method: http.MethodPost, path: "/api/auth/logout", public: true, handler: authH.Logout},
		{method: http.MethodGet, path: "/api/auth/me", roles: anyRole, handler: authH.Me},
		{method: http.MethodPut, path: "/api/auth/me", roles: anyRole, handler: authH.UpdateProfile},
		{method: http.MethodPut, path: "/api/auth/me/password", roles: anyRole, handler: authH.ChangePassword},

		// Access
		{method: http.MethodPost, path: "/api/access/scan", roles: managers, handler: accessH.Scan},
		{method: http.MethodGet, path: "/api/access/qr", roles: anyRole, handler: accessH.QR},
		{method: http.MethodGet, path: "/api/access/history", roles: anyRole, handler: accessH.History},

		// Users
		{method: http.MethodGet, path: "/api/users", roles: managers, handler: usersH.List},
		{method: http.MethodGet, path: "/api/users/:id", roles: anyRole, handler: usersH.Get},
		{method: http.MethodPost, path: "/api/users", roles: managers, handler: usersH.Create},
		{method: http.MethodPatch, path: "/api/users/:id/status", roles: managers, handler: usersH.UpdateStatus},
		{method: http.MethodPatch, path: "/api/users/:id/role", roles: adminOnly, handler: usersH.UpdateRole},
		{method: http.MethodDelete, path: "/api/users/:id", roles: adminOnly, handler: usersH.Delete},

		// Centers
		{method: http.MethodGet, path: "/api/centers", roles: anyRole, handler: centersH.List},
		{method: http.MethodGet, path: "/api/centers/:id", roles: anyRole, handler: centersH.Get},
		{method: http.MethodGet, path: "/api/centers/:id/present", roles: managers, handler: accessH.Present},
		{method: http.MethodPost, path: "/api/centers", roles: adminOnly, handler: centersH.Create},
		{method: http.MethodPut, path: "/api/centers/:id", roles: managers, handler: centersH.Update},
		{method: http.MethodDelete, path: "/api/centers/:id", roles: adminOnly, handler: centersH.Delete},
	}

	byCenter := handler.ListQuery{ByCenter: true}
	table = append(table, crud("/api/classes", handler.NewResourceHandler(svc.Classes, byCenter), anyRole, managers, managers)...)
	table = append(table, crud("/api/machines", handler.NewResourceHandler(svc.Machines, byCenter), anyRole, managers, managers)...)
	table = append(table, crud("/api/tickets", handler.NewResourceHandler(svc.Tickets, byCenter), staff, everyRole, managers)...)
	table = append(table, crud("/api/memberships", handler.NewResourceHandler(svc.Memberships, handler.ListQuery{ByCenter: true, ByOwner: true}), managers, managers, managers)...)

	byOwner := handler.ListQuery{ByOwner: true}
	table = append(table, crud("/api/workouts", handler.NewResourceHandler(svc.Workouts, byOwner), anyRole, anyRole, anyRole)...)
	table = append(table, crud("/api/diets", handler.NewResourceHandler(svc.Diets, byOwner), anyRole, anyRole, anyRole)...)

	return table
}

type crudHandler interface {
	List(c echo.Context) error
	Get(c echo.Context) error
	Create(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
}

// crud expands a resource into its five routes. read covers list and get,
// create covers POST, write covers PUT and DELETE.
func crud(base string, h crudHandler, read, create, write []domain.Role) []route {
	return []route{
		{method: http.MethodGet, path: base, roles: read, handler: h.List},
		{method: http.MethodGet, path: base + "/:id", roles: read, handler: h.Get},
		{method: http.MethodPost, path: base, roles: create, handler: h.Create},
		{method: http.MethodPut, path: base + "/:id", roles: write, handler: h.Update},
		{method: http.MethodDelete, path: base + "/:id", roles: write, handler: h.Delete},
	}
}

func metricsMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{
		Namespace: "gym",
		Subsystem: "http",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
