package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"helpdesk-console/internal/config"
	"helpdesk-console/internal/guard"
	"helpdesk-console/internal/handler"
	"helpdesk-console/internal/middleware"
	"helpdesk-console/internal/permission"
	"helpdesk-console/internal/websocket"
)

func New(
	cfg *config.Config,
	g *guard.Guard,
	hub *websocket.Hub,
	pages *handler.PageHandler,
	authHandler *handler.AuthHandler,
	menuHandler *handler.MenuHandler,
	ticketHandler *handler.TicketHandler,
	userHandler *handler.UserHandler,
	orgHandler *handler.OrgHandler,
	settingsHandler *handler.SettingsHandler,
	dashboardHandler *handler.DashboardHandler,
	auditHandler *handler.AuditHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/static/*", handler.Static())

	// Page shells. Signed-in users never see the auth pages again; every
	// console screen resolves the session fresh on each request.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, guard.DashboardPath, http.StatusFound)
	})
	r.With(g.RedirectAuthenticated).Get(guard.LoginPath, pages.Login)
	r.With(g.RequirePage).Get(guard.DashboardPath, pages.Section(permission.ModuleDashboard, "Dashboard"))
	r.With(g.RequirePage).Get("/tickets", pages.Section(permission.ModuleTickets, "Tickets"))
	r.With(g.RequirePage).Get("/users", pages.Section(permission.ModuleUsers, "Users"))
	r.With(g.RequirePage).Get("/departments", pages.Section(permission.ModuleDepartments, "Departments"))
	r.With(g.RequirePage).Get("/roles", pages.Section(permission.ModuleRoles, "Roles"))
	r.With(g.RequirePage).Get("/settings", pages.Section(permission.ModuleSettings, "Settings"))
	r.With(g.RequirePage).Get("/reports", pages.Section(permission.ModuleReports, "Reports"))

	r.With(g.RequirePage).Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWS(hub, w, r)
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", authHandler.Login)
			auth.With(g.RequireAPI).Post("/logout", authHandler.Logout)
			auth.With(g.RequireAPI).Get("/me", authHandler.Me)
			auth.With(g.RequireAPI).Post("/refresh", authHandler.Refresh)
			auth.With(g.RequireAPI).Post("/password", authHandler.ChangePassword)
		})

		api.Group(func(private chi.Router) {
			private.Use(g.RequireAPI)

			private.Get("/menu", menuHandler.Menu)
			private.Get("/menu/{module}/allowances", menuHandler.Allowances)

			private.Route("/tickets", func(t chi.Router) {
				t.Get("/", ticketHandler.List)
				t.Post("/", ticketHandler.Create)
				t.Get("/{id}", ticketHandler.Get)
				t.Put("/{id}", ticketHandler.Update)
				t.Delete("/{id}", ticketHandler.Delete)
				t.Put("/{id}/status", ticketHandler.ChangeStatus)
				t.Put("/{id}/priority", ticketHandler.ChangePriority)
				t.Put("/{id}/assignee", ticketHandler.Assign)
				t.Get("/{id}/comments", ticketHandler.Comments)
				t.Post("/{id}/comments", ticketHandler.AddComment)
				t.Get("/{id}/attachments", ticketHandler.Attachments)
				t.Post("/{id}/attachments", ticketHandler.UploadAttachment)
				t.Get("/{id}/attachments/{attachment_id}", ticketHandler.DownloadAttachment)
				t.Get("/{id}/attachments/{attachment_id}/preview", ticketHandler.PreviewAttachment)
			})

			private.Route("/users", func(u chi.Router) {
				u.Get("/", userHandler.List)
				u.Post("/", userHandler.Create)
				u.Get("/{id}", userHandler.Get)
				u.Put("/{id}", userHandler.Update)
				u.Delete("/{id}", userHandler.Delete)
				u.Put("/{id}/active", userHandler.SetActive)
				u.Put("/{id}/role", userHandler.AssignRole)
			})

			private.Route("/departments", func(d chi.Router) {
				d.Get("/", orgHandler.ListDepartments)
				d.Post("/", orgHandler.CreateDepartment)
				d.Put("/{id}", orgHandler.UpdateDepartment)
				d.Delete("/{id}", orgHandler.DeleteDepartment)
			})

			private.Route("/roles", func(ro chi.Router) {
				ro.Get("/", orgHandler.ListRoles)
				ro.Post("/", orgHandler.CreateRole)
				ro.Put("/{id}", orgHandler.UpdateRole)
				ro.Delete("/{id}", orgHandler.DeleteRole)
			})

			private.Route("/settings", func(s chi.Router) {
				s.Get("/categories", settingsHandler.ListCategories)
				s.Post("/categories", settingsHandler.SaveCategory)
				s.Delete("/categories/{id}", settingsHandler.DeleteCategory)
				s.Get("/priorities", settingsHandler.ListPriorities)
				s.Post("/priorities", settingsHandler.SavePriority)
				s.Delete("/priorities/{id}", settingsHandler.DeletePriority)
				s.Get("/statuses", settingsHandler.ListStatuses)
				s.Post("/statuses", settingsHandler.SaveStatus)
				s.Delete("/statuses/{id}", settingsHandler.DeleteStatus)
				s.Get("/sla", settingsHandler.ListSLAPolicies)
				s.Post("/sla", settingsHandler.SaveSLAPolicy)
				s.Delete("/sla/{id}", settingsHandler.DeleteSLAPolicy)
			})

			private.Route("/dashboard", func(d chi.Router) {
				d.Get("/summary", dashboardHandler.Summary)
				d.Get("/trends/seven-day", dashboardHandler.SevenDayTrend)
				d.Get("/tickets-by-status", dashboardHandler.TicketsByStatus)
				d.Get("/tickets-by-priority", dashboardHandler.TicketsByPriority)
			})

			private.Get("/reports/tickets", dashboardHandler.TicketReport)
			private.Get("/audit", auditHandler.List)
		})
	})

	return r
}
