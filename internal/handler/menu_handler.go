package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"helpdesk-console/internal/guard"
)

// MenuHandler serves the navigation shell: which sections the signed-in
// user may see and which actions each section allows.
type MenuHandler struct{}

func NewMenuHandler() *MenuHandler {
	return &MenuHandler{}
}

func (h *MenuHandler) Menu(w http.ResponseWriter, r *http.Request) {
	ev := guard.EvaluatorFromContext(r.Context())
	writeSuccess(w, http.StatusOK, guard.Menu(ev), nil)
}

func (h *MenuHandler) Allowances(w http.ResponseWriter, r *http.Request) {
	module := chi.URLParam(r, "module")
	if module == "" {
		badRequest(w, "module is required", "module")
		return
	}

	ev := guard.EvaluatorFromContext(r.Context())
	writeSuccess(w, http.StatusOK, guard.Allowances(ev, module), nil)
}
