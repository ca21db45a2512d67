package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"helpdesk-console/internal/guard"
	"helpdesk-console/internal/model"
)

// PageHandler renders the two server-side shells: the login page and the
// console shell. Everything inside the shell talks to /api/v1 from the
// browser; the shell itself only needs the menu the user may see.
type PageHandler struct {
	login *template.Template
	shell *template.Template
}

func NewPageHandler() *PageHandler {
	return &PageHandler{
		login: template.Must(template.New("login").Parse(loginPage)),
		shell: template.Must(template.New("shell").Parse(shellPage)),
	}
}

func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.login.Execute(w, nil); err != nil {
		slog.Error("render login page", "error", err)
	}
}

type shellData struct {
	Title   string
	Section string
	User    *model.UserProfile
	Menu    []guard.MenuEntry
}

func (h *PageHandler) Section(section string, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, _ := guard.ProfileFromContext(r.Context())
		data := shellData{
			Title:   title,
			Section: section,
			User:    profile,
			Menu:    guard.Menu(guard.EvaluatorFromContext(r.Context())),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := h.shell.Execute(w, data); err != nil {
			slog.Error("render console shell", "error", err, "section", section)
		}
	}
}

const loginPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Sign in - Helpdesk Console</title>
<link rel="stylesheet" href="/static/console.css">
</head>
<body class="login">
<main>
<h1>Helpdesk Console</h1>
<form id="login-form" method="post" action="/api/v1/auth/login">
<label>Email <input type="email" name="email" autocomplete="username" required></label>
<label>Password <input type="password" name="password" autocomplete="current-password" required></label>
<button type="submit">Sign in</button>
</form>
<div id="toast" hidden></div>
<script src="/static/console.js"></script>
</main>
</body>
</html>`

const shellPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} - Helpdesk Console</title>
<link rel="stylesheet" href="/static/console.css">
</head>
<body data-section="{{.Section}}">
<header>
<span class="brand">Helpdesk Console</span>
{{if .User}}<span class="who">{{.User.FullName}} ({{.User.RoleName}})</span>{{end}}
<form method="post" action="/api/v1/auth/logout"><button type="submit">Sign out</button></form>
</header>
<nav>
<ul>
{{range .Menu}}<li{{if eq .Module $.Section}} class="active"{{end}}><a href="{{.Path}}">{{.Title}}</a></li>
{{end}}</ul>
</nav>
<main id="content"></main>
<div id="loader" hidden></div>
<div id="toast" hidden></div>
<script src="/static/console.js"></script>
</body>
</html>`
