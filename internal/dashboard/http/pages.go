package http

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/rankwise/dashboard/pkg/session"
)

// PagesHandler serves the application shell behind the route guard. The
// shell embeds the current session snapshot so the first paint doesn't need
// a round trip to /api/auth/session.
type PagesHandler struct {
	Session *session.Store
}

var shellTemplate = template.Must(template.New("shell").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>RankWise</title>
<script id="session-state" type="application/json">{{.SessionJSON}}</script>
<script type="module" src="/assets/app.js"></script>
</head>
<body>
<div id="root"></div>
</body>
</html>
`))

type shellData struct {
	SessionJSON template.JS
}

// snapshotJSON marshals a snapshot for embedding in the shell. encoding/json
// escapes angle brackets, so the payload can't break out of its script tag.
func snapshotJSON(snap session.Snapshot) (template.JS, error) {
	b, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

func (h *PagesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snap := h.Session.Snapshot()
	data, err := snapshotJSON(snap)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = shellTemplate.Execute(w, shellData{SessionJSON: data})
}
