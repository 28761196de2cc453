package main

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

// staticHandler serves the widget script under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// serveIndex renders the chat page. The session comes from ?session= and
// falls back to the default test session.
func serveIndex(w http.ResponseWriter, r *http.Request) {
	session := r.URL.Query().Get("session")
	if session == "" {
		session = defaultSession
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTmpl.Execute(w, struct{ Session string }{Session: session})
}

var indexTmpl = template.Must(template.New("chat").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Hotel Assistant</title>
  <style>
    :root{
      --bg: #f5f5f7;
      --panel: #ffffff;
      --border: #e5e7eb;
      --fg: #111827;
      --muted: #6b7280;
      --accent: #2563eb;
    }
    *{ box-sizing: border-box }
    body { margin:0; padding:24px; background:var(--bg); color:var(--fg); font-family: ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial }
    .wrap { max-width: 760px; margin: 0 auto }
    h1 { margin:0 0 12px; font-weight:700 }
    #messages-container { height: 70vh; overflow-y: auto; background: var(--panel); border: 1px solid var(--border); border-radius: 12px; padding: 16px }
    #messages { list-style: none; margin: 0; padding: 0 }
    .timestamp { text-align: center; color: var(--muted); font-size: 12px; margin: 12px 0 }
    .message-wrapper { display: grid; grid-template-columns: 36px 1fr; column-gap: 8px; margin: 8px 0 }
    .icon { grid-row: span 2; width: 36px; height: 36px; border-radius: 50%; color: #fff; display: flex; align-items: center; justify-content: center; font-weight: 700; font-size: 14px }
    .role { font-size: 12px; color: var(--muted) }
    .server-message { background: var(--bg); border-radius: 12px; padding: 8px 12px; overflow-x: auto }
    .user-message-wrapper { display: flex; justify-content: flex-end }
    .user-message { background: var(--accent); color: #fff; border-radius: 12px; padding: 8px 12px; max-width: 80%; white-space: pre-wrap }
    form { display: flex; gap: 8px; margin-top: 12px }
    #messageText { flex: 1; padding: 10px 12px; border: 1px solid var(--border); border-radius: 8px; font-size: 15px }
    button { padding: 10px 16px; border: 0; border-radius: 8px; background: var(--accent); color: #fff; font-weight: 600; cursor: pointer }
  </style>
  <script src="https://cdn.jsdelivr.net/npm/markdown-it@14/dist/markdown-it.min.js"></script>
</head>
<body data-session="{{.Session}}">
  <div class="wrap">
    <h1>Hotel Assistant</h1>
    <div id="messages-container">
      <ul id="messages"></ul>
    </div>
    <form id="chat-form" action="">
      <input type="text" id="messageText" autocomplete="off" placeholder="Ask about hotels, rooms or prices" />
      <button type="submit">Send</button>
    </form>
  </div>
  <script src="/static/scripts.js"></script>
</body>
</html>
`))
