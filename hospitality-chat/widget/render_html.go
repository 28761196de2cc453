package widget

import (
	"html/template"
	"io"
	"time"
)

var fragments = template.Must(template.New("fragments").Parse(`
{{- define "marker"}}<div class="timestamp">{{.}}</div>
{{end}}
{{- define "server"}}<div class="message-wrapper"><div class="icon" style="background: {{.Background}}">{{.Initials}}</div><div class="role">{{.Role}}</div><li class="server-message">{{.Body}}</li></div>
{{end}}
{{- define "user"}}<div class="message-wrapper user-message-wrapper"><li class="user-message">{{.}}</li></div>
{{end}}
{{- define "open"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.}}</title>
</head>
<body>
<div id="messages-container">
<ul id="messages">
{{end}}
{{- define "close"}}</ul>
</div>
<form><input type="text" id="messageText" autocomplete="off" /></form>
</body>
</html>
{{end}}`))

// HTMLRenderer appends message list nodes as HTML fragments, using the same
// element classes as the browser widget.
type HTMLRenderer struct {
	w          io.Writer
	TimeLayout string
}

func NewHTMLRenderer(w io.Writer) *HTMLRenderer {
	return &HTMLRenderer{w: w, TimeLayout: DefaultTimeLayout}
}

func (r *HTMLRenderer) Marker(at time.Time) error {
	return fragments.ExecuteTemplate(r.w, "marker", at.Local().Format(r.TimeLayout))
}

func (r *HTMLRenderer) ServerMessage(role, initials string, g Gradient, md string) error {
	body, err := RenderMarkdown(md)
	if err != nil {
		return err
	}
	return fragments.ExecuteTemplate(r.w, "server", struct {
		Background template.CSS
		Initials   string
		Role       string
		Body       template.HTML
	}{
		// Built from hex digits only.
		Background: template.CSS(g.CSS()),
		Initials:   initials,
		Role:       role,
		Body:       template.HTML(body),
	})
}

func (r *HTMLRenderer) UserMessage(text string) error {
	return fragments.ExecuteTemplate(r.w, "user", text)
}

func (r *HTMLRenderer) Flush() error {
	if f, ok := r.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// HTMLTranscript is an HTMLRenderer that writes a complete page: the
// messages container and list on creation, the input form on Close.
type HTMLTranscript struct {
	*HTMLRenderer
	wc io.WriteCloser
}

func NewHTMLTranscript(wc io.WriteCloser, title string) (*HTMLTranscript, error) {
	if err := fragments.ExecuteTemplate(wc, "open", title); err != nil {
		return nil, err
	}
	return &HTMLTranscript{HTMLRenderer: NewHTMLRenderer(wc), wc: wc}, nil
}

func (t *HTMLTranscript) Close() error {
	if err := fragments.ExecuteTemplate(t.wc, "close", nil); err != nil {
		_ = t.wc.Close()
		return err
	}
	return t.wc.Close()
}
