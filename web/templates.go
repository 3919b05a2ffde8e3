package web

import (
	"html/template"
	"strings"
	"time"

	"github.com/amonks/todolist/media"
)

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"eq":         func(a, b string) bool { return a == b },
		"formatTime": formatTime,
		"mediaURL":   mediaURL,
		"isImage":    func(a media.Attachment) bool { return a.Kind() == media.KindImage },
		"isVideo":    func(a media.Attachment) bool { return a.Kind() == media.KindVideo },
	}
	return template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("2006-01-02 15:04:05")
}

// mediaURL marks an attachment's data URI as safe for src attributes.
// html/template rejects data URIs otherwise. Anything that is not a
// base64 data URI of the attachment's own accepted type is dropped.
func mediaURL(a media.Attachment) template.URL {
	if a.Kind() == media.KindUnknown {
		return ""
	}
	if !strings.HasPrefix(a.URI, "data:"+a.MIMEType+";base64,") {
		return ""
	}
	return template.URL(a.URI)
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>My Todo List</title>
  <style>
    .theme {
      --bg: #fcfaf6;
      --fg: #2b2520;
      --muted: #72685f;
      --pane: #ffffff;
      --border: #d7cdbd;
      --accent: #efe6d7;
      --danger: #f4d7d2;
      --font: "Charter", "Georgia", serif;
      --radius: 14px;
      min-height: 100vh;
      margin: 0;
      font-family: var(--font);
      color: var(--fg);
      background: var(--bg);
    }
    .theme.minimalist { --bg: #ffffff; --border: #e6e6e6; --accent: #f5f5f5; --font: "Helvetica Neue", "Arial", sans-serif; --radius: 2px; }
    .theme.playful { --bg: #fff4fb; --fg: #3a1d4a; --border: #f3b6dd; --accent: #ffe28a; --danger: #ffb3b3; --font: "Comic Sans MS", "Chalkboard SE", cursive; --radius: 22px; }
    .theme.productivity { --bg: #f4f6f8; --fg: #1f2933; --border: #cbd2d9; --accent: #e4e7eb; --font: "Inter", "Segoe UI", sans-serif; --radius: 8px; }
    .theme.productivity-blue { --bg: #eef4ff; --fg: #102a43; --border: #9fb3c8; --accent: #d9e8ff; --font: "Inter", "Segoe UI", sans-serif; --radius: 8px; }
    .theme.productivity-kanban { --bg: #f0f2f5; --fg: #172b4d; --border: #dfe1e6; --accent: #ebecf0; --font: "Inter", "Segoe UI", sans-serif; --radius: 4px; }
    .theme.productivity-analytics { --bg: #f7f9fc; --fg: #1a202c; --border: #a0aec0; --accent: #e2e8f0; --font: "Roboto Mono", "Menlo", monospace; --radius: 6px; }
    .theme.productivity-minimal { --bg: #fafafa; --fg: #222222; --border: #eeeeee; --accent: #f2f2f2; --font: "Inter", "Segoe UI", sans-serif; --radius: 0; }
    .theme.productivity-team { --bg: #f3f7f4; --fg: #1b3a2b; --border: #b7d3c0; --accent: #dcefe2; --font: "Inter", "Segoe UI", sans-serif; --radius: 10px; }
    .theme.dark-mode { --bg: #1e1e1e; --fg: #eeeeee; --muted: #a0a0a0; --pane: #2a2a2a; --border: #444444; --accent: #333333; --danger: #5a2a2a; color-scheme: dark; }
    header, main { max-width: 760px; margin: 0 auto; padding: 16px 24px; }
    .controls { display: flex; justify-content: flex-end; gap: 10px; }
    .pane { background: var(--pane); border: 1px solid var(--border); border-radius: var(--radius); padding: 16px; margin-bottom: 18px; }
    .field { display: flex; flex-direction: column; gap: 6px; margin-bottom: 12px; }
    input[type="text"], select, textarea {
      width: 100%; padding: 8px 10px; border-radius: 8px; border: 1px solid var(--border);
      font-family: inherit; font-size: 14px; background: var(--pane); color: var(--fg); box-sizing: border-box;
    }
    textarea { min-height: 80px; resize: vertical; }
    button { padding: 6px 12px; border-radius: 8px; border: 1px solid var(--border); background: var(--accent); color: var(--fg); font-family: inherit; cursor: pointer; }
    button.danger { background: var(--danger); }
    .actions { display: flex; flex-wrap: wrap; gap: 10px; align-items: center; }
    .todo-list { list-style: none; padding: 0; margin: 0; display: flex; flex-direction: column; gap: 10px; }
    .todo-item { border-bottom: 1px solid var(--border); padding-bottom: 10px; }
    .todo-row { display: flex; align-items: center; gap: 10px; }
    .todo-text { flex: 1; }
    .todo-text.completed { text-decoration: line-through; color: var(--muted); }
    .todo-id { font-family: "Menlo", "Consolas", monospace; font-size: 12px; color: var(--muted); }
    .todo-id b { color: var(--fg); }
    .description { white-space: pre-wrap; color: var(--muted); margin: 6px 0; }
    .media { display: flex; flex-wrap: wrap; gap: 8px; margin: 8px 0; }
    .media figure { margin: 0; display: flex; flex-direction: column; gap: 4px; }
    .media img, .media video, .preview img { max-width: 180px; max-height: 140px; border-radius: 6px; }
    .error { padding: 10px 12px; border-radius: 8px; background: var(--danger); margin-bottom: 12px; }
    .muted, .empty-message { color: var(--muted); }
  </style>
</head>
<body class="theme {{.Theme}}{{if .DarkMode}} dark-mode{{end}}">
  <header>
    <form class="controls" method="post" action="/web/prefs">
      <button type="submit" name="dark" value="{{if .DarkMode}}0{{else}}1{{end}}">{{if .DarkMode}}Light{{else}}Dark{{end}}</button>
      <select name="theme" aria-label="Theme">
        {{range .Themes}}
          <option value="{{.Value}}" {{if eq .Value $.Theme}}selected{{end}}>{{.Label}}</option>
        {{end}}
      </select>
      <button type="submit">Apply</button>
    </form>
    <h1>My Todo List</h1>
  </header>
  <main>
    {{range .Errors}}<div class="error">{{.}}</div>{{end}}
    <section class="pane add-todo-section">
      <form method="post" action="/web/todos/create" enctype="multipart/form-data">
        <div class="field">
          <label for="todo-title">Title</label>
          <input id="todo-title" type="text" name="title" value="{{.Draft.Title}}" placeholder="What do you need to do?">
        </div>
        <div class="field">
          <label for="todo-description">Description</label>
          <textarea id="todo-description" name="description">{{.Draft.Description}}</textarea>
        </div>
        {{with .Draft.PendingImage}}
          <div class="preview"><img src="{{mediaURL .}}" alt="Staged image"></div>
        {{end}}
        <div class="field">
          <label for="todo-image">Image</label>
          <input id="todo-image" type="file" name="image" accept="{{.ImageAccept}}">
        </div>
        <div class="actions">
          <button type="submit">Add Todo</button>
          <button type="submit" formaction="/web/draft/image">Stage image</button>
          <button type="submit" formaction="/web/draft" formenctype="application/x-www-form-urlencoded">Save draft</button>
        </div>
      </form>
      {{if .Draft.PendingImage}}
        <form method="post" action="/web/draft/image/clear">
          <button class="danger" type="submit">Clear image</button>
        </form>
      {{end}}
    </section>
    <section class="pane todos-list">
      {{if .Todos}}
        <p class="muted">{{.Remaining}} remaining</p>
      {{end}}
      <ul class="todo-list">
        {{range .Todos}}
          <li class="todo-item">
            <div class="todo-row">
              <form method="post" action="/web/todos/{{.ID}}/toggle">
                <button type="submit" aria-label="Toggle">{{if .Completed}}&#x2611;{{else}}&#x2610;{{end}}</button>
              </form>
              <span class="todo-text {{if .Completed}}completed{{end}}">{{.Title}}</span>
              <span class="todo-id" title="{{formatTime .CreatedAt}}"><b>{{.IDPrefix}}</b>{{.IDRest}}</span>
              <form method="post" action="/web/todos/{{.ID}}/delete">
                <button class="danger delete-button" type="submit">Delete</button>
              </form>
            </div>
            {{if .Description}}<p class="description">{{.Description}}</p>{{end}}
            {{if .Media}}
              <div class="media">
                {{$id := .ID}}
                {{range $index, $attachment := .Media}}
                  <figure>
                    {{if isImage $attachment}}
                      <img src="{{mediaURL $attachment}}" alt="Attachment {{$index}}">
                    {{else if isVideo $attachment}}
                      <video src="{{mediaURL $attachment}}" controls></video>
                    {{end}}
                    <form method="post" action="/web/todos/{{$id}}/media/{{$index}}/delete">
                      <button class="danger" type="submit">Remove</button>
                    </form>
                  </figure>
                {{end}}
              </div>
            {{end}}
            <form class="actions" method="post" action="/web/todos/{{.ID}}/media" enctype="multipart/form-data">
              <input type="file" name="files" multiple accept="{{$.Accept}}">
              <button type="submit">Attach</button>
            </form>
          </li>
        {{else}}
          <li class="empty-message">No todos yet! Add one above.</li>
        {{end}}
      </ul>
    </section>
  </main>
</body>
</html>
`
