package template

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/ghaggin/eduarchive/internal/model"
)

//go:embed tmpl/*.html
var files embed.FS

const (
	templateDir string = "tmpl"
)

type Data struct {
	PageTitle string
	User      *model.Session
	IsAdmin   bool
	Premium   bool
	Error     string
}

// NewData fills the session-derived fields. s may be nil.
func NewData(title string, s *model.Session) *Data {
	return &Data{
		PageTitle: title,
		User:      s,
		IsAdmin:   model.IsAdmin(s),
		Premium:   model.HasPremiumAccess(s),
	}
}

// Render executes tmpl inside the shared layout and writes it with status.
func Render(w http.ResponseWriter, status int, tmpl string, td any) error {
	t, err := template.ParseFS(files,
		templateDir+"/"+tmpl,
		templateDir+"/"+"base.html",
	)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}

	err = t.Execute(buf, td)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
