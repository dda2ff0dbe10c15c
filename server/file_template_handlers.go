package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"time"
)

//go:embed templates/*
var templateFiles embed.FS

const (
	layoutTemplate  = "admin_layout.html"
	loadingTemplate = "loading.html"
	pagerPartial    = "partial_pager.html"
)

// standalone pages are rendered without the admin layout
var standaloneTemplates = []string{"index.html", "login.html", loadingTemplate, layoutTemplate}

// content templates are rendered into the admin layout
var contentTemplates = []string{
	"admin_dashboard_content.html",
	"admin_users_content.html",
	"admin_articles_content.html",
	"admin_categories_content.html",
	"admin_notfound_content.html",
	"admin_article_form_content.html",
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("Jan 2, 2006")
	},
}

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a template, plus any partials it uses, from the embedded filesystem
func ParseTemplate(name string, partials ...string) (*template.Template, error) {
	files := append([]string{name}, partials...)
	return template.New(name).Funcs(templateFuncs).ParseFS(TemplateFilesFS(), files...)
}

func loadTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(standaloneTemplates)+len(contentTemplates))
	for _, name := range standaloneTemplates {
		tmpl, err := ParseTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	for _, name := range contentTemplates {
		tmpl, err := ParseTemplate(name, pagerPartial)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}
