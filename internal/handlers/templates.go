package handlers

import (
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"forumweb/internal/models"
	"forumweb/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

// pages lists every view the handlers render, relative to views/.
var pages = []string{
	"home.html",
	"error.html",
	"search.html",
	"auth/login.html",
	"auth/register.html",
	"topic/list.html",
	"topic/detail.html",
	"topic/new.html",
	"topic/edit.html",
	"user/profile.html",
}

// FuncMap is shared by every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...any) (map[string]any, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo": func(t time.Time) string {
			return utils.TimeAgo(t, time.Now())
		},
		"memberSince":   utils.MemberSince,
		"markdown":      utils.RenderMarkdown,
		"categoryLabel": models.Category.Label,
	}
}

// LoadTemplates pairs every view with the layouts and includes, so views can
// share block names without colliding.
func LoadTemplates(templatesDir string) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(filepath.Join(templatesDir, "layouts", "*.html"))
	if err != nil {
		return nil, err
	}
	includes, err := filepath.Glob(filepath.Join(templatesDir, "includes", "*.html"))
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layouts found in %s", templatesDir)
	}

	funcMap := FuncMap()
	for _, name := range pages {
		files := make([]string, 0, len(layouts)+len(includes)+1)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, filepath.Join(templatesDir, "views", filepath.FromSlash(name)))
		r.AddFromFilesFuncs(name, funcMap, files...)
	}
	return r, nil
}
