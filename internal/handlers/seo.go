package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"forumweb/internal/config"
	"forumweb/internal/middleware"
	"forumweb/internal/utils"
	"forumweb/internal/view"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sitemapLimit = 500

type SEOHandler struct{}

func NewSEOHandler() *SEOHandler {
	return &SEOHandler{}
}

// RobotsTxt keeps crawlers away from account pages and forms.
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

Disallow: /auth/
Disallow: /profile
Disallow: /topics/new
Disallow: /replies/

Sitemap: %s/sitemap.xml
Crawl-delay: 1
`, config.Get().SiteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapXML lists the fixed pages and the most recent topics.
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	siteURL := config.Get().SiteURL
	now := time.Now()
	today := now.Format("2006-01-02")

	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: siteURL + "/", LastMod: today, ChangeFreq: "daily", Priority: "1.0"},
			{Loc: siteURL + "/topics", LastMod: today, ChangeFreq: "hourly", Priority: "0.9"},
			{Loc: siteURL + "/search", LastMod: today, ChangeFreq: "weekly", Priority: "0.5"},
		},
	}

	topics, err := middleware.Forum(c).Topics.ListTopics(c.Request.Context())
	if err != nil {
		// the fixed pages are still worth serving
		utils.Logger.Warn("sitemap: list topics", zap.Error(err))
	}
	for i, t := range topics {
		if i == sitemapLimit {
			break
		}
		// newer topics change more often
		age := now.Sub(t.UpdatedAt)
		freq, prio := "weekly", "0.6"
		switch {
		case age < 7*24*time.Hour:
			freq, prio = "daily", "0.8"
		case age < 30*24*time.Hour:
			prio = "0.7"
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        siteURL + view.TopicPath(t.ID),
			LastMod:    t.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: freq,
			Priority:   prio,
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}
