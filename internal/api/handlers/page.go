package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

const pageTitle = "Face Detection App"

type pageData struct {
	Title    string
	Version  string
	Backend  string
	Defaults DefaultsResponse
}

// @Summary Web UI
// @Description Single page face detection tool
// @Tags ui
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router / [get]
func (h *FaceHandler) Page(c *gin.Context) {
	c.Render(http.StatusOK, render.HTML{
		Template: pageTemplate,
		Name:     "index.html",
		Data: pageData{
			Title:    pageTitle,
			Version:  h.cfg.Version,
			Backend:  h.pipeline.DetectorName(),
			Defaults: h.defaults(),
		},
	})
}
