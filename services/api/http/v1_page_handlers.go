package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gonum.org/v1/plot/vg"

	"github.com/pandemic-stats/covid-dashboard/services/api/present"
)

// maxImageInches caps the requested chart size.
const maxImageInches = 40

// handleV1Menu lists the dashboard pages in menu order
// GET /api/v1/pages
func (s *Server) handleV1Menu(c *gin.Context) {
	menu := s.router.Menu()
	c.JSON(http.StatusOK, gin.H{
		"data": menu,
		"meta": gin.H{
			"count": len(menu),
		},
	})
}

// handleV1RenderPage renders one page for the selected country
// GET /api/v1/pages/:page?country=
func (s *Server) handleV1RenderPage(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	view, err := s.router.Render(ctx, c.Param("page"), c.Query("country"))
	if err != nil {
		fail(c, err)
		return
	}

	meta := gin.H{
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"charts_count": len(view.Charts),
	}
	if view.LatestDate != nil {
		meta["latest_date"] = view.LatestDate.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, gin.H{
		"data": view,
		"meta": meta,
	})
}

// handleV1Countries lists the country selector options of a page
// GET /api/v1/pages/:page/countries
func (s *Server) handleV1Countries(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	countries, err := s.router.Countries(ctx, c.Param("page"))
	if err != nil {
		fail(c, err)
		return
	}
	if countries == nil {
		countries = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": countries,
		"meta": gin.H{
			"count": len(countries),
		},
	})
}

// handleV1ChartImage draws one chart of a page as a PNG
// GET /api/v1/pages/:page/charts/:chart?country=&width=&height=
func (s *Server) handleV1ChartImage(c *gin.Context) {
	width, ok := imageSize(c, "width", present.DefaultWidth)
	if !ok {
		return
	}
	height, ok := imageSize(c, "height", present.DefaultHeight)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	view, err := s.router.Render(ctx, c.Param("page"), c.Query("country"))
	if err != nil {
		fail(c, err)
		return
	}

	chartID := strings.TrimSuffix(c.Param("chart"), ".png")
	chart, found := view.Chart(chartID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "chart not found"})
		return
	}

	var buf bytes.Buffer
	if err := present.RenderPNG(chart, &buf, width, height); err != nil {
		if errors.Is(err, present.ErrNotRenderable) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		fail(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// imageSize reads an image dimension in inches from the query.
func imageSize(c *gin.Context, key string, def vg.Length) (vg.Length, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	inches, err := strconv.ParseFloat(raw, 64)
	if err != nil || inches <= 0 || inches > maxImageInches {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return 0, false
	}
	return vg.Length(inches) * vg.Inch, true
}
