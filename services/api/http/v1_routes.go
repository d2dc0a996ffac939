package http

// registerV1Routes sets up the v1 API
// Groups: /api/v1/pages, /api/v1/sources
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware()) // Add X-API-Version: v1 header

	// Page endpoints - menu, rendered views and chart images
	pg := v1.Group("/pages")
	{
		pg.GET("", s.handleV1Menu)
		pg.GET("/:page", s.handleV1RenderPage)
		pg.GET("/:page/countries", s.handleV1Countries)
		pg.GET("/:page/charts/:chart", s.handleV1ChartImage)
	}

	// Source endpoints - configured datasets and the remote cache
	src := v1.Group("/sources")
	{
		src.GET("", s.handleV1Sources)

		refresh := src.Group("/refresh")
		if s.cfg.BearerToken != "" {
			refresh.Use(bearerAuthMiddleware(s.cfg.BearerToken))
		}
		refresh.POST("", s.handleV1RefreshSources)
	}
}
