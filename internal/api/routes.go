package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.WorkerInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)

	s.router.GET("/zone", s.pipelineHandler.GetZone)
	s.router.GET("/status", s.pipelineHandler.GetStatus)
	s.router.GET("/results/latest", s.pipelineHandler.GetLatestResult)
	s.router.GET("/stream", s.streamHandler.Stream)

	system := s.router.Group("/system")
	{
		system.GET("/stats", s.systemHandler.GetStats)
	}
}
