package api

import (
	"facelens-go/internal/api/middleware"
)

// multipartOverhead leaves room for boundaries and the form fields next to
// the file part.
const multipartOverhead = 1 << 20

func (s *Server) setupMiddleware() {
	s.router.MaxMultipartMemory = s.config.MaxUploadBytes

	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestContext())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.BodyLimit(s.config.MaxUploadBytes + multipartOverhead))
}
