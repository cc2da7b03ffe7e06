package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetAdminStats returns the dashboard counters.
func (s *Server) GetAdminStats(c *fiber.Ctx) error {
	stats, err := s.moderation.Stats(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}
