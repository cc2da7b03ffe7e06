package server

import (
	"reclaim/internal/models"
	"reclaim/internal/service"
	"reclaim/internal/spam"

	"github.com/gofiber/fiber/v2"
)

// userView decorates an account with its presentation-only risk band.
type userView struct {
	models.User
	RiskBand spam.Band `json:"risk_band"`
}

func userViews(users []models.User) []userView {
	out := make([]userView, 0, len(users))
	for _, user := range users {
		out = append(out, userView{User: user, RiskBand: spam.RiskBand(user.SpamScore)})
	}
	return out
}

// RegisterUser records an account as a moderation subject. The identity
// provider calls this on first authentication.
func (s *Server) RegisterUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var in service.CreateUserInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.moderation.CreateUser(ctx, in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(userView{User: *user, RiskBand: spam.RiskBand(user.SpamScore)})
}

// GetAdminUsers returns the account moderation queue, filtered and paginated.
func (s *Server) GetAdminUsers(c *fiber.Ctx) error {
	ctx := c.UserContext()

	users, err := s.moderation.ListUsers(ctx, parseFilterQuery(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	p := parsePagination(c, defaultListLimit)
	total := len(users)

	return c.JSON(fiber.Map{
		"data":   userViews(paginate(users, p)),
		"total":  total,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// TransitionUser applies a suspend/activate action to an account.
func (s *Server) TransitionUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseStringID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.moderation.TransitionUser(ctx, id, req.Action)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(userView{User: *user, RiskBand: spam.RiskBand(user.SpamScore)})
}
