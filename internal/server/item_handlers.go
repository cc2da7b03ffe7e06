package server

import (
	"reclaim/internal/models"
	"reclaim/internal/service"
	"reclaim/internal/spam"

	"github.com/gofiber/fiber/v2"
)

// itemView decorates an item with its presentation-only risk band.
type itemView struct {
	models.Item
	RiskBand spam.Band `json:"risk_band"`
}

func itemViews(items []models.Item) []itemView {
	out := make([]itemView, 0, len(items))
	for _, item := range items {
		out = append(out, itemView{Item: item, RiskBand: spam.RiskBand(item.SpamScore)})
	}
	return out
}

// SubmitItem scores a draft listing and enqueues it as pending.
func (s *Server) SubmitItem(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var in service.CreateItemInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.moderation.CreateItem(ctx, in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(itemView{Item: *item, RiskBand: spam.RiskBand(item.SpamScore)})
}

// GetAdminItems returns the item moderation queue, filtered and paginated.
func (s *Server) GetAdminItems(c *fiber.Ctx) error {
	ctx := c.UserContext()

	items, err := s.moderation.ListItems(ctx, parseFilterQuery(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	p := parsePagination(c, defaultListLimit)
	total := len(items)

	return c.JSON(fiber.Map{
		"data":   itemViews(paginate(items, p)),
		"total":  total,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// TransitionItem applies an approve/reject action to a pending item.
func (s *Server) TransitionItem(c *fiber.Ctx) error {
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

	item, err := s.moderation.TransitionItem(ctx, id, req.Action)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(itemView{Item: *item, RiskBand: spam.RiskBand(item.SpamScore)})
}
