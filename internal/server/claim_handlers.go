package server

import (
	"reclaim/internal/models"
	"reclaim/internal/service"
	"reclaim/internal/spam"

	"github.com/gofiber/fiber/v2"
)

// claimView decorates a claim with its presentation-only risk band.
type claimView struct {
	models.Claim
	RiskBand spam.Band `json:"risk_band"`
}

func claimViews(claims []models.Claim) []claimView {
	out := make([]claimView, 0, len(claims))
	for _, claim := range claims {
		out = append(out, claimView{Claim: claim, RiskBand: spam.RiskBand(claim.SpamScore)})
	}
	return out
}

// SubmitClaim scores a draft ownership claim and enqueues it as pending.
func (s *Server) SubmitClaim(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var in service.CreateClaimInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	claim, err := s.moderation.CreateClaim(ctx, in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(claimView{Claim: *claim, RiskBand: spam.RiskBand(claim.SpamScore)})
}

// GetAdminClaims returns the claim moderation queue, filtered and paginated.
func (s *Server) GetAdminClaims(c *fiber.Ctx) error {
	ctx := c.UserContext()

	claims, err := s.moderation.ListClaims(ctx, parseFilterQuery(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	p := parsePagination(c, defaultListLimit)
	total := len(claims)

	return c.JSON(fiber.Map{
		"data":   claimViews(paginate(claims, p)),
		"total":  total,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// TransitionClaim applies an approve/reject action to a pending claim.
func (s *Server) TransitionClaim(c *fiber.Ctx) error {
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

	claim, err := s.moderation.TransitionClaim(ctx, id, req.Action)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(claimView{Claim: *claim, RiskBand: spam.RiskBand(claim.SpamScore)})
}
