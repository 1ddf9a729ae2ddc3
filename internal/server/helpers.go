package server

import (
	"strconv"

	"echowall/internal/models"

	"github.com/gofiber/fiber/v2"
)

type pagination struct {
	Limit  int
	Skip   int
	Search string
}

// parseListParams reads limit/skip/search query parameters with the documented
// defaults (limit 10 capped at 100, skip 0, search empty = match all).
func parseListParams(c *fiber.Ctx) pagination {
	p := pagination{
		Limit:  c.QueryInt("limit", 10),
		Skip:   c.QueryInt("skip", 0),
		Search: c.Query("search"),
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
	return p
}

// parseIDParam parses the ":id" route parameter as a uint.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + name + " parameter")
	}
	return uint(id), nil
}

// resolveCaller loads the authenticated user's row. AuthRequired guarantees
// the userID local; a token whose user row no longer exists is treated as an
// invalid token, not as a missing resource.
func (s *Server) resolveCaller(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		if appErr, isApp := err.(*models.AppError); isApp && appErr.Code == "NOT_FOUND" {
			return nil, models.NewUnauthorizedError("Token user no longer exists")
		}
		return nil, err
	}
	return user, nil
}
