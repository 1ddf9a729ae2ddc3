package server

import (
	"echowall/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateUser handles POST /api/users/. The response carries the public view
// only; the password digest is excluded at the model level.
func (s *Server) CreateUser(c *fiber.Ctx) error {
	user, err := s.createUserAccount(c)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUser handles GET /api/users/:id.
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	user, err := s.userRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(user)
}
