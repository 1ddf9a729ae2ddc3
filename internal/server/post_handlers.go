package server

import (
	"echowall/internal/models"
	"echowall/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published *bool  `json:"published"`
}

// ListPosts handles GET /api/posts/. Supports limit/skip pagination and
// substring search on title; every row carries its live vote count.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	p := parseListParams(c)

	posts, err := s.postRepo.List(c.UserContext(), p.Limit, p.Skip, p.Search)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(posts)
}

// GetLatestPost handles GET /api/posts/latest. An empty table answers with
// JSON null, not an error.
func (s *Server) GetLatestPost(c *fiber.Ctx) error {
	post, err := s.postRepo.Latest(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if post == nil {
		return c.JSON(nil)
	}
	return c.JSON(post)
}

// GetPost handles GET /api/posts/:id.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	post, err := s.postRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(post)
}

// CreatePost handles POST /api/posts/. Requires a resolved caller; the new
// post is owned by them. Store failures surface through the error taxonomy
// with real error statuses.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	caller, err := s.resolveCaller(c)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidatePostInput(req.Title, req.Content); err != nil {
		verr := models.NewValidationError(err.Error())
		return models.RespondWithError(c, models.StatusForError(verr), verr)
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	post := &models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Published: published,
		OwnerID:   caller.ID,
	}
	if err := s.postRepo.Create(c.UserContext(), post); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id. Full replacement of title, content
// and published, permitted only for the owner.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	caller, err := s.resolveCaller(c)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidatePostInput(req.Title, req.Content); err != nil {
		verr := models.NewValidationError(err.Error())
		return models.RespondWithError(c, models.StatusForError(verr), verr)
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	post, err := s.postRepo.Update(c.UserContext(), id, caller.ID, req.Title, req.Content, published)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id. Success is 204 with no body; a
// second delete of the same id answers 404.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	caller, err := s.resolveCaller(c)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.postRepo.Delete(c.UserContext(), id, caller.ID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
