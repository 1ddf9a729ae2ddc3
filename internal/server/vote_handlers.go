package server

import (
	"echowall/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CastVote handles POST /api/posts/:id/vote. One vote per (user, post); the
// composite key rejects duplicates even under concurrent casts.
func (s *Server) CastVote(c *fiber.Ctx) error {
	caller, err := s.resolveCaller(c)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	// Voting on a missing post is a 404, not a constraint error.
	if _, err := s.postRepo.OwnerOf(c.UserContext(), postID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	if err := s.voteRepo.Create(c.UserContext(), caller.ID, postID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	votes, err := s.voteRepo.CountForPost(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"post_id": postID,
		"votes":   votes,
	})
}

// RetractVote handles DELETE /api/posts/:id/vote. Retraction is idempotent:
// deleting an absent vote still answers 204.
func (s *Server) RetractVote(c *fiber.Ctx) error {
	caller, err := s.resolveCaller(c)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if _, err := s.postRepo.OwnerOf(c.UserContext(), postID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	if err := s.voteRepo.Delete(c.UserContext(), caller.ID, postID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
