package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"textok/internal/http/rsdata"
	"textok/internal/model"
	"textok/internal/service"
)

func targetParams(c *fiber.Ctx) (model.CommentTargetType, int64, error) {
	targetType, err := service.ParseTargetType(c.Params("targetType"))
	if err != nil {
		return "", 0, err
	}
	id, err := strconv.ParseInt(c.Params("targetId"), 10, 64)
	if err != nil || id <= 0 {
		return "", 0, service.Invalid("targetId must be a positive integer")
	}
	return targetType, id, nil
}

func commentID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.Invalid("id must be a positive integer")
	}
	return id, nil
}

// parseIDs accepts "1,2,3" as well as repeated parameters.
func parseIDs(raw []string) ([]int64, error) {
	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, service.Invalid("targetIds must be positive integers")
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ListComments godoc
// @Summary Comments of a target
// @Description Root comments oldest first, each with its replies oldest first.
// @Tags Comment
// @Produce json
// @Param targetType path string true "BLOG or SHORLOG"
// @Param targetId path int true "Target ID"
// @Success 200 {object} rsdata.RsData{data=[]model.Comment}
// @Failure 400 {object} rsdata.RsData
// @Router /api/v1/comments/{targetType}/{targetId} [get]
func ListComments(comments service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		targetType, targetID, err := targetParams(c)
		if err != nil {
			return err
		}
		items, err := comments.ListByTarget(c.UserContext(), targetType, targetID)
		if err != nil {
			return err
		}
		return ok(c, "Comments.", items)
	}
}

// CountComments godoc
// @Summary Comment counts of several targets
// @Tags Comment
// @Produce json
// @Param targetType query string true "BLOG or SHORLOG"
// @Param targetIds query string true "Comma-separated target IDs"
// @Success 200 {object} rsdata.RsData{data=map[string]int}
// @Failure 400 {object} rsdata.RsData
// @Router /api/v1/comments/counts [get]
func CountComments(comments service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := requiredQuery(c, "targetType")
		if err != nil {
			return err
		}
		targetType, err := service.ParseTargetType(raw)
		if err != nil {
			return err
		}
		var rawIDs []string
		for _, v := range c.Context().QueryArgs().PeekMulti("targetIds") {
			rawIDs = append(rawIDs, string(v))
		}
		ids, err := parseIDs(rawIDs)
		if err != nil {
			return err
		}
		counts, err := comments.CountByTargets(c.UserContext(), targetType, ids)
		if err != nil {
			return err
		}
		return ok(c, "Comment counts.", counts)
	}
}

// CountTargetComments godoc
// @Summary Comment count of a target
// @Tags Comment
// @Produce json
// @Param targetType path string true "BLOG or SHORLOG"
// @Param targetId path int true "Target ID"
// @Success 200 {object} rsdata.RsData{data=map[string]int}
// @Router /api/v1/comments/{targetType}/{targetId}/count [get]
func CountTargetComments(comments service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		targetType, targetID, err := targetParams(c)
		if err != nil {
			return err
		}
		n, err := comments.Count(c.UserContext(), targetType, targetID)
		if err != nil {
			return err
		}
		return ok(c, "Comment count.", fiber.Map{"count": n})
	}
}

// CreateComment godoc
// @Summary Write a comment or a reply
// @Tags Comment
// @Accept json
// @Produce json
// @Param request body service.CreateCommentRequest true "Comment"
// @Success 201 {object} rsdata.RsData{data=model.Comment}
// @Failure 400 {object} rsdata.RsData
// @Failure 401 {object} rsdata.RsData
// @Router /api/v1/comments [post]
func CreateComment(comments service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal(c)
		if err != nil {
			return err
		}
		var req service.CreateCommentRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		created, err := comments.Create(c.UserContext(), p.UserID, req)
		if err != nil {
			return err
		}
		return rsdata.Send(c, "201-1", "Comment created.", created)
	}
}

// UpdateComment godoc
// @Summary Edit a comment
// @Tags Comment
// @Accept json
// @Produce json
// @Param id path int true "Comment ID"
// @Param request body service.UpdateCommentRequest true "New content"
// @Success 200 {object} rsdata.RsData{data=model.Comment}
// @Failure 403 {object} rsdata.RsData
// @Failure 404 {object} rsdata.RsData
// @Router /api/v1/comments/{id} [put]
func UpdateComment(comments service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal(c)
		if err != nil {
			return err
		}
		id, err := commentID(c)
		if err != nil {
			return err
		}
		var req service.UpdateCommentRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		updated, err := comments.Update(c.UserContext(), p, id, req.Content)
		if err != nil {
			return err
		}
		return ok(c, "Comment updated.", updated)
	}
}

// DeleteComment godoc
// @Summary Delete a comment and its replies
// @Tags Comment
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} rsdata.RsData
// @Failure 403 {object} rsdata.RsData
// @Failure 404 {object} rsdata.RsData
// @Router /api/v1/comments/{id} [delete]
func DeleteComment(comments service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal(c)
		if err != nil {
			return err
		}
		id, err := commentID(c)
		if err != nil {
			return err
		}
		if err := comments.Delete(c.UserContext(), p, id); err != nil {
			return err
		}
		return ok(c, "Comment deleted.", nil)
	}
}

// DeleteTargetComments godoc
// @Summary Delete every comment of a target (admin)
// @Tags Comment
// @Produce json
// @Param targetType path string true "BLOG or SHORLOG"
// @Param targetId path int true "Target ID"
// @Success 200 {object} rsdata.RsData
// @Failure 403 {object} rsdata.RsData
// @Router /api/v1/comments/{targetType}/{targetId} [delete]
func DeleteTargetComments(comments service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal(c)
		if err != nil {
			return err
		}
		if !p.IsAdmin() {
			return service.ErrAdminOnly
		}
		targetType, targetID, err := targetParams(c)
		if err != nil {
			return err
		}
		if err := comments.DeleteByTarget(c.UserContext(), targetType, targetID); err != nil {
			return err
		}
		return ok(c, "Comments deleted.", nil)
	}
}
