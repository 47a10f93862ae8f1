package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"textok/internal/http/rsdata"
	"textok/internal/service"
)

const (
	dtoPart          = "dto"
	profileImagePart = "profileImage"
)

// ListUsers godoc
// @Summary List users
// @Tags User
// @Produce json
// @Success 200 {object} rsdata.RsData{data=[]model.UserListItem}
// @Router /api/v1/users [get]
func ListUsers(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := users.List(c.UserContext())
		if err != nil {
			return err
		}
		return ok(c, "Users.", items)
	}
}

// GetUser godoc
// @Summary Public profile of a user
// @Tags User
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} rsdata.RsData{data=model.Profile}
// @Failure 404 {object} rsdata.RsData
// @Router /api/v1/users/{id} [get]
func GetUser(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return service.Invalid("id must be a positive integer")
		}
		profile, err := users.GetProfile(c.UserContext(), int64(id))
		if err != nil {
			return err
		}
		return ok(c, "User found.", profile)
	}
}

// GetMyProfile godoc
// @Summary Profile of the current user
// @Tags User
// @Produce json
// @Success 200 {object} rsdata.RsData{data=model.MyProfile}
// @Failure 401 {object} rsdata.RsData
// @Router /api/v1/users/me [get]
func GetMyProfile(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal(c)
		if err != nil {
			return err
		}
		profile, err := users.GetMine(c.UserContext(), p.UserID)
		if err != nil {
			return err
		}
		return ok(c, "My profile.", profile)
	}
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Description multipart/form-data with a JSON "dto" part and an optional "profileImage" file.
// @Tags User
// @Accept mpfd
// @Produce json
// @Param dto formData string true "service.UpdateProfileRequest as JSON"
// @Param profileImage formData file false "New profile image"
// @Success 200 {object} rsdata.RsData{data=model.UserDto}
// @Failure 400 {object} rsdata.RsData
// @Failure 409 {object} rsdata.RsData
// @Router /api/v1/users/update [put]
func UpdateProfile(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal(c)
		if err != nil {
			return err
		}
		form, err := c.MultipartForm()
		if err != nil {
			return service.Invalid("multipart/form-data body expected")
		}

		req, err := profileRequest(form)
		if err != nil {
			return err
		}

		var img *service.ImageUpload
		if files := form.File[profileImagePart]; len(files) > 0 {
			fh := files[0]
			f, err := fh.Open()
			if err != nil {
				return service.Invalid("cannot read profile image")
			}
			defer f.Close()
			img = &service.ImageUpload{
				Reader:      f,
				Filename:    fh.Filename,
				ContentType: fh.Header.Get(fiber.HeaderContentType),
				Size:        fh.Size,
			}
		}

		dto, err := users.UpdateProfile(c.UserContext(), p.UserID, req, img)
		if err != nil {
			return err
		}
		return ok(c, "Profile updated.", dto)
	}
}

// profileRequest reads the "dto" part, which browsers send either as a plain
// field or, when built from a Blob, as a file.
func profileRequest(form *multipart.Form) (service.UpdateProfileRequest, error) {
	var req service.UpdateProfileRequest

	var raw []byte
	if vals := form.Value[dtoPart]; len(vals) > 0 {
		raw = []byte(vals[0])
	} else if files := form.File[dtoPart]; len(files) > 0 {
		f, err := files[0].Open()
		if err != nil {
			return req, service.Invalid("cannot read dto part")
		}
		defer f.Close()
		if raw, err = io.ReadAll(f); err != nil {
			return req, service.Invalid("cannot read dto part")
		}
	}
	if len(raw) == 0 {
		return req, service.Invalid("dto is required")
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, service.Invalid("dto must be valid JSON")
	}
	req.Nickname = strings.TrimSpace(req.Nickname)
	return req, validateStruct(&req)
}

// CheckNickname godoc
// @Summary Check whether a nickname is free
// @Tags User
// @Produce json
// @Param nickname query string true "Nickname"
// @Success 200 {object} rsdata.RsData
// @Failure 409 {object} rsdata.RsData
// @Router /api/v1/users/check-nickname [get]
func CheckNickname(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		nickname, err := requiredQuery(c, "nickname")
		if err != nil {
			return err
		}
		available, err := users.IsAvailableNickname(c.UserContext(), nickname)
		if err != nil {
			return err
		}
		if !available {
			return rsdata.Error(c, service.ErrNicknameConflict)
		}
		return ok(c, "Nickname is available.", nil)
	}
}

// SearchUsers godoc
// @Summary Search users by nickname or username
// @Tags User
// @Produce json
// @Param keyword query string true "Keyword"
// @Success 200 {object} rsdata.RsData{data=[]model.UserListItem}
// @Failure 400 {object} rsdata.RsData
// @Router /api/v1/users/search [get]
func SearchUsers(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := users.Search(c.UserContext(), c.Query("keyword"))
		if err != nil {
			return err
		}
		return ok(c, "Search results.", items)
	}
}

// MyCommentActivities godoc
// @Summary Targets the current user commented on
// @Tags User
// @Produce json
// @Param targetType query string true "BLOG or SHORLOG"
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} rsdata.RsData{data=service.ActivityPage}
// @Failure 400 {object} rsdata.RsData
// @Router /api/v1/users/me/comment-activities [get]
func MyCommentActivities(comments service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principal(c)
		if err != nil {
			return err
		}
		raw, err := requiredQuery(c, "targetType")
		if err != nil {
			return err
		}
		targetType, err := service.ParseTargetType(raw)
		if err != nil {
			return err
		}
		page := c.QueryInt("page", 0)
		size := c.QueryInt("size", 0)

		res, err := comments.Activities(c.UserContext(), p.UserID, targetType, page, size)
		if err != nil {
			return err
		}
		return ok(c, "Comment activities.", res)
	}
}
