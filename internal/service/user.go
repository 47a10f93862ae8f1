package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"textok/internal/model"
	"textok/internal/repository"
)

// UserService serves profiles and profile edits.
type UserService interface {
	List(ctx context.Context) ([]model.UserListItem, error)
	GetProfile(ctx context.Context, id int64) (*model.Profile, error)
	GetMine(ctx context.Context, id int64) (*model.MyProfile, error)

	// UpdateProfile changes nickname and bio. A non-nil image replaces the
	// current picture; RemoveProfileImage clears it.
	UpdateProfile(ctx context.Context, id int64, req UpdateProfileRequest, image *ImageUpload) (*model.UserDto, error)

	IsAvailableNickname(ctx context.Context, nickname string) (bool, error)
	Search(ctx context.Context, keyword string) ([]model.UserListItem, error)
}

type userService struct {
	users  repository.UserRepository
	images ProfileImageService
	log    zerolog.Logger
}

// NewUserService constructs a UserService.
func NewUserService(users repository.UserRepository, images ProfileImageService, log zerolog.Logger) UserService {
	return &userService{users: users, images: images, log: log}
}

func (s *userService) find(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func listItems(users []model.User) []model.UserListItem {
	items := make([]model.UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, toListItem(u))
	}
	return items
}

func (s *userService) List(ctx context.Context) ([]model.UserListItem, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return listItems(users), nil
}

func profileOf(u *model.User) model.Profile {
	return model.Profile{
		ID:            u.ID,
		Nickname:      u.Nickname,
		ProfileImgURL: u.ProfileImgURL,
		Bio:           u.Bio,
		CreatedAt:     u.CreatedAt,
	}
}

func (s *userService) GetProfile(ctx context.Context, id int64) (*model.Profile, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	p := profileOf(u)
	return &p, nil
}

func (s *userService) GetMine(ctx context.Context, id int64) (*model.MyProfile, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.MyProfile{
		Profile:     profileOf(u),
		Username:    u.Username,
		Email:       u.Email,
		DateOfBirth: u.DateOfBirth,
		Gender:      u.Gender,
		Role:        u.Role,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id int64, req UpdateProfileRequest, image *ImageUpload) (*model.UserDto, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		return nil, Invalid("nickname is required")
	}
	if nickname != u.Nickname {
		other, err := s.users.FindByNickname(ctx, nickname)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if err == nil && other.ID != u.ID {
			return nil, ErrNicknameConflict
		}
	}

	oldURL := u.ProfileImgURL
	newURL := oldURL
	switch {
	case image != nil:
		if newURL, err = s.images.Upload(ctx, image); err != nil {
			return nil, err
		}
	case req.RemoveProfileImage:
		newURL = ""
	}

	u.Nickname = nickname
	u.Bio = req.Bio
	u.ProfileImgURL = newURL
	if err := s.users.Update(ctx, u); err != nil {
		if newURL != oldURL && newURL != "" {
			if delErr := s.images.Delete(ctx, newURL); delErr != nil {
				s.log.Warn().Err(delErr).Str("url", newURL).Msg("profile_image_rollback_failed")
			}
		}
		return nil, duplicateUserError(err, ErrNicknameConflict)
	}

	if oldURL != "" && oldURL != newURL {
		if err := s.images.Delete(ctx, oldURL); err != nil {
			s.log.Warn().Err(err).Str("url", oldURL).Msg("profile_image_cleanup_failed")
		}
	}

	dto := model.NewUserDto(u)
	return &dto, nil
}

func (s *userService) IsAvailableNickname(ctx context.Context, nickname string) (bool, error) {
	taken, err := exists(s.users.FindByNickname(ctx, nickname))
	return !taken, err
}

func (s *userService) Search(ctx context.Context, keyword string) ([]model.UserListItem, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrKeywordRequired
	}
	users, err := s.users.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return listItems(users), nil
}
