package service

import (
	"io"
	"time"

	"textok/internal/model"
)

const dateLayout = "2006-01-02"

// JoinRequest registers a local account after email verification.
type JoinRequest struct {
	Email             string `json:"email" validate:"required,email"`
	Username          string `json:"username" validate:"required,min=4,max=30"`
	Password          string `json:"password" validate:"required,min=8,max=64"`
	Nickname          string `json:"nickname" validate:"required,max=20"`
	DateOfBirth       string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Gender            string `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
	VerificationToken string `json:"verificationToken" validate:"required"`
}

// CompleteOAuth2JoinRequest fills the profile of a user created by OAuth2 login.
type CompleteOAuth2JoinRequest struct {
	TemporaryToken string `json:"temporaryToken" validate:"required"`
	Nickname       string `json:"nickname" validate:"required,max=20"`
	DateOfBirth    string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Gender         string `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type PasswordResetRequest struct {
	Email             string `json:"email" validate:"required,email"`
	Username          string `json:"username" validate:"required"`
	NewPassword       string `json:"newPassword" validate:"required,min=8,max=64"`
	VerificationToken string `json:"verificationToken" validate:"required"`
}

type SendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// UpdateProfileRequest is the "dto" part of the profile update form.
type UpdateProfileRequest struct {
	Nickname           string `json:"nickname" validate:"required,max=20"`
	Bio                string `json:"bio" validate:"max=500"`
	RemoveProfileImage bool   `json:"deleteProfileImage"`
}

// ImageUpload is a profile image received from a multipart form.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type CreateCommentRequest struct {
	TargetType string `json:"targetType" validate:"required"`
	TargetID   int64  `json:"targetId" validate:"required,gt=0"`
	ParentID   *int64 `json:"parentId" validate:"omitempty,gt=0"`
	Content    string `json:"content" validate:"required,max=1000"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// LoginResult is returned to a client that logged in with a password.
type LoginResult struct {
	Item         model.UserDto `json:"item"`
	RefreshToken string        `json:"refreshToken"`
	AccessToken  string        `json:"accessToken"`
}

// ActivityPage is one page of a user's comment activity.
type ActivityPage struct {
	Items   []model.CommentActivity `json:"items"`
	Total   int                     `json:"total"`
	Page    int                     `json:"page"`
	Size    int                     `json:"size"`
	HasNext bool                    `json:"hasNext"`
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, Invalid("dateOfBirth must be formatted as YYYY-MM-DD")
	}
	return &t, nil
}

func toListItem(u model.User) model.UserListItem {
	return model.UserListItem{
		ID:            u.ID,
		Nickname:      u.Nickname,
		ProfileImgURL: u.ProfileImgURL,
		Bio:           u.Bio,
	}
}
