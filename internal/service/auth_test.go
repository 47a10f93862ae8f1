package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"textok/internal/model"
	"textok/internal/repository"
	repoMocks "textok/internal/repository/mocks"
	"textok/internal/storage"
	storeMocks "textok/internal/storage/mocks"
)

const imageBase = "https://cdn.example.com/textok"

type authDeps struct {
	users   *repoMocks.MockUserRepository
	rtStore *repoMocks.MockRefreshTokenStore
	vStore  *repoMocks.MockVerificationStore
	objects *storeMocks.MockStorage
}

func newAuthService(t *testing.T) (*authService, authDeps) {
	t.Helper()
	d := authDeps{
		users:   new(repoMocks.MockUserRepository),
		rtStore: new(repoMocks.MockRefreshTokenStore),
		vStore:  new(repoMocks.MockVerificationStore),
		objects: new(storeMocks.MockStorage),
	}
	tokens := newTokenProvider(t)
	s := NewAuthService(
		d.users,
		NewSessionService(tokens, d.rtStore, d.users),
		NewVerificationService(d.vStore, &fakeSender{}),
		tokens,
		NewProfileImageService(d.objects, storage.NewPublicURLs(imageBase)),
	).(*authService)
	s.hashCost = bcrypt.MinCost
	return s, d
}

func TestAuthService_Join(t *testing.T) {
	ctx := context.Background()
	req := JoinRequest{
		Email:             "neo@example.com",
		Username:          "neo1",
		Password:          "password1",
		Nickname:          "theone",
		DateOfBirth:       "1999-03-31",
		Gender:            "MALE",
		VerificationToken: "vt",
	}

	tests := []struct {
		name          string
		req           JoinRequest
		setupMocks    func(d authDeps)
		wantErr       error
		tokenConsumed bool
	}{
		{
			name: "happy path",
			req:  req,
			setupMocks: func(d authDeps) {
				d.vStore.On("FindToken", ctx, "neo@example.com").Return("vt", nil)
				d.users.On("FindByUsername", ctx, "neo1").Return(nil, sql.ErrNoRows)
				d.users.On("FindByNickname", ctx, "theone").Return(nil, sql.ErrNoRows)
				d.vStore.On("DeleteToken", ctx, "neo@example.com").Return(nil)
				d.users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
					return u.Username == "neo1" &&
						u.Role == model.RoleUser &&
						u.DateOfBirth != nil && u.DateOfBirth.Day() == 31 &&
						bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password1")) == nil
				})).Return(&model.User{ID: 1, Username: "neo1"}, nil)
			},
		},
		{
			name: "not verified",
			req:  req,
			setupMocks: func(d authDeps) {
				d.vStore.On("FindToken", ctx, "neo@example.com").Return("other", nil)
			},
			wantErr: ErrVerificationRequired,
		},
		{
			name: "username taken",
			req:  req,
			setupMocks: func(d authDeps) {
				d.vStore.On("FindToken", ctx, "neo@example.com").Return("vt", nil)
				d.users.On("FindByUsername", ctx, "neo1").Return(&model.User{ID: 2}, nil)
			},
			wantErr: ErrUsernameTaken,
		},
		{
			name: "nickname taken",
			req:  req,
			setupMocks: func(d authDeps) {
				d.vStore.On("FindToken", ctx, "neo@example.com").Return("vt", nil)
				d.users.On("FindByUsername", ctx, "neo1").Return(nil, sql.ErrNoRows)
				d.users.On("FindByNickname", ctx, "theone").Return(&model.User{ID: 2}, nil)
			},
			wantErr: ErrNicknameTaken,
		},
		{
			name: "username claimed concurrently",
			req:  req,
			setupMocks: func(d authDeps) {
				d.vStore.On("FindToken", ctx, "neo@example.com").Return("vt", nil)
				d.users.On("FindByUsername", ctx, "neo1").Return(nil, sql.ErrNoRows)
				d.users.On("FindByNickname", ctx, "theone").Return(nil, sql.ErrNoRows)
				d.vStore.On("DeleteToken", ctx, "neo@example.com").Return(nil)
				d.users.On("Create", ctx, mock.Anything).
					Return(nil, fmt.Errorf("%w: users_username_key", repository.ErrDuplicateUsername))
			},
			wantErr:       ErrUsernameTaken,
			tokenConsumed: true,
		},
		{
			name: "nickname claimed concurrently",
			req:  req,
			setupMocks: func(d authDeps) {
				d.vStore.On("FindToken", ctx, "neo@example.com").Return("vt", nil)
				d.users.On("FindByUsername", ctx, "neo1").Return(nil, sql.ErrNoRows)
				d.users.On("FindByNickname", ctx, "theone").Return(nil, sql.ErrNoRows)
				d.vStore.On("DeleteToken", ctx, "neo@example.com").Return(nil)
				d.users.On("Create", ctx, mock.Anything).
					Return(nil, fmt.Errorf("%w: users_nickname_key", repository.ErrDuplicateNickname))
			},
			wantErr:       ErrNicknameTaken,
			tokenConsumed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, d := newAuthService(t)
			tt.setupMocks(d)

			u, err := s.Join(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
				if tt.tokenConsumed {
					d.vStore.AssertExpectations(t)
				} else {
					d.vStore.AssertNotCalled(t, "DeleteToken", mock.Anything, mock.Anything)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), u.ID)
			d.users.AssertExpectations(t)
			d.vStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_FindOrCreateOAuth2User(t *testing.T) {
	ctx := context.Background()

	t.Run("existing", func(t *testing.T) {
		s, d := newAuthService(t)
		d.users.On("FindByUsername", ctx, "KAKAO__1").Return(&model.User{ID: 4, Nickname: "k"}, nil)

		u, err := s.FindOrCreateOAuth2User(ctx, "KAKAO__1", "https://k/img.png")
		require.NoError(t, err)
		assert.Equal(t, int64(4), u.ID)
		d.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("new", func(t *testing.T) {
		s, d := newAuthService(t)
		d.users.On("FindByUsername", ctx, "KAKAO__1").Return(nil, sql.ErrNoRows)
		d.users.On("Create", ctx, &model.User{Username: "KAKAO__1", ProfileImgURL: "https://k/img.png", Role: model.RoleUser}).
			Return(&model.User{ID: 5, Username: "KAKAO__1"}, nil)

		u, err := s.FindOrCreateOAuth2User(ctx, "KAKAO__1", "https://k/img.png")
		require.NoError(t, err)
		assert.False(t, u.JoinCompleted())
	})

	t.Run("created concurrently", func(t *testing.T) {
		s, d := newAuthService(t)
		d.users.On("FindByUsername", ctx, "KAKAO__1").Return(nil, sql.ErrNoRows).Once()
		d.users.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicateUsername)
		d.users.On("FindByUsername", ctx, "KAKAO__1").Return(&model.User{ID: 6, Username: "KAKAO__1"}, nil).Once()

		u, err := s.FindOrCreateOAuth2User(ctx, "KAKAO__1", "https://k/img.png")
		require.NoError(t, err)
		assert.Equal(t, int64(6), u.ID)
		d.users.AssertExpectations(t)
	})
}

func TestAuthService_CompleteOAuth2Join(t *testing.T) {
	ctx := context.Background()

	t.Run("fills profile", func(t *testing.T) {
		s, d := newAuthService(t)
		tmp, err := s.tokens.GenerateTemporaryToken(5)
		require.NoError(t, err)

		d.users.On("FindByNickname", ctx, "kay").Return(nil, sql.ErrNoRows)
		d.users.On("FindByID", ctx, int64(5)).Return(&model.User{ID: 5, Username: "KAKAO__1"}, nil)
		d.users.On("Update", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Nickname == "kay" && u.Gender == "FEMALE"
		})).Return(nil)

		u, err := s.CompleteOAuth2Join(ctx, CompleteOAuth2JoinRequest{TemporaryToken: tmp, Nickname: "kay", Gender: "FEMALE"})
		require.NoError(t, err)
		assert.True(t, u.JoinCompleted())
	})

	t.Run("access token is not a temporary token", func(t *testing.T) {
		s, _ := newAuthService(t)
		access, err := s.tokens.GenerateAccessToken(5, model.RoleUser)
		require.NoError(t, err)

		_, err = s.CompleteOAuth2Join(ctx, CompleteOAuth2JoinRequest{TemporaryToken: access, Nickname: "kay"})
		assert.ErrorIs(t, err, ErrTemporaryTokenExpired)
	})

	t.Run("nickname taken", func(t *testing.T) {
		s, d := newAuthService(t)
		tmp, err := s.tokens.GenerateTemporaryToken(5)
		require.NoError(t, err)
		d.users.On("FindByID", ctx, int64(5)).Return(&model.User{ID: 5, Username: "KAKAO__1"}, nil)
		d.users.On("FindByNickname", ctx, "kay").Return(&model.User{ID: 9}, nil)

		_, err = s.CompleteOAuth2Join(ctx, CompleteOAuth2JoinRequest{TemporaryToken: tmp, Nickname: "kay"})
		assert.ErrorIs(t, err, ErrNicknameTaken)
	})

	t.Run("nickname claimed concurrently", func(t *testing.T) {
		s, d := newAuthService(t)
		tmp, err := s.tokens.GenerateTemporaryToken(5)
		require.NoError(t, err)
		d.users.On("FindByID", ctx, int64(5)).Return(&model.User{ID: 5, Username: "KAKAO__1"}, nil)
		d.users.On("FindByNickname", ctx, "kay").Return(nil, sql.ErrNoRows)
		d.users.On("Update", ctx, mock.Anything).Return(repository.ErrDuplicateNickname)

		_, err = s.CompleteOAuth2Join(ctx, CompleteOAuth2JoinRequest{TemporaryToken: tmp, Nickname: "kay"})
		assert.ErrorIs(t, err, ErrNicknameTaken)
	})

	t.Run("replayed token on completed account", func(t *testing.T) {
		s, d := newAuthService(t)
		tmp, err := s.tokens.GenerateTemporaryToken(5)
		require.NoError(t, err)
		d.users.On("FindByID", ctx, int64(5)).Return(&model.User{ID: 5, Username: "KAKAO__1", Nickname: "kay", Gender: "FEMALE"}, nil)

		_, err = s.CompleteOAuth2Join(ctx, CompleteOAuth2JoinRequest{TemporaryToken: tmp, Nickname: "mallory", Gender: "MALE"})
		assert.ErrorIs(t, err, ErrJoinAlreadyCompleted)
		d.users.AssertNotCalled(t, "FindByNickname", mock.Anything, mock.Anything)
		d.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pw"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		found    *model.User
		findErr  error
		wantErr  error
	}{
		{name: "ok", username: "neo", password: "secret-pw", found: &model.User{ID: 1, PasswordHash: string(hash)}},
		{name: "unknown user", username: "ghost", password: "x", findErr: sql.ErrNoRows, wantErr: ErrUnknownUsername},
		{name: "wrong password", username: "neo", password: "nope", found: &model.User{ID: 1, PasswordHash: string(hash)}, wantErr: ErrWrongPassword},
		{name: "oauth account", username: "KAKAO__1", password: "", found: &model.User{ID: 2}, wantErr: ErrWrongPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, d := newAuthService(t)
			if tt.found != nil {
				d.users.On("FindByUsername", ctx, tt.username).Return(tt.found, nil)
			} else {
				d.users.On("FindByUsername", ctx, tt.username).Return(nil, tt.findErr)
			}

			u, err := s.Login(ctx, LoginRequest{Username: tt.username, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.found.ID, u.ID)
		})
	}
}

func TestAuthService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	req := PasswordResetRequest{Email: "a@b.c", Username: "neo", NewPassword: "new-password", VerificationToken: "vt"}

	t.Run("updates hash", func(t *testing.T) {
		s, d := newAuthService(t)
		d.vStore.On("FindToken", ctx, "a@b.c").Return("vt", nil)
		d.users.On("FindByUsername", ctx, "neo").Return(&model.User{ID: 1, PasswordHash: "old"}, nil)
		d.vStore.On("DeleteToken", ctx, "a@b.c").Return(nil)
		d.users.On("Update", ctx, mock.MatchedBy(func(u *model.User) bool {
			return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("new-password")) == nil
		})).Return(nil)

		require.NoError(t, s.PasswordReset(ctx, req))
		d.users.AssertExpectations(t)
	})

	t.Run("unknown username", func(t *testing.T) {
		s, d := newAuthService(t)
		d.vStore.On("FindToken", ctx, "a@b.c").Return("vt", nil)
		d.users.On("FindByUsername", ctx, "neo").Return(nil, sql.ErrNoRows)

		assert.ErrorIs(t, s.PasswordReset(ctx, req), ErrUnknownUsername)
	})

	t.Run("not verified", func(t *testing.T) {
		s, d := newAuthService(t)
		d.vStore.On("FindToken", ctx, "a@b.c").Return("", errors.New("redis down"))

		err := s.PasswordReset(ctx, req)
		assert.Error(t, err)
		d.users.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Lookups(t *testing.T) {
	ctx := context.Background()
	s, d := newAuthService(t)
	d.users.On("FindByUsername", ctx, "neo").Return(&model.User{ID: 1, Email: "neo@example.com"}, nil)
	d.users.On("FindByUsername", ctx, "free").Return(nil, sql.ErrNoRows)
	d.users.On("FindByID", ctx, int64(1)).Return(&model.User{ID: 1, Username: "neo"}, nil)
	d.users.On("FindByID", ctx, int64(2)).Return(nil, sql.ErrNoRows)

	ok, err := s.IsAvailableUsername(ctx, "neo")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.IsAvailableUsername(ctx, "free")
	assert.NoError(t, err)
	assert.True(t, ok)

	email, err := s.GetEmailByUsername(ctx, "neo")
	assert.NoError(t, err)
	assert.Equal(t, "neo@example.com", email)

	_, err = s.GetEmailByUsername(ctx, "free")
	assert.ErrorIs(t, err, ErrUnknownUsername)

	_, err = s.GetUserByID(ctx, 2)
	assert.ErrorIs(t, err, ErrUserNotFound)

	me, err := s.Me(ctx, &model.Principal{UserID: 1, Role: model.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "neo", me.Username)

	me, err = s.Me(ctx, nil)
	assert.NoError(t, err)
	assert.Nil(t, me)
}

func TestAuthService_LogoutAndWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("logout revokes session", func(t *testing.T) {
		s, d := newAuthService(t)
		d.rtStore.On("Delete", ctx, int64(1)).Return(nil)
		assert.NoError(t, s.Logout(ctx, 1))
		d.rtStore.AssertExpectations(t)
	})

	t.Run("withdraw deletes own image", func(t *testing.T) {
		s, d := newAuthService(t)
		d.users.On("FindByID", ctx, int64(1)).Return(&model.User{ID: 1, ProfileImgURL: imageBase + "/profiles/a.png"}, nil)
		d.rtStore.On("Delete", ctx, int64(1)).Return(nil)
		d.objects.On("Delete", ctx, "profiles/a.png").Return(nil)
		d.users.On("DeleteCompletely", ctx, int64(1)).Return(nil)

		require.NoError(t, s.Withdraw(ctx, 1))
		d.objects.AssertExpectations(t)
		d.users.AssertExpectations(t)
	})

	t.Run("withdraw keeps provider avatar", func(t *testing.T) {
		s, d := newAuthService(t)
		d.users.On("FindByID", ctx, int64(1)).Return(&model.User{ID: 1, ProfileImgURL: "https://k.kakaocdn.net/p.jpg"}, nil)
		d.rtStore.On("Delete", ctx, int64(1)).Return(nil)
		d.users.On("DeleteCompletely", ctx, int64(1)).Return(nil)

		require.NoError(t, s.Withdraw(ctx, 1))
		d.objects.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("withdraw image failure", func(t *testing.T) {
		s, d := newAuthService(t)
		d.users.On("FindByID", ctx, int64(1)).Return(&model.User{ID: 1, ProfileImgURL: imageBase + "/profiles/a.png"}, nil)
		d.rtStore.On("Delete", ctx, int64(1)).Return(nil)
		d.objects.On("Delete", ctx, "profiles/a.png").Return(errors.New("s3 down"))

		err := s.Withdraw(ctx, 1)
		e, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, "500-1", e.Code)
		d.users.AssertNotCalled(t, "DeleteCompletely", mock.Anything, mock.Anything)
	})

	t.Run("withdraw unknown user", func(t *testing.T) {
		s, d := newAuthService(t)
		d.users.On("FindByID", ctx, int64(9)).Return(nil, sql.ErrNoRows)
		assert.ErrorIs(t, s.Withdraw(ctx, 9), ErrUserNotFound)
	})
}
