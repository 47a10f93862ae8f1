package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"textok/internal/model"
	"textok/internal/service"
	serviceMocks "textok/internal/service/mocks"
)

func TestListAndGetUsers(t *testing.T) {
	users := new(serviceMocks.MockUserService)
	app := newTestApp(t)
	app.Get("/users", ListUsers(users))
	app.Get("/users/me", GetMyProfile(users))
	app.Get("/users/:id<int>", GetUser(users))

	t.Run("list", func(t *testing.T) {
		users.On("List", mock.Anything).Return([]model.UserListItem{{ID: 1, Nickname: "a"}, {ID: 2, Nickname: "b"}}, nil).Once()

		resp, env := do(t, app, httptest.NewRequest(http.MethodGet, "/users", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var items []model.UserListItem
		require.NoError(t, json.Unmarshal(env.Data, &items))
		assert.Len(t, items, 2)
	})

	t.Run("profile", func(t *testing.T) {
		users.On("GetProfile", mock.Anything, int64(7)).Return(&model.Profile{ID: 7, Nickname: "seven"}, nil).Once()

		_, env := do(t, app, httptest.NewRequest(http.MethodGet, "/users/7", nil))

		var p model.Profile
		require.NoError(t, json.Unmarshal(env.Data, &p))
		assert.Equal(t, "seven", p.Nickname)
	})

	t.Run("profile not found", func(t *testing.T) {
		users.On("GetProfile", mock.Anything, int64(8)).Return(nil, service.ErrUserNotFound).Once()

		resp, env := do(t, app, httptest.NewRequest(http.MethodGet, "/users/8", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "404-1", env.ResultCode)
	})

	t.Run("non numeric id", func(t *testing.T) {
		resp, env := do(t, app, httptest.NewRequest(http.MethodGet, "/users/abc", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "resource not found", env.Message)
	})

	t.Run("mine", func(t *testing.T) {
		mine := &model.MyProfile{Profile: model.Profile{ID: 3}, Email: "me@example.com"}
		users.On("GetMine", mock.Anything, int64(3)).Return(mine, nil).Once()

		_, env := do(t, app, asUser(httptest.NewRequest(http.MethodGet, "/users/me", nil), 3, model.RoleUser))

		var got model.MyProfile
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "me@example.com", got.Email)
	})

	users.AssertExpectations(t)
}

type formPart struct {
	name        string
	filename    string
	contentType string
	body        []byte
}

func multipartRequest(t *testing.T, target string, parts ...formPart) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := textproto.MIMEHeader{}
		disp := `form-data; name="` + p.name + `"`
		if p.filename != "" {
			disp += `; filename="` + p.filename + `"`
		}
		h.Set("Content-Disposition", disp)
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUpdateProfile(t *testing.T) {
	users := new(serviceMocks.MockUserService)
	app := newTestApp(t)
	app.Put("/users/update", UpdateProfile(users))

	t.Run("dto and image", func(t *testing.T) {
		want := service.UpdateProfileRequest{Nickname: "neo", Bio: "hi"}
		users.On("UpdateProfile", mock.Anything, int64(1), want, mock.MatchedBy(func(img *service.ImageUpload) bool {
			if img == nil || img.Filename != "me.png" || img.ContentType != "image/png" {
				return false
			}
			b, _ := io.ReadAll(img.Reader)
			return string(b) == "PNGDATA"
		})).Return(&model.UserDto{ID: 1, Nickname: "neo"}, nil).Once()

		req := multipartRequest(t, "/users/update",
			formPart{name: "dto", contentType: "application/json", body: []byte(`{"nickname":" neo ","bio":"hi"}`)},
			formPart{name: "profileImage", filename: "me.png", contentType: "image/png", body: []byte("PNGDATA")},
		)
		resp, env := do(t, app, asUser(req, 1, model.RoleUser))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Profile updated.", env.Message)
	})

	t.Run("dto sent as blob without image", func(t *testing.T) {
		want := service.UpdateProfileRequest{Nickname: "neo", RemoveProfileImage: true}
		users.On("UpdateProfile", mock.Anything, int64(1), want, (*service.ImageUpload)(nil)).
			Return(&model.UserDto{ID: 1, Nickname: "neo"}, nil).Once()

		req := multipartRequest(t, "/users/update",
			formPart{name: "dto", filename: "blob", contentType: "application/json", body: []byte(`{"nickname":"neo","deleteProfileImage":true}`)},
		)
		resp, _ := do(t, app, asUser(req, 1, model.RoleUser))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("nickname conflict", func(t *testing.T) {
		want := service.UpdateProfileRequest{Nickname: "taken"}
		users.On("UpdateProfile", mock.Anything, int64(1), want, (*service.ImageUpload)(nil)).
			Return(nil, service.ErrNicknameConflict).Once()

		req := multipartRequest(t, "/users/update", formPart{name: "dto", body: []byte(`{"nickname":"taken"}`)})
		resp, env := do(t, app, asUser(req, 1, model.RoleUser))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "409-1", env.ResultCode)
	})

	t.Run("missing dto", func(t *testing.T) {
		req := multipartRequest(t, "/users/update", formPart{name: "other", body: []byte("x")})
		resp, env := do(t, app, asUser(req, 1, model.RoleUser))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "dto is required", env.Message)
	})

	t.Run("blank nickname", func(t *testing.T) {
		req := multipartRequest(t, "/users/update", formPart{name: "dto", body: []byte(`{"nickname":"   "}`)})
		resp, env := do(t, app, asUser(req, 1, model.RoleUser))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "nickname is required", env.Message)
	})

	t.Run("not multipart", func(t *testing.T) {
		req := jsonRequest(http.MethodPut, "/users/update", map[string]string{"nickname": "neo"})
		resp, _ := do(t, app, asUser(req, 1, model.RoleUser))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	users.AssertExpectations(t)
}

func TestCheckNickname(t *testing.T) {
	users := new(serviceMocks.MockUserService)
	app := newTestApp(t)
	app.Get("/check-nickname", CheckNickname(users))

	users.On("IsAvailableNickname", mock.Anything, "free").Return(true, nil).Once()
	users.On("IsAvailableNickname", mock.Anything, "taken").Return(false, nil).Once()

	resp, env := do(t, app, httptest.NewRequest(http.MethodGet, "/check-nickname?nickname=free", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "200-1", env.ResultCode)

	resp, env = do(t, app, httptest.NewRequest(http.MethodGet, "/check-nickname?nickname=taken", nil))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "409-1", env.ResultCode)

	users.AssertExpectations(t)
}

func TestSearchUsers(t *testing.T) {
	users := new(serviceMocks.MockUserService)
	app := newTestApp(t)
	app.Get("/search", SearchUsers(users))

	users.On("Search", mock.Anything, "ne").Return([]model.UserListItem{{ID: 1, Nickname: "neo"}}, nil).Once()
	users.On("Search", mock.Anything, "").Return(nil, service.ErrKeywordRequired).Once()

	_, env := do(t, app, httptest.NewRequest(http.MethodGet, "/search?keyword=ne", nil))
	var items []model.UserListItem
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 1)

	resp, env := do(t, app, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "keyword is required", env.Message)

	users.AssertExpectations(t)
}

func TestMyCommentActivities(t *testing.T) {
	comments := new(serviceMocks.MockCommentService)
	app := newTestApp(t)
	app.Get("/activities", MyCommentActivities(comments))

	page := &service.ActivityPage{Items: []model.CommentActivity{{TargetID: 5, CommentCount: 2}}, Total: 1, Page: 1, Size: 10}
	comments.On("Activities", mock.Anything, int64(4), model.CommentTargetBlog, 1, 10).Return(page, nil).Once()
	comments.On("Activities", mock.Anything, int64(4), model.CommentTargetShorlog, 0, 0).Return(&service.ActivityPage{}, nil).Once()

	resp, env := do(t, app, asUser(httptest.NewRequest(http.MethodGet, "/activities?targetType=blog&page=1&size=10", nil), 4, model.RoleUser))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got service.ActivityPage
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, int64(5), got.Items[0].TargetID)

	resp, _ = do(t, app, asUser(httptest.NewRequest(http.MethodGet, "/activities?targetType=SHORLOG", nil), 4, model.RoleUser))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = do(t, app, asUser(httptest.NewRequest(http.MethodGet, "/activities?targetType=VLOG", nil), 4, model.RoleUser))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, service.ErrInvalidTargetType.Message, env.Message)

	comments.AssertExpectations(t)
}
