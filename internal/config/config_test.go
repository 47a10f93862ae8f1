package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINIO_PUBLIC_BASE_URL", "https://cdn.example.com/")
	t.Setenv("JWT_ACCESS_EXP", "15m")
	t.Setenv("OAUTH2_PROVIDER", "kakao")
	t.Setenv("OAUTH2_SCOPES", "profile_nickname, profile_image")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "https://cdn.example.com", cfg.MinIO.PublicBaseURL)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExp)
	assert.Equal(t, 14*24*time.Hour, cfg.JWT.RefreshExp)
	assert.Equal(t, "KAKAO", cfg.OAuth2.Provider)
	assert.Equal(t, []string{"profile_nickname", "profile_image"}, cfg.OAuth2.Scopes)
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{TimeZone: "Asia/Seoul"}
	assert.Equal(t, "Asia/Seoul", cfg.Location().String())

	cfg.TimeZone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestOAuth2Enabled(t *testing.T) {
	c := OAuth2Config{Provider: "KAKAO", ClientID: "id", AuthURL: "a", TokenURL: "t"}
	assert.False(t, c.Enabled())

	c.UserInfoURL = "u"
	assert.True(t, c.Enabled())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_DURATION_VAR"
	defer os.Unsetenv(key)

	os.Setenv(key, "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration(key, time.Minute))

	os.Setenv(key, "-5m")
	assert.Equal(t, time.Minute, getEnvDuration(key, time.Minute))

	os.Setenv(key, "soon")
	assert.Equal(t, time.Minute, getEnvDuration(key, time.Minute))
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("TEST_LIST_VAR", " a, ,b ,")
	assert.Equal(t, []string{"a", "b"}, getEnvList("TEST_LIST_VAR", "z"))
	assert.Equal(t, []string{"x", "y"}, getEnvList("TEST_LIST_UNSET", "x,y"))
	assert.Nil(t, getEnvList("TEST_LIST_UNSET", ""))
}
