// Package oauth runs the authorization-code flow against a single
// configured provider and normalizes its user info.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"textok/internal/config"
)

const httpTimeout = 10 * time.Second

var ErrNoSubject = errors.New("user info has no id")

// UserInfo is the subset of provider profile data we keep.
type UserInfo struct {
	ID            string
	ProfileImgURL string
}

// Username is the local login name of an OAuth2 user, e.g. "KAKAO__1234".
func (u UserInfo) Username(provider string) string {
	return provider + "__" + u.ID
}

// Provider wraps an oauth2.Config with the provider's user info endpoint.
type Provider struct {
	name        string
	conf        *oauth2.Config
	userInfoURL string
	client      *http.Client
}

// NewProvider builds a Provider from configuration.
func NewProvider(cfg config.OAuth2Config) *Provider {
	return &Provider{
		name: cfg.Provider,
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userInfoURL: cfg.UserInfoURL,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   httpTimeout,
		},
	}
}

// Name is the upper-case provider registration id.
func (p *Provider) Name() string { return p.name }

// AuthCodeURL returns the consent page URL carrying state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *Provider) context(ctx context.Context) context.Context {
	if p.client != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, p.client)
	}
	return ctx
}

// Exchange trades an authorization code for a token and fetches the user info.
func (p *Provider) Exchange(ctx context.Context, code string) (*UserInfo, error) {
	ctx = p.context(ctx)
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch user info: status %d: %s", resp.StatusCode, body)
	}

	var attrs map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&attrs); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return parseUserInfo(attrs)
}

// parseUserInfo reads "id" (or OIDC "sub") and the first image attribute
// among the ones Google, Kakao and GitHub use.
func parseUserInfo(attrs map[string]any) (*UserInfo, error) {
	id := stringAttr(attrs["id"])
	if id == "" {
		id = stringAttr(attrs["sub"])
	}
	if id == "" {
		return nil, ErrNoSubject
	}

	info := &UserInfo{ID: id}
	for _, k := range []string{"picture", "profile_image_url", "avatar_url"} {
		if v := stringAttr(attrs[k]); v != "" {
			info.ProfileImgURL = v
			break
		}
	}
	if info.ProfileImgURL == "" {
		if props, ok := attrs["properties"].(map[string]any); ok {
			info.ProfileImgURL = stringAttr(props["profile_image"])
		}
	}
	return info, nil
}

// stringAttr renders JSON numbers without exponent so large ids survive.
func stringAttr(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
