package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var (
	ErrInvalidCode        = errors.New("invalid authorization code")
	ErrFailedToGetUser    = errors.New("failed to get user info from Google")
	ErrInvalidState       = errors.New("invalid state parameter")
	ErrOAuthNotConfigured = errors.New("Google OAuth is not configured")
	ErrEmailNotVerified   = errors.New("Google account email is not verified")
)

// Profile is the identity a provider vouches for
type Profile struct {
	ProviderID string
	Email      string
	FirstName  string
	LastName   string
	Picture    string
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func (u googleUserInfo) profile() *Profile {
	first, last := u.GivenName, u.FamilyName
	if first == "" && last == "" {
		first, last, _ = strings.Cut(u.Name, " ")
	}
	return &Profile{
		ProviderID: u.ID,
		Email:      strings.ToLower(u.Email),
		FirstName:  first,
		LastName:   last,
		Picture:    u.Picture,
	}
}

// Config holds the Google OAuth client settings and where to send the browser afterwards
type Config struct {
	ClientID           string
	ClientSecret       string
	RedirectURL        string
	FrontendSuccessURL string
	FrontendErrorURL   string
}

// GoogleProvider signs users in with their Google account
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
	SuccessURL  string
	ErrorURL    string
}

// NewGoogleProvider creates a new Google OAuth provider
func NewGoogleProvider(cfg Config) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: userInfoURL,
		SuccessURL:  cfg.FrontendSuccessURL,
		ErrorURL:    cfg.FrontendErrorURL,
	}
}

// IsConfigured checks if Google OAuth is properly configured
func (p *GoogleProvider) IsConfigured() bool {
	return p.config.ClientID != "" && p.config.ClientSecret != ""
}

// NewState returns a random value for the OAuth state parameter
func NewState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// AuthURL returns the consent page URL for state
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the signed-in user's profile.
// Accounts whose email Google has not verified are rejected.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	if !p.IsConfigured() {
		return nil, ErrOAuthNotConfigured
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}

	return p.fetchProfile(ctx, p.config.Client(ctx, token))
}

func (p *GoogleProvider) fetchProfile(ctx context.Context, client *http.Client) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetUser, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrFailedToGetUser, resp.StatusCode, string(body))
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetUser, err)
	}
	if !info.VerifiedEmail {
		return nil, ErrEmailNotVerified
	}
	if info.ID == "" || info.Email == "" {
		return nil, ErrFailedToGetUser
	}

	return info.profile(), nil
}
