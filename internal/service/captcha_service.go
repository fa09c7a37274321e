package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ksobremonte/sentiment-slice/internal/common"
	pkglogger "github.com/ksobremonte/sentiment-slice/pkg/logger"
)

// hCaptcha token length bounds; anything outside is rejected before the
// verification call is even attempted
const (
	minCaptchaTokenLen = 10
	maxCaptchaTokenLen = 4096
)

const defaultSiteverifyURL = "https://hcaptcha.com/siteverify"

// CaptchaService gates mutating public actions behind hCaptcha. Verification
// fails closed: any transport or parse problem counts as a failed check.
type CaptchaService interface {
	// Configured reports whether a server secret is present. When false the
	// dependent actions must be disabled, not silently allowed.
	Configured() bool
	// SiteKey returns the public widget key, empty when not set
	SiteKey() string
	// Verify checks a visitor token server-side. The error is non-nil only
	// for configuration problems and malformed tokens; a failed or
	// unreachable verification simply returns false.
	Verify(ctx context.Context, token string) (bool, error)
}

type hcaptchaService struct {
	siteKey    string
	secret     string
	verifyURL  string
	httpClient *http.Client
}

// NewCaptchaService creates an hCaptcha-backed CaptchaService
func NewCaptchaService(siteKey, secret string) CaptchaService {
	return &hcaptchaService{
		siteKey:   siteKey,
		secret:    secret,
		verifyURL: defaultSiteverifyURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *hcaptchaService) Configured() bool {
	return s.secret != ""
}

func (s *hcaptchaService) SiteKey() string {
	return s.siteKey
}

func (s *hcaptchaService) Verify(ctx context.Context, token string) (bool, error) {
	if s.secret == "" {
		return false, common.ErrCaptchaNotConfigured
	}
	if len(token) < minCaptchaTokenLen || len(token) > maxCaptchaTokenLen {
		return false, common.ErrInvalidToken
	}

	form := url.Values{}
	form.Set("secret", s.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, nil
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("captcha siteverify unreachable")
		return false, nil
	}
	defer resp.Body.Close()

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, nil
	}

	return result.Success, nil
}
