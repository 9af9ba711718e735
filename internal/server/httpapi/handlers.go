package httpapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rashid4567/recruitiq/internal/common"
	"github.com/rashid4567/recruitiq/internal/cryptox"
	"github.com/rashid4567/recruitiq/internal/server/models"
)

// userView is the public JSON shape of an account.
type userView struct {
	ID               string      `json:"id"`
	Email            string      `json:"email"`
	FullName         string      `json:"fullName"`
	Role             common.Role `json:"role"`
	ProfileCompleted bool        `json:"profileCompleted"`
}

func viewOf(u *models.User) userView {
	return userView{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		Role:             u.Role,
		ProfileCompleted: u.ProfileCompleted,
	}
}

// setRefreshCookie stores the refresh token in the httpOnly cookie scoped to
// the /auth group. The refresh token never appears in a JSON body.
func (s *Server) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.RefreshTokenCookie, token,
		int(s.cfg.RefreshTokenValidityDuration.Seconds()), "/auth", "", false, true)
}

func (s *Server) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.RefreshTokenCookie, "", -1, "/auth", "", false, true)
}

// --- registration ---

type sendOtpRequest struct {
	Email    string `json:"email" binding:"required"`
	Role     string `json:"role" binding:"required"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

func (s *Server) handleSendOtp(c *gin.Context) {
	var req sendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, common.ErrorValidation)
		return
	}
	if !common.RegistrableRole(req.Role) {
		abortWithError(c, common.ErrorValidation)
		return
	}

	payload := models.RegistrationPayload{FullName: req.FullName}
	if req.Password != "" {
		hash, err := cryptox.HashPassword([]byte(req.Password))
		if err != nil {
			abortWithError(c, common.ErrorInternal)
			return
		}
		payload.PasswordHash = hash
	}

	expiresAt, err := s.otp.Issue(c.Request.Context(), req.Email, common.Role(req.Role), payload)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expiresAt": expiresAt})
}

type verifyOtpRequest struct {
	Email    string `json:"email" binding:"required"`
	Otp      string `json:"otp" binding:"required"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

func (s *Server) handleVerifyOtp(c *gin.Context) {
	var req verifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, common.ErrorValidation)
		return
	}

	payload, err := s.otp.Verify(c.Request.Context(), req.Email, req.Otp)
	if err != nil {
		abortWithError(c, err)
		return
	}

	// Fields omitted at send-otp time may arrive here instead.
	if payload.FullName == "" {
		payload.FullName = req.FullName
	}
	if payload.PasswordHash == "" {
		if req.Password == "" {
			abortWithError(c, common.ErrorValidation)
			return
		}
		hash, err := cryptox.HashPassword([]byte(req.Password))
		if err != nil {
			abortWithError(c, common.ErrorInternal)
			return
		}
		payload.PasswordHash = hash
	}

	pair, user, err := s.auth.CompleteRegistration(c.Request.Context(), strings.ToLower(req.Email), payload)
	if err != nil {
		abortWithError(c, err)
		return
	}

	s.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken, "user": viewOf(user)})
}

// --- password login / session ---

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, common.ErrorValidation)
		return
	}

	pair, user, err := s.auth.Login(c.Request.Context(), req.Email, []byte(req.Password))
	if err != nil {
		abortWithError(c, err)
		return
	}

	s.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken, "user": viewOf(user)})
}

func (s *Server) handleRefresh(c *gin.Context) {
	refreshToken, err := c.Cookie(common.RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		abortWithError(c, common.ErrRefreshTokenInvalid)
		return
	}

	pair, err := s.auth.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		s.clearRefreshCookie(c)
		abortWithError(c, err)
		return
	}

	s.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken})
}

func (s *Server) handleLogout(c *gin.Context) {
	refreshToken, _ := c.Cookie(common.RefreshTokenCookie)
	if err := s.auth.Logout(c.Request.Context(), refreshToken); err != nil {
		s.log.Warn(c.Request.Context(), "logout revocation failed", "error", err)
	}
	s.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{})
}

// --- OAuth ---

type googleLoginRequest struct {
	Credential string `json:"credential" binding:"required"`
	Role       string `json:"role"`
}

func parseIntendedRole(raw string) (*common.Role, error) {
	if raw == "" {
		return nil, nil
	}
	if !common.RegistrableRole(raw) {
		return nil, common.ErrorValidation
	}
	role := common.Role(raw)
	return &role, nil
}

func (s *Server) handleGoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, common.ErrorValidation)
		return
	}
	intendedRole, err := parseIntendedRole(req.Role)
	if err != nil {
		abortWithError(c, err)
		return
	}

	pair, user, err := s.oauth.CompleteLogin(c.Request.Context(), s.google, req.Credential, intendedRole)
	if err != nil {
		abortWithError(c, err)
		return
	}

	s.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"accessToken":      pair.AccessToken,
		"role":             user.Role,
		"userId":           user.ID,
		"profileCompleted": user.ProfileCompleted,
	})
}

// oauthStateCookie guards the LinkedIn redirect round-trip against CSRF.
const oauthStateCookie = "oauth_state"

func (s *Server) handleLinkedInRedirect(c *gin.Context) {
	roleParam := c.Query("role")
	if _, err := parseIntendedRole(roleParam); err != nil {
		abortWithError(c, err)
		return
	}

	nonce, err := common.MakeRandHexString(16)
	if err != nil {
		abortWithError(c, common.ErrorInternal)
		return
	}

	// The intended role rides the state parameter; the nonce alone is
	// checked against the cookie on the way back.
	state := nonce
	if roleParam != "" {
		state = nonce + "." + roleParam
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, nonce, int(common.OtpWindow.Seconds())*10, "/auth", "", false, true)
	c.Redirect(http.StatusFound, s.linkedin.AuthCodeURL(state))
}

// redirectCallback sends the browser back to the front end with either
// session claims or an error code in the query string.
func (s *Server) redirectCallback(c *gin.Context, params url.Values) {
	target, err := url.Parse(s.cfg.ClientCallbackURL)
	if err != nil {
		abortWithError(c, common.ErrorInternal)
		return
	}
	target.RawQuery = params.Encode()
	c.Redirect(http.StatusFound, target.String())
}

func (s *Server) handleLinkedInCallback(c *gin.Context) {
	if provErr := c.Query("error"); provErr != "" {
		s.redirectCallback(c, url.Values{"error": {common.CodeProviderError}})
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	nonce, _ := c.Cookie(oauthStateCookie)

	stateNonce, roleParam, _ := strings.Cut(state, ".")
	if code == "" || nonce == "" || stateNonce != nonce {
		s.redirectCallback(c, url.Values{"error": {common.CodeProviderError}})
		return
	}

	intendedRole, err := parseIntendedRole(roleParam)
	if err != nil {
		s.redirectCallback(c, url.Values{"error": {common.CodeValidation}})
		return
	}

	pair, user, err := s.oauth.CompleteLogin(c.Request.Context(), s.linkedin, code, intendedRole)
	if err != nil {
		_, body := toAPIError(err)
		s.redirectCallback(c, url.Values{"error": {body.Code}})
		return
	}

	s.setRefreshCookie(c, pair.RefreshToken)
	s.redirectCallback(c, url.Values{
		"accessToken":      {pair.AccessToken},
		"role":             {string(user.Role)},
		"userId":           {user.ID},
		"profileCompleted": {boolParam(user.ProfileCompleted)},
		"success":          {"true"},
	})
}

func boolParam(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// --- profile ---

type profileView struct {
	Headline  string `json:"headline"`
	Location  string `json:"location"`
	About     string `json:"about"`
	ResumeKey string `json:"resumeKey,omitempty"`
	Company   string `json:"company,omitempty"`
}

func (s *Server) handleGetProfile(c *gin.Context) {
	p, err := s.profiles.Get(c.Request.Context(), sessionUserID(c), sessionRole(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileView{
		Headline:  p.Headline,
		Location:  p.Location,
		About:     p.About,
		ResumeKey: p.ResumeKey,
		Company:   p.Company,
	})
}

func (s *Server) handleCompleteProfile(c *gin.Context) {
	var req profileView
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, common.ErrorValidation)
		return
	}

	err := s.profiles.Complete(c.Request.Context(), sessionUserID(c), sessionRole(c), &models.Profile{
		Headline:  req.Headline,
		Location:  req.Location,
		About:     req.About,
		ResumeKey: req.ResumeKey,
		Company:   req.Company,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profileCompleted": true})
}

// --- resumes ---

func (s *Server) handleResumeUploadURL(c *gin.Context) {
	key, uploadURL, err := s.storage.GetResumeUploadURL(c.Request.Context())
	if err != nil {
		abortWithError(c, common.ErrorInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "uploadUrl": uploadURL})
}

func (s *Server) handleResumeDownloadURL(c *gin.Context) {
	key := c.Query("key")
	if !strings.HasPrefix(key, "resumes/") {
		abortWithError(c, common.ErrorValidation)
		return
	}
	downloadURL, err := s.storage.GetResumeDownloadURL(c.Request.Context(), key)
	if err != nil {
		abortWithError(c, common.ErrorInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": downloadURL})
}

// --- admin ---

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.profiles.ListUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, common.ErrorInternal)
		return
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, viewOf(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": views})
}
