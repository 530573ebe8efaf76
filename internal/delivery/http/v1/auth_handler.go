package v1

import (
	"net/http"

	"easemyform-backend/internal/delivery/http/middleware"
	"easemyform-backend/internal/delivery/http/response"
	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/apperror"
	"easemyform-backend/pkg/session"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC   domain.AuthUsecase
	sessions *session.Manager
}

// NewAuthHandler registers the OTP login routes. otpLimit guards the two
// code endpoints.
func NewAuthHandler(api *gin.RouterGroup, authUC domain.AuthUsecase, sessions *session.Manager, otpLimits ...gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC, sessions: sessions}

	auth := api.Group("/auth")
	{
		otp := auth.Group("", otpLimits...)
		otp.POST("/send-otp", handler.SendOTP)
		otp.POST("/verify-otp", handler.VerifyOTP)
		auth.POST("/logout", handler.Logout)
		auth.GET("/me", middleware.RequireSession(), handler.Me)
	}
}

// SendOTP godoc
// @Summary      Send a login code
// @Description  Generates a six digit code for the phone number and sends it by SMS. The code is echoed back only in development.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.SendOTPRequest  true  "Phone number"
// @Success      200   {object}  response.Response{data=domain.OTPDispatch}
// @Failure      400   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /auth/send-otp [post]
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req domain.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	dispatch, err := h.authUC.SendCode(c, req.PhoneNumber)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OTP sent successfully", dispatch)
}

// VerifyOTP godoc
// @Summary      Verify a login code
// @Description  Consumes the pending code, creates the user on first login and sets the session cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.VerifyOTPRequest  true  "Phone number and code"
// @Success      200   {object}  response.Response{data=domain.Session}
// @Failure      400   {object}  response.Response  "reason: otp_not_found, otp_expired, otp_mismatch or validation_error"
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req domain.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	sess, err := h.authUC.VerifyCode(c, req.PhoneNumber, req.OTP)
	if err != nil {
		c.Error(err)
		return
	}

	token, expires, err := h.sessions.Issue(session.Identity{
		UserID:  sess.UserID,
		Phone:   sess.PhoneNumber,
		IsAdmin: sess.IsAdmin,
	})
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	h.sessions.SetCookie(c, token, expires)

	response.Success(c, http.StatusOK, "Login successful", gin.H{"user": sess})
}

// Logout godoc
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.ClearCookie(c)
	response.Success(c, http.StatusOK, "Logged out successfully", nil)
}

// Me godoc
// @Summary      Current user
// @Description  Returns the signed-in user with score histories.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.CurrentUser(c, sessionUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Current user", user)
}
