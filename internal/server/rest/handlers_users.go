package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"classtrack-server/internal/common"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. Registration is gated: the request must carry
// a token provisioned by the administrator, and the token is spent on success.
func (s *RestServer) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Request().Context()

	user, err := s.users.Register(ctx, req.Email, req.Password, req.Token)
	if err != nil {
		var ve *common.ValidationError
		switch {
		case errors.Is(err, common.ErrRegistrationNotAllowed):
			return respondError(c, http.StatusBadRequest, "You cannot register without the admin's permission!")
		case errors.As(err, &ve):
			return respondError(c, http.StatusBadRequest, ve.Message)
		case errors.Is(err, common.ErrorAlreadyExists):
			return respondError(c, http.StatusBadRequest,
				fmt.Sprintf("The user with the email %q already exists", req.Email))
		default:
			s.logger.Error(ctx, "register failed", "error", err)
			return respondError(c, http.StatusInternalServerError, "Error creating user")
		}
	}

	return respondData(c, http.StatusOK, user)
}

// Login verifies credentials and issues a signed bearer token.
func (s *RestServer) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Request().Context()

	token, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return respondError(c, http.StatusNotFound,
				fmt.Sprintf("The user with the email %q was not found", req.Email))
		case errors.Is(err, common.ErrWrongPassword):
			return respondError(c, http.StatusBadRequest, "Wrong password")
		default:
			s.logger.Error(ctx, "login failed", "error", err)
			return respondError(c, http.StatusInternalServerError, "Error logging in")
		}
	}

	return c.JSON(http.StatusOK, tokenResponse{Success: true, Token: token})
}
