package rest

import (
	"context"
	"time"

	"multiMart/business/user"
	"multiMart/domain"
	"multiMart/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(ctx context.Context, in user.RegisterInput) (domain.User, error)
	Login(ctx context.Context, email, password string) (string, domain.User, error)
	VerifyEmail(ctx context.Context, code string) error
	FindByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	Update(ctx context.Context, id uuid.UUID, in user.UpdateInput) (domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserHandler struct {
	userService UserService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
		timeout:     defaultTimeout,
	}
}

type UserRegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserUpdateRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var req UserRegisterRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	u, err := h.userService.Register(ctx, user.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, "User registered successfully, check your email to verify the account", u)
}

func (h *UserHandler) Login(c echo.Context) error {
	var req UserLoginRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	token, u, err := h.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "Login successful", LoginResponse{Token: token, User: u})
}

func (h *UserHandler) VerifyEmail(c echo.Context) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.userService.VerifyEmail(ctx, c.Param("code")); err != nil {
		return response.Error(c, err)
	}

	return okMessage(c, "Successfully verified email")
}

func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	u, err := h.userService.FindByID(ctx, userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "User retrieved successfully", u)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req UserUpdateRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	u, err := h.userService.Update(ctx, userID, user.UpdateInput{Name: req.Name, Password: req.Password})
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, "User updated successfully", u)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.userService.Delete(ctx, id); err != nil {
		return response.Error(c, err)
	}

	return okMessage(c, "User deleted successfully")
}
