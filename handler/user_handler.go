package handler

import (
	"encoding/json"
	"go-shop-api/common"
	"go-shop-api/model"
	"go-shop-api/repository"
	"go-shop-api/service"
	"net/http"
)

type UserHandler struct {
	Repo        repository.IUserRepository
	AuthService *service.AuthService
}

func NewUserHandler(repo repository.IUserRepository, authService *service.AuthService) *UserHandler {
	return &UserHandler{Repo: repo, AuthService: authService}
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RegisterRequest true "New user"
// @Success      201 {object} model.User
// @Failure      400 {object} common.AppError
// @Router       /register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	hashedPassword, err := h.AuthService.HashPassword(req.Password)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Error hashing password", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
	}

	if err := h.Repo.CreateUser(user); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Error creating user", err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}
