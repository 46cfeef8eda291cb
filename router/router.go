package router

import (
	"go-shop-api/handler"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "go-shop-api/docs"
)

func NewRouter(userHandler *handler.UserHandler, authHandler *handler.AuthHandler, productHandler *handler.ProductHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", handler.HealthCheck)
	mux.Handle("/swagger/", httpSwagger.Handler())

	if userHandler != nil {
		mux.Handle("/register", handler.ErrorHandlingMiddleware(userHandler.Register))
	}

	if authHandler != nil {
		mux.Handle("/login", handler.ErrorHandlingMiddleware(authHandler.Login))
		// The refresh and logout endpoints authenticate via the submitted
		// refresh token itself, not the access token middleware.
		mux.Handle("/token/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
		mux.Handle("/logout", handler.ErrorHandlingMiddleware(authHandler.Logout))
		mux.Handle("/api/logout/all", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(authHandler.LogoutAll)))
	}

	if productHandler != nil {
		mux.Handle("/products", handler.ErrorHandlingMiddleware(productHandler.List))
	}

	return mux
}
