package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"workreg/internal/auth"
	"workreg/internal/config"
	"workreg/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	workerHandler *handler.WorkerHandler,
	importHandler *handler.ImportHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Reads and import are open; import attributes the actor when a token
	// is present.
	api.GET("/workers", workerHandler.ListWorkers)
	api.GET("/workers/:id", workerHandler.GetWorker)
	api.POST("/workers/import", importHandler.ImportWorkers, auth.OptionalJWT(jwtService))

	// Secured routes (require a JWT that has not been revoked at logout)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}), auth.RejectBlacklisted(tokenStore))

	secured.POST("/workers", workerHandler.CreateWorker)
	secured.PATCH("/workers/:id", workerHandler.UpdateWorker)
	secured.PUT("/workers/:id", workerHandler.UpdateWorker)
	secured.DELETE("/workers/:id", workerHandler.DeleteWorker)
	secured.GET("/workers/:id/audit", workerHandler.WorkerAudit)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
