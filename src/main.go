package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"path"

	"portal/src/boot"
	"portal/src/middlewares"
	"portal/src/types"
	"portal/src/utils"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

// Resource URLs must be absolute http(s); the stock url tag would let
// javascript: and data: schemes through.
var httpUrlValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return utils.IsValidHTTPURL(value)
}

func setupRouter() *gin.Engine {
	r := gin.Default()
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	v1 := g.Group(apiPrefix)
	return v1
}

// respondPortalError translates a classified pipeline error into the
// HTTP surface. Unclassified errors never reach here.
func respondPortalError(ctx *gin.Context, perr *types.PortalError) {
	status := http.StatusInternalServerError
	switch perr.Kind {
	case types.ErrKindNotFound:
		status = http.StatusNotFound
	case types.ErrKindUnauthorized:
		status = http.StatusUnauthorized
	case types.ErrKindConflict:
		status = http.StatusConflict
	case types.ErrKindValidation:
		status = http.StatusBadRequest
	case types.ErrKindForbidden:
		status = http.StatusForbidden
	case types.ErrKindSchema, types.ErrKindReadOnly:
		status = http.StatusInternalServerError
	}
	ctx.JSON(status, gin.H{"error": perr.Message})
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	boot.InitDb()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOrigins = []string{appHost}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("httpurl", httpUrlValidatorFunc)
	}

	portalRoutes(router)

	authorized := apiv1Group(router)
	authorized.Use(middlewares.AuthMiddleware)
	customerHandlers(authorized)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Error starting server: %s\n", err.Error())
	}
}
