package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront-backend/controllers"
	"storefront-backend/database"
	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/repository"
	"storefront-backend/routes"
	"storefront-backend/services"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		panic(err)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Connect(cfg.PostgresHost, cfg.PostgresUser, cfg.PostgresPassword,
		cfg.PostgresDB, cfg.PostgresPort, cfg.PostgresSSLMode); err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer database.Close()

	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.CartItem{},
		&models.Coupon{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	mongoClient, err := database.ConnectMongo(cfg.MongoURI)
	if err != nil {
		logger.Fatal("mongodb connection failed", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Fatal("aws configuration failed", zap.Error(err))
	}

	userRepo := repository.NewGormUserRepository(database.DB)
	cartRepo := repository.NewGormCartRepository(database.DB)
	couponRepo := repository.NewGormCouponRepository(database.DB)
	orderRepo := repository.NewGormOrderRepository(database.DB)
	productRepo := repository.NewMongoProductRepository(mongoClient.Database(cfg.MongoDBName))
	sessionRepo := repository.NewRedisSessionRepository(redisClient)
	featuredCache := repository.NewRedisFeaturedCache(redisClient)

	tokenService, err := services.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	if err != nil {
		logger.Fatal("token service init failed", zap.Error(err))
	}
	authService := services.NewAuthService(userRepo, sessionRepo, tokenService, logger)
	cartService := services.NewCartService(cartRepo, productRepo, logger)
	couponService := services.NewCouponService(couponRepo, logger)
	imageStore := services.NewS3ImageStore(awsCfg, cfg.S3Bucket)
	productService := services.NewProductService(productRepo, featuredCache, imageStore, logger)
	stripeGateway := services.NewStripeService(cfg.StripeSecretKey)
	checkoutService := services.NewCheckoutService(stripeGateway, orderRepo, couponService, cfg.ClientURL, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.SecurityHeaders())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.Register(r, routes.Controllers{
		Auth:     controllers.NewAuthController(authService, cfg.IsProduction()),
		Products: controllers.NewProductController(productService),
		Cart:     controllers.NewCartController(cartService),
		Coupons:  controllers.NewCouponController(couponService),
		Payments: controllers.NewPaymentController(checkoutService),
	}, tokenService, authService)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
