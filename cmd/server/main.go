package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/config"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/events"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/handler"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/jobs"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/middleware"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/policy"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/repository"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/service"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := seedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if cfg.AppEnv == "development" {
		if err := seedAdminAccount(db); err != nil {
			log.Fatalf("failed to seed admin account: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, running without realtime push and action guards")
	}

	policyCfg := policy.DefaultConfig()
	clock := clockwork.NewRealClock()
	bus := events.NewBus()

	accountRepo := repository.NewAccountRepository(db)
	rewardRepo := repository.NewRewardActionRepository(db)
	violationRepo := repository.NewViolationRepository(db)
	bonusRepo := repository.NewBonusRequestRepository(db)
	postRepo := repository.NewPostRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	actionGuard := service.NewActionGuard(redisClient, cfg.ActionGuardTTL)
	rewardService := service.NewRewardService(policyCfg, accountRepo, rewardRepo, activityRepo, bus, actionGuard, clock)
	violationService := service.NewViolationService(policyCfg, accountRepo, violationRepo, service.WindowDedup{Repo: violationRepo, Window: time.Minute}, bus, clock)
	sweepService := service.NewSweepService(policyCfg, accountRepo, activityRepo, violationRepo, bus, clock)
	bonusService := service.NewBonusService(policyCfg, bonusRepo, postRepo, rewardService, bus, clock)
	notificationService := service.NewNotificationService(notificationRepo, redisClient, bus)
	profileService := service.NewProfileService(accountRepo, activityRepo, clock)
	authService := service.NewAuthService(accountRepo, rewardService, cfg)

	authHandler := handler.NewAuthHandler(authService)
	actionHandler := handler.NewActionHandler(rewardService, postRepo)
	rewardHandler := handler.NewRewardHandler(rewardService)
	profileHandler := handler.NewProfileHandler(profileService)
	bonusHandler := handler.NewBonusHandler(bonusService)
	adminHandler := handler.NewAdminHandler(violationService, bonusService, sweepService, rewardService)
	notificationHandler := handler.NewNotificationHandler(notificationService, redisClient)

	router := gin.Default()
	setupCORS(router, cfg.AllowedOrigins)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	authMiddleware := middleware.NewAuthMiddleware(accountRepo, cfg.JWTSecret)

	api.Use(authMiddleware.RequireAuth())
	{
		api.GET("/me", profileHandler.Me)
		api.PUT("/me", profileHandler.UpdateProfile)

		api.POST("/actions", actionHandler.ReportAction)
		api.GET("/rewards/history", rewardHandler.History)
		api.GET("/rewards/summary", rewardHandler.DailySummary)

		api.POST("/posts/:post_id/bonus-request", bonusHandler.Submit)
		api.GET("/bonus-requests", bonusHandler.ListMine)

		api.GET("/notifications", notificationHandler.GetNotifications)
		api.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		api.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		api.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		api.GET("/ws/notifications", notificationHandler.HandleWebSocket)

		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.POST("/violations", adminHandler.RecordViolation)
			admin.GET("/bonus-requests", adminHandler.ListPendingBonusRequests)
			admin.POST("/bonus-requests/:id/resolve", adminHandler.ResolveBonusRequest)
			admin.POST("/sweep", adminHandler.TriggerSweep)
			admin.POST("/accounts/:id/reconcile", adminHandler.ReconcileAccount)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go notificationService.StartWorker(ctx)

	scheduler := jobs.NewScheduler(sweepService)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	log.Printf("🌱 FUN FARM policy engine listening on :%s (policy %s)", cfg.Port, policyCfg.Version)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.Account{},
		&model.Post{},
		&model.RewardAction{},
		&model.ViolationRecord{},
		&model.BonusRequest{},
		&model.ActivityLog{},
		&model.Notification{},
	)
}

func seedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: "admin", Description: "Super administrator"},
		{Name: "member", Description: "Regular member"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func seedAdminAccount(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.Account{}).
		Where("email = ?", "admin@funfarm.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin account already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminAccount := model.Account{
		Username:     "admin",
		Email:        "admin@funfarm.local",
		PasswordHash: string(hashedPasswordBytes),
		RoleID:       &adminRole.ID,
	}

	if err := db.Create(&adminAccount).Error; err != nil {
		return err
	}

	log.Println("✅ Admin account seeded successfully")
	log.Println("   Email: admin@funfarm.local")
	log.Println("   Password: admin123")

	return nil
}
