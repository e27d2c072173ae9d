// Package routesはroutingを行います。
package routes

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"nagoyameshi/internal/access"
	"nagoyameshi/internal/billing"
	"nagoyameshi/internal/config"
	"nagoyameshi/internal/handlers"
	"nagoyameshi/internal/repositories"
	"nagoyameshi/internal/services"
	"nagoyameshi/internal/storage"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(db *sqlx.DB, cfg *config.Config, provider billing.Provider, images storage.ImageStore, mailer services.Mailer) *gin.Engine {
	handlers.RegisterValidators()

	r := gin.Default()

	// CORS対策
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// リポジトリ
	userRepo := repositories.NewUserRepository(db)
	adminRepo := repositories.NewAdminRepository(db)
	resetRepo := repositories.NewSQLResetTokenRepo(db)
	memberSessionRepo := repositories.NewMemberSessionRepository(db)
	adminSessionRepo := repositories.NewAdminSessionRepository(db)
	subscriptionRepo := repositories.NewSubscriptionRepository(db)
	restaurantRepo := repositories.NewRestaurantRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	holidayRepo := repositories.NewRegularHolidayRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	favoriteRepo := repositories.NewFavoriteRepository(db)
	termRepo := repositories.NewTermRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)

	// サービス
	memberSessions := services.NewSessionService(services.NewJWTService(cfg.MemberJWTSecret, string(access.RealmMember)), memberSessionRepo)
	adminSessions := services.NewSessionService(services.NewJWTService(cfg.AdminJWTSecret, string(access.RealmAdmin)), adminSessionRepo)
	userService := services.NewUserService(userRepo, resetRepo, memberSessions, mailer, cfg.FrontendURL)
	adminService := services.NewAdminService(adminRepo)
	subscriptionService := services.NewSubscriptionService(userRepo, subscriptionRepo, provider, cfg.StripePremiumPriceID)
	restaurantService := services.NewRestaurantService(restaurantRepo, categoryRepo, holidayRepo, images)
	categoryService := services.NewCategoryService(categoryRepo)
	reviewService := services.NewReviewService(reviewRepo, restaurantRepo)
	reservationService := services.NewReservationService(reservationRepo, restaurantRepo)
	favoriteService := services.NewFavoriteService(favoriteRepo, restaurantRepo)
	termService := services.NewTermService(termRepo)
	companyService := services.NewCompanyService(companyRepo)
	dashboardService := services.NewDashboardService(userService, subscriptionService, restaurantService, reservationService, cfg.PremiumMonthlyFee)

	// ハンドラー
	secure := cfg.CookieSecure
	userHandler := handlers.NewUserHandler(userService, memberSessions, secure)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService, favoriteService, termService, companyService, secure)
	reviewHandler := handlers.NewReviewHandler(reviewService, restaurantService, secure)
	reservationHandler := handlers.NewReservationHandler(reservationService, restaurantService, secure)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService, secure)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, userService, secure)
	adminHandler := handlers.NewAdminHandler(adminService, adminSessions, userService, dashboardService, secure)
	adminRestaurantHandler := handlers.NewAdminRestaurantHandler(restaurantService, secure)
	adminCategoryHandler := handlers.NewAdminCategoryHandler(categoryService, secure)
	adminTermHandler := handlers.NewAdminTermHandler(termService, secure)
	adminCompanyHandler := handlers.NewAdminCompanyHandler(companyService, secure)

	g := &guard{members: memberSessions, admins: adminSessions, subscriptions: subscriptionService, secureCookies: secure}

	// ルーティング
	r.GET("/api/hello", handlers.HelloHandler)
	r.GET("/api/dbcheck", handlers.DBCheckHandler(db.Ping))

	if mem, ok := images.(*storage.MemoryStore); ok {
		r.GET("/storage/*key", func(c *gin.Context) {
			body, contentType, found := mem.Get(strings.TrimPrefix(c.Param("key"), "/"))
			if !found {
				c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
				return
			}
			c.Data(http.StatusOK, contentType, body)
		})
	}

	public := r.Group("/")
	public.Use(g.RejectAdmin(), g.OptionalMember())
	{
		public.GET("/", restaurantHandler.HomeHandler)
		public.GET("/restaurants", restaurantHandler.IndexHandler)
		public.GET("/restaurants/:id", restaurantHandler.ShowHandler)
		public.GET("/terms", restaurantHandler.TermsHandler)
		public.GET("/company", restaurantHandler.CompanyHandler)

		guest := public.Group("/")
		guest.Use(g.GuestOnly())
		{
			guest.GET("/register", userHandler.RegisterFormHandler)
			guest.POST("/register", userHandler.RegisterHandler)
			guest.GET("/login", userHandler.LoginFormHandler)
			guest.POST("/login", userHandler.LoginHandler)
			guest.POST("/forgot-password", userHandler.ForgotPasswordHandler)
			guest.POST("/reset-password/:token", userHandler.ResetPasswordHandler)
		}

		member := public.Group("/")
		member.Use(g.RequireMember())
		{
			member.POST("/logout", userHandler.LogoutHandler)
			member.GET("/user", userHandler.MypageHandler)
			member.GET("/user/:id/edit", userHandler.EditHandler)
			member.PATCH("/user/:id", userHandler.UpdateHandler)
			member.GET("/restaurants/:id/reviews", reviewHandler.IndexHandler)

			free := member.Group("/")
			free.Use(g.RequireNotSubscribed())
			{
				free.GET("/subscription/create", subscriptionHandler.CreateHandler)
				free.POST("/subscription/store", subscriptionHandler.StoreHandler)
			}

			premium := member.Group("/")
			premium.Use(g.RequireSubscribed())
			{
				premium.GET("/subscription/edit", subscriptionHandler.EditHandler)
				premium.PATCH("/subscription/update", subscriptionHandler.UpdateHandler)
				premium.GET("/subscription/cancel", subscriptionHandler.CancelHandler)
				premium.DELETE("/subscription/destroy", subscriptionHandler.DestroyHandler)

				premium.GET("/restaurants/:id/reviews/create", reviewHandler.CreateHandler)
				premium.POST("/restaurants/:id/reviews", reviewHandler.StoreHandler)
				premium.GET("/restaurants/:id/reviews/:review_id/edit", reviewHandler.EditHandler)
				premium.PATCH("/restaurants/:id/reviews/:review_id", reviewHandler.UpdateHandler)
				premium.DELETE("/restaurants/:id/reviews/:review_id", reviewHandler.DestroyHandler)

				premium.GET("/reservations", reservationHandler.IndexHandler)
				premium.DELETE("/reservations/:id", reservationHandler.DestroyHandler)
				premium.GET("/restaurants/:id/reservations/create", reservationHandler.CreateHandler)
				premium.POST("/restaurants/:id/reservations", reservationHandler.StoreHandler)

				premium.GET("/favorites", favoriteHandler.IndexHandler)
				premium.POST("/favorites/:id", favoriteHandler.StoreHandler)
				premium.DELETE("/favorites/:id", favoriteHandler.DestroyHandler)
			}
		}
	}

	admin := r.Group("/admin")
	{
		admin.GET("/login", g.AdminGuestOnly(), adminHandler.LoginFormHandler)
		admin.POST("/login", g.AdminGuestOnly(), adminHandler.LoginHandler)

		authorized := admin.Group("/")
		authorized.Use(g.AdminAuth())
		{
			authorized.POST("/logout", adminHandler.LogoutHandler)
			authorized.GET("/home", adminHandler.HomeHandler)

			authorized.GET("/users", adminHandler.UsersHandler)
			authorized.GET("/users/:id", adminHandler.UserHandler)

			authorized.GET("/restaurants", adminRestaurantHandler.IndexHandler)
			authorized.GET("/restaurants/create", adminRestaurantHandler.CreateHandler)
			authorized.POST("/restaurants", adminRestaurantHandler.StoreHandler)
			authorized.GET("/restaurants/:id", adminRestaurantHandler.ShowHandler)
			authorized.GET("/restaurants/:id/edit", adminRestaurantHandler.EditHandler)
			authorized.PATCH("/restaurants/:id", adminRestaurantHandler.UpdateHandler)
			authorized.DELETE("/restaurants/:id", adminRestaurantHandler.DestroyHandler)

			authorized.GET("/categories", adminCategoryHandler.IndexHandler)
			authorized.POST("/categories", adminCategoryHandler.StoreHandler)
			authorized.PATCH("/categories/:id", adminCategoryHandler.UpdateHandler)
			authorized.DELETE("/categories/:id", adminCategoryHandler.DestroyHandler)

			authorized.GET("/terms", adminTermHandler.IndexHandler)
			authorized.POST("/terms", adminTermHandler.StoreHandler)
			authorized.GET("/terms/edit", adminTermHandler.EditHandler)
			authorized.PATCH("/terms/:id", adminTermHandler.UpdateHandler)
			authorized.DELETE("/terms/:id", adminTermHandler.DestroyHandler)

			authorized.GET("/company", adminCompanyHandler.IndexHandler)
			authorized.GET("/company/edit", adminCompanyHandler.IndexHandler)
			authorized.PATCH("/company/:id", adminCompanyHandler.UpdateHandler)
		}
	}

	return r
}
