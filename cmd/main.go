package main

import (
	"blog-backend/config"
	"blog-backend/internal/api/comment"
	"blog-backend/internal/api/interaction"
	"blog-backend/internal/api/post"
	"blog-backend/internal/api/user"
	"blog-backend/internal/middleware"
	"blog-backend/internal/repository/mysql"
	"blog-backend/internal/service"
	"blog-backend/internal/storage"
	"blog-backend/internal/util"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 测试数据库连接
	if err := db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	util.Logger.Info("数据库连接池配置完成")

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("postcategory", util.ValidatePostCategory)
		v.RegisterValidation("trendingperiod", util.ValidateTrendingPeriod)
	}

	// 选择存储后端：配置了 S3 就用 S3，否则落本地磁盘
	var store storage.Storage
	if config.AppConfig.S3Bucket != "" {
		store, err = storage.NewS3Client(config.AppConfig.S3Region, config.AppConfig.S3Bucket)
		if err != nil {
			util.Logger.Fatal("初始化S3存储失败", zap.Error(err))
		}
		util.Logger.Info("使用S3存储", zap.String("bucket", config.AppConfig.S3Bucket))
	} else {
		ensureUploadsFolder()
		store, err = storage.NewLocalStorage(config.AppConfig.LocalStoragePath)
		if err != nil {
			util.Logger.Fatal("初始化本地存储失败", zap.Error(err))
		}
		util.Logger.Info("使用本地存储", zap.String("path", config.AppConfig.LocalStoragePath))
	}

	// 初始化存储库、服务和处理器
	userRepo := mysql.NewUserRepository(db)
	postRepo := mysql.NewPostRepository(db)
	commentRepo := mysql.NewCommentRepository(db)
	graphRepo := mysql.NewGraphRepository(db)
	interactionRepo := mysql.NewInteractionRepository(db)

	userService := service.NewUserService(userRepo, postRepo)
	postService := service.NewPostService(postRepo)
	commentService := service.NewCommentService(commentRepo, postRepo)
	graphService := service.NewGraphService(graphRepo, userRepo)
	interactionService := service.NewInteractionService(interactionRepo, postRepo, commentRepo, graphRepo)

	authHandler := user.NewAuthHandler(userService)
	userHandler := user.NewUserHandler(userService, postService, graphService, interactionService, store)
	postHandler := post.NewPostHandler(postService, interactionService, store)
	commentHandler := comment.NewCommentHandler(commentService, interactionService)
	interactionHandler := interaction.NewInteractionHandler(interactionService)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	// 设置 Gin 路由
	r := gin.Default()

	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Access-Control-Allow-Origin",
	}
	r.Use(cors.New(corsConfig))

	// 静态文件的CORS处理
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			c.Header("Access-Control-Allow-Origin", config.AppConfig.FrontendURL)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(200)
				return
			}
		}
		c.Next()
	})

	// 本地存储时提供静态文件服务
	if config.AppConfig.S3Bucket == "" {
		r.Static("/uploads", config.AppConfig.LocalStoragePath)
	}

	authRequired := middleware.AuthMiddleware(userService)
	authOptional := middleware.OptionalAuthMiddleware(userService)

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 认证相关路由
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.GET("/me", authRequired, authHandler.GetMe)
		}

		// 帖子相关路由
		posts := api.Group("/posts")
		{
			posts.GET("", postHandler.ListPosts)
			posts.GET("/id/:id", authOptional, postHandler.GetPostByID)
			posts.GET("/user/:userId", authOptional, postHandler.ListUserPosts)
			posts.POST("", authRequired, postHandler.CreatePost)
			posts.PUT("/:id", authRequired, postHandler.UpdatePost)
			posts.DELETE("/:id", authRequired, postHandler.DeletePost)
			posts.PUT("/:id/like", authRequired, postHandler.ToggleLike)
			posts.POST("/:id/image", authRequired, postHandler.UploadImage)
			posts.GET("/:slug", authOptional, postHandler.GetPostBySlug)
		}

		// 评论相关路由
		comments := api.Group("/comments")
		{
			comments.GET("/post/:postId", commentHandler.ListByPost)
			comments.GET("/user/:userId", commentHandler.ListByUser)
			comments.POST("", authRequired, commentHandler.CreateComment)
			comments.PUT("/:id", authRequired, commentHandler.UpdateComment)
			comments.DELETE("/:id", authRequired, commentHandler.DeleteComment)
			comments.PUT("/:id/like", authRequired, commentHandler.ToggleLike)
		}

		// 用户相关路由
		users := api.Group("/users")
		{
			users.GET("/search", userHandler.SearchUsers)
			users.GET("/bookmarks", authRequired, userHandler.GetBookmarks)
			users.PUT("/follow/:id", authRequired, userHandler.ToggleFollow)
			users.PUT("/bookmark/:postId", authRequired, userHandler.ToggleBookmark)
			users.PUT("/profile", authRequired, userHandler.UpdateProfile)
			users.PUT("/password", authRequired, userHandler.ChangePassword)
			users.DELETE("/account", authRequired, userHandler.DeleteAccount)
			users.POST("/avatar", authRequired, userHandler.UploadAvatar)
			users.GET("/:id", authOptional, userHandler.GetProfile)
			users.GET("/:id/followers", userHandler.GetFollowers)
			users.GET("/:id/following", userHandler.GetFollowing)
			users.GET("/:id/stats", authRequired, userHandler.GetStats)
		}

		// 互动相关路由：热榜、推荐、分析
		interactions := api.Group("/interactions")
		{
			interactions.GET("/trending", interactionHandler.GetTrending)
			interactions.GET("/tags/popular", interactionHandler.GetPopularTags)
			interactions.GET("/recommendations", authRequired, interactionHandler.GetRecommendations)
			interactions.GET("/analytics/post/:id", authRequired, interactionHandler.GetPostAnalytics)
			interactions.POST("/report", authRequired, interactionHandler.ReportContent)
		}
	}

	// 创建一个带有超时的 http.Server
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	if config.AppConfig.Debug {
		for _, route := range r.Routes() {
			util.Logger.Info("路由",
				zap.String("method", route.Method),
				zap.String("path", route.Path))
		}
	}

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// 确保上传文件夹存在
func ensureUploadsFolder() {
	uploadsPath := config.AppConfig.LocalStoragePath
	if err := os.MkdirAll(uploadsPath, 0755); err != nil {
		util.Logger.Fatal("创建上传文件夹失败", zap.Error(err), zap.String("path", uploadsPath))
	}
}
