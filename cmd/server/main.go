package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/postpilothq/postpilot/configs"
	"github.com/postpilothq/postpilot/internal/api/handlers"
	"github.com/postpilothq/postpilot/internal/api/middleware"
	job "github.com/postpilothq/postpilot/internal/jobs"
	"github.com/postpilothq/postpilot/internal/media"
	"github.com/postpilothq/postpilot/internal/notify"
	"github.com/postpilothq/postpilot/internal/queue"
	"github.com/postpilothq/postpilot/internal/repository"
	"github.com/postpilothq/postpilot/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	historyRepo := repository.NewSubmissionHistoryRepository(db)
	ledgerRepo := repository.NewPendingPostRepository(rdb)
	profileRepo := repository.NewProfileRepository(rdb, cfg.SecretKey)
	statusRepo := repository.NewConnectionStatusRepository(rdb)

	center := notify.NewCenter(notify.DefaultDismissAfter)
	materializer := media.NewMaterializer(media.NewOSReader(cfg.ScratchDir), nil)

	authService := service.NewAuthService(*cfg, userRepo, profileRepo, nil)
	userService := service.NewUserService(profileRepo)
	storageService := service.NewStorageService(*cfg)
	submitService := service.NewSubmitService(cfg.Webhooks, nil)
	postService := service.NewPostService(ledgerRepo, historyRepo, submitService, materializer, storageService, center)
	accountService := service.NewAccountService(*cfg, statusRepo, center, nil)
	captionService := service.NewCaptionService(*cfg, nil)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Post("/login", auth.SignIn)
	app.Post("/logout", auth.SignOut)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)

	post := handlers.NewPostHandler(postService)
	api.Post("/posts/create", post.CreatePost)
	api.Post("/posts/retry", post.RetryPost)
	api.Get("/posts/pending", post.PendingPost)
	api.Get("/posts/history", post.ListHistory)

	account := handlers.NewAccountHandler(accountService, client)
	api.Get("/accounts/status", account.GetStatus)
	api.Post("/accounts/instagram/poll", account.StartInstagramPoll)

	caption := handlers.NewCaptionHandler(captionService)
	api.Post("/captions/regenerate", caption.Regenerate)

	notification := handlers.NewNotificationHandler(center)
	api.Get("/notifications", notification.Current)
	api.Post("/notifications/hide", notification.Hide)

	// cron jobs
	statusRefreshJob := job.NewStatusRefreshJob(statusRepo, accountService)

	// queue
	queueW := queue.NewQueue(accountService)

	c := cron.New()
	c.AddFunc("@every 00h10m00s", statusRefreshJob.RefreshStatuses)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeConnectionPoll, queueW.HandleConnectionPollTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
