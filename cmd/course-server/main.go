// Course service entry point.  Wires the stores, the seat reservation
// engine and the HTTP surface, then serves until killed.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/course-booking/internal/clock"
	"github.com/iliyamo/course-booking/internal/config"
	"github.com/iliyamo/course-booking/internal/database"
	"github.com/iliyamo/course-booking/internal/handler"
	"github.com/iliyamo/course-booking/internal/middleware"
	"github.com/iliyamo/course-booking/internal/queue"
	"github.com/iliyamo/course-booking/internal/repository"
	"github.com/iliyamo/course-booking/internal/reservation"
	"github.com/iliyamo/course-booking/internal/router"
	"github.com/iliyamo/course-booking/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins

	cfg := config.LoadCourse()
	clk := clock.New()

	st := openStore(cfg.StoreBackend, cfg.DB)
	users := repository.NewUserRepo(st)
	sessions := repository.NewSessionRepo(st)
	courses := repository.NewCourseRepo(st)

	engine := reservation.NewEngine(courses, clk, cfg.ReservationTTL)

	e := echo.New()
	e.HideBanner = true

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	authH := handler.NewAuthHandler(cfg, users, sessions, clk)
	userH := handler.NewUserHandler(users)
	courseH := handler.NewCourseHandler(cfg, courses, engine, clk)
	router.RegisterCourse(e, authH, userH, courseH, sessions, cfg.JWTSecret, cfg.SrvSession, clk)

	if cfg.AMQPURL != "" {
		go func() {
			if err := queue.StartBookingConsumer(cfg.AMQPURL); err != nil {
				log.Printf("booking consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Printf("course service listening on %s (env=%s store=%s)", addr, cfg.Env, cfg.StoreBackend)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// openStore picks the persistence backend.  Startup fails hard on a
// bad MySQL configuration rather than limping along in memory.
func openStore(backend string, db config.DBConfig) store.Store {
	switch backend {
	case "mysql":
		conn, err := database.Open(db.User, db.Pass, db.Host, db.Port, db.Name)
		if err != nil {
			log.Fatalf("mysql open: %v", err)
		}
		s := store.NewMySQL(conn)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.EnsureSchema(ctx); err != nil {
			log.Fatalf("mysql schema: %v", err)
		}
		return s
	default:
		return store.NewMemory()
	}
}
