// Order service entry point.  Wires the order store, the Course
// service RPC client and the booking orchestrator, then serves until
// killed.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/course-booking/internal/client"
	"github.com/iliyamo/course-booking/internal/clock"
	"github.com/iliyamo/course-booking/internal/config"
	"github.com/iliyamo/course-booking/internal/database"
	"github.com/iliyamo/course-booking/internal/handler"
	"github.com/iliyamo/course-booking/internal/middleware"
	"github.com/iliyamo/course-booking/internal/model"
	"github.com/iliyamo/course-booking/internal/order"
	"github.com/iliyamo/course-booking/internal/queue"
	"github.com/iliyamo/course-booking/internal/repository"
	"github.com/iliyamo/course-booking/internal/router"
	queue_publisher "github.com/iliyamo/course-booking/internal/service"
	"github.com/iliyamo/course-booking/internal/store"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins

	cfg := config.LoadOrder()
	clk := clock.New()

	st := openStore(cfg.StoreBackend, cfg.DB)
	orders := repository.NewOrderRepo(st)

	courseAPI := client.New(cfg.CourseServiceURL, cfg.SrvSession, cfg.RPCAttempts, cfg.RPCWait)
	orch := order.NewOrchestrator(orders, courseAPI, clk, cfg.PayWindow, cfg.CancelWindow)

	if cfg.AMQPURL != "" {
		amqpURL := cfg.AMQPURL
		orch.SetPaidHook(func(ctx context.Context, o *model.Order) {
			ev := queue.OrderPaidEvent{
				OrderID:    o.ID.String(),
				CourseID:   o.CourseID.String(),
				UserID:     o.UserID.String(),
				PriceCents: o.PriceCents,
				PaidAt:     o.UpdatedAt.Format(time.RFC3339),
			}
			go func() {
				pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = queue_publisher.PublishOrderPaid(pctx, amqpURL, ev)
			}()
		})
	}

	e := echo.New()
	e.HideBanner = true

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterOrder(e, handler.NewOrderHandler(orch))

	addr := ":" + cfg.Port
	log.Printf("order service listening on %s (env=%s store=%s upstream=%s)", addr, cfg.Env, cfg.StoreBackend, cfg.CourseServiceURL)
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
