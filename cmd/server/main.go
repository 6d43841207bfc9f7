package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bronla/gateway/internal/api"
	"github.com/bronla/gateway/internal/app"
	"github.com/bronla/gateway/internal/booking"
	"github.com/bronla/gateway/internal/browse"
	"github.com/bronla/gateway/internal/config"
	"github.com/bronla/gateway/internal/handler"
	"github.com/bronla/gateway/internal/middleware"
	"github.com/bronla/gateway/internal/notify"
	"github.com/bronla/gateway/internal/push"
	"github.com/bronla/gateway/internal/router"
	"github.com/bronla/gateway/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := app.NewLogger(cfg.Env)
	defer log.Sync()

	rdb := config.NewRedisClient()
	sessionTTL := time.Duration(cfg.SessionTTLDays) * 24 * time.Hour

	apiClient := api.New(cfg.APIURL, log)
	store := session.NewStore(rdb, sessionTTL, log)
	cookies := session.NewCookies(cfg.SessionSecret, sessionTTL)
	sessions := session.NewManager(store, apiClient, log)

	flows := booking.NewFlowStore(apiClient, log)
	browseSvc := browse.NewService(apiClient, log)
	defer browseSvc.Close()

	bridge := push.NewBridge(apiClient, log)

	hub := notify.NewHub()
	go hub.Run()
	defer hub.Stop()
	go notify.StartConsumer(cfg.AMQPURL, hub, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = app.NewRequestValidator()
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.LoadSession(store, cookies))

	authH := handler.NewAuthHandler(sessions, cookies, sessionTTL)
	browseH := handler.NewBrowseHandler(browseSvc, apiClient)
	bookingH := handler.NewBookingHandler(flows, sessions, apiClient, log)
	reservationH := handler.NewReservationHandler(sessions)
	ownerH := handler.NewOwnerHandler(sessions, browseSvc)
	adminH := handler.NewAdminHandler(sessions, browseSvc)
	pushH := handler.NewPushHandler(bridge, sessions)
	notifyH := handler.NewNotifyHandler(hub, sessions, log)

	router.RegisterRoutes(e, pushH)
	router.RegisterAuth(e, authH)
	router.RegisterBrowse(e, browseH, config.LoadCacheConfig(), rdb)
	router.RegisterBooking(e, bookingH)
	router.RegisterReservations(e, reservationH)
	router.RegisterOwner(e, ownerH, notifyH)
	router.RegisterAdmin(e, adminH)
	router.RegisterPush(e, pushH)

	addr := ":" + cfg.Port
	log.Info("gateway listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
