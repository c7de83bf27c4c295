package app

import (
	"context"
	"net/http"

	"ration-shop-go/internal/chatbot"
	"ration-shop-go/internal/config"
	"ration-shop-go/internal/db"
	admindomain "ration-shop-go/internal/domain/admin"
	familydomain "ration-shop-go/internal/domain/family"
	inventorydomain "ration-shop-go/internal/domain/inventory"
	notificationdomain "ration-shop-go/internal/domain/notification"
	orderdomain "ration-shop-go/internal/domain/order"
	otpdomain "ration-shop-go/internal/domain/otp"
	"ration-shop-go/internal/mail"
	"ration-shop-go/internal/repository/inmemory"
	adminrepo "ration-shop-go/internal/repository/postgres/admin"
	familyrepo "ration-shop-go/internal/repository/postgres/family"
	inventoryrepo "ration-shop-go/internal/repository/postgres/inventory"
	notificationrepo "ration-shop-go/internal/repository/postgres/notification"
	orderrepo "ration-shop-go/internal/repository/postgres/order"
	otprepo "ration-shop-go/internal/repository/postgres/otp"
	"ration-shop-go/internal/transport/httpserver"
	"ration-shop-go/internal/transport/httpserver/handler"
	"ration-shop-go/pkg/logger"

	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	stopSweeps context.CancelFunc
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: running migrations")
	if err := db.Migrate(dbConn, log); err != nil {
		return nil, err
	}

	familyRepo := familyrepo.NewPostgres(dbConn)
	inventoryRepo := inventoryrepo.NewPostgres(dbConn)
	orderRepo := orderrepo.NewPostgres(dbConn)
	otpRepo := otprepo.NewPostgres(dbConn)
	notificationRepo := notificationrepo.NewPostgres(dbConn)
	adminRepo := adminrepo.NewPostgres(dbConn)

	sender := mail.NewSender(cfg.SMTP, log)

	families := familydomain.NewServiceWithCache(familyRepo, inmemory.NewInMemoryFamilyCache())
	notifications := notificationdomain.NewService(notificationRepo, log)
	inventory := inventorydomain.NewService(inventoryRepo, families, notifications, cfg.Sweep.ItemMaxAge, log)
	otp := otpdomain.NewService(otpRepo, familyRepo, sender, cfg.Checkout.OTPTTL, log)
	orders := orderdomain.NewService(orderRepo, families, otp, cfg.Checkout.LockTimeout, log)
	admins := admindomain.NewService(adminRepo, cfg.Admin.JWTSecret, cfg.Admin.TokenTTL, log)
	bot := chatbot.New(inventory)

	sweepCtx, stopSweeps := context.WithCancel(context.Background())
	inventory.StartPurgeLoop(sweepCtx, cfg.Sweep.Interval)
	otp.StartPurgeLoop(sweepCtx, cfg.Sweep.Interval)
	notifications.StartPurgeLoop(sweepCtx, cfg.Sweep.Interval, cfg.Sweep.NotificationMaxAge)

	handlers := handler.New(families, inventory, orders, otp, notifications, admins, bot, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		stopSweeps: stopSweeps,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.stopSweeps != nil {
		a.stopSweeps()
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
