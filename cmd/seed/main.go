// Command seed fills a development database with demo data: an admin
// account, a few families with members, and area stock.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"ration-shop-go/internal/config"
	"ration-shop-go/internal/db"
	admindomain "ration-shop-go/internal/domain/admin"
	familydomain "ration-shop-go/internal/domain/family"
	inventorydomain "ration-shop-go/internal/domain/inventory"
	notificationdomain "ration-shop-go/internal/domain/notification"
	adminrepo "ration-shop-go/internal/repository/postgres/admin"
	familyrepo "ration-shop-go/internal/repository/postgres/family"
	inventoryrepo "ration-shop-go/internal/repository/postgres/inventory"
	notificationrepo "ration-shop-go/internal/repository/postgres/notification"
	"ration-shop-go/pkg/logger"

	"github.com/brianvoe/gofakeit/v6"
)

var areas = []string{"Anna Nagar", "T Nagar", "Velachery"}

var staples = []struct {
	name  string
	price float64
}{
	{"Rice", 25.00},
	{"Sugar", 40.00},
	{"Wheat", 30.00},
	{"Dal", 90.00},
	{"Oil", 120.00},
}

func main() {
	log := logger.NewFromEnv()

	if err := run(log); err != nil {
		log.Critical("seed: failed", "err", err)
		os.Exit(1)
	}
	log.Info("seed: done")
}

func run(log logger.Logger) error {
	cfg, err := config.Load(log)
	if err != nil {
		return err
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return err
	}
	if err := db.Migrate(dbConn, log); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	gofakeit.Seed(0)

	admins := admindomain.NewService(adminrepo.NewPostgres(dbConn), cfg.Admin.JWTSecret, cfg.Admin.TokenTTL, log)
	if err := admins.Register(ctx, "admin", "admin12345"); err != nil && !errors.Is(err, admindomain.ErrUsernameTaken) {
		return fmt.Errorf("seed admin: %w", err)
	}

	families := familydomain.NewService(familyrepo.NewPostgres(dbConn))
	notifications := notificationdomain.NewService(notificationrepo.NewPostgres(dbConn), log)
	inventory := inventorydomain.NewService(inventoryrepo.NewPostgres(dbConn), families, notifications, cfg.Sweep.ItemMaxAge, log)

	for i, area := range areas {
		code := fmt.Sprintf("FAM%04d", 1000+i)
		fam, err := families.CreateFamily(ctx, code, area)
		if err != nil {
			if errors.Is(err, familydomain.ErrFamilyExists) {
				log.Info("seed: family exists, skipping", "code", code)
				continue
			}
			return fmt.Errorf("seed family %s: %w", code, err)
		}

		memberCount := gofakeit.Number(1, 5)
		for j := 0; j < memberCount; j++ {
			email := gofakeit.Email()
			if _, err := families.AddMember(ctx, familydomain.CreateMemberInput{
				FamilyCode:   fam.Code,
				Name:         gofakeit.Name(),
				AadharNumber: gofakeit.DigitN(12),
				Email:        &email,
			}); err != nil {
				return fmt.Errorf("seed member for %s: %w", fam.Code, err)
			}
		}
		log.Info("seed: family created", "code", fam.Code, "area", fam.Area, "members", memberCount)
	}

	for _, area := range areas {
		for _, staple := range staples {
			if _, err := inventory.AddItem(ctx, inventorydomain.CreateItemInput{
				Name:          staple.name,
				Area:          area,
				Price:         staple.price,
				TotalQuantity: gofakeit.Number(50, 200),
				Limit1:        2,
				Limit2:        4,
				Limit3:        6,
				Limit4:        8,
			}); err != nil {
				return fmt.Errorf("seed item %s in %s: %w", staple.name, area, err)
			}
		}
	}

	sqlDB, err := dbConn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
