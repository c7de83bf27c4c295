package handler

import (
	"ration-shop-go/internal/chatbot"
	admindomain "ration-shop-go/internal/domain/admin"
	familydomain "ration-shop-go/internal/domain/family"
	inventorydomain "ration-shop-go/internal/domain/inventory"
	notificationdomain "ration-shop-go/internal/domain/notification"
	orderdomain "ration-shop-go/internal/domain/order"
	otpdomain "ration-shop-go/internal/domain/otp"
	"ration-shop-go/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type Handlers struct {
	Families      *familydomain.Service
	Inventory     *inventorydomain.Service
	Orders        *orderdomain.Service
	OTP           *otpdomain.Service
	Notifications *notificationdomain.Service
	Admins        *admindomain.Service
	Bot           *chatbot.Bot

	validate *validator.Validate
	log      logger.Logger
}

func New(
	families *familydomain.Service,
	inventory *inventorydomain.Service,
	orders *orderdomain.Service,
	otp *otpdomain.Service,
	notifications *notificationdomain.Service,
	admins *admindomain.Service,
	bot *chatbot.Bot,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Families:      families,
		Inventory:     inventory,
		Orders:        orders,
		OTP:           otp,
		Notifications: notifications,
		Admins:        admins,
		Bot:           bot,
		validate:      validator.New(),
		log:           log,
	}
}
