// Package chatbot answers common shop questions with a keyword responder
// backed by live inventory.
package chatbot

import (
	"context"
	"fmt"
	"strings"

	"ration-shop-go/internal/domain/inventory"
)

// Stock is the inventory slice the responder consults.
type Stock interface {
	AreaStock(ctx context.Context, area string) ([]inventory.RationItem, error)
	FindByName(ctx context.Context, nameFragment, area string) ([]inventory.RationItem, error)
}

type Bot struct {
	stock Stock
}

func New(stock Stock) *Bot {
	return &Bot{stock: stock}
}

var itemKeywords = []string{"rice", "sugar", "wheat", "dal", "oil", "salt"}

// Reply matches the message against a fixed rule set, most specific first.
// Item names and stock questions consult the area's live inventory; anything
// unrecognized falls through to a help prompt.
func (b *Bot) Reply(ctx context.Context, message, area string) (string, error) {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return "Please type a question, for example: \"is rice available?\"", nil
	}

	switch {
	case containsAny(msg, "hello", "hi ", "vanakkam") || msg == "hi":
		return "Hello! Ask me about item availability, prices, timings or how to order.", nil

	case containsAny(msg, "stock", "available items", "what do you have"):
		return b.stockSummary(ctx, area)

	case containsAny(msg, itemKeywords...):
		return b.itemAnswer(ctx, msg, area)

	case containsAny(msg, "timing", "open", "close", "hours"):
		return "The ration shop is open 9 AM to 5 PM, Monday through Saturday.", nil

	case containsAny(msg, "price", "cost", "how much"):
		return "Ask about a specific item, like \"price of rice\", and I will check the current rate for your area.", nil

	case containsAny(msg, "order", "buy", "purchase"):
		return "Add items to your cart on the stock page, verify the OTP sent to your email, and your order token will be issued.", nil

	case containsAny(msg, "deliver", "pickup", "collect"):
		return "Orders are collected at your area's ration shop. Show your order token and OTP at the counter.", nil

	case containsAny(msg, "bye", "thank"):
		return "You're welcome! Visit again.", nil
	}

	return "Sorry, I did not understand. Ask about stock, prices, timings or how to order.", nil
}

func (b *Bot) stockSummary(ctx context.Context, area string) (string, error) {
	items, err := b.stock.AreaStock(ctx, area)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "No items are in stock for your area right now.", nil
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return fmt.Sprintf("In stock for your area: %s.", strings.Join(names, ", ")), nil
}

func (b *Bot) itemAnswer(ctx context.Context, msg, area string) (string, error) {
	for _, keyword := range itemKeywords {
		if !strings.Contains(msg, keyword) {
			continue
		}

		items, err := b.stock.FindByName(ctx, keyword, area)
		if err != nil {
			return "", err
		}
		if len(items) == 0 {
			return fmt.Sprintf("Sorry, %s is out of stock in your area right now.", keyword), nil
		}

		item := items[0]
		return fmt.Sprintf("%s is available at ₹%.2f per unit, %d units in stock.",
			item.Name, item.Price, item.TotalQuantity), nil
	}
	return "Sorry, I did not understand. Ask about stock, prices, timings or how to order.", nil
}

func containsAny(msg string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}
