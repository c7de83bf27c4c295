package invoice

import (
	"strings"
	"testing"
	"time"

	"ration-shop-go/internal/domain/order"
)

func sampleOrder() *order.Order {
	return &order.Order{
		ID:            "order-1",
		FamilyID:      "fam-1",
		Token:         "ab12cd34",
		TotalPrice:    65.00,
		OTPCode:       "123456",
		PaymentStatus: order.StatusPaid,
		CreatedAt:     time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Items: []order.OrderItem{
			{ItemName: "Rice", Quantity: 2, UnitPrice: 12.50, Position: 1},
			{ItemName: "Sugar", Quantity: 1, UnitPrice: 40.00, Position: 2},
		},
	}
}

func TestRenderEnglish(t *testing.T) {
	text := Render(sampleOrder(), "FAM1001", LangEnglish)

	for _, want := range []string{
		"RATION SHOP INVOICE",
		"Order Token: ab12cd34",
		"Family Code: FAM1001",
		"14 Mar 2026 10:30",
		"Rice",
		"Sugar",
		"65.00",
		order.StatusPaid,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("receipt missing %q:\n%s", want, text)
		}
	}
}

func TestRenderTamilTranslatesItemsAndStatus(t *testing.T) {
	text := Render(sampleOrder(), "FAM1001", LangTamil)

	if !strings.Contains(text, "அரிசி") {
		t.Errorf("expected rice translated, got:\n%s", text)
	}
	if !strings.Contains(text, "சர்க்கரை") {
		t.Errorf("expected sugar translated, got:\n%s", text)
	}
	if !strings.Contains(text, "செலுத்தப்பட்டது") {
		t.Errorf("expected paid status translated, got:\n%s", text)
	}
	if strings.Contains(text, "RATION SHOP INVOICE") {
		t.Error("Tamil receipt must not carry the English title")
	}
}

func TestRenderTamilKeepsUnknownItemName(t *testing.T) {
	o := sampleOrder()
	o.Items = []order.OrderItem{{ItemName: "Kerosene", Quantity: 1, UnitPrice: 30, Position: 1}}

	text := Render(o, "FAM1001", LangTamil)
	if !strings.Contains(text, "Kerosene") {
		t.Errorf("untranslated item must keep its stored name:\n%s", text)
	}
}

func TestRenderUnknownLanguageFallsBack(t *testing.T) {
	text := Render(sampleOrder(), "FAM1001", "fr")

	if !strings.Contains(text, "RATION SHOP INVOICE") {
		t.Errorf("unknown language must fall back to English:\n%s", text)
	}
}
