// Package invoice renders plain-text order receipts in English or Tamil.
package invoice

import (
	"fmt"
	"strings"

	"ration-shop-go/internal/domain/order"
)

const (
	LangEnglish = "en"
	LangTamil   = "ta"
)

type labels struct {
	title      string
	orderToken string
	family     string
	date       string
	item       string
	quantity   string
	unitPrice  string
	lineTotal  string
	total      string
	status     string
	footer     string
}

var labelSets = map[string]labels{
	LangEnglish: {
		title:      "RATION SHOP INVOICE",
		orderToken: "Order Token",
		family:     "Family Code",
		date:       "Date",
		item:       "Item",
		quantity:   "Qty",
		unitPrice:  "Unit Price",
		lineTotal:  "Amount",
		total:      "Total",
		status:     "Payment Status",
		footer:     "Thank you for your purchase.",
	},
	LangTamil: {
		title:      "ரேஷன் கடை ரசீது",
		orderToken: "ஆர்டர் டோக்கன்",
		family:     "குடும்ப அட்டை எண்",
		date:       "தேதி",
		item:       "பொருள்",
		quantity:   "அளவு",
		unitPrice:  "விலை",
		lineTotal:  "தொகை",
		total:      "மொத்தம்",
		status:     "கட்டண நிலை",
		footer:     "உங்கள் வாங்குதலுக்கு நன்றி.",
	},
}

// itemNamesTamil translates the staple item names; unknown items keep their
// stored name.
var itemNamesTamil = map[string]string{
	"rice":  "அரிசி",
	"sugar": "சர்க்கரை",
	"wheat": "கோதுமை",
	"dal":   "பருப்பு",
	"oil":   "எண்ணெய்",
	"salt":  "உப்பு",
}

var statusTamil = map[string]string{
	order.StatusPaid:    "செலுத்தப்பட்டது",
	order.StatusPending: "நிலுவையில்",
	order.StatusFailed:  "தோல்வி",
}

// Render produces the receipt text for an order. Unknown languages fall back
// to English.
func Render(o *order.Order, familyCode, lang string) string {
	set, ok := labelSets[lang]
	if !ok {
		set = labelSets[LangEnglish]
		lang = LangEnglish
	}

	var b strings.Builder
	rule := strings.Repeat("=", 56)

	fmt.Fprintf(&b, "%s\n%s\n%s\n", rule, center(set.title, 56), rule)
	fmt.Fprintf(&b, "%s: %s\n", set.orderToken, o.Token)
	fmt.Fprintf(&b, "%s: %s\n", set.family, familyCode)
	fmt.Fprintf(&b, "%s: %s\n", set.date, o.CreatedAt.Format("02 Jan 2006 15:04"))
	fmt.Fprintf(&b, "%s: %s\n", set.status, localizeStatus(o.PaymentStatus, lang))
	b.WriteString(rule + "\n")

	fmt.Fprintf(&b, "%-24s %5s %12s %12s\n", set.item, set.quantity, set.unitPrice, set.lineTotal)
	b.WriteString(strings.Repeat("-", 56) + "\n")
	for _, line := range o.Items {
		lineTotal := line.UnitPrice * float64(line.Quantity)
		fmt.Fprintf(&b, "%-24s %5d %12.2f %12.2f\n",
			localizeItem(line.ItemName, lang), line.Quantity, line.UnitPrice, lineTotal)
	}
	b.WriteString(strings.Repeat("-", 56) + "\n")

	fmt.Fprintf(&b, "%-30s %25.2f\n", set.total, o.TotalPrice)
	b.WriteString(rule + "\n")
	b.WriteString(set.footer + "\n")

	return b.String()
}

func localizeItem(name, lang string) string {
	if lang != LangTamil {
		return name
	}
	if translated, ok := itemNamesTamil[strings.ToLower(strings.TrimSpace(name))]; ok {
		return translated
	}
	return name
}

func localizeStatus(status, lang string) string {
	if lang != LangTamil {
		return status
	}
	if translated, ok := statusTamil[status]; ok {
		return translated
	}
	return status
}

func center(s string, width int) string {
	pad := width - len([]rune(s))
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad/2) + s
}
