package pdf

import (
	"fmt"
	"strings"
	"time"

	documentdomain "github.com/smallfirm/facture/internal/document/domain"
	"github.com/smallfirm/facture/internal/money"
)

var unitLabels = [...]string{"jour", "heure", "unité", "clic", "page", "ligne", "mot", "caractère"}

// FormatAmount renders a French euro amount: no decimals when the
// fractional part is zero, exactly two otherwise. "1 234 €", "1 234,56 €".
func FormatAmount(v money.Money) string {
	var digits string
	if money.Equal(money.Floor(v), v) {
		digits = v.StringFixed(0)
	} else {
		digits = v.StringFixed(2)
	}

	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	intPart, fracPart, hasFrac := strings.Cut(digits, ".")
	out := groupThousands(intPart)
	if hasFrac {
		out += "," + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out + " €"
}

// FormatPercent renders a fractional rate as a floored integer
// percentage: 0.2 → "20%".
func FormatPercent(rate money.Money) string {
	return money.Floor(money.Mul(rate, money.New(100))).String() + "%"
}

// FormatQuantity renders a quantity with its pluralized French unit
// label: "5 jours", "1 heure", "2,5 pages".
func FormatQuantity(q money.Money, unit documentdomain.Unit) string {
	label := unitLabels[0]
	if int(unit) >= 0 && int(unit) < len(unitLabels) {
		label = unitLabels[unit]
	}
	if money.Compare(q, money.New(1)) > 0 {
		label += "s"
	}
	return fmt.Sprintf("%s %s", strings.ReplaceAll(q.String(), ".", ","), label)
}

// FormatDate renders DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	return strings.Join(parts, " ")
}
