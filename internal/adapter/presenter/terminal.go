// Package presenter renders the storefront shell for terminals.
package presenter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
)

var (
	navStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	priceStyle   = lipgloss.NewStyle().Bold(true)
	soldOutStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	cardStyle    = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder())
)

func RenderNavBar(nav domain.NavBar) string {
	left := nav.Title
	if nav.ShowLogo {
		left = fmt.Sprintf("%s  <%s>", nav.Title, nav.LogoURL)
	}
	return navStyle.Render(left + "    [" + nav.AdminPath + "]")
}

// RenderCatalog lists products with their price and per-size stock.
func RenderCatalog(products []domain.Product) string {
	if len(products) == 0 {
		return "no products\n"
	}

	cards := make([]string, 0, len(products))
	for _, p := range products {
		cards = append(cards, cardStyle.Render(renderProduct(p)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...) + "\n"
}

func renderProduct(p domain.Product) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Name))
	b.WriteString("\n")
	b.WriteString(priceStyle.Render(FormatPrice(p.Price)))
	b.WriteString("\n")

	sizes := make([]string, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		label := fmt.Sprintf("%s (%d)", s.Name, s.Stock)
		if !s.InStock() {
			label = soldOutStyle.Render(label)
		}
		sizes = append(sizes, label)
	}
	b.WriteString(strings.Join(sizes, "  "))
	return b.String()
}

func FormatPrice(price float64) string {
	return domain.FormatLira(decimal.NewFromFloat(price)) + " ₺"
}
