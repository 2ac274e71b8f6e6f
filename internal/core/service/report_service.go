package service

import (
	"context"
	"fmt"
	"io"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// isoMillis matches the timestamps the storefront has always written for orders.
const isoMillis = "2006-01-02T15:04:05.000Z"

var orderHeader = []string{"id", "productId", "productName", "size", "instagramUsername", "orderDate"}

var customerHeader = []string{"Instagram Kullanıcı Adı", "Toplam Sipariş", "Toplam Harcama (₺)"}

type ReportService struct {
	catalog  port.CatalogRepository
	orders   port.OrderRepository
	renderer port.ReportRenderer
}

func NewReportService(catalog port.CatalogRepository, orders port.OrderRepository, renderer port.ReportRenderer) *ReportService {
	return &ReportService{
		catalog:  catalog,
		orders:   orders,
		renderer: renderer,
	}
}

func (s *ReportService) ExportOrders(ctx context.Context) (domain.Report, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return domain.Report{}, err
	}
	return domain.Report{
		FileName: "tum-siparisler.xlsx",
		Sheet:    orderSheet("Siparişler", orders),
	}, nil
}

func (s *ReportService) ExportCustomers(ctx context.Context) (domain.Report, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return domain.Report{}, err
	}
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return domain.Report{}, err
	}

	stats := domain.CustomerStats(orders, products)
	rows := make([][]any, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, []any{st.Username, st.OrderCount, domain.FormatLira(st.TotalSpent)})
	}
	return domain.Report{
		FileName: "musteri-raporu.xlsx",
		Sheet:    domain.Sheet{Name: "Müşteri Raporu", Header: customerHeader, Rows: rows},
	}, nil
}

func (s *ReportService) ExportProductOrders(ctx context.Context, productID string) (domain.Report, error) {
	p, err := s.catalog.FindProduct(ctx, productID)
	if err != nil {
		return domain.Report{}, err
	}
	if p == nil {
		return domain.Report{}, ErrProductNotFound
	}

	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return domain.Report{}, err
	}
	return domain.Report{
		FileName: fmt.Sprintf("%s-siparisleri.xlsx", p.Name),
		Sheet:    orderSheet("Ürün Siparişleri", domain.OrdersForProduct(orders, productID)),
	}, nil
}

func (s *ReportService) Render(w io.Writer, report domain.Report) error {
	if err := s.renderer.Render(w, report.Sheet); err != nil {
		return fmt.Errorf("render %s: %w", report.FileName, err)
	}
	return nil
}

func (s *ReportService) ContentType() string {
	return s.renderer.ContentType()
}

func orderSheet(name string, orders []domain.Order) domain.Sheet {
	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []any{
			o.ID,
			o.ProductID,
			o.ProductName,
			o.Size,
			o.InstagramUsername,
			o.OrderDate.UTC().Format(isoMillis),
		})
	}
	return domain.Sheet{Name: name, Header: orderHeader, Rows: rows}
}
