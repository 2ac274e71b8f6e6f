package port

import (
	"context"
	"io"

	"github.com/rl1809/storefront/internal/core/domain"
)

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

type ReportRenderer interface {
	// Render writes sheet as a spreadsheet file to w
	Render(w io.Writer, sheet domain.Sheet) error

	ContentType() string
}
