package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rl1809/storefront/internal/core/domain"
)

func TestXLSXRenderer_Render(t *testing.T) {
	sheet := domain.Sheet{
		Name:   "Müşteri Raporu",
		Header: []string{"Instagram Kullanıcı Adı", "Toplam Sipariş", "Toplam Harcama (₺)"},
		Rows: [][]any{
			{"alice", 2, "399,98"},
			{"bob", 1, "299,99"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewXLSXRenderer().Render(&buf, sheet))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Müşteri Raporu"}, f.GetSheetList())

	rows, err := f.GetRows("Müşteri Raporu")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Instagram Kullanıcı Adı", "Toplam Sipariş", "Toplam Harcama (₺)"},
		{"alice", "2", "399,98"},
		{"bob", "1", "299,99"},
	}, rows)
}

func TestXLSXRenderer_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXRenderer().Render(&buf, domain.Sheet{Name: "Siparişler", Header: []string{"id"}}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Siparişler")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id"}}, rows)
	assert.Equal(t, ContentTypeXLSX, NewXLSXRenderer().ContentType())
}
