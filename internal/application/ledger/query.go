package ledger

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Page resultado paginado de transacciones. Page es 1-indexado.
type Page struct {
	Items         []*entity.Transaction
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

// TypeSummary totales de un tipo de transacción dentro de un periodo.
type TypeSummary struct {
	Type       entity.TransactionType
	Count      int64
	Units      int64
	TotalPrice decimal.Decimal
}

// PeriodSummary agregado mensual del ledger. ByType siempre trae los tres tipos, en orden fijo.
type PeriodSummary struct {
	Month      int
	Year       int
	From       time.Time
	To         time.Time
	ByType     []TypeSummary
	Count      int64
	Units      int64
	TotalPrice decimal.Decimal
}

// QueryService lecturas del ledger: búsqueda paginada, listado y agregado por periodo.
type QueryService struct {
	transactions    repository.TransactionRepository
	defaultPageSize int
	maxPageSize     int
}

// NewQueryService construye el servicio de consultas.
func NewQueryService(transactions repository.TransactionRepository, defaultPageSize, maxPageSize int) *QueryService {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	if maxPageSize < defaultPageSize {
		maxPageSize = defaultPageSize
	}
	return &QueryService{
		transactions:    transactions,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// Search devuelve una página de transacciones, más recientes primero.
// page < 1 se trata como 1; size < 1 usa el tamaño por defecto y se limita al máximo configurado.
func (s *QueryService) Search(ctx context.Context, page, size int, filter string) (*Page, error) {
	page, size = s.normalize(page, size)
	items, total, err := s.transactions.Search(ctx, repository.TransactionFilter{
		Text:   filter,
		Limit:  size,
		Offset: pageOffset(page, size),
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entity.Transaction{}
	}
	return &Page{
		Items:         items,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    TotalPages(total, size),
	}, nil
}

// FindByPeriod devuelve las transacciones creadas en el mes indicado (UTC).
func (s *QueryService) FindByPeriod(ctx context.Context, month, year int) ([]*entity.Transaction, error) {
	from, to, err := PeriodRange(month, year)
	if err != nil {
		return nil, err
	}
	items, err := s.transactions.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entity.Transaction{}
	}
	return items, nil
}

// SummarizePeriod agrega por tipo las transacciones del mes indicado.
func (s *QueryService) SummarizePeriod(ctx context.Context, month, year int) (*PeriodSummary, error) {
	from, to, err := PeriodRange(month, year)
	if err != nil {
		return nil, err
	}
	rows, err := s.transactions.SummarizeByPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byType := make(map[entity.TransactionType]repository.TypeTotals, len(rows))
	for _, r := range rows {
		byType[r.Type] = r
	}

	summary := &PeriodSummary{
		Month:      month,
		Year:       year,
		From:       from,
		To:         to,
		TotalPrice: decimal.Zero,
	}
	for _, t := range entity.TransactionTypes {
		r := byType[t]
		total := r.TotalPrice
		if r.Count == 0 {
			total = decimal.Zero
		}
		summary.ByType = append(summary.ByType, TypeSummary{
			Type:       t,
			Count:      r.Count,
			Units:      r.Units,
			TotalPrice: total,
		})
		summary.Count += r.Count
		summary.Units += r.Units
		summary.TotalPrice = summary.TotalPrice.Add(total)
	}
	return summary, nil
}

func (s *QueryService) normalize(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = s.defaultPageSize
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}
	return page, size
}

// maxOffset acota el desplazamiento: una página más allá devuelve items vacíos sin desbordar (page-1)*size.
const maxOffset = math.MaxInt32

func pageOffset(page, size int) int {
	if page-1 > maxOffset/size {
		return maxOffset
	}
	return (page - 1) * size
}

// PeriodRange devuelve el rango semiabierto [primer día del mes, primer día del mes siguiente) en UTC.
func PeriodRange(month, year int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, domain.NewValidation("month must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return time.Time{}, time.Time{}, domain.NewValidation("year must be between 1 and 9999")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

// TotalPages = ceil(total / size).
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
