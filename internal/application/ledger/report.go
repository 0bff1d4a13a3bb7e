package ledger

import (
	"context"
	"fmt"
)

// ReportUseCase genera el reporte PDF mensual combinando el agregado y el detalle del periodo.
type ReportUseCase struct {
	query     *QueryService
	generator ReportGenerator
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(query *QueryService, generator ReportGenerator) *ReportUseCase {
	return &ReportUseCase{query: query, generator: generator}
}

// PeriodReport devuelve el PDF y un nombre de archivo sugerido.
func (uc *ReportUseCase) PeriodReport(ctx context.Context, month, year int) ([]byte, string, error) {
	summary, err := uc.query.SummarizePeriod(ctx, month, year)
	if err != nil {
		return nil, "", err
	}
	items, err := uc.query.FindByPeriod(ctx, month, year)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GeneratePeriodReport(ctx, summary, items)
	if err != nil {
		return nil, "", fmt.Errorf("generar reporte: %w", err)
	}
	return pdf, fmt.Sprintf("ledger-%04d-%02d.pdf", year, month), nil
}
