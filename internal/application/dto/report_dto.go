package dto

import "github.com/shopspring/decimal"

// SummaryResponse totales del inventario.
type SummaryResponse struct {
	Today                 string          `json:"today"`
	CurrentStock          int64           `json:"current_stock"`
	TotalSold             int64           `json:"total_sold"`
	ExpiredRecorded       int64           `json:"expired_recorded"`
	ExpiredInStock        int64           `json:"expired_in_stock"`
	ExpiredTotal          int64           `json:"expired_total"`
	ExpiredBatchesInStock int             `json:"expired_batches_in_stock"`
	Distribution          DistributionDTO `json:"distribution"`
}

// DistributionDTO reparto porcentual stock / vendido / vencido.
type DistributionDTO struct {
	StockPct   decimal.Decimal `json:"stock_pct"`
	SoldPct    decimal.Decimal `json:"sold_pct"`
	ExpiredPct decimal.Decimal `json:"expired_pct"`
}

// BatchReportRow fila del reporte por lote.
type BatchReportRow struct {
	ID              string `json:"id"`
	EAN             string `json:"ean"`
	Batch           string `json:"batch"`
	ExpiryDate      string `json:"expiry_date"`
	Quantity        int64  `json:"quantity"`
	In              int64  `json:"in"`
	Sold            int64  `json:"sold"`
	Adjusted        int64  `json:"adjusted"`
	ExpiredRecorded int64  `json:"expired_recorded"`
	ExpiredInStock  int64  `json:"expired_in_stock"`
	ExpiredTotal    int64  `json:"expired_total"`
}

// BatchReportResponse salida de GET /api/reports/batches.
type BatchReportResponse struct {
	Today   string           `json:"today"`
	Rows    []BatchReportRow `json:"rows"`
	Summary SummaryResponse  `json:"summary"`
}

// DiscrepancyDTO lote cuya cantidad no cuadra con su ledger.
type DiscrepancyDTO struct {
	BatchID        string `json:"batch_id"`
	CachedQuantity int64  `json:"cached_quantity"`
	LedgerQuantity int64  `json:"ledger_quantity"`
}

// ReconciliationResponse salida de GET /api/reports/reconciliation.
type ReconciliationResponse struct {
	Consistent    bool             `json:"consistent"`
	Discrepancies []DiscrepancyDTO `json:"discrepancies"`
}
