package http

import (
	"time"

	"github.com/jhoicas/Validade-api/internal/application/confirmation"
	"github.com/jhoicas/Validade-api/internal/application/dto"
	"github.com/jhoicas/Validade-api/internal/application/ledger"
	"github.com/jhoicas/Validade-api/internal/domain/entity"
	"github.com/jhoicas/Validade-api/internal/domain/inventory"
)

func toBatchResponse(b *entity.ProductBatch, today time.Time) dto.BatchResponse {
	return dto.BatchResponse{
		ID:         b.ID,
		EAN:        b.EAN,
		Batch:      b.BatchCode,
		ExpiryDate: b.ExpiryDate.Format(inventory.DateLayout),
		Quantity:   b.Quantity,
		Expired:    inventory.IsExpired(b.ExpiryDate, today),
		CreatedAt:  b.CreatedAt,
	}
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      string(m.Type),
		Quantity:  m.Quantity,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

func toPendingResponse(p *confirmation.PendingChange) *dto.PendingChangeResponse {
	if p == nil {
		return nil
	}
	return &dto.PendingChangeResponse{
		BatchID:     p.BatchID,
		OldQuantity: p.OldQuantity,
		NewQuantity: p.NewQuantity,
		Diff:        p.Diff,
		ProposedAt:  p.ProposedAt,
	}
}

func toAppliedResponse(r *ledger.ChangeResult) *dto.AppliedChangeResponse {
	if r == nil || r.Movement == nil {
		return nil
	}
	return &dto.AppliedChangeResponse{
		MovementID:       r.Movement.ID,
		MovementType:     string(r.MovementType),
		Quantity:         r.Magnitude,
		PreviousQuantity: r.PreviousQuantity,
		CurrentQuantity:  r.Quantity,
	}
}

func toSummaryResponse(s inventory.Summary) dto.SummaryResponse {
	return dto.SummaryResponse{
		Today:                 s.Today.Format(inventory.DateLayout),
		CurrentStock:          s.CurrentStock,
		TotalSold:             s.TotalSold,
		ExpiredRecorded:       s.ExpiredRecorded,
		ExpiredInStock:        s.ExpiredInStock,
		ExpiredTotal:          s.ExpiredTotal,
		ExpiredBatchesInStock: s.ExpiredBatchesInStock,
		Distribution: dto.DistributionDTO{
			StockPct:   s.StockPct,
			SoldPct:    s.SoldPct,
			ExpiredPct: s.ExpiredPct,
		},
	}
}

func toReportRow(r inventory.ReportRow) dto.BatchReportRow {
	return dto.BatchReportRow{
		ID:              r.Batch.ID,
		EAN:             r.Batch.EAN,
		Batch:           r.Batch.BatchCode,
		ExpiryDate:      r.Batch.ExpiryDate.Format(inventory.DateLayout),
		Quantity:        r.Batch.Quantity,
		In:              r.In,
		Sold:            r.Sold,
		Adjusted:        r.Adjusted,
		ExpiredRecorded: r.ExpiredRecorded,
		ExpiredInStock:  r.ExpiredInStock,
		ExpiredTotal:    r.ExpiredTotal,
	}
}
