package client

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/pushsport/pos/internal/pos/domain"
	"github.com/pushsport/pos/pkg/logger"
)

// SalesClient submits sales to the retail backend, the sole authority
// that persists a transaction and decrements stock.
type SalesClient struct {
	http *resty.Client
}

// NewSalesClient creates a new sales gateway client.
func NewSalesClient(cfg Config) *SalesClient {
	return &SalesClient{http: newRestyClient(cfg)}
}

type saleResponseDTO struct {
	SaleID string `json:"sale_id"`
	ID     string `json:"id"`
}

// SubmitSale posts the submission and returns the server-assigned sale
// identifier. Any failure comes back as a *domain.SaleSubmissionError
// with the gateway's reason when one is available, so the operator can
// retry without rebuilding the cart.
func (c *SalesClient) SubmitSale(ctx context.Context, submission domain.SaleSubmission) (*domain.SaleReceipt, error) {
	var body struct {
		envelope
		Data saleResponseDTO `json:"data"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(submission).
		SetResult(&body).
		Post("/api/sales")
	if err != nil {
		return nil, &domain.SaleSubmissionError{Err: err}
	}

	if resp.IsError() {
		reason := backendError(resp.Body(), body.envelope)
		logger.Logger.Warn().
			Int("status", resp.StatusCode()).
			Uint("branch_id", submission.BranchID).
			Str("reason", reason).
			Msg("Sale submission rejected by backend")
		return nil, &domain.SaleSubmissionError{Reason: reason}
	}

	saleID := body.Data.SaleID
	if saleID == "" {
		saleID = body.Data.ID
	}

	logger.Logger.Info().
		Str("sale_id", saleID).
		Uint("branch_id", submission.BranchID).
		Uint("operator_id", submission.OperatorID).
		Float64("total", submission.Total).
		Msg("Sale persisted by backend")

	return &domain.SaleReceipt{SaleID: saleID}, nil
}
