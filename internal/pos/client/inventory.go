package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/pushsport/pos/internal/pos/domain"
	"github.com/pushsport/pos/pkg/logger"
)

// InventoryClient fetches branch stock from the retail backend over HTTP.
type InventoryClient struct {
	http *resty.Client
}

// NewInventoryClient creates a new inventory gateway client.
func NewInventoryClient(cfg Config) *InventoryClient {
	return &InventoryClient{http: newRestyClient(cfg)}
}

// stockRecordDTO tolerates the backend's inconsistent field naming: older
// builds send flat records with "id"/"price"/"stock", newer ones send
// "inventory_id"/"unit_price"/"quantity" and may nest the product.
type stockRecordDTO struct {
	InventoryID uint        `json:"inventory_id"`
	ID          uint        `json:"id"`
	ProductID   uint        `json:"product_id"`
	ProductName string      `json:"product_name"`
	Product     *productDTO `json:"product"`
	UnitPrice   *float64    `json:"unit_price"`
	Price       *float64    `json:"price"`
	Quantity    *int        `json:"quantity"`
	Stock       *int        `json:"stock"`
	Image       string      `json:"image"`
	ImageURL    string      `json:"image_url"`
}

type productDTO struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// normalize maps a backend record onto the domain shape so nothing past
// the gateway boundary ever sees backend-specific naming.
func (d stockRecordDTO) normalize() domain.StockRecord {
	rec := domain.StockRecord{
		InventoryID: d.InventoryID,
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		ImageURL:    d.ImageURL,
	}

	if rec.InventoryID == 0 {
		rec.InventoryID = d.ID
	}
	if rec.ImageURL == "" {
		rec.ImageURL = d.Image
	}

	switch {
	case d.UnitPrice != nil:
		rec.UnitPrice = *d.UnitPrice
	case d.Price != nil:
		rec.UnitPrice = *d.Price
	}

	switch {
	case d.Quantity != nil:
		rec.Quantity = *d.Quantity
	case d.Stock != nil:
		rec.Quantity = *d.Stock
	}

	if d.Product != nil {
		if rec.ProductID == 0 {
			rec.ProductID = d.Product.ID
		}
		if rec.ProductName == "" {
			rec.ProductName = d.Product.Name
		}
		if rec.UnitPrice == 0 {
			rec.UnitPrice = d.Product.Price
		}
		if rec.ImageURL == "" {
			rec.ImageURL = d.Product.Image
		}
	}

	return rec
}

// FetchBranchStock returns the current stock list for a branch. An empty
// list is a valid result; every other failure mode comes back as a
// *domain.StockFetchError.
func (c *InventoryClient) FetchBranchStock(ctx context.Context, branchID uint) ([]domain.StockRecord, error) {
	var body struct {
		envelope
		Data []stockRecordDTO `json:"data"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("/api/branches/%d/inventory", branchID))
	if err != nil {
		return nil, &domain.StockFetchError{BranchID: branchID, Err: err}
	}

	if resp.IsError() {
		reason := backendError(resp.Body(), body.envelope)
		return nil, &domain.StockFetchError{
			BranchID: branchID,
			Err:      fmt.Errorf("backend returned %d: %s", resp.StatusCode(), reason),
		}
	}

	records := make([]domain.StockRecord, 0, len(body.Data))
	for _, dto := range body.Data {
		records = append(records, dto.normalize())
	}

	logger.Logger.Debug().
		Uint("branch_id", branchID).
		Int("records", len(records)).
		Msg("Fetched branch stock")

	return records, nil
}

// backendError digs a usable reason out of an error response body.
func backendError(raw []byte, env envelope) string {
	if env.Error != "" {
		return env.Error
	}
	if env.Message != "" {
		return env.Message
	}

	var fallback envelope
	if err := json.Unmarshal(raw, &fallback); err == nil {
		if fallback.Error != "" {
			return fallback.Error
		}
		if fallback.Message != "" {
			return fallback.Message
		}
	}
	return "no reason given"
}
