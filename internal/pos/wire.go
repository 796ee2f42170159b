//go:build wireinject
// +build wireinject

package pos

import (
	"github.com/google/wire"

	httpDelivery "github.com/pushsport/pos/internal/pos/delivery/http"
	"github.com/pushsport/pos/internal/pos/domain"
	"github.com/pushsport/pos/internal/pos/usecase/command"
	"github.com/pushsport/pos/internal/pos/usecase/query"
)

// HandlerSet wires every use case handler behind the HTTP delivery.
var HandlerSet = wire.NewSet(
	command.NewOpenSessionHandler,
	command.NewCloseSessionHandler,
	command.NewSelectBranchHandler,
	command.NewRefreshStockHandler,
	command.NewAddItemHandler,
	command.NewAdjustQuantityHandler,
	command.NewRemoveItemHandler,
	command.NewClearCartHandler,
	command.NewCheckoutHandler,
	query.NewGetSessionHandler,
	query.NewListStockHandler,
)

// InitializePOSHandler initializes the HTTP handler with all dependencies.
func InitializePOSHandler(
	sessions domain.SessionRepository,
	inventory domain.InventoryGateway,
	sales domain.SalesGateway,
	publisher command.SaleEventPublisher,
) (*httpDelivery.POSHandler, error) {
	wire.Build(
		HandlerSet,
		httpDelivery.NewPOSHandler,
	)
	return nil, nil
}
