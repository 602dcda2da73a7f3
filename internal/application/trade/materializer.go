package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	appdesign "github.com/storefront/backend/internal/application/design"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// MaterializerConfig bounds a single checkout
type MaterializerConfig struct {
	// MaxDesignImages caps the uploaded design files per order
	MaxDesignImages int
	// NumberRetryAttempts is how many order numbers are tried before giving up
	NumberRetryAttempts int
}

// DefaultMaterializerConfig returns the storefront defaults
func DefaultMaterializerConfig() MaterializerConfig {
	return MaterializerConfig{MaxDesignImages: 20, NumberRetryAttempts: 3}
}

// DurationRecorder observes how long each checkout took
type DurationRecorder interface {
	RecordMaterializeDuration(ctx context.Context, d time.Duration, success bool)
}

// CreateOrderResult is returned after the order has been committed
type CreateOrderResult struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	TotalAmount string    `json:"totalAmount"`
	Designs     []string  `json:"designs"`
}

// OrderMaterializer turns a checkout submission into a persisted, server-priced order.
// Asset files are stored before the transaction opens and deleted again if it fails.
type OrderMaterializer struct {
	productRepo    catalog.ProductRepository
	pricing        *catalogapp.PricingService
	scope          TransactionScope
	assets         appdesign.AssetStore
	numbers        *trade.OrderNumberGenerator
	config         MaterializerConfig
	eventPublisher shared.EventPublisher
	durations      DurationRecorder
	logger         *zap.Logger
}

// NewOrderMaterializer creates a new OrderMaterializer
func NewOrderMaterializer(
	productRepo catalog.ProductRepository,
	pricing *catalogapp.PricingService,
	scope TransactionScope,
	assets appdesign.AssetStore,
	numbers *trade.OrderNumberGenerator,
	config MaterializerConfig,
	logger *zap.Logger,
) *OrderMaterializer {
	defaults := DefaultMaterializerConfig()
	if config.MaxDesignImages <= 0 {
		config.MaxDesignImages = defaults.MaxDesignImages
	}
	if config.NumberRetryAttempts <= 0 {
		config.NumberRetryAttempts = defaults.NumberRetryAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderMaterializer{
		productRepo: productRepo,
		pricing:     pricing,
		scope:       scope,
		assets:      assets,
		numbers:     numbers,
		config:      config,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for order notifications
func (m *OrderMaterializer) SetEventPublisher(publisher shared.EventPublisher) {
	m.eventPublisher = publisher
}

// SetDurationRecorder sets the checkout duration observer
func (m *OrderMaterializer) SetDurationRecorder(r DurationRecorder) {
	m.durations = r
}

// pricedItem is a submission line with its authoritative price
type pricedItem struct {
	submission design.Submission
	productID  uuid.UUID
	unitPrice  decimal.Decimal
}

// CreateOrder validates, prices and persists one checkout.
// Either every order, item and design element row is committed or none is.
func (m *OrderMaterializer) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (result *CreateOrderResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create")
	start := time.Now()
	defer func() {
		if m.durations != nil {
			m.durations.RecordMaterializeDuration(ctx, time.Since(start), err == nil)
		}
		telemetry.RecordError(span, err)
		span.End()
	}()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	items, err := ParseItems(cmd.Items)
	if err != nil {
		return nil, err
	}
	if n := len(cmd.DesignImages) + len(cmd.TokenAssets); n > m.config.MaxDesignImages {
		return nil, shared.NewValidationError(
			fmt.Sprintf("At most %d design images per order, got %d", m.config.MaxDesignImages, n))
	}
	binding, err := BindAssets(items, cmd.TokenAssets, cmd.DesignImages)
	if err != nil {
		return nil, err
	}

	priced, err := m.price(ctx, items)
	if err != nil {
		return nil, err
	}

	stored, preview, err := m.storeAssets(ctx, binding, cmd.Preview)
	if err != nil {
		return nil, err
	}

	order, err := m.buildOrder(cmd, priced, binding, stored, preview)
	if err != nil {
		m.discard(ctx, stored, preview)
		return nil, err
	}

	if err := m.persist(ctx, order); err != nil {
		m.discard(ctx, stored, preview)
		return nil, err
	}

	if err := order.Place(); err != nil {
		return nil, err
	}
	m.publish(ctx, order)

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderNumber, order.OrderNumber,
		telemetry.SpanAttrItems, len(order.Items),
		telemetry.SpanAttrElements, order.ElementCount(),
	)
	m.logger.Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", len(order.Items)),
		zap.Int("elements", order.ElementCount()),
	)

	designs := make([]string, 0, len(stored)+1)
	for _, s := range stored {
		designs = append(designs, s.URL)
	}
	if preview != nil {
		designs = append(designs, preview.URL)
	}
	return &CreateOrderResult{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount.StringFixed(2),
		Designs:     designs,
	}, nil
}

// price recomputes every line from catalog data. Client prices are ignored.
func (m *OrderMaterializer) price(ctx context.Context, items []design.Submission) ([]pricedItem, error) {
	cache := make(map[uuid.UUID]*catalog.Product)
	out := make([]pricedItem, 0, len(items))
	for i, item := range items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, shared.NewValidationError(fmt.Sprintf("Invalid product id in item %d", i))
		}
		product, ok := cache[productID]
		if !ok {
			product, err = m.productRepo.FindByID(ctx, productID)
			if err != nil {
				if errors.Is(err, catalog.ErrProductNotFound) || errors.Is(err, shared.ErrNotFound) {
					return nil, shared.NewDomainError(shared.CodeProductNotFound,
						fmt.Sprintf("Product %s in item %d not found", item.ProductID, i))
				}
				return nil, err
			}
			cache[productID] = product
		}

		sel := catalog.Selection{
			Size:  variantString(item.VariantDetails, trade.VariantKeySize),
			Color: variantString(item.VariantDetails, trade.VariantKeyColor),
		}
		res, err := m.pricing.Price(ctx, product, sel, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("price item %d: %w", i, err)
		}
		if item.ProductName == "" {
			item.ProductName = product.Name
		}
		out = append(out, pricedItem{submission: item, productID: productID, unitPrice: res.UnitPrice})
	}
	return out, nil
}

func variantString(details map[string]any, key string) string {
	s, _ := details[key].(string)
	return s
}

// storeAssets writes bound files in document order, then the preview
func (m *OrderMaterializer) storeAssets(
	ctx context.Context,
	binding *AssetBinding,
	previewFile *appdesign.Asset,
) ([]appdesign.StoredAsset, *appdesign.StoredAsset, error) {
	stored := make([]appdesign.StoredAsset, 0, binding.Len())
	for _, a := range binding.assets {
		s, err := m.assets.Store(ctx, appdesign.FolderDesigns, a)
		if err != nil {
			m.logger.Error("design image store failed", zap.Error(err))
			m.discard(ctx, stored, nil)
			return nil, nil, shared.NewPersistenceError(err)
		}
		stored = append(stored, s)
	}

	if previewFile == nil {
		return stored, nil, nil
	}
	p, err := m.assets.Store(ctx, appdesign.FolderPreviews, *previewFile)
	if err != nil {
		m.logger.Error("preview store failed", zap.Error(err))
		m.discard(ctx, stored, nil)
		return nil, nil, shared.NewPersistenceError(err)
	}
	return stored, &p, nil
}

// discard deletes stored objects after a failed checkout. Failures are logged only.
func (m *OrderMaterializer) discard(ctx context.Context, stored []appdesign.StoredAsset, preview *appdesign.StoredAsset) {
	keys := make([]string, 0, len(stored)+1)
	for _, s := range stored {
		keys = append(keys, s.Key)
	}
	if preview != nil {
		keys = append(keys, preview.Key)
	}
	for _, k := range keys {
		if err := m.assets.Delete(ctx, k); err != nil {
			m.logger.Warn("orphaned asset not deleted", zap.String("key", k), zap.Error(err))
		}
	}
}

func (m *OrderMaterializer) buildOrder(
	cmd CreateOrderCommand,
	priced []pricedItem,
	binding *AssetBinding,
	stored []appdesign.StoredAsset,
	preview *appdesign.StoredAsset,
) (*trade.Order, error) {
	order, err := trade.NewOrder(m.numbers.Next(), cmd.customer(), cmd.delivery(), cmd.Notes)
	if err != nil {
		return nil, err
	}
	if cmd.UserID != nil {
		order.SetUser(*cmd.UserID)
	}

	previewIdx, flagged := 0, false
	for i, p := range priced {
		details := make(map[string]any, len(p.submission.VariantDetails)+1)
		for k, v := range p.submission.VariantDetails {
			details[k] = v
		}
		if _, err := order.AddItem(p.productID, p.submission.ProductName, p.submission.Quantity, p.unitPrice, details); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if p.submission.PreviewItem && !flagged {
			previewIdx, flagged = i, true
		}
	}

	for i, p := range priced {
		item := order.Item(i)
		for vi, view := range p.submission.Views {
			for ei, se := range view.Elements {
				content := se.Content
				if idx, ok := binding.asset(elementRef{i, vi, ei}); ok {
					content = stored[idx].URL
				}
				item.AddElement(trade.NewDesignElement(view.ViewID, se, content))
			}
		}
	}

	if preview != nil {
		order.Item(previewIdx).SetPreview(preview.URL)
	}
	return order, nil
}

// persist writes the order in one transaction, retrying with a fresh number on collision
func (m *OrderMaterializer) persist(ctx context.Context, order *trade.Order) error {
	var err error
	for attempt := 1; attempt <= m.config.NumberRetryAttempts; attempt++ {
		err = m.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			return insertOrder(ctx, repos.OrderRepo(), order)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, trade.ErrDuplicateOrderNumber) {
			break
		}
		m.logger.Warn("order number collision, retrying",
			zap.String("order_number", order.OrderNumber),
			zap.Int("attempt", attempt),
		)
		order.OrderNumber = m.numbers.Next()
	}
	m.logger.Error("order transaction rolled back", zap.String("order_number", order.OrderNumber), zap.Error(err))
	return shared.NewPersistenceError(err)
}

func insertOrder(ctx context.Context, repo trade.OrderRepository, order *trade.Order) error {
	if err := repo.Insert(ctx, order); err != nil {
		return err
	}
	for i := range order.Items {
		item := &order.Items[i]
		if err := repo.InsertItem(ctx, item); err != nil {
			return fmt.Errorf("insert item %d: %w", i, err)
		}
		if len(item.Elements) == 0 {
			continue
		}
		if err := repo.InsertElements(ctx, item.Elements); err != nil {
			return fmt.Errorf("insert design elements for item %d: %w", i, err)
		}
	}
	return nil
}

func (m *OrderMaterializer) publish(ctx context.Context, order *trade.Order) {
	events := order.PullDomainEvents()
	if m.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := m.eventPublisher.Publish(ctx, events...); err != nil {
		m.logger.Warn("order events not published", zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
}
