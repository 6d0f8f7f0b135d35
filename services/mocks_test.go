package services_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sawyelin1011/mtc-platform/models"
	aws_pkg "github.com/sawyelin1011/mtc-platform/pkg/aws"
	"github.com/sawyelin1011/mtc-platform/repository"
	"github.com/sawyelin1011/mtc-platform/services"
)

// In-memory repository doubles. They mirror the SQL semantics the gorm
// implementations provide, including the conditional-update guards.

// --- store repository ---

type mockStoreRepo struct {
	stores map[uuid.UUID]*models.Store
}

func newMockStoreRepo() *mockStoreRepo {
	return &mockStoreRepo{stores: make(map[uuid.UUID]*models.Store)}
}

func (m *mockStoreRepo) Create(_ context.Context, store *models.Store) error {
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	m.stores[store.ID] = store
	return nil
}

func (m *mockStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	s, ok := m.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (m *mockStoreRepo) FindBySlug(_ context.Context, slug string) (*models.Store, error) {
	for _, s := range m.stores {
		if s.Slug == slug {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStoreRepo) Update(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	s, ok := m.stores[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"]; ok {
		s.Name = v.(string)
	}
	if v, ok := updates["tax_rate"]; ok {
		s.TaxRate = v.(float64)
	}
	if v, ok := updates["active"]; ok {
		s.Active = v.(bool)
	}
	return nil
}

func (m *mockStoreRepo) FindAll(_ context.Context, _, _ int) ([]models.Store, int64, error) {
	var out []models.Store
	for _, s := range m.stores {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

// --- product repository ---

type mockProductRepo struct {
	products map[uuid.UUID]*models.Product
	variants map[uuid.UUID]*models.ProductVariant
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{
		products: make(map[uuid.UUID]*models.Product),
		variants: make(map[uuid.UUID]*models.ProductVariant),
	}
}

func (m *mockProductRepo) Create(_ context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockProductRepo) FindByStore(_ context.Context, storeID uuid.UUID, _, _ int) ([]models.Product, int64, error) {
	var out []models.Product
	for _, p := range m.products {
		if p.StoreID == storeID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockProductRepo) Update(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	p, ok := m.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["price"]; ok {
		p.Price = v.(float64)
	}
	if v, ok := updates["name"]; ok {
		p.Name = v.(string)
	}
	if v, ok := updates["active"]; ok {
		p.Active = v.(bool)
	}
	if v, ok := updates["stock_quantity"]; ok {
		p.StockQuantity = v.(int)
	}
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) CreateVariant(_ context.Context, v *models.ProductVariant) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	m.variants[v.ID] = v
	return nil
}

func (m *mockProductRepo) FindVariantByID(_ context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	v, ok := m.variants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (m *mockProductRepo) DecreaseStock(_ context.Context, productID uuid.UUID, quantity int) error {
	p, ok := m.products[productID]
	if !ok || p.StockQuantity < quantity {
		return gorm.ErrRecordNotFound
	}
	p.StockQuantity -= quantity
	return nil
}

func (m *mockProductRepo) DecreaseVariantStock(_ context.Context, variantID uuid.UUID, quantity int) error {
	v, ok := m.variants[variantID]
	if !ok || v.StockQuantity < quantity {
		return gorm.ErrRecordNotFound
	}
	v.StockQuantity -= quantity
	return nil
}

// --- cart repository ---

type mockCartRepo struct {
	carts     map[uuid.UUID]*models.Cart
	items     map[uuid.UUID]*models.CartItem
	itemOrder []uuid.UUID
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{
		carts: make(map[uuid.UUID]*models.Cart),
		items: make(map[uuid.UUID]*models.CartItem),
	}
}

func (m *mockCartRepo) Create(_ context.Context, cart *models.Cart) error {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	m.carts[cart.ID] = cart
	return nil
}

func (m *mockCartRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Cart, error) {
	c, ok := m.carts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *c
	out.Items = nil
	for _, itemID := range m.itemOrder {
		item := m.items[itemID]
		if item != nil && item.CartID == id {
			out.Items = append(out.Items, *item)
		}
	}
	return &out, nil
}

func (m *mockCartRepo) FindByUser(_ context.Context, storeID, userID uuid.UUID) (*models.Cart, error) {
	for id, c := range m.carts {
		if c.StoreID == storeID && c.UserID != nil && *c.UserID == userID {
			return m.FindByID(context.Background(), id)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCartRepo) FindBySession(_ context.Context, storeID uuid.UUID, sessionID string) (*models.Cart, error) {
	for id, c := range m.carts {
		if c.StoreID == storeID && c.SessionID != nil && *c.SessionID == sessionID {
			return m.FindByID(context.Background(), id)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCartRepo) AddItem(_ context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.items[item.ID] = item
	m.itemOrder = append(m.itemOrder, item.ID)
	return nil
}

func (m *mockCartRepo) FindItemByID(_ context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	item, ok := m.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (m *mockCartRepo) UpdateItemQuantity(_ context.Context, itemID uuid.UUID, quantity int) error {
	item, ok := m.items[itemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Quantity = quantity
	return nil
}

func (m *mockCartRepo) RefreshItem(_ context.Context, itemID uuid.UUID, quantity int, price float64) error {
	item, ok := m.items[itemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Quantity = quantity
	item.Price = price
	return nil
}

func (m *mockCartRepo) RemoveItem(_ context.Context, itemID uuid.UUID) error {
	if _, ok := m.items[itemID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, itemID)
	return nil
}

func (m *mockCartRepo) ClearItems(_ context.Context, cartID uuid.UUID) error {
	for id, item := range m.items {
		if item.CartID == cartID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *mockCartRepo) UpdateTotals(_ context.Context, cartID uuid.UUID, updates map[string]interface{}) error {
	c, ok := m.carts[cartID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "total_price":
			c.TotalPrice = v.(float64)
		case "total_tax":
			c.TotalTax = v.(float64)
		case "total_shipping":
			c.TotalShipping = v.(float64)
		case "coupon_discount":
			c.CouponDiscount = v.(float64)
		case "coupon_code":
			if v == nil {
				c.CouponCode = nil
			} else {
				code := v.(string)
				c.CouponCode = &code
			}
		}
	}
	return nil
}

func (m *mockCartRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var purged int64
	for id, c := range m.carts {
		if c.ExpiresAt.Before(now) {
			delete(m.carts, id)
			purged++
		}
	}
	return purged, nil
}

// --- coupon repository ---

type mockCouponRepo struct {
	coupons map[uuid.UUID]*models.Coupon
}

func newMockCouponRepo() *mockCouponRepo {
	return &mockCouponRepo{coupons: make(map[uuid.UUID]*models.Coupon)}
}

func (m *mockCouponRepo) Create(_ context.Context, coupon *models.Coupon) error {
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	for _, existing := range m.coupons {
		if existing.StoreID == coupon.StoreID && existing.Code == coupon.Code {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	m.coupons[coupon.ID] = coupon
	return nil
}

func (m *mockCouponRepo) FindByCode(_ context.Context, storeID uuid.UUID, code string) (*models.Coupon, error) {
	for _, c := range m.coupons {
		if c.StoreID == storeID && c.Code == code && c.Active {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCouponRepo) IncrementUsedCount(_ context.Context, id uuid.UUID) error {
	c, ok := m.coupons[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return gorm.ErrRecordNotFound
	}
	c.UsedCount++
	return nil
}

func (m *mockCouponRepo) Deactivate(_ context.Context, storeID uuid.UUID, code string) error {
	for _, c := range m.coupons {
		if c.StoreID == storeID && c.Code == code {
			c.Active = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockCouponRepo) FindByStore(_ context.Context, storeID uuid.UUID, _, _ int) ([]models.Coupon, int64, error) {
	var out []models.Coupon
	for _, c := range m.coupons {
		if c.StoreID == storeID {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

// --- order repository ---

type mockOrderRepo struct {
	orders     map[uuid.UUID]*models.Order
	createErrs []error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *o
	return &out, nil
}

func (m *mockOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*models.Order, error) {
	for _, o := range m.orders {
		if o.OrderNumber == orderNumber {
			out := *o
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) FindByStore(_ context.Context, storeID uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.StoreID == storeID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) AddItem(_ context.Context, item *models.OrderItem) error {
	o, ok := m.orders[item.OrderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	o.Items = append(o.Items, *item)
	return nil
}

func (m *mockOrderRepo) UpdateStatusFields(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	o, ok := m.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "status":
			o.Status = v.(string)
		case "payment_status":
			o.PaymentStatus = v.(string)
		case "shipping_status":
			o.ShippingStatus = v.(string)
		case "cancelled_at":
			at := v.(time.Time)
			o.CancelledAt = &at
		case "payment_id":
			pid := v.(uuid.UUID)
			o.PaymentID = &pid
		}
	}
	return nil
}

// --- payment repository ---

type mockPaymentRepo struct {
	methods  map[uuid.UUID]*models.PaymentMethod
	payments map[uuid.UUID]*models.Payment
	refunds  map[uuid.UUID]*models.Refund
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{
		methods:  make(map[uuid.UUID]*models.PaymentMethod),
		payments: make(map[uuid.UUID]*models.Payment),
		refunds:  make(map[uuid.UUID]*models.Refund),
	}
}

func (m *mockPaymentRepo) CreatePaymentMethod(_ context.Context, method *models.PaymentMethod) error {
	if method.ID == uuid.Nil {
		method.ID = uuid.New()
	}
	m.methods[method.ID] = method
	return nil
}

func (m *mockPaymentRepo) FindPaymentMethodByID(_ context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	method, ok := m.methods[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return method, nil
}

func (m *mockPaymentRepo) FindPaymentMethodsByStore(_ context.Context, storeID uuid.UUID) ([]models.PaymentMethod, error) {
	var out []models.PaymentMethod
	for _, method := range m.methods {
		if method.StoreID == storeID {
			out = append(out, *method)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) CreatePayment(_ context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	stored := *payment
	m.payments[payment.ID] = &stored
	return nil
}

func (m *mockPaymentRepo) FindPaymentByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *p
	return &out, nil
}

func (m *mockPaymentRepo) FindPaymentsByOrder(_ context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range m.payments {
		if p.OrderID == orderID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) UpdatePayment(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	p, ok := m.payments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "status":
			p.Status = v.(string)
		case "transaction_id":
			txn := v.(string)
			p.TransactionID = &txn
		case "error_message":
			msg := v.(string)
			p.ErrorMessage = &msg
		case "succeeded_at":
			at := v.(time.Time)
			p.SucceededAt = &at
		case "failed_at":
			at := v.(time.Time)
			p.FailedAt = &at
		}
	}
	return nil
}

func (m *mockPaymentRepo) CreateRefund(_ context.Context, refund *models.Refund) error {
	if refund.ID == uuid.Nil {
		refund.ID = uuid.New()
	}
	stored := *refund
	m.refunds[refund.ID] = &stored
	return nil
}

func (m *mockPaymentRepo) FindRefundByID(_ context.Context, id uuid.UUID) (*models.Refund, error) {
	r, ok := m.refunds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *r
	return &out, nil
}

func (m *mockPaymentRepo) FindRefundsByOrder(_ context.Context, orderID uuid.UUID) ([]models.Refund, error) {
	var out []models.Refund
	for _, r := range m.refunds {
		if r.OrderID == orderID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) UpdateRefund(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	r, ok := m.refunds[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "status":
			r.Status = v.(string)
		case "transaction_id":
			r.TransactionID = v.(*string)
		case "error_message":
			msg := v.(string)
			r.ErrorMessage = &msg
		case "completed_at":
			at := v.(time.Time)
			r.CompletedAt = &at
		}
	}
	return nil
}

func (m *mockPaymentRepo) SumCompletedRefunds(_ context.Context, paymentID uuid.UUID) (float64, error) {
	var total float64
	for _, r := range m.refunds {
		if r.PaymentID == paymentID && r.Status == models.RefundStatusCompleted {
			total += r.Amount
		}
	}
	return total, nil
}

// --- download repository ---

type mockDownloadRepo struct {
	mu        sync.Mutex
	downloads map[uuid.UUID]*models.DigitalDownload
	links     map[uuid.UUID]*models.DownloadLink
}

func newMockDownloadRepo() *mockDownloadRepo {
	return &mockDownloadRepo{
		downloads: make(map[uuid.UUID]*models.DigitalDownload),
		links:     make(map[uuid.UUID]*models.DownloadLink),
	}
}

func (m *mockDownloadRepo) CreateDownload(_ context.Context, d *models.DigitalDownload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	m.downloads[d.ID] = d
	return nil
}

func (m *mockDownloadRepo) FindDownloadByID(_ context.Context, id uuid.UUID) (*models.DigitalDownload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.downloads[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *d
	return &out, nil
}

func (m *mockDownloadRepo) FindDownloadsByProduct(_ context.Context, productID uuid.UUID) ([]models.DigitalDownload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DigitalDownload
	for _, d := range m.downloads {
		if d.ProductID == productID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *mockDownloadRepo) UpdateDownload(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.downloads[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["file_size"]; ok {
		d.FileSize = v.(int64)
	}
	return nil
}

func (m *mockDownloadRepo) CreateLink(_ context.Context, link *models.DownloadLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	m.links[link.ID] = link
	return nil
}

func (m *mockDownloadRepo) FindLinkByToken(_ context.Context, token string) (*models.DownloadLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, link := range m.links {
		if link.Token == token {
			out := *link
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// RecordDownload mirrors the SQL conditional increment: the check and the
// increment happen under one lock, so concurrent callers cannot pass the
// limit together.
func (m *mockDownloadRepo) RecordDownload(_ context.Context, linkID uuid.UUID, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.links[linkID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if link.MaxDownloads != nil && link.DownloadCount >= *link.MaxDownloads {
		return gorm.ErrRecordNotFound
	}
	link.DownloadCount++
	link.LastDownloadedAt = &now
	return nil
}

func (m *mockDownloadRepo) DeleteExpiredLinks(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var purged int64
	for id, link := range m.links {
		if link.ExpiresAt != nil && link.ExpiresAt.Before(now) {
			delete(m.links, id)
			purged++
		}
	}
	return purged, nil
}

// --- object store ---

type mockObjectStore struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (m *mockObjectStore) Put(_ context.Context, key string, body []byte, contentType, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = body
	m.contentTypes[key] = contentType
	return nil
}

func (m *mockObjectStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, "", aws_pkg.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), m.contentTypes[key], nil
}

func (m *mockObjectStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// --- sns publisher ---

type mockSNSPublisher struct {
	mu        sync.Mutex
	published []string
}

func (m *mockSNSPublisher) Publish(_ context.Context, _ string, eventType string, _ []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, eventType)
	return nil
}

// --- payment gateway ---

type mockGateway struct {
	processErr error
	refundErr  error
	charges    int
	refunds    int
}

func (g *mockGateway) Process(_ context.Context, _ services.GatewayChargeRequest) (string, error) {
	g.charges++
	if g.processErr != nil {
		return "", g.processErr
	}
	return fmt.Sprintf("txn_%d", g.charges), nil
}

func (g *mockGateway) Refund(_ context.Context, _ string, _ float64, _ string) (string, error) {
	g.refunds++
	if g.refundErr != nil {
		return "", g.refundErr
	}
	return fmt.Sprintf("re_%d", g.refunds), nil
}

var (
	_ repository.StoreRepository    = (*mockStoreRepo)(nil)
	_ repository.ProductRepository  = (*mockProductRepo)(nil)
	_ repository.CartRepository     = (*mockCartRepo)(nil)
	_ repository.CouponRepository   = (*mockCouponRepo)(nil)
	_ repository.OrderRepository    = (*mockOrderRepo)(nil)
	_ repository.PaymentRepository  = (*mockPaymentRepo)(nil)
	_ repository.DownloadRepository = (*mockDownloadRepo)(nil)
	_ aws_pkg.ObjectStore           = (*mockObjectStore)(nil)
	_ aws_pkg.SNSPublisher          = (*mockSNSPublisher)(nil)
	_ services.PaymentGateway       = (*mockGateway)(nil)
)
