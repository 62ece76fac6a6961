package repositories

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func NewOrderRepositoryOn(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) query() *orm.Query {
	if r.db != nil {
		return orm.Use(r.db)
	}
	return orm.DB()
}

// FindByID looks up an order with its items loaded.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var o models.Order
	err := r.query().
		Preload("Items").
		Preload("Items.Product").
		Where("id = ?", id).
		First(&o)
	return o, err
}

// FindByTransactionID resolves a gateway callback to its pending order.
func (r *OrderRepository) FindByTransactionID(trxID string) (models.Order, error) {
	var o models.Order
	err := r.query().
		Preload("Items").
		Where("transaction_id = ?", trxID).
		First(&o)
	return o, err
}

// ByBuyer lists a buyer's orders, newest first.
func (r *OrderRepository) ByBuyer(buyerID uint) ([]models.Order, error) {
	var out []models.Order
	err := r.query().
		Model(&models.Order{}).
		Preload("Items").
		Preload("Items.Product").
		Where("buyer_id = ?", buyerID).
		Order("created_at desc").
		Get(&out)
	return out, err
}

// Create persists a new order with its item rows.
func (r *OrderRepository) Create(o *models.Order) error {
	return r.query().Create(o)
}

// Save persists changes to an existing order.
func (r *OrderRepository) Save(o *models.Order) error {
	return r.query().Save(o)
}

// Delete removes the order and its item rows.
func (r *OrderRepository) Delete(o *models.Order) error {
	if err := r.query().Where("order_id = ?", o.ID).Delete(&models.OrderItem{}); err != nil {
		return err
	}
	return r.query().Delete(o)
}
