package shop

import (
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/gomallhq/gomall/internal/domain"
	"github.com/gomallhq/gomall/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuditRecorder subscribes to domain events and writes the operator
// log. It runs in-process; a lost audit row is logged, never fatal.
type AuditRecorder struct {
	db *gorm.DB
}

func NewAuditRecorder(db *gorm.DB, bus EventBus.Bus) (*AuditRecorder, error) {
	r := &AuditRecorder{db: db}
	if err := bus.Subscribe(EventOrderCreated, r.onOrderCreated); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *AuditRecorder) onOrderCreated(evt OrderCreatedEvent) {
	log := domain.SysOprLog{
		OprName:   evt.Username,
		OptAction: "order_created",
		OptDesc: fmt.Sprintf("order %d: %d item(s), total %.2f, seller %d",
			evt.OrderID, evt.ItemCount, evt.TotalAmount, evt.SellerID),
		OptTime: time.Now(),
	}
	if err := r.db.Create(&log).Error; err != nil {
		zap.L().Warn("failed to record order audit log",
			zap.Int64("order_id", evt.OrderID),
			zap.Error(err))
	}
	metrics.IncrCounter("mall_orders_created", 1)
}
