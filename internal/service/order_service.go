// Package service 订单服务实现
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/CCDD2022/minierp/internal/dao"
	"github.com/CCDD2022/minierp/internal/model"
	"github.com/CCDD2022/minierp/internal/mq"
	"github.com/CCDD2022/minierp/pkg/e"
	"github.com/CCDD2022/minierp/pkg/logger"
	"github.com/CCDD2022/minierp/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// orderEvent 发布到MQ的订单事件载荷 下游支付/履约方以此为契约
type orderEvent struct {
	EventID    string  `json:"event_id"`
	OccurredAt int64   `json:"occurred_at"`
	OrderID    int64   `json:"order_id"`
	UserID     int64   `json:"user_id"`
	CustomerID int64   `json:"customer_id"`
	ProductID  int64   `json:"product_id"`
	Qty        int32   `json:"qty"`
	Total      float64 `json:"total"`
}

// OrderService 协调商品库存与订单台账
// 订单+明细+库存的每一次多行写都在单个事务内完成 失败整体回滚
type OrderService struct {
	orderDao    *dao.OrderDao
	productDao  *dao.ProductDao
	customerDao *dao.CustomerDao
	mqPool      *mq.Pool
}

// NewOrderService mqPool可为nil 此时不发布订单事件
func NewOrderService(orderDao *dao.OrderDao, productDao *dao.ProductDao, customerDao *dao.CustomerDao, mqPool *mq.Pool) *OrderService {
	return &OrderService{
		orderDao:    orderDao,
		productDao:  productDao,
		customerDao: customerDao,
		mqPool:      mqPool,
	}
}

// CreateOrder 为当前用户下单
// 事务内: 锁定商品行 -> 校验数量与库存 -> 客户find-or-create -> 写订单+明细 -> 条件扣减库存
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, userEmail string, productID int64, qty int32) (*model.Order, error) {
	var created *model.Order

	err := s.orderDao.Transaction(ctx, func(tx *gorm.DB) error {
		product, err := s.productDao.GetProductForUpdate(tx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return e.New(e.ERROR_PRODUCT_NOT_EXISTS)
			}
			return err
		}

		if qty <= 0 {
			return e.New(e.ERROR_INVALID_QUANTITY)
		}
		if qty > product.QtyInStock {
			return e.New(e.ERROR_STOCK_NOT_ENOUGH)
		}

		customer, err := s.customerDao.FindOrCreateByUser(tx, userID, DisplayNameFromEmail(userEmail), userEmail)
		if err != nil {
			return err
		}

		total := product.Price * float64(qty)
		order := &model.Order{
			UserID:     userID,
			CustomerID: customer.ID,
			Status:     model.OrderStatusNew,
			Total:      total,
			Items: []model.OrderItem{{
				ProductID: productID,
				Qty:       qty,
				UnitPrice: product.Price,
				LineTotal: total,
			}},
		}
		if err := s.orderDao.CreateOrder(tx, order); err != nil {
			return err
		}

		// 行锁下校验已通过 条件扣减只是并发兜底
		if err := s.productDao.DeductStock(tx, productID, qty); err != nil {
			if errors.Is(err, dao.ErrInsufficientStock) {
				return e.New(e.ERROR_STOCK_NOT_ENOUGH)
			}
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		metrics.OrdersFailedTotal.WithLabelValues(failReason(err)).Inc()
		return nil, err
	}

	s.productDao.InvalidateCache(ctx, productID)
	metrics.OrdersCreatedTotal.Inc()
	metrics.StockDecrementedTotal.Add(float64(qty))
	s.publishEvent(mq.KeyOrderCreated, created, productID, qty)

	return created, nil
}

// UpdateOrder 整单替换明细 仅限订单所有者且状态为NEW
// 归还旧明细库存与扣减新需求在同一事务内 新需求不可满足时整体回滚 订单保持原样
func (s *OrderService) UpdateOrder(ctx context.Context, userID, orderID, productID int64, qty int32) (*model.Order, error) {
	touched := map[int64]bool{productID: true}

	err := s.orderDao.Transaction(ctx, func(tx *gorm.DB) error {
		order, err := s.orderDao.GetOrderForUpdate(tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return e.New(e.ERROR_ORDER_NOT_EXISTS)
			}
			return err
		}
		if order.UserID != userID {
			return e.New(e.ERROR_FORBIDDEN)
		}
		if !order.Status.Mutable() {
			return e.New(e.ERROR_ORDER_STATUS)
		}

		product, err := s.productDao.GetProductForUpdate(tx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return e.New(e.ERROR_PRODUCT_NOT_EXISTS)
			}
			return err
		}
		if qty <= 0 {
			return e.New(e.ERROR_INVALID_QUANTITY)
		}

		// 先归还旧明细占用的库存 再按归还后的余量条件扣减新需求
		for _, item := range order.Items {
			if err := s.productDao.RestoreStock(tx, item.ProductID, item.Qty); err != nil {
				return err
			}
			touched[item.ProductID] = true
		}
		if err := s.productDao.DeductStock(tx, productID, qty); err != nil {
			if errors.Is(err, dao.ErrInsufficientStock) {
				return e.New(e.ERROR_STOCK_NOT_ENOUGH)
			}
			return err
		}

		total := product.Price * float64(qty)
		items := []model.OrderItem{{
			ProductID: productID,
			Qty:       qty,
			UnitPrice: product.Price,
			LineTotal: total,
		}}
		return s.orderDao.ReplaceItems(tx, orderID, items, total)
	})
	if err != nil {
		metrics.OrdersFailedTotal.WithLabelValues(failReason(err)).Inc()
		return nil, err
	}

	for id := range touched {
		s.productDao.InvalidateCache(ctx, id)
	}
	return s.orderDao.GetOrderByID(ctx, orderID)
}

// DeleteOrder 删除订单 仅限所有者且状态为NEW 归还全部明细库存后级联删除
func (s *OrderService) DeleteOrder(ctx context.Context, userID, orderID int64) error {
	var deleted *model.Order
	touched := map[int64]bool{}

	err := s.orderDao.Transaction(ctx, func(tx *gorm.DB) error {
		order, err := s.orderDao.GetOrderForUpdate(tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return e.New(e.ERROR_ORDER_NOT_EXISTS)
			}
			return err
		}
		if order.UserID != userID {
			return e.New(e.ERROR_FORBIDDEN)
		}
		if !order.Status.Mutable() {
			return e.New(e.ERROR_ORDER_STATUS)
		}

		for _, item := range order.Items {
			if err := s.productDao.RestoreStock(tx, item.ProductID, item.Qty); err != nil {
				return err
			}
			touched[item.ProductID] = true
		}
		if err := s.orderDao.DeleteOrder(tx, orderID); err != nil {
			return err
		}
		deleted = order
		return nil
	})
	if err != nil {
		metrics.OrdersFailedTotal.WithLabelValues(failReason(err)).Inc()
		return err
	}

	for id := range touched {
		s.productDao.InvalidateCache(ctx, id)
	}
	metrics.OrdersCanceledTotal.Inc()
	if len(deleted.Items) > 0 {
		s.publishEvent(mq.KeyOrderCanceled, deleted, deleted.Items[0].ProductID, deleted.Items[0].Qty)
	}
	return nil
}

// GetOrder 管理员可读任意订单 普通用户只能读自己的
func (s *OrderService) GetOrder(ctx context.Context, userID int64, isAdmin bool, orderID int64) (*model.Order, error) {
	order, err := s.orderDao.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.New(e.ERROR_ORDER_NOT_EXISTS)
		}
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		return nil, e.New(e.ERROR_FORBIDDEN)
	}
	return order, nil
}

// ListOrders 管理员全量可见 普通用户只看自己的订单
func (s *OrderService) ListOrders(ctx context.Context, userID int64, isAdmin bool, page, pageSize int) ([]*model.Order, int64, error) {
	scopedUser := userID
	if isAdmin {
		scopedUser = 0
	}
	return s.orderDao.ListOrders(ctx, scopedUser, page, pageSize)
}

// publishEvent 异步发布订单事件 发布失败只记日志 不影响主流程
func (s *OrderService) publishEvent(key string, order *model.Order, productID int64, qty int32) {
	if s.mqPool == nil {
		return
	}
	evt := orderEvent{
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().Unix(),
		OrderID:    order.ID,
		UserID:     order.UserID,
		CustomerID: order.CustomerID,
		ProductID:  productID,
		Qty:        qty,
		Total:      order.Total,
	}
	body, err := json.Marshal(evt)
	if err != nil {
		logger.Warn("订单事件序列化失败", "order_id", order.ID, "err", err)
		return
	}
	if err := s.mqPool.PublishAsyncWithID(mq.Exchange, key, body, evt.EventID); err != nil {
		logger.Warn("订单事件发布失败", "order_id", order.ID, "key", key, "err", err)
		return
	}
	logger.Info("订单事件已发布", "order_id", order.ID, "key", key, "event_id", evt.EventID)
}

// failReason 失败指标的reason标签
func failReason(err error) string {
	switch e.CodeOf(err) {
	case e.ERROR_STOCK_NOT_ENOUGH:
		return "insufficient_stock"
	case e.ERROR_INVALID_QUANTITY:
		return "invalid_quantity"
	case e.ERROR_ORDER_STATUS:
		return "invalid_state"
	case e.ERROR_FORBIDDEN:
		return "forbidden"
	case e.ERROR_ORDER_NOT_EXISTS, e.ERROR_PRODUCT_NOT_EXISTS:
		return "not_found"
	default:
		return "internal"
	}
}
