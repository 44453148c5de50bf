package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/cangku-next/internal/constants"
	"github.com/cangku-next/internal/logger"
	"github.com/cangku-next/internal/models"
	"github.com/cangku-next/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单接入与生命周期服务
type OrderService struct {
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	inventoryRepo   repository.InventoryRepository
	reservationRepo repository.ReservationRepository
	backOrderRepo   repository.BackOrderRepository
	statusService   *OrderStatusService
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	reservationRepo repository.ReservationRepository,
	backOrderRepo repository.BackOrderRepository,
	statusService *OrderStatusService,
) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		inventoryRepo:   inventoryRepo,
		reservationRepo: reservationRepo,
		backOrderRepo:   backOrderRepo,
		statusService:   statusService,
	}
}

// CreateOrderItemInput 订单项入参，SKU 与 ProductID 二选一
type CreateOrderItemInput struct {
	ProductID uint    `json:"product_id"`
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	UnitPrice *string `json:"unit_price,omitempty"`
}

// CreateOrderInput 订单接入入参
type CreateOrderInput struct {
	OrderNo       string                 `json:"order_no"`
	CustomerName  string                 `json:"customer_name"`
	CustomerEmail string                 `json:"customer_email"`
	Notes         string                 `json:"notes"`
	Items         []CreateOrderItemInput `json:"items"`
}

// CreateOrder 接收上游订单：校验商品与数量，落订单与初始状态历史
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrOrderInvalid
	}

	orderNo := strings.TrimSpace(input.OrderNo)
	if orderNo == "" {
		orderNo = generateOrderNo()
	} else {
		existing, err := s.orderRepo.GetByOrderNo(orderNo)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			// 同编号重复推送按幂等处理，直接返回已有订单
			return existing, nil
		}
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	total := models.Zero()
	for _, in := range input.Items {
		if in.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		var product *models.Product
		var err error
		if in.ProductID > 0 {
			product, err = s.productRepo.GetByID(in.ProductID)
		} else if strings.TrimSpace(in.SKU) != "" {
			product, err = s.productRepo.GetBySKU(strings.TrimSpace(in.SKU))
		} else {
			return nil, ErrOrderInvalid
		}
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			return nil, ErrProductNotFound
		}

		unitPrice := product.UnitPrice
		if in.UnitPrice != nil {
			parsed, err := models.NewMoneyFromString(*in.UnitPrice)
			if err != nil {
				return nil, ErrOrderInvalid
			}
			unitPrice = parsed
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  in.Quantity,
			UnitPrice: unitPrice,
		})
		total = total.Add(unitPrice.MulInt(int64(in.Quantity)))
	}

	order := &models.Order{
		OrderNo:       orderNo,
		Status:        constants.OrderStatusPending,
		TotalAmount:   total,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		Notes:         input.Notes,
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		if err := repo.Create(order, items); err != nil {
			return err
		}
		return repo.AppendStatusHistory(&models.OrderStatusHistory{
			OrderID:   order.ID,
			NewStatus: constants.OrderStatusPending,
			Notes:     "订单接入",
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("订单已接入", "order_id", order.ID, "order_no", order.OrderNo, "items", len(items))
	return s.orderRepo.GetByID(order.ID)
}

// CancelOrder 取消订单：释放全部预留、清除缺货单、落 deallocation 流水
func (s *OrderService) CancelOrder(orderID, actorID uint, reason string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if !CanTransition(order.Status, constants.OrderStatusCancelled) {
		return ErrOrderStatusInvalid
	}

	oldStatus := order.Status
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		invRepo := s.inventoryRepo.WithTx(tx)
		resvRepo := s.reservationRepo.WithTx(tx)

		reservations, err := resvRepo.ListByOrder(order.ID)
		if err != nil {
			return err
		}
		for _, resv := range reservations {
			if resv.Status != constants.ReservationStatusActive || resv.Quantity <= 0 {
				continue
			}
			record, err := invRepo.GetRecord(resv.ProductID, resv.LocationID)
			if err != nil {
				return err
			}
			if record == nil {
				return ErrInventoryRecordMissing
			}
			if _, err := invRepo.ReleaseReserved(record.ID, resv.Quantity); err != nil {
				return err
			}
			if err := resvRepo.UpdateStatus(resv.ID, constants.ReservationStatusReleased); err != nil {
				return err
			}
			if err := invRepo.AppendTransaction(&models.InventoryTransaction{
				ProductID:      resv.ProductID,
				LocationID:     resv.LocationID,
				Type:           constants.TxnTypeDeallocation,
				QuantityChange: resv.Quantity,
				ReferenceType:  constants.TxnRefTypeOrder,
				ReferenceID:    order.ID,
				ActorID:        actorID,
				Notes:          reason,
			}); err != nil {
				return err
			}
		}
		if err := s.backOrderRepo.WithTx(tx).DeleteByOrder(order.ID); err != nil {
			return err
		}
		if order.HasBackOrders {
			if err := s.orderRepo.WithTx(tx).UpdateFields(order.ID, map[string]interface{}{"has_back_orders": false}); err != nil {
				return err
			}
		}
		return s.statusService.Transition(tx, order, constants.OrderStatusCancelled, actorID, reason)
	})
	if err != nil {
		return err
	}
	s.statusService.NotifyChanged(order.ID, oldStatus, constants.OrderStatusCancelled)
	logger.Infow("订单已取消", "order_id", order.ID, "from", oldStatus)
	return nil
}

// UpdateStatus 人工状态流转（发货后的送达、妥投、退货等跳转从这里走）
func (s *OrderService) UpdateStatus(orderID uint, newStatus string, actorID uint, notes string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	oldStatus := order.Status
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.statusService.Transition(tx, order, newStatus, actorID, notes)
	})
	if err != nil {
		return err
	}
	s.statusService.NotifyChanged(order.ID, oldStatus, newStatus)
	return nil
}

// GetOrder 获取订单详情（含订单项、历史、缺货单、预留、包裹）
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 分页查询订单
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// ListStatusHistory 查询订单状态历史
func (s *OrderService) ListStatusHistory(orderID uint) ([]models.OrderStatusHistory, error) {
	return s.orderRepo.ListStatusHistory(orderID)
}

// generateOrderNo 生成订单编号：SO + 时间戳 + 随机数
func generateOrderNo() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		n = big.NewInt(time.Now().UnixNano() % 1000000)
	}
	return fmt.Sprintf("SO%s%06d", time.Now().Format("20060102150405"), n.Int64())
}
