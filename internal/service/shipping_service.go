package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/cangku-next/internal/constants"
	"github.com/cangku-next/internal/logger"
	"github.com/cangku-next/internal/models"
	"github.com/cangku-next/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShippingService 包裹与发货：包裹创建是缺货单补足量入账的唯一途径
type ShippingService struct {
	packageRepo   repository.PackageRepository
	orderRepo     repository.OrderRepository
	backOrderRepo repository.BackOrderRepository
	statusService *OrderStatusService
}

func NewShippingService(
	packageRepo repository.PackageRepository,
	orderRepo repository.OrderRepository,
	backOrderRepo repository.BackOrderRepository,
	statusService *OrderStatusService,
) *ShippingService {
	return &ShippingService{
		packageRepo:   packageRepo,
		orderRepo:     orderRepo,
		backOrderRepo: backOrderRepo,
		statusService: statusService,
	}
}

// CreatePackageInput 包裹创建入参
type CreatePackageInput struct {
	OrderID    uint
	Carrier    string
	TrackingNo string
	ActorID    uint
}

// CreatePackage 为已拣订单创建包裹：订单推进到 packed，
// 已补配的缺货单随包裹入账补足量并置 packed。
func (s *ShippingService) CreatePackage(input CreatePackageInput) (*models.Package, error) {
	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	switch order.Status {
	case constants.OrderStatusPicked, constants.OrderStatusPartiallyPicked, constants.OrderStatusPacked:
	default:
		return nil, ErrOrderStatusInvalid
	}

	pkg := &models.Package{
		OrderID:    order.ID,
		PackageNo:  generatePackageNo(),
		Carrier:    strings.TrimSpace(input.Carrier),
		TrackingNo: strings.TrimSpace(input.TrackingNo),
		Status:     constants.PackageStatusCreated,
	}
	oldStatus := order.Status
	advanced := false
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.packageRepo.WithTx(tx).Create(pkg); err != nil {
			return err
		}
		backOrderRepo := s.backOrderRepo.WithTx(tx)
		backOrders, err := backOrderRepo.ListByOrder(order.ID)
		if err != nil {
			return err
		}
		for _, bo := range backOrders {
			if bo.Status != constants.BackOrderStatusAllocated {
				continue
			}
			if err := backOrderRepo.UpdateFields(bo.ID, map[string]interface{}{
				"status":             constants.BackOrderStatusPacked,
				"quantity_fulfilled": bo.QuantityFulfilled + bo.Outstanding(),
			}); err != nil {
				return err
			}
		}
		if order.Status != constants.OrderStatusPacked {
			if err := s.statusService.Transition(tx, order, constants.OrderStatusPacked, input.ActorID, "包裹 "+pkg.PackageNo); err != nil {
				return err
			}
			advanced = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if advanced {
		s.statusService.NotifyChanged(order.ID, oldStatus, constants.OrderStatusPacked)
	}
	logger.Infow("包裹已创建", "order_id", order.ID, "package_no", pkg.PackageNo)
	return pkg, nil
}

// ShipPackage 包裹发货：全部包裹发出订单置 shipped，否则 partially_shipped；
// 随单缺货单最终置 fulfilled。
func (s *ShippingService) ShipPackage(packageID, actorID uint) (*models.Package, error) {
	pkg, err := s.packageRepo.GetByID(packageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageInvalid
	}
	if pkg.Status != constants.PackageStatusCreated {
		return nil, ErrPackageInvalid
	}
	order, err := s.orderRepo.GetByID(pkg.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	oldStatus := order.Status
	target := ""
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		packageRepo := s.packageRepo.WithTx(tx)
		now := time.Now()
		if err := packageRepo.UpdateFields(pkg.ID, map[string]interface{}{
			"status":     constants.PackageStatusShipped,
			"shipped_at": now,
		}); err != nil {
			return err
		}
		pkg.Status = constants.PackageStatusShipped
		pkg.ShippedAt = &now

		all, err := packageRepo.ListByOrder(order.ID)
		if err != nil {
			return err
		}
		allShipped := true
		for _, p := range all {
			if p.ID == pkg.ID {
				continue
			}
			if p.Status == constants.PackageStatusCreated {
				allShipped = false
				break
			}
		}
		switch order.Status {
		case constants.OrderStatusPacked, constants.OrderStatusPartiallyShipped:
			target = constants.OrderStatusShipped
			if !allShipped {
				target = constants.OrderStatusPartiallyShipped
			}
			if target == order.Status {
				target = ""
			}
		}
		if target != "" {
			if err := s.statusService.Transition(tx, order, target, actorID, "包裹 "+pkg.PackageNo+" 发出"); err != nil {
				return err
			}
		}
		if allShipped {
			backOrderRepo := s.backOrderRepo.WithTx(tx)
			backOrders, err := backOrderRepo.ListByOrder(order.ID)
			if err != nil {
				return err
			}
			for _, bo := range backOrders {
				if bo.Status != constants.BackOrderStatusPacked {
					continue
				}
				if err := backOrderRepo.UpdateFields(bo.ID, map[string]interface{}{
					"status": constants.BackOrderStatusFulfilled,
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if target != "" {
		s.statusService.NotifyChanged(order.ID, oldStatus, target)
	}
	logger.Infow("包裹已发货", "package_no", pkg.PackageNo, "order_id", order.ID)
	return pkg, nil
}

// ListPackages 查询订单名下包裹
func (s *ShippingService) ListPackages(orderID uint) ([]models.Package, error) {
	return s.packageRepo.ListByOrder(orderID)
}

func generatePackageNo() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	return fmt.Sprintf("PKG-%s", fragment)
}
