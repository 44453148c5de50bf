package service

import (
	"sort"

	"github.com/cangku-next/internal/models"
)

// rankRecordsByAvailable 把库存记录按可用量从大到小排序，过滤掉无可用量的库位。
// 分配引擎与缺货补配共用同一份排序，避免两处口径不一致。
func rankRecordsByAvailable(records []models.InventoryRecord) []models.InventoryRecord {
	ranked := make([]models.InventoryRecord, 0, len(records))
	for _, rec := range records {
		if rec.Available() > 0 {
			ranked = append(ranked, rec)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Available() != ranked[j].Available() {
			return ranked[i].Available() > ranked[j].Available()
		}
		return ranked[i].LocationID < ranked[j].LocationID
	})
	return ranked
}

// rankReservationsByQuantity 拣货单生成时按预占量从大到小挑选来源库位
func rankReservationsByQuantity(reservations []models.Reservation) []models.Reservation {
	ranked := make([]models.Reservation, len(reservations))
	copy(ranked, reservations)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return ranked[i].LocationID < ranked[j].LocationID
	})
	return ranked
}
