package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bitfantasy/nimo-inventory/internal/repository"
	"github.com/redis/go-redis/v9"
)

const dashboardCacheTTL = 60 * time.Second

type DashboardService struct {
	poRepo      *repository.PurchaseOrderRepository
	invRepo     *repository.InventoryRepository
	productRepo *repository.ProductRepository
	rdb         *redis.Client
}

func NewDashboardService(poRepo *repository.PurchaseOrderRepository, invRepo *repository.InventoryRepository, productRepo *repository.ProductRepository, rdb *redis.Client) *DashboardService {
	return &DashboardService{poRepo: poRepo, invRepo: invRepo, productRepo: productRepo, rdb: rdb}
}

type DashboardSummary struct {
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	PendingValue   float64          `json:"pending_value"`
	ProductCount   int64            `json:"product_count"`
	InventoryUnits int64            `json:"inventory_units"`
}

// Summary 采购面板汇总，结果按公司短时缓存
func (s *DashboardService) Summary(ctx context.Context, companyID string) (*DashboardSummary, error) {
	cacheKey := "dashboard:summary:" + companyID

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var summary DashboardSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	counts, err := s.poRepo.CountByStatus(companyID)
	if err != nil {
		return nil, err
	}
	byStatus := make(map[string]int64, len(counts))
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}

	pendingValue, err := s.poRepo.PendingValue(companyID)
	if err != nil {
		return nil, err
	}
	productCount, err := s.productRepo.Count(companyID)
	if err != nil {
		return nil, err
	}
	units, err := s.invRepo.TotalUnits(companyID)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		OrdersByStatus: byStatus,
		PendingValue:   pendingValue,
		ProductCount:   productCount,
		InventoryUnits: units,
	}

	if s.rdb != nil {
		if data, err := json.Marshal(summary); err == nil {
			s.rdb.Set(ctx, cacheKey, data, dashboardCacheTTL)
		}
	}
	return summary, nil
}
