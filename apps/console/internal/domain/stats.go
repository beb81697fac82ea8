package domain

import "github.com/shopspring/decimal"

// StatsScope names the statistics a role may read
type StatsScope string

const (
	StatsScopeNone     StatsScope = ""
	StatsScopeSupplier StatsScope = "supplier"
	StatsScopeAdmin    StatsScope = "admin"
)

// SupplierStats are the counters of /api/orders/stats/supplier
type SupplierStats struct {
	TotalOrders         int             `json:"totalOrders"`
	PendingOrders       int             `json:"pendingOrders"`
	CompletedOrders     int             `json:"completedOrders"`
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
	InTransitDeliveries int             `json:"inTransitDeliveries"`
	CompletedDeliveries int             `json:"completedDeliveries"`
}

// CompletionRate is the percentage of completed orders, zero with no orders
func (s SupplierStats) CompletionRate() decimal.Decimal {
	if s.TotalOrders == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.CompletedOrders)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(s.TotalOrders))).
		Round(1)
}

// AverageOrderValue is revenue per order, zero with no orders
func (s SupplierStats) AverageOrderValue() decimal.Decimal {
	if s.TotalOrders == 0 {
		return decimal.Zero
	}
	return s.TotalRevenue.Div(decimal.NewFromInt(int64(s.TotalOrders))).Round(2)
}

// AdminStats are the counters of /api/stats/admin
type AdminStats struct {
	TotalUsers          int `json:"totalUsers"`
	TotalClients        int `json:"totalClients"`
	TotalSuppliers      int `json:"totalSuppliers"`
	TotalProducts       int `json:"totalProducts"`
	TotalCategories     int `json:"totalCategories"`
	LowStockProducts    int `json:"lowStockProducts"`
	TotalDeliveries     int `json:"totalDeliveries"`
	InTransitDeliveries int `json:"inTransitDeliveries"`
	CompletedDeliveries int `json:"completedDeliveries"`
}

// Stats is the role-scoped statistics view
type Stats struct {
	Scope             StatsScope       `json:"scope"`
	Supplier          *SupplierStats   `json:"supplier,omitempty"`
	CompletionRate    *decimal.Decimal `json:"completionRate,omitempty"`
	AverageOrderValue *decimal.Decimal `json:"averageOrderValue,omitempty"`
	Admin             *AdminStats      `json:"admin,omitempty"`
}
