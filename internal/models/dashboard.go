package models

// DashboardStats is the full dashboard payload. Every field has a
// documented zero value; metrics the backend cannot compute yet
// (revenue, on-time performance) are always zero-filled rather than
// omitted or errored.
type DashboardStats struct {
	Overview           Overview           `json:"overview"`
	FleetStatus        FleetStatusSummary `json:"fleet_status"`
	RecentAlerts       []Alert            `json:"recent_alerts"`
	PerformanceMetrics PerformanceMetrics `json:"performance_metrics"`
	RoutePerformance   []RoutePerformance `json:"route_performance"`
	WeeklyTrends       WeeklyTrends       `json:"weekly_trends"`
}

// Overview holds the headline dashboard numbers
type Overview struct {
	TotalFleet      int64   `json:"total_fleet"`
	ActiveVehicles  int64   `json:"active_vehicles"`
	TotalRoutes     int64   `json:"total_routes"`
	TotalSchedules  int64   `json:"total_schedules"`
	TodaySchedules  int64   `json:"today_schedules"`
	TotalContacts   int64   `json:"total_contacts"`
	DailyPassengers int64   `json:"daily_passengers"`
	Revenue         Revenue `json:"revenue"`
	Efficiency      int64   `json:"efficiency"` // round(active/total*100)
}

// Revenue is always zero-filled until fare collection data exists
type Revenue struct {
	Today     float64 `json:"today"`
	ThisMonth float64 `json:"this_month"`
	Currency  string  `json:"currency"`
}

// FleetStatusSummary breaks the fleet down by operational status
type FleetStatusSummary struct {
	Active       int64 `json:"active"`
	Maintenance  int64 `json:"maintenance"`
	OutOfService int64 `json:"out_of_service"`
	Idle         int64 `json:"idle"`
}

// Alert is a dashboard notification entry
type Alert struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// PerformanceMetrics is zero-filled until telemetry exists
type PerformanceMetrics struct {
	OnTimePerformance    float64          `json:"on_time_performance"`
	CustomerSatisfaction float64          `json:"customer_satisfaction"`
	FuelEfficiency       float64          `json:"fuel_efficiency"`
	AverageSpeed         float64          `json:"average_speed"`
	MaintenanceCosts     MaintenanceCosts `json:"maintenance_costs"`
}

// MaintenanceCosts is zero-filled until cost tracking exists
type MaintenanceCosts struct {
	ThisMonth float64 `json:"this_month"`
	LastMonth float64 `json:"last_month"`
	Trend     string  `json:"trend"`
}

// RoutePerformance is a per-route ranking entry, empty until ridership
// data exists
type RoutePerformance struct {
	RouteNumber string  `json:"route_number"`
	RouteName   string  `json:"route_name"`
	Passengers  int64   `json:"passengers"`
	OnTime      float64 `json:"on_time"`
	Revenue     float64 `json:"revenue"`
}

// WeeklyTrends holds per-weekday series, zero-filled until history exists
type WeeklyTrends struct {
	Passengers []int64   `json:"passengers"`
	Revenue    []float64 `json:"revenue"`
	Efficiency []int64   `json:"efficiency"`
	Labels     []string  `json:"labels"`
}
