package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"EstateHub/internal/models"
)

const (
	DefaultRecentLimit = 10
	DefaultTopLimit    = 5
	MaxListLimit       = 100
)

// DashboardService computes admin statistics straight from the store on
// every call.
type DashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db, now: time.Now}
}

type AgentPerformance struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PaymentCount int64  `json:"paymentCount"`
}

type TypeBreakdown struct {
	Buy  int64 `json:"buy"`
	Rent int64 `json:"rent"`
}

type PropertyBreakdown struct {
	Apartment int64 `json:"apartment"`
	House     int64 `json:"house"`
	Condo     int64 `json:"condo"`
	Land      int64 `json:"land"`
}

type PaymentStats struct {
	TotalPayments      int64 `json:"totalPayments"`
	SuccessfulPayments int64 `json:"successfulPayments"`
	PendingPayments    int64 `json:"pendingPayments"`
	FailedPayments     int64 `json:"failedPayments"`
	TotalCommission    int64 `json:"totalCommission"`
}

// DashboardStats is one snapshot of the admin dashboard. TotalRevenue sums
// every payment whatever its status; MonthlyRevenue only counts successful
// payments paid this month.
type DashboardStats struct {
	TotalAgents            int64              `json:"totalAgents"`
	TotalCustomers         int64              `json:"totalCustomers"`
	TotalTransactions      int64              `json:"totalTransactions"`
	TotalRevenue           int64              `json:"totalRevenue"`
	PendingTransactions    int64              `json:"pendingTransactions"`
	CompletedTransactions  int64              `json:"completedTransactions"`
	MonthlyRevenue         int64              `json:"monthlyRevenue"`
	MonthlyTransactions    int64              `json:"monthlyTransactions"`
	RecentTransactions     []PaymentView      `json:"recentTransactions"`
	TopPerformingAgents    []AgentPerformance `json:"topPerformingAgents"`
	TransactionsByType     TypeBreakdown      `json:"transactionsByType"`
	TransactionsByProperty PropertyBreakdown  `json:"transactionsByProperty"`
	PaymentStats           PaymentStats       `json:"paymentStats"`
}

// MonthRange returns the first and last instant of the calendar month
// containing now, in now's location.
func MonthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

func yearStart(now time.Time) time.Time {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	var failed int64
	var byType, byProperty map[string]int64

	monthStart, monthEnd := MonthRange(s.now())

	g, gctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(gctx)

	g.Go(func() (err error) {
		stats.TotalAgents, err = countUsers(db, models.RoleAgent)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalCustomers, err = countUsers(db, models.RoleCustomer)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalTransactions, err = countPayments(db.Model(&models.Payment{}))
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRevenue, err = sumAmount(db.Model(&models.Payment{}))
		return err
	})
	g.Go(func() (err error) {
		stats.PendingTransactions, err = countPayments(db.Model(&models.Payment{}).Where("status = ?", models.PaymentPending))
		return err
	})
	g.Go(func() (err error) {
		stats.CompletedTransactions, err = countPayments(db.Model(&models.Payment{}).Where("status = ?", models.PaymentSuccess))
		return err
	})
	g.Go(func() (err error) {
		failed, err = countPayments(db.Model(&models.Payment{}).Where("status = ?", models.PaymentFailed))
		return err
	})
	g.Go(func() (err error) {
		stats.MonthlyRevenue, err = sumAmount(db.Model(&models.Payment{}).
			Where("status = ? AND paid_at BETWEEN ? AND ?", models.PaymentSuccess, monthStart, monthEnd))
		return err
	})
	g.Go(func() (err error) {
		stats.MonthlyTransactions, err = countPayments(db.Model(&models.Payment{}).
			Where("created_at BETWEEN ? AND ?", monthStart, monthEnd))
		return err
	})
	g.Go(func() (err error) {
		stats.RecentTransactions, err = recentPayments(db, DefaultRecentLimit)
		return err
	})
	g.Go(func() (err error) {
		stats.TopPerformingAgents, err = topAgents(db, DefaultTopLimit)
		return err
	})
	g.Go(func() (err error) {
		byType, err = countPostsBy(db, "type")
		return err
	})
	g.Go(func() (err error) {
		byProperty, err = countPostsBy(db, "property")
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.TransactionsByType = TypeBreakdown{
		Buy:  byType[string(models.ListingBuy)],
		Rent: byType[string(models.ListingRent)],
	}
	stats.TransactionsByProperty = PropertyBreakdown{
		Apartment: byProperty[string(models.PropertyApartment)],
		House:     byProperty[string(models.PropertyHouse)],
		Condo:     byProperty[string(models.PropertyCondo)],
		Land:      byProperty[string(models.PropertyLand)],
	}
	stats.PaymentStats = PaymentStats{
		TotalPayments:      stats.TotalTransactions,
		SuccessfulPayments: stats.CompletedTransactions,
		PendingPayments:    stats.PendingTransactions,
		FailedPayments:     failed,
		TotalCommission:    Commission(stats.TotalRevenue),
	}

	return &stats, nil
}

func (s *DashboardService) AgentCount(ctx context.Context) (int64, error) {
	return countUsers(s.db.WithContext(ctx), models.RoleAgent)
}

func (s *DashboardService) CustomerCount(ctx context.Context) (int64, error) {
	return countUsers(s.db.WithContext(ctx), models.RoleCustomer)
}

func (s *DashboardService) TransactionCount(ctx context.Context) (int64, error) {
	return countPayments(s.db.WithContext(ctx).Model(&models.Payment{}))
}

type RevenueStats struct {
	TotalRevenue   int64 `json:"totalRevenue"`
	MonthlyRevenue int64 `json:"monthlyRevenue"`
	YearlyRevenue  int64 `json:"yearlyRevenue"`
	Commission     int64 `json:"commission"`
}

// Revenue sums payment amounts of every status: all time, month to date
// and year to date by creation time.
func (s *DashboardService) Revenue(ctx context.Context) (*RevenueStats, error) {
	var rs RevenueStats

	now := s.now()
	monthStart, _ := MonthRange(now)
	startOfYear := yearStart(now)

	g, gctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(gctx)

	g.Go(func() (err error) {
		rs.TotalRevenue, err = sumAmount(db.Model(&models.Payment{}))
		return err
	})
	g.Go(func() (err error) {
		rs.MonthlyRevenue, err = sumAmount(db.Model(&models.Payment{}).Where("created_at >= ?", monthStart))
		return err
	})
	g.Go(func() (err error) {
		rs.YearlyRevenue, err = sumAmount(db.Model(&models.Payment{}).Where("created_at >= ?", startOfYear))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	rs.Commission = Commission(rs.TotalRevenue)
	return &rs, nil
}

// RecentTransactions returns the latest payments, newest first. A
// non-positive limit means DefaultRecentLimit; larger limits are capped at
// MaxListLimit.
func (s *DashboardService) RecentTransactions(ctx context.Context, limit int) ([]PaymentView, error) {
	return recentPayments(s.db.WithContext(ctx), clampLimit(limit, DefaultRecentLimit))
}

// TopAgents ranks agents by number of payments. A non-positive limit means
// DefaultTopLimit; larger limits are capped at MaxListLimit.
func (s *DashboardService) TopAgents(ctx context.Context, limit int) ([]AgentPerformance, error) {
	return topAgents(s.db.WithContext(ctx), clampLimit(limit, DefaultTopLimit))
}

func clampLimit(limit, def int) int {
	switch {
	case limit <= 0:
		return def
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}

// TransactionAnalytics holds one entry per payment in the period, in
// creation order. Labels, Data and Revenue always have the same length.
type TransactionAnalytics struct {
	Labels  []string `json:"labels"`
	Data    []int    `json:"data"`
	Revenue []int64  `json:"revenue"`
}

// PeriodStart resolves week, month or year (empty means month) to the
// start of the window ending at now.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	switch period {
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "", "month":
		start, _ := MonthRange(now)
		return start, nil
	case "year":
		return yearStart(now), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
}

func (s *DashboardService) TransactionAnalytics(ctx context.Context, period string) (*TransactionAnalytics, error) {
	start, err := PeriodStart(period, s.now())
	if err != nil {
		return nil, err
	}

	var payments []models.Payment
	if err := s.db.WithContext(ctx).
		Where("created_at >= ?", start).
		Order("created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	out := &TransactionAnalytics{
		Labels:  make([]string, 0, len(payments)),
		Data:    make([]int, 0, len(payments)),
		Revenue: make([]int64, 0, len(payments)),
	}
	for _, p := range payments {
		out.Labels = append(out.Labels, p.CreatedAt.UTC().Format("2006-01-02"))
		out.Data = append(out.Data, 1)
		out.Revenue = append(out.Revenue, p.Amount)
	}
	return out, nil
}

type MonthlyPayments struct {
	Month  string `json:"month"` // YYYY-MM
	Count  int64  `json:"count"`
	Amount int64  `json:"amount"`
}

type PaymentAnalytics struct {
	TotalPayments   int64             `json:"totalPayments"`
	SuccessRate     int64             `json:"successRate"`
	AverageAmount   int64             `json:"averageAmount"`
	MonthlyPayments []MonthlyPayments `json:"monthlyPayments"`
}

// PaymentAnalytics reports the success rate in whole percent, the mean
// successful amount, and successful payments of the current year by month.
func (s *DashboardService) PaymentAnalytics(ctx context.Context) (*PaymentAnalytics, error) {
	var total, successful, successSum int64
	var yearly []models.Payment

	startOfYear := yearStart(s.now())

	g, gctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(gctx)

	g.Go(func() (err error) {
		total, err = countPayments(db.Model(&models.Payment{}))
		return err
	})
	g.Go(func() (err error) {
		successful, err = countPayments(db.Model(&models.Payment{}).Where("status = ?", models.PaymentSuccess))
		return err
	})
	g.Go(func() (err error) {
		successSum, err = sumAmount(db.Model(&models.Payment{}).Where("status = ?", models.PaymentSuccess))
		return err
	})
	g.Go(func() error {
		err := db.Select("amount", "created_at").
			Where("status = ? AND created_at >= ?", models.PaymentSuccess, startOfYear).
			Order("created_at ASC").
			Find(&yearly).Error
		if err != nil {
			return fmt.Errorf("failed to load payments: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &PaymentAnalytics{
		TotalPayments:   total,
		SuccessRate:     SuccessRate(successful, total),
		AverageAmount:   AverageAmount(successSum, successful),
		MonthlyPayments: bucketByMonth(yearly, s.now().Location()),
	}, nil
}

// SuccessRate is successful/total as a rounded percentage, 0 when total is 0.
func SuccessRate(successful, total int64) int64 {
	if total == 0 {
		return 0
	}
	return int64(math.Round(float64(successful) / float64(total) * 100))
}

// AverageAmount is sum/count rounded, 0 when count is 0.
func AverageAmount(sum, count int64) int64 {
	if count == 0 {
		return 0
	}
	return int64(math.Round(float64(sum) / float64(count)))
}

func bucketByMonth(payments []models.Payment, loc *time.Location) []MonthlyPayments {
	buckets := make([]MonthlyPayments, 0)
	for _, p := range payments {
		month := p.CreatedAt.In(loc).Format("2006-01")
		if n := len(buckets); n > 0 && buckets[n-1].Month == month {
			buckets[n-1].Count++
			buckets[n-1].Amount += p.Amount
			continue
		}
		buckets = append(buckets, MonthlyPayments{Month: month, Count: 1, Amount: p.Amount})
	}
	return buckets
}

func countUsers(db *gorm.DB, role models.Role) (int64, error) {
	var n int64
	if err := db.Model(&models.User{}).Where("role = ?", role).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s users: %w", role, err)
	}
	return n, nil
}

func countPayments(query *gorm.DB) (int64, error) {
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return n, nil
}

func sumAmount(query *gorm.DB) (int64, error) {
	var total int64
	if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}

func recentPayments(db *gorm.DB, limit int) ([]PaymentView, error) {
	var payments []models.Payment
	if err := withSummaries(db).Order("created_at DESC").Limit(limit).Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent payments: %w", err)
	}
	return newPaymentViews(payments), nil
}

func topAgents(db *gorm.DB, limit int) ([]AgentPerformance, error) {
	agents := make([]AgentPerformance, 0)
	err := db.Model(&models.User{}).
		Select("users.id, users.username, users.email, COUNT(payments.id) AS payment_count").
		Joins("LEFT JOIN payments ON payments.user_id = users.id").
		Where("users.role = ?", models.RoleAgent).
		Group("users.id, users.username, users.email").
		Order("payment_count DESC, users.id ASC").
		Limit(limit).
		Scan(&agents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank agents: %w", err)
	}
	return agents, nil
}

// countPostsBy groups listings by column, which must be "type" or "property".
func countPostsBy(db *gorm.DB, column string) (map[string]int64, error) {
	var rows []struct {
		Label string
		Total int64
	}
	err := db.Model(&models.Post{}).
		Select(column + " AS label, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group posts by %s: %w", column, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Label] = r.Total
	}
	return counts, nil
}
