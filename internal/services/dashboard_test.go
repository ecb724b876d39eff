package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"EstateHub/internal/models"
)

var fixedNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.Local)

func newTestDashboard(t *testing.T) *DashboardService {
	t.Helper()
	svc := NewDashboardService(newTestDB(t))
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(time.Date(2024, time.February, 10, 8, 30, 0, 0, time.UTC))

	if !start.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	wantEnd := time.Date(2024, time.February, 29, 23, 59, 59, 999999999, time.UTC)
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period  string
		want    time.Time
		wantErr bool
	}{
		{"week", time.Date(2026, time.October, 9, 12, 0, 0, 0, time.UTC), false},
		{"month", time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), false},
		{"", time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), false},
		{"year", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), false},
		{"decade", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got, err := PeriodStart(tt.period, now)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPeriod) {
					t.Fatalf("error = %v, want ErrInvalidPeriod", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("PeriodStart(%q) = %v, want %v", tt.period, got, tt.want)
			}
		})
	}
}

func TestSuccessRateAndAverageAreZeroSafe(t *testing.T) {
	if got := SuccessRate(0, 0); got != 0 {
		t.Errorf("SuccessRate(0,0) = %d", got)
	}
	if got := AverageAmount(0, 0); got != 0 {
		t.Errorf("AverageAmount(0,0) = %d", got)
	}
	if got := SuccessRate(2, 3); got != 67 {
		t.Errorf("SuccessRate(2,3) = %d, want 67", got)
	}
	if got := AverageAmount(1001, 2); got != 501 {
		t.Errorf("AverageAmount(1001,2) = %d, want 501", got)
	}
}

func TestStatsEmptyStore(t *testing.T) {
	svc := newTestDashboard(t)
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalRevenue != 0 || stats.TotalTransactions != 0 || stats.PaymentStats.TotalCommission != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
	if len(stats.RecentTransactions) != 0 || len(stats.TopPerformingAgents) != 0 {
		t.Errorf("expected empty lists, got %+v", stats)
	}
}

func TestStats(t *testing.T) {
	svc := newTestDashboard(t)
	ctx := context.Background()
	db := svc.db

	agentA := seedUser(t, db, "ada", models.RoleAgent)
	agentB := seedUser(t, db, "bola", models.RoleAgent)
	agentC := seedUser(t, db, "chidi", models.RoleAgent)
	customer := seedUser(t, db, "dayo", models.RoleCustomer)
	seedUser(t, db, "root", models.RoleAdmin)

	house := seedPost(t, db, agentA.ID, "Lekki duplex", models.ListingBuy, models.PropertyHouse)
	seedPost(t, db, agentA.ID, "Yaba flat", models.ListingRent, models.PropertyApartment)
	seedPost(t, db, agentB.ID, "Ikoyi flat", models.ListingRent, models.PropertyApartment)
	seedPost(t, db, agentB.ID, "Epe plot", models.ListingBuy, models.PropertyLand)

	thisMonth := time.Date(2026, time.October, 5, 10, 0, 0, 0, time.Local)
	lastMonth := time.Date(2026, time.September, 20, 10, 0, 0, 0, time.Local)

	p1 := seedPayment(t, db, "ref-1", agentB.ID, 100000, models.PaymentSuccess, thisMonth, timePtr(thisMonth))
	seedPayment(t, db, "ref-2", agentB.ID, 50000, models.PaymentPending, thisMonth.Add(time.Hour), nil)
	seedPayment(t, db, "ref-3", agentA.ID, 30000, models.PaymentFailed, lastMonth, nil)
	seedPayment(t, db, "ref-4", customer.ID, 20000, models.PaymentSuccess, lastMonth, timePtr(lastMonth))
	latest := seedPayment(t, db, "ref-5", customer.ID, 5000, models.PaymentSuccess, thisMonth.Add(2*time.Hour), timePtr(thisMonth.Add(2*time.Hour)))

	if err := db.Model(&p1).Update("post_id", house.ID).Error; err != nil {
		t.Fatal(err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.TotalAgents != 3 || stats.TotalCustomers != 1 {
		t.Errorf("agents/customers = %d/%d", stats.TotalAgents, stats.TotalCustomers)
	}
	if stats.TotalTransactions != 5 {
		t.Errorf("TotalTransactions = %d", stats.TotalTransactions)
	}
	if stats.TotalRevenue != 205000 {
		t.Errorf("TotalRevenue = %d, want 205000 (all statuses)", stats.TotalRevenue)
	}
	if stats.PendingTransactions != 1 || stats.CompletedTransactions != 3 || stats.PaymentStats.FailedPayments != 1 {
		t.Errorf("pending/completed/failed = %d/%d/%d", stats.PendingTransactions, stats.CompletedTransactions, stats.PaymentStats.FailedPayments)
	}
	if stats.MonthlyRevenue != 105000 {
		t.Errorf("MonthlyRevenue = %d, want 105000 (success only, paid this month)", stats.MonthlyRevenue)
	}
	if stats.TotalRevenue < stats.MonthlyRevenue {
		t.Error("total revenue must not be below monthly revenue")
	}
	if stats.MonthlyTransactions != 3 {
		t.Errorf("MonthlyTransactions = %d, want 3", stats.MonthlyTransactions)
	}
	if stats.PaymentStats.TotalCommission != 20500 {
		t.Errorf("TotalCommission = %d", stats.PaymentStats.TotalCommission)
	}

	if len(stats.RecentTransactions) != 5 || stats.RecentTransactions[0].ID != latest.ID {
		t.Fatalf("recent transactions not newest first: %+v", stats.RecentTransactions)
	}
	for _, tx := range stats.RecentTransactions {
		if tx.User == nil {
			t.Errorf("payment %s missing user summary", tx.Reference)
		}
		if tx.ID == p1.ID && (tx.Post == nil || tx.Post.Title != "Lekki duplex") {
			t.Errorf("payment ref-1 missing post summary: %+v", tx.Post)
		}
	}

	if len(stats.TopPerformingAgents) != 3 {
		t.Fatalf("TopPerformingAgents = %+v", stats.TopPerformingAgents)
	}
	top := stats.TopPerformingAgents[0]
	if top.ID != agentB.ID || top.PaymentCount != 2 {
		t.Errorf("top agent = %+v, want %s with 2 payments", top, agentB.Username)
	}
	if last := stats.TopPerformingAgents[2]; last.ID != agentC.ID || last.PaymentCount != 0 {
		t.Errorf("last agent = %+v", last)
	}

	if stats.TransactionsByType != (TypeBreakdown{Buy: 2, Rent: 2}) {
		t.Errorf("TransactionsByType = %+v", stats.TransactionsByType)
	}
	if stats.TransactionsByProperty != (PropertyBreakdown{Apartment: 2, House: 1, Land: 1}) {
		t.Errorf("TransactionsByProperty = %+v", stats.TransactionsByProperty)
	}
}

func TestFacets(t *testing.T) {
	svc := newTestDashboard(t)
	ctx := context.Background()
	db := svc.db

	agent := seedUser(t, db, "ada", models.RoleAgent)
	seedUser(t, db, "dayo", models.RoleCustomer)
	seedUser(t, db, "efe", models.RoleCustomer)

	thisMonth := time.Date(2026, time.October, 2, 9, 0, 0, 0, time.Local)
	earlierThisYear := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.Local)
	lastYear := time.Date(2025, time.December, 30, 9, 0, 0, 0, time.Local)

	seedPayment(t, db, "r1", agent.ID, 1000, models.PaymentSuccess, thisMonth, nil)
	seedPayment(t, db, "r2", agent.ID, 2000, models.PaymentFailed, earlierThisYear, nil)
	seedPayment(t, db, "r3", agent.ID, 4000, models.PaymentPending, lastYear, nil)

	if n, err := svc.AgentCount(ctx); err != nil || n != 1 {
		t.Errorf("AgentCount() = %d, %v", n, err)
	}
	if n, err := svc.CustomerCount(ctx); err != nil || n != 2 {
		t.Errorf("CustomerCount() = %d, %v", n, err)
	}
	if n, err := svc.TransactionCount(ctx); err != nil || n != 3 {
		t.Errorf("TransactionCount() = %d, %v", n, err)
	}

	rev, err := svc.Revenue(ctx)
	if err != nil {
		t.Fatalf("Revenue() error = %v", err)
	}
	want := RevenueStats{TotalRevenue: 7000, MonthlyRevenue: 1000, YearlyRevenue: 3000, Commission: 700}
	if *rev != want {
		t.Errorf("Revenue() = %+v, want %+v", *rev, want)
	}

	recent, err := svc.RecentTransactions(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].Reference != "r1" || recent[1].Reference != "r2" {
		t.Errorf("RecentTransactions(2) = %+v", recent)
	}

	all, err := svc.RecentTransactions(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Errorf("RecentTransactions(0) = %d items, %v", len(all), err)
	}

	agents, err := svc.TopAgents(ctx, -1)
	if err != nil || len(agents) != 1 || agents[0].PaymentCount != 3 {
		t.Errorf("TopAgents(-1) = %+v, %v", agents, err)
	}
}

func TestTransactionAnalyticsAlignment(t *testing.T) {
	svc := newTestDashboard(t)
	ctx := context.Background()
	db := svc.db

	user := seedUser(t, db, "dayo", models.RoleCustomer)
	seedPayment(t, db, "w1", user.ID, 100, models.PaymentSuccess, fixedNow.AddDate(0, 0, -2), nil)
	seedPayment(t, db, "w2", user.ID, 200, models.PaymentFailed, fixedNow.AddDate(0, 0, -1), nil)
	seedPayment(t, db, "m1", user.ID, 300, models.PaymentSuccess, time.Date(2026, time.October, 3, 8, 0, 0, 0, time.Local), nil)
	seedPayment(t, db, "y1", user.ID, 400, models.PaymentPending, time.Date(2026, time.February, 3, 8, 0, 0, 0, time.Local), nil)
	seedPayment(t, db, "old", user.ID, 500, models.PaymentSuccess, time.Date(2025, time.June, 3, 8, 0, 0, 0, time.Local), nil)

	tests := []struct {
		period      string
		wantRevenue []int64
	}{
		{"week", []int64{100, 200}},
		{"month", []int64{300, 100, 200}},
		{"year", []int64{400, 300, 100, 200}},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got, err := svc.TransactionAnalytics(ctx, tt.period)
			if err != nil {
				t.Fatalf("TransactionAnalytics(%q) error = %v", tt.period, err)
			}
			if len(got.Labels) != len(got.Data) || len(got.Data) != len(got.Revenue) {
				t.Fatalf("arrays not aligned: %d/%d/%d", len(got.Labels), len(got.Data), len(got.Revenue))
			}
			if len(got.Revenue) != len(tt.wantRevenue) {
				t.Fatalf("revenue = %v, want %v", got.Revenue, tt.wantRevenue)
			}
			for i := range tt.wantRevenue {
				if got.Revenue[i] != tt.wantRevenue[i] || got.Data[i] != 1 {
					t.Errorf("index %d: revenue=%d data=%d", i, got.Revenue[i], got.Data[i])
				}
				if len(got.Labels[i]) != len("2006-01-02") {
					t.Errorf("label %q is not a date", got.Labels[i])
				}
			}
		})
	}

	if _, err := svc.TransactionAnalytics(ctx, "hourly"); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("invalid period error = %v", err)
	}
}

func TestPaymentAnalytics(t *testing.T) {
	svc := newTestDashboard(t)
	ctx := context.Background()

	empty, err := svc.PaymentAnalytics(ctx)
	if err != nil {
		t.Fatalf("PaymentAnalytics() error = %v", err)
	}
	if empty.TotalPayments != 0 || empty.SuccessRate != 0 || empty.AverageAmount != 0 || len(empty.MonthlyPayments) != 0 {
		t.Errorf("empty analytics = %+v", empty)
	}

	db := svc.db
	user := seedUser(t, db, "dayo", models.RoleCustomer)
	seedPayment(t, db, "a", user.ID, 1000, models.PaymentSuccess, time.Date(2026, time.September, 1, 8, 0, 0, 0, time.Local), nil)
	seedPayment(t, db, "b", user.ID, 2001, models.PaymentSuccess, time.Date(2026, time.October, 1, 8, 0, 0, 0, time.Local), nil)
	seedPayment(t, db, "c", user.ID, 9999, models.PaymentFailed, time.Date(2026, time.October, 2, 8, 0, 0, 0, time.Local), nil)

	got, err := svc.PaymentAnalytics(ctx)
	if err != nil {
		t.Fatalf("PaymentAnalytics() error = %v", err)
	}
	if got.TotalPayments != 3 || got.SuccessRate != 67 || got.AverageAmount != 1501 {
		t.Errorf("analytics = %+v", got)
	}
	if len(got.MonthlyPayments) != 2 || got.MonthlyPayments[0] != (MonthlyPayments{Month: "2026-09", Count: 1, Amount: 1000}) {
		t.Errorf("MonthlyPayments = %+v", got.MonthlyPayments)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		limit, def, want int
	}{
		{0, DefaultTopLimit, DefaultTopLimit},
		{-3, DefaultRecentLimit, DefaultRecentLimit},
		{7, DefaultTopLimit, 7},
		{MaxListLimit + 1, DefaultTopLimit, MaxListLimit},
		{math.MaxInt, DefaultRecentLimit, MaxListLimit},
	}

	for _, tt := range tests {
		if got := clampLimit(tt.limit, tt.def); got != tt.want {
			t.Errorf("clampLimit(%d, %d) = %d, want %d", tt.limit, tt.def, got, tt.want)
		}
	}
}

func TestListFacetsAcceptHugeLimits(t *testing.T) {
	svc := newTestDashboard(t)
	ctx := context.Background()

	agent := seedUser(t, svc.db, "ada", models.RoleAgent)
	seedPayment(t, svc.db, "r1", agent.ID, 1000, models.PaymentSuccess, fixedNow, nil)

	agents, err := svc.TopAgents(ctx, math.MaxInt)
	if err != nil || len(agents) != 1 {
		t.Fatalf("TopAgents() = %v, %v", agents, err)
	}
	recent, err := svc.RecentTransactions(ctx, math.MaxInt)
	if err != nil || len(recent) != 1 {
		t.Fatalf("RecentTransactions() = %v, %v", recent, err)
	}
}
