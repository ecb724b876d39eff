package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"EstateHub/internal/database"
	"EstateHub/internal/models"
)

// newTestDB returns a migrated in-memory database private to t.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

func seedUser(t *testing.T, db *gorm.DB, name string, role models.Role) models.User {
	t.Helper()
	u := models.User{Username: name, Email: name + "@example.com", Role: role}
	mustCreate(t, db, &u)
	return u
}

func seedPost(t *testing.T, db *gorm.DB, owner uint, title string, typ models.ListingType, kind models.PropertyKind) models.Post {
	t.Helper()
	p := models.Post{Title: title, Price: 1500000, Type: typ, Property: kind, UserID: owner}
	mustCreate(t, db, &p)
	return p
}

func seedPayment(t *testing.T, db *gorm.DB, ref string, user uint, amount int64, status models.PaymentStatus, createdAt time.Time, paidAt *time.Time) models.Payment {
	t.Helper()
	p := models.Payment{
		Reference: ref,
		Amount:    amount,
		Status:    status,
		Channel:   "card",
		Currency:  "NGN",
		UserID:    user,
		PaidAt:    paidAt,
		CreatedAt: createdAt,
	}
	mustCreate(t, db, &p)
	return p
}

func timePtr(t time.Time) *time.Time { return &t }

func uintPtr(v uint) *uint { return &v }
