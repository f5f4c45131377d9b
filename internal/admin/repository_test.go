package admin

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mswdo/soloparent-backend/config"
)

func newTestAdminRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Admin{}, &Superadmin{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(db)
}

func TestCreateEnforcesOneAdminPerBarangay(t *testing.T) {
	repo := newTestAdminRepo(t)

	first := &Admin{Name: "Ana Reyes", Email: "ana@mswdo.local", Password: "x", Barangay: "Poblacion"}
	if err := repo.Create(first); err != nil {
		t.Fatalf("first admin: %v", err)
	}

	second := &Admin{Name: "Mario Cruz", Email: "mario@mswdo.local", Password: "x", Barangay: "Poblacion"}
	if err := repo.Create(second); !errors.Is(err, ErrBarangayTaken) {
		t.Fatalf("duplicate barangay: err = %v, want ErrBarangayTaken", err)
	}

	other := &Admin{Name: "Mario Cruz", Email: "mario@mswdo.local", Password: "x", Barangay: "San Isidro"}
	if err := repo.Create(other); err != nil {
		t.Fatalf("other barangay: %v", err)
	}
}

func TestDeleteFreesBarangay(t *testing.T) {
	repo := newTestAdminRepo(t)

	a := &Admin{Name: "Ana Reyes", Email: "ana@mswdo.local", Password: "x", Barangay: "Poblacion"}
	if err := repo.Create(a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(a.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("repeat delete: err = %v, want ErrRecordNotFound", err)
	}

	// The barangay can be reassigned after its admin is removed.
	replacement := &Admin{Name: "Mario Cruz", Email: "mario@mswdo.local", Password: "x", Barangay: "Poblacion"}
	if err := repo.Create(replacement); err != nil {
		t.Fatalf("reassign barangay: %v", err)
	}
}

func TestSeedSuperadmin(t *testing.T) {
	repo := newTestAdminRepo(t)

	cfg := &config.Config{
		SuperadminEmail:    "mswdo@soloparent.local",
		SuperadminPassword: "initial-secret",
		SuperadminName:     "MSWDO Office",
	}
	if err := SeedSuperadmin(repo.DB, cfg); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sa, err := repo.GetSuperadminByEmail(cfg.SuperadminEmail)
	if err != nil {
		t.Fatalf("load superadmin: %v", err)
	}
	if sa.Password == cfg.SuperadminPassword {
		t.Fatalf("password stored in plain text")
	}

	// Re-seeding leaves the existing account alone.
	if err := repo.UpdateSuperadminPassword(sa.ID, "rotated"); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if err := SeedSuperadmin(repo.DB, cfg); err != nil {
		t.Fatalf("re-seed: %v", err)
	}
	sa, err = repo.GetSuperadminByEmail(cfg.SuperadminEmail)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if sa.Password != "rotated" {
		t.Fatalf("re-seed overwrote an existing account")
	}
}
