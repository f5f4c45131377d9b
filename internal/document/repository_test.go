package document

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	for _, dt := range AllTypes() {
		if err := db.Table(Meta(dt).Table).AutoMigrate(&Document{}); err != nil {
			t.Fatalf("migrate %s: %v", Meta(dt).Table, err)
		}
	}
	return db
}

func TestUpsertInsertsThenUpdates(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	res, err := repo.Upsert(TypePSA, "SP-0001", "psa_v1.pdf", "PSA Birth Certificate", "")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if res.Action != "inserted" {
		t.Fatalf("first upsert action = %q, want inserted", res.Action)
	}

	res, err = repo.Upsert(TypePSA, "SP-0001", "psa_v2.pdf", "PSA Birth Certificate", "")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if res.Action != "updated" {
		t.Fatalf("second upsert action = %q, want updated", res.Action)
	}

	var count int64
	if err := repo.DB.Table("psa_documents").Where("code_id = ?", "SP-0001").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row after resubmission, got %d", count)
	}

	doc, err := repo.Latest(TypePSA, "SP-0001")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if doc == nil || doc.FileName != "psa_v2.pdf" {
		t.Fatalf("latest = %+v, want psa_v2.pdf", doc)
	}
}

func TestUpsertKeepsCasesSeparate(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	if _, err := repo.Upsert(TypeITR, "SP-0001", "a.pdf", "Income Tax Return", ""); err != nil {
		t.Fatalf("upsert SP-0001: %v", err)
	}
	if _, err := repo.Upsert(TypeITR, "SP-0002", "b.pdf", "Income Tax Return", ""); err != nil {
		t.Fatalf("upsert SP-0002: %v", err)
	}

	var count int64
	if err := repo.DB.Table("itr_documents").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}
}

func TestUpdateStatusAndChecklist(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	if _, err := repo.Upsert(TypePSA, "SP-0003", "psa.pdf", "PSA Birth Certificate", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	reason := "blurry scan"
	if err := repo.UpdateStatus(TypePSA, "SP-0003", StatusRejected, &reason); err != nil {
		t.Fatalf("update status: %v", err)
	}

	doc, err := repo.Latest(TypePSA, "SP-0003")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if doc.Status != StatusRejected || doc.RejectionReason == nil || *doc.RejectionReason != reason {
		t.Fatalf("document = %+v, want rejected with reason", doc)
	}

	list, err := repo.Checklist("SP-0003")
	if err != nil {
		t.Fatalf("checklist: %v", err)
	}
	if len(list) != len(AllTypes()) {
		t.Fatalf("checklist entries = %d, want %d", len(list), len(AllTypes()))
	}
	var submitted int
	for _, item := range list {
		if item.Submitted {
			submitted++
		}
	}
	if submitted != 1 {
		t.Fatalf("submitted count = %d, want 1", submitted)
	}
}

func TestApproveAll(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	for _, dt := range []DocType{TypePSA, TypeITR, TypeMedCert} {
		if _, err := repo.Upsert(dt, "SP-0004", "f.pdf", Meta(dt).DisplayName, ""); err != nil {
			t.Fatalf("upsert %s: %v", dt, err)
		}
	}
	if err := repo.ApproveAll("SP-0004"); err != nil {
		t.Fatalf("approve all: %v", err)
	}

	for _, dt := range []DocType{TypePSA, TypeITR, TypeMedCert} {
		doc, err := repo.Latest(dt, "SP-0004")
		if err != nil {
			t.Fatalf("latest %s: %v", dt, err)
		}
		if doc.Status != StatusApproved {
			t.Fatalf("%s status = %s, want Approved", dt, doc.Status)
		}
	}
}

func TestDelete(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	if _, err := repo.Upsert(TypeBarangayCert, "SP-0005", "cert.pdf", "Barangay Certificate", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	deleted, err := repo.Delete(TypeBarangayCert, "SP-0005")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatalf("expected a row to be deleted")
	}
	deleted, err = repo.Delete(TypeBarangayCert, "SP-0005")
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Fatalf("second delete should be a no-op")
	}
}
