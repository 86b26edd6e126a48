package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/diewo77/consignation-app/internal/models"
)

// StorageKey is the single fixed record key, inherited from the browser
// version's localStorage entry.
const StorageKey = "consignmentProcedure"

// ErrStorage marks a failed read/write to the local store. The in-memory
// document stays authoritative; callers degrade to a user warning.
var ErrStorage = errors.New("storage_unavailable")

// ProcedureRecord is the one-row key/value table backing the local store.
type ProcedureRecord struct {
	Key       string `gorm:"primaryKey;size:64"`
	Data      string `gorm:"not null"`
	UpdatedAt time.Time
}

type Store struct {
	db *gorm.DB
}

// Open connects the local store. A postgres:// DSN selects the postgres
// driver; anything else (default: a local file) goes through sqlite.
func Open(dsn string) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN est vide, vérifiez la configuration de l'environnement")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var dial gorm.Dialector
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		dial = postgres.Open(dsn)
	} else {
		dial = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.AutoMigrate(&ProcedureRecord{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Ping runs a lightweight connectivity check.
func (s *Store) Ping() error {
	return s.db.Exec("SELECT 1").Error
}

// Save serializes the document under the fixed key. Failures are wrapped in
// ErrStorage and never touch the caller's document.
func (s *Store) Save(doc models.Procedure) error {
	doc.Version = models.SchemaVersion
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	rec := ProcedureRecord{Key: StorageKey, Data: string(b)}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Load recovers the persisted document. A missing record, a corrupt record
// or a driver error all degrade to the empty document rather than failing.
func (s *Store) Load() models.Procedure {
	var rec ProcedureRecord
	err := s.db.First(&rec, "key = ?", StorageKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewProcedure()
	}
	if err != nil {
		log.Printf("store: lecture impossible, document vierge: %v", err)
		return models.NewProcedure()
	}
	var raw any
	if err := json.Unmarshal([]byte(rec.Data), &raw); err != nil {
		log.Printf("store: enregistrement corrompu, document vierge: %v", err)
		return models.NewProcedure()
	}
	return models.Normalize(raw)
}
