package auditlog

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/platewise/reservations/utils"
)

// Entry is one audited event. The reservation snapshot columns hold "N/A"
// when the event carried no such field, matching the historical log format.
type Entry struct {
	ID            uint   `gorm:"primaryKey"`
	SessionID     string `gorm:"type:varchar(36);index"`
	Role          string `gorm:"type:varchar(50);not null"`
	Actor         string `gorm:"type:varchar(255);not null"`
	Action        string `gorm:"type:varchar(255);not null"`
	Details       string `gorm:"type:text"`
	Success       bool
	ReservationID string `gorm:"type:varchar(50)"`
	Customer      string `gorm:"type:varchar(255)"`
	Phone         string `gorm:"type:varchar(50)"`
	PartySize     string `gorm:"type:varchar(20)"`
	Date          string `gorm:"type:varchar(20)"`
	Time          string `gorm:"type:varchar(20)"`
	TableNumber   string `gorm:"type:varchar(20)"`
	CreatedAt     time.Time
}

// Snapshot is the reservation context attached to an entry. TableIndex is
// 0-based; pass -1 when no table applies.
type Snapshot struct {
	ReservationID string
	Customer      string
	Phone         string
	PartySize     int
	Date          string
	Time          string
	TableIndex    int
}

// Recorder writes audit entries to a sqlite database. Each login rotates
// the session tag so a session's events can be pulled together later.
type Recorder struct {
	db      *gorm.DB
	session string
}

// Open opens (or creates) the audit database and migrates its schema.
func Open(path string) (*Recorder, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	return &Recorder{db: db, session: uuid.NewString()}, nil
}

// Login records a successful login and starts a fresh session tag.
func (r *Recorder) Login(role, username string) {
	r.session = uuid.NewString()
	r.record(role, username, "Logged in", "", true, nil)
}

// Action records a successful operation.
func (r *Recorder) Action(role, actor, action, details string, snap *Snapshot) {
	r.record(role, actor, action, details, true, snap)
}

// Failure records a rejected operation together with its error.
func (r *Recorder) Failure(role, actor, action string, err error, snap *Snapshot) {
	r.record(role, actor, action, err.Error(), false, snap)
}

// Recent returns up to limit entries, newest first.
func (r *Recorder) Recent(limit int) ([]Entry, error) {
	var entries []Entry
	err := r.db.Order("id desc").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	return entries, nil
}

func (r *Recorder) record(role, actor, action, details string, success bool, snap *Snapshot) {
	e := Entry{
		SessionID:     r.session,
		Role:          role,
		Actor:         actor,
		Action:        action,
		Details:       details,
		Success:       success,
		ReservationID: "N/A",
		Customer:      "N/A",
		Phone:         "N/A",
		PartySize:     "N/A",
		Date:          "N/A",
		Time:          "N/A",
		TableNumber:   "N/A",
	}
	if snap != nil {
		e.ReservationID = orNA(snap.ReservationID)
		e.Customer = orNA(snap.Customer)
		e.Phone = orNA(snap.Phone)
		e.Date = orNA(snap.Date)
		e.Time = orNA(snap.Time)
		if snap.PartySize > 0 {
			e.PartySize = strconv.Itoa(snap.PartySize)
		}
		if snap.TableIndex >= 0 {
			e.TableNumber = strconv.Itoa(snap.TableIndex + 1)
		}
	}
	if err := r.db.Create(&e).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to write audit entry: %v", err)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
