//go:build !rp2040 && !rp2350

package readinglog

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"airbuddy-go/types"
)

// ArchivedReading is the SQLite row for one log record. The host keeps a
// queryable archive alongside the flat CSV; the CSV stays the canonical
// device format.
type ArchivedReading struct {
	ID          string `gorm:"primaryKey;size:36"`
	SessionID   string `gorm:"index;size:36"`
	CapturedAt  int64  `gorm:"index"`
	TempC       float64
	HumidityPct float64
	ECO2PPM     int
	TVOCPPB     int
	Rating      string
	Lat         float64
	Lon         float64
	HasFix      bool
}

// Archive stores records in SQLite, tagging each with the boot session id.
type Archive struct {
	db      *gorm.DB
	session string
}

// OpenArchive opens (creating if needed) the archive at path.
func OpenArchive(path string) (*Archive, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open archive")
	}
	if err := db.AutoMigrate(&ArchivedReading{}); err != nil {
		return nil, errors.Wrap(err, "migrate archive")
	}
	return &Archive{db: db, session: uuid.NewString()}, nil
}

func (a *Archive) Append(rec types.LogRecord) error {
	row := ArchivedReading{
		ID:          uuid.NewString(),
		SessionID:   a.session,
		CapturedAt:  rec.Reading.TS,
		TempC:       rec.Reading.TempC,
		HumidityPct: rec.Reading.HumidityPct,
		ECO2PPM:     rec.Reading.ECO2PPM,
		TVOCPPB:     rec.Reading.TVOCPPB,
		Rating:      rec.Label,
		Lat:         rec.Fix.Lat,
		Lon:         rec.Fix.Lon,
		HasFix:      rec.Fix.Valid,
	}
	return a.db.Create(&row).Error
}

// RecentRows returns the n newest archived rows.
func (a *Archive) RecentRows(n int) ([]ArchivedReading, error) {
	var rows []ArchivedReading
	err := a.db.Order("captured_at desc").Limit(n).Find(&rows).Error
	return rows, err
}
