package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PhilipFalla/pokecollect-gui/internal/metrics"
	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

// SnapshotService records each collection's value once per day
type SnapshotService struct {
	db     *gorm.DB
	prices *PriceService

	mu            sync.RWMutex
	lastSnapshot  time.Time
	snapshotHour  int // Hour of day (UTC) to take snapshots (0-23)
	checkInterval time.Duration
	now           func() time.Time
}

// NewSnapshotService creates a new snapshot service. Out-of-range hours fall
// back to 23.
func NewSnapshotService(db *gorm.DB, prices *PriceService, snapshotHour int) *SnapshotService {
	if snapshotHour < 0 || snapshotHour > 23 {
		snapshotHour = 23
	}
	return &SnapshotService{
		db:            db,
		prices:        prices,
		snapshotHour:  snapshotHour,
		checkInterval: 15 * time.Minute,
		now:           time.Now,
	}
}

// Start runs the snapshot worker until ctx is cancelled
func (s *SnapshotService) Start(ctx context.Context) {
	slog.Info("Snapshot service started", slog.Int("hour_utc", s.snapshotHour))

	// Catch up on startup if today's snapshot is missing
	s.checkAndSnapshot()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Snapshot service stopping")
			return
		case <-ticker.C:
			s.checkAndSnapshot()
		}
	}
}

func (s *SnapshotService) checkAndSnapshot() {
	now := s.now().UTC()
	today := startOfDay(now)

	s.mu.RLock()
	done := !s.lastSnapshot.Before(today)
	s.mu.RUnlock()
	if done {
		return
	}

	if now.Hour() >= s.snapshotHour {
		if err := s.TakeSnapshot(); err != nil {
			slog.Error("Snapshot service: failed to take snapshot", slog.Any("error", err))
		}
	}
}

// TakeSnapshot records today's value for every collection, replacing any
// snapshot already stored for today.
func (s *SnapshotService) TakeSnapshot() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	snapshotDate := startOfDay(now)

	var collections []models.Collection
	if err := s.db.Find(&collections).Error; err != nil {
		return err
	}
	if err := s.prices.Populate(collections); err != nil {
		return err
	}

	total := 0.0
	for _, c := range collections {
		snapshot := models.CollectionValueSnapshot{
			CollectionID: c.ID,
			SnapshotDate: snapshotDate,
			TotalCards:   c.CardCount,
			TotalValue:   c.PriceUSD,
			CreatedAt:    now,
		}
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection_id"}, {Name: "snapshot_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_cards", "total_value"}),
		}).Create(&snapshot).Error
		if err != nil {
			return err
		}
		total += c.PriceUSD
		metrics.SnapshotsTaken.Inc()
	}

	s.lastSnapshot = now
	metrics.UpdateCollectionMetrics(s.db, total)
	slog.Info("Snapshot service: recorded value snapshots",
		slog.String("date", snapshotDate.Format("2006-01-02")),
		slog.Int("collections", len(collections)),
		slog.Float64("total_usd", total))

	return nil
}

// GetHistory retrieves a collection's snapshots for a given period
func (s *SnapshotService) GetHistory(collectionID uint, period string) ([]models.CollectionValueSnapshot, error) {
	snapshots := []models.CollectionValueSnapshot{}

	now := s.now().UTC()
	var startDate time.Time

	switch period {
	case "week":
		startDate = now.AddDate(0, 0, -7)
	case "month":
		startDate = now.AddDate(0, -1, 0)
	case "3month":
		startDate = now.AddDate(0, -3, 0)
	case "year":
		startDate = now.AddDate(-1, 0, 0)
	case "all":
		startDate = time.Time{} // No filter
	default:
		startDate = now.AddDate(0, -1, 0)
	}

	query := s.db.Where("collection_id = ?", collectionID).Order("snapshot_date ASC")
	if !startDate.IsZero() {
		query = query.Where("snapshot_date >= ?", startOfDay(startDate))
	}

	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}

	return snapshots, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
