package adapter

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	m "github.com/mouse-blink/suspect/internal/model"
)

var bucketReports = []byte("reports")

// ReportStore persists and retrieves analysis reports.
type ReportStore interface {
	// SaveReport stores report and returns it with its id assigned.
	SaveReport(report m.Report) (m.Report, error)
	// LoadReport returns the report stored under id, or ErrReportNotFound.
	LoadReport(id string) (m.Report, error)
	// LatestReport returns the most recently created report.
	LatestReport() (m.Report, error)
	// ListReports returns summaries of all stored reports, newest first.
	ListReports() ([]m.ReportSummary, error)
	Close() error
}

// BoltReportStore is a ReportStore backed by a bbolt database file. Each
// report is one JSON blob keyed by its id.
type BoltReportStore struct {
	db *bolt.DB
}

// NewBoltReportStore opens (or creates) the report database at path.
func NewBoltReportStore(path m.Path) (*BoltReportStore, error) {
	db, err := bolt.Open(string(path), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open %s: %w", path, err)
	}

	return &BoltReportStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltReportStore) Close() error {
	return s.db.Close()
}

// SaveReport assigns an id derived from the report content when missing
// and stores the report.
func (s *BoltReportStore) SaveReport(report m.Report) (m.Report, error) {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	if report.ID == "" {
		id, err := computeReportID(report)
		if err != nil {
			return m.Report{}, err
		}

		report.ID = id
	}

	data, err := json.Marshal(report)
	if err != nil {
		return m.Report{}, fmt.Errorf("marshal report %s: %w", report.ID, err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketReports)
		if err != nil {
			return err
		}

		return bucket.Put([]byte(report.ID), data)
	})
	if err != nil {
		return m.Report{}, fmt.Errorf("store report %s: %w", report.ID, err)
	}

	return report, nil
}

// LoadReport reads the report stored under id.
func (s *BoltReportStore) LoadReport(id string) (m.Report, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketReports)
		if bucket == nil {
			return nil
		}

		// bbolt slices are only valid within the transaction
		if v := bucket.Get([]byte(id)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}

		return nil
	})
	if err != nil {
		return m.Report{}, err
	}

	if data == nil {
		return m.Report{}, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}

	var report m.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return m.Report{}, fmt.Errorf("unmarshal report %s: %w", id, err)
	}

	return report, nil
}

// LatestReport returns the newest stored report.
func (s *BoltReportStore) LatestReport() (m.Report, error) {
	summaries, err := s.ListReports()
	if err != nil {
		return m.Report{}, err
	}

	if len(summaries) == 0 {
		return m.Report{}, fmt.Errorf("%w: store is empty", ErrReportNotFound)
	}

	return s.LoadReport(summaries[0].ID)
}

// ListReports summarizes every stored report, newest first.
func (s *BoltReportStore) ListReports() ([]m.ReportSummary, error) {
	var summaries []m.ReportSummary

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketReports)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var report m.Report
			if err := json.Unmarshal(v, &report); err != nil {
				return fmt.Errorf("unmarshal report %s: %w", k, err)
			}

			summaries = append(summaries, report.Summary())

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if !summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
		}

		return summaries[i].ID < summaries[j].ID
	})

	return summaries, nil
}

// computeReportID derives a short stable id from the report content.
func computeReportID(report m.Report) (string, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	sum := sha256.Sum256(data)

	return fmt.Sprintf("%x", sum[:8]), nil
}
