package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"commission-backend/internal/model"
	"commission-backend/internal/repository"
)

const (
	DefaultKeep     = 7
	DefaultInterval = 30 * time.Minute

	filePrefix = "backup-"
	fileSuffix = ".json"
	stampFmt   = "20060102T150405.000Z"
)

// Snapshot is the content of one backup file.
type Snapshot struct {
	Timestamp   time.Time                `json:"timestamp"`
	Sales       []model.Sale             `json:"sales"`
	Commissions []model.Commission       `json:"commissions"`
	Packages    []model.MarketingPackage `json:"marketing_packages"`
	Users       []model.User             `json:"users"` // password hashes are never serialized
	AuditLog    []model.AuditLog         `json:"audit_log"`
}

// Source produces the data to back up.
type Source interface {
	Dump(ctx context.Context) (*Snapshot, error)
}

// Info describes one backup file on disk.
type Info struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

// Manager writes periodic snapshots into a directory and keeps the newest few.
type Manager struct {
	source   Source
	dir      string
	keep     int
	interval time.Duration
	now      func() time.Time
}

func NewManager(source Source, dir string, keep int, interval time.Duration) *Manager {
	if keep <= 0 {
		keep = DefaultKeep
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Manager{source: source, dir: dir, keep: keep, interval: interval, now: time.Now}
}

// Snapshot dumps the source into a new timestamped file and prunes old ones.
func (m *Manager) Snapshot(ctx context.Context) (Info, error) {
	snap, err := m.source.Dump(ctx)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read backup source: %w", err)
	}
	ts := m.now().UTC()
	snap.Timestamp = ts

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return Info{}, fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return Info{}, fmt.Errorf("failed to create backup dir: %w", err)
	}

	name := filePrefix + ts.Format(stampFmt) + fileSuffix
	tmp := filepath.Join(m.dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return Info{}, fmt.Errorf("failed to write backup: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(m.dir, name)); err != nil {
		os.Remove(tmp)
		return Info{}, fmt.Errorf("failed to write backup: %w", err)
	}

	if err := m.prune(); err != nil {
		log.Printf("backup: prune failed: %v", err)
	}
	return Info{Name: name, CreatedAt: ts, Size: int64(len(data))}, nil
}

// List returns the available backups, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := []Info{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		ts, err := time.Parse(stampFmt, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
		if err != nil {
			continue
		}
		info := Info{Name: name, CreatedAt: ts}
		if fi, err := e.Info(); err == nil {
			info.Size = fi.Size()
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Manager) prune() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for _, b := range backups[min(m.keep, len(backups)):] {
		if err := os.Remove(filepath.Join(m.dir, b.Name)); err != nil {
			return err
		}
	}
	return nil
}

// Run snapshots on every tick until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	log.Printf("Backup every %s into %s (keeping %d)", m.interval, m.dir, m.keep)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := m.Snapshot(ctx)
			if err != nil {
				log.Printf("backup: %v", err)
				continue
			}
			log.Printf("Backup written: %s", info.Name)
		}
	}
}

// StoreSource dumps every repository of a Store.
type StoreSource struct {
	Store *repository.Store
}

func (s StoreSource) Dump(ctx context.Context) (*Snapshot, error) {
	sales, err := s.Store.Sales.FindAll(ctx, repository.SaleFilter{})
	if err != nil {
		return nil, err
	}
	commissions, err := s.Store.Commissions.FindAll(ctx, repository.CommissionFilter{})
	if err != nil {
		return nil, err
	}
	packages, err := s.Store.Marketing.FindAll(ctx, repository.MarketingFilter{})
	if err != nil {
		return nil, err
	}
	users, err := s.Store.Users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	audit, err := s.Store.Audit.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Sales:       sales,
		Commissions: commissions,
		Packages:    packages,
		Users:       users,
		AuditLog:    audit,
	}, nil
}
