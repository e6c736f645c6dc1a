package migrate

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pricile448/amcb-sub000/reconcile"
)

// Config controls one migration run. The zero value is not usable; New fills
// in defaults for BatchSize and Pause.
type Config struct {
	// BatchSize is the number of documents processed between pauses.
	BatchSize int
	// Pause is the fixed delay between batches. A blind delay, not adaptive:
	// its only job is to bound write throughput against the store.
	Pause time.Duration
	// DryRun computes every patch but writes nothing, bookkeeping included.
	DryRun bool
	// CreateBackup snapshots id/email/createdAt/updatedAt of every user into
	// a backup_<timestamp> document before any patch is written.
	CreateBackup bool
	// SkipExisting treats a document with no missing top-level field as
	// already complete, skipping deep member/sub-key merges for it.
	SkipExisting bool
}

// Per-document outcomes.
const (
	OutcomeAlreadyComplete = "already_complete"
	OutcomeSuccess         = "success"
	OutcomePartial         = "partial"
	OutcomeError           = "error"
)

// Summary aggregates a whole run. Total always equals the sum of the four
// outcome counters.
type Summary struct {
	Total           int       `bson:"total"`
	AlreadyComplete int       `bson:"alreadyComplete"`
	Success         int       `bson:"success"`
	Partial         int       `bson:"partial"`
	Errors          int       `bson:"errors"`
	FieldsCreated   int       `bson:"fieldsCreated"`
	DryRun          bool      `bson:"dryRun"`
	StartedAt       time.Time `bson:"startedAt"`
	FinishedAt      time.Time `bson:"finishedAt"`
	Failures        []string  `bson:"failures"`
}

// Migrator applies the document reconciler across the whole users collection.
// A single document's failure is recorded and never aborts the run; there is
// no rollback for patches already written.
type Migrator struct {
	store  Store
	spec   reconcile.Spec
	cfg    Config
	logger *log.Logger

	now   func() time.Time
	sleep func(time.Duration)
}

// New builds a Migrator over store using the user field specification.
func New(store Store, cfg Config) *Migrator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Pause <= 0 {
		cfg.Pause = time.Second
	}
	return &Migrator{
		store:  store,
		spec:   reconcile.UserSpec(),
		cfg:    cfg,
		logger: log.Default(),
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// IsSystemID reports whether id belongs to the tool's own bookkeeping
// documents, which live in the same collection under reserved prefixes.
func IsSystemID(id string) bool {
	return strings.HasPrefix(id, "backup_") || strings.HasPrefix(id, "stats_")
}

// Run executes the migration and returns its summary. The returned error is
// only non-nil when the run could not start at all (listing failed); every
// per-document error lands in Summary.Failures instead.
func (m *Migrator) Run(ctx context.Context) (Summary, error) {
	summary := Summary{StartedAt: m.now(), DryRun: m.cfg.DryRun}

	all, err := m.store.ListUsers(ctx)
	if err != nil {
		return summary, fmt.Errorf("listing users: %w", err)
	}
	docs := make([]Document, 0, len(all))
	for _, d := range all {
		if IsSystemID(d.ID) {
			continue
		}
		docs = append(docs, d)
	}
	summary.Total = len(docs)
	m.logger.Printf("migration: %d user documents (dryRun=%v batchSize=%d)",
		len(docs), m.cfg.DryRun, m.cfg.BatchSize)

	if m.cfg.CreateBackup && !m.cfg.DryRun {
		if err := m.writeBackup(ctx, docs); err != nil {
			// Best effort tool, but refusing to patch without the requested
			// backup is the one hard stop.
			return summary, fmt.Errorf("writing backup: %w", err)
		}
	}

	for start := 0; start < len(docs); start += m.cfg.BatchSize {
		end := start + m.cfg.BatchSize
		if end > len(docs) {
			end = len(docs)
		}
		for _, doc := range docs[start:end] {
			outcome, created, ferr := m.migrateOne(ctx, doc)
			summary.FieldsCreated += created
			switch outcome {
			case OutcomeAlreadyComplete:
				summary.AlreadyComplete++
			case OutcomeSuccess:
				summary.Success++
			case OutcomePartial:
				summary.Partial++
			case OutcomeError:
				summary.Errors++
			}
			if ferr != nil {
				summary.Failures = append(summary.Failures,
					fmt.Sprintf("%s: %v", doc.ID, ferr))
				m.logger.Printf("migration: document %s: %v", doc.ID, ferr)
			}
		}
		if end < len(docs) {
			m.sleep(m.cfg.Pause)
		}
	}

	summary.FinishedAt = m.now()
	if !m.cfg.DryRun {
		if err := m.writeStats(ctx, summary); err != nil {
			m.logger.Printf("migration: writing stats document: %v", err)
		}
	}
	return summary, nil
}

func (m *Migrator) migrateOne(ctx context.Context, doc Document) (string, int, error) {
	res := reconcile.Reconcile(doc.ID, doc.Fields, m.spec)
	if res.Empty() {
		return OutcomeAlreadyComplete, 0, nil
	}
	if m.cfg.SkipExisting && len(res.MissingFields) == 0 {
		return OutcomeAlreadyComplete, 0, nil
	}
	if m.cfg.DryRun {
		return OutcomeSuccess, res.FieldsCreated, nil
	}

	patched := false
	if len(res.Patch) > 0 {
		if err := m.store.ApplyPatch(ctx, doc.ID, res.Patch); err != nil {
			return OutcomeError, 0, err
		}
		patched = true
	}
	if len(res.Deletes) > 0 {
		if err := m.store.DeleteFields(ctx, doc.ID, res.Deletes); err != nil {
			if !patched {
				// Nothing landed on the document, same as a failed patch.
				return OutcomeError, 0, err
			}
			// Patch is already written; the run keeps going.
			return OutcomePartial, res.FieldsCreated, err
		}
	}
	return OutcomeSuccess, res.FieldsCreated, nil
}

func (m *Migrator) writeBackup(ctx context.Context, docs []Document) error {
	users := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		users = append(users, map[string]interface{}{
			"id":        d.ID,
			"email":     d.Fields["email"],
			"createdAt": d.Fields["createdAt"],
			"updatedAt": d.Fields["updatedAt"],
		})
	}
	id := fmt.Sprintf("backup_%d", m.now().UnixMilli())
	return m.store.WriteDocument(ctx, id, map[string]interface{}{
		"type":      "backup",
		"createdAt": m.now(),
		"count":     len(users),
		"users":     users,
	})
}

func (m *Migrator) writeStats(ctx context.Context, s Summary) error {
	id := fmt.Sprintf("stats_%d", m.now().UnixMilli())
	return m.store.WriteDocument(ctx, id, map[string]interface{}{
		"type":            "stats",
		"total":           s.Total,
		"alreadyComplete": s.AlreadyComplete,
		"success":         s.Success,
		"partial":         s.Partial,
		"errors":          s.Errors,
		"fieldsCreated":   s.FieldsCreated,
		"startedAt":       s.StartedAt,
		"finishedAt":      s.FinishedAt,
		"failures":        s.Failures,
	})
}
