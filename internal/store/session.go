package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/record"
)

const (
	// recordKeyPrefix is kept compatible with earlier deployments so data
	// they wrote stays readable.
	recordKeyPrefix = "resume_data_user_"
	// exportKeyPrefix namespaces generation snapshots away from records.
	exportKeyPrefix = "resume_export_"

	pruneConcurrency = 4
)

// Options tunes SessionStore behavior.
type Options struct {
	// PruneOnWrite deletes records superseded by the current one after each
	// successful upsert. Superseded records can only appear through legacy
	// data or historic races; with this off they accumulate until PruneStale.
	PruneOnWrite bool
	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// SessionStore maps identities to their aggregated records on top of a KV
// backend. Read-merge-write cycles are serialized per identity with an
// in-process mutex, so concurrent submissions cannot lose updates.
type SessionStore struct {
	kv    KV
	opts  Options
	locks sync.Map // identity -> *sync.Mutex
}

// NewSessionStore creates a session store over the given backend.
func NewSessionStore(kv KV, opts Options) *SessionStore {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &SessionStore{kv: kv, opts: opts}
}

func (s *SessionStore) lock(identity string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(identity, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func identityPrefix(identity string) string {
	return recordKeyPrefix + identity + "_"
}

func newRecordKey(identity string, createdAt time.Time) string {
	return fmt.Sprintf("%s%s_%d.json", recordKeyPrefix, identity, createdAt.UnixMilli())
}

// stored pairs a loaded record with its storage key.
type stored struct {
	key string
	rec *record.Record
}

// decodeStored parses a persisted record. Current data is structured JSON;
// anything else is treated as legacy flattened text and decoded lossily,
// with identity and timestamps recovered from the key.
func decodeStored(key, identity string, data []byte) *record.Record {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var rec record.Record
		if err := json.Unmarshal(data, &rec); err == nil {
			return &rec
		}
	}

	rec := record.Decode(string(data))
	rec.Identity = identity
	rec.ID = strings.TrimSuffix(strings.TrimPrefix(key, "resume_data_"), ".txt")
	if millis, ok := keyEpochMillis(key); ok {
		rec.LastModified = time.UnixMilli(millis)
	}
	return rec
}

// keyEpochMillis extracts the creation timestamp embedded in a record key.
func keyEpochMillis(key string) (int64, bool) {
	name := key
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	i := strings.LastIndexByte(name, '_')
	if i < 0 {
		return 0, false
	}
	millis, err := strconv.ParseInt(name[i+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return millis, true
}

// keyIdentity extracts the identity embedded in a record key.
func keyIdentity(key string) (string, bool) {
	name := strings.TrimPrefix(key, recordKeyPrefix)
	if name == key {
		return "", false
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	i := strings.LastIndexByte(name, '_')
	if i <= 0 {
		return "", false
	}
	return name[:i], true
}

func (s *SessionStore) loadAll(ctx context.Context, identity string) ([]stored, error) {
	keys, err := s.kv.ListByPrefix(ctx, identityPrefix(identity))
	if err != nil {
		return nil, err
	}
	records := make([]stored, 0, len(keys))
	for _, key := range keys {
		data, err := s.kv.Get(ctx, key)
		if err != nil {
			// A record deleted between list and get is not an error.
			if _, gone := err.(*NotFoundError); gone {
				continue
			}
			return nil, err
		}
		records = append(records, stored{key: key, rec: decodeStored(key, identity, data)})
	}
	return records, nil
}

// current picks the most recent record: latest LastModified, with
// lexicographic-descending key order as the tie-break (keys embed the
// creation timestamp, so ties resolve to the newest key).
func current(records []stored) (stored, bool) {
	if len(records) == 0 {
		return stored{}, false
	}
	best := records[0]
	for _, candidate := range records[1:] {
		switch {
		case candidate.rec.LastModified.After(best.rec.LastModified):
			best = candidate
		case candidate.rec.LastModified.Equal(best.rec.LastModified) && candidate.key > best.key:
			best = candidate
		}
	}
	return best, true
}

// FindCurrentRecord returns the identity's most recently modified record, or
// nil if none exists.
func (s *SessionStore) FindCurrentRecord(ctx context.Context, identity string) (*record.Record, error) {
	records, err := s.loadAll(ctx, identity)
	if err != nil {
		return nil, err
	}
	best, ok := current(records)
	if !ok {
		return nil, nil
	}
	return best.rec, nil
}

// UpsertSection applies a section submission to the identity's current
// record, creating the record if none exists, and persists the result.
func (s *SessionStore) UpsertSection(ctx context.Context, identity, sectionName string, payload record.Payload) (*record.Record, error) {
	mu := s.lock(identity)
	mu.Lock()
	defer mu.Unlock()

	records, err := s.loadAll(ctx, identity)
	if err != nil {
		return nil, err
	}

	now := s.opts.Clock()
	target, ok := current(records)
	if !ok {
		target = stored{
			key: newRecordKey(identity, now),
			rec: &record.Record{ID: uuid.NewString(), Identity: identity},
		}
	}

	target.rec.MergeSection(sectionName, payload)
	target.rec.LastModified = now

	if err := s.persist(ctx, target); err != nil {
		return nil, err
	}

	if s.opts.PruneOnWrite {
		for _, other := range records {
			if other.key == target.key {
				continue
			}
			if err := s.kv.Delete(ctx, other.key); err != nil {
				log.Printf("[store] failed to prune superseded record %s: %v", other.key, err)
			}
		}
	}

	return target.rec, nil
}

func (s *SessionStore) persist(ctx context.Context, item stored) error {
	data, err := json.Marshal(item.rec)
	if err != nil {
		return &StorageError{Op: "encode", Key: item.key, Cause: err}
	}
	return s.kv.Put(ctx, item.key, data)
}

// DeleteAllRecords removes every record for the identity. Idempotent.
func (s *SessionStore) DeleteAllRecords(ctx context.Context, identity string) error {
	mu := s.lock(identity)
	mu.Lock()
	defer mu.Unlock()

	keys, err := s.kv.ListByPrefix(ctx, identityPrefix(identity))
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// GetRecordByID returns the record with the given ID, or nil if absent.
// Record IDs are not part of the storage key, so this scans across
// identities.
func (s *SessionStore) GetRecordByID(ctx context.Context, recordID string) (*record.Record, error) {
	item, ok, err := s.findByID(ctx, recordID)
	if err != nil || !ok {
		return nil, err
	}
	return item.rec, nil
}

// DeleteRecordByID removes the record with the given ID. Idempotent.
func (s *SessionStore) DeleteRecordByID(ctx context.Context, recordID string) error {
	item, ok, err := s.findByID(ctx, recordID)
	if err != nil || !ok {
		return err
	}
	return s.kv.Delete(ctx, item.key)
}

func (s *SessionStore) findByID(ctx context.Context, recordID string) (stored, bool, error) {
	keys, err := s.kv.ListByPrefix(ctx, recordKeyPrefix)
	if err != nil {
		return stored{}, false, err
	}
	for _, key := range keys {
		data, err := s.kv.Get(ctx, key)
		if err != nil {
			if _, gone := err.(*NotFoundError); gone {
				continue
			}
			return stored{}, false, err
		}
		identity, _ := keyIdentity(key)
		rec := decodeStored(key, identity, data)
		if rec.ID == recordID {
			return stored{key: key, rec: rec}, true, nil
		}
	}
	return stored{}, false, nil
}

// SaveGenerationSnapshot stores the flattened text a document generation was
// produced from, keyed by generation ID, as a debug/export artifact.
func (s *SessionStore) SaveGenerationSnapshot(ctx context.Context, generationID, text string) error {
	return s.kv.Put(ctx, exportKeyPrefix+generationID+".txt", []byte(text))
}

// PruneStale removes records that are no longer current for their identity
// and have been idle longer than olderThan. Identities are pruned
// concurrently with bounded parallelism. Returns the number of records
// removed.
func (s *SessionStore) PruneStale(ctx context.Context, olderThan time.Duration) (int, error) {
	keys, err := s.kv.ListByPrefix(ctx, recordKeyPrefix)
	if err != nil {
		return 0, err
	}

	identities := map[string]bool{}
	for _, key := range keys {
		if identity, ok := keyIdentity(key); ok {
			identities[identity] = true
		}
	}

	cutoff := s.opts.Clock().Add(-olderThan)
	var (
		mu      sync.Mutex
		removed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pruneConcurrency)
	for identity := range identities {
		g.Go(func() error {
			n, err := s.pruneIdentity(gctx, identity, cutoff)
			mu.Lock()
			removed += n
			mu.Unlock()
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return removed, err
	}
	return removed, nil
}

func (s *SessionStore) pruneIdentity(ctx context.Context, identity string, cutoff time.Time) (int, error) {
	mu := s.lock(identity)
	mu.Lock()
	defer mu.Unlock()

	records, err := s.loadAll(ctx, identity)
	if err != nil {
		return 0, err
	}
	best, ok := current(records)
	if !ok {
		return 0, nil
	}

	removed := 0
	for _, item := range records {
		if item.key == best.key {
			continue
		}
		if item.rec.LastModified.After(cutoff) {
			continue
		}
		if err := s.kv.Delete(ctx, item.key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
