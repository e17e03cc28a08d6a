package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver
)

// Offline partitions. Each buffers one category of not-yet-synced
// records. The dead-letter partition holds records the backend rejected
// permanently; it is kept for inspection and never drained.
const (
	PartitionAttendance       = "offline_attendance"
	PartitionQRScans          = "offline_qr_scans"
	PartitionPhotos           = "offline_photos"
	PartitionWorkerAttendance = "offline_worker_attendance"
	PartitionWasteLogs        = "offline_waste_logs"
	PartitionDeadLetter       = "offline_dead_letter"
)

// DrainablePartitions lists the partitions a sync pass replays, in
// drain order.
func DrainablePartitions() []string {
	return []string{
		PartitionAttendance,
		PartitionQRScans,
		PartitionPhotos,
		PartitionWorkerAttendance,
		PartitionWasteLogs,
	}
}

// Entry is one buffered record. CapturedAt is injected at append time.
type Entry struct {
	ID         int64           `db:"id" json:"id"`
	Partition  string          `db:"partition_key" json:"partition"`
	Payload    json.RawMessage `db:"payload" json:"payload"`
	CapturedAt int64           `db:"captured_at" json:"capturedAt"`
}

// Queue is the local durable buffer for records that could not reach the
// backend. Each append is a single INSERT, so concurrent appends on the
// same partition cannot lose entries the way a whole-array rewrite can.
type Queue struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open opens (and if needed creates) the queue database at path.
func Open(path string) (*Queue, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open offline queue: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS queue_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		partition_key TEXT NOT NULL,
		payload TEXT NOT NULL,
		captured_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_queue_entries_partition ON queue_entries(partition_key, id);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize offline queue: %w", err)
	}

	return &Queue{db: db, now: time.Now}, nil
}

func (q *Queue) Close() error {
	return q.db.Close()
}

// Append buffers a record under the partition, stamping it with the
// capture time.
func (q *Queue) Append(ctx context.Context, partition string, record interface{}) (Entry, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return Entry{}, fmt.Errorf("encode offline record: %w", err)
	}

	entry := Entry{
		Partition:  partition,
		Payload:    payload,
		CapturedAt: q.now().UnixMilli(),
	}

	res, err := q.db.ExecContext(ctx,
		`INSERT INTO queue_entries (partition_key, payload, captured_at) VALUES (?, ?, ?)`,
		entry.Partition, []byte(entry.Payload), entry.CapturedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("append to %s: %w", partition, err)
	}

	entry.ID, err = res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("append to %s: %w", partition, err)
	}
	return entry, nil
}

// ReadAll returns every buffered entry for the partition in append
// order.
func (q *Queue) ReadAll(ctx context.Context, partition string) ([]Entry, error) {
	var entries []Entry
	err := q.db.SelectContext(ctx, &entries,
		`SELECT id, partition_key, payload, captured_at FROM queue_entries WHERE partition_key = ? ORDER BY id ASC`,
		partition,
	)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", partition, err)
	}
	return entries, nil
}

// Remove deletes a single entry after its upload was confirmed.
func (q *Queue) Remove(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM queue_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("remove entry %d: %w", id, err)
	}
	return nil
}

// Clear deletes the whole partition.
func (q *Queue) Clear(ctx context.Context, partition string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM queue_entries WHERE partition_key = ?`, partition); err != nil {
		return fmt.Errorf("clear %s: %w", partition, err)
	}
	return nil
}

// Count returns the number of buffered entries in one partition.
func (q *Queue) Count(ctx context.Context, partition string) (int, error) {
	var count int
	err := q.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM queue_entries WHERE partition_key = ?`, partition)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", partition, err)
	}
	return count, nil
}

// Counts returns buffered entry counts for every non-empty partition.
func (q *Queue) Counts(ctx context.Context) (map[string]int, error) {
	rows := []struct {
		Partition string `db:"partition_key"`
		Count     int    `db:"count"`
	}{}
	err := q.db.SelectContext(ctx, &rows,
		`SELECT partition_key, COUNT(*) AS count FROM queue_entries GROUP BY partition_key`)
	if err != nil {
		return nil, fmt.Errorf("count partitions: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Partition] = row.Count
	}
	return counts, nil
}

// MoveToDeadLetter reassigns a permanently rejected entry to the
// dead-letter partition so it is preserved but never retried.
func (q *Queue) MoveToDeadLetter(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE queue_entries SET partition_key = ? WHERE id = ?`, PartitionDeadLetter, id)
	if err != nil {
		return fmt.Errorf("dead-letter entry %d: %w", id, err)
	}
	return nil
}
