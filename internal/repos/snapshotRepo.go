package repos

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wheelibin/homesync/internal/models"
)

const snapshotSchema = `
  CREATE TABLE IF NOT EXISTS snapshot (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    data TEXT NOT NULL,
    saved_at TIMESTAMP
  );
`

// SnapshotRepo persists the device snapshot so it survives a restart. The
// persisted subset is exactly models.PersistedSnapshot; transient fields never
// reach this table.
type SnapshotRepo struct {
	logger *log.Logger
	db     *sql.DB
}

func NewSnapshotRepo(logger *log.Logger, db *sql.DB) (*SnapshotRepo, error) {

	_, err := db.Exec(snapshotSchema)
	if err != nil {
		return nil, fmt.Errorf("error initialising snapshot schema: %w", err)
	}

	return &SnapshotRepo{logger: logger, db: db}, nil
}

func (r *SnapshotRepo) Save(snapshot models.PersistedSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("error serialising snapshot: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO snapshot (id, data, saved_at) VALUES (1, $1, $2)
     ON CONFLICT(id) DO UPDATE SET data = $1, saved_at = $2;`,
		string(data), time.Now())
	if err != nil {
		return fmt.Errorf("error saving snapshot: %w", err)
	}

	return nil
}

func (r *SnapshotRepo) Load() (*models.PersistedSnapshot, error) {
	row := r.db.QueryRow("SELECT data FROM snapshot WHERE id = 1")

	var data string
	err := row.Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading cached snapshot: %w", err)
	}

	snapshot := models.PersistedSnapshot{}
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, fmt.Errorf("error parsing cached snapshot: %w", err)
	}

	return &snapshot, nil
}

func (r *SnapshotRepo) Clear() error {
	_, err := r.db.Exec("DELETE FROM snapshot")
	if err != nil {
		return fmt.Errorf("error clearing cached snapshot: %w", err)
	}
	return nil
}
