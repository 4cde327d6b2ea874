package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Lifecycle events: startup, model selection, transport state, shutdown
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS events(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts REAL,
		level TEXT,
		code TEXT,
		msg TEXT,
		meta TEXT
	)`); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

func (db *DB) Event(level, code, msg string, meta map[string]interface{}) error {
	m := ""
	if meta != nil {
		b, _ := json.Marshal(meta)
		m = string(b)
	}
	_, err := db.Exec(`INSERT INTO events(ts,level,code,msg,meta) VALUES(?,?,?,?,?)`,
		float64(time.Now().UnixNano())/1e9, level, code, msg, m)
	return err
}

// EventRow is a stored lifecycle event.
type EventRow struct {
	Timestamp time.Time `json:"ts"`
	Level     string    `json:"level"`
	Code      string    `json:"code"`
	Msg       string    `json:"msg"`
	Meta      string    `json:"meta,omitempty"`
}

func (db *DB) RecentEvents(limit int) ([]EventRow, error) {
	rows, err := db.Query(`SELECT ts,level,code,msg,meta FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []EventRow
	for rows.Next() {
		var ev EventRow
		var tsFloat float64
		if err := rows.Scan(&tsFloat, &ev.Level, &ev.Code, &ev.Msg, &ev.Meta); err != nil {
			return nil, err
		}
		ev.Timestamp = time.Unix(0, int64(tsFloat*1e9))
		events = append(events, ev)
	}
	return events, rows.Err()
}
