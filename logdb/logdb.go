// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb stores contract events in sqlite and serves filtered queries.
package logdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/vault"
)

var logger = log.WithContext("pkg", "logdb")

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps an in-memory db alive and serialises writers
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("opened log db", "path", path, "sqlite", driverVer)
	return &LogDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// NewestBlock returns the number of the newest block with events.
func (db *LogDB) NewestBlock(ctx context.Context) (uint32, error) {
	var number sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(blockNumber) FROM event").Scan(&number); err != nil {
		return 0, err
	}
	return uint32(number.Int64), nil
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const query = "SELECT blockNumber, eventIndex, blockTime, address, name, account, amount, detail FROM event"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY blockNumber ASC, eventIndex ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := query + " WHERE 1"
	condition := "blockNumber"
	if filter.Range != nil {
		if filter.Range.Unit == Time {
			condition = "blockTime"
		}
		args = append(args, filter.Range.From)
		stmt += " AND " + condition + " >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND " + condition + " <= ? "
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ? "
		}
		if criteria.Account != nil {
			args = append(args, criteria.Account.Bytes())
			stmt += " AND account = ? "
		}
		if criteria.Name != nil {
			args = append(args, *criteria.Name)
			stmt += " AND name = ? "
		}
		stmt += ")"
	}
	if len(filter.CriteriaSet) > 0 {
		stmt += ")"
	}

	if filter.Order == DESC {
		stmt += " ORDER BY blockNumber DESC, eventIndex DESC "
	} else {
		stmt += " ORDER BY blockNumber ASC, eventIndex ASC "
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			blockNumber uint32
			index       uint32
			blockTime   uint64
			address     []byte
			name        string
			account     []byte
			amount      []byte
			detail      sql.NullString
		)
		if err := rows.Scan(
			&blockNumber,
			&index,
			&blockTime,
			&address,
			&name,
			&account,
			&amount,
			&detail,
		); err != nil {
			return nil, err
		}
		event := &Event{
			BlockNumber: blockNumber,
			Index:       index,
			BlockTime:   blockTime,
			Address:     vault.BytesToAddress(address),
			Name:        name,
			Account:     vault.BytesToAddress(account),
		}
		if amount != nil {
			event.Amount = new(big.Int).SetBytes(amount)
		}
		if detail.Valid && detail.String != "" {
			if err := json.Unmarshal([]byte(detail.String), &event.Detail); err != nil {
				return nil, errors.Wrap(err, "decode event detail")
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// NewBatch starts collecting the events of a block.
func (db *LogDB) NewBatch(number uint32, time uint64) *BlockBatch {
	return &BlockBatch{
		db:     db.db,
		number: number,
		time:   time,
	}
}

// BlockBatch holds the events of one block until they are committed together.
type BlockBatch struct {
	db     *sql.DB
	number uint32
	time   uint64
	events []*Event
}

func (bb *BlockBatch) Insert(events ...*vault.Event) *BlockBatch {
	for _, ev := range events {
		bb.events = append(bb.events, newEvent(bb.number, bb.time, uint32(len(bb.events)), ev))
	}
	return bb
}

func (bb *BlockBatch) Len() int {
	return len(bb.events)
}

func (bb *BlockBatch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := bb.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (bb *BlockBatch) Commit() error {
	if len(bb.events) == 0 {
		return nil
	}
	return bb.execInTx(func(tx *sql.Tx) error {
		for _, event := range bb.events {
			var amount []byte
			if event.Amount != nil {
				amount = event.Amount.Bytes()
			}
			var detail sql.NullString
			if len(event.Detail) > 0 {
				data, err := json.Marshal(event.Detail)
				if err != nil {
					return err
				}
				detail = sql.NullString{String: string(data), Valid: true}
			}
			if _, err := tx.Exec("INSERT OR REPLACE INTO event(blockNumber, eventIndex, blockTime, address, name, account, amount, detail) VALUES (?, ?, ?, ?, ?, ?, ?, ?);",
				event.BlockNumber,
				event.Index,
				event.BlockTime,
				event.Address.Bytes(),
				event.Name,
				event.Account.Bytes(),
				amount,
				detail,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
