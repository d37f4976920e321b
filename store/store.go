// Package store persists gateway observations in LevelDB.
//
// Each observation is one key. Its value is a msgpack envelope carrying the
// observation metadata and one cellinfo wire record per cell.
package store

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tmobile-dashboard/cellinfo/cellinfo"
	"github.com/tmobile-dashboard/cellinfo/gateway"
)

// SchemaVersion is the envelope layout written by this package.
const SchemaVersion = 1

const metaKeySchema = "schema"

// Error types
type Error string

const (
	ErrNotFound       Error = "no observation stored"
	ErrDatabaseClosed Error = "database is closed"
	ErrSchemaMismatch Error = "unsupported store schema"
)

func (e Error) Error() string {
	return string(e)
}

// DB wraps a LevelDB instance holding observations.
type DB struct {
	db     *leveldb.DB
	mu     sync.RWMutex
	path   string
	closed bool
	seq    uint32
}

// envelope is the stored form of an observation.
type envelope struct {
	Schema           int      `msgpack:"schema"`
	Model            string   `msgpack:"model"`
	CapturedAt       int64    `msgpack:"captured_at"`
	ConnectionType   string   `msgpack:"connection_type"`
	ConnectionStatus string   `msgpack:"connection_status"`
	Records          [][]byte `msgpack:"records"`
}

// Open opens or creates a LevelDB database at the specified path.
func Open(path string) (*DB, error) {
	opts := &opt.Options{
		// Use snappy compression for values
		Compression: opt.SnappyCompression,
	}

	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &DB{db: db, path: path}
	if err := d.checkSchema(); err != nil {
		db.Close()
		return nil, err
	}
	d.seq = d.lastSeq()
	return d, nil
}

// lastSeq returns the sequence of the newest key so a reopened database
// keeps issuing increasing keys.
func (d *DB) lastSeq() uint32 {
	iter := d.db.NewIterator(util.BytesPrefix([]byte(PrefixSnapshot)), nil)
	defer iter.Release()

	if !iter.Last() {
		return 0
	}
	_, seq, err := DecodeSnapshotKey(iter.Key())
	if err != nil {
		return 0
	}
	return seq
}

// checkSchema stamps a new database with SchemaVersion and rejects
// databases written with another layout.
func (d *DB) checkSchema() error {
	value, err := d.db.Get(MetaKey(metaKeySchema), nil)
	if err == leveldb.ErrNotFound {
		return d.db.Put(MetaKey(metaKeySchema), []byte(strconv.Itoa(SchemaVersion)), nil)
	}
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if v, err := strconv.Atoi(string(value)); err != nil || v != SchemaVersion {
		return fmt.Errorf("%w: %q", ErrSchemaMismatch, value)
	}
	return nil
}

// Close closes the database.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDatabaseClosed
	}

	d.closed = true
	return d.db.Close()
}

// IsClosed returns true if the database is closed.
func (d *DB) IsClosed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.closed
}

// Path returns the database path.
func (d *DB) Path() string {
	return d.path
}

// Put stores an observation and returns its key.
func (d *DB) Put(obs *gateway.Observation) ([]byte, error) {
	value, err := encodeObservation(obs)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrDatabaseClosed
	}

	d.seq++
	key := EncodeSnapshotKey(obs.CapturedAt, d.seq)
	if err := d.db.Put(key, value, nil); err != nil {
		return nil, fmt.Errorf("put failed: %w", err)
	}
	return key, nil
}

// Latest returns the most recently captured observation.
func (d *DB) Latest() (*gateway.Observation, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return nil, ErrDatabaseClosed
	}

	iter := d.db.NewIterator(util.BytesPrefix([]byte(PrefixSnapshot)), nil)
	defer iter.Release()

	if !iter.Last() {
		if err := iter.Error(); err != nil {
			return nil, fmt.Errorf("iterate: %w", err)
		}
		return nil, ErrNotFound
	}
	return decodeObservation(iter.Key(), iter.Value())
}

// Range calls fn for every observation captured in [from, to), oldest
// first. Iteration stops at the first error fn returns.
func (d *DB) Range(from, to time.Time, fn func(*gateway.Observation) error) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDatabaseClosed
	}

	iter := d.db.NewIterator(&util.Range{
		Start: EncodeSnapshotKey(from, 0),
		Limit: EncodeSnapshotKey(to, 0),
	}, nil)
	defer iter.Release()

	for iter.Next() {
		obs, err := decodeObservation(iter.Key(), iter.Value())
		if err != nil {
			return err
		}
		if err := fn(obs); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Count returns the number of stored observations.
func (d *DB) Count() (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return 0, ErrDatabaseClosed
	}

	iter := d.db.NewIterator(util.BytesPrefix([]byte(PrefixSnapshot)), nil)
	defer iter.Release()

	n := 0
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}

// encodeObservation serializes an observation to msgpack.
func encodeObservation(obs *gateway.Observation) ([]byte, error) {
	env := envelope{
		Schema:           SchemaVersion,
		Model:            string(obs.Model),
		CapturedAt:       obs.CapturedAt.UnixNano(),
		ConnectionType:   obs.Connection.Type,
		ConnectionStatus: obs.Connection.Status,
		Records:          make([][]byte, 0, len(obs.Cells)),
	}
	for i, c := range obs.Cells {
		rec, err := cellinfo.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("encode cell %d: %w", i, err)
		}
		env.Records = append(env.Records, rec)
	}
	return msgpack.Marshal(&env)
}

// decodeObservation deserializes an observation stored under key.
func decodeObservation(key, value []byte) (*gateway.Observation, error) {
	var env envelope
	if err := msgpack.Unmarshal(value, &env); err != nil {
		return nil, fmt.Errorf("decode %q: %w", key, err)
	}
	if env.Schema != SchemaVersion {
		return nil, fmt.Errorf("decode %q: %w: %d", key, ErrSchemaMismatch, env.Schema)
	}

	obs := &gateway.Observation{
		Model:      gateway.GatewayModel(env.Model),
		CapturedAt: time.Unix(0, env.CapturedAt).UTC(),
		Connection: gateway.ConnectionInfo{
			Type:   env.ConnectionType,
			Status: env.ConnectionStatus,
		},
		Cells: make([]cellinfo.CellInfo, 0, len(env.Records)),
	}
	for i, rec := range env.Records {
		c, err := cellinfo.Unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("decode %q cell %d: %w", key, i, err)
		}
		obs.Cells = append(obs.Cells, c)
	}
	return obs, nil
}
