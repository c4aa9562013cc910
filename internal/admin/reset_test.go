package admin

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB hands out fakeTx values; statements only count once committed.
type fakeDB struct {
	beginErr  error
	failOn    string
	committed []string
	tx        *fakeTx
}

func (d *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	d.tx = &fakeTx{db: d}
	return d.tx, nil
}

type fakeTx struct {
	pgx.Tx
	db        *fakeDB
	sql       []string
	done      bool
	commits   int
	rollbacks int
}

func (t *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if t.db.failOn != "" && strings.Contains(sql, t.db.failOn) {
		return pgconn.CommandTag{}, errors.New("permission denied")
	}
	t.sql = append(t.sql, sql)
	return pgconn.NewCommandTag("DELETE 1"), nil
}

func (t *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not used")
}

func (t *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (t *fakeTx) Commit(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.commits++
	t.db.committed = append(t.db.committed, t.sql...)
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.rollbacks++
	return nil
}

func TestResetDemo(t *testing.T) {
	db := &fakeDB{}
	r := &ResetDbs{DB: db}

	if err := r.ResetDemo(context.Background()); err != nil {
		t.Fatalf("ResetDemo() error = %v", err)
	}
	if db.tx.commits != 1 || db.tx.rollbacks != 0 {
		t.Fatalf("commits = %d, rollbacks = %d, want 1 and 0", db.tx.commits, db.tx.rollbacks)
	}
	if len(db.committed) != 2 {
		t.Fatalf("committed %d statements, want 2", len(db.committed))
	}
	if !strings.HasPrefix(db.committed[0], "DELETE") {
		t.Errorf("first statement = %q, want the clear step", db.committed[0])
	}
	if !strings.Contains(db.committed[1], "INSERT INTO jobs") {
		t.Errorf("second statement should seed jobs")
	}
}

func TestResetDemo_StopsOnError(t *testing.T) {
	db := &fakeDB{failOn: "DELETE"}
	r := &ResetDbs{DB: db}

	err := r.ResetDemo(context.Background())
	if err == nil {
		t.Fatal("ResetDemo() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "clear demo rows") {
		t.Errorf("error = %v, want step name", err)
	}
	if len(db.tx.sql) != 0 {
		t.Errorf("seed ran after a failed clear")
	}
}

func TestResetDemo_FailedSeedKeepsExistingRows(t *testing.T) {
	db := &fakeDB{failOn: "INSERT INTO jobs"}
	r := &ResetDbs{DB: db}

	err := r.ResetDemo(context.Background())
	if err == nil {
		t.Fatal("ResetDemo() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "seed demo rows") {
		t.Errorf("error = %v, want step name", err)
	}
	if db.tx.rollbacks != 1 || db.tx.commits != 0 {
		t.Errorf("commits = %d, rollbacks = %d, want 0 and 1", db.tx.commits, db.tx.rollbacks)
	}
	if len(db.committed) != 0 {
		t.Errorf("clear step was committed without its seed: %v", db.committed)
	}
}

func TestResetDemo_BeginError(t *testing.T) {
	db := &fakeDB{beginErr: errors.New("connection refused")}
	r := &ResetDbs{DB: db}

	if err := r.ResetDemo(context.Background()); err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("ResetDemo() error = %v, want begin error", err)
	}
}
