package chat

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
)

// recorder is a database/sql driver that logs every statement it runs and
// serves a single id row for queries. It exists to pin down statement
// ordering inside transactions, which the in-memory store cannot observe.
type recorder struct {
	mu    sync.Mutex
	stmts []string
}

func (r *recorder) record(q string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stmts = append(r.stmts, q)
}

func (r *recorder) indexOf(fragment string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, q := range r.stmts {
		if strings.Contains(q, fragment) {
			return i
		}
	}
	return -1
}

type recorderDriver struct{ r *recorder }

func (d recorderDriver) Open(string) (driver.Conn, error) { return &recorderConn{r: d.r}, nil }

type recorderConn struct{ r *recorder }

func (c *recorderConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare is not supported")
}
func (c *recorderConn) Close() error              { return nil }
func (c *recorderConn) Begin() (driver.Tx, error) { return recorderTx{}, nil }

func (c *recorderConn) ExecContext(_ context.Context, q string, _ []driver.NamedValue) (driver.Result, error) {
	c.r.record(q)
	return driver.RowsAffected(1), nil
}

func (c *recorderConn) QueryContext(_ context.Context, q string, _ []driver.NamedValue) (driver.Rows, error) {
	c.r.record(q)
	return &recorderRows{}, nil
}

type recorderTx struct{}

func (recorderTx) Commit() error   { return nil }
func (recorderTx) Rollback() error { return nil }

type recorderRows struct{ done bool }

func (r *recorderRows) Columns() []string { return []string{"id"} }
func (r *recorderRows) Close() error      { return nil }
func (r *recorderRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	dest[0] = "c1"
	return nil
}

func TestPostgresDeleteChat_MessagesRemovedBeforeChatRow(t *testing.T) {
	rec := &recorder{}
	sql.Register("chat-recorder", recorderDriver{r: rec})
	db, err := sql.Open("chat-recorder", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	store := NewPostgresStore(db)
	if err := store.DeleteChat(context.Background(), "o1", "c1"); err != nil {
		t.Fatalf("delete chat: %v", err)
	}

	msgs := rec.indexOf("DELETE FROM chat_messages")
	chats := rec.indexOf("DELETE FROM chats")
	if msgs < 0 || chats < 0 {
		t.Fatalf("expected both delete statements, got %q", rec.stmts)
	}
	// chat_messages.chat_id references chats(id); the parent row must
	// outlive its messages inside the transaction.
	if msgs > chats {
		t.Fatalf("messages deleted after the chat row: %q", rec.stmts)
	}
}
