package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/task"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "todo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestStoreGetSet(t *testing.T) {
	s := openTemp(t)

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("k", "v1"))
	require.NoError(t, s.Set("k", "v2"))
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestStoreReopenKeepsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(TasksKey, "[]"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(TasksKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestOpenUpgradesTableWithoutUpdatedAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", sqliteDSN(path))
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT NOT NULL);`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO kv (key, value) VALUES ('tasks', '[]');`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('kv') WHERE name = 'updated_at';`).Scan(&n))
	assert.Equal(t, 1, n)

	v, ok, err := s.Get(TasksKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
	require.NoError(t, s.Set(TasksKey, `[{"id":1,"text":"a","completed":false}]`))
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "file:already", sqliteDSN("file:already"))
	dsn := sqliteDSN("/tmp/x.db")
	assert.True(t, strings.HasPrefix(dsn, "file:///tmp/x.db?"))
	assert.Contains(t, dsn, "mode=rwc")
}

func TestRoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) KV{
		"memory": func(t *testing.T) KV { return NewMemoryKV() },
		"sqlite": func(t *testing.T) KV { return openTemp(t) },
	}
	for name, mk := range backends {
		for n := 0; n <= 3; n++ {
			t.Run(fmt.Sprintf("%s/%d", name, n), func(t *testing.T) {
				c := task.Collection{}
				for i := 1; i <= n; i++ {
					c = append(task.Collection{{ID: int64(i), Text: fmt.Sprintf("t%d", i), Completed: i%2 == 0}}, c...)
				}
				p := NewPersistence(mk(t), nil)
				require.NoError(t, p.Save(c))

				got, ok := p.Load()
				require.True(t, ok)
				assert.Equal(t, c, got)
			})
		}
	}
}

func TestLoadMissing(t *testing.T) {
	_, ok := NewPersistence(NewMemoryKV(), nil).Load()
	assert.False(t, ok)
}

func TestLoadMalformedIsAbsent(t *testing.T) {
	for _, blob := range []string{
		"not json",
		"null",
		`{"id":1}`,
		`[{"id":"1","text":"x","completed":false}]`,
		`[{"id":1.5,"text":"x","completed":false}]`,
		`[{"id":1,"completed":false}]`,
	} {
		kv := NewMemoryKV()
		require.NoError(t, kv.Set(TasksKey, blob))
		_, ok := NewPersistence(kv, nil).Load()
		assert.False(t, ok, blob)
	}
}

func TestLoadMatchesBrowserLayout(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(TasksKey, `[{"id":1718000000001,"text":"Walk dog","completed":true},{"id":1718000000000,"text":"Buy milk","completed":false}]`))
	got, ok := NewPersistence(kv, nil).Load()
	require.True(t, ok)
	assert.Equal(t, task.Collection{
		{ID: 1718000000001, Text: "Walk dog", Completed: true},
		{ID: 1718000000000, Text: "Buy milk"},
	}, got)
}

func TestEncodeEmptyIsArray(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
