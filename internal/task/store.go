package task

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
)

// Persister loads and saves the whole collection. Load reports false when no
// usable state exists.
type Persister interface {
	Load() (Collection, bool)
	Save(Collection) error
}

// ErrClosed is returned by Add once the store has been closed.
var ErrClosed = errors.New("task store is closed")

// Store owns the live collection. Each mutation replaces the collection,
// saves it and notifies subscribers. It is meant to be driven from a single
// event loop.
type Store struct {
	tasks   Collection
	p       Persister
	ids     *IDGen
	logger  *log.Logger
	subs    map[int]func(Collection)
	nextSub int
	closed  bool
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithIDGen(g *IDGen) Option {
	return func(s *Store) { s.ids = g }
}

// Open loads the persisted collection, starting empty when there is none.
func Open(p Persister, opts ...Option) *Store {
	s := &Store{
		p:      p,
		logger: log.New(io.Discard),
		subs:   map[int]func(Collection){},
	}
	for _, opt := range opts {
		opt(s)
	}
	if loaded, ok := p.Load(); ok {
		s.tasks = loaded
	} else {
		s.tasks = Collection{}
		s.logger.Debug("starting with empty task list")
	}
	if s.ids == nil {
		s.ids = NewIDGen(s.tasks.MaxID())
	}
	s.logger.Info("tasks loaded", "count", len(s.tasks))
	return s
}

// Tasks returns a copy of the current collection.
func (s *Store) Tasks() Collection {
	return s.tasks.Clone()
}

func (s *Store) Find(id int64) (Task, bool) {
	return s.tasks.Find(id)
}

// Add validates text and prepends a new task, returning it.
func (s *Store) Add(rawText string) (Task, error) {
	if s.closed {
		return Task{}, ErrClosed
	}
	next, err := Add(s.tasks, rawText, s.ids.Next())
	if err != nil {
		return Task{}, err
	}
	s.commit(next)
	s.logger.Debug("task added", "id", next[0].ID)
	return next[0], nil
}

func (s *Store) Delete(id int64) {
	s.commit(Delete(s.tasks, id))
}

func (s *Store) Toggle(id int64) {
	s.commit(Toggle(s.tasks, id))
}

func (s *Store) CommitEdit(id int64, draft string) {
	s.commit(CommitEdit(s.tasks, id, draft))
}

// Subscribe registers fn to receive every new collection. The returned func
// removes it.
func (s *Store) Subscribe(fn func(Collection)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

// Close drops subscribers. Later adds fail with ErrClosed and other
// mutations are ignored.
func (s *Store) Close() {
	s.closed = true
	s.subs = map[int]func(Collection){}
}

func (s *Store) commit(next Collection) {
	if s.closed {
		return
	}
	s.tasks = next
	if err := s.p.Save(next); err != nil {
		s.logger.Error("save tasks", "err", err)
	}
	for _, fn := range s.subs {
		fn(next.Clone())
	}
}
