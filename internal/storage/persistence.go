package storage

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"tasklist/internal/task"
)

// TasksKey is the key the whole collection is stored under.
const TasksKey = "tasks"

const tasksSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "completed"],
    "properties": {
      "id": {"type": "integer"},
      "text": {"type": "string"},
      "completed": {"type": "boolean"}
    }
  }
}`

var schema = jsonschema.MustCompileString("tasks.schema.json", tasksSchema)

// Persistence stores a task collection as one JSON blob in a KV.
type Persistence struct {
	kv     KV
	logger *log.Logger
}

func NewPersistence(kv KV, logger *log.Logger) *Persistence {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Persistence{kv: kv, logger: logger}
}

// Load returns false when nothing is stored or the stored blob cannot be
// used. A bad blob is logged and otherwise treated as absent.
func (p *Persistence) Load() (task.Collection, bool) {
	raw, ok, err := p.kv.Get(TasksKey)
	if err != nil {
		p.logger.Warn("read tasks", "err", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	c, err := Decode([]byte(raw))
	if err != nil {
		p.logger.Warn("discarding stored tasks", "err", err)
		return nil, false
	}
	return c, true
}

func (p *Persistence) Save(c task.Collection) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}
	if err := p.kv.Set(TasksKey, string(data)); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	return nil
}

// Encode renders c as a JSON array in collection order.
func Encode(c task.Collection) ([]byte, error) {
	if c == nil {
		c = task.Collection{}
	}
	return json.Marshal(c)
}

// Decode parses and validates a stored blob.
func Decode(data []byte) (task.Collection, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate tasks: %w", err)
	}
	var c task.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return c, nil
}
