package store

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/homectl/rulekeeper/internal/condition"
	"github.com/homectl/rulekeeper/internal/rules"
	"github.com/homectl/rulekeeper/internal/types"
)

/*
 * Task lifecycle and persistence.
 *
 * Every mutation runs a persist cycle: project the in-memory task map to
 * the document, write it to disk (temp file + atomic rename), then reload
 * the task map and the active rule set FROM THE WRITTEN BYTES. The
 * round-trip through serialized form is deliberate: the rule set the
 * evaluator runs is always byte-identical to what is durably stored, so a
 * crash between steps never leaves the evaluator running rules that were
 * never flushed. Do not optimize this into in-place patches.
 *
 * Mutations are serialized by one mutex guarding the task map, the backing
 * file, and the last-written hash. Evaluators read the active rule set
 * through an atomically swapped immutable snapshot and never block on
 * mutations.
 */

// CompiledRule is one rule of an active snapshot, in evaluation-ready form.
type CompiledRule struct {
	Name        string // task id
	Description string
	Enabled     bool
	Assumptions []rules.Assumption
	Actions     []ActionEntry
}

// RuleSet is an immutable snapshot of the loaded rules. Evaluation
// sessions bind to one snapshot for their whole run.
type RuleSet struct {
	Rules []CompiledRule
}

// Store owns the task map, the backing document file, and the active
// rule-set snapshot.
type Store struct {
	mu       sync.Mutex
	path     string
	registry *condition.Registry
	tasks    map[types.TaskID]*Task
	active   atomic.Pointer[RuleSet]

	// lastWritten is the hash of the document bytes this store last wrote,
	// used to suppress watcher reloads triggered by our own writes.
	lastWritten [sha256.Size]byte

	log zerolog.Logger
}

// New creates a store backed by the document file at path. Call Open to
// load or initialize the file before use.
func New(path string, registry *condition.Registry, log zerolog.Logger) *Store {
	s := &Store{
		path:     path,
		registry: registry,
		tasks:    make(map[types.TaskID]*Task),
		log:      log.With().Str("component", "store").Logger(),
	}
	s.active.Store(&RuleSet{})
	return s
}

// Path returns the backing document file path.
func (s *Store) Path() string {
	return s.path
}

// Open loads the backing file, creating an empty document if the file
// does not exist yet.
func (s *Store) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.log.Debug().Str("path", s.path).Msg("initializing empty rules file")
		return s.persistCycleLocked()
	}
	if err != nil {
		return fmt.Errorf("reading rules file: %w", err)
	}
	return s.loadBytesLocked(data)
}

// ActiveRuleSet returns the current immutable rule-set snapshot.
func (s *Store) ActiveRuleSet() *RuleSet {
	return s.active.Load()
}

// GetTask returns the task registered under id.
func (s *Store) GetTask(id types.TaskID) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, types.ErrTaskNotFound
	}
	return t, nil
}

// Tasks returns all registered tasks ordered by id.
func (s *Store) Tasks() []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateTask registers a new task with a fresh id, compiles its trigger
// condition, and runs a persist cycle. The condition class must be a
// registered trigger class.
func (s *Store) CreateTask(name string, cond condition.Condition, action ActionRef) (types.TaskID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateTrigger(cond); err != nil {
		return "", err
	}
	if _, err := rules.Compile(cond); err != nil {
		return "", err
	}

	id := types.NewTaskID()
	s.tasks[id] = &Task{ID: id, Name: name, Enabled: true, Condition: cond, Action: action}

	if err := s.persistCycleLocked(); err != nil {
		delete(s.tasks, id)
		return "", err
	}
	s.log.Info().Str("task", string(id)).Str("class", cond.ClassID()).Msg("task created")
	return id, nil
}

// UpdateTask replaces the named task's condition and action under the same
// id and runs a persist cycle. Returns ErrTaskNotFound for unknown ids.
func (s *Store) UpdateTask(id types.TaskID, name string, cond condition.Condition, action ActionRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tasks[id]
	if !ok {
		return types.ErrTaskNotFound
	}
	if err := s.validateTrigger(cond); err != nil {
		return err
	}
	if _, err := rules.Compile(cond); err != nil {
		return err
	}

	s.tasks[id] = &Task{ID: id, Name: name, Enabled: prev.Enabled, Condition: cond, Action: action}
	if err := s.persistCycleLocked(); err != nil {
		s.tasks[id] = prev
		return err
	}
	s.log.Info().Str("task", string(id)).Msg("task updated")
	return nil
}

// DeleteTask removes the task and runs a persist cycle. Returns
// ErrTaskNotFound for unknown ids.
func (s *Store) DeleteTask(id types.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tasks[id]
	if !ok {
		return types.ErrTaskNotFound
	}
	delete(s.tasks, id)
	if err := s.persistCycleLocked(); err != nil {
		s.tasks[id] = prev
		return err
	}
	s.log.Info().Str("task", string(id)).Msg("task deleted")
	return nil
}

// OwnsTask reports whether this provider governs the task: its trigger
// condition was reified and its class belongs to this provider's registry.
func (s *Store) OwnsTask(t *Task) bool {
	return t != nil && t.Condition != nil && s.registry.Contains(t.Condition.ClassID())
}

// OnRegisterTasks mirrors a host bulk-registration notification: owned
// tasks are adopted and a single persist cycle runs at the end.
func (s *Store) OnRegisterTasks(tasks []*Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := false
	for _, t := range tasks {
		if !s.OwnsTask(t) {
			continue
		}
		s.tasks[t.ID] = t
		added = true
	}
	if !added {
		return nil
	}
	return s.persistCycleLocked()
}

// OnUpdateTask mirrors a host update notification for a task this
// provider owns. Unknown or unowned tasks are ignored.
func (s *Store) OnUpdateTask(t *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID]; !ok || !s.OwnsTask(t) {
		return nil
	}
	s.tasks[t.ID] = t
	return s.persistCycleLocked()
}

// OnDeleteTask mirrors a host delete notification. Unknown ids are ignored.
func (s *Store) OnDeleteTask(id types.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return nil
	}
	delete(s.tasks, id)
	return s.persistCycleLocked()
}

// WriteDocument projects the in-memory task map to its document form.
func (s *Store) WriteDocument() (RuleDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildDocumentLocked()
}

// ReloadIfChanged re-reads the backing file and swaps in a fresh rule set
// if its content differs from what this store last wrote. This is the
// read-only refresh path used for external edits; the write step is
// skipped.
func (s *Store) ReloadIfChanged() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading rules file: %w", err)
	}
	if sha256.Sum256(data) == s.lastWritten {
		// Our own write; nothing to do.
		return nil
	}
	s.log.Info().Str("path", s.path).Msg("rules file changed on disk, reloading")
	return s.loadBytesLocked(data)
}

func (s *Store) validateTrigger(cond condition.Condition) error {
	if cond == nil {
		return types.ErrUnrecognizedCondition
	}
	class, err := s.registry.Lookup(cond.ClassID())
	if err != nil {
		return types.ErrUnrecognizedCondition
	}
	if class.Type != condition.ClassTypeTrigger {
		return types.ErrNotTriggerCondition
	}
	return nil
}

// buildDocumentLocked projects every task to its rule entry, recompiling
// assumptions from the condition. Tasks are ordered by id so repeated
// projections of the same map are byte-identical.
func (s *Store) buildDocumentLocked() (RuleDocument, error) {
	doc := RuleDocument{Name: DocumentName, Description: DocumentDescription}
	if len(s.tasks) == 0 {
		return doc, nil
	}

	ids := make([]types.TaskID, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		t := s.tasks[id]
		assumptions, err := t.assumptions()
		if err != nil {
			return RuleDocument{}, fmt.Errorf("compiling task %s: %w", id, err)
		}
		doc.Rules = append(doc.Rules, RuleEntry{
			Name:        string(t.ID),
			Description: t.description(),
			Enabled:     t.Enabled,
			Assumptions: assumptions,
			Actions:     []ActionEntry{{Method: t.Action.Method, Arg1: t.Action.Arg}},
		})
	}
	return doc, nil
}

// persistCycleLocked writes the document and reloads the task map and
// active rule set from the freshly written bytes. On write failure the
// previous file content, task map, and rule set are left unchanged.
func (s *Store) persistCycleLocked() error {
	doc, err := s.buildDocumentLocked()
	if err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding rules document: %w", err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("writing rules file: %w", err)
	}
	s.lastWritten = sha256.Sum256(data)

	// Reload from what actually landed on disk, not the pre-write state.
	written, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("re-reading rules file: %w", err)
	}
	return s.loadBytesLocked(written)
}

// loadBytesLocked rebuilds the task map from document bytes by decompiling
// every rule's assumptions, then swaps the active rule set. Rules whose
// assumptions fail to decompile are kept as opaque entries so they still
// participate in evaluation.
func (s *Store) loadBytesLocked(data []byte) error {
	var doc RuleDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding rules document: %w", err)
	}

	tasks := make(map[types.TaskID]*Task, len(doc.Rules))
	compiled := make([]CompiledRule, 0, len(doc.Rules))

	for _, entry := range doc.Rules {
		id := types.TaskID(entry.Name)

		// The description field holds the task name, with the id written as
		// fallback for unnamed tasks. A description equal to the id is
		// therefore ambiguous: unnamed, or genuinely named with the id
		// string. The in-memory task disambiguates across persist cycles; on
		// a cold load the unnamed reading wins.
		name := entry.Description
		if name == entry.Name {
			name = ""
			if prev, ok := s.tasks[id]; ok && prev.Name == entry.Description {
				name = prev.Name
			}
		}

		t := &Task{ID: id, Name: name, Enabled: entry.Enabled}
		if len(entry.Actions) > 0 {
			t.Action = ActionRef{Method: entry.Actions[0].Method, Arg: entry.Actions[0].Arg1}
		}

		cond, err := rules.Decompile(entry.Assumptions)
		if err != nil || cond == nil {
			if err != nil {
				s.log.Warn().Str("rule", entry.Name).Err(err).
					Msg("rule assumptions did not decompile, keeping as opaque")
			}
			t.raw = entry.Assumptions
		} else {
			t.Condition = cond
		}
		tasks[id] = t

		compiled = append(compiled, CompiledRule{
			Name:        entry.Name,
			Description: entry.Description,
			Enabled:     entry.Enabled,
			Assumptions: entry.Assumptions,
			Actions:     entry.Actions,
		})
	}

	s.tasks = tasks
	s.active.Store(&RuleSet{Rules: compiled})
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path, so a failed write never truncates the previous
// document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
