// Package store holds the application's single source of truth: the three
// entity collections, the mutation operations over them, and best-effort
// persistence of every committed snapshot.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"carlog/internal/core"
	"carlog/internal/log"
)

const (
	vehiclePrefix  = "v"
	recordPrefix   = "s"
	reminderPrefix = "r"
)

// Listener observes committed snapshots. It is invoked synchronously after
// each mutation with a copy of the new state.
type Listener func(core.State)

// Store owns the domain state. Every mutation replaces the current snapshot
// with a new one, persists it through the SnapshotStore port, and notifies
// subscribers. Mutations on unknown ids are silent no-ops.
type Store struct {
	mu    sync.RWMutex
	state core.State
	rev   uint64

	snapshots SnapshotStore
	logger    *log.Logger

	lmu          sync.Mutex
	listeners    map[int]Listener
	nextListener int

	pmu     sync.Mutex
	pending *core.State
	flusher errgroup.Group
}

// New creates a store backed by the given snapshot store. snapshots may be
// nil, in which case state lives only in memory. Call Open before use.
func New(snapshots SnapshotStore, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	s := &Store{
		state:     core.SeedState(),
		snapshots: snapshots,
		logger:    logger.WithComponent(log.ComponentStore),
		listeners: make(map[int]Listener),
	}
	// One background writer; commits coalesce to the latest snapshot.
	s.flusher.SetLimit(1)
	return s
}

// Open loads the persisted snapshot, falling back to the seed dataset when
// none exists or it cannot be read. Load failures are recoverable and never
// surface to the caller.
func (s *Store) Open(ctx context.Context) {
	state := core.SeedState()
	if s.snapshots != nil {
		loaded, ok, err := s.snapshots.Load(ctx)
		switch {
		case err != nil:
			s.logger.Warn("loading persisted state failed, using seed data",
				log.FieldOperation, log.OpLoad, log.FieldError, err)
		case ok:
			state = loaded
		default:
			s.logger.Info("no persisted state found, using seed data",
				log.FieldOperation, log.OpSeed)
		}
	}
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Close drains the snapshot writer. The store must not be mutated after
// Close returns.
func (s *Store) Close() error {
	err := s.flusher.Wait()
	// A commit may have raced the exiting writer; flush whatever is left.
	s.pmu.Lock()
	last := s.pending
	s.pending = nil
	s.pmu.Unlock()
	if last != nil && s.snapshots != nil {
		if serr := s.snapshots.Save(context.Background(), *last); serr != nil {
			s.logger.Warn("final snapshot save failed",
				log.FieldOperation, log.OpSave, log.FieldError, serr)
		}
	}
	return err
}

// State returns a copy of the current snapshot.
func (s *Store) State() core.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Revision increments with every committed mutation.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev
}

// Vehicles returns a copy of the vehicle collection.
func (s *Store) Vehicles() []core.Vehicle {
	return s.State().Vehicles
}

// ServiceRecords returns a copy of the service record collection in the
// store's native order (most recently added first).
func (s *Store) ServiceRecords() []core.ServiceRecord {
	return s.State().ServiceRecords
}

// Reminders returns a copy of the reminder collection.
func (s *Store) Reminders() []core.Reminder {
	return s.State().Reminders
}

// Subscribe registers a listener notified after each committed mutation.
// The returned func unsubscribes it; tie both to the consumer's lifecycle.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.lmu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.lmu.Unlock()
	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

// AddVehicle appends a vehicle with a freshly assigned id, which is
// returned. Any id on the input is overwritten.
func (s *Store) AddVehicle(v core.Vehicle) string {
	s.mu.Lock()
	v.ID = newID(vehiclePrefix)
	next := s.state.Clone()
	next.Vehicles = append(next.Vehicles, v)
	snap := s.commitLocked(next)
	s.mu.Unlock()

	s.logger.Debug("vehicle added", log.FieldOperation, log.OpCreate, log.FieldVehicleID, v.ID)
	s.afterCommit(snap)
	return v.ID
}

// UpdateVehicle merges the patch over the vehicle with the given id.
// Unknown ids are ignored.
func (s *Store) UpdateVehicle(id string, patch core.VehiclePatch) {
	s.mu.Lock()
	i := indexVehicle(s.state.Vehicles, id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("update for unknown vehicle ignored", log.FieldVehicleID, id)
		return
	}
	next := s.state.Clone()
	next.Vehicles[i] = patch.Apply(next.Vehicles[i])
	snap := s.commitLocked(next)
	s.mu.Unlock()

	s.logger.Debug("vehicle updated", log.FieldOperation, log.OpUpdate, log.FieldVehicleID, id)
	s.afterCommit(snap)
}

// DeleteVehicle removes the vehicle and cascades over every service record
// and reminder that references it. Unknown ids are ignored.
func (s *Store) DeleteVehicle(id string) {
	s.mu.Lock()
	if indexVehicle(s.state.Vehicles, id) < 0 {
		s.mu.Unlock()
		s.logger.Debug("delete for unknown vehicle ignored", log.FieldVehicleID, id)
		return
	}
	next := core.State{}
	for _, v := range s.state.Vehicles {
		if v.ID != id {
			next.Vehicles = append(next.Vehicles, v)
		}
	}
	for _, r := range s.state.ServiceRecords {
		if r.VehicleID != id {
			next.ServiceRecords = append(next.ServiceRecords, r)
		}
	}
	for _, r := range s.state.Reminders {
		if r.VehicleID != id {
			next.Reminders = append(next.Reminders, r)
		}
	}
	snap := s.commitLocked(next)
	s.mu.Unlock()

	s.logger.Debug("vehicle deleted", log.FieldOperation, log.OpDelete, log.FieldVehicleID, id)
	s.afterCommit(snap)
}

// AddServiceRecord prepends a record with a freshly assigned id, which is
// returned. Native order is most recently added first; display order is the
// reader's concern.
func (s *Store) AddServiceRecord(r core.ServiceRecord) string {
	s.mu.Lock()
	r.ID = newID(recordPrefix)
	next := s.state.Clone()
	next.ServiceRecords = append([]core.ServiceRecord{r}, next.ServiceRecords...)
	snap := s.commitLocked(next)
	s.mu.Unlock()

	s.logger.Debug("service record added", log.FieldOperation, log.OpCreate,
		log.FieldRecordID, r.ID, log.FieldVehicleID, r.VehicleID)
	s.afterCommit(snap)
	return r.ID
}

// UpdateServiceRecord merges the patch over the record with the given id.
// Unknown ids are ignored.
func (s *Store) UpdateServiceRecord(id string, patch core.ServiceRecordPatch) {
	s.mu.Lock()
	i := indexRecord(s.state.ServiceRecords, id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("update for unknown service record ignored", log.FieldRecordID, id)
		return
	}
	next := s.state.Clone()
	next.ServiceRecords[i] = patch.Apply(next.ServiceRecords[i])
	snap := s.commitLocked(next)
	s.mu.Unlock()

	s.logger.Debug("service record updated", log.FieldOperation, log.OpUpdate, log.FieldRecordID, id)
	s.afterCommit(snap)
}

// DeleteServiceRecord removes the record with the given id. Records own
// nothing, so there is no cascade. Unknown ids are ignored.
func (s *Store) DeleteServiceRecord(id string) {
	s.mu.Lock()
	i := indexRecord(s.state.ServiceRecords, id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("delete for unknown service record ignored", log.FieldRecordID, id)
		return
	}
	next := s.state.Clone()
	next.ServiceRecords = append(next.ServiceRecords[:i], next.ServiceRecords[i+1:]...)
	snap := s.commitLocked(next)
	s.mu.Unlock()

	s.logger.Debug("service record deleted", log.FieldOperation, log.OpDelete, log.FieldRecordID, id)
	s.afterCommit(snap)
}

// AddReminder appends a reminder with a freshly assigned id, which is
// returned.
func (s *Store) AddReminder(r core.Reminder) string {
	s.mu.Lock()
	r.ID = newID(reminderPrefix)
	next := s.state.Clone()
	next.Reminders = append(next.Reminders, r)
	snap := s.commitLocked(next)
	s.mu.Unlock()

	s.logger.Debug("reminder added", log.FieldOperation, log.OpCreate,
		log.FieldReminderID, r.ID, log.FieldVehicleID, r.VehicleID)
	s.afterCommit(snap)
	return r.ID
}

// DeleteReminder removes the reminder with the given id. Unknown ids are
// ignored.
func (s *Store) DeleteReminder(id string) {
	s.mu.Lock()
	i := indexReminder(s.state.Reminders, id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("delete for unknown reminder ignored", log.FieldReminderID, id)
		return
	}
	next := s.state.Clone()
	next.Reminders = append(next.Reminders[:i], next.Reminders[i+1:]...)
	snap := s.commitLocked(next)
	s.mu.Unlock()

	s.logger.Debug("reminder deleted", log.FieldOperation, log.OpDelete, log.FieldReminderID, id)
	s.afterCommit(snap)
}

// commitLocked installs the next snapshot and returns a copy for
// persistence and notification. Caller holds s.mu.
func (s *Store) commitLocked(next core.State) core.State {
	s.state = next
	s.rev++
	return next.Clone()
}

func (s *Store) afterCommit(snap core.State) {
	s.enqueueSave(snap)
	s.notify(snap)
}

// enqueueSave hands the snapshot to the background writer. Persistence is
// best-effort: failures are logged and never affect in-memory state.
func (s *Store) enqueueSave(snap core.State) {
	if s.snapshots == nil {
		return
	}
	s.pmu.Lock()
	s.pending = &snap
	s.pmu.Unlock()
	s.flusher.TryGo(s.flushLoop)
}

func (s *Store) flushLoop() error {
	for {
		s.pmu.Lock()
		next := s.pending
		s.pending = nil
		s.pmu.Unlock()
		if next == nil {
			return nil
		}
		if err := s.snapshots.Save(context.Background(), *next); err != nil {
			s.logger.Warn("snapshot save failed",
				log.FieldOperation, log.OpSave, log.FieldError, err)
		}
	}
}

func (s *Store) notify(snap core.State) {
	s.lmu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, len(ids))
	for i, id := range ids {
		fns[i] = s.listeners[id]
	}
	s.lmu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func newID(prefix string) string {
	return prefix + uuid.NewString()
}

func indexVehicle(vehicles []core.Vehicle, id string) int {
	for i, v := range vehicles {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func indexRecord(records []core.ServiceRecord, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func indexReminder(reminders []core.Reminder, id string) int {
	for i, r := range reminders {
		if r.ID == id {
			return i
		}
	}
	return -1
}
