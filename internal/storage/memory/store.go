// Package memory is an in-process booking.Store.  It backs the engine's
// tests and single-node runs without MySQL.  Each room has its own lock,
// held from LockRoom until the transaction ends; a store-wide mutex only
// guards the maps for the duration of a single call.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/model"
)

type Store struct {
	mu        sync.Mutex
	rooms     map[uint64]*model.Room
	bookings  map[uint64]*model.Booking
	roomLocks map[uint64]chan struct{}
	nextID    uint64
}

func New() *Store {
	return &Store{
		rooms:     make(map[uint64]*model.Room),
		bookings:  make(map[uint64]*model.Booking),
		roomLocks: make(map[uint64]chan struct{}),
	}
}

// AddRoom inserts or replaces a room.
func (s *Store) AddRoom(r model.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := r
	s.rooms[r.ID] = &cp
	if _, ok := s.roomLocks[r.ID]; !ok {
		s.roomLocks[r.ID] = make(chan struct{}, 1)
	}
}

// PutBooking stores b as is, assigning an id when b.ID is zero.  It bypasses
// validation and is meant for seeding.
func (s *Store) PutBooking(b model.Booking) model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		s.nextID++
		b.ID = s.nextID
	} else if b.ID > s.nextID {
		s.nextID = b.ID
	}
	cp := b
	s.bookings[b.ID] = &cp
	return b
}

// Room returns a copy of a room.
func (s *Store) Room(id uint64) (model.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return model.Room{}, false
	}
	return *r, true
}

// Bookings returns a snapshot of every booking ordered by id.
func (s *Store) Bookings() []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx booking.Tx) error) (err error) {
	t := &tx{s: s, held: make(map[uint64]chan struct{})}
	defer t.release()
	defer func() {
		if p := recover(); p != nil {
			t.rollback()
			panic(p)
		}
	}()
	if err = fn(ctx, t); err != nil {
		t.rollback()
	}
	return err
}

func (s *Store) FindBooking(_ context.Context, id uint64) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return model.Booking{}, &booking.Error{Kind: booking.KindNotFound, Reason: "booking not found", BookingID: id}
	}
	return *b, nil
}

// RecomputeAvailability visits rooms one at a time under each room's lock.
func (s *Store) RecomputeAvailability(ctx context.Context, today time.Time) (int, error) {
	s.mu.Lock()
	ids := make([]uint64, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	changed := 0
	for _, id := range ids {
		lock := s.lockFor(id)
		select {
		case lock <- struct{}{}:
		case <-ctx.Done():
			return changed, ctx.Err()
		}
		s.mu.Lock()
		if r, ok := s.rooms[id]; ok {
			avail := booking.RoomAvailable(s.confirmedLocked(id), today)
			if r.IsAvailable != avail {
				r.IsAvailable = avail
				changed++
			}
		}
		s.mu.Unlock()
		<-lock
	}
	return changed, nil
}

func (s *Store) lockFor(roomID uint64) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.roomLocks[roomID]
	if !ok {
		l = make(chan struct{}, 1)
		s.roomLocks[roomID] = l
	}
	return l
}

// confirmedLocked requires s.mu.
func (s *Store) confirmedLocked(roomID uint64) []model.Booking {
	var out []model.Booking
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.Status == model.BookingConfirmed {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// tx records an undo action per write and releases its room locks when the
// transaction ends.
type tx struct {
	s    *Store
	held map[uint64]chan struct{}
	undo []func()
}

func (t *tx) rollback() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *tx) release() {
	for id, l := range t.held {
		<-l
		delete(t.held, id)
	}
}

func (t *tx) LockRoom(ctx context.Context, roomID uint64) (model.Room, error) {
	if _, ok := t.s.Room(roomID); !ok {
		return model.Room{}, &booking.Error{Kind: booking.KindNotFound, Reason: "room not found"}
	}
	if _, ok := t.held[roomID]; !ok {
		l := t.s.lockFor(roomID)
		select {
		case l <- struct{}{}:
			t.held[roomID] = l
		case <-ctx.Done():
			return model.Room{}, ctx.Err()
		}
	}
	r, _ := t.s.Room(roomID)
	return r, nil
}

func (t *tx) ConfirmedBookings(_ context.Context, roomID uint64) ([]model.Booking, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.s.confirmedLocked(roomID), nil
}

func (t *tx) InsertBooking(_ context.Context, b *model.Booking) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.nextID++
	b.ID = t.s.nextID
	cp := *b
	t.s.bookings[b.ID] = &cp
	id := b.ID
	t.undo = append(t.undo, func() { delete(t.s.bookings, id) })
	return nil
}

func (t *tx) LockBooking(ctx context.Context, id uint64) (model.Booking, error) {
	// every write to a booking holds its room lock, which the caller already has
	return t.s.FindBooking(ctx, id)
}

func (t *tx) UpdateBookingDates(_ context.Context, id uint64, checkIn, checkOut time.Time) error {
	return t.update(id, func(b *model.Booking) { b.CheckIn, b.CheckOut = checkIn, checkOut })
}

func (t *tx) UpdateBookingStatus(_ context.Context, id uint64, status model.BookingStatus) error {
	return t.update(id, func(b *model.Booking) { b.Status = status })
}

func (t *tx) update(id uint64, apply func(*model.Booking)) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	b, ok := t.s.bookings[id]
	if !ok {
		return &booking.Error{Kind: booking.KindNotFound, Reason: "booking not found", BookingID: id}
	}
	prev := *b
	apply(b)
	t.undo = append(t.undo, func() { *b = prev })
	return nil
}

func (t *tx) SetRoomAvailable(_ context.Context, roomID uint64, available bool) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	r, ok := t.s.rooms[roomID]
	if !ok {
		return &booking.Error{Kind: booking.KindNotFound, Reason: "room not found"}
	}
	prev := r.IsAvailable
	r.IsAvailable = available
	t.undo = append(t.undo, func() { r.IsAvailable = prev })
	return nil
}
