// Package memstore хранилище в памяти для тестов сервисов и сценариев.
// Повторяет поведение postgres репозиториев: фильтры, идемпотентная отмена, слияние по ID.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/internal/infra/storage/directory"
	"github.com/m04kA/SMC-ClinicBoxService/internal/infra/storage/reservation"
)

// ErrInjected ошибка, которую возвращает хранилище при включённом сбое
var ErrInjected = errors.New("memstore: injected failure")

// Store хранилище центров, боксов, врачей и броней
type Store struct {
	mu sync.Mutex

	centers      []*domain.Center
	boxes        []*domain.Box
	doctors      []*domain.Doctor
	reservations []*domain.Reservation

	// FailCreateAfter число успешных Create, после которых Create начинает падать; 0 отключает
	FailCreateAfter int
	// FailUpsertAfter число успешных UpsertBatch, после которых UpsertBatch начинает падать; 0 отключает
	FailUpsertAfter int

	creates int
	upserts int

	Now func() time.Time
}

// New создает пустое хранилище
func New() *Store {
	return &Store{Now: time.Now}
}

// ---- справочники ----

func (s *Store) ListCenters(_ context.Context, orgID string) ([]*domain.Center, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Center, 0)
	for _, c := range s.centers {
		if c.OrgID == orgID {
			cp := *c
			result = append(result, &cp)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) GetCenter(_ context.Context, orgID, id string) (*domain.Center, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.centers {
		if c.ID == id && c.OrgID == orgID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, directory.ErrCenterNotFound
}

func (s *Store) CreateCenter(_ context.Context, center *domain.Center) (*domain.Center, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if center.ID == "" {
		center.ID = uuid.NewString()
	}
	cp := *center
	s.centers = append(s.centers, &cp)
	return center, nil
}

func (s *Store) ListBoxes(_ context.Context, orgID string, centerID *string) ([]*domain.Box, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Box, 0)
	for _, b := range s.boxes {
		if b.OrgID != orgID || (centerID != nil && b.CenterID != *centerID) {
			continue
		}
		cp := *b
		result = append(result, &cp)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) CreateBox(_ context.Context, box *domain.Box) (*domain.Box, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if box.ID == "" {
		box.ID = uuid.NewString()
	}
	cp := *box
	s.boxes = append(s.boxes, &cp)
	return box, nil
}

func (s *Store) ListDoctors(_ context.Context, orgID string, centerID *string) ([]*domain.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Doctor, 0)
	for _, d := range s.doctors {
		if d.OrgID != orgID || (centerID != nil && d.CenterID != *centerID) {
			continue
		}
		cp := *d
		result = append(result, &cp)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) GetDoctor(_ context.Context, orgID, id string) (*domain.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.doctors {
		if d.ID == id && d.OrgID == orgID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, directory.ErrDoctorNotFound
}

func (s *Store) CreateDoctor(_ context.Context, doctor *domain.Doctor) (*domain.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doctor.ID == "" {
		doctor.ID = uuid.NewString()
	}
	cp := *doctor
	s.doctors = append(s.doctors, &cp)
	return doctor, nil
}

// ---- брони ----

func (s *Store) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCreateAfter > 0 && s.creates >= s.FailCreateAfter {
		return nil, ErrInjected
	}
	s.creates++

	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	res.Status = domain.StatusActive
	res.CancelledAt = nil
	res.CreatedAt = s.Now()

	cp := *res
	s.reservations = append(s.reservations, &cp)
	return res, nil
}

func (s *Store) GetByID(_ context.Context, id string) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r := s.find(id); r != nil {
		cp := *r
		return &cp, nil
	}
	return nil, reservation.ErrReservationNotFound
}

func (s *Store) List(_ context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Reservation, 0)
	for _, r := range s.reservations {
		if r.OrgID != filter.OrgID {
			continue
		}
		if filter.CenterID != nil && r.CenterID != *filter.CenterID {
			continue
		}
		if filter.BoxID != nil && r.BoxID != *filter.BoxID {
			continue
		}
		if filter.DoctorName != nil && r.DoctorName != *filter.DoctorName {
			continue
		}
		if filter.From != nil && r.StartTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && r.StartTime.After(*filter.To) {
			continue
		}
		if !filter.IncludeCancelled && r.IsCancelled() {
			continue
		}
		cp := *r
		result = append(result, &cp)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].StartTime.Before(result[j].StartTime)
		}
		return result[i].BoxName < result[j].BoxName
	})
	return result, nil
}

func (s *Store) Cancel(_ context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.find(id)
	if r == nil {
		return false, reservation.ErrReservationNotFound
	}
	return r.Cancel(at), nil
}

func (s *Store) CancelBatch(_ context.Context, ids []string, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, id := range ids {
		if r := s.find(id); r != nil && r.Cancel(at) {
			count++
		}
	}
	return count, nil
}

func (s *Store) UpdateObservation(_ context.Context, id string, observation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.find(id)
	if r == nil {
		return reservation.ErrReservationNotFound
	}
	r.Observation = observation
	return nil
}

func (s *Store) UpsertBatch(_ context.Context, batch []*domain.Reservation) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailUpsertAfter > 0 && s.upserts >= s.FailUpsertAfter {
		return 0, ErrInjected
	}
	s.upserts++

	seen := make(map[string]bool, len(batch))
	for _, res := range batch {
		if res == nil {
			continue
		}
		if res.ID == "" {
			res.ID = uuid.NewString()
		}
		seen[res.ID] = true

		if existing := s.find(res.ID); existing != nil {
			status, cancelledAt, createdAt := existing.Status, existing.CancelledAt, existing.CreatedAt
			*existing = *res
			existing.Status, existing.CancelledAt, existing.CreatedAt = status, cancelledAt, createdAt
			continue
		}

		cp := *res
		cp.Status = domain.StatusActive
		cp.CancelledAt = nil
		cp.CreatedAt = s.Now()
		s.reservations = append(s.reservations, &cp)
	}
	return len(seen), nil
}

func (s *Store) Count(_ context.Context, orgID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, r := range s.reservations {
		if orgID == "" || r.OrgID == orgID {
			count++
		}
	}
	return count, nil
}

// ---- обслуживание ----

func (s *Store) ListForeignIDs(_ context.Context, collection, orgID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0)
	s.each(collection, func(id string, org *string) {
		if *org != orgID {
			ids = append(ids, id)
		}
	})
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) ReassignOrg(_ context.Context, collection string, ids []string, orgID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var count int64
	s.each(collection, func(id string, org *string) {
		if wanted[id] {
			*org = orgID
			count++
		}
	})
	return count, nil
}

// ---- наполнение и проверки ----

// Reservations возвращает копии всех броней
func (s *Store) Reservations() []*domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		cp := *r
		result = append(result, &cp)
	}
	return result
}

// Centers возвращает копии всех центров
func (s *Store) Centers() []*domain.Center {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Center, 0, len(s.centers))
	for _, c := range s.centers {
		cp := *c
		result = append(result, &cp)
	}
	return result
}

// Boxes возвращает копии всех боксов
func (s *Store) Boxes() []*domain.Box {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Box, 0, len(s.boxes))
	for _, b := range s.boxes {
		cp := *b
		result = append(result, &cp)
	}
	return result
}

// Doctors возвращает копии всех врачей
func (s *Store) Doctors() []*domain.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Doctor, 0, len(s.doctors))
	for _, d := range s.doctors {
		cp := *d
		result = append(result, &cp)
	}
	return result
}

// PutReservation кладёт бронь как есть, включая статус
func (s *Store) PutReservation(res *domain.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	cp := *res
	s.reservations = append(s.reservations, &cp)
}

func (s *Store) find(id string) *domain.Reservation {
	for _, r := range s.reservations {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *Store) each(collection string, fn func(id string, org *string)) {
	switch collection {
	case "centers":
		for _, c := range s.centers {
			fn(c.ID, &c.OrgID)
		}
	case "boxes":
		for _, b := range s.boxes {
			fn(b.ID, &b.OrgID)
		}
	case "doctors":
		for _, d := range s.doctors {
			fn(d.ID, &d.OrgID)
		}
	case "reservations":
		for _, r := range s.reservations {
			fn(r.ID, &r.OrgID)
		}
	}
}

// TxManager выполняет функцию без транзакции: хранилище в памяти атомарно под мьютексом каждого вызова
type TxManager struct{}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
