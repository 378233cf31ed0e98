package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/ptr"
)

// ResolverStats сколько сущностей создано за время жизни резолвера
type ResolverStats struct {
	CentersCreated int
	BoxesCreated   int
	DoctorsCreated int
}

// Resolver сопоставляет имена центров, боксов и врачей с сохранёнными сущностями организации.
// Имена сравниваются без учёта регистра и крайних пробелов.
// Справочники центра загружаются при первом обращении и живут до конца операции.
// Резолвер принадлежит одной операции и не предназначен для параллельного использования.
type Resolver struct {
	repo   Repository
	orgID  string
	logger Logger

	centers       map[string]*domain.Center // имя -> центр
	centersByID   map[string]*domain.Center
	boxes         map[string]map[string]*domain.Box    // центр -> имя -> бокс
	doctors       map[string]map[string]*domain.Doctor // центр -> имя -> врач
	doctorsByID   map[string]*domain.Doctor
	centersLoaded bool

	stats ResolverStats
}

// NewResolver создает резолвер для организации
func NewResolver(repo Repository, orgID string, logger Logger) *Resolver {
	return &Resolver{
		repo:        repo,
		orgID:       orgID,
		logger:      logger,
		centers:     make(map[string]*domain.Center),
		centersByID: make(map[string]*domain.Center),
		boxes:       make(map[string]map[string]*domain.Box),
		doctors:     make(map[string]map[string]*domain.Doctor),
		doctorsByID: make(map[string]*domain.Doctor),
	}
}

// Stats возвращает счётчики созданных сущностей
func (r *Resolver) Stats() ResolverStats {
	return r.stats
}

// FindCenter ищет центр по имени без создания
func (r *Resolver) FindCenter(ctx context.Context, name string) (*domain.Center, bool, error) {
	if err := r.loadCenters(ctx); err != nil {
		return nil, false, err
	}
	center, ok := r.centers[domain.NormalizeName(name)]
	return center, ok, nil
}

// CenterByID ищет центр по ID
func (r *Resolver) CenterByID(ctx context.Context, id string) (*domain.Center, error) {
	if err := r.loadCenters(ctx); err != nil {
		return nil, err
	}
	center, ok := r.centersByID[id]
	if !ok {
		return nil, ErrCenterNotFound
	}
	return center, nil
}

// ResolveCenter возвращает центр с таким именем, создавая его при отсутствии.
// Второй результат true, если центр создан.
func (r *Resolver) ResolveCenter(ctx context.Context, name string) (*domain.Center, bool, error) {
	key := domain.NormalizeName(name)
	if key == "" {
		return nil, false, fmt.Errorf("%w: center name is empty", ErrInvalidInput)
	}

	center, ok, err := r.FindCenter(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return center, false, nil
	}

	created, err := r.repo.CreateCenter(ctx, &domain.Center{OrgID: r.orgID, Name: strings.TrimSpace(name)})
	if err != nil {
		return nil, false, fmt.Errorf("%w: ResolveCenter - create center: %v", ErrInternal, err)
	}

	r.centers[key] = created
	r.centersByID[created.ID] = created
	r.stats.CentersCreated++
	r.logger.Info("Resolver: created center %q id=%s", created.Name, created.ID)

	return created, true, nil
}

// FindBox ищет бокс центра по имени без создания
func (r *Resolver) FindBox(ctx context.Context, centerID, name string) (*domain.Box, bool, error) {
	if err := r.loadCenterDirectory(ctx, centerID); err != nil {
		return nil, false, err
	}
	box, ok := r.boxes[centerID][domain.NormalizeName(name)]
	return box, ok, nil
}

// ResolveBox возвращает бокс центра с таким именем, создавая его при отсутствии
func (r *Resolver) ResolveBox(ctx context.Context, centerID, name string) (*domain.Box, bool, error) {
	key := domain.NormalizeName(name)
	if key == "" {
		return nil, false, fmt.Errorf("%w: box name is empty", ErrInvalidInput)
	}

	box, ok, err := r.FindBox(ctx, centerID, name)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return box, false, nil
	}

	created, err := r.repo.CreateBox(ctx, &domain.Box{OrgID: r.orgID, CenterID: centerID, Name: strings.TrimSpace(name)})
	if err != nil {
		return nil, false, fmt.Errorf("%w: ResolveBox - create box: %v", ErrInternal, err)
	}

	r.boxes[centerID][key] = created
	r.stats.BoxesCreated++
	r.logger.Info("Resolver: created box %q in center=%s", created.Name, centerID)

	return created, true, nil
}

// FindDoctor ищет врача центра по имени без создания
func (r *Resolver) FindDoctor(ctx context.Context, centerID, name string) (*domain.Doctor, bool, error) {
	if err := r.loadCenterDirectory(ctx, centerID); err != nil {
		return nil, false, err
	}
	doctor, ok := r.doctors[centerID][domain.NormalizeName(name)]
	return doctor, ok, nil
}

// DoctorByID ищет врача центра по ID
func (r *Resolver) DoctorByID(ctx context.Context, centerID, id string) (*domain.Doctor, error) {
	if err := r.loadCenterDirectory(ctx, centerID); err != nil {
		return nil, err
	}
	doctor, ok := r.doctorsByID[id]
	if !ok || doctor.CenterID != centerID {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

// ResolveDoctor возвращает врача центра с таким именем, создавая его при отсутствии
func (r *Resolver) ResolveDoctor(ctx context.Context, centerID, name string) (*domain.Doctor, bool, error) {
	key := domain.NormalizeName(name)
	if key == "" {
		return nil, false, fmt.Errorf("%w: doctor name is empty", ErrInvalidInput)
	}

	doctor, ok, err := r.FindDoctor(ctx, centerID, name)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return doctor, false, nil
	}

	created, err := r.repo.CreateDoctor(ctx, &domain.Doctor{OrgID: r.orgID, CenterID: centerID, Name: strings.TrimSpace(name)})
	if err != nil {
		return nil, false, fmt.Errorf("%w: ResolveDoctor - create doctor: %v", ErrInternal, err)
	}

	r.doctors[centerID][key] = created
	r.doctorsByID[created.ID] = created
	r.stats.DoctorsCreated++
	r.logger.Info("Resolver: created doctor %q in center=%s", created.Name, centerID)

	return created, true, nil
}

func (r *Resolver) loadCenters(ctx context.Context) error {
	if r.centersLoaded {
		return nil
	}

	centers, err := r.repo.ListCenters(ctx, r.orgID)
	if err != nil {
		return fmt.Errorf("%w: load centers: %v", ErrInternal, err)
	}

	for _, c := range centers {
		key := domain.NormalizeName(c.Name)
		if _, dup := r.centers[key]; !dup {
			r.centers[key] = c
		}
		r.centersByID[c.ID] = c
	}
	r.centersLoaded = true

	return nil
}

func (r *Resolver) loadCenterDirectory(ctx context.Context, centerID string) error {
	if _, ok := r.boxes[centerID]; ok {
		return nil
	}

	boxes, err := r.repo.ListBoxes(ctx, r.orgID, ptr.Ptr(centerID))
	if err != nil {
		return fmt.Errorf("%w: load boxes: %v", ErrInternal, err)
	}
	doctors, err := r.repo.ListDoctors(ctx, r.orgID, ptr.Ptr(centerID))
	if err != nil {
		return fmt.Errorf("%w: load doctors: %v", ErrInternal, err)
	}

	boxMap := make(map[string]*domain.Box, len(boxes))
	for _, b := range boxes {
		key := domain.NormalizeName(b.Name)
		if _, dup := boxMap[key]; !dup {
			boxMap[key] = b
		}
	}

	doctorMap := make(map[string]*domain.Doctor, len(doctors))
	for _, d := range doctors {
		key := domain.NormalizeName(d.Name)
		if _, dup := doctorMap[key]; !dup {
			doctorMap[key] = d
		}
		r.doctorsByID[d.ID] = d
	}

	r.boxes[centerID] = boxMap
	r.doctors[centerID] = doctorMap

	return nil
}
