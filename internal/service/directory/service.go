package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/ptr"
)

// Service сервис справочников организации: центры, боксы, врачи
type Service struct {
	repo   Repository
	logger Logger
}

// NewService создает новый экземпляр сервиса справочников
func NewService(repo Repository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// NewResolver создает резолвер имён для одной операции
func (s *Service) NewResolver(orgID string) *Resolver {
	return NewResolver(s.repo, orgID, s.logger)
}

// ListCenters возвращает центры организации
func (s *Service) ListCenters(ctx context.Context, orgID string) ([]*domain.Center, error) {
	centers, err := s.repo.ListCenters(ctx, orgID)
	if err != nil {
		s.logger.Error("ListCenters: repository error for org=%s: %v", orgID, err)
		return nil, fmt.Errorf("%w: ListCenters - repository error: %v", ErrInternal, err)
	}
	return centers, nil
}

// GetCenter возвращает центр организации по ID
func (s *Service) GetCenter(ctx context.Context, orgID, centerID string) (*domain.Center, error) {
	return s.NewResolver(orgID).CenterByID(ctx, centerID)
}

// CreateCenter создает центр. Если центр с таким именем уже есть, возвращает его и created=false
func (s *Service) CreateCenter(ctx context.Context, orgID, name string) (*domain.Center, bool, error) {
	if err := validateName(name); err != nil {
		return nil, false, err
	}

	center, created, err := s.NewResolver(orgID).ResolveCenter(ctx, name)
	if err != nil {
		s.logger.Error("CreateCenter: failed for org=%s name=%q: %v", orgID, name, err)
		return nil, false, err
	}

	return center, created, nil
}

// ListBoxes возвращает боксы центра в естественном порядке имён
func (s *Service) ListBoxes(ctx context.Context, orgID, centerID string) ([]*domain.Box, error) {
	if _, err := s.GetCenter(ctx, orgID, centerID); err != nil {
		return nil, err
	}

	boxes, err := s.repo.ListBoxes(ctx, orgID, ptr.Ptr(centerID))
	if err != nil {
		s.logger.Error("ListBoxes: repository error for center=%s: %v", centerID, err)
		return nil, fmt.Errorf("%w: ListBoxes - repository error: %v", ErrInternal, err)
	}

	domain.SortBoxesNatural(boxes)
	return boxes, nil
}

// CreateBox создает бокс в центре. Дубликат по имени возвращается с created=false
func (s *Service) CreateBox(ctx context.Context, orgID, centerID, name string) (*domain.Box, bool, error) {
	if err := validateName(name); err != nil {
		return nil, false, err
	}

	resolver := s.NewResolver(orgID)
	if _, err := resolver.CenterByID(ctx, centerID); err != nil {
		return nil, false, err
	}

	box, created, err := resolver.ResolveBox(ctx, centerID, name)
	if err != nil {
		s.logger.Error("CreateBox: failed for center=%s name=%q: %v", centerID, name, err)
		return nil, false, err
	}

	return box, created, nil
}

// ListDoctors возвращает врачей центра
func (s *Service) ListDoctors(ctx context.Context, orgID, centerID string) ([]*domain.Doctor, error) {
	if _, err := s.GetCenter(ctx, orgID, centerID); err != nil {
		return nil, err
	}

	doctors, err := s.repo.ListDoctors(ctx, orgID, ptr.Ptr(centerID))
	if err != nil {
		s.logger.Error("ListDoctors: repository error for center=%s: %v", centerID, err)
		return nil, fmt.Errorf("%w: ListDoctors - repository error: %v", ErrInternal, err)
	}

	return doctors, nil
}

// CreateDoctor создает врача в центре. Дубликат по имени возвращается с created=false
func (s *Service) CreateDoctor(ctx context.Context, orgID, centerID, name string) (*domain.Doctor, bool, error) {
	if err := validateName(name); err != nil {
		return nil, false, err
	}

	resolver := s.NewResolver(orgID)
	if _, err := resolver.CenterByID(ctx, centerID); err != nil {
		return nil, false, err
	}

	doctor, created, err := resolver.ResolveDoctor(ctx, centerID, name)
	if err != nil {
		s.logger.Error("CreateDoctor: failed for center=%s name=%q: %v", centerID, name, err)
		return nil, false, err
	}

	return doctor, created, nil
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(trimmed) > domain.MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	return nil
}
