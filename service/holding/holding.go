package holding

import (
	"github.com/gofrs/uuid"
	"github.com/jinzhu/gorm"
	"github.com/sysdevguru/stockfolio/models"
	"github.com/sysdevguru/stockfolio/pferrors"
)

type HoldingService interface {
	ListByUser(userID uuid.UUID) ([]*models.Holding, error)
	Create(h *models.Holding) error
	WithTx(tx *gorm.DB) HoldingService
}

type holdingService struct {
	HoldingService
	tx *gorm.DB
}

func Service() HoldingService {
	return &holdingService{}
}

func (s *holdingService) WithTx(tx *gorm.DB) HoldingService {
	s.tx = tx
	return s
}

// ListByUser returns the user's holdings with stock and sector joined,
// ordered by recording time so downstream grouping is deterministic.
func (s *holdingService) ListByUser(userID uuid.UUID) ([]*models.Holding, error) {
	holdings := []*models.Holding{}

	q := s.tx.
		Where("user_id = ?", userID.String()).
		Preload("Stock").
		Preload("Stock.Sector").
		Order("created_at ASC, id ASC").
		Find(&holdings)

	if q.Error != nil && q.Error != gorm.ErrRecordNotFound {
		return nil, pferrors.InternalServerError.WithError(q.Error)
	}

	return holdings, nil
}

func (s *holdingService) Create(h *models.Holding) error {
	if err := h.Validate(); err != nil {
		return pferrors.InvalidRequestParam.WithMsg(err.Error())
	}

	if err := s.tx.Create(h).Error; err != nil {
		return pferrors.InternalServerError.WithError(err)
	}

	return nil
}
