package cancel_reservation_range

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBoxService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

// CancelRangeRequest HTTP request model
type CancelRangeRequest struct {
	CenterID   string `json:"centerId"`
	BoxID      string `json:"boxId"`
	DoctorName string `json:"doctorName"`
	Time       string `json:"time"`      // "10:30"
	StartDate  string `json:"startDate"` // "2024-03-01"
	EndDate    string `json:"endDate"`   // "2024-03-31"
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelRangeRequest) ToServiceRequest(orgID, userID string) (*models.CancelRangeRequest, error) {
	at, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, fmt.Errorf("time: %w", err)
	}
	start, err := localtime.ParseDate(r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	end, err := localtime.ParseDate(r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end date: %w", err)
	}

	return &models.CancelRangeRequest{
		OrgID:      orgID,
		UserID:     userID,
		CenterID:   r.CenterID,
		BoxID:      r.BoxID,
		DoctorName: r.DoctorName,
		Time:       at,
		StartDate:  start,
		EndDate:    end,
	}, nil
}
