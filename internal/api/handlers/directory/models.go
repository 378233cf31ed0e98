package directory

import "github.com/m04kA/SMC-ClinicBoxService/internal/domain"

// CreateRequest HTTP request model для центра, бокса и врача
type CreateRequest struct {
	Name string `json:"name"`
}

// EntityResponse центр, бокс или врач
type EntityResponse struct {
	ID       string `json:"id"`
	CenterID string `json:"centerId,omitempty"`
	Name     string `json:"name"`
}

// CreateResponse результат создания; created=false означает, что найдена существующая запись
type CreateResponse struct {
	EntityResponse
	Created bool `json:"created"`
}

func fromCenters(centers []*domain.Center) []EntityResponse {
	result := make([]EntityResponse, 0, len(centers))
	for _, c := range centers {
		result = append(result, EntityResponse{ID: c.ID, Name: c.Name})
	}
	return result
}

func fromBoxes(boxes []*domain.Box) []EntityResponse {
	result := make([]EntityResponse, 0, len(boxes))
	for _, b := range boxes {
		result = append(result, EntityResponse{ID: b.ID, CenterID: b.CenterID, Name: b.Name})
	}
	return result
}

func fromDoctors(doctors []*domain.Doctor) []EntityResponse {
	result := make([]EntityResponse, 0, len(doctors))
	for _, d := range doctors {
		result = append(result, EntityResponse{ID: d.ID, CenterID: d.CenterID, Name: d.Name})
	}
	return result
}
