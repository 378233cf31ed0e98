package admin

import importData "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/import_data"

// ImportResponse итог импорта с журналом хода
type ImportResponse struct {
	Kind                  string   `json:"kind"`
	RowsSeen              int      `json:"rowsSeen"`
	RowsSkipped           int      `json:"rowsSkipped"`
	CentersCreated        int      `json:"centersCreated"`
	BoxesCreated          int      `json:"boxesCreated"`
	DoctorsCreated        int      `json:"doctorsCreated"`
	ReservationsCommitted int      `json:"reservationsCommitted"`
	Batches               int      `json:"batches"`
	Error                 string   `json:"error,omitempty"`
	Log                   []string `json:"log"`
}

// RescueResponse итог восстановления данных организации
type RescueResponse struct {
	PerCollection map[string]int64 `json:"perCollection"`
	Total         int64            `json:"total"`
	Error         string           `json:"error,omitempty"`
	Log           []string         `json:"log"`
}

// CountResponse число броней организации
type CountResponse struct {
	OrgID string `json:"orgId"`
	Count int64  `json:"count"`
}

func fromResult(result *importData.Result, log []string) *ImportResponse {
	return &ImportResponse{
		Kind:                  string(result.Kind),
		RowsSeen:              result.RowsSeen,
		RowsSkipped:           result.RowsSkipped,
		CentersCreated:        result.CentersCreated,
		BoxesCreated:          result.BoxesCreated,
		DoctorsCreated:        result.DoctorsCreated,
		ReservationsCommitted: result.ReservationsCommitted,
		Batches:               result.Batches,
		Log:                   log,
	}
}
