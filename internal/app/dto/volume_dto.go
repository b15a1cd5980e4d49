package dto

import (
	"time"

	"walletVolumeApp/internal/domain/model"
)

// VolumeRowDTO is the API representation of one volume bucket row, with
// the bucket start rendered as a calendar date.
type VolumeRowDTO struct {
	Date    string  `json:"date"`
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

// FromRow converts a persisted volume row to its API representation.
func FromRow(row model.VolumeRow) VolumeRowDTO {
	return VolumeRowDTO{
		Date:    time.Unix(row.Date, 0).UTC().Format("2006-01-02"),
		Daily:   row.Daily,
		Weekly:  row.Weekly,
		Monthly: row.Monthly,
	}
}

// FromRows converts a slice of rows, preserving order. Callers pass rows
// already sorted ascending by date.
func FromRows(rows []model.VolumeRow) []VolumeRowDTO {
	dtos := make([]VolumeRowDTO, len(rows))
	for i, row := range rows {
		dtos[i] = FromRow(row)
	}
	return dtos
}

// BackfillResponseDTO acknowledges a triggered aggregation run.
type BackfillResponseDTO struct {
	Success string `json:"success"`
}

// ErrorResponseDTO is the API error envelope.
type ErrorResponseDTO struct {
	Error string `json:"error"`
}
