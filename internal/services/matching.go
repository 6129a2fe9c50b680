package services

import (
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
	"github.com/Ananth-NQI/loadboard-backend/internal/utils"
)

// SearchResult is the truck search response
type SearchResult struct {
	ExactMatches   []*models.TruckAvailability `json:"exactMatches"`
	SimilarMatches []*models.TruckAvailability `json:"similarMatches"`
	Total          int                         `json:"total"`
}

// IsExactMatch re-checks location and equipment on a search hit. A criterion
// the caller left empty counts as satisfied.
func IsExactMatch(f models.TruckFilter, p *models.TruckAvailability) bool {
	if !utils.ContainsFold(p.CurrentLocation, f.CurrentLocation) {
		return false
	}
	return f.EquipmentType.IsAny() || p.EquipmentType == f.EquipmentType
}

// PartitionMatches splits search hits into exact and similar, keeping order
func PartitionMatches(f models.TruckFilter, postings []*models.TruckAvailability) SearchResult {
	res := SearchResult{
		ExactMatches:   []*models.TruckAvailability{},
		SimilarMatches: []*models.TruckAvailability{},
		Total:          len(postings),
	}
	for _, p := range postings {
		if IsExactMatch(f, p) {
			res.ExactMatches = append(res.ExactMatches, p)
		} else {
			res.SimilarMatches = append(res.SimilarMatches, p)
		}
	}
	return res
}
