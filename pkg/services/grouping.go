package services

import (
	"ad-dashboard/pkg/models"
)

// GroupByPerformer partitions ads by performer name.
// Groups keep the order in which each performer first appears and ads keep their order within a group.
func GroupByPerformer(ads []models.Ad) []models.PerformerGroup {
	groupIndex := make(map[string]int)
	groups := make([]models.PerformerGroup, 0)

	for _, ad := range ads {
		name := ad.Performer()
		if i, exists := groupIndex[name]; exists {
			groups[i].Ads = append(groups[i].Ads, ad)
		} else {
			groupIndex[name] = len(groups)
			groups = append(groups, models.PerformerGroup{
				Name: name,
				Ads:  []models.Ad{ad},
			})
		}
	}

	return groups
}
