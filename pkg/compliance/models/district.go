package models

// District is one parsed sheet holding at least one village.
type District struct {
	Name          string    `json:"name"`
	Villages      []Village `json:"villages"`
	TotalVillages int       `json:"total_villages"`
	// Avg92Percent and Avg13Percent are plain means of village percents.
	Avg92Percent float64 `json:"avg_92_percent"`
	Avg13Percent float64 `json:"avg_13_percent"`
}

// DistrictList is the ordered result of parsing one workbook.
// Consumers treat it as read-only and replace it wholesale.
type DistrictList []District

// VillageCount returns the number of villages across all districts.
func (l DistrictList) VillageCount() int {
	n := 0
	for _, d := range l {
		n += len(d.Villages)
	}
	return n
}

// Find returns the district named name.
func (l DistrictList) Find(name string) (*District, bool) {
	for i := range l {
		if l[i].Name == name {
			return &l[i], true
		}
	}
	return nil, false
}
