// Package output renders parsed districts as JSON, CSV and xlsx.
package output

import (
	"encoding/json"

	"github.com/ukaji3/compliance-go/pkg/compliance/models"
)

// ToJSON serializes districts to JSON. A nil list renders as [].
func ToJSON(districts models.DistrictList, pretty bool) ([]byte, error) {
	if districts == nil {
		districts = models.DistrictList{}
	}
	if pretty {
		return json.MarshalIndent(districts, "", "  ")
	}
	return json.Marshal(districts)
}

// ToJSONValue serializes any value with the same formatting rules as ToJSON.
func ToJSONValue(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
