package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"store-locator-shopify-layer/internal/domain"
)

// coordinate accepts a JSON number, a numeric string, an empty string or null
type coordinate struct {
	value *float64
}

func (c *coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		c.value = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		c.value = domain.ParseCoordinate(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid coordinate %s", data)
	}
	c.value = &f
	return nil
}

// storeRequest is the create/update body of a store location
type storeRequest struct {
	Name         string     `json:"name"`
	Address      string     `json:"address"`
	Latitude     coordinate `json:"latitude"`
	Longitude    coordinate `json:"longitude"`
	ProductID    string     `json:"productId"`
	CollectionID string     `json:"collectionId"`
}

func (req storeRequest) toInput() domain.StoreInput {
	return domain.StoreInput{
		Name:         strings.TrimSpace(req.Name),
		Address:      strings.TrimSpace(req.Address),
		Latitude:     req.Latitude.value,
		Longitude:    req.Longitude.value,
		ProductID:    domain.OptionalString(strings.TrimSpace(req.ProductID)),
		CollectionID: domain.OptionalString(strings.TrimSpace(req.CollectionID)),
	}
}

// decodeStoreRequest reads a JSON body, or a urlencoded/multipart form as the admin UI posts it
func decodeStoreRequest(r *http.Request) (domain.StoreInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil && err != http.ErrNotMultipart {
			return domain.StoreInput{}, fmt.Errorf("invalid form body: %w", err)
		}
		req := storeRequest{
			Name:         r.FormValue("name"),
			Address:      r.FormValue("address"),
			Latitude:     coordinate{value: domain.ParseCoordinate(r.FormValue("latitude"))},
			Longitude:    coordinate{value: domain.ParseCoordinate(r.FormValue("longitude"))},
			ProductID:    r.FormValue("productId"),
			CollectionID: r.FormValue("collectionId"),
		}
		return req.toInput(), nil

	default:
		var req storeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return domain.StoreInput{}, fmt.Errorf("invalid JSON body: %w", err)
		}
		return req.toInput(), nil
	}
}
