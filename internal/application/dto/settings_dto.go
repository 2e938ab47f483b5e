package dto

// StoreSettingsRequest body para PUT /api/settings/store.
type StoreSettingsRequest struct {
	Name    string `json:"name"`
	NIT     string `json:"nit"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Logo    string `json:"logo"`
}

// StoreSettingsResponse configuración de la tienda.
type StoreSettingsResponse struct {
	Name    string `json:"name"`
	NIT     string `json:"nit"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Logo    string `json:"logo"`
}
