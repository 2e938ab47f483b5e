package entity

import "time"

// StoreSettings identidad del negocio que aparece en facturas y reportes (registro único).
type StoreSettings struct {
	Name      string
	NIT       string
	Address   string
	Phone     string
	Logo      string
	UpdatedAt time.Time
}

// DefaultStoreSettings valores usados cuando aún no se ha configurado la tienda.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		Name: "Happy Happy Piñatería",
		Logo: "/logoHappy.jpeg",
	}
}
