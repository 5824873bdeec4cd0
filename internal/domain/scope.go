package domain

import "strings"

// Scope identifica al dueño de los trades importados.
// Se pasa explícitamente al pipeline: no hay caché global de perfil/usuario.
type Scope struct {
	ProfileID string `yaml:"profile_id" json:"profile_id"`
	UserID    string `yaml:"user_id" json:"user_id"`
}

// IsZero devuelve true si falta el perfil o el usuario.
func (s Scope) IsZero() bool {
	return strings.TrimSpace(s.ProfileID) == "" || strings.TrimSpace(s.UserID) == ""
}

func (s Scope) String() string {
	return s.ProfileID + "/" + s.UserID
}
