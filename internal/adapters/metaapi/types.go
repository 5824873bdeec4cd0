package metaapi

import "github.com/alejandrodnm/fxjournal/internal/domain"

// accountDTO es la cuenta tal como la devuelve GET /users/current/accounts.
// Solo se usa dentro de este paquete.
type accountDTO struct {
	ID               string `json:"_id"`
	Name             string `json:"name"`
	Login            string `json:"login"`
	Server           string `json:"server"`
	Platform         string `json:"platform"`
	Type             string `json:"type"`
	Region           string `json:"region"`
	State            string `json:"state"`
	ConnectionStatus string `json:"connectionStatus"`
	Reliability      string `json:"reliability"`
}

func (a accountDTO) toDomain() domain.BrokerAccount {
	return domain.BrokerAccount{
		ID:               a.ID,
		Name:             a.Name,
		Login:            a.Login,
		Server:           a.Server,
		Platform:         a.Platform,
		Type:             a.Type,
		Region:           a.Region,
		State:            a.State,
		ConnectionStatus: a.ConnectionStatus,
		Reliability:      a.Reliability,
	}
}
