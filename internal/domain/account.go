package domain

// BrokerAccount es la forma mínima de una cuenta MetaAPI que muestra el diario.
type BrokerAccount struct {
	ID               string
	Name             string
	Login            string
	Server           string
	Platform         string // mt4 | mt5
	Type             string // cloud-g1, cloud-g2...
	Region           string
	State            string // DEPLOYED, UNDEPLOYED, ...
	ConnectionStatus string // CONNECTED, DISCONNECTED, ...
	Reliability      string
}

// Deployed devuelve true si la cuenta está desplegada (y por tanto facturando).
func (a BrokerAccount) Deployed() bool {
	return a.State == "DEPLOYED"
}

// AccountUsage resume las cuentas para la vista de consumo/facturación.
type AccountUsage struct {
	Total        int
	Deployed     int
	Undeployed   int
	Connected    int
	ByRegion     map[string]int
	HighReliable int
}

// SummarizeAccounts agrega las cuentas en un AccountUsage.
func SummarizeAccounts(accounts []BrokerAccount) AccountUsage {
	u := AccountUsage{Total: len(accounts), ByRegion: make(map[string]int)}
	for _, a := range accounts {
		if a.Deployed() {
			u.Deployed++
		} else {
			u.Undeployed++
		}
		if a.ConnectionStatus == "CONNECTED" {
			u.Connected++
		}
		if a.Region != "" {
			u.ByRegion[a.Region]++
		}
		if a.Reliability == "high" {
			u.HighReliable++
		}
	}
	return u
}
