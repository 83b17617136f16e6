package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
type ClientMsg struct {
	Type  string `json:"type"`  // subscribe | unsubscribe | ping
	Sport string `json:"sport"` // requerido em subscribe/unsubscribe
}

// ParlayUpdate é o envelope publicado pelo parlay-builder no Redis
// e repassado sem alteração aos clientes do esporte
type ParlayUpdate struct {
	Sport   string `json:"sport"`
	Payload any    `json:"payload"`
}
