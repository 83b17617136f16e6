package topics

const (
	// Parlays
	ParlayBuilt = "parlay_built"

	// Redis
	ParlaysBroadcast = "parlays_broadcast"
	LatestKeyPrefix  = "parlays:latest:"
)

// LatestKey é a chave Redis com os parlays mais recentes de um esporte
func LatestKey(sport string) string { return LatestKeyPrefix + sport }
