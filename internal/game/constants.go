package game

const (
	// MinPlayersToStart is the minimum room membership for a round to run.
	MinPlayersToStart = 2

	// RoundSeconds is the countdown a fresh game session starts from.
	RoundSeconds = 90

	// StartDelaySeconds is the countdown shown before a round begins.
	StartDelaySeconds = 3

	// RestartDelaySeconds is the pause between a round ending and the next
	// start attempt.
	RestartDelaySeconds = 10
)
