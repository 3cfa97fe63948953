package memo

const defaultNumShards = 16

// Config sizes a Map.
type Config struct {
	NumShards int // default: 16
}

func NewConfig(numShards int) Config {
	if numShards <= 0 {
		numShards = defaultNumShards
	}
	return Config{
		NumShards: numShards,
	}
}
