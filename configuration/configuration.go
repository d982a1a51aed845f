package configuration

type Configuration struct {
	HttpAddr           string `usage:"HTTP address"`
	Dir                string `usage:"data directory"`
	DefaultMinCapacity int    `usage:"minimum capacity for new stores"`
	DefaultMaxCapacity int    `usage:"maximum capacity for new stores, 0 means unbounded"`
	EnableCompression  bool   `usage:"compress HTTP responses"`
	HttpsEnabled       bool   `usage:"serve HTTPS instead of HTTP"`
	HttpsSelfsigned    bool   `usage:"generate a self-signed certificate on boot"`
	Version            bool   `usage:"show version and exit"`
	ShowBanner         bool   `usage:"show big banner"`
	ShowConfig         bool   `usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:           ":8080",
		Dir:                "data",
		DefaultMinCapacity: 0,
		DefaultMaxCapacity: 0,
	}
}
