package config

const (
	DefaultOutputDir  = "./output-images"
	DefaultExchange   = "image_processing"
	DefaultRoutingKey = "resized"
)

var DefaultSizes = []int{32, 64, 128}

// Config is the job configuration for one run. It is built once by ParseArgs
// (and optionally completed by InitializeEnvs) and never mutated afterwards.
type Config struct {
	InputDir   string
	OutputDir  string
	Optimize   bool
	Sizes      []int
	ConfigFile string
	Watch      bool

	// S3 upload of every output
	Upload      bool
	AwsBucket   string
	S3KeyPrefix string

	// RabbitMQ event per output
	Notify      bool
	RabbitMqURL string
	Exchange    string
	RoutingKey  string
}
