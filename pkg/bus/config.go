package bus

import "time"

// RedisOption configures the Redis bus.
type RedisOption func(*RedisConfig)

// RedisConfig holds Redis bus configuration.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	ReconnectMax int
	BackoffMin   time.Duration
	BackoffMax   time.Duration
}

// WithRedisAddr sets the Redis address.
func WithRedisAddr(addr string) RedisOption {
	return func(c *RedisConfig) {
		c.Addr = addr
	}
}

// WithRedisAuth sets password and database number.
func WithRedisAuth(password string, db int) RedisOption {
	return func(c *RedisConfig) {
		c.Password = password
		c.DB = db
	}
}

// WithRedisReconnect configures the subscribe retry policy.
func WithRedisReconnect(max int, backoffMin, backoffMax time.Duration) RedisOption {
	return func(c *RedisConfig) {
		c.ReconnectMax = max
		c.BackoffMin = backoffMin
		c.BackoffMax = backoffMax
	}
}

// KafkaOption configures the Kafka bus.
type KafkaOption func(*KafkaConfig)

// KafkaConfig holds Kafka bus configuration.
type KafkaConfig struct {
	Brokers      []string
	GroupID      string
	MaxWait      time.Duration
	ReconnectMax int
	BackoffMin   time.Duration
	BackoffMax   time.Duration
}

// WithKafkaBrokers sets Kafka brokers.
func WithKafkaBrokers(brokers []string) KafkaOption {
	return func(c *KafkaConfig) {
		c.Brokers = brokers
	}
}

// WithKafkaGroupID sets the consumer group ID.
func WithKafkaGroupID(groupID string) KafkaOption {
	return func(c *KafkaConfig) {
		c.GroupID = groupID
	}
}

// WithKafkaMaxWait bounds how long the reader blocks before re-polling.
func WithKafkaMaxWait(maxWait time.Duration) KafkaOption {
	return func(c *KafkaConfig) {
		c.MaxWait = maxWait
	}
}

// WithKafkaReconnect configures the subscribe retry policy.
func WithKafkaReconnect(max int, backoffMin, backoffMax time.Duration) KafkaOption {
	return func(c *KafkaConfig) {
		c.ReconnectMax = max
		c.BackoffMin = backoffMin
		c.BackoffMax = backoffMax
	}
}
