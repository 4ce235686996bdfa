package bus

import (
	"time"

	"github.com/zeusync/pursuit/internal/core/observability/log"
)

// LogObserver writes every publish and delivery to a logger at debug level.
// Registering it also turns on GetMetrics.
type LogObserver struct {
	logger log.Log
}

func NewLogObserver(logger log.Log) *LogObserver {
	if logger == nil {
		logger = log.NewNop()
	}
	return &LogObserver{logger: logger.Named("bus")}
}

func (o *LogObserver) OnPublish(eventType string, event Event) {
	o.logger.Debug("event published",
		log.String("type", eventType),
		log.String("source", event.Source()))
}

func (o *LogObserver) OnDelivered(eventType string, handlers int, err error, took time.Duration) {
	fields := []log.Field{
		log.String("type", eventType),
		log.Int("handlers", handlers),
		log.Duration("took", took),
	}
	if err != nil {
		fields = append(fields, log.Error(err))
	}
	o.logger.Debug("event delivered", fields...)
}
